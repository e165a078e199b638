package assistant

import "time"

// Module names the handler that answered a message.
type Module string

const (
	ModuleStrategy Module = "strategy"
	ModuleGlossary Module = "glossary"
	ModuleCourse   Module = "course"
	ModuleTool     Module = "tool"
	ModuleProgress Module = "progress"
	ModuleGeneral  Module = "general"
)

// Valid reports whether m names a known handler.
func (m Module) Valid() bool {
	switch m {
	case ModuleStrategy, ModuleGlossary, ModuleCourse, ModuleTool, ModuleProgress, ModuleGeneral:
		return true
	}
	return false
}

// Request is one user message to the assistant.
type Request struct {
	UserID      string                 `json:"user_id"`
	Message     string                 `json:"message"`
	Context     map[string]interface{} `json:"context,omitempty"`
	Module      Module                 `json:"module_type,omitempty"` // empty = detect
	CurrentPage string                 `json:"current_page,omitempty"`
	SessionID   string                 `json:"session_id,omitempty"`
}

// Action is a follow-up the client can offer as a button.
type Action struct {
	Type   string `json:"type"`
	Text   string `json:"text"`
	Action string `json:"action"`
}

// CourseLink points at a course relevant to the answer.
type CourseLink struct {
	Title string `json:"title"`
	ID    string `json:"id"`
	Type  string `json:"type"`
}

// Response is the assistant's answer.
type Response struct {
	ID               string       `json:"id"`
	SessionID        string       `json:"session_id"`
	Response         string       `json:"response"`
	ModuleUsed       Module       `json:"module_used"`
	RelatedTerms     []string     `json:"related_terms"`
	SuggestedActions []Action     `json:"suggested_actions"`
	CourseLinks      []CourseLink `json:"course_links"`
	Confidence       float64      `json:"confidence"`
	Timestamp        time.Time    `json:"timestamp"`
}

// Message is a stored conversation turn.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Module    Module    `json:"module,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Session groups the messages of one conversation.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
