package tools

// Tool is an interactive planning tool listed in the tools catalog.
type Tool struct {
	ID          string                 `json:"id" yaml:"id"`
	Name        string                 `json:"name" yaml:"name"`
	Description string                 `json:"description" yaml:"description"`
	Type        string                 `json:"type" yaml:"type"`
	Premium     bool                   `json:"premium" yaml:"premium"`
	Config      map[string]interface{} `json:"config,omitempty" yaml:"config"`
}
