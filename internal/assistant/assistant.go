package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ziadkadry99/escape-plan/internal/courses"
	"github.com/ziadkadry99/escape-plan/internal/glossary"
	"github.com/ziadkadry99/escape-plan/internal/llm"
	"github.com/ziadkadry99/escape-plan/internal/rewards"
	"github.com/ziadkadry99/escape-plan/internal/tools"
)

// ErrEmptyMessage is returned for a request without message text.
var ErrEmptyMessage = errors.New("assistant: message is required")

// Deps are the data sources the handlers read from. Similar and LLM are
// optional.
type Deps struct {
	Glossary *glossary.Store
	Similar  glossary.SimilarFinder
	Courses  *courses.Store
	Tools    *tools.Store
	XP       *rewards.Store
	LLM      llm.Provider
	Logger   *zap.Logger
}

// Assistant answers learner questions by routing them to a scripted
// handler per module and records each exchange.
type Assistant struct {
	store  *Store
	deps   Deps
	logger *zap.Logger
}

// New creates an assistant. store may be nil to skip persistence.
func New(store *Store, deps Deps) *Assistant {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assistant{store: store, deps: deps, logger: logger.Named("assistant")}
}

// Store returns the conversation store.
func (a *Assistant) Store() *Store { return a.store }

// Process answers req. An explicit, valid req.Module skips detection.
func (a *Assistant) Process(ctx context.Context, req Request) (*Response, error) {
	if req.Message == "" {
		return nil, ErrEmptyMessage
	}
	if req.UserID == "" {
		req.UserID = rewards.DefaultUserID
	}
	module := req.Module
	if !module.Valid() {
		module = Detect(req.Message, req.CurrentPage)
	}

	if a.store != nil {
		sess, err := a.store.EnsureSession(ctx, req.SessionID, req.UserID)
		if err != nil {
			return nil, err
		}
		req.SessionID = sess.ID
	}

	var (
		resp *Response
		err  error
	)
	switch module {
	case ModuleStrategy:
		resp = a.handleStrategy(req)
	case ModuleGlossary:
		resp, err = a.handleGlossary(ctx, req)
	case ModuleCourse:
		resp, err = a.handleCourse(ctx, req)
	case ModuleTool:
		resp, err = a.handleTool(ctx, req)
	case ModuleProgress:
		resp, err = a.handleProgress(ctx, req)
	default:
		resp = a.handleGeneral(ctx, req)
	}
	if err != nil {
		return nil, fmt.Errorf("%s handler: %w", module, err)
	}

	resp.ID = uuid.New().String()
	resp.SessionID = req.SessionID
	resp.Timestamp = time.Now().UTC()
	if resp.Confidence == 0 {
		resp.Confidence = 1.0
	}
	if resp.RelatedTerms == nil {
		resp.RelatedTerms = []string{}
	}
	if resp.SuggestedActions == nil {
		resp.SuggestedActions = []Action{}
	}
	if resp.CourseLinks == nil {
		resp.CourseLinks = []CourseLink{}
	}

	if a.store != nil {
		if _, err := a.store.AddMessage(ctx, Message{SessionID: req.SessionID, Role: "user", Content: req.Message}); err != nil {
			return nil, err
		}
		if _, err := a.store.AddMessage(ctx, Message{SessionID: req.SessionID, Role: "assistant", Content: resp.Response, Module: resp.ModuleUsed}); err != nil {
			return nil, err
		}
	}

	a.logger.Debug("answered",
		zap.String("session_id", req.SessionID),
		zap.String("module", string(resp.ModuleUsed)))
	return resp, nil
}

// history returns the stored turns of the session as LLM messages.
func (a *Assistant) history(ctx context.Context, sessionID string) []llm.Message {
	if a.store == nil || sessionID == "" {
		return nil
	}
	msgs, err := a.store.Messages(ctx, sessionID)
	if err != nil {
		a.logger.Warn("loading history failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil
	}
	out := make([]llm.Message, 0, len(msgs))
	for _, m := range msgs {
		role := llm.RoleUser
		if m.Role == "assistant" {
			role = llm.RoleAssistant
		}
		out = append(out, llm.Message{Role: role, Content: m.Content})
	}
	return out
}

func courseLink(c courses.Course) CourseLink {
	return CourseLink{Title: c.Title, ID: c.ID, Type: "course"}
}
