package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/escape-plan/internal/courses"
	"github.com/ziadkadry99/escape-plan/internal/glossary"
)

// Version is reported to MCP clients; the mcp command sets it.
var Version = "dev"

// Server wraps an MCP server that exposes the glossary, courses and the
// playbook generator as tools.
type Server struct {
	glossary *glossary.Service
	courses  *courses.Store
	resolve  glossary.CourseResolver
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server. resolve maps a term to the course it
// first appears in and may be nil.
func NewServer(gloss *glossary.Service, courseStore *courses.Store, resolve glossary.CourseResolver) *Server {
	if resolve == nil {
		resolve = glossary.MappedCourses(nil)
	}
	s := &Server{
		glossary: gloss,
		courses:  courseStore,
		resolve:  resolve,
	}

	s.mcp = server.NewMCPServer(
		"escapeplan",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(lookupTermTool, s.handleLookupTerm)
	s.mcp.AddTool(highlightTextTool, s.handleHighlightText)
	s.mcp.AddTool(listCoursesTool, s.handleListCourses)
	s.mcp.AddTool(generatePlaybookTool, s.handleGeneratePlaybook)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
