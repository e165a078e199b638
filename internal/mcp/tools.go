package mcp

import "github.com/mark3labs/mcp-go/mcp"

// lookupTermTool defines the lookup_term MCP tool.
var lookupTermTool = mcp.NewTool("lookup_term",
	mcp.WithDescription("Look up a tax strategy glossary term. Returns its definition, plain English explanation, example and related terms."),
	mcp.WithString("term",
		mcp.Required(),
		mcp.Description("Term name, abbreviation or term id, e.g. REPS or qsbs-qualified-small-business-stock"),
	),
)

// highlightTextTool defines the highlight_text MCP tool.
var highlightTextTool = mcp.NewTool("highlight_text",
	mcp.WithDescription("Mark glossary terms in HTML or plain text. Returns the annotated HTML and the list of marked terms as JSON."),
	mcp.WithString("content",
		mcp.Required(),
		mcp.Description("HTML or plain text to annotate"),
	),
)

// listCoursesTool defines the list_courses MCP tool.
var listCoursesTool = mcp.NewTool("list_courses",
	mcp.WithDescription("List the courses with their lessons in order."),
	mcp.WithString("course_id",
		mcp.Description("Only list this course"),
	),
)

// generatePlaybookTool defines the generate_playbook MCP tool.
var generatePlaybookTool = mcp.NewTool("generate_playbook",
	mcp.WithDescription("Generate a personalized tax strategy playbook from a planning profile. Returns JSON."),
	mcp.WithString("entity_type",
		mcp.Required(),
		mcp.Enum("w2_earner", "business_owner", "mixed"),
	),
	mcp.WithString("income_range",
		mcp.Required(),
		mcp.Enum("50k_100k", "100k_200k", "200k_500k", "500k_1m", "1m_plus"),
	),
	mcp.WithString("real_estate",
		mcp.Required(),
		mcp.Enum("none", "rentals", "reps"),
	),
	mcp.WithString("asset_protection",
		mcp.Required(),
		mcp.Enum("none", "interested", "existing"),
	),
	mcp.WithString("estate_planning",
		mcp.Required(),
		mcp.Enum("not_yet", "soon", "active"),
	),
	mcp.WithString("goals",
		mcp.Description("Free-form goals"),
	),
)
