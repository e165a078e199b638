package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/escape-plan/internal/glossary"
	"github.com/ziadkadry99/escape-plan/internal/planner"
)

// handleLookupTerm finds a glossary term by id, then by name.
func (s *Server) handleLookupTerm(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q, err := request.RequireString("term")
	if err != nil || strings.TrimSpace(q) == "" {
		return mcp.NewToolResultError("missing required parameter: term"), nil
	}

	store := s.glossary.Store()
	t, err := store.GetByID(ctx, q)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	if t == nil {
		hits, err := store.Search(ctx, q)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
		}
		if len(hits) == 0 {
			return mcp.NewToolResultText(fmt.Sprintf("No glossary term matches %q.", q)), nil
		}
		best := glossary.BestMatch(hits, q)
		t = &best
	}

	return mcp.NewToolResultText(s.formatTerm(*t)), nil
}

func (s *Server) formatTerm(t glossary.Term) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", t.Term)
	fmt.Fprintf(&sb, "ID: %s\n", t.ID)
	if t.Category != "" {
		fmt.Fprintf(&sb, "Category: %s\n", t.Category)
	}
	fmt.Fprintf(&sb, "Course: %s\n", s.resolve(t.Term))
	fmt.Fprintf(&sb, "\nDefinition: %s\n", t.Definition)
	if t.PlainEnglish != "" {
		fmt.Fprintf(&sb, "\nIn plain English: %s\n", t.PlainEnglish)
	}
	if t.CaseStudy != "" {
		fmt.Fprintf(&sb, "\nExample: %s\n", t.CaseStudy)
	}
	if t.KeyBenefit != "" {
		fmt.Fprintf(&sb, "\nKey benefit: %s\n", t.KeyBenefit)
	}
	if len(t.RelatedTerms) > 0 {
		fmt.Fprintf(&sb, "\nRelated: %s\n", strings.Join(t.RelatedTerms, ", "))
	}
	return sb.String()
}

// handleHighlightText annotates content against the current glossary.
func (s *Server) handleHighlightText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: content"), nil
	}

	res, err := s.glossary.Highlight(ctx, content)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("highlight failed: %v", err)), nil
	}
	if res.Annotations == nil {
		res.Annotations = []glossary.Annotation{}
	}
	out, err := json.MarshalIndent(struct {
		HTML        string                `json:"html"`
		Annotations []glossary.Annotation `json:"annotations"`
	}{res.HTML, res.Annotations}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// handleListCourses lists courses and their lessons.
func (s *Server) handleListCourses(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	only := request.GetString("course_id", "")

	all, err := s.courses.ListCourses(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing courses: %v", err)), nil
	}

	var sb strings.Builder
	n := 0
	for _, c := range all {
		if only != "" && c.ID != only {
			continue
		}
		n++
		lessons, err := s.courses.ListLessons(ctx, c.ID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("listing lessons: %v", err)), nil
		}
		fmt.Fprintf(&sb, "## %s (%s)\n", c.Title, c.ID)
		fmt.Fprintf(&sb, "%s\n", c.Description)
		fmt.Fprintf(&sb, "Type: %s, %d lessons, about %d hours\n", c.Type, c.TotalLessons, c.EstimatedHours)
		for _, l := range lessons {
			fmt.Fprintf(&sb, "  %d. %s [%s] %d min, %d XP\n", l.OrderIndex+1, l.Title, l.ID, l.DurationMinutes, l.XPAvailable)
		}
		sb.WriteString("\n")
	}

	if n == 0 {
		if only != "" {
			return mcp.NewToolResultError(fmt.Sprintf("no course with id %q", only)), nil
		}
		return mcp.NewToolResultText("No courses found. Run `escapeplan seed` to load the catalog."), nil
	}
	return mcp.NewToolResultText(strings.TrimRight(sb.String(), "\n")), nil
}

// handleGeneratePlaybook runs the playbook generator on the given profile.
func (s *Server) handleGeneratePlaybook(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profile := planner.Profile{
		EntityType:      planner.EntityType(request.GetString("entity_type", "")),
		IncomeRange:     planner.IncomeRange(request.GetString("income_range", "")),
		RealEstate:      planner.RealEstate(request.GetString("real_estate", "")),
		AssetProtection: planner.AssetProtection(request.GetString("asset_protection", "")),
		EstatePlanning:  planner.EstatePlanning(request.GetString("estate_planning", "")),
		Goals:           request.GetString("goals", ""),
	}

	pb, err := planner.GeneratePlaybook(profile)
	if errors.Is(err, planner.ErrIncompleteProfile) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid profile: %v", err)), nil
	}

	out, err := json.MarshalIndent(pb, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding playbook: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
