package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRendererHTML(t *testing.T) {
	r := New()

	out, err := r.HTML("## Entity Selection\n\nPick an **S-Corp** when profits justify payroll.\n\n| Entity | Rate |\n|---|---|\n| C-Corp | 21% |\n")
	require.NoError(t, err)
	assert.Contains(t, out, `<h2 id="entity-selection">Entity Selection</h2>`)
	assert.Contains(t, out, "<strong>S-Corp</strong>")
	assert.Contains(t, out, "<table>")
}

func TestRendererPassesRawHTML(t *testing.T) {
	out, err := New().HTML("<section class=\"module-summary\"><p>Hi</p></section>\n")
	require.NoError(t, err)
	assert.Contains(t, out, `<section class="module-summary">`)
}

func TestRendererHighlightsCode(t *testing.T) {
	out, err := New().HTML("```go\nfunc main() {}\n```\n")
	require.NoError(t, err)
	assert.Contains(t, out, "<pre")
	assert.Contains(t, out, "func")
}

func TestWhatYoullLearnHTML(t *testing.T) {
	content := "Intro\n## What You'll Learn\n<ul><li>How REPS works</li>\n<li> The 750-hour test </li></ul>\n## Next"
	assert.Equal(t, []string{"How REPS works", "The 750-hour test"}, WhatYoullLearn(content))
}

func TestWhatYoullLearnMarkdown(t *testing.T) {
	content := strings.Join([]string{
		"## What You'll Learn",
		"- How to map W-2 income",
		"• Which levers apply",
		"  to high earners",
		"- Timing rules",
		"",
		"Body text starts here.",
		"- not a learning point",
	}, "\n")

	assert.Equal(t, []string{
		"How to map W-2 income",
		"Which levers apply to high earners",
		"Timing rules",
	}, WhatYoullLearn(content))
}

func TestWhatYoullLearnStopsAtHeading(t *testing.T) {
	content := "## What You'll Learn\n- One\n## Details\n- Two"
	assert.Equal(t, []string{"One"}, WhatYoullLearn(content))
}

func TestWhatYoullLearnMissing(t *testing.T) {
	assert.Empty(t, WhatYoullLearn("no section here"))
}

func TestSummary(t *testing.T) {
	rules := []SummaryRule{
		{Keywords: []string{"REPS", "Real Estate Professional"}, Text: "REPS summary"},
		{Keywords: []string{"Entity", "MSO"}, Text: "Entity summary"},
	}

	embedded := `<section class="module-summary"><h3>Summary</h3><p>
	  Embedded summary.
	</p></section>`
	assert.Equal(t, "Embedded summary.", Summary(embedded, "Module 3: REPS", rules))
	assert.Equal(t, "REPS summary", Summary("", "Module 3: REPS Activation", rules))
	assert.Equal(t, "Entity summary", Summary("", "The MSO Blueprint", rules))
	assert.Equal(t,
		"This module provides strategic insights and actionable frameworks for timing arbitrage, helping you optimize your tax situation and build long-term wealth.",
		Summary("", "Module 5: Timing Arbitrage", rules))
}
