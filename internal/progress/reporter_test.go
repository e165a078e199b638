package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanTotal(t *testing.T) {
	assert.Equal(t, 0, Plan{}.Total())
	assert.Equal(t, 7, Plan{KindTerm: 4, KindTool: 3}.Total())
}

func TestCIReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{Out: &buf}
	r.Start(Plan{KindTerm: 1, KindCourse: 1})
	r.Record(KindTerm, "REPS")
	r.Record(KindCourse, "W-2 Escape Plan")
	r.Finish()

	assert.Equal(t, "Seeding 2 catalog records (terms 0/1, courses 0/1)\n"+
		"[1/2] term REPS\n"+
		"[2/2] course W-2 Escape Plan\n"+
		"Seeded 1 terms, 1 courses\n", buf.String())
}

func TestTerminalReporterCounts(t *testing.T) {
	var buf bytes.Buffer
	r := &TerminalReporter{Out: &buf}
	r.Start(Plan{KindTerm: 2, KindLesson: 1, KindTool: 1})
	assert.Equal(t, "terms 0/2, lessons 0/1, tools 0/1", r.counts())

	r.Record(KindTerm, "REPS")
	r.Record(KindTerm, "STR")
	r.Record(KindTool, "Entity Planner")
	assert.Equal(t, "terms 2/2, lessons 0/1, tools 1/1", r.counts())
	require.NotNil(t, r.bar)
	assert.EqualValues(t, 3, r.bar.State().CurrentNum)

	r.Finish()
	assert.Contains(t, buf.String(), "Seeded 2 terms, 1 tools\n")
}

func TestTerminalReporterUnstarted(t *testing.T) {
	var buf bytes.Buffer
	r := &TerminalReporter{Out: &buf}
	r.Record(KindTerm, "REPS")
	r.Finish()
	assert.Empty(t, buf.String())
}

func TestNewReporterCI(t *testing.T) {
	t.Setenv("CI", "true")
	_, ok := NewReporter().(*CIReporter)
	assert.True(t, ok)
}

func TestNewReporterTerminal(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	_, ok := NewReporter().(*TerminalReporter)
	assert.True(t, ok)
}
