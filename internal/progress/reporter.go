package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Kind is the type of catalog record being seeded.
type Kind string

const (
	KindTerm   Kind = "term"
	KindCourse Kind = "course"
	KindLesson Kind = "lesson"
	KindTool   Kind = "tool"
)

// kinds fixes the order counts are printed in.
var kinds = []Kind{KindTerm, KindCourse, KindLesson, KindTool}

// Plan is how many records of each kind a seed run will write.
type Plan map[Kind]int

// Total is the number of records in the plan.
func (p Plan) Total() int {
	n := 0
	for _, c := range p {
		n += c
	}
	return n
}

// Reporter provides progress feedback while the catalog is seeded.
type Reporter interface {
	Start(plan Plan)
	Record(kind Kind, name string)
	Finish()
}

// NewReporter returns a TerminalReporter for interactive use, or a
// CIReporter if a CI environment variable is set.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{Out: os.Stderr}
	}
	return &TerminalReporter{Out: os.Stderr}
}

// Nop discards progress.
type Nop struct{}

func (Nop) Start(Plan)          {}
func (Nop) Record(Kind, string) {}
func (Nop) Finish()             {}

// tally tracks records written against the plan.
type tally struct {
	plan Plan
	done map[Kind]int
}

func (t *tally) start(plan Plan) {
	t.plan = plan
	t.done = make(map[Kind]int, len(kinds))
}

func (t *tally) record(kind Kind) int {
	if t.done == nil {
		t.done = make(map[Kind]int, len(kinds))
	}
	t.done[kind]++
	n := 0
	for _, c := range t.done {
		n += c
	}
	return n
}

// counts renders "terms 3/36, courses 0/3", skipping kinds the plan has none of.
func (t *tally) counts() string {
	var parts []string
	for _, k := range kinds {
		if t.plan[k] == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%ss %d/%d", k, t.done[k], t.plan[k]))
	}
	return strings.Join(parts, ", ")
}

// summary renders "Seeded 36 terms, 3 courses".
func (t *tally) summary() string {
	var parts []string
	for _, k := range kinds {
		if n := t.done[k]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %ss", n, k))
		}
	}
	if len(parts) == 0 {
		return "Seeded nothing"
	}
	return "Seeded " + strings.Join(parts, ", ")
}

// TerminalReporter displays a progress bar whose description carries the
// per-kind counts.
type TerminalReporter struct {
	Out io.Writer
	tally
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(plan Plan) {
	r.start(plan)
	r.bar = progressbar.NewOptions(plan.Total(),
		progressbar.OptionSetWriter(r.out()),
		progressbar.OptionSetDescription(r.counts()),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(50*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Record(kind Kind, _ string) {
	if r.bar == nil {
		return
	}
	n := r.record(kind)
	r.bar.Describe(r.counts())
	_ = r.bar.Set(n)
}

func (r *TerminalReporter) Finish() {
	if r.bar == nil {
		return
	}
	_ = r.bar.Finish()
	fmt.Fprintln(r.out(), r.summary())
}

func (r *TerminalReporter) out() io.Writer {
	if r.Out == nil {
		return os.Stderr
	}
	return r.Out
}

// CIReporter prints line-by-line progress suitable for CI logs.
type CIReporter struct {
	Out io.Writer
	tally
}

func (r *CIReporter) Start(plan Plan) {
	r.start(plan)
	fmt.Fprintf(r.out(), "Seeding %d catalog records (%s)\n", plan.Total(), r.counts())
}

func (r *CIReporter) Record(kind Kind, name string) {
	n := r.record(kind)
	fmt.Fprintf(r.out(), "[%d/%d] %s %s\n", n, r.plan.Total(), kind, name)
}

func (r *CIReporter) Finish() {
	fmt.Fprintln(r.out(), r.summary())
}

func (r *CIReporter) out() io.Writer {
	if r.Out == nil {
		return os.Stderr
	}
	return r.Out
}
