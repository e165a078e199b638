package assistant

import "strings"

var (
	glossaryKeywords = []string{
		"what is", "define", "explain", "meaning", "definition",
		"how does", "what does", "tell me about",
	}
	courseKeywords = []string{
		"course", "module", "lesson", "learn", "study", "next step",
		"where do i start", "what should i read", "recommend",
	}
	toolKeywords = []string{
		"calculator", "tool", "entity builder", "escape plan",
		"how to use", "build", "calculate", "plan",
	}
	strategyKeywords = []string{
		"tax strategy", "reduce taxes", "save money", "business structure",
		"reps", "depreciation", "real estate", "c-corp", "s-corp", "mso",
		"qsbs", "capital gains", "deductions", "entity planning",
	}
)

// Detect picks the handler for a message. The page the user is on wins
// over the message text; keyword groups are tried in a fixed order.
func Detect(message, currentPage string) Module {
	page := strings.ToLower(currentPage)
	switch {
	case strings.Contains(page, "glossary"):
		return ModuleGlossary
	case strings.Contains(page, "course"), strings.Contains(page, "module"):
		return ModuleCourse
	case strings.Contains(page, "tool"), strings.Contains(page, "calculator"):
		return ModuleTool
	}

	msg := strings.ToLower(message)
	switch {
	case containsAny(msg, glossaryKeywords...):
		return ModuleGlossary
	case containsAny(msg, courseKeywords...):
		return ModuleCourse
	case containsAny(msg, toolKeywords...):
		return ModuleTool
	case containsAny(msg, strategyKeywords...):
		return ModuleStrategy
	}
	return ModuleGeneral
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

var questionWords = map[string]bool{
	"what": true, "is": true, "define": true, "explain": true, "tell": true,
	"me": true, "about": true, "the": true, "a": true, "an": true,
}

// ExtractTerm strips question words and punctuation from a glossary
// question, leaving the term being asked about. It returns "" when
// nothing meaningful remains.
func ExtractTerm(message string) string {
	var kept []string
	for _, w := range strings.Fields(message) {
		if !questionWords[strings.ToLower(w)] {
			kept = append(kept, w)
		}
	}
	term := strings.Join(kept, " ")
	term = strings.NewReplacer("?", "", ".", "").Replace(term)
	term = strings.TrimSpace(term)
	if len(term) <= 1 {
		return ""
	}
	return term
}
