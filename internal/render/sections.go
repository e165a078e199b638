package render

import (
	"regexp"
	"strings"
)

const learnHeading = "## What You'll Learn"

var (
	learnList    = regexp.MustCompile(`(?s)## What You'll Learn\s*<ul>(.*?)</ul>`)
	listItem     = regexp.MustCompile(`(?s)<li>(.*?)</li>`)
	summaryPara  = regexp.MustCompile(`(?s)<section class="module-summary">.*?<p>\s*(.*?)\s*</p>`)
	modulePrefix = regexp.MustCompile(`(?i)^module \d+:?\s*`)
)

// WhatYoullLearn extracts the bullet points under the "What You'll Learn"
// heading. The list may be an HTML <ul> or markdown bullets ("-" or "•").
func WhatYoullLearn(content string) []string {
	if m := learnList.FindStringSubmatch(content); m != nil {
		var out []string
		for _, li := range listItem.FindAllStringSubmatch(m[1], -1) {
			if item := strings.TrimSpace(li[1]); item != "" {
				out = append(out, item)
			}
		}
		if len(out) > 0 {
			return out
		}
	}

	i := strings.Index(content, learnHeading)
	if i < 0 {
		return nil
	}
	lines := strings.Split(content[i+len(learnHeading):], "\n")

	var out []string
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			blank = true
			continue
		case strings.HasPrefix(line, "##"):
			return out
		case strings.HasPrefix(line, "-"), strings.HasPrefix(line, "•"):
			item := strings.TrimSpace(strings.TrimLeft(line, "-• "))
			if item != "" {
				out = append(out, item)
			}
		case blank && startsUpper(line):
			return out
		case len(out) > 0 && !blank:
			out[len(out)-1] += " " + line
		}
		blank = false
	}
	return out
}

func startsUpper(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}

// SummaryRule supplies a canned summary for lessons whose title contains
// any of Keywords.
type SummaryRule struct {
	Keywords []string `yaml:"keywords" json:"keywords"`
	Text     string   `yaml:"text" json:"text"`
}

// Summary returns the lesson's embedded module summary when present,
// otherwise the first matching rule, otherwise a sentence built from title.
func Summary(content, title string, rules []SummaryRule) string {
	if m := summaryPara.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if kw != "" && strings.Contains(title, kw) {
				return rule.Text
			}
		}
	}
	topic := strings.ToLower(modulePrefix.ReplaceAllString(title, ""))
	return "This module provides strategic insights and actionable frameworks for " + topic +
		", helping you optimize your tax situation and build long-term wealth."
}
