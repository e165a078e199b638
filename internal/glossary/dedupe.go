package glossary

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// parenthetical splits "Long Name (ABBR)" into its two halves.
var parenthetical = regexp.MustCompile(`^(.*?)\s*\(([^()]*)\)$`)

// DuplicateGroup is a set of terms that name the same concept. Keep is the
// most complete of them.
type DuplicateGroup struct {
	Keep Term
	Drop []Term
}

// Completeness scores how fully a term is written up. The four prose
// fields weigh 3 each; related terms and tags weigh 1 each.
func Completeness(t Term) int {
	score := 0
	for _, f := range []string{t.Definition, t.PlainEnglish, t.CaseStudy, t.KeyBenefit} {
		if strings.TrimSpace(f) != "" {
			score += 3
		}
	}
	if len(t.RelatedTerms) > 0 {
		score++
	}
	if len(t.Tags) > 0 {
		score++
	}
	return score
}

// nameKeys returns the normalised names a term is known by: the whole name
// plus each half of a trailing parenthetical, so "REPS (Real Estate
// Professional Status)", "Real Estate Professional Status (REPS)" and
// "REPS" share a key.
func nameKeys(name string) []string {
	n := strings.Join(strings.Fields(strings.ToLower(name)), " ")
	if n == "" {
		return nil
	}
	keys := []string{n}
	if m := parenthetical.FindStringSubmatch(n); m != nil {
		for _, part := range m[1:] {
			if part = strings.TrimSpace(part); part != "" {
				keys = append(keys, part)
			}
		}
	}
	return keys
}

// FindDuplicates groups terms that share a normalised name. Groups come back
// in the order their first member appears; within a group the highest
// Completeness wins and ties go to the earlier term.
func FindDuplicates(terms []Term) []DuplicateGroup {
	parent := make([]int, len(terms))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}

	owner := make(map[string]int)
	for i, t := range terms {
		for _, k := range nameKeys(t.Term) {
			j, ok := owner[k]
			if !ok {
				owner[k] = i
				continue
			}
			a, b := find(i), find(j)
			if a == b {
				continue
			}
			if a < b {
				parent[b] = a
			} else {
				parent[a] = b
			}
		}
	}

	members := make(map[int][]int)
	var roots []int
	for i := range terms {
		r := find(i)
		if _, ok := members[r]; !ok {
			roots = append(roots, r)
		}
		members[r] = append(members[r], i)
	}

	var groups []DuplicateGroup
	for _, r := range roots {
		idx := members[r]
		if len(idx) < 2 {
			continue
		}
		best := idx[0]
		for _, i := range idx[1:] {
			if Completeness(terms[i]) > Completeness(terms[best]) {
				best = i
			}
		}
		g := DuplicateGroup{Keep: terms[best]}
		for _, i := range idx {
			if i != best {
				g.Drop = append(g.Drop, terms[i])
			}
		}
		groups = append(groups, g)
	}
	return groups
}

// Dedupe returns terms without the losers of each duplicate group, keeping
// the input order.
func Dedupe(terms []Term) ([]Term, []DuplicateGroup) {
	groups := FindDuplicates(terms)
	if len(groups) == 0 {
		return terms, nil
	}
	drop := make(map[string]bool)
	for _, g := range groups {
		for _, t := range g.Drop {
			drop[t.ID] = true
		}
	}
	out := make([]Term, 0, len(terms)-len(drop))
	for _, t := range terms {
		if !drop[t.ID] {
			out = append(out, t)
		}
	}
	return out, groups
}

// RemoveDuplicates deletes every stored term that loses to a more complete
// term with the same normalised name. With dryRun set nothing is deleted.
func (s *Service) RemoveDuplicates(ctx context.Context, dryRun bool) ([]DuplicateGroup, error) {
	terms, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}
	groups := FindDuplicates(terms)
	if dryRun {
		return groups, nil
	}
	for _, g := range groups {
		for _, t := range g.Drop {
			if err := s.store.Delete(ctx, t.ID); err != nil {
				return nil, fmt.Errorf("removing duplicate %s: %w", t.ID, err)
			}
		}
	}
	return groups, nil
}
