package match

import (
	"sort"
)

// MinSimilarity is the score a name needs to be suggested.
const MinSimilarity = 0.5

// Candidate is a known name scored against the one being looked up.
type Candidate struct {
	Name  string
	Score float64
}

// CandidateList is sorted by score, best first.
type CandidateList []Candidate

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
// Sorts by score descending, then by name for determinism.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Name < c[j].Name
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// Names returns the candidate names in order.
func (c CandidateList) Names() []string {
	out := make([]string, len(c))
	for i, cand := range c {
		out[i] = cand.Name
	}

	return out
}

// Rank scores every known name against name.
func Rank(name string, known []string) CandidateList {
	candidates := make(CandidateList, 0, len(known))
	for _, k := range known {
		candidates = append(candidates, Candidate{Name: k, Score: Similarity(name, k)})
	}

	sort.Sort(candidates)

	return candidates
}

// Suggest returns up to n known names similar enough to name.
func Suggest(name string, known []string, n int) []string {
	var out CandidateList

	for _, cand := range Rank(name, known) {
		if cand.Score < MinSimilarity {
			break
		}

		out = append(out, cand)
	}

	return out.Top(n).Names()
}
