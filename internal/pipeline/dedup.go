package pipeline

import (
	"regexp"
	"strings"

	"jobradar/internal/domain"
)

// Field weights for the combined similarity score.
const (
	titleWeight    = 0.4
	companyWeight  = 0.3
	locationWeight = 0.3
)

// JobFields is the comparable projection of a job, shared between
// normalized postings and stored canonical jobs.
type JobFields struct {
	Title    string
	Company  string
	Location string
}

func (p *NormalizedPosting) Fields() JobFields {
	return JobFields{Title: p.Title, Company: p.Company, Location: p.Location}
}

func canonicalFields(j *domain.CanonicalJob) JobFields {
	return JobFields{Title: j.Title, Company: j.Company, Location: j.Location}
}

// Matcher scores job similarity and decides duplicate membership against a
// single threshold.
type Matcher struct {
	threshold float64
}

func NewMatcher(threshold float64) *Matcher {
	return &Matcher{threshold: threshold}
}

func (m *Matcher) Threshold() float64 { return m.threshold }

// Similarity returns a weighted score in [0, 1]. Titles dominate; company
// and location split the remainder evenly.
func (m *Matcher) Similarity(a, b JobFields) float64 {
	return titleWeight*titleSimilarity(a.Title, b.Title) +
		companyWeight*companySimilarity(a.Company, b.Company) +
		locationWeight*locationSimilarity(a.Location, b.Location)
}

// BestMatch returns the highest-scoring candidate at or above the
// threshold. Ties keep the earliest candidate.
func (m *Matcher) BestMatch(p JobFields, candidates []*domain.CanonicalJob) (*domain.CanonicalJob, float64, bool) {
	var (
		best      *domain.CanonicalJob
		bestScore float64
	)
	for _, cand := range candidates {
		if score := m.Similarity(p, canonicalFields(cand)); score > bestScore {
			best = cand
			bestScore = score
		}
	}
	if best == nil || bestScore < m.threshold {
		return nil, 0, false
	}
	return best, bestScore, true
}

// GroupDuplicates partitions a batch into duplicate groups by greedy
// single-link clustering: an item joins the first group containing any
// member it matches, so two items that never match each other can share a
// group through a bridging third. Returned groups hold indices into the
// input, in input order.
func (m *Matcher) GroupDuplicates(items []JobFields) [][]int {
	var groups [][]int
	for i, item := range items {
		placed := false
		for gi, group := range groups {
			for _, member := range group {
				if m.Similarity(item, items[member]) >= m.threshold {
					groups[gi] = append(groups[gi], i)
					placed = true
					break
				}
			}
			if placed {
				break
			}
		}
		if !placed {
			groups = append(groups, []int{i})
		}
	}
	return groups
}

func titleSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return 1.0
	}

	sim := jaccard(tokens(a), tokens(b))

	// A much shorter title matching a longer one is usually a truncation
	// or a broader role, so the overlap is discounted.
	shorter, longer := len(a), len(b)
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	if 2*shorter < longer {
		sim *= 0.8
	}
	return sim
}

func companySimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	switch {
	case a == "" || b == "":
		return 0.0
	case a == b:
		return 1.0
	case strings.Contains(a, b) || strings.Contains(b, a):
		return 0.8
	}
	return jaccard(tokens(a), tokens(b))
}

func locationSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	// Missing locations are common and must not veto a match.
	if a == "" || b == "" {
		return 0.5
	}
	if a == b {
		return 1.0
	}

	aRemote, bRemote := isRemoteLocation(a), isRemoteLocation(b)
	switch {
	case aRemote && bRemote:
		return 1.0
	case aRemote || bRemote:
		return 0.3
	}
	return jaccard(tokens(a), tokens(b))
}

// remoteKeywords marks a location as remote work. The detector accepts
// raw locations too, so this is broader than the normalizer's "Remote".
var remoteKeywords = []string{"remote", "anywhere", "work from home"}

func isRemoteLocation(s string) bool {
	for _, kw := range remoteKeywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

var wordRe = regexp.MustCompile(`\w+`)

// tokens splits on non-word runs so "Austin, TX" and "Austin TX" produce
// the same set.
func tokens(s string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, w := range wordRe.FindAllString(s, -1) {
		set[w] = struct{}{}
	}
	return set
}

// jaccard over token sets. Two empty sets are identical, so 1.0; one
// empty set shares nothing, so 0.0.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	inter := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
