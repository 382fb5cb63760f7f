package project

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/shieldsight/shieldsight-cli/internal/core"
)

// SortField selects the comparator key for the projected view.
type SortField string

const (
	SortByURL        SortField = "url"
	SortByConfidence SortField = "confidence"
	SortByRisk       SortField = "risk"
)

// SortOrder is the direction of the projected view's ordering.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// FilterAll passes every result through a classification or risk filter.
const FilterAll = "all"

// Query is the ephemeral filter/sort state driving the projected view.
type Query struct {
	Search     string
	Prediction string // "all" or a core.Prediction value
	Risk       string // "all" or a core.RiskLevel value
	SortField  SortField
	SortOrder  SortOrder
}

// DefaultQuery returns the initial view state: no filters, confidence
// descending.
func DefaultQuery() Query {
	return Query{
		Prediction: FilterAll,
		Risk:       FilterAll,
		SortField:  SortByConfidence,
		SortOrder:  Descending,
	}
}

// Toggle switches the active sort field. Selecting the field that is
// already active flips the order; selecting a new field resets the order
// to descending.
func (q *Query) Toggle(field SortField) {
	if q.SortField == field {
		if q.SortOrder == Descending {
			q.SortOrder = Ascending
		} else {
			q.SortOrder = Descending
		}
		return
	}
	q.SortField = field
	q.SortOrder = Descending
}

// Matches reports whether a result passes all three filter predicates.
func (q Query) Matches(r core.BatchResult) bool {
	if q.Search != "" && !strings.Contains(strings.ToLower(r.URL), strings.ToLower(q.Search)) {
		return false
	}
	if q.Prediction != "" && q.Prediction != FilterAll && q.Prediction != string(r.Prediction) {
		return false
	}
	if q.Risk != "" && q.Risk != FilterAll && q.Risk != string(r.RiskLevel) {
		return false
	}
	return true
}

// Projector derives the filtered, sorted view of a result snapshot. It is
// recomputed on every state change; no memoization is kept.
type Projector struct {
	collator *collate.Collator
}

// NewProjector creates a projector with a locale-aware URL collator.
func NewProjector() *Projector {
	return &Projector{collator: collate.New(language.Und)}
}

// Project returns the subset of the snapshot passing the query's filters,
// ordered by the query's sort state. Ties preserve relative input order.
func (p *Projector) Project(snapshot []core.BatchResult, q Query) []core.BatchResult {
	out := make([]core.BatchResult, 0, len(snapshot))
	for _, r := range snapshot {
		if q.Matches(r) {
			out = append(out, r)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := p.compare(out[i], out[j], q.SortField)
		if q.SortOrder == Descending {
			c = -c
		}
		return c < 0
	})

	return out
}

// compare returns a negative, zero or positive value ordering a before,
// equal to, or after b on the given field in ascending terms.
func (p *Projector) compare(a, b core.BatchResult, field SortField) int {
	switch field {
	case SortByURL:
		return p.collator.CompareString(a.URL, b.URL)
	case SortByRisk:
		return a.RiskLevel.Rank() - b.RiskLevel.Rank()
	default:
		switch {
		case a.Confidence < b.Confidence:
			return -1
		case a.Confidence > b.Confidence:
			return 1
		default:
			return 0
		}
	}
}
