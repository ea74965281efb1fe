// Package search matches free text against the judge directory.
//
// Matching is case-insensitive substring containment on the display name
// derived from each slug, so "smi" finds "john-smith". Results keep corpus
// order; there is no ranking.
package search

import (
	"strings"

	"github.com/RateMyJudge/RMJ-Backend/internal/slug"
)

// DefaultLimit caps the suggestion list.
const DefaultLimit = 5

// AddJudgeRoute is offered when nothing matches.
const AddJudgeRoute = "/add-judge"

type Suggestion struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Route string `json:"route"`
}

// Result is what the landing view renders under the search box.
type Result struct {
	Query       string       `json:"query"`
	Suggestions []Suggestion `json:"suggestions"`
	NotFound    bool         `json:"not_found"`
	AddJudge    string       `json:"add_judge,omitempty"`
}

// Suggest returns up to limit slugs whose display name contains text. Blank
// text yields nothing and is not a miss.
func Suggest(corpus []string, text string, limit int) Result {
	if limit <= 0 {
		limit = DefaultLimit
	}
	res := Result{Query: text, Suggestions: []Suggestion{}}
	if strings.TrimSpace(text) == "" {
		return res
	}

	needle := strings.ToLower(text)
	for _, s := range corpus {
		name := slug.ToDisplayName(s)
		if !strings.Contains(strings.ToLower(name), needle) {
			continue
		}
		res.Suggestions = append(res.Suggestions, Suggestion{Slug: s, Name: name, Route: slug.Route(s)})
		if len(res.Suggestions) == limit {
			break
		}
	}

	if len(res.Suggestions) == 0 {
		res.NotFound = true
		res.AddJudge = AddJudgeRoute
	}
	return res
}

// Resolution is the outcome of submitting the search box.
type Resolution struct {
	Query    string `json:"query"`
	Slug     string `json:"slug,omitempty"`
	Route    string `json:"route,omitempty"`
	Found    bool   `json:"found"`
	AddJudge string `json:"add_judge,omitempty"`
}

// Resolve derives the slug of text and reports whether the corpus holds it.
func Resolve(corpus []string, text string) Resolution {
	res := Resolution{Query: text}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return res
	}

	want := slug.ToSlug(trimmed)
	for _, s := range corpus {
		if s == want {
			res.Slug = s
			res.Route = slug.Route(s)
			res.Found = true
			return res
		}
	}
	res.Slug = want
	res.AddJudge = AddJudgeRoute
	return res
}
