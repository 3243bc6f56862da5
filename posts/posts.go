// Package posts holds the pure computations over blog post lists: the
// search/tag filter, related posts and reading time.
package posts

import (
	"math"
	"slices"
	"strings"
	"unicode"

	"barklounge/models"
)

const (
	WordsPerMinute = 200
	MaxRelated     = 3
)

// Query is the visitor's filter input. Zero value means no filter.
type Query struct {
	Search string
	Tag    string
}

func (q Query) normalized() Query {
	return Query{Search: strings.TrimSpace(q.Search), Tag: strings.TrimSpace(q.Tag)}
}

func (q Query) Active() bool {
	n := q.normalized()
	return n.Search != "" || n.Tag != ""
}

// View is a filtered blog listing.
type View struct {
	// Featured is set only for unfiltered views.
	Featured *models.BlogPost
	Posts    []models.BlogPost
	Query    Query
}

// Filter applies q to all, newest first. Without an active filter, the
// first featured post moves to View.Featured and leaves the grid.
func Filter(all, featured []models.BlogPost, q Query) View {
	q = q.normalized()
	needle := lower(q.Search)

	out := make([]models.BlogPost, 0, len(all))
	for _, p := range all {
		if needle != "" && !matchesSearch(p, needle) {
			continue
		}
		if q.Tag != "" && !p.HasTag(q.Tag) {
			continue
		}
		out = append(out, p)
	}

	view := View{Query: q}
	if !q.Active() && len(featured) > 0 {
		f := featured[0]
		view.Featured = &f
		out = slices.DeleteFunc(out, func(p models.BlogPost) bool { return p.ID == f.ID })
	}

	SortNewestFirst(out)
	view.Posts = out
	return view
}

func matchesSearch(p models.BlogPost, needle string) bool {
	if strings.Contains(lower(p.Title), needle) ||
		strings.Contains(lower(p.Excerpt), needle) ||
		strings.Contains(lower(p.Author), needle) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(lower(t), needle) {
			return true
		}
	}
	return false
}

// lower folds with Turkish rules so İ/i and I/ı pair up.
func lower(s string) string {
	return strings.ToLowerSpecial(unicode.TurkishCase, s)
}

// SortNewestFirst orders by CreatedAt descending, in place.
func SortNewestFirst(ps []models.BlogPost) {
	slices.SortStableFunc(ps, func(a, b models.BlogPost) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

// Related returns up to MaxRelated posts other than post that share at
// least one tag with it, in input order.
func Related(post models.BlogPost, all []models.BlogPost) []models.BlogPost {
	out := []models.BlogPost{}
	if len(post.Tags) == 0 {
		return out
	}
	for _, p := range all {
		if p.ID == post.ID {
			continue
		}
		if slices.ContainsFunc(p.Tags, post.HasTag) {
			out = append(out, p)
			if len(out) == MaxRelated {
				break
			}
		}
	}
	return out
}

// ReadTime is the post's read_time when the API set one, otherwise
// ceil(words/200) over its text, never below one minute.
func ReadTime(p models.BlogPost) int {
	if p.ReadTime > 0 {
		return p.ReadTime
	}
	return MinutesToRead(p.Content)
}

func MinutesToRead(content string) int {
	words := len(strings.Fields(stripTags(content)))
	m := int(math.Ceil(float64(words) / WordsPerMinute))
	if m < 1 {
		return 1
	}
	return m
}

// AllTags lists the tag names used by ps, in first-seen order.
func AllTags(ps []models.BlogPost) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range ps {
		for _, t := range p.Tags {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}

func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
			b.WriteRune(' ')
		case r == '>' && inTag:
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}
