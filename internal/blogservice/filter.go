package blogservice

import "strings"

// Filter is the derived view over a console list. It never touches the list
// it is applied to.
type Filter struct {
	Query  string
	Status Status
}

func (f Filter) Match(b Blog) bool {
	if f.Status != "" && f.Status != StatusAll && b.Status != f.Status {
		return false
	}

	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}

	return strings.Contains(strings.ToLower(b.Title), q) ||
		strings.Contains(strings.ToLower(b.CreatedBy.Name), q) ||
		strings.Contains(strings.ToLower(b.CreatedBy.Email), q)
}

// Apply returns the matching blogs in a new slice, preserving order.
func (f Filter) Apply(blogs []Blog) []Blog {
	out := make([]Blog, 0, len(blogs))
	for _, b := range blogs {
		if f.Match(b) {
			out = append(out, b)
		}
	}
	return out
}
