package judges

import (
	"fmt"
	"strings"
)

// Circuits is the allow-list of circuit tags. Matching is case-insensitive and
// the canonical casing from the list is what gets stored.
type Circuits struct {
	canonical map[string]string
	ordered   []string
}

func NewCircuits(allowed []string) Circuits {
	c := Circuits{canonical: make(map[string]string, len(allowed))}
	for _, tag := range allowed {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, dup := c.canonical[key]; dup {
			continue
		}
		c.canonical[key] = tag
		c.ordered = append(c.ordered, tag)
	}
	return c
}

// Canonical returns the allow-listed spelling of tag.
func (c Circuits) Canonical(tag string) (string, bool) {
	canon, ok := c.canonical[strings.ToLower(strings.TrimSpace(tag))]
	return canon, ok
}

// ParseList splits comma-separated input into canonical tags, dropping empty
// entries and repeats. The first tag outside the allow-list fails the parse.
func (c Circuits) ParseList(text string) ([]string, error) {
	tags := []string{}
	seen := map[string]bool{}
	for _, raw := range strings.Split(strings.TrimSpace(text), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		canon, ok := c.Canonical(raw)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCircuit, raw)
		}
		if seen[canon] {
			continue
		}
		seen[canon] = true
		tags = append(tags, canon)
	}
	return tags, nil
}

// List returns the allow-list in configured order.
func (c Circuits) List() []string {
	return append([]string(nil), c.ordered...)
}
