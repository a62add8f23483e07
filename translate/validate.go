package translate

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/tsawler/rtlslide/content"
)

// ValidationError lists how a translated document's ids differ from the
// ids that were sent.
type ValidationError struct {
	Missing    []string // sent but not returned
	Unexpected []string // returned but never sent
	Duplicated []string // returned more than once
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing ids %v", e.Missing))
	}
	if len(e.Unexpected) > 0 {
		parts = append(parts, fmt.Sprintf("unexpected ids %v", e.Unexpected))
	}
	if len(e.Duplicated) > 0 {
		parts = append(parts, fmt.Sprintf("duplicated ids %v", e.Duplicated))
	}
	return "translation ids differ: " + strings.Join(parts, "; ")
}

// Validate checks that got carries exactly the ids of sent. It returns
// nil or a *ValidationError with sorted id lists.
func Validate(sent, got content.Document) error {
	want := make(map[string]bool, len(sent.Elements))
	for _, id := range sent.IDs() {
		want[id] = true
	}

	seen := make(map[string]int, len(got.Elements))
	for _, id := range got.IDs() {
		seen[id]++
	}

	var e ValidationError
	for id := range want {
		if seen[id] == 0 {
			e.Missing = append(e.Missing, id)
		}
	}
	for id, n := range seen {
		if !want[id] {
			e.Unexpected = append(e.Unexpected, id)
		}
		if n > 1 {
			e.Duplicated = append(e.Duplicated, id)
		}
	}
	if len(e.Missing)+len(e.Unexpected)+len(e.Duplicated) == 0 {
		return nil
	}
	slices.Sort(e.Missing)
	slices.Sort(e.Unexpected)
	slices.Sort(e.Duplicated)
	return &e
}

// Restrict returns got without the records whose id was never sent, so
// they cannot land on an unrelated shape.
func Restrict(sent, got content.Document) content.Document {
	allowed := make(map[string]bool, len(sent.Elements))
	for _, id := range sent.IDs() {
		allowed[id] = true
	}
	out := content.Document{Context: got.Context}
	for _, rec := range got.Elements {
		if allowed[rec.ID] {
			out.Elements = append(out.Elements, rec)
		}
	}
	return out
}
