package resource

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrMissingField is wrapped by every ValidationError so callers can match
// malformed input with errors.Is.
var ErrMissingField = errors.New("missing required field")

// ValidationError reports a resource that violates the input contract.
type ValidationError struct {
	Path  string // source file, if known
	ID    string
	Field string
}

func (e *ValidationError) Error() string {
	where := e.ID
	if e.Path != "" {
		where = e.Path
	}
	if where == "" {
		where = "resource"
	}
	return fmt.Sprintf("%s: %s: %s", where, ErrMissingField, e.Field)
}

func (e *ValidationError) Unwrap() error { return ErrMissingField }

// Resource is one catalog entry supplied by the content source.
type Resource struct {
	ID       string   `json:"id"`
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"` // nil means the source never declared tags
	Summary  string   `json:"summary,omitempty"`
	HTML     string   `json:"html,omitempty"`
	Path     string   `json:"path,omitempty"`
}

// MakeID joins a category and slug into a resource identifier.
func MakeID(category, slug string) string {
	return category + "/" + slug
}

// Validate checks the fields the graph builder depends on. An empty but
// non-nil tag list is valid; a nil one is not.
func (r Resource) Validate() error {
	switch {
	case r.ID == "":
		return &ValidationError{Path: r.Path, ID: r.ID, Field: "id"}
	case r.Category == "":
		return &ValidationError{Path: r.Path, ID: r.ID, Field: "category"}
	case r.Tags == nil:
		return &ValidationError{Path: r.Path, ID: r.ID, Field: "tags"}
	}
	return nil
}

// NormalizeTags lowercases and trims tags, dropping empties and duplicates
// while keeping first-occurrence order. A nil input stays nil.
func NormalizeTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// Fingerprint returns a stable digest of the graph-relevant fields of the
// given resources, in order.
func Fingerprint(resources []Resource) string {
	h := sha256.New()
	for _, r := range resources {
		fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s\x01", r.ID, r.Title, r.Category, strings.Join(r.Tags, "\x00"))
	}
	return hex.EncodeToString(h.Sum(nil))
}
