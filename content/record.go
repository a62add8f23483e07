package content

import (
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/exp/slog"

	"github.com/tsawler/rtlslide/text"
)

// Role is the reading role of a record, derived from the shape's
// placeholder type.
type Role string

const (
	RoleTitle    Role = "title"
	RoleSubtitle Role = "subtitle"
	RoleBody     Role = "body"
	RoleContent  Role = "content"
)

// placeholderRoles maps p:ph/@type to a role. Unlisted types, and shapes
// that are not placeholders, are content.
var placeholderRoles = map[string]Role{
	"title":    RoleTitle,
	"ctrTitle": RoleTitle,
	"subTitle": RoleSubtitle,
	"body":     RoleBody,
	"obj":      RoleBody,
	"dt":       RoleBody,
	"ftr":      RoleBody,
	"sldNum":   RoleBody,
}

// RoleOf returns the role of a placeholder type.
func RoleOf(placeholder string) Role {
	if r, ok := placeholderRoles[placeholder]; ok {
		return r
	}
	return RoleContent
}

// Paragraph is one non-blank paragraph of a record.
type Paragraph struct {
	Text   string `json:"text"`
	Level  int    `json:"level"`
	IsBold bool   `json:"is_bold"`
}

// Record is the translation-facing projection of one text shape.
type Record struct {
	ID         string      `json:"id"`
	Role       Role        `json:"role"`
	Text       string      `json:"text"`
	Paragraphs []Paragraph `json:"paragraphs"`
}

// Document is the set of records of one part, exchanged with the
// translator. A translator must return every id it received.
type Document struct {
	Context  string   `json:"context"`
	Elements []Record `json:"elements"`
}

// DefaultContext describes the source material to the translator.
const DefaultContext = "Presentation slide - professional business content"

// IDs returns the record ids in order.
func (d Document) IDs() []string {
	ids := make([]string, len(d.Elements))
	for i, r := range d.Elements {
		ids[i] = r.ID
	}
	return ids
}

// ReadDocument decodes a JSON document.
func ReadDocument(r io.Reader) (Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Document{}, fmt.Errorf("decoding content document: %w", err)
	}
	return d, nil
}

// WriteDocument encodes d as indented JSON. Non-ASCII text is written
// as is.
func WriteDocument(w io.Writer, d Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encoding content document: %w", err)
	}
	return nil
}

// Options configures extraction and injection.
type Options struct {
	// Context is written into extracted documents. Empty means
	// DefaultContext.
	Context string

	// Locale is the language set on injected runs.
	Locale text.Locale

	Logger *slog.Logger
}

func (o Options) context() string {
	if o.Context == "" {
		return DefaultContext
	}
	return o.Context
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}
