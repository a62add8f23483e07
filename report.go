package rtlslide

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tsawler/rtlslide/content"
	"github.com/tsawler/rtlslide/pptx"
	"github.com/tsawler/rtlslide/rtl"
)

// Conversion stages reported in PartError.
const (
	StageRead      = "read"
	StageParse     = "parse"
	StageTranslate = "translate"
	StageTransform = "transform"
	StageInject    = "inject"
	StageWorkbook  = "workbook"
	StageSerialize = "serialize"
)

// PartError is a failure to convert one part. The part is written back
// unchanged.
type PartError struct {
	Part  string
	Stage string
	Err   error
}

func (e *PartError) Error() string {
	return fmt.Sprintf("converting %s (%s): %v", e.Part, e.Stage, e.Err)
}

func (e *PartError) Unwrap() error {
	return e.Err
}

// MarshalJSON writes the error message in place of the wrapped error.
func (e *PartError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Part  string `json:"part"`
		Stage string `json:"stage"`
		Error string `json:"error"`
	}{e.Part, e.Stage, e.Err.Error()})
}

// PartReport describes the conversion of one part.
type PartReport struct {
	Name string        `json:"name"`
	Kind pptx.PartKind `json:"-"`

	Stats  rtl.Stats           `json:"stats"`
	Inject content.InjectStats `json:"inject"`

	// Records is the number of text records sent for translation.
	Records int `json:"records"`
	// TranslationMismatch is set when the translator returned a different
	// set of ids than it was sent.
	TranslationMismatch bool `json:"translation_mismatch,omitempty"`

	// Workbook is the embedded workbook a chart part synced, if any.
	Workbook        string `json:"workbook,omitempty"`
	WorkbookCells   int    `json:"workbook_cells,omitempty"`
	WorkbookSkipped int    `json:"workbook_skipped,omitempty"`

	Err *PartError `json:"error,omitempty"`
}

// Report summarises a conversion. Parts are in package part order.
type Report struct {
	SlideSize pptx.SlideSize `json:"slide_size"`
	Parts     []PartReport   `json:"parts"`

	// Stats and Inject total the successful parts.
	Stats  rtl.Stats           `json:"stats"`
	Inject content.InjectStats `json:"inject"`

	Errors []*PartError `json:"errors,omitempty"`
}

// Converted returns the number of parts converted without error.
func (r *Report) Converted() int {
	return len(r.Parts) - len(r.Errors)
}

// FormatErrors returns the part errors as a human-readable string.
func FormatErrors(errs []*PartError) string {
	if len(errs) == 0 {
		return ""
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

func (r *Report) collect() {
	r.Stats = rtl.Stats{}
	r.Inject = content.InjectStats{}
	r.Errors = nil
	for _, p := range r.Parts {
		if p.Err != nil {
			r.Errors = append(r.Errors, p.Err)
			continue
		}
		r.Stats.Add(p.Stats)
		r.Inject.Add(p.Inject)
	}
}
