package content

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ExportFormat defines the available export formats
type ExportFormat int

const (
	// ExportFormatJSONL exports as JSON Lines (one record per line)
	ExportFormatJSONL ExportFormat = iota
	// ExportFormatJSON exports as a JSON array
	ExportFormatJSON
	// ExportFormatCSV exports one paragraph per comma-separated row
	ExportFormatCSV
	// ExportFormatTSV exports one paragraph per tab-separated row
	ExportFormatTSV
)

// String returns a human-readable representation of the export format
func (ef ExportFormat) String() string {
	switch ef {
	case ExportFormatJSONL:
		return "jsonl"
	case ExportFormatJSON:
		return "json"
	case ExportFormatCSV:
		return "csv"
	case ExportFormatTSV:
		return "tsv"
	default:
		return "unknown"
	}
}

// FileExtension returns the typical file extension for this format
func (ef ExportFormat) FileExtension() string {
	switch ef {
	case ExportFormatJSONL:
		return ".jsonl"
	case ExportFormatJSON:
		return ".json"
	case ExportFormatCSV:
		return ".csv"
	case ExportFormatTSV:
		return ".tsv"
	default:
		return ".txt"
	}
}

// ParseExportFormat parses a format name as returned by String.
func ParseExportFormat(s string) (ExportFormat, error) {
	for _, f := range []ExportFormat{ExportFormatJSONL, ExportFormatJSON, ExportFormatCSV, ExportFormatTSV} {
		if strings.EqualFold(s, f.String()) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown export format %q", s)
}

// ExportConfig holds configuration options for export
type ExportConfig struct {
	Format ExportFormat

	// IncludeHeader writes a header row in CSV/TSV exports
	IncludeHeader bool

	// PrettyPrint indents JSON output
	PrettyPrint bool
}

// DefaultExportConfig returns a JSON Lines configuration.
func DefaultExportConfig() ExportConfig {
	return ExportConfig{Format: ExportFormatJSONL, IncludeHeader: true}
}

// Entry is a record together with the part it came from.
type Entry struct {
	Part string `json:"part"`
	Record
}

// Entries flattens per-part documents into entries, in part order.
func Entries(parts []string, docs map[string]Document) []Entry {
	var out []Entry
	for _, p := range parts {
		for _, r := range docs[p].Elements {
			out = append(out, Entry{Part: p, Record: r})
		}
	}
	return out
}

// Exporter writes entries in one of the export formats.
type Exporter struct {
	config ExportConfig
}

// NewExporter creates a new exporter with default configuration
func NewExporter() *Exporter {
	return &Exporter{config: DefaultExportConfig()}
}

// NewExporterWithConfig creates an exporter with custom configuration
func NewExporterWithConfig(config ExportConfig) *Exporter {
	return &Exporter{config: config}
}

// Export writes entries to w.
func (e *Exporter) Export(entries []Entry, w io.Writer) error {
	switch e.config.Format {
	case ExportFormatJSONL:
		return e.exportJSONL(entries, w)
	case ExportFormatJSON:
		return e.exportJSON(entries, w)
	case ExportFormatCSV:
		return e.exportCSV(entries, w, ',')
	case ExportFormatTSV:
		return e.exportCSV(entries, w, '\t')
	default:
		return fmt.Errorf("unsupported export format: %v", e.config.Format)
	}
}

// ExportToFile writes entries to a file
func (e *Exporter) ExportToFile(entries []Entry, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := e.Export(entries, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (e *Exporter) encoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if e.config.PrettyPrint {
		enc.SetIndent("", "  ")
	}
	return enc
}

func (e *Exporter) exportJSONL(entries []Entry, w io.Writer) error {
	enc := e.encoder(w)
	for i, entry := range entries {
		if err := enc.Encode(entry); err != nil {
			return fmt.Errorf("encoding entry %d: %w", i, err)
		}
	}
	return nil
}

func (e *Exporter) exportJSON(entries []Entry, w io.Writer) error {
	if entries == nil {
		entries = []Entry{}
	}
	return e.encoder(w).Encode(entries)
}

var csvColumns = []string{"part", "id", "role", "paragraph", "level", "is_bold", "text"}

// exportCSV writes one row per paragraph so each row is one unit of
// translation.
func (e *Exporter) exportCSV(entries []Entry, w io.Writer, delim rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = delim

	if e.config.IncludeHeader {
		if err := cw.Write(csvColumns); err != nil {
			return fmt.Errorf("writing CSV header: %w", err)
		}
	}
	for _, entry := range entries {
		for i, p := range paragraphsOf(entry.Record) {
			row := []string{
				entry.Part, entry.ID, string(entry.Role), strconv.Itoa(i),
				strconv.Itoa(p.Level), strconv.FormatBool(p.IsBold), p.Text,
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing CSV row for %s/%s: %w", entry.Part, entry.ID, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadEntries reads entries written by an Exporter with the same format,
// typically after a reviewer edited the text. CSV and TSV input must
// carry the header row.
func ReadEntries(r io.Reader, format ExportFormat) ([]Entry, error) {
	switch format {
	case ExportFormatJSONL:
		return readJSONL(r)
	case ExportFormatJSON:
		var entries []Entry
		if err := json.NewDecoder(r).Decode(&entries); err != nil {
			return nil, fmt.Errorf("decoding entries: %w", err)
		}
		return entries, nil
	case ExportFormatCSV:
		return readCSV(r, ',')
	case ExportFormatTSV:
		return readCSV(r, '\t')
	default:
		return nil, fmt.Errorf("unsupported export format: %v", format)
	}
}

func readJSONL(r io.Reader) ([]Entry, error) {
	var entries []Entry
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for line := 1; sc.Scan(); line++ {
		if strings.TrimSpace(sc.Text()) == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("decoding line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
	return entries, sc.Err()
}

func readCSV(r io.Reader, delim rune) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = len(csvColumns)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	if strings.Join(header, ",") != strings.Join(csvColumns, ",") {
		return nil, fmt.Errorf("unexpected CSV header %v", header)
	}

	var entries []Entry
	index := make(map[[2]string]int)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}
		level, err := strconv.Atoi(row[4])
		if err != nil {
			return nil, fmt.Errorf("row %s/%s: level %q: %w", row[0], row[1], row[4], err)
		}
		bold, err := strconv.ParseBool(row[5])
		if err != nil {
			return nil, fmt.Errorf("row %s/%s: is_bold %q: %w", row[0], row[1], row[5], err)
		}

		key := [2]string{row[0], row[1]}
		i, ok := index[key]
		if !ok {
			i = len(entries)
			index[key] = i
			entries = append(entries, Entry{Part: row[0], Record: Record{ID: row[1], Role: Role(row[2])}})
		}
		rec := &entries[i].Record
		rec.Paragraphs = append(rec.Paragraphs, Paragraph{Text: row[6], Level: level, IsBold: bold})
	}

	for i := range entries {
		entries[i].Text = joinText(entries[i].Paragraphs)
	}
	return entries, nil
}

// Documents groups entries back into per-part documents.
func Documents(entries []Entry, context string) map[string]Document {
	docs := make(map[string]Document)
	for _, e := range entries {
		d := docs[e.Part]
		d.Context = context
		d.Elements = append(d.Elements, e.Record)
		docs[e.Part] = d
	}
	return docs
}
