// Package format detects the container format of an input file, so that
// presentations can be told apart from other Office and ZIP documents
// before they are opened.
package format

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
)

// Format represents a detected document format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PPTX indicates a PowerPoint presentation (.pptx).
	PPTX
	// PPTM indicates a macro-enabled presentation (.pptm).
	PPTM
	// PPSX indicates a PowerPoint show (.ppsx).
	PPSX
	// POTX indicates a presentation template (.potx).
	POTX
	// PPT indicates a legacy binary presentation (.ppt).
	PPT
	// ODP indicates an OpenDocument presentation (.odp).
	ODP
	// DOCX indicates a Word document (.docx).
	DOCX
	// XLSX indicates an Excel workbook (.xlsx).
	XLSX
	// PDF indicates a PDF document.
	PDF
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PPTX:
		return "PPTX"
	case PPTM:
		return "PPTM"
	case PPSX:
		return "PPSX"
	case POTX:
		return "POTX"
	case PPT:
		return "PPT"
	case ODP:
		return "ODP"
	case DOCX:
		return "DOCX"
	case XLSX:
		return "XLSX"
	case PDF:
		return "PDF"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	if f == Unknown {
		return ""
	}
	return "." + strings.ToLower(f.String())
}

// Supported reports whether the format is an OOXML presentation package
// the pptx package can open.
func (f Format) Supported() bool {
	switch f {
	case PPTX, PPTM, PPSX, POTX:
		return true
	}
	return false
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, f := range []Format{PPTX, PPTM, PPSX, POTX, PPT, ODP, DOCX, XLSX, PDF} {
		if ext == f.Extension() {
			return f
		}
	}
	return Unknown
}

var (
	magicZIP = []byte{0x50, 0x4B, 0x03, 0x04}
	magicPDF = []byte("%PDF")
	magicOLE = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// DetectFromMagic checks file magic bytes to determine format.
// ZIP archives return Unknown: telling OOXML packages apart needs
// DetectFromReader. Any OLE2 compound file is reported as PPT.
func DetectFromMagic(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, magicPDF):
		return PDF
	case bytes.HasPrefix(data, magicOLE):
		return PPT
	}
	return Unknown
}

// mainContentTypes maps the content type of the main package part to a
// format.
var mainContentTypes = map[string]Format{
	"application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml": PPTX,
	"application/vnd.ms-powerpoint.presentation.macroEnabled.main+xml":                  PPTM,
	"application/vnd.openxmlformats-officedocument.presentationml.slideshow.main+xml":    PPSX,
	"application/vnd.openxmlformats-officedocument.presentationml.template.main+xml":     POTX,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml":   DOCX,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml":         XLSX,
}

// DetectFromReader inspects the content to determine format. It can
// distinguish the ZIP-based formats by their declared content types.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 8)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	if bytes.HasPrefix(magic, magicZIP) {
		return detectZIPFormat(r, size)
	}
	return DetectFromMagic(magic), nil
}

// detectZIPFormat reads [Content_Types].xml, falling back to the
// top-level directory names when it declares no known main part.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	for _, f := range zr.File {
		switch f.Name {
		case "mimetype":
			if readSmall(f) == "application/vnd.oasis.opendocument.presentation" {
				return ODP, nil
			}
		case "[Content_Types].xml":
			if format := fromContentTypes(f); format != Unknown {
				return format, nil
			}
		}
	}

	for _, f := range zr.File {
		switch {
		case strings.HasPrefix(f.Name, "ppt/"):
			return PPTX, nil
		case strings.HasPrefix(f.Name, "word/"):
			return DOCX, nil
		case strings.HasPrefix(f.Name, "xl/"):
			return XLSX, nil
		}
	}
	return Unknown, nil
}

func readSmall(f *zip.File) string {
	rc, err := f.Open()
	if err != nil {
		return ""
	}
	defer rc.Close()
	data, _ := io.ReadAll(io.LimitReader(rc, 256))
	return strings.TrimSpace(string(data))
}

func fromContentTypes(f *zip.File) Format {
	rc, err := f.Open()
	if err != nil {
		return Unknown
	}
	defer rc.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(rc); err != nil || doc.Root() == nil {
		return Unknown
	}
	for _, o := range doc.Root().SelectElements("Override") {
		if format, ok := mainContentTypes[o.SelectAttrValue("ContentType", "")]; ok {
			return format
		}
	}
	return Unknown
}
