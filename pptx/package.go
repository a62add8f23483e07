package pptx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
)

var (
	// ErrNotPresentation is returned when an archive lacks the parts every
	// presentation package must have.
	ErrNotPresentation = errors.New("not a presentation package")

	// ErrMemberNotFound is returned when a named archive member does not exist.
	ErrMemberNotFound = errors.New("member not found")
)

// member is one archive entry held in memory. raw is the entry as stored
// in the source archive and is written back verbatim until the member is
// replaced.
type member struct {
	header   zip.FileHeader
	raw      []byte
	data     []byte
	replaced bool
}

// Package is an in-memory PPTX container. Members keep their original
// order, names, compression methods and timestamps so that writing the
// package back is a byte-level swap of the replaced members only.
//
// A Package is safe for concurrent reads; Replace must not run concurrently
// with other calls.
type Package struct {
	members []*member
	index   map[string]int

	converted atomic.Bool
}

// OpenPackage reads a PPTX file into memory.
func OpenPackage(filename string) (*Package, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading package: %w", err)
	}
	return ReadPackage(bytes.NewReader(data), int64(len(data)))
}

// ReadPackage reads a PPTX package from r.
func ReadPackage(r io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	pkg := &Package{
		members: make([]*member, 0, len(zr.File)),
		index:   make(map[string]int, len(zr.File)),
	}

	for _, f := range zr.File {
		data, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		raw, err := readRaw(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		pkg.index[f.Name] = len(pkg.members)
		pkg.members = append(pkg.members, &member{
			header: f.FileHeader,
			raw:    raw,
			data:   data,
		})
	}

	if err := pkg.validate(); err != nil {
		return nil, err
	}

	return pkg, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func readRaw(f *zip.File) ([]byte, error) {
	r, err := f.OpenRaw()
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

// validate checks that required PPTX files exist.
func (pkg *Package) validate() error {
	required := []string{
		"[Content_Types].xml",
		"ppt/presentation.xml",
	}

	for _, name := range required {
		if !pkg.Has(name) {
			return fmt.Errorf("%w: missing required file %s", ErrNotPresentation, name)
		}
	}

	return nil
}

// Names returns the member names in archive order.
func (pkg *Package) Names() []string {
	names := make([]string, len(pkg.members))
	for i, m := range pkg.members {
		names[i] = m.header.Name
	}
	return names
}

// Has reports whether the package contains the named member.
func (pkg *Package) Has(name string) bool {
	_, ok := pkg.index[name]
	return ok
}

// Read returns the raw bytes of a member.
func (pkg *Package) Read(name string) ([]byte, error) {
	i, ok := pkg.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, name)
	}
	return pkg.members[i].data, nil
}

// Replace swaps the content of an existing member.
func (pkg *Package) Replace(name string, data []byte) error {
	i, ok := pkg.index[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMemberNotFound, name)
	}
	pkg.members[i].data = data
	pkg.members[i].replaced = true
	return nil
}

// MarkConverted records that the package content has been converted. It
// reports false when the package was already marked, so that converters
// sharing one package convert it only once.
func (pkg *Package) MarkConverted() bool {
	return pkg.converted.CompareAndSwap(false, true)
}

// Converted reports whether MarkConverted has been called.
func (pkg *Package) Converted() bool {
	return pkg.converted.Load()
}

// WriteTo writes the package as a ZIP archive to w. Members that were
// never replaced are copied in their stored, compressed form.
func (pkg *Package) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)

	for _, m := range pkg.members {
		if err := m.write(zw); err != nil {
			return cw.n, fmt.Errorf("writing %s: %w", m.header.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return cw.n, fmt.Errorf("closing archive: %w", err)
	}
	return cw.n, nil
}

// Save writes the package to filename. A partially written file is removed
// on failure.
func (pkg *Package) Save(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}

	if _, err := pkg.WriteTo(f); err != nil {
		f.Close()
		os.Remove(filename)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(filename)
		return fmt.Errorf("closing output: %w", err)
	}
	return nil
}

func (m *member) write(zw *zip.Writer) error {
	if !m.replaced {
		hdr := m.header
		fw, err := zw.CreateRaw(&hdr)
		if err != nil {
			return err
		}
		_, err = fw.Write(m.raw)
		return err
	}

	fw, err := zw.CreateHeader(&zip.FileHeader{
		Name:     m.header.Name,
		Method:   m.header.Method,
		Modified: m.header.Modified,
	})
	if err != nil {
		return err
	}
	_, err = fw.Write(m.data)
	return err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(b []byte) (int, error) {
	n, err := cw.w.Write(b)
	cw.n += int64(n)
	return n, err
}

// PartRef names a part that carries content the RTL conversion touches.
type PartRef struct {
	Name   string
	Kind   PartKind
	Number int
}

// partPrefixes maps a member name prefix to the kind of part it holds.
// Masters come first so that shared chrome is processed before slides.
var partPrefixes = []struct {
	prefix string
	kind   PartKind
}{
	{"ppt/slideMasters/slideMaster", KindMaster},
	{"ppt/slideLayouts/slideLayout", KindLayout},
	{"ppt/slides/slide", KindSlide},
	{"ppt/charts/chart", KindChart},
}

// Parts lists slide masters, layouts, slides and charts ordered by kind
// and then by number.
func (pkg *Package) Parts() []PartRef {
	var refs []PartRef
	for _, m := range pkg.members {
		if ref, ok := classifyMember(m.header.Name); ok {
			refs = append(refs, ref)
		}
	}

	sort.SliceStable(refs, func(i, j int) bool {
		if refs[i].Kind != refs[j].Kind {
			return refs[i].Kind < refs[j].Kind
		}
		return refs[i].Number < refs[j].Number
	})
	return refs
}

// classifyMember maps a name like "ppt/slides/slide3.xml" to a PartRef.
func classifyMember(name string) (PartRef, bool) {
	if strings.Contains(name, "_rels") || !strings.HasSuffix(name, ".xml") {
		return PartRef{}, false
	}
	for _, pp := range partPrefixes {
		if !strings.HasPrefix(name, pp.prefix) {
			continue
		}
		num, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, pp.prefix), ".xml"))
		if err != nil {
			return PartRef{}, false
		}
		return PartRef{Name: name, Kind: pp.kind, Number: num}, true
	}
	return PartRef{}, false
}

// Relationship is one entry of a part's .rels file.
type Relationship struct {
	ID       string
	Type     string
	Target   string // resolved member name, empty for external targets
	External bool
}

// Relationships returns the relationships of a part. A part without a
// .rels file has none.
func (pkg *Package) Relationships(partName string) ([]Relationship, error) {
	relsPath := path.Join(path.Dir(partName), "_rels", path.Base(partName)+".rels")
	data, err := pkg.Read(relsPath)
	if errors.Is(err, ErrMemberNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rels, err := parseRelationships(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", relsPath, err)
	}

	out := make([]Relationship, 0, len(rels.Relationship))
	for _, rel := range rels.Relationship {
		r := Relationship{ID: rel.ID, Type: rel.Type}
		if rel.TargetMode == "External" {
			r.External = true
		} else {
			r.Target = resolveTarget(partName, rel.Target)
		}
		out = append(out, r)
	}
	return out, nil
}

// resolveTarget resolves a relationship target relative to its source part.
func resolveTarget(partName, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(partName), target)
}
