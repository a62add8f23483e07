package pptx

import (
	"encoding/xml"
	"fmt"

	"github.com/tsawler/rtlslide/model"
)

// SlideSize is the page size declared by ppt/presentation.xml.
type SlideSize struct {
	Width    int64
	Height   int64
	Declared bool // false when the defaults were used
}

// DefaultSlideSize is the 16:9 widescreen size used when a presentation
// does not declare p:sldSz.
var DefaultSlideSize = SlideSize{Width: model.DefaultPageWidth, Height: model.DefaultPageHeight}

// SlideSize resolves the root coordinate space for every part of the
// package. A missing or unreadable descriptor falls back to
// DefaultSlideSize rather than failing.
func (pkg *Package) SlideSize() SlideSize {
	data, err := pkg.Read("ppt/presentation.xml")
	if err != nil {
		return DefaultSlideSize
	}
	size, err := ReadPresentation(data)
	if err != nil {
		return DefaultSlideSize
	}
	return size
}

// ReadPresentation reads p:sldSz from presentation.xml content.
func ReadPresentation(data []byte) (SlideSize, error) {
	var pres presentationXML
	if err := xml.Unmarshal(data, &pres); err != nil {
		return DefaultSlideSize, fmt.Errorf("parsing presentation: %w", err)
	}
	if pres.SlideSz == nil || pres.SlideSz.Cx <= 0 {
		return DefaultSlideSize, nil
	}
	size := SlideSize{Width: pres.SlideSz.Cx, Height: pres.SlideSz.Cy, Declared: true}
	if size.Height <= 0 {
		size.Height = DefaultSlideSize.Height
	}
	return size, nil
}

// SlideCount returns the number of slides listed in p:sldIdLst.
func (pkg *Package) SlideCount() int {
	data, err := pkg.Read("ppt/presentation.xml")
	if err != nil {
		return 0
	}
	var pres presentationXML
	if err := xml.Unmarshal(data, &pres); err != nil || pres.SlideIdList == nil {
		return 0
	}
	return len(pres.SlideIdList.SlideId)
}

func parseRelationships(data []byte) (*relationshipsXML, error) {
	rels := &relationshipsXML{}
	if err := xml.Unmarshal(data, rels); err != nil {
		return nil, err
	}
	return rels, nil
}

// EmbeddedWorkbook returns the member name of the workbook that backs a
// chart part's data, or "" when the chart has none inside the package.
func (pkg *Package) EmbeddedWorkbook(chartPart string) (string, error) {
	rels, err := pkg.Relationships(chartPart)
	if err != nil {
		return "", err
	}
	for _, rel := range rels {
		if rel.Type == RelTypePackage && !rel.External && pkg.Has(rel.Target) {
			return rel.Target, nil
		}
	}
	return "", nil
}
