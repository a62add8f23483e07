// Package pptx provides namespace-preserving access to the parts of a
// PPTX (Office Open XML Presentation) package.
package pptx

import "encoding/xml"

// XML namespaces used in PPTX files.
const (
	NSPresentationML = "http://schemas.openxmlformats.org/presentationml/2006/main"
	NSDrawingML      = "http://schemas.openxmlformats.org/drawingml/2006/main"
	NSChart          = "http://schemas.openxmlformats.org/drawingml/2006/chart"
	NSRelationships  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NSPackageRels    = "http://schemas.openxmlformats.org/package/2006/relationships"
	NSMarkupCompat   = "http://schemas.openxmlformats.org/markup-compatibility/2006"
)

// Relationship types consulted when resolving chart parts.
const (
	RelTypeChart   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/chart"
	RelTypePackage = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/package"
)

// presentationXML represents the ppt/presentation.xml file structure.
type presentationXML struct {
	XMLName     xml.Name        `xml:"presentation"`
	SlideIdList *slideIdListXML `xml:"sldIdLst"`
	SlideSz     *slideSzXML     `xml:"sldSz"`
}

type slideIdListXML struct {
	SlideId []slideIdXML `xml:"sldId"`
}

type slideIdXML struct {
	ID  string `xml:"id,attr"`
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"` // r:id attribute for relationship
}

type slideSzXML struct {
	Cx int64 `xml:"cx,attr"` // Width in EMUs
	Cy int64 `xml:"cy,attr"` // Height in EMUs
}

// relationshipsXML represents .rels files.
type relationshipsXML struct {
	XMLName      xml.Name          `xml:"Relationships"`
	Relationship []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}
