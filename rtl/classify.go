package rtl

import (
	"strings"

	"github.com/tsawler/rtlslide/model"
	"github.com/tsawler/rtlslide/pptx"
)

// ShapeKind is the shape variant the classifier is asked about.
type ShapeKind int

const (
	KindText ShapeKind = iota
	KindPicture
	KindConnector
	KindGroup
	KindGraphic
)

func (k ShapeKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindPicture:
		return "picture"
	case KindConnector:
		return "connector"
	case KindGroup:
		return "group"
	case KindGraphic:
		return "graphic"
	default:
		return "unknown"
	}
}

// KindOf returns the classifier kind of a parsed shape.
func KindOf(s pptx.Shape) ShapeKind {
	switch s.(type) {
	case *pptx.TextShape:
		return KindText
	case *pptx.Picture:
		return KindPicture
	case *pptx.Connector:
		return KindConnector
	case *pptx.Group:
		return KindGroup
	default:
		return KindGraphic
	}
}

// Reason explains a flip decision.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonHasText
	ReasonLogo
	ReasonDirectional
	ReasonWideBanner
)

func (r Reason) String() string {
	switch r {
	case ReasonHasText:
		return "has-text"
	case ReasonLogo:
		return "logo"
	case ReasonDirectional:
		return "directional"
	case ReasonWideBanner:
		return "wide-banner"
	default:
		return "none"
	}
}

// ClassifyInput is everything the classifier looks at.
type ClassifyInput struct {
	Kind      ShapeKind
	Name      string
	BBox      model.BBox
	PageWidth int64
	HasText   bool
	Preset    string
}

// Decision is the classifier's verdict.
type Decision struct {
	Flip   bool
	Reason Reason
}

// Classify decides whether a shape's content is flipped horizontally on
// top of its position mirror. Rules apply in order and the first match
// wins: text is never flipped, logos are never flipped, directional
// presets are flipped, wide banners are flipped, everything else is not.
func Classify(in ClassifyInput, p Policy) Decision {
	if in.HasText {
		return Decision{Reason: ReasonHasText}
	}
	if IsLogo(in, p) {
		return Decision{Reason: ReasonLogo}
	}
	for _, prst := range p.DirectionalPresets {
		if in.Preset != "" && in.Preset == prst {
			return Decision{Flip: true, Reason: ReasonDirectional}
		}
	}

	wide := float64(in.BBox.Width) >= float64(in.PageWidth)*p.FlipWidthRatio
	if wide && in.BBox.AspectRatio() > p.BannerAspect {
		return Decision{Flip: true, Reason: ReasonWideBanner}
	}
	return Decision{Reason: ReasonNone}
}

// IsLogo applies the brand-asset heuristic: a keyword in the name, a
// small picture in a side margin, or a small squarish shape in a side
// margin.
func IsLogo(in ClassifyInput, p Policy) bool {
	name := strings.ToLower(in.Name)
	for _, kw := range p.LogoKeywords {
		if kw != "" && strings.Contains(name, strings.ToLower(kw)) {
			return true
		}
	}

	page := float64(in.PageWidth)
	small := float64(in.BBox.Width) < page*p.LogoWidthRatio

	margin := page * p.LogoMarginRatio
	inMargin := float64(in.BBox.X) < margin || float64(in.BBox.Right()) > page-margin

	if in.Kind == KindPicture {
		return small && inMargin
	}

	squarish := true
	if in.BBox.Height > 0 {
		ar := in.BBox.AspectRatio()
		squarish = ar >= p.SquareMin && ar <= p.SquareMax
	}
	return small && inMargin && squarish
}
