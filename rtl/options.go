package rtl

import (
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/exp/slog"

	"github.com/tsawler/rtlslide/text"
)

// Policy holds the thresholds of the flip classifier. The values are
// empirical and tuned for common slide decks, so they are configurable
// rather than fixed.
type Policy struct {
	// FlipWidthRatio is the fraction of the page width at or above which
	// a wide textless shape is flipped as a banner.
	FlipWidthRatio float64 `json:"flip_width_ratio"`
	// BannerAspect is the width/height ratio a banner must exceed.
	BannerAspect float64 `json:"banner_aspect"`

	// LogoWidthRatio is the fraction of the page width below which a
	// shape counts as small.
	LogoWidthRatio float64 `json:"logo_width_ratio"`
	// LogoMarginRatio is the fraction of the page width that forms the
	// left and right margins logos sit in.
	LogoMarginRatio float64 `json:"logo_margin_ratio"`
	// SquareMin and SquareMax bound the aspect ratio of a squarish shape.
	SquareMin float64 `json:"square_min"`
	SquareMax float64 `json:"square_max"`

	// LogoKeywords are matched case-insensitively against shape names.
	LogoKeywords []string `json:"logo_keywords"`
	// DirectionalPresets are preset geometries that point somewhere and
	// are flipped when they carry no text.
	DirectionalPresets []string `json:"directional_presets"`
}

// DefaultPolicy returns the standard classifier thresholds.
func DefaultPolicy() Policy {
	return Policy{
		FlipWidthRatio:  0.4,
		BannerAspect:    1.5,
		LogoWidthRatio:  0.15,
		LogoMarginRatio: 0.1,
		SquareMin:       0.5,
		SquareMax:       2.0,
		LogoKeywords: []string{
			"logo", "watermark", "brand", "trademark", "icon",
			"emblem", "badge", "seal", "copyright",
		},
		DirectionalPresets: []string{
			"chevron", "homePlate", "leftArrow", "rightArrow",
			"stripedRightArrow", "bentArrow", "curvedRightArrow",
			"curvedLeftArrow", "notchedRightArrow", "leftRightArrow",
			"flowChartOffpageConnector",
		},
	}
}

// LoadPolicy reads a JSON policy. Fields missing from the document keep
// their default values.
func LoadPolicy(r io.Reader) (Policy, error) {
	p := DefaultPolicy()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Policy{}, fmt.Errorf("decoding policy: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// Validate reports thresholds that cannot describe a page.
func (p Policy) Validate() error {
	for _, r := range []struct {
		name string
		v    float64
	}{
		{"flip_width_ratio", p.FlipWidthRatio},
		{"logo_width_ratio", p.LogoWidthRatio},
		{"logo_margin_ratio", p.LogoMarginRatio},
	} {
		if r.v < 0 || r.v > 1 {
			return fmt.Errorf("policy %s = %v: must be within [0, 1]", r.name, r.v)
		}
	}
	if p.SquareMin > p.SquareMax {
		return fmt.Errorf("policy square_min %v exceeds square_max %v", p.SquareMin, p.SquareMax)
	}
	return nil
}

// DefaultComplexScriptFont is assigned to runs that need an Arabic-capable
// complex-script typeface.
const DefaultComplexScriptFont = "Simplified Arabic"

// DefaultAllowedFonts are complex-script typefaces known to render Arabic
// well. Runs using any other complex-script font are switched to the
// default.
var DefaultAllowedFonts = []string{"Simplified Arabic", "Traditional Arabic", "Arabic Typesetting", "Arial"}

// Options configures the transformation engine.
type Options struct {
	Policy Policy

	// Locale is written as the language of every rewritten run.
	Locale text.Locale

	// ComplexScriptFont replaces or supplements complex-script fonts.
	ComplexScriptFont string
	// AllowedFonts are complex-script typefaces left untouched.
	AllowedFonts []string

	// KeepConnectorDirection moves connectors without toggling their
	// horizontal flip. By default the flip is toggled so arrowheads point
	// the mirrored way.
	KeepConnectorDirection bool

	// AllowRemirror lets Transform run on a part already mirrored.
	AllowRemirror bool

	Logger *slog.Logger
}

// DefaultOptions returns options for an Arabic (ar-SA) target.
func DefaultOptions() Options {
	return Options{
		Policy:            DefaultPolicy(),
		Locale:            text.MustParseLocale(text.DefaultLocale),
		ComplexScriptFont: DefaultComplexScriptFont,
		AllowedFonts:      DefaultAllowedFonts,
		Logger:            discardLogger(),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (o Options) csFont() string {
	if o.ComplexScriptFont == "" {
		return DefaultComplexScriptFont
	}
	return o.ComplexScriptFont
}

func (o Options) allowedFonts() []string {
	if o.AllowedFonts == nil {
		return DefaultAllowedFonts
	}
	return o.AllowedFonts
}
