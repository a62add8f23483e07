package rtlslide

import (
	"io"
	"runtime"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"

	"github.com/tsawler/rtlslide/content"
	"github.com/tsawler/rtlslide/rtl"
	"github.com/tsawler/rtlslide/text"
	"github.com/tsawler/rtlslide/translate"
)

// ConvertOptions holds configuration for a conversion.
type ConvertOptions struct {
	locale text.Locale
	policy rtl.Policy

	// Text source: a translator, or records reviewed offline keyed by
	// part name. Neither means layout only.
	translator translate.Translator
	documents  map[string]content.Document

	context        string
	flipConnectors bool
	skipCharts     bool

	parallelism int
	failFast    bool

	logger *slog.Logger
}

// defaultOptions returns the default conversion options.
func defaultOptions() ConvertOptions {
	return ConvertOptions{
		locale:         text.MustParseLocale(text.DefaultLocale),
		policy:         rtl.DefaultPolicy(),
		context:        content.DefaultContext,
		flipConnectors: true,
		parallelism:    runtime.GOMAXPROCS(0),
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// clone creates a deep copy of ConvertOptions.
func (o ConvertOptions) clone() ConvertOptions {
	newOpts := o

	// Deep copy the policy lists
	newOpts.policy.LogoKeywords = slices.Clone(o.policy.LogoKeywords)
	newOpts.policy.DirectionalPresets = slices.Clone(o.policy.DirectionalPresets)
	newOpts.documents = maps.Clone(o.documents)
	return newOpts
}

// engineOptions maps the conversion options onto the transform engine.
func (o ConvertOptions) engineOptions() rtl.Options {
	eo := rtl.DefaultOptions()
	eo.Policy = o.policy
	eo.Locale = o.locale
	eo.KeepConnectorDirection = !o.flipConnectors
	eo.Logger = o.logger
	return eo
}

func (o ConvertOptions) contentOptions() content.Options {
	return content.Options{
		Context: o.context,
		Locale:  o.locale,
		Logger:  o.logger,
	}
}
