package rtlslide

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"

	"github.com/tsawler/rtlslide/content"
	"github.com/tsawler/rtlslide/format"
	"github.com/tsawler/rtlslide/model"
	"github.com/tsawler/rtlslide/pptx"
	"github.com/tsawler/rtlslide/rtl"
	"github.com/tsawler/rtlslide/text"
	"github.com/tsawler/rtlslide/translate"
)

var (
	// ErrConverted is returned by Run on a converter that already ran, or
	// whose package another converter already converted.
	ErrConverted = errors.New("presentation already converted")

	// ErrNotConverted is returned by Save and WriteTo before Run.
	ErrNotConverted = errors.New("presentation not converted")
)

// Converter provides a fluent interface for converting a presentation to
// right-to-left. Each configuration method returns a new Converter
// instance, so a configured Converter can be used as a template.
//
// Run converts the package in memory; Save and WriteTo must be called on
// the same instance afterwards. Converters derived from one FromPackage
// share that package, and only the first of them to Run converts it.
// Converters derived from Open read the file separately.
type Converter struct {
	// Source
	filename string
	pkg      *pptx.Package

	// Configuration
	options ConvertOptions

	converted bool

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Converter with a deep copy of options.
func (c *Converter) clone() *Converter {
	return &Converter{
		filename:  c.filename,
		pkg:       c.pkg,
		options:   c.options.clone(),
		converted: c.converted,
		err:       c.err,
	}
}

// ensurePackage opens the package if not already open.
func (c *Converter) ensurePackage() error {
	if c.pkg != nil {
		return nil
	}
	if c.filename == "" {
		return fmt.Errorf("no filename specified")
	}

	f, err := os.Open(c.filename)
	if err != nil {
		return fmt.Errorf("failed to open presentation: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to open presentation: %w", err)
	}

	ft, err := format.DetectFromReader(f, info.Size())
	if err != nil {
		return fmt.Errorf("failed to detect format: %w", err)
	}
	if ft == format.Unknown {
		ft = format.Detect(c.filename)
	}
	if !ft.Supported() {
		return fmt.Errorf("unsupported file format: %s", ft)
	}

	pkg, err := pptx.ReadPackage(f, info.Size())
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", ft, err)
	}
	c.pkg = pkg
	return nil
}

// ============================================================================
// Configuration Methods (return new Converter instance)
// ============================================================================

// Locale sets the BCP 47 target language written on every run. The
// default is ar-SA.
//
// Example:
//
//	report, err := rtlslide.Open("deck.pptx").Locale("he-IL").Run(ctx)
func (c *Converter) Locale(tag string) *Converter {
	newConv := c.clone()
	l, err := text.ParseLocale(tag)
	if err != nil && newConv.err == nil {
		newConv.err = err
	}
	if err == nil {
		newConv.options.locale = l
	}
	return newConv
}

// Policy replaces the flip classifier thresholds.
func (c *Converter) Policy(p rtl.Policy) *Converter {
	newConv := c.clone()
	if err := p.Validate(); err != nil && newConv.err == nil {
		newConv.err = err
	}
	newConv.options.policy = p
	newConv.options.policy.LogoKeywords = append([]string(nil), p.LogoKeywords...)
	newConv.options.policy.DirectionalPresets = append([]string(nil), p.DirectionalPresets...)
	return newConv
}

// Translator sets the service that translates extracted text. Without a
// translator or Documents, only the layout is mirrored.
func (c *Converter) Translator(tr translate.Translator) *Converter {
	newConv := c.clone()
	newConv.options.translator = tr
	return newConv
}

// Documents supplies translated records keyed by part name, such as a
// reviewed export read back with content.ReadEntries. Parts missing from
// docs keep their text. Documents takes precedence over a Translator for
// shape-tree parts; charts are still sent to the Translator.
func (c *Converter) Documents(docs map[string]content.Document) *Converter {
	newConv := c.clone()
	newConv.options.documents = make(map[string]content.Document, len(docs))
	for k, v := range docs {
		newConv.options.documents[k] = v
	}
	return newConv
}

// DocumentContext sets the context string sent to the translator with
// every part.
func (c *Converter) DocumentContext(s string) *Converter {
	newConv := c.clone()
	newConv.options.context = s
	return newConv
}

// FlipConnectors controls whether connectors are flipped as well as
// moved. The default is true.
func (c *Converter) FlipConnectors(flip bool) *Converter {
	newConv := c.clone()
	newConv.options.flipConnectors = flip
	return newConv
}

// SkipCharts leaves chart parts untouched. Chart frames on slides are
// still mirrored.
func (c *Converter) SkipCharts() *Converter {
	newConv := c.clone()
	newConv.options.skipCharts = true
	return newConv
}

// Parallelism sets how many parts are converted at once. Values below 1
// mean one at a time.
func (c *Converter) Parallelism(n int) *Converter {
	newConv := c.clone()
	newConv.options.parallelism = n
	return newConv
}

// FailFast makes Run stop and return the first part error instead of
// writing failed parts back unchanged.
func (c *Converter) FailFast() *Converter {
	newConv := c.clone()
	newConv.options.failFast = true
	return newConv
}

// Logger sets the structured logger. The default discards output.
func (c *Converter) Logger(l *slog.Logger) *Converter {
	newConv := c.clone()
	if l != nil {
		newConv.options.logger = l
	}
	return newConv
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Records extracts the text records of every slide, layout and master
// without converting anything. Entries are in part order.
func (c *Converter) Records() ([]content.Entry, error) {
	if c.err != nil {
		return nil, c.err
	}
	if err := c.ensurePackage(); err != nil {
		return nil, err
	}

	copts := c.options.contentOptions()
	var names []string
	docs := make(map[string]content.Document)
	for _, ref := range c.pkg.Parts() {
		if ref.Kind == pptx.KindChart {
			continue
		}
		data, err := c.pkg.Read(ref.Name)
		if err != nil {
			return nil, &PartError{Part: ref.Name, Stage: StageRead, Err: err}
		}
		part, err := pptx.ParsePart(ref.Name, data)
		if err != nil {
			return nil, &PartError{Part: ref.Name, Stage: StageParse, Err: err}
		}
		names = append(names, ref.Name)
		docs[ref.Name] = content.Extract(part, copts)
	}
	return content.Entries(names, docs), nil
}

// replacement is a member rewritten by a part task.
type replacement struct {
	name string
	data []byte
}

type partResult struct {
	report  PartReport
	members []replacement
}

// Run converts every slide master, layout, slide and chart of the
// presentation. Parts are converted in parallel and written back to the
// package once all of them are done. A part that fails is reported and
// left unchanged unless FailFast is set.
func (c *Converter) Run(ctx context.Context) (*Report, error) {
	if c.err != nil {
		return nil, c.err
	}
	if c.converted {
		return nil, ErrConverted
	}
	if err := c.ensurePackage(); err != nil {
		return nil, err
	}
	if c.pkg.Converted() {
		return nil, ErrConverted
	}

	opts := c.options
	size := c.pkg.SlideSize()
	engine := rtl.New(opts.engineOptions())

	var refs []pptx.PartRef
	for _, ref := range c.pkg.Parts() {
		if opts.skipCharts && ref.Kind == pptx.KindChart {
			continue
		}
		refs = append(refs, ref)
	}

	results := make([]partResult, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.parallelism, 1))
	for i, ref := range refs {
		g.Go(func() error {
			results[i] = c.convertPart(gctx, engine, size, ref)
			if pe := results[i].report.Err; pe != nil {
				opts.logger.Warn("part not converted",
					slog.String("part", pe.Part),
					slog.String("stage", pe.Stage),
					slog.Any("error", pe.Err))
				if opts.failFast {
					return pe
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !c.pkg.MarkConverted() {
		return nil, ErrConverted
	}

	report := &Report{SlideSize: size, Parts: make([]PartReport, len(refs))}
	for i, res := range results {
		report.Parts[i] = res.report
		if res.report.Err != nil {
			continue
		}
		for _, m := range res.members {
			if err := c.pkg.Replace(m.name, m.data); err != nil {
				return nil, fmt.Errorf("writing back %s: %w", m.name, err)
			}
		}
	}
	report.collect()
	c.converted = true

	opts.logger.Info("presentation converted",
		slog.Float64("width_in", model.Inches(size.Width)),
		slog.Int("parts", len(report.Parts)),
		slog.Int("failed", len(report.Errors)),
		slog.Int("injected", report.Inject.Injected),
		slog.Int("flipped", report.Stats.ShapesFlipped))
	return report, nil
}

// WriteTo writes the converted presentation to w.
func (c *Converter) WriteTo(w io.Writer) (int64, error) {
	if !c.converted {
		return 0, ErrNotConverted
	}
	return c.pkg.WriteTo(w)
}

// Save writes the converted presentation to filename.
func (c *Converter) Save(filename string) error {
	if !c.converted {
		return ErrNotConverted
	}
	return c.pkg.Save(filename)
}

// ============================================================================
// Part conversion
// ============================================================================

func stageErr(part, stage string, err error) error {
	return &PartError{Part: part, Stage: stage, Err: err}
}

func (c *Converter) convertPart(ctx context.Context, engine *rtl.Engine, size pptx.SlideSize, ref pptx.PartRef) partResult {
	res := partResult{report: PartReport{Name: ref.Name, Kind: ref.Kind}}
	if err := c.convertInto(ctx, engine, size, ref, &res); err != nil {
		var pe *PartError
		if !errors.As(err, &pe) {
			pe = &PartError{Part: ref.Name, Stage: StageRead, Err: err}
		}
		res.report.Err = pe
		res.members = nil
	}
	return res
}

func (c *Converter) convertInto(ctx context.Context, engine *rtl.Engine, size pptx.SlideSize, ref pptx.PartRef, res *partResult) error {
	if err := ctx.Err(); err != nil {
		return stageErr(ref.Name, StageRead, err)
	}
	data, err := c.pkg.Read(ref.Name)
	if err != nil {
		return stageErr(ref.Name, StageRead, err)
	}
	part, err := pptx.ParsePart(ref.Name, data)
	if err != nil {
		return stageErr(ref.Name, StageParse, err)
	}
	if part.Kind == pptx.KindChart {
		return c.convertChart(ctx, engine, size, part, res)
	}

	copts := c.options.contentOptions()
	sent := content.Extract(part, copts)
	res.report.Records = len(sent.Elements)

	got, ok, err := c.translation(ctx, part.Name, sent, &res.report)
	if err != nil {
		return stageErr(part.Name, StageTranslate, err)
	}

	out, st, err := engine.Transform(part, size)
	if err != nil {
		return stageErr(part.Name, StageTransform, err)
	}
	res.report.Stats = st

	if ok {
		is, err := content.Inject(out, got, copts)
		if err != nil {
			return stageErr(part.Name, StageInject, err)
		}
		res.report.Inject = is
	}

	b, err := out.Bytes()
	if err != nil {
		return stageErr(part.Name, StageSerialize, err)
	}
	res.members = append(res.members, replacement{name: part.Name, data: b})

	c.options.logger.Info("part converted",
		slog.String("part", part.Name),
		slog.String("kind", part.Kind.String()),
		slog.Int("records", res.report.Records),
		slog.Int("injected", res.report.Inject.Injected),
		slog.Int("flipped", st.ShapesFlipped),
		slog.Int("errors", st.Errors))
	return nil
}

// translation returns the translated records for a part. ok is false when
// there is nothing to inject. The result only carries ids that were sent.
func (c *Converter) translation(ctx context.Context, name string, sent content.Document, pr *PartReport) (content.Document, bool, error) {
	o := c.options
	var got content.Document
	switch {
	case o.documents != nil:
		d, found := o.documents[name]
		if !found {
			return content.Document{}, false, nil
		}
		got = d
	case o.translator != nil && len(sent.Elements) > 0:
		d, err := o.translator.Translate(ctx, sent)
		if err != nil {
			return content.Document{}, false, err
		}
		got = d
	default:
		return content.Document{}, false, nil
	}

	got = translate.SanitizeDocument(got)
	if err := translate.Validate(sent, got); err != nil {
		pr.TranslationMismatch = true
		o.logger.Warn("translated ids differ from extracted ids",
			slog.String("part", name), slog.Any("error", err))
	}
	return translate.Restrict(sent, got), true, nil
}

func (c *Converter) convertChart(ctx context.Context, engine *rtl.Engine, size pptx.SlideSize, part *pptx.Part, res *partResult) error {
	o := c.options
	ct := content.ExtractChart(part)

	var translated *content.ChartText
	if o.translator != nil && !ct.IsEmpty() {
		tct, err := translate.Chart(ctx, o.translator, ct)
		if err != nil {
			return stageErr(part.Name, StageTranslate, err)
		}
		translated = &tct
	}

	out, st, err := engine.Transform(part, size)
	if err != nil {
		return stageErr(part.Name, StageTransform, err)
	}
	res.report.Stats = st

	if translated != nil {
		updates, err := content.InjectChart(out, *translated, o.contentOptions())
		if err != nil {
			return stageErr(part.Name, StageInject, err)
		}
		if err := c.syncWorkbook(part.Name, updates, res); err != nil {
			return stageErr(part.Name, StageWorkbook, err)
		}
	}

	b, err := out.Bytes()
	if err != nil {
		return stageErr(part.Name, StageSerialize, err)
	}
	res.members = append(res.members, replacement{name: part.Name, data: b})

	o.logger.Info("chart converted",
		slog.String("part", part.Name),
		slog.Int("bar_axes_flipped", st.BarAxesFlipped),
		slog.String("workbook", res.report.Workbook))
	return nil
}

// syncWorkbook writes translated chart labels into the chart's embedded
// workbook so that editing the chart data keeps them.
func (c *Converter) syncWorkbook(chart string, updates []content.CellUpdate, res *partResult) error {
	if len(updates) == 0 {
		return nil
	}
	name, err := c.pkg.EmbeddedWorkbook(chart)
	if err != nil || name == "" {
		return err
	}
	data, err := c.pkg.Read(name)
	if err != nil {
		return err
	}
	out, skipped, err := content.SyncWorkbook(data, updates)
	if err != nil {
		return err
	}
	res.report.Workbook = name
	res.report.WorkbookCells = len(updates) - skipped
	res.report.WorkbookSkipped = skipped
	res.members = append(res.members, replacement{name: name, data: out})
	return nil
}
