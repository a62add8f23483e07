package rtl

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slog"

	"github.com/tsawler/rtlslide/model"
	"github.com/tsawler/rtlslide/pptx"
)

// ErrAlreadyMirrored is returned by Transform for a part that has already
// been mirrored, since a second mirror restores the LTR layout.
var ErrAlreadyMirrored = errors.New("part is already mirrored")

// Stats counts what a transform did to one part.
type Stats struct {
	ShapesMirrored     int `json:"shapes_mirrored"`
	PicturesMirrored   int `json:"pictures_mirrored"`
	GroupsMirrored     int `json:"groups_mirrored"`
	ConnectorsMirrored int `json:"connectors_mirrored"`
	FramesMirrored     int `json:"frames_mirrored"`

	TextBodies int `json:"text_bodies_processed"`
	Paragraphs int `json:"paragraphs"`
	Runs       int `json:"runs"`

	ShapesFlipped  int `json:"shapes_flipped"`
	LogosPreserved int `json:"logos_preserved"`

	Tables         int `json:"tables"`
	TableCells     int `json:"table_cells"`
	Charts         int `json:"charts"`
	BarAxesFlipped int `json:"bar_axes_flipped"`
	SmartArt       int `json:"smartart"`
	OtherGraphics  int `json:"other_graphics"`

	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.ShapesMirrored += o.ShapesMirrored
	s.PicturesMirrored += o.PicturesMirrored
	s.GroupsMirrored += o.GroupsMirrored
	s.ConnectorsMirrored += o.ConnectorsMirrored
	s.FramesMirrored += o.FramesMirrored
	s.TextBodies += o.TextBodies
	s.Paragraphs += o.Paragraphs
	s.Runs += o.Runs
	s.ShapesFlipped += o.ShapesFlipped
	s.LogosPreserved += o.LogosPreserved
	s.Tables += o.Tables
	s.TableCells += o.TableCells
	s.Charts += o.Charts
	s.BarAxesFlipped += o.BarAxesFlipped
	s.SmartArt += o.SmartArt
	s.OtherGraphics += o.OtherGraphics
	s.Skipped += o.Skipped
	s.Errors += o.Errors
}

// Engine mirrors parts from left-to-right to right-to-left layout. An
// Engine holds no per-part state and may be shared between goroutines.
type Engine struct {
	opts Options
}

// New returns an engine with the given options. A zero Policy is
// replaced by DefaultPolicy, so New(Options{}) behaves like
// New(DefaultOptions()).
func New(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	if opts.Policy.FlipWidthRatio == 0 && opts.Policy.BannerAspect == 0 {
		opts.Policy = DefaultPolicy()
	}
	return &Engine{opts: opts}
}

// Options returns the engine's options.
func (e *Engine) Options() Options { return e.opts }

// Transform returns a mirrored copy of part; part itself is not modified.
// Shape-tree parts are walked from the root space {0, page width}. Chart
// parts get their bar axes reversed.
func (e *Engine) Transform(part *pptx.Part, size pptx.SlideSize) (*pptx.Part, Stats, error) {
	if part.Mirrored() && !e.opts.AllowRemirror {
		return nil, Stats{}, fmt.Errorf("%s: %w", part.Name, ErrAlreadyMirrored)
	}

	out := part.Clone()
	var st Stats
	if out.Kind == pptx.KindChart {
		st.BarAxesFlipped = FlipBarChartAxis(out.Chart())
	} else {
		width := size.Width
		if width <= 0 {
			width = pptx.DefaultSlideSize.Width
		}
		st = e.walk(out.Name, out.Shapes(), model.RootSpace(width), width)
	}
	out.MarkMirrored()

	e.opts.Logger.Debug("part transformed",
		slog.String("part", part.Name),
		slog.Int("mirrored", st.ShapesMirrored+st.PicturesMirrored+st.GroupsMirrored+st.ConnectorsMirrored+st.FramesMirrored),
		slog.Int("flipped", st.ShapesFlipped),
		slog.Int("errors", st.Errors))
	return out, st, nil
}

// Walk mirrors shapes in place within space. pageWidth feeds the
// classifier's page-relative thresholds.
func (e *Engine) Walk(shapes []pptx.Shape, space model.CoordinateSpace, pageWidth int64) Stats {
	return e.walk("", shapes, space, pageWidth)
}

func (e *Engine) walk(part string, shapes []pptx.Shape, space model.CoordinateSpace, pageWidth int64) Stats {
	w := &walker{
		opts:      e.opts,
		log:       e.opts.Logger.With(slog.String("part", part)),
		pageWidth: pageWidth,
	}
	w.walk(shapes, space)
	return w.stats
}

// walker carries the state of one walk. The coordinate space is passed
// down by value and never stored.
type walker struct {
	opts      Options
	log       *slog.Logger
	pageWidth int64
	stats     Stats
}

func (w *walker) walk(shapes []pptx.Shape, space model.CoordinateSpace) {
	for _, s := range shapes {
		w.visit(s, space)
	}
}

// visit processes one shape. A failure is logged and counted and never
// stops the walk over siblings.
func (w *walker) visit(s pptx.Shape, space model.CoordinateSpace) {
	defer func() {
		if r := recover(); r != nil {
			w.fail(s, fmt.Errorf("panic: %v", r))
		}
	}()

	b := s.Common()
	if b.GeometryErr != nil {
		w.fail(s, b.GeometryErr)
	} else if b.BBox == nil {
		w.stats.Skipped++
		w.log.Debug("shape has no geometry", slog.String("shape", b.Name), slog.String("id", b.ID))
	}

	switch sh := s.(type) {
	case *pptx.TextShape:
		w.textShape(sh, space)
	case *pptx.Picture:
		if w.mirror(b, space) {
			w.stats.PicturesMirrored++
			w.stats.LogosPreserved++
		}
	case *pptx.Connector:
		if w.mirror(b, space) {
			w.stats.ConnectorsMirrored++
			if !w.opts.KeepConnectorDirection {
				b.SetFlipH(!b.FlipH())
			}
		}
	case *pptx.Group:
		w.group(sh, space)
	case *pptx.GraphicFrame:
		w.frame(sh, space)
	}
}

// mirror moves a shape with geometry to its mirrored x and reports
// whether it did.
func (w *walker) mirror(b *pptx.Base, space model.CoordinateSpace) bool {
	if b.BBox == nil {
		return false
	}
	b.SetX(model.MirrorX(b.BBox.X, b.BBox.Width, space))
	return true
}

func (w *walker) textShape(ts *pptx.TextShape, space model.CoordinateSpace) {
	if ts.BBox != nil {
		before := *ts.BBox
		w.mirror(&ts.Base, space)
		w.stats.ShapesMirrored++

		d := Classify(ClassifyInput{
			Kind:      KindOf(ts),
			Name:      ts.Name,
			BBox:      before,
			PageWidth: w.pageWidth,
			HasText:   ts.Text != nil && strings.TrimSpace(ts.Text.Text()) != "",
			Preset:    ts.Preset,
		}, w.opts.Policy)

		switch {
		case d.Flip:
			ts.SetFlipH(!ts.FlipH())
			w.stats.ShapesFlipped++
			w.log.Debug("shape flipped", slog.String("shape", ts.Name), slog.String("reason", d.Reason.String()))
		case d.Reason == ReasonLogo:
			w.stats.LogosPreserved++
		}
	}

	if ts.Text != nil {
		tst := RewriteText(ts.Text, w.opts)
		w.stats.TextBodies++
		w.stats.Paragraphs += tst.Paragraphs
		w.stats.Runs += tst.Runs
	}
}

func (w *walker) group(g *pptx.Group, space model.CoordinateSpace) {
	child := space
	if g.BBox != nil {
		child = model.CoordinateSpace{Offset: g.BBox.X, Width: g.BBox.Width}
		w.mirror(&g.Base, space)
		w.stats.GroupsMirrored++
	}
	if g.ChildSpace != nil {
		child = *g.ChildSpace
	}
	w.walk(g.Children, child)
}

func (w *walker) frame(gf *pptx.GraphicFrame, space model.CoordinateSpace) {
	if w.mirror(&gf.Base, space) {
		w.stats.FramesMirrored++
	}

	switch gf.Kind {
	case pptx.GraphicTable:
		w.stats.Tables++
		ts := RestructureTable(gf.Table, w.opts)
		w.stats.TableCells += ts.Cells
		for _, row := range ts.MalformedRows {
			w.log.Warn("table row cell count differs from grid",
				slog.String("shape", gf.Name), slog.String("id", gf.ID), slog.Int("row", row))
		}
	case pptx.GraphicChart:
		w.stats.Charts++
		w.log.Debug("chart frame mirrored, internal layout not walked",
			slog.String("shape", gf.Name), slog.String("rel", gf.ChartRelID))
	case pptx.GraphicSmartArt:
		w.stats.SmartArt++
	default:
		w.stats.OtherGraphics++
	}
}

func (w *walker) fail(s pptx.Shape, err error) {
	w.stats.Errors++
	b := s.Common()
	w.log.Warn("shape not processed",
		slog.String("shape", b.Name), slog.String("id", b.ID),
		slog.String("kind", KindOf(s).String()), slog.Any("error", err))
}
