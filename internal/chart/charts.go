// Package chart renders the two static report figures with gonum/plot: a
// barrel-rate vs home-run scatter with a LOESS trend curve, and a per-season
// whiff-rate plot with standard-error bars. Rendering failures are fatal to
// the run; there is no retry.
package chart

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"sabercli/internal/analytics"
	apperrors "sabercli/internal/errors"
	"sabercli/pkg/contracts/domain"
)

var (
	scatterColor = color.RGBA{R: 0x4F, G: 0x46, B: 0xE5, A: 0xFF}
	trendColor   = color.RGBA{R: 0xEF, G: 0x44, B: 0x44, A: 0xFF}
	barColor     = color.RGBA{R: 0x10, G: 0xB9, B: 0x81, A: 0xFF}
)

// Renderer draws the report charts.
type Renderer struct {
	logger *slog.Logger
	// LoessSpan is the window fraction of the trend smoother.
	LoessSpan float64
}

// NewRenderer creates a renderer. A nil logger falls back to slog.Default.
func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		logger:    logger,
		LoessSpan: 0.5,
	}
}

// BarrelHomeRunScatter renders the scatter of barrel rate against home runs
// with an overlaid LOESS trend curve and saves it as a PNG at path.
func (r *Renderer) BarrelHomeRunScatter(records []domain.PlayerSeason, path string) error {
	xs, ys := analytics.BarrelHomeRunPairs(records)
	if len(xs) == 0 {
		return apperrors.NewRenderError("no usable (barrel_rate, home_run) pairs to plot", nil)
	}

	p := plot.New()
	p.Title.Text = "Barrel Rate vs Home Runs"
	p.X.Label.Text = "Barrel rate (%)"
	p.Y.Label.Text = "Home runs"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return apperrors.NewRenderError("failed to build scatter", err)
	}
	scatter.GlyphStyle.Color = scatterColor
	scatter.GlyphStyle.Radius = vg.Points(2.5)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(scatter)
	p.Legend.Add("player seasons", scatter)

	tx, ty := Loess(xs, ys, r.LoessSpan, 50)
	trendPts := make(plotter.XYs, len(tx))
	for i := range tx {
		trendPts[i].X = tx[i]
		trendPts[i].Y = ty[i]
	}
	trend, err := plotter.NewLine(trendPts)
	if err != nil {
		return apperrors.NewRenderError("failed to build trend line", err)
	}
	trend.LineStyle.Color = trendColor
	trend.LineStyle.Width = vg.Points(2)
	p.Add(trend)
	p.Legend.Add("loess trend", trend)
	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return apperrors.NewRenderError("failed to save scatter chart", err).
			WithContext("path", path)
	}

	r.logger.Info("rendered scatter chart",
		slog.String("path", path),
		slog.Int("points", len(xs)))
	return nil
}

// whiffPoints combines coordinates and error-bar extents the way
// plotter.NewYErrorBars expects.
type whiffPoints struct {
	plotter.XYs
	plotter.YErrors
}

// WhiffTrend renders the per-season mean whiff rate as points with ±1
// standard-error bars and saves it as a PNG at path.
func (r *Renderer) WhiffTrend(stats []analytics.SeasonWhiffStat, path string) error {
	usable := make([]analytics.SeasonWhiffStat, 0, len(stats))
	for _, s := range stats {
		if math.IsNaN(s.Mean) {
			continue
		}
		usable = append(usable, s)
	}
	if len(usable) == 0 {
		return apperrors.NewRenderError("no seasons with a usable mean whiff rate", nil)
	}

	p := plot.New()
	p.Title.Text = "League Mean Whiff Rate by Season"
	p.X.Label.Text = "Season"
	p.Y.Label.Text = "Whiff rate (%)"
	p.Add(plotter.NewGrid())
	p.X.Tick.Marker = seasonTicks(usable)

	data := whiffPoints{
		XYs:     make(plotter.XYs, len(usable)),
		YErrors: make(plotter.YErrors, len(usable)),
	}
	for i, s := range usable {
		data.XYs[i].X = float64(s.Year)
		data.XYs[i].Y = s.Mean
		se := s.StdErr
		if math.IsNaN(se) {
			// A single-player season has no spread to draw.
			se = 0
		}
		data.YErrors[i].Low = se
		data.YErrors[i].High = se
	}

	means, err := plotter.NewScatter(data.XYs)
	if err != nil {
		return apperrors.NewRenderError("failed to build mean points", err)
	}
	means.GlyphStyle.Color = barColor
	means.GlyphStyle.Radius = vg.Points(4)
	means.GlyphStyle.Shape = draw.CircleGlyph{}

	bars, err := plotter.NewYErrorBars(data)
	if err != nil {
		return apperrors.NewRenderError("failed to build error bars", err)
	}
	bars.LineStyle.Color = barColor
	bars.LineStyle.Width = vg.Points(1.5)

	p.Add(bars, means)
	p.Legend.Add("mean ± std. error", means)
	p.Legend.Top = true

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return apperrors.NewRenderError("failed to save whiff trend chart", err).
			WithContext("path", path)
	}

	r.logger.Info("rendered whiff trend chart",
		slog.String("path", path),
		slog.Int("seasons", len(usable)))
	return nil
}

// seasonTicks puts one labeled tick on each plotted season instead of
// letting the axis interpolate fractional years.
func seasonTicks(stats []analytics.SeasonWhiffStat) plot.ConstantTicks {
	ticks := make([]plot.Tick, 0, len(stats))
	for _, s := range stats {
		ticks = append(ticks, plot.Tick{
			Value: float64(s.Year),
			Label: fmt.Sprintf("%d", s.Year),
		})
	}
	return plot.ConstantTicks(ticks)
}
