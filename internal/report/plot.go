package report

import (
	"fmt"
	"io"
	"os"

	"cryptofactor/internal/domain"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	plotWidth  = 10 * vg.Inch
	plotHeight = 8 * vg.Inch
)

// EquitySeries returns the portfolio value and drawdown from the running
// peak for each day, with x in unix seconds.
func EquitySeries(days []domain.PortfolioState) (plotter.XYs, plotter.XYs) {
	equity := make(plotter.XYs, len(days))
	drawdown := make(plotter.XYs, len(days))
	peak := 0.0
	for i, day := range days {
		v := day.Value.InexactFloat64()
		if v > peak {
			peak = v
		}
		x := float64(day.Date.Unix())
		equity[i].X, equity[i].Y = x, v
		drawdown[i].X = x
		if peak > 0 {
			drawdown[i].Y = v/peak - 1
		}
	}
	return equity, drawdown
}

func linePlot(title, yLabel string, pts plotter.XYs, colorIdx int) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = yLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s line: %w", title, err)
	}
	line.Color = plotutil.Color(colorIdx)
	p.Add(line)
	return p, nil
}

// WriteEquityPlot renders equity over drawdown as a png.
func WriteEquityPlot(w io.Writer, result *domain.BacktestResult) error {
	if len(result.Days) == 0 {
		return fmt.Errorf("no days to plot")
	}
	equity, drawdown := EquitySeries(result.Days)

	equityPlot, err := linePlot("Equity", "value", equity, 0)
	if err != nil {
		return err
	}
	drawdownPlot, err := linePlot("Drawdown", "from peak", drawdown, 1)
	if err != nil {
		return err
	}

	img := vgimg.New(plotWidth, plotHeight)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      2,
		Cols:      1,
		PadY:      vg.Millimeter,
		PadTop:    vg.Points(10),
		PadBottom: vg.Points(10),
		PadLeft:   vg.Points(10),
		PadRight:  vg.Points(10),
	}
	grid := [][]*plot.Plot{{equityPlot}, {drawdownPlot}}
	canvases := plot.Align(grid, tiles, dc)
	for i := range grid {
		grid[i][0].Draw(canvases[i][0])
	}

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write plot: %w", err)
	}
	return nil
}

func SaveEquityPlot(path string, result *domain.BacktestResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return WriteEquityPlot(f, result)
}
