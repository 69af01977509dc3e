// Package render draws simulation results, both as image files and as
// plain text on a terminal.
package render

import (
	"errors"
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/domino14/stratsim/evolution"
)

var DefaultStrategyNames = []string{"Keyword optimization", "Content quality"}

type ChartOptions struct {
	Width  vg.Length
	Height vg.Length
	// StrategyNames label the strategy components; missing names fall
	// back to "Strategy N".
	StrategyNames []string
}

func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		Width:         12 * vg.Inch,
		Height:        6 * vg.Inch,
		StrategyNames: DefaultStrategyNames,
	}
}

// SiteName turns a site index into a letter: 0 is "A", 1 is "B".
func SiteName(site int) string {
	if site < 26 {
		return string(rune('A' + site))
	}
	return fmt.Sprintf("%d", site+1)
}

func (o ChartOptions) strategyName(k int) string {
	if k < len(o.StrategyNames) {
		return o.StrategyNames[k]
	}
	return fmt.Sprintf("Strategy %d", k+1)
}

// PhaseChart writes a PNG with one panel per site, side by side. Each panel
// shows how every strategy component of that site moved across phases.
func PhaseChart(w io.Writer, s *evolution.Strategies, opts ChartOptions) error {
	phases, sites, strategies := s.Shape()
	if phases == 0 || sites == 0 {
		return errors.New("nothing to plot")
	}

	row := make([]*plot.Plot, sites)
	for site := range row {
		p := plot.New()
		p.Title.Text = "Site " + SiteName(site) + " strategies"
		p.X.Label.Text = "Phase"
		p.Y.Label.Text = "Strategy intensity"
		p.Legend.Top = true

		for k := 0; k < strategies; k++ {
			traj := s.Trajectory(site, k)
			pts := make(plotter.XYs, phases)
			for i, v := range traj {
				pts[i].X = float64(i + 1)
				pts[i].Y = v
			}
			l, err := plotter.NewLine(pts)
			if err != nil {
				return fmt.Errorf("site %d strategy %d: %w", site, k, err)
			}
			l.Color = plotutil.Color(k)
			p.Add(l)
			p.Legend.Add(opts.strategyName(k)+" - Site "+SiteName(site), l)
		}
		row[site] = p
	}

	img := vgimg.New(opts.Width, opts.Height)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      1,
		Cols:      sites,
		PadX:      4 * vg.Millimeter,
		PadY:      4 * vg.Millimeter,
		PadTop:    2 * vg.Millimeter,
		PadBottom: 2 * vg.Millimeter,
		PadLeft:   2 * vg.Millimeter,
		PadRight:  2 * vg.Millimeter,
	}
	canvases := plot.Align([][]*plot.Plot{row}, tiles, dc)
	for i, p := range row {
		p.Draw(canvases[0][i])
	}

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("writing chart: %w", err)
	}
	return nil
}
