package rtl

import (
	"golang.org/x/exp/slices"

	"github.com/tsawler/rtlslide/pptx"
)

// Orientation written on the value axis of horizontal bar charts.
const reversedOrientation = "maxMin"

// FlipBarChartAxis reverses the value axis of every horizontal bar plot
// so bars grow from the right edge. Column charts and other plot types are
// left alone. It returns the number of bar plots whose axis was set and is
// idempotent.
func FlipBarChartAxis(c *pptx.Chart) int {
	if c == nil {
		return 0
	}
	axes := c.ValueAxes()
	if len(axes) == 0 {
		return 0
	}

	flipped := 0
	for _, bar := range c.BarCharts() {
		if bar.Direction() != "bar" {
			continue
		}
		ids := bar.AxisIDs()
		target := axes[0]
		for _, ax := range axes {
			if slices.Contains(ids, ax.ID()) {
				target = ax
				break
			}
		}
		target.SetOrientation(reversedOrientation)
		flipped++
	}
	return flipped
}
