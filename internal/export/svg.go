// Package export renders stored runs for use outside the terminal.
package export

import (
	"fmt"
	"math"
	"strings"
)

// Series is one curve sampled on a shared abscissa.
type Series struct {
	Name   string
	Color  string
	Values []float64
}

// CurvesToSVG draws every series against x in a single SVG plot.
func CurvesToSVG(x []float64, series []Series, width, height int) string {
	if len(x) < 2 || len(series) == 0 {
		return ""
	}

	// Find bounds
	minX, maxX := x[0], x[len(x)-1]
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s.Values {
			minY = math.Min(minY, v)
			maxY = math.Max(maxY, v)
		}
	}
	if math.IsInf(minY, 0) {
		return ""
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	project := func(xi, yi float64) (float64, float64) {
		px := (xi - minX) / rangeX * float64(width)
		py := float64(height) - (yi-minY)/rangeY*float64(height)
		return px, py
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	if minY < 0 && maxY > 0 {
		_, y0 := project(minX, 0)
		sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#333344" stroke-width="1"/>
`, y0, width, y0))
	}

	for i, s := range series {
		n := len(s.Values)
		if n > len(x) {
			n = len(x)
		}
		if n < 2 {
			continue
		}

		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, s.Color))
		for j := 0; j < n; j++ {
			px, py := project(x[j], s.Values[j])
			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", px, py))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px, py))
			}
		}
		sb.WriteString("\"/>\n")

		sb.WriteString(fmt.Sprintf(`<text x="8" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>
`, 16*(i+1), s.Color, s.Name))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
