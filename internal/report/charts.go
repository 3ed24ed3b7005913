package report

import (
	"fmt"
	"math"
	"strings"

	"psychoreport/internal/domain"
	"psychoreport/internal/scoring"
)

const (
	barChartWidth  = 640
	barRowHeight   = 36
	barLabelWidth  = 180
	barChartMargin = 24

	radarSize   = 360
	radarRadius = 130
	radarLevels = 4
)

const (
	colorCandidate  = "#2f6fb3"
	colorPopulation = "#b0b7c3"
	colorGrid       = "#d9dde3"
)

// BarChartSVG draws candidate average against population average per
// category on the 0..3 reliability scale.
func BarChartSVG(categories []domain.CategoryResult) HTML {
	if len(categories) == 0 {
		return ""
	}
	plot := float64(barChartWidth - barLabelWidth - barChartMargin*2)
	height := barChartMargin*2 + barRowHeight*len(categories) + 24
	scale := func(v float64) float64 {
		v = math.Max(0, math.Min(v, scoring.MaxReliabilityScore))
		return v / scoring.MaxReliabilityScore * plot
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" class="comparison-chart" width="%d" height="%d" viewBox="0 0 %d %d" role="img" aria-label="Comparación con el promedio poblacional">`,
		barChartWidth, height, barChartWidth, height)

	x0 := float64(barChartMargin + barLabelWidth)
	for i := 0; i <= int(scoring.MaxReliabilityScore); i++ {
		x := x0 + scale(float64(i))
		fmt.Fprintf(&b, `<line x1="%.1f" y1="%d" x2="%.1f" y2="%d" stroke="%s"/>`, x, barChartMargin, x, height-barChartMargin-12, colorGrid)
		fmt.Fprintf(&b, `<text x="%.1f" y="%d" font-size="10" text-anchor="middle">%d</text>`, x, height-barChartMargin, i)
	}

	for i, c := range categories {
		y := barChartMargin + i*barRowHeight
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="12" text-anchor="end">%s</text>`, barChartMargin+barLabelWidth-8, y+20, text(c.Category))
		fmt.Fprintf(&b, `<rect x="%.1f" y="%d" width="%.1f" height="12" fill="%s"><title>Candidato %.2f</title></rect>`, x0, y+4, scale(c.Average), colorCandidate, c.Average)
		fmt.Fprintf(&b, `<rect x="%.1f" y="%d" width="%.1f" height="12" fill="%s"><title>Población %.2f</title></rect>`, x0, y+18, scale(c.PopulationAverage), colorPopulation, c.PopulationAverage)
	}
	b.WriteString(`</svg>`)
	return HTML(b.String())
}

// RadarChartSVG draws the five OCEAN scores (0..100) on a pentagon.
func RadarChartSVG(dims []domain.DimensionResult) HTML {
	if len(dims) == 0 {
		return ""
	}
	center := float64(radarSize) / 2
	n := len(dims)
	point := func(i int, r float64) (float64, float64) {
		angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
		return center + r*math.Cos(angle), center + r*math.Sin(angle)
	}
	polygon := func(radius func(i int) float64) string {
		pts := make([]string, 0, n)
		for i := 0; i < n; i++ {
			x, y := point(i, radius(i))
			pts = append(pts, fmt.Sprintf("%.1f,%.1f", x, y))
		}
		return strings.Join(pts, " ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" class="personality-chart" width="%d" height="%d" viewBox="0 0 %d %d" role="img" aria-label="Perfil de personalidad">`,
		radarSize, radarSize, radarSize, radarSize)

	for level := 1; level <= radarLevels; level++ {
		r := radarRadius * float64(level) / radarLevels
		fmt.Fprintf(&b, `<polygon points="%s" fill="none" stroke="%s"/>`, polygon(func(int) float64 { return r }), colorGrid)
	}
	for i, d := range dims {
		x, y := point(i, radarRadius)
		fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>`, center, center, x, y, colorGrid)
		lx, ly := point(i, radarRadius+18)
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="12" text-anchor="middle">%s</text>`, lx, ly, text(d.Label))
	}

	values := polygon(func(i int) float64 {
		s := math.Max(0, math.Min(dims[i].Score, 100))
		return radarRadius * s / 100
	})
	fmt.Fprintf(&b, `<polygon points="%s" fill="%s" fill-opacity="0.35" stroke="%s" stroke-width="2"/>`, values, colorCandidate, colorCandidate)
	b.WriteString(`</svg>`)
	return HTML(b.String())
}
