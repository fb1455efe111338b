package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rodsim/internal/rod"
	"github.com/san-kum/rodsim/internal/sim"
	"github.com/san-kum/rodsim/internal/viz"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`

// RodSVG draws the rod centerline as seen by cam, with each end marked and
// its first director drawn as a short arm.
func RodSVG(w io.Writer, r *rod.Rod, cam *viz.Camera, width, height int) error {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(svgHeader, width, height, width, height))

	pts := make([]string, 0, len(r.Position))
	for _, p := range r.Position {
		x, y, _ := cam.Project(p, width, height)
		pts = append(pts, fmt.Sprintf("%d,%d", x, y))
	}
	sb.WriteString(fmt.Sprintf(`<polyline points="%s" fill="none" stroke="#00ccff" stroke-width="2"/>
`, strings.Join(pts, " ")))

	arm := 0.08 * cam.Extent
	sp, sd := r.Start()
	ep, ed := r.End()
	for _, end := range []struct {
		p mgl64.Vec3
		d mgl64.Mat3
	}{{sp, sd}, {ep, ed}} {
		x0, y0, _ := cam.Project(end.p, width, height)
		x1, y1, _ := cam.Project(end.p.Add(end.d.Row(0).Mul(arm)), width, height)
		sb.WriteString(fmt.Sprintf(`<circle cx="%d" cy="%d" r="4" fill="#ffaa00"/>
<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#ff00ff" stroke-width="2"/>
`, x0, y0, x0, y0, x1, y1))
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// EndToEndSVG plots the end-to-end distance of each sample against time.
func EndToEndSVG(w io.Writer, samples []sim.Sample, width, height int) error {
	if len(samples) < 2 {
		return fmt.Errorf("need at least 2 samples, got %d", len(samples))
	}

	minT, maxT := samples[0].Time, samples[len(samples)-1].Time
	minD, maxD := math.Inf(1), math.Inf(-1)
	for _, s := range samples {
		d := s.EndToEnd()
		minD = math.Min(minD, d)
		maxD = math.Max(maxD, d)
	}
	rangeT, rangeD := maxT-minT, maxD-minD
	if rangeT == 0 {
		rangeT = 1
	}
	if rangeD == 0 {
		rangeD = 1
	}

	padding := 20.0
	plotW := float64(width) - 2*padding
	plotH := float64(height) - 2*padding

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(svgHeader, width, height, width, height))
	sb.WriteString(`<polyline fill="none" stroke="#00ff88" stroke-width="1.5" points="`)
	for i, s := range samples {
		x := padding + (s.Time-minT)/rangeT*plotW
		y := padding + plotH - (s.EndToEnd()-minD)/rangeD*plotH
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
	}
	sb.WriteString("\"/>\n")
	sb.WriteString(fmt.Sprintf(`<text x="%.0f" y="%.0f" fill="#888899" font-size="12">end-to-end %.4g..%.4g</text>
`, padding, padding-6, minD, maxD))
	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}
