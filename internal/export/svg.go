package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/graphsim/internal/forcegraph"
)

const (
	background    = "#0a0a0a"
	edgeColor     = "#3a3a3a"
	ungroupedFill = "#d0d0d0"
	minNodeRadius = 1.5
)

// GroupPalette colours groups in order of first appearance.
var GroupPalette = []string{"#ff6b6b", "#4ecdc4", "#ffd93d", "#6c5ce7", "#a8e6cf", "#ff8b94"}

// bounds is an axis-aligned box in the XY plane.
type bounds struct {
	minX, maxX, minY, maxY float64
}

func newBounds(points []r3.Vec) bounds {
	b := bounds{minX: points[0].X, maxX: points[0].X, minY: points[0].Y, maxY: points[0].Y}
	for _, p := range points {
		b.minX = math.Min(b.minX, p.X)
		b.maxX = math.Max(b.maxX, p.X)
		b.minY = math.Min(b.minY, p.Y)
		b.maxY = math.Max(b.maxY, p.Y)
	}
	return b
}

// pad grows the box by 10% on each side. Degenerate axes get a unit range.
func (b bounds) pad() bounds {
	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	return bounds{
		minX: b.minX - rangeX*0.1,
		maxX: b.maxX + rangeX*0.1,
		minY: b.minY - rangeY*0.1,
		maxY: b.maxY + rangeY*0.1,
	}
}

func header(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// LayoutSVG projects a layout onto the XY plane. Edges are drawn as lines
// and nodes as circles sized by mass and coloured by group. Both axes share
// one scale so the layout is not distorted.
func LayoutSVG(nodes []forcegraph.Node, segments [][2]r3.Vec, width, height int) string {
	var sb strings.Builder
	header(&sb, width, height)
	if len(nodes) == 0 {
		sb.WriteString("</svg>")
		return sb.String()
	}

	points := make([]r3.Vec, len(nodes))
	for i, n := range nodes {
		points[i] = n.Location
	}
	b := newBounds(points).pad()

	scale := math.Min(float64(width)/(b.maxX-b.minX), float64(height)/(b.maxY-b.minY))
	offX := (float64(width) - (b.maxX-b.minX)*scale) / 2
	offY := (float64(height) - (b.maxY-b.minY)*scale) / 2
	project := func(p r3.Vec) (float64, float64) {
		return offX + (p.X-b.minX)*scale, float64(height) - offY - (p.Y-b.minY)*scale
	}

	fmt.Fprintf(&sb, "<g stroke=\"%s\" stroke-width=\"1\">\n", edgeColor)
	for _, s := range segments {
		x1, y1 := project(s[0])
		x2, y2 := project(s[1])
		fmt.Fprintf(&sb, "<line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\"/>\n", x1, y1, x2, y2)
	}
	sb.WriteString("</g>\n<g>\n")

	colors := groupColors(nodes)
	for _, n := range nodes {
		x, y := project(n.Location)
		r := math.Max(n.Radius()*scale, minNodeRadius)
		fill := ungroupedFill
		if c, ok := colors[n.Group]; ok {
			fill = c
		}
		stroke := ""
		if n.Locked {
			stroke = ` stroke="#ffffff" stroke-width="1"`
		}
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"%s/>\n", x, y, r, fill, stroke)
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// WorldSVG renders the current state of w.
func WorldSVG(w *forcegraph.World, width, height int) string {
	return LayoutSVG(w.Snapshot(), w.Segments(), width, height)
}

func groupColors(nodes []forcegraph.Node) map[uuid.UUID]string {
	colors := make(map[uuid.UUID]string)
	for _, n := range nodes {
		if n.Group == uuid.Nil {
			continue
		}
		if _, ok := colors[n.Group]; !ok {
			colors[n.Group] = GroupPalette[len(colors)%len(GroupPalette)]
		}
	}
	return colors
}

// HistorySVG plots a metric series against tick number.
func HistorySVG(series []float64, width, height int, strokeColor string) string {
	if len(series) < 2 {
		return ""
	}

	points := make([]r3.Vec, len(series))
	for i, v := range series {
		points[i] = r3.Vec{X: float64(i), Y: v}
	}
	b := newBounds(points).pad()
	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY

	var sb strings.Builder
	header(&sb, width, height)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)

	for i, p := range points {
		x := (p.X - b.minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-b.minY)/rangeY*float64(height)

		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
