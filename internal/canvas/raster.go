package canvas

import (
	"math"

	"github.com/vovakirdan/collide/internal/collision"
	"github.com/vovakirdan/collide/internal/geom"
)

// DrawShape fills every cell whose center lies inside shape. A shape smaller
// than a cell still marks the cell holding its center.
func DrawShape(s *Screen, v Viewport, shape collision.Shape, r rune, c Color) {
	b := shape.Bounds()
	x0, y1 := v.ToCell(b.Min)
	x1, y0 := v.ToCell(b.Max)
	x0, x1 = max(x0, 0), min(x1, s.Width()-1)
	y0, y1 = max(y0, 0), min(y1, s.Height()-1)

	drawn := false
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if shape.Contains(v.CellCenter(x, y)) {
				s.Set(x, y, r, c)
				drawn = true
			}
		}
	}
	if !drawn {
		DrawPoint(s, v, shape.Center(), r, c)
	}
}

// DrawPoint marks the cell holding p.
func DrawPoint(s *Screen, v Viewport, p geom.Vec, r rune, c Color) {
	x, y := v.ToCell(p)
	s.Set(x, y, r, c)
}

// DrawSegment marks the cells crossed by the segment from a to b.
func DrawSegment(s *Screen, v Viewport, a, b geom.Vec, r rune, c Color) {
	cs := v.CellSize()
	step := math.Min(cs[0], cs[1]) / 2
	length := b.Sub(a).Len()
	if step <= 0 || length == 0 {
		DrawPoint(s, v, a, r, c)
		return
	}
	n := int(math.Ceil(length / step))
	for i := 0; i <= n; i++ {
		DrawPoint(s, v, a.Add(b.Sub(a).Mul(float64(i)/float64(n))), r, c)
	}
}

// Glyph returns the fill rune for a shape variant.
func Glyph(k collision.Kind) rune {
	switch k {
	case collision.KindBox:
		return '#'
	case collision.KindCircle:
		return 'o'
	case collision.KindPolygon:
		return '%'
	default:
		return '?'
	}
}
