package canvas

import (
	"math"

	"github.com/vovakirdan/collide/internal/geom"
)

// Viewport maps a world rectangle onto a cols x rows character grid. World y
// grows upwards; screen rows grow downwards.
type Viewport struct {
	World geom.AABB
	Cols  int
	Rows  int
}

// NewViewport stretches world over the grid.
func NewViewport(world geom.AABB, cols, rows int) Viewport {
	return Viewport{World: world, Cols: max(1, cols), Rows: max(1, rows)}
}

// CellSize returns the world size of one cell.
func (v Viewport) CellSize() geom.Vec {
	size := v.World.Size()
	return geom.V(size[0]/float64(v.Cols), size[1]/float64(v.Rows))
}

// ToCell returns the cell containing world point p. The result may lie
// outside the grid.
func (v Viewport) ToCell(p geom.Vec) (int, int) {
	cs := v.CellSize()
	if cs[0] <= 0 || cs[1] <= 0 {
		return -1, -1
	}
	col := int(math.Floor((p[0] - v.World.Min[0]) / cs[0]))
	row := v.Rows - 1 - int(math.Floor((p[1]-v.World.Min[1])/cs[1]))
	return col, row
}

// CellCenter returns the world position of the center of a cell.
func (v Viewport) CellCenter(col, row int) geom.Vec {
	cs := v.CellSize()
	return geom.V(
		v.World.Min[0]+(float64(col)+0.5)*cs[0],
		v.World.Min[1]+(float64(v.Rows-1-row)+0.5)*cs[1],
	)
}
