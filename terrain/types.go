// Package terrain builds voronoi-cell terrain meshes with deterministic
// noise-based elevation. A Mesh is derived once from (count, seed, config)
// and is immutable afterwards; it is only consumed for rendering.
package terrain

import "math"

// Point is a 2D sample coordinate on the terrain plane.
type Point struct {
	X, Y float64
}

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return Vec3{0, 0, 0}
	}
	return Vec3{v.X / length, v.Y / length, v.Z / length}
}

// Vertex is a deduplicated corner of one or more cell polygons. Position.Z
// carries the sampled elevation; WaterDepth is zero at or above sea level.
type Vertex struct {
	Position   Vec3
	Normal     Vec3
	WaterDepth float64
}

// Cell is the voronoi region around one site. Vertices index into
// Mesh.Vertices and form a closed simple polygon in counter-clockwise order.
type Cell struct {
	Site      Point
	Vertices  []int
	Elevation float64
	Moisture  float64
	Lake      int // lake id, -1 when the cell is not part of a lake
}

// Rect is the fixed clipping boundary of the terrain plane.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// onEdge reports whether a point lies on the boundary rectangle itself.
func (r Rect) onEdge(p Point) bool {
	const eps = 1e-9
	return math.Abs(p.X-r.MinX) < eps || math.Abs(p.X-r.MaxX) < eps ||
		math.Abs(p.Y-r.MinY) < eps || math.Abs(p.Y-r.MaxY) < eps
}

// DefaultBounds is the unit square all meshes are clipped to.
var DefaultBounds = Rect{0, 0, 1, 1}

// Mesh is the immutable output of Build. Every cell boundary references
// vertices in Vertices, and every vertex is referenced by at least one cell.
type Mesh struct {
	Cells     []Cell
	Vertices  []Vertex
	Adjacency [][]int // neighbouring cell indices, sorted ascending
	Border    []bool  // cells touching the clipping boundary
	Lakes     []Lake  // populated when lake detection is enabled
	Bounds    Rect
	SeaLevel  float64

	// cells incident to each vertex, in cell index order
	vertexCells [][]int
}

// Neighbors returns the cells adjacent to cell i (sharing a polygon edge).
func (m *Mesh) Neighbors(i int) []int {
	return m.Adjacency[i]
}
