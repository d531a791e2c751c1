package terrain

// Voronoi construction by half-plane clipping: each cell starts as the full
// boundary rectangle and is cut down by the perpendicular bisector against
// every other site. The result is always a convex polygon containing the
// site, listed counter-clockwise. O(n) clips per cell is plenty fast for the
// interactive point counts this generator targets.

// boundsPolygon returns the clipping rectangle as a CCW polygon.
func boundsPolygon(r Rect) []Point {
	return []Point{
		{r.MinX, r.MinY},
		{r.MaxX, r.MinY},
		{r.MaxX, r.MaxY},
		{r.MinX, r.MaxY},
	}
}

// cellPolygon computes the voronoi region of sites[i] clipped to bounds.
func cellPolygon(sites []Point, i int, bounds Rect) []Point {
	poly := boundsPolygon(bounds)
	site := sites[i]
	for j, other := range sites {
		if j == i {
			continue
		}
		poly = clipBisector(poly, site, other)
		if len(poly) == 0 {
			break
		}
	}
	return poly
}

// clipBisector keeps the part of poly on site's side of the perpendicular
// bisector between site and other (Sutherland-Hodgman against one line).
func clipBisector(poly []Point, site, other Point) []Point {
	mx := (site.X + other.X) / 2
	my := (site.Y + other.Y) / 2
	dx := other.X - site.X
	dy := other.Y - site.Y

	// signed distance along the bisector normal; <= 0 is the site's side
	side := func(p Point) float64 {
		return (p.X-mx)*dx + (p.Y-my)*dy
	}

	out := make([]Point, 0, len(poly)+1)
	for i := range poly {
		cur := poly[i]
		next := poly[(i+1)%len(poly)]
		curSide := side(cur)
		nextSide := side(next)

		if curSide <= 0 {
			out = append(out, cur)
		}
		if (curSide < 0 && nextSide > 0) || (curSide > 0 && nextSide < 0) {
			t := curSide / (curSide - nextSide)
			out = append(out, Point{
				X: cur.X + t*(next.X-cur.X),
				Y: cur.Y + t*(next.Y-cur.Y),
			})
		}
	}
	return out
}

// vertexKey quantizes a coordinate pair so that corners computed from
// different cells of the same bisector crossing collapse to one vertex.
type vertexKey struct {
	X, Y int64
}

const vertexQuantum = 1e-9

func quantize(p Point) vertexKey {
	return vertexKey{
		X: int64(p.X/vertexQuantum + 0.5),
		Y: int64(p.Y/vertexQuantum + 0.5),
	}
}
