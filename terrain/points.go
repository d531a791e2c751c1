package terrain

import "math/rand"

// generateSites produces count pseudo-random sample points inside bounds.
// The same seed and count always yield the identical point set.
func generateSites(count int, seed uint64, bounds Rect) []Point {
	rng := rand.New(rand.NewSource(int64(seed)))
	sites := make([]Point, count)
	for i := range sites {
		sites[i] = Point{
			X: bounds.MinX + rng.Float64()*bounds.Width(),
			Y: bounds.MinY + rng.Float64()*bounds.Height(),
		}
	}
	return sites
}

// dedupSites drops exact coincident points, preserving first-seen order.
// Coincident sites would produce empty voronoi regions.
func dedupSites(sites []Point) []Point {
	seen := make(map[Point]bool, len(sites))
	out := sites[:0]
	for _, s := range sites {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// relaxSites applies Lloyd relaxation: each pass moves every site to the
// centroid of its voronoi cell. A few passes spread clustered random points
// into a more even, blue-noise-like distribution.
func relaxSites(sites []Point, bounds Rect, passes int) []Point {
	for pass := 0; pass < passes; pass++ {
		relaxed := make([]Point, len(sites))
		for i := range sites {
			poly := cellPolygon(sites, i, bounds)
			if len(poly) < 3 {
				relaxed[i] = sites[i]
				continue
			}
			relaxed[i] = polygonCentroid(poly)
		}
		sites = relaxed
	}
	return sites
}

func polygonCentroid(poly []Point) Point {
	var area, cx, cy float64
	for i := range poly {
		j := (i + 1) % len(poly)
		cross := poly[i].X*poly[j].Y - poly[j].X*poly[i].Y
		area += cross
		cx += (poly[i].X + poly[j].X) * cross
		cy += (poly[i].Y + poly[j].Y) * cross
	}
	if area == 0 {
		return poly[0]
	}
	area *= 0.5
	return Point{cx / (6 * area), cy / (6 * area)}
}
