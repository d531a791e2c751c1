package terrain

import (
	"math"
	"sort"
)

// Hydraulic erosion over the cell graph. One pass smooths the heightfield,
// detects lakes, routes water flux downhill and carves the surface
// proportionally to ln(flux+1). Heights are per cell site; vertices are
// re-derived afterwards.

const (
	smoothAlpha  = 0.66
	erosionRate  = 0.015
	erosionBlend = 0.125
	sinkEpsilon  = 1e-5
)

func erodePass(heights []float64, adj [][]int, border []bool, seaLevel float64) []float64 {
	heights = smoothHeights(heights, adj)
	lakes, lakeOf := generateLakes(heights, adj, border, seaLevel)
	flux := accumulateFlux(heights, adj, lakes, lakeOf)
	return erodeHeights(heights, adj, flux, seaLevel)
}

// smoothHeights pulls every cell toward the mean of itself and its
// neighbours. Neighbours are nudged toward the same mean, which spreads the
// smoothing one ring further per pass.
func smoothHeights(heights []float64, adj [][]int) []float64 {
	snapshot := append([]float64(nil), heights...)
	for i, h := range snapshot {
		sum := h
		for _, n := range adj[i] {
			sum += heights[n]
		}
		mean := sum / float64(len(adj[i])+1)

		heights[i] = h*(1-smoothAlpha) + mean*smoothAlpha
		for _, n := range adj[i] {
			heights[n] = heights[n]*(1-smoothAlpha) + mean*smoothAlpha
		}
	}
	return heights
}

// fillSinks is the Planchon-Darboux depression fill: land cells start at
// +Inf and are lowered until every cell drains to the sea, with a small
// epsilon gradient so the result has no flats.
func fillSinks(heights []float64, adj [][]int, seaLevel float64) []float64 {
	filled := make([]float64, len(heights))
	for i, h := range heights {
		if h > seaLevel {
			filled[i] = math.Inf(1)
		} else {
			filled[i] = h
		}
	}

	order := make([]int, len(heights))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return heights[order[a]] < heights[order[b]]
	})

	changed := true
	for changed {
		changed = false
		for _, i := range order {
			h := heights[i]
			if filled[i] == h {
				continue
			}
			for _, n := range adj[i] {
				other := filled[n] + sinkEpsilon
				if h >= other {
					filled[i] = h
					changed = true
					break
				}
				if filled[i] > other && other > h {
					filled[i] = other
					changed = true
				}
			}
		}
	}
	return filled
}

// plateau flattens the area around the highest point into a highland,
// blending between raw height and a capped interpolation by distance to
// the peak.
func plateau(sites []Point, heights []float64) []float64 {
	const plateauStart = 0.45
	const plateauCap = (1 - plateauStart) / 4

	peak := 0
	for i, h := range heights {
		if h > heights[peak] {
			peak = i
		}
	}
	px, py := sites[peak].X, sites[peak].Y

	interpolate := func(h float64) float64 {
		t := (h - plateauStart) / (1 - plateauStart)
		return plateauStart + (1-(1-t)*(1-t))*plateauCap
	}

	for i, h := range heights {
		d := math.Hypot(sites[i].X-px, sites[i].Y-py)
		if d > 0.5 {
			d = 0.5
		}
		d = (d / 0.5) * (d / 0.5)
		heights[i] = (1-d)*h + d*interpolate(h)
	}
	return heights
}

// accumulateFlux routes one unit of rainfall per cell downhill, visiting
// cells from highest to lowest. Lake cells drain through the lake outlet,
// carrying the lake's whole catchment at once.
func accumulateFlux(heights []float64, adj [][]int, lakes []Lake, lakeOf []int) []float64 {
	flux := make([]float64, len(heights))

	order := make([]int, len(heights))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return heights[order[a]] > heights[order[b]]
	})

	for _, point := range order {
		if len(adj[point]) == 0 {
			continue
		}
		lowest := adj[point][0]
		for _, n := range adj[point][1:] {
			if heights[n] < heights[lowest] {
				lowest = n
			}
		}

		var downstream float64
		if id := lakeOf[point]; id >= 0 {
			if lakes[id].Outlet == point {
				downstream = lakes[id].InflowFlux + float64(lakes[id].Area)
			}
		} else {
			downstream = flux[point] + 1
		}

		if len(adj[point]) > 2 && heights[lowest] < heights[point] {
			if id := lakeOf[lowest]; id >= 0 {
				lakes[id].InflowFlux += downstream
			} else {
				flux[lowest] += downstream
			}
		}
	}
	return flux
}

// erodeHeights carves each cell by its water flux. Above sea level the
// eroded height is blended against the lowest neighbour so channels cannot
// cut below their outlet in one pass; underwater erosion is dampened.
func erodeHeights(heights []float64, adj [][]int, flux []float64, seaLevel float64) []float64 {
	out := make([]float64, len(heights))
	for i, h := range heights {
		pointFlux := math.Log(flux[i] + 1)
		erosion := pointFlux * erosionRate * h

		if h >= seaLevel {
			low := h
			for _, n := range adj[i] {
				if heights[n] < low {
					low = heights[n]
				}
			}
			eroded := h - erosion
			floor := math.Max(low, eroded)
			out[i] = floor*(1-erosionBlend) + eroded*erosionBlend
		} else {
			out[i] = h - erosion*0.25
		}
	}
	return out
}
