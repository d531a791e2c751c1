package terrain

import "container/heap"

// Lake is a body of standing water above sea level. Outlet is the shore
// cell the lake spills over; InflowFlux accumulates the drainage routed
// into the lake during flux accumulation.
type Lake struct {
	WaterLevel float64
	Area       int
	Outlet     int
	InflowFlux float64
}

type shorePoint struct {
	id     int
	height float64
}

// shoreHeap pops the lowest shore first; ties break on cell id so lake
// growth is deterministic.
type shoreHeap []shorePoint

func (h shoreHeap) Len() int { return len(h) }
func (h shoreHeap) Less(a, b int) bool {
	if h[a].height != h[b].height {
		return h[a].height < h[b].height
	}
	return h[a].id < h[b].id
}
func (h shoreHeap) Swap(a, b int) { h[a], h[b] = h[b], h[a] }

func (h *shoreHeap) Push(x any) { *h = append(*h, x.(shorePoint)) }
func (h *shoreHeap) Pop() any {
	old := *h
	n := len(old)
	p := old[n-1]
	*h = old[:n-1]
	return p
}

type lakeBuilder struct {
	waterLevel float64
	area       int
	outlet     int
	shores     *shoreHeap
}

// generateLakes finds every interior local minimum above sea level and
// floods it outward through its lowest shore until the water can escape
// downhill or reaches the map border. Lakes that touch merge. Returns the
// lakes and a per-cell lake id (-1 for dry cells).
func generateLakes(heights []float64, adj [][]int, border []bool, seaLevel float64) ([]Lake, []int) {
	lakeOf := make([]int, len(heights))
	for i := range lakeOf {
		lakeOf[i] = -1
	}

	var builders []*lakeBuilder
	for i, h := range heights {
		if h <= seaLevel || lakeOf[i] >= 0 || len(adj[i]) == 0 || border[i] {
			continue
		}
		isMinimum := true
		for _, n := range adj[i] {
			if heights[n] <= h {
				isMinimum = false
				break
			}
		}
		if !isMinimum {
			continue
		}

		shores := &shoreHeap{}
		for _, n := range adj[i] {
			*shores = append(*shores, shorePoint{id: n, height: heights[n]})
		}
		heap.Init(shores)

		builders = append(builders, &lakeBuilder{
			waterLevel: h,
			area:       1,
			outlet:     i,
			shores:     shores,
		})
		id := len(builders) - 1
		lakeOf[i] = id

		expandLake(id, heights, adj, border, builders, lakeOf)
	}

	lakes := make([]Lake, len(builders))
	for i, b := range builders {
		lakes[i] = Lake{
			WaterLevel: b.waterLevel,
			Area:       b.area,
			Outlet:     b.outlet,
		}
	}
	return lakes, lakeOf
}

// expandLake absorbs shore cells lowest-first. Absorbing a cell raises the
// water level to its height; the lake keeps growing while every neighbour
// of the newest cell is at or above the water (nowhere to drain) and the
// cell is not on the map border.
func expandLake(id int, heights []float64, adj [][]int, border []bool, builders []*lakeBuilder, lakeOf []int) {
	b := builders[id]
	for b.shores.Len() > 0 {
		next := heap.Pop(b.shores).(shorePoint)

		// the same cell can be pushed from several sides
		for b.shores.Len() > 0 && (*b.shores)[0] == next {
			heap.Pop(b.shores)
		}

		if other := lakeOf[next.id]; other >= 0 && other != id {
			mergeLakes(id, other, builders, lakeOf)
		}

		b.waterLevel = next.height
		b.area++
		b.outlet = next.id
		lakeOf[next.id] = id

		expandable := !border[next.id]
		if expandable {
			for _, n := range adj[next.id] {
				if lakeOf[n] != id && heights[n] < next.height {
					expandable = false
					break
				}
			}
		}
		if !expandable {
			return
		}

		for _, n := range adj[next.id] {
			if lakeOf[n] != id {
				heap.Push(b.shores, shorePoint{id: n, height: heights[n]})
			}
		}
	}
}

// mergeLakes folds other into id when a growing lake reaches a cell that
// already belongs to another lake.
func mergeLakes(id, other int, builders []*lakeBuilder, lakeOf []int) {
	merged := builders[other]
	for _, sp := range *merged.shores {
		heap.Push(builders[id].shores, sp)
	}
	for i, l := range lakeOf {
		if l == other {
			lakeOf[i] = id
		}
	}
	// the contact cell would be counted by both lakes
	builders[id].area += merged.area - 1

	merged.shores = &shoreHeap{}
	merged.area = 0
}
