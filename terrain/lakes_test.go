package terrain

import "testing"

// gridGraph builds a w*h grid of cells with 4-neighbour adjacency. Cells on
// the outer ring are flagged as border cells.
func gridGraph(w, h int) (adj [][]int, border []bool) {
	n := w * h
	adj = make([][]int, n)
	border = make([]bool, n)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if x > 0 {
				adj[i] = append(adj[i], i-1)
			}
			if x < w-1 {
				adj[i] = append(adj[i], i+1)
			}
			if y > 0 {
				adj[i] = append(adj[i], i-w)
			}
			if y < h-1 {
				adj[i] = append(adj[i], i+w)
			}
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				border[i] = true
			}
		}
	}
	return adj, border
}

func TestGenerateLakesFillsPit(t *testing.T) {
	// 5x5 grid: flat highland at 0.8 with a single pit in the middle
	adj, border := gridGraph(5, 5)
	heights := make([]float64, 25)
	for i := range heights {
		heights[i] = 0.8
	}
	heights[12] = 0.6 // centre pit, above sea level

	lakes, lakeOf := generateLakes(heights, adj, border, 0.5)

	if lakeOf[12] < 0 {
		t.Fatal("pit cell was not assigned to a lake")
	}
	lake := lakes[lakeOf[12]]
	if lake.Area < 1 {
		t.Errorf("lake area %d, want >= 1", lake.Area)
	}
	if lake.WaterLevel < heights[12] {
		t.Errorf("water level %g below the pit floor %g", lake.WaterLevel, heights[12])
	}
}

func TestGenerateLakesIgnoresSea(t *testing.T) {
	adj, border := gridGraph(4, 4)
	heights := make([]float64, 16)
	for i := range heights {
		heights[i] = 0.2 // everything underwater
	}
	heights[5] = 0.1

	lakes, lakeOf := generateLakes(heights, adj, border, 0.5)
	if len(lakes) != 0 {
		t.Errorf("got %d lakes under the sea, want none", len(lakes))
	}
	for i, id := range lakeOf {
		if id >= 0 {
			t.Errorf("underwater cell %d assigned to lake %d", i, id)
		}
	}
}

func TestGenerateLakesStopsAtSpill(t *testing.T) {
	// a basin whose rim has one low spill point: the lake must stop growing
	// once it absorbs a shore it can drain over
	adj, border := gridGraph(5, 5)
	heights := make([]float64, 25)
	for i := range heights {
		heights[i] = 0.9
	}
	heights[12] = 0.6 // pit
	heights[13] = 0.7 // low rim cell draining toward the border
	heights[14] = 0.55

	lakes, lakeOf := generateLakes(heights, adj, border, 0.5)
	if lakeOf[12] < 0 {
		t.Fatal("pit cell was not assigned to a lake")
	}
	lake := lakes[lakeOf[12]]
	if lake.Outlet != 13 {
		t.Errorf("lake outlet is cell %d, want the spill cell 13", lake.Outlet)
	}
	if lakeOf[14] == lakeOf[12] {
		t.Error("lake spread past its spill point")
	}
}

func TestGenerateLakesDeterministic(t *testing.T) {
	adj, border := gridGraph(6, 6)
	heights := make([]float64, 36)
	for i := range heights {
		heights[i] = 0.6 + 0.3*float64(i%5)/5
	}
	heights[14] = 0.55
	heights[21] = 0.52

	lakesA, lakeOfA := generateLakes(append([]float64(nil), heights...), adj, border, 0.5)
	lakesB, lakeOfB := generateLakes(append([]float64(nil), heights...), adj, border, 0.5)

	if len(lakesA) != len(lakesB) {
		t.Fatalf("lake counts differ: %d vs %d", len(lakesA), len(lakesB))
	}
	for i := range lakesA {
		if lakesA[i] != lakesB[i] {
			t.Errorf("lake %d differs between runs: %+v vs %+v", i, lakesA[i], lakesB[i])
		}
	}
	for i := range lakeOfA {
		if lakeOfA[i] != lakeOfB[i] {
			t.Errorf("cell %d lake id differs: %d vs %d", i, lakeOfA[i], lakeOfB[i])
		}
	}
}
