package sim

import (
	"math/rand"
	"reflect"
	"testing"

	"terraingen/terrain"
)

func testMesh(t *testing.T) *terrain.Mesh {
	t.Helper()
	m, err := terrain.Build(80, 7, terrain.DefaultNoiseConfig())
	if err != nil {
		t.Fatalf("building mesh: %v", err)
	}
	return m
}

func TestNewWorldValidation(t *testing.T) {
	m := testMesh(t)

	if _, err := NewWorld(m, 0, 1); err == nil {
		t.Error("zero agents accepted")
	}
	if _, err := NewWorld(m, -3, 1); err == nil {
		t.Error("negative agent count accepted")
	}
	if _, err := NewWorld(m, len(m.Cells)+1, 1); err == nil {
		t.Error("more agents than cells accepted")
	}
}

func TestNewWorldPlacesAgentsOnLand(t *testing.T) {
	m := testMesh(t)
	w, err := NewWorld(m, 4, 11)
	if err != nil {
		t.Fatalf("new world: %v", err)
	}

	seen := make(map[int]bool)
	for _, agent := range w.Agents {
		if seen[agent.Home] {
			t.Errorf("agent %d shares home cell %d", agent.ID, agent.Home)
		}
		seen[agent.Home] = true

		cell := m.Cells[agent.Home]
		if cell.Elevation < m.SeaLevel {
			t.Errorf("agent %d spawned underwater on cell %d", agent.ID, agent.Home)
		}
		if w.Owner[agent.Home] != agent.ID {
			t.Errorf("home cell %d not owned by agent %d", agent.Home, agent.ID)
		}
	}
}

func TestStepDeterministic(t *testing.T) {
	m := testMesh(t)

	a, err := NewWorld(m, 3, 99)
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	b, err := NewWorld(m, 3, 99)
	if err != nil {
		t.Fatalf("new world: %v", err)
	}

	a.Run(25)
	b.Run(25)

	if !reflect.DeepEqual(a.Owner, b.Owner) {
		t.Error("ownership diverged between identical runs")
	}
	if a.Tick != b.Tick {
		t.Errorf("tick counts diverged: %d vs %d", a.Tick, b.Tick)
	}
}

func TestStepNeverClaimsWater(t *testing.T) {
	m := testMesh(t)
	w, err := NewWorld(m, 3, 5)
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	w.Run(50)

	for ci, owner := range w.Owner {
		if owner >= 0 && m.Cells[ci].Elevation < m.SeaLevel {
			t.Errorf("underwater cell %d owned by agent %d", ci, owner)
		}
	}
}

func TestSingleOwnerPerCell(t *testing.T) {
	m := testMesh(t)
	w, err := NewWorld(m, 5, 3)
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	w.ClaimChance = 1.0
	w.Run(30)

	counts := w.OwnedCells()
	total := 0
	for _, c := range counts {
		total += c
	}
	owned := 0
	for _, o := range w.Owner {
		if o >= 0 {
			owned++
		}
	}
	if total != owned {
		t.Errorf("per-agent counts sum to %d but %d cells are owned", total, owned)
	}
}

func TestLowestIDWinsContestedCell(t *testing.T) {
	m := testMesh(t)

	// find a land cell with two distinct land neighbours, park one agent on
	// each neighbour and let both claim it in the same tick
	contested, homeA, homeB := -1, -1, -1
	for ci, cell := range m.Cells {
		if cell.Elevation < m.SeaLevel {
			continue
		}
		var nbs []int
		for _, nb := range m.Adjacency[ci] {
			if m.Cells[nb].Elevation >= m.SeaLevel {
				nbs = append(nbs, nb)
			}
		}
		if len(nbs) >= 2 {
			contested, homeA, homeB = ci, nbs[0], nbs[1]
			break
		}
	}
	if contested < 0 {
		t.Skip("mesh has no land cell with two land neighbours")
	}

	claimable := make([]bool, len(m.Cells))
	for i, cell := range m.Cells {
		claimable[i] = cell.Elevation >= m.SeaLevel && cell.Lake < 0
	}
	w := &World{
		Owner:       make([]int, len(m.Cells)),
		ClaimChance: 1.0,
		mesh:        m,
		claimable:   claimable,
		rng:         rand.New(rand.NewSource(1)),
	}
	for i := range w.Owner {
		w.Owner[i] = -1
	}
	for id, home := range []int{homeA, homeB} {
		w.Agents = append(w.Agents, &Agent{ID: id, Home: home, Cells: []int{home}})
		w.Owner[home] = id
	}

	w.Step()

	if got := w.Owner[contested]; got != 0 {
		t.Errorf("contested cell %d went to agent %d, want the lower ID 0", contested, got)
	}
}

func TestOwnedCellsNeverFlip(t *testing.T) {
	m := testMesh(t)
	w, err := NewWorld(m, 2, 17)
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	w.ClaimChance = 1.0

	prev := append([]int(nil), w.Owner...)
	for tick := 0; tick < 40; tick++ {
		w.Step()
		for ci, owner := range w.Owner {
			if prev[ci] >= 0 && owner != prev[ci] {
				t.Fatalf("cell %d changed owner from %d to %d", ci, prev[ci], owner)
			}
		}
		copy(prev, w.Owner)
	}
}

func TestAgentsGoDormantWhenSurrounded(t *testing.T) {
	m := testMesh(t)
	w, err := NewWorld(m, 2, 23)
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	w.ClaimChance = 1.0

	// with claim chance 1 every reachable land cell is eventually owned,
	// after which all agents must report dormant
	w.Run(len(m.Cells))
	if !w.allDormant() {
		t.Error("agents still expanding after the map is saturated")
	}
}
