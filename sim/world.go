// Package sim runs an agent-based border simulation over a terrain mesh.
// Agents are independent state machines claiming cell ownership; a scheduler
// steps all agents once per tick and resolves conflicting border claims with
// a fixed tie-break: the lowest agent ID wins.
package sim

import (
	"fmt"
	"math/rand"

	"terraingen/terrain"
)

type AgentState int

const (
	// StateExpanding agents push their border into unowned land each tick.
	StateExpanding AgentState = iota
	// StateDormant agents have no unowned claimable neighbour left.
	StateDormant
)

func (s AgentState) String() string {
	switch s {
	case StateExpanding:
		return "expanding"
	case StateDormant:
		return "dormant"
	default:
		return "unknown"
	}
}

// Agent owns a contiguous set of cells grown outward from its home cell.
type Agent struct {
	ID    int
	Home  int
	State AgentState
	Cells []int
}

// World holds the simulation state. The mesh itself is never mutated; all
// simulation state lives in the ownership table.
type World struct {
	Agents []*Agent
	Owner  []int // owning agent ID per cell, -1 for unowned
	Tick   int

	// ClaimChance is the per-candidate probability that an expanding agent
	// claims a border cell this tick.
	ClaimChance float64

	mesh      *terrain.Mesh
	claimable []bool
	rng       *rand.Rand
}

// NewWorld seeds agentCount agents on distinct claimable land cells.
// Same mesh, agent count and seed always produce the same starting state.
func NewWorld(m *terrain.Mesh, agentCount int, seed uint64) (*World, error) {
	if agentCount <= 0 {
		return nil, fmt.Errorf("sim: agent count %d, must be positive", agentCount)
	}

	claimable := make([]bool, len(m.Cells))
	land := 0
	for i, cell := range m.Cells {
		if cell.Elevation >= m.SeaLevel && cell.Lake < 0 {
			claimable[i] = true
			land++
		}
	}
	if agentCount > land {
		return nil, fmt.Errorf("sim: %d agents but only %d claimable cells", agentCount, land)
	}

	w := &World{
		Owner:       make([]int, len(m.Cells)),
		ClaimChance: 0.6,
		mesh:        m,
		claimable:   claimable,
		rng:         rand.New(rand.NewSource(int64(seed))),
	}
	for i := range w.Owner {
		w.Owner[i] = -1
	}

	for id := 0; id < agentCount; id++ {
		home := w.pickHome()
		agent := &Agent{
			ID:    id,
			Home:  home,
			State: StateExpanding,
			Cells: []int{home},
		}
		w.Owner[home] = id
		w.Agents = append(w.Agents, agent)
	}
	return w, nil
}

// pickHome draws unowned claimable cells until one sticks. The claimable
// count is checked in NewWorld, so this terminates.
func (w *World) pickHome() int {
	for {
		c := w.rng.Intn(len(w.Owner))
		if w.claimable[c] && w.Owner[c] < 0 {
			return c
		}
	}
}

type claim struct {
	cell  int
	agent int
}

// Step advances the simulation one tick: every expanding agent proposes
// claims on unowned claimable neighbours of its cells, then all claims are
// resolved at once. When several agents claim the same cell in the same
// tick, the lowest agent ID wins.
func (w *World) Step() {
	w.Tick++

	var claims []claim
	for _, agent := range w.Agents {
		if agent.State != StateExpanding {
			continue
		}

		candidates := 0
		for _, c := range agent.Cells {
			for _, nb := range w.mesh.Adjacency[c] {
				if w.Owner[nb] >= 0 || !w.claimable[nb] {
					continue
				}
				candidates++
				if w.rng.Float64() < w.ClaimChance {
					claims = append(claims, claim{cell: nb, agent: agent.ID})
				}
			}
		}
		if candidates == 0 {
			agent.State = StateDormant
		}
	}

	// resolve: lowest agent ID wins each contested cell
	winner := make(map[int]int, len(claims))
	for _, cl := range claims {
		if prev, ok := winner[cl.cell]; !ok || cl.agent < prev {
			winner[cl.cell] = cl.agent
		}
	}

	// apply in proposal order so no map iteration reaches the state
	for _, cl := range claims {
		id, ok := winner[cl.cell]
		if !ok || id != cl.agent || w.Owner[cl.cell] >= 0 {
			continue
		}
		w.Owner[cl.cell] = id
		agent := w.Agents[id]
		agent.Cells = append(agent.Cells, cl.cell)
	}
}

// Run steps the world the given number of ticks, stopping early once every
// agent has gone dormant.
func (w *World) Run(ticks int) {
	for t := 0; t < ticks; t++ {
		w.Step()
		if w.allDormant() {
			return
		}
	}
}

func (w *World) allDormant() bool {
	for _, agent := range w.Agents {
		if agent.State != StateDormant {
			return false
		}
	}
	return true
}

// OwnedCells returns how many cells each agent owns, indexed by agent ID.
func (w *World) OwnedCells() []int {
	counts := make([]int, len(w.Agents))
	for _, owner := range w.Owner {
		if owner >= 0 {
			counts[owner]++
		}
	}
	return counts
}
