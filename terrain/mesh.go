package terrain

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
)

// GenerateOptions selects the optional shaping steps applied on top of the
// base noise elevation. The zero value produces a plain Build.
type GenerateOptions struct {
	Relaxation    int  // Lloyd relaxation passes before meshing
	ErosionPasses int  // hydraulic erosion passes over the cell graph
	FillSinks     bool // fill depressions so every land cell can drain
	Lakes         bool // detect lakes and deepen the water over them
}

// Build produces a terrain mesh from a point count, a seed and a noise
// configuration. Identical arguments yield a bit-identical mesh.
func Build(count int, seed uint64, cfg NoiseConfig) (*Mesh, error) {
	return Generate(count, seed, cfg, GenerateOptions{})
}

// Generate is Build plus the optional relaxation, erosion and lake steps.
func Generate(count int, seed uint64, cfg NoiseConfig, opts GenerateOptions) (*Mesh, error) {
	if err := cfg.validate(count); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	bounds := DefaultBounds

	sites := dedupSites(generateSites(count, seed, bounds))
	if len(sites) < 3 {
		return nil, fmt.Errorf("%w: %d distinct sites after deduplication, need at least 3",
			ErrDegenerateGeometry, len(sites))
	}
	if opts.Relaxation > 0 {
		sites = relaxSites(sites, bounds, opts.Relaxation)
	}

	m, err := assemble(sites, bounds, cfg)
	if err != nil {
		return nil, err
	}

	sampleFields(m, newHeightField(seed, cfg), newMoistureField(seed))

	if opts.ErosionPasses > 0 || opts.FillSinks || opts.Lakes {
		applyHydrology(m, opts)
	}

	finalize(m)
	return m, nil
}

// assemble clips every cell polygon, pools the deduplicated vertices and
// derives adjacency plus border flags.
func assemble(sites []Point, bounds Rect, cfg NoiseConfig) (*Mesh, error) {
	m := &Mesh{
		Bounds:   bounds,
		SeaLevel: cfg.SeaLevel,
		Cells:    make([]Cell, len(sites)),
	}

	index := make(map[vertexKey]int)
	for i, site := range sites {
		poly := cellPolygon(sites, i, bounds)
		ids := make([]int, 0, len(poly))
		for _, p := range poly {
			key := quantize(p)
			id, ok := index[key]
			if !ok {
				id = len(m.Vertices)
				index[key] = id
				m.Vertices = append(m.Vertices, Vertex{Position: Vec3{X: p.X, Y: p.Y}})
			}
			// quantization can collapse near-coincident corners
			if len(ids) > 0 && ids[len(ids)-1] == id {
				continue
			}
			ids = append(ids, id)
		}
		if len(ids) > 1 && ids[0] == ids[len(ids)-1] {
			ids = ids[:len(ids)-1]
		}
		if len(ids) < 3 {
			return nil, fmt.Errorf("%w: cell %d collapsed to %d vertices", ErrDegenerateGeometry, i, len(ids))
		}
		m.Cells[i] = Cell{Site: site, Vertices: ids, Lake: -1}
	}

	buildTopology(m)
	return m, nil
}

// buildTopology fills vertexCells, Adjacency and Border. Two cells are
// adjacent when they share a polygon edge, i.e. at least two vertices.
func buildTopology(m *Mesh) {
	m.vertexCells = make([][]int, len(m.Vertices))
	for ci := range m.Cells {
		for _, vi := range m.Cells[ci].Vertices {
			m.vertexCells[vi] = append(m.vertexCells[vi], ci)
		}
	}

	shared := make(map[[2]int]int)
	for _, cells := range m.vertexCells {
		for a := 0; a < len(cells); a++ {
			for b := a + 1; b < len(cells); b++ {
				shared[[2]int{cells[a], cells[b]}]++
			}
		}
	}

	m.Adjacency = make([][]int, len(m.Cells))
	for pair, count := range shared {
		if count >= 2 {
			m.Adjacency[pair[0]] = append(m.Adjacency[pair[0]], pair[1])
			m.Adjacency[pair[1]] = append(m.Adjacency[pair[1]], pair[0])
		}
	}
	for i := range m.Adjacency {
		sort.Ints(m.Adjacency[i])
	}

	m.Border = make([]bool, len(m.Cells))
	for ci := range m.Cells {
		for _, vi := range m.Cells[ci].Vertices {
			p := m.Vertices[vi].Position
			if m.Bounds.onEdge(Point{p.X, p.Y}) {
				m.Border[ci] = true
				break
			}
		}
	}
}

// sampleFields assigns noise elevation to every vertex and elevation plus
// moisture to every cell site. Writes are index-disjoint, so the work is
// split across workers without changing the result.
func sampleFields(m *Mesh, hf *heightField, mf *moistureField) {
	parallelFor(len(m.Vertices), func(i int) {
		v := &m.Vertices[i]
		v.Position.Z = hf.sample(v.Position.X, v.Position.Y)
	})
	parallelFor(len(m.Cells), func(i int) {
		c := &m.Cells[i]
		c.Elevation = hf.sample(c.Site.X, c.Site.Y)
		c.Moisture = mf.sample(c.Site.X, c.Site.Y)
	})
}

func parallelFor(n int, fn func(int)) {
	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				fn(i)
			}
		}(lo, hi)
	}
	wg.Wait()
}

// applyHydrology runs the erosion pipeline over the cell graph and folds the
// reshaped cell elevations back into the vertex pool.
func applyHydrology(m *Mesh, opts GenerateOptions) {
	heights := make([]float64, len(m.Cells))
	sites := make([]Point, len(m.Cells))
	for i := range m.Cells {
		heights[i] = m.Cells[i].Elevation
		sites[i] = m.Cells[i].Site
	}

	if opts.ErosionPasses > 0 {
		heights = plateau(sites, heights)
	}
	if opts.FillSinks {
		heights = fillSinks(heights, m.Adjacency, m.SeaLevel)
	}
	for pass := 0; pass < opts.ErosionPasses; pass++ {
		heights = erodePass(heights, m.Adjacency, m.Border, m.SeaLevel)
	}

	if opts.Lakes {
		lakes, lakeOf := generateLakes(heights, m.Adjacency, m.Border, m.SeaLevel)
		m.Lakes = lakes
		for i := range m.Cells {
			m.Cells[i].Lake = lakeOf[i]
		}
	}

	for i := range m.Cells {
		m.Cells[i].Elevation = heights[i]
	}

	// vertex elevation becomes the mean of its incident cells
	for vi := range m.Vertices {
		cells := m.vertexCells[vi]
		if len(cells) == 0 {
			continue
		}
		sum := 0.0
		for _, ci := range cells {
			sum += heights[ci]
		}
		m.Vertices[vi].Position.Z = sum / float64(len(cells))
	}
}

// finalize assigns water depth and normals once elevations are settled.
// Lake cells hold water above sea level, so their vertices take the depth
// below the lake surface when that is deeper than the sea depth.
func finalize(m *Mesh) {
	for vi := range m.Vertices {
		v := &m.Vertices[vi]
		depth := m.SeaLevel - v.Position.Z
		if depth < 0 {
			depth = 0
		}
		for _, ci := range m.vertexCells[vi] {
			cell := m.Cells[ci]
			if cell.Lake >= 0 {
				if d := m.Lakes[cell.Lake].WaterLevel - v.Position.Z; d > depth {
					depth = d
				}
			}
		}
		v.WaterDepth = depth
	}
	computeNormals(m)
}
