package terrain

// computeNormals derives per-vertex normals by fan-triangulating every cell
// polygon and averaging the incident face normals. The cross product of a
// CCW triangle is already area-weighted, so larger faces contribute more.
func computeNormals(m *Mesh) {
	for i := range m.Vertices {
		m.Vertices[i].Normal = Vec3{}
	}

	for _, cell := range m.Cells {
		for k := 1; k < len(cell.Vertices)-1; k++ {
			i0 := cell.Vertices[0]
			i1 := cell.Vertices[k]
			i2 := cell.Vertices[k+1]

			a := m.Vertices[i0].Position
			b := m.Vertices[i1].Position
			c := m.Vertices[i2].Position

			face := b.Sub(a).Cross(c.Sub(a))
			m.Vertices[i0].Normal = m.Vertices[i0].Normal.Add(face)
			m.Vertices[i1].Normal = m.Vertices[i1].Normal.Add(face)
			m.Vertices[i2].Normal = m.Vertices[i2].Normal.Add(face)
		}
	}

	for i := range m.Vertices {
		n := m.Vertices[i].Normal.Normalize()
		if n.Length() == 0 {
			n = Vec3{0, 0, 1}
		}
		m.Vertices[i].Normal = n
	}
}
