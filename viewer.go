package main

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"terraingen/config"
	"terraingen/sim"
	"terraingen/terrain"
)

// heightScale exaggerates elevation for display; the unit square would look
// flat at true scale.
const heightScale = 0.2

type viewerTriangle struct {
	a, b, c rl.Vector3
	color   rl.Color
}

func runViewer(v config.ViewerSettings, mesh *terrain.Mesh, world *sim.World) {
	rl.InitWindow(int32(v.Width), int32(v.Height), "terraingen")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	camera := rl.Camera3D{
		Position:   rl.Vector3{X: 0.5, Y: 1.0, Z: 1.6},
		Target:     rl.Vector3{X: 0.5, Y: 0, Z: 0.5},
		Up:         rl.Vector3{Y: 1},
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}

	tris := buildViewerTriangles(mesh, world)
	lastStep := time.Now()

	for !rl.WindowShouldClose() {
		rl.UpdateCamera(&camera, rl.CameraOrbital)

		if world != nil && time.Since(lastStep) > 300*time.Millisecond {
			world.Step()
			tris = buildViewerTriangles(mesh, world)
			lastStep = time.Now()
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		rl.BeginMode3D(camera)
		for _, tri := range tris {
			rl.DrawTriangle3D(tri.a, tri.b, tri.c, tri.color)
			// draw the back face too so orbiting under the mesh still shows it
			rl.DrawTriangle3D(tri.a, tri.c, tri.b, tri.color)
		}
		rl.EndMode3D()
		rl.DrawFPS(10, 10)
		rl.EndDrawing()
	}
}

// buildViewerTriangles fan-triangulates every cell into shaded, colored
// triangles. The mesh plane maps to raylib's XZ plane with elevation on Y.
func buildViewerTriangles(mesh *terrain.Mesh, world *sim.World) []viewerTriangle {
	var tris []viewerTriangle
	for ci, cell := range mesh.Cells {
		base := cellColor(mesh, ci, world)
		for k := 1; k < len(cell.Vertices)-1; k++ {
			i0 := cell.Vertices[0]
			i1 := cell.Vertices[k]
			i2 := cell.Vertices[k+1]

			// shade with the same light term the shader contract uses
			n := mesh.Vertices[i0].Normal
			light := vertexLight(mgl32.Vec3{float32(n.X), float32(n.Y), float32(n.Z)})
			if light < 0.35 {
				light = 0.35
			}

			tris = append(tris, viewerTriangle{
				a:     toViewerSpace(mesh.Vertices[i0]),
				b:     toViewerSpace(mesh.Vertices[i1]),
				c:     toViewerSpace(mesh.Vertices[i2]),
				color: shade(base, light),
			})
		}
	}
	return tris
}

func toViewerSpace(v terrain.Vertex) rl.Vector3 {
	elevation := v.Position.Z - v.WaterDepth // water surface sits on top
	return rl.Vector3{
		X: float32(v.Position.X),
		Y: float32(elevation * heightScale),
		Z: float32(v.Position.Y),
	}
}

var agentColors = []rl.Color{
	{230, 41, 55, 255},
	{0, 121, 241, 255},
	{253, 249, 0, 255},
	{200, 122, 255, 255},
	{255, 161, 0, 255},
	{0, 228, 48, 255},
}

func cellColor(mesh *terrain.Mesh, ci int, world *sim.World) rl.Color {
	cell := mesh.Cells[ci]

	if world != nil {
		if owner := world.Owner[ci]; owner >= 0 {
			return agentColors[owner%len(agentColors)]
		}
	}

	if cell.Lake >= 0 {
		return rl.Color{R: 70, G: 130, B: 220, A: 255}
	}
	if cell.Elevation < mesh.SeaLevel {
		depth := mesh.SeaLevel - cell.Elevation
		shade := 1.0 - depth*2
		if shade < 0.3 {
			shade = 0.3
		}
		return rl.Color{R: uint8(30 * shade), G: uint8(90 * shade), B: uint8(200 * shade), A: 255}
	}

	// land ramp: green lowlands, brown hills, white peaks
	t := (cell.Elevation - mesh.SeaLevel) / (1 - mesh.SeaLevel)
	switch {
	case t > 0.7:
		return rl.Color{R: 235, G: 235, B: 235, A: 255}
	case t > 0.4:
		return rl.Color{R: 140, G: 110, B: 70, A: 255}
	default:
		g := 140 + uint8(80*t)
		return rl.Color{R: 60, G: g, B: 60, A: 255}
	}
}

func shade(c rl.Color, light float32) rl.Color {
	return rl.Color{
		R: uint8(float32(c.R) * light),
		G: uint8(float32(c.G) * light),
		B: uint8(float32(c.B) * light),
		A: c.A,
	}
}
