package main

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"terraingen/config"
	"terraingen/sim"
	"terraingen/terrain"
)

// MeshData is the wire format streamed to websocket clients. Vertices carry
// (x, y, elevation); cells index into the vertex arrays. The initial message
// additionally carries the vertex shader source and camera matrices so a
// WebGL client can render without further negotiation.
type MeshData struct {
	Type        string       `json:"type"`
	Vertices    [][3]float64 `json:"vertices"`
	Normals     [][3]float64 `json:"normals"`
	WaterDepths []float64    `json:"waterDepths"`
	Cells       [][]int      `json:"cells"`
	Elevations  []float64    `json:"elevations"`
	Moistures   []float64    `json:"moistures"`
	Owners      []int        `json:"owners,omitempty"`
	SeaLevel    float64      `json:"seaLevel"`
	Seed        uint64       `json:"seed"`
	Tick        int          `json:"tick"`
	Shader      string       `json:"shader,omitempty"`
	ModelView   []float32    `json:"modelView,omitempty"`
	Projection  []float32    `json:"projection,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // allow all origins for development
	},
}

var (
	stateMutex  sync.RWMutex
	globalMesh  *terrain.Mesh
	globalWorld *sim.World
	globalGen   config.GeneratorSettings
)

var clients = make(map[*websocket.Conn]*sync.Mutex)
var clientsMutex sync.RWMutex

func startServer(configPath string, settings config.Settings, mesh *terrain.Mesh, world *sim.World) {
	globalMesh = mesh
	globalWorld = world
	globalGen = settings.Generator

	// settings hot reload rebuilds the mesh for all connected clients
	watcher, err := config.Watch(configPath, func(s config.Settings) {
		fmt.Println("Settings changed, rebuilding mesh")
		rebuild(s.Generator)
	})
	if err != nil {
		log.Println("Settings watcher disabled:", err)
	} else {
		defer watcher.Close()
	}

	go simulationLoop(time.Duration(settings.Server.UpdateIntervalMs) * time.Millisecond)

	http.HandleFunc("/ws", handleWebSocket)

	addr := fmt.Sprintf(":%d", settings.Server.Port)
	fmt.Printf("Server starting on http://localhost%s\n", addr)
	log.Fatal(http.ListenAndServe(addr, nil))
}

func handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	connMutex := &sync.Mutex{}
	clientsMutex.Lock()
	clients[conn] = connMutex
	clientsMutex.Unlock()
	defer func() {
		clientsMutex.Lock()
		delete(clients, conn)
		clientsMutex.Unlock()
	}()

	sendInitialMesh(conn, connMutex)

	// rebuild requests: {"points": 800, "seed": 3}
	for {
		var msg map[string]interface{}
		if err := conn.ReadJSON(&msg); err != nil {
			log.Println("WebSocket read error:", err)
			break
		}

		stateMutex.RLock()
		gen := globalGen
		stateMutex.RUnlock()

		changed := false
		if points, ok := msg["points"].(float64); ok && int(points) > 0 {
			gen.Points = int(points)
			changed = true
		}
		if seed, ok := msg["seed"].(float64); ok {
			gen.Seed = uint64(seed)
			changed = true
		}
		if changed {
			fmt.Printf("REBUILD: %d points, seed %d\n", gen.Points, gen.Seed)
			rebuild(gen)
		}
	}
}

func rebuild(gen config.GeneratorSettings) {
	mesh, err := buildMesh(gen)
	if err != nil {
		log.Println("Rebuild failed:", err)
		return
	}

	var world *sim.World
	if gen.Agents > 0 {
		world, err = sim.NewWorld(mesh, gen.Agents, gen.Seed)
		if err != nil {
			log.Println("Rebuild simulation failed:", err)
		}
	}

	stateMutex.Lock()
	globalMesh = mesh
	globalWorld = world
	globalGen = gen
	stateMutex.Unlock()

	broadcastMeshData()
}

func simulationLoop(interval time.Duration) {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		stateMutex.Lock()
		world := globalWorld
		if world != nil {
			world.Step()
		}
		stateMutex.Unlock()

		if world != nil {
			broadcastMeshData()
		}
	}
}

func sendInitialMesh(conn *websocket.Conn, mutex *sync.Mutex) {
	stateMutex.RLock()
	data := createMeshData(globalMesh, globalWorld, globalGen.Seed)
	stateMutex.RUnlock()

	// first message carries the render contract
	data.Shader = terrainVertexShader
	modelView, projection := cameraMatrices(16.0 / 9.0)
	data.ModelView = modelView[:]
	data.Projection = projection[:]

	mutex.Lock()
	err := conn.WriteJSON(data)
	mutex.Unlock()
	if err != nil {
		log.Println("WebSocket write error:", err)
	}
}

func broadcastMeshData() {
	stateMutex.RLock()
	data := createMeshData(globalMesh, globalWorld, globalGen.Seed)
	stateMutex.RUnlock()

	clientsMutex.RLock()
	var failed []*websocket.Conn
	for client, mutex := range clients {
		mutex.Lock()
		err := client.WriteJSON(data)
		mutex.Unlock()
		if err != nil {
			log.Println("WebSocket write error:", err)
			client.Close()
			failed = append(failed, client)
		}
	}
	clientsMutex.RUnlock()

	if len(failed) > 0 {
		clientsMutex.Lock()
		for _, client := range failed {
			delete(clients, client)
		}
		clientsMutex.Unlock()
	}
}

func createMeshData(m *terrain.Mesh, world *sim.World, seed uint64) MeshData {
	vertices := make([][3]float64, len(m.Vertices))
	normals := make([][3]float64, len(m.Vertices))
	waterDepths := make([]float64, len(m.Vertices))
	for i, v := range m.Vertices {
		vertices[i] = [3]float64{v.Position.X, v.Position.Y, v.Position.Z}
		normals[i] = [3]float64{v.Normal.X, v.Normal.Y, v.Normal.Z}
		waterDepths[i] = v.WaterDepth
	}

	cells := make([][]int, len(m.Cells))
	elevations := make([]float64, len(m.Cells))
	moistures := make([]float64, len(m.Cells))
	for i, c := range m.Cells {
		cells[i] = c.Vertices
		elevations[i] = c.Elevation
		moistures[i] = c.Moisture
	}

	data := MeshData{
		Type:        "mesh_update",
		Vertices:    vertices,
		Normals:     normals,
		WaterDepths: waterDepths,
		Cells:       cells,
		Elevations:  elevations,
		Moistures:   moistures,
		SeaLevel:    m.SeaLevel,
		Seed:        seed,
	}
	if world != nil {
		data.Owners = world.Owner
		data.Tick = world.Tick
	}
	return data
}
