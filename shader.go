package main

import "github.com/go-gl/mathgl/mgl32"

// terrainVertexShader is the render contract for web clients: per-vertex
// position/normal (vec4) and waterDepth (float), modelView and projection
// uniforms, and a directional light term against the fixed light direction
// (0.2, 0.2, 1). The varyings pass through to the fragment stage unchanged.
const terrainVertexShader = `attribute vec4 position;
attribute vec4 normal;
attribute float waterDepth;

uniform mat4 modelView;
uniform mat4 projection;

varying float vLight;
varying vec4 vNormal;
varying vec4 vPos;
varying float vWaterDepth;

void main() {
    vLight = dot(normal.xyz, normalize(vec3(0.2, 0.2, 1.0)));
    vNormal = normal;
    vPos = position;
    vWaterDepth = waterDepth;
    gl_Position = projection * modelView * position;
}
`

// lightDirection is the fixed light baked into the vertex shader.
var lightDirection = mgl32.Vec3{0.2, 0.2, 1}

// vertexLight mirrors the shader's vLight term on the CPU so the native
// viewer shades cells the same way a web client would.
func vertexLight(normal mgl32.Vec3) float32 {
	return normal.Dot(lightDirection.Normalize())
}

// cameraMatrices builds the modelView/projection pair handed to clients on
// connect, framing the unit-square terrain from a southern three-quarter view.
func cameraMatrices(aspect float32) (modelView, projection mgl32.Mat4) {
	modelView = mgl32.LookAtV(
		mgl32.Vec3{0.5, 1.2, 1.8},
		mgl32.Vec3{0.5, 0, 0.5},
		mgl32.Vec3{0, 1, 0},
	)
	projection = mgl32.Perspective(mgl32.DegToRad(45), aspect, 0.01, 10)
	return modelView, projection
}
