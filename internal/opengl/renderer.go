package opengl

import (
	"fmt"
	"log/slog"
	"strings"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"campus3d/core"
	"campus3d/math"
	"campus3d/scene"
)

// MaxPointLights is the number of point lights the shader evaluates. Extra
// point lights in a scene are ignored.
const MaxPointLights = 8

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO         uint32
	VBO         uint32
	EBO         uint32
	IndexCount  int32
	HasIndices  bool
	VertexCount int32
}

// GPUBatch is an instanced batch on the GPU. It shares the vertex and index
// buffers of its mesh and owns a VAO that adds the per-instance model matrix.
type GPUBatch struct {
	VAO         uint32
	InstanceVBO uint32
	Count       int32
	Cap         int
	uploaded    bool
}

// Renderer is the OpenGL rendering backend.
type Renderer struct {
	program uint32

	// Vertex transform uniforms
	viewProjLoc  int32
	modelLoc     int32
	instancedLoc int32

	// Lighting uniforms
	ambientColorLoc   int32
	hasDirLightLoc    int32
	lightDirLoc       int32
	lightColorLoc     int32
	lightIntensityLoc int32

	pointLightCountLoc     int32
	pointLightPosLoc       [MaxPointLights]int32
	pointLightColorLoc     [MaxPointLights]int32
	pointLightIntensityLoc [MaxPointLights]int32
	pointLightRangeLoc     [MaxPointLights]int32
	pointLightDecayLoc     [MaxPointLights]int32

	cameraPosLoc int32

	// Material uniforms
	matKindLoc      int32
	matColorLoc     int32
	matSpecularLoc  int32
	matShininessLoc int32
	matMetallicLoc  int32
	matRoughnessLoc int32
	matEmissiveLoc  int32
	doubleSidedLoc  int32

	viewportW int32
	viewportH int32

	gpuMeshes  map[*scene.Mesh]*GPUMesh
	gpuBatches map[*scene.InstancedMesh]*GPUBatch
}

// ── Shaders ───────────────────────────────────────────────────────────────────

// Matrices arrive in row-vector layout; uploading them untransposed gives GL
// the column-vector form, so the products below read right to left.
const vertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;
layout(location = 3) in vec4 inColor;

// Per-instance model matrix, one vec4 per column (instanced draws only).
layout(location = 4) in vec4 instModel0;
layout(location = 5) in vec4 instModel1;
layout(location = 6) in vec4 instModel2;
layout(location = 7) in vec4 instModel3;

uniform mat4 viewProj;
uniform mat4 model;
uniform bool instanced;

out vec4 fragColor;
out vec3 fragNormal;
out vec2 fragUV;
out vec3 fragWorldPos;

void main() {
    mat4 m = instanced ? mat4(instModel0, instModel1, instModel2, instModel3) : model;
    vec4 worldPos = m * vec4(inPosition, 1.0);

    gl_Position  = viewProj * worldPos;
    fragColor    = inColor;
    fragNormal   = mat3(m) * inNormal;
    fragUV       = inUV;
    fragWorldPos = worldPos.xyz;
}
` + "\x00"

// fragment shader: one program, four shading models picked by matKind
// (0 basic, 1 lambert, 2 phong, 3 standard). Lambert and phong share the
// diffuse term; standard is Cook-Torrance GGX.
const fragSrc = `
#version 410 core
in vec4 fragColor;
in vec3 fragNormal;
in vec2 fragUV;
in vec3 fragWorldPos;

out vec4 outColor;

uniform vec3  ambientColor;
uniform bool  hasDirLight;
uniform vec3  lightDir;
uniform vec3  lightColor;
uniform float lightIntensity;

#define MAX_POINT_LIGHTS 8
uniform int   pointLightCount;
uniform vec3  pointLightPos[MAX_POINT_LIGHTS];
uniform vec3  pointLightColor[MAX_POINT_LIGHTS];
uniform float pointLightIntensity[MAX_POINT_LIGHTS];
uniform float pointLightRange[MAX_POINT_LIGHTS]; // 0 = unlimited
uniform float pointLightDecay[MAX_POINT_LIGHTS];

uniform vec3 cameraPos;

uniform int   matKind;
uniform vec3  matColor;
uniform vec3  matSpecular;
uniform float matShininess;
uniform float matMetallic;
uniform float matRoughness;
uniform vec3  matEmissive; // already scaled by intensity
uniform bool  doubleSided;

const float PI = 3.14159265359;

float DistributionGGX(vec3 N, vec3 H, float roughness) {
    float a  = roughness * roughness;
    float a2 = a * a;
    float NdH = max(dot(N, H), 0.0);
    float d   = NdH * NdH * (a2 - 1.0) + 1.0;
    return a2 / (PI * d * d);
}

float GeometrySchlickGGX(float cosTheta, float roughness) {
    float r = roughness + 1.0;
    float k = (r * r) / 8.0;
    return cosTheta / (cosTheta * (1.0 - k) + k);
}

float GeometrySmith(float NdV, float NdL, float roughness) {
    return GeometrySchlickGGX(NdV, roughness) * GeometrySchlickGGX(NdL, roughness);
}

vec3 FresnelSchlick(float cosTheta, vec3 F0) {
    return F0 + (1.0 - F0) * pow(clamp(1.0 - cosTheta, 0.0, 1.0), 5.0);
}

// shade returns the light reflected towards V from one light of radiance rad
// arriving along L.
vec3 shade(vec3 N, vec3 V, vec3 L, vec3 rad, vec3 albedo) {
    float NdL = max(dot(N, L), 0.0);
    if (NdL <= 0.0) return vec3(0.0);

    if (matKind == 3) {
        float roughness = clamp(matRoughness, 0.04, 1.0);
        vec3  F0  = mix(vec3(0.04), albedo, matMetallic);
        vec3  H   = normalize(V + L);
        float NdV = max(dot(N, V), 0.0);
        float D   = DistributionGGX(N, H, roughness);
        float G   = GeometrySmith(NdV, NdL, roughness);
        vec3  F   = FresnelSchlick(max(dot(H, V), 0.0), F0);
        vec3  kD  = (vec3(1.0) - F) * (1.0 - matMetallic);
        vec3  specular = D * G * F / max(4.0 * NdV * NdL, 0.001);
        return (kD * albedo / PI + specular) * rad * NdL * PI;
    }

    vec3 color = albedo * rad * NdL;
    if (matKind == 2) {
        vec3 H = normalize(L + V);
        color += matSpecular * rad * pow(max(dot(N, H), 0.0), matShininess);
    }
    return color;
}

float attenuation(float dist, float range, float decay) {
    float atten = 1.0 / max(pow(dist, decay), 0.01);
    if (range > 0.0) {
        float r = dist / range;
        float window = clamp(1.0 - r * r * r * r, 0.0, 1.0);
        atten *= window * window;
    }
    return atten;
}

void main() {
    vec4 baseColor = fragColor * vec4(matColor, 1.0);
    if (matKind == 0) {
        outColor = baseColor;
        return;
    }

    vec3 N = normalize(fragNormal);
    if (doubleSided && !gl_FrontFacing) {
        N = -N;
    }
    vec3 V = normalize(cameraPos - fragWorldPos);
    vec3 albedo = baseColor.rgb;

    vec3 color = ambientColor * albedo;
    if (matKind == 3) {
        color *= 1.0 - 0.5 * matMetallic;
    }

    if (hasDirLight) {
        color += shade(N, V, normalize(-lightDir), lightColor * lightIntensity, albedo);
    }

    for (int i = 0; i < pointLightCount && i < MAX_POINT_LIGHTS; i++) {
        vec3  toLight = pointLightPos[i] - fragWorldPos;
        float atten   = attenuation(length(toLight), pointLightRange[i], pointLightDecay[i]);
        vec3  rad     = pointLightColor[i] * pointLightIntensity[i] * atten;
        color += shade(N, V, normalize(toLight), rad, albedo);
    }

    color += matEmissive;
    outColor = vec4(color, baseColor.a);
}
` + "\x00"

// NewRenderer initialises GL, compiles the shader program and looks up its
// uniforms. A current GL context is required.
func NewRenderer() (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	slog.Info("OpenGL initialised",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))

	prog, err := newProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("shader program: %w", err)
	}

	r := &Renderer{
		program:    prog,
		gpuMeshes:  make(map[*scene.Mesh]*GPUMesh),
		gpuBatches: make(map[*scene.InstancedMesh]*GPUBatch),
	}
	r.lookupUniforms()

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.FrontFace(gl.CCW)
	gl.CullFace(gl.BACK)

	return r, nil
}

func (r *Renderer) lookupUniforms() {
	loc := func(name string) int32 {
		return gl.GetUniformLocation(r.program, gl.Str(name+"\x00"))
	}

	r.viewProjLoc = loc("viewProj")
	r.modelLoc = loc("model")
	r.instancedLoc = loc("instanced")

	r.ambientColorLoc = loc("ambientColor")
	r.hasDirLightLoc = loc("hasDirLight")
	r.lightDirLoc = loc("lightDir")
	r.lightColorLoc = loc("lightColor")
	r.lightIntensityLoc = loc("lightIntensity")

	r.pointLightCountLoc = loc("pointLightCount")
	for i := 0; i < MaxPointLights; i++ {
		r.pointLightPosLoc[i] = loc(fmt.Sprintf("pointLightPos[%d]", i))
		r.pointLightColorLoc[i] = loc(fmt.Sprintf("pointLightColor[%d]", i))
		r.pointLightIntensityLoc[i] = loc(fmt.Sprintf("pointLightIntensity[%d]", i))
		r.pointLightRangeLoc[i] = loc(fmt.Sprintf("pointLightRange[%d]", i))
		r.pointLightDecayLoc[i] = loc(fmt.Sprintf("pointLightDecay[%d]", i))
	}

	r.cameraPosLoc = loc("cameraPos")

	r.matKindLoc = loc("matKind")
	r.matColorLoc = loc("matColor")
	r.matSpecularLoc = loc("matSpecular")
	r.matShininessLoc = loc("matShininess")
	r.matMetallicLoc = loc("matMetallic")
	r.matRoughnessLoc = loc("matRoughness")
	r.matEmissiveLoc = loc("matEmissive")
	r.doubleSidedLoc = loc("doubleSided")
}

// SetViewport resizes the GL viewport.
func (r *Renderer) SetViewport(width, height int) {
	r.viewportW = int32(width)
	r.viewportH = int32(height)
	gl.Viewport(0, 0, r.viewportW, r.viewportH)
}

// ── BeginFrame ────────────────────────────────────────────────────────────────

// BeginFrame clears the framebuffer to background and sets the per-frame
// camera and lighting uniforms. The first directional light is used; point
// lights beyond MaxPointLights are dropped.
func (r *Renderer) BeginFrame(background core.Color, ambient core.Color, lights []*scene.Light, camPos math.Vec3, viewProj math.Mat4) {
	gl.ClearColor(background.R, background.G, background.B, background.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.viewProjLoc, 1, false, (*float32)(unsafe.Pointer(&viewProj[0][0])))
	gl.Uniform3f(r.cameraPosLoc, camPos.X, camPos.Y, camPos.Z)
	gl.Uniform3f(r.ambientColorLoc, ambient.R, ambient.G, ambient.B)

	hasDir := false
	pointIdx := 0
	for _, l := range lights {
		if l == nil {
			continue
		}
		switch l.Type {
		case scene.LightDirectional:
			if hasDir {
				continue
			}
			hasDir = true
			dir := l.Direction()
			gl.Uniform3f(r.lightDirLoc, dir.X, dir.Y, dir.Z)
			gl.Uniform3f(r.lightColorLoc, l.Color.R, l.Color.G, l.Color.B)
			gl.Uniform1f(r.lightIntensityLoc, l.Intensity)
		case scene.LightPoint:
			if pointIdx >= MaxPointLights {
				continue
			}
			gl.Uniform3f(r.pointLightPosLoc[pointIdx], l.Position.X, l.Position.Y, l.Position.Z)
			gl.Uniform3f(r.pointLightColorLoc[pointIdx], l.Color.R, l.Color.G, l.Color.B)
			gl.Uniform1f(r.pointLightIntensityLoc[pointIdx], l.Intensity)
			gl.Uniform1f(r.pointLightRangeLoc[pointIdx], l.Distance)
			gl.Uniform1f(r.pointLightDecayLoc[pointIdx], l.Decay)
			pointIdx++
		}
	}
	gl.Uniform1i(r.hasDirLightLoc, boolToInt(hasDir))
	gl.Uniform1i(r.pointLightCountLoc, int32(pointIdx))
}

// ── DrawMesh ──────────────────────────────────────────────────────────────────

// DrawMesh draws mesh once with the given world matrix.
func (r *Renderer) DrawMesh(mesh *scene.Mesh, model math.Mat4) {
	gpu := r.ensureUploaded(mesh)
	if gpu == nil {
		return
	}

	gl.UseProgram(r.program)
	gl.Uniform1i(r.instancedLoc, 0)
	gl.UniformMatrix4fv(r.modelLoc, 1, false, (*float32)(unsafe.Pointer(&model[0][0])))
	r.applyMaterial(mesh.Material)

	gl.BindVertexArray(gpu.VAO)
	if gpu.HasIndices {
		gl.DrawElements(gl.TRIANGLES, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, gpu.VertexCount)
	}
	gl.BindVertexArray(0)
}

// ── Instanced rendering ───────────────────────────────────────────────────────

// DrawInstanced renders every instance of batch in a single draw call. The
// instance matrices of a frozen batch are uploaded once; an unfrozen batch is
// re-uploaded every call.
func (r *Renderer) DrawInstanced(batch *scene.InstancedMesh) {
	if batch.Count() == 0 {
		return
	}
	gpu := r.ensureUploaded(batch.Mesh)
	if gpu == nil {
		return
	}
	inst := r.ensureBatch(batch, gpu)

	gl.UseProgram(r.program)
	gl.Uniform1i(r.instancedLoc, 1)
	r.applyMaterial(batch.Mesh.Material)

	gl.BindVertexArray(inst.VAO)
	if gpu.HasIndices {
		gl.DrawElementsInstanced(gl.TRIANGLES, gpu.IndexCount, gl.UNSIGNED_INT, nil, inst.Count)
	} else {
		gl.DrawArraysInstanced(gl.TRIANGLES, 0, gpu.VertexCount, inst.Count)
	}
	gl.BindVertexArray(0)

	gl.Uniform1i(r.instancedLoc, 0)
}

// applyMaterial sets the material uniforms and face culling. Must be called
// while r.program is active.
func (r *Renderer) applyMaterial(mat *scene.Material) {
	if mat == nil {
		mat = scene.DefaultMaterial()
	}
	gl.Uniform1i(r.matKindLoc, int32(mat.Kind))
	gl.Uniform3f(r.matColorLoc, mat.Color.R, mat.Color.G, mat.Color.B)
	gl.Uniform3f(r.matSpecularLoc, mat.Specular.R, mat.Specular.G, mat.Specular.B)
	gl.Uniform1f(r.matShininessLoc, mat.Shininess)
	gl.Uniform1f(r.matMetallicLoc, mat.Metallic)
	gl.Uniform1f(r.matRoughnessLoc, mat.Roughness)
	emissive := mat.EmissiveRadiance()
	gl.Uniform3f(r.matEmissiveLoc, emissive.R, emissive.G, emissive.B)
	gl.Uniform1i(r.doubleSidedLoc, boolToInt(mat.DoubleSided))

	if mat.DoubleSided {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
	}
}

// ensureBatch creates the batch VAO on first use and uploads its matrices.
func (r *Renderer) ensureBatch(batch *scene.InstancedMesh, mesh *GPUMesh) *GPUBatch {
	inst, ok := r.gpuBatches[batch]
	if !ok {
		inst = &GPUBatch{}
		gl.GenBuffers(1, &inst.InstanceVBO)
		inst.VAO = newVertexArray(mesh)

		const stride = int32(16 * 4)
		gl.BindVertexArray(inst.VAO)
		gl.BindBuffer(gl.ARRAY_BUFFER, inst.InstanceVBO)
		for i := uint32(0); i < 4; i++ {
			gl.EnableVertexAttribArray(4 + i)
			gl.VertexAttribPointer(4+i, 4, gl.FLOAT, false, stride, gl.PtrOffset(int(i)*16))
			gl.VertexAttribDivisor(4+i, 1)
		}
		gl.BindVertexArray(0)
		gl.BindBuffer(gl.ARRAY_BUFFER, 0)

		r.gpuBatches[batch] = inst
		batch.GPUData = inst
	}

	if inst.uploaded && batch.Frozen() {
		return inst
	}

	// Row-major Mat4 memory is already the column layout GL expects.
	matrices := batch.Matrices()
	buf := make([]float32, 0, len(matrices)*16)
	for _, m := range matrices {
		flat := m.Flatten()
		buf = append(buf, flat[:]...)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, inst.InstanceVBO)
	if len(matrices) > inst.Cap {
		gl.BufferData(gl.ARRAY_BUFFER, len(buf)*4, gl.Ptr(buf), gl.STATIC_DRAW)
		inst.Cap = len(matrices)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(buf)*4, gl.Ptr(buf))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	inst.Count = int32(len(matrices))
	inst.uploaded = true
	return inst
}

// ── Resource management ───────────────────────────────────────────────────────

// ReleaseMesh frees GPU buffers for the given mesh.
func (r *Renderer) ReleaseMesh(mesh *scene.Mesh) {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		gl.DeleteVertexArrays(1, &gpu.VAO)
		gl.DeleteBuffers(1, &gpu.VBO)
		if gpu.HasIndices {
			gl.DeleteBuffers(1, &gpu.EBO)
		}
		delete(r.gpuMeshes, mesh)
		mesh.GPUData = nil
	}
}

// ReleaseBatch frees the instance buffer and VAO of batch. The mesh buffers
// it shares stay alive.
func (r *Renderer) ReleaseBatch(batch *scene.InstancedMesh) {
	if inst, ok := r.gpuBatches[batch]; ok {
		gl.DeleteVertexArrays(1, &inst.VAO)
		gl.DeleteBuffers(1, &inst.InstanceVBO)
		delete(r.gpuBatches, batch)
		batch.GPUData = nil
	}
}

// Destroy releases all GPU resources.
func (r *Renderer) Destroy() {
	for batch := range r.gpuBatches {
		r.ReleaseBatch(batch)
	}
	for mesh := range r.gpuMeshes {
		r.ReleaseMesh(mesh)
	}
	gl.DeleteProgram(r.program)
}

// ── Internal helpers ──────────────────────────────────────────────────────────

// ensureUploaded uploads vertex/index data if not already done.
func (r *Renderer) ensureUploaded(mesh *scene.Mesh) *GPUMesh {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		return gpu
	}
	if mesh == nil || len(mesh.Vertices) == 0 {
		return nil
	}

	stride := int(unsafe.Sizeof(core.Vertex{}))
	gpu := &GPUMesh{
		IndexCount:  int32(len(mesh.Indices)),
		HasIndices:  len(mesh.Indices) > 0,
		VertexCount: int32(len(mesh.Vertices)),
	}

	gl.GenBuffers(1, &gpu.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*stride, gl.Ptr(mesh.Vertices), gl.STATIC_DRAW)

	if gpu.HasIndices {
		gl.GenBuffers(1, &gpu.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	gpu.VAO = newVertexArray(gpu)

	r.gpuMeshes[mesh] = gpu
	mesh.GPUData = gpu
	return gpu
}

// newVertexArray creates a VAO over the vertex and index buffers of gpu.
func newVertexArray(gpu *GPUMesh) uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)

	stride := int32(unsafe.Sizeof(core.Vertex{}))
	var v core.Vertex

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.Position))))

	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.Normal))))

	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.UV))))

	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointer(3, 4, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.Color))))

	if gpu.HasIndices {
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vao
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// ── Shader helpers ────────────────────────────────────────────────────────────

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("link failed: %v", log)
	}

	gl.DeleteShader(vert)
	gl.DeleteShader(frag)
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
