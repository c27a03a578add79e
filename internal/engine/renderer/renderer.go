// Package renderer uploads indexed meshes and textures to OpenGL and draws
// them. GPU objects are returned as handles and passed back explicitly; no
// call relies on a buffer or texture left bound by an earlier one.
package renderer

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/renderer/shaders"
	"github.com/Faultbox/meshview/internal/engine/shader"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/pkg/math"
	"github.com/Faultbox/meshview/pkg/mesh"
)

// ErrEmptyMesh is returned when uploading a mesh with no triangles.
var ErrEmptyMesh = errors.New("mesh has no indices")

// Vertex attribute locations shared with the standard shader.
const (
	attribPosition = 0
	attribTexCoord = 1
	attribNormal   = 2
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor [3]float32
}

// MeshHandle names the GPU objects holding one indexed mesh.
type MeshHandle struct {
	VAO        uint32
	Positions  uint32
	TexCoords  uint32
	Normals    uint32
	Elements   uint32
	IndexCount int32
}

// TextureHandle names an uploaded 2D texture.
type TextureHandle struct {
	ID            uint32
	Width, Height int
}

// Light is a single point light in world space.
type Light struct {
	Position math.Vec3
	Color    math.Vec3
	Power    float32
}

// DrawCall is everything one indexed draw needs.
type DrawCall struct {
	Program *shader.Program
	Mesh    MeshHandle
	Texture TextureHandle
	MVP     math.Mat4
	Model   math.Mat4
	View    math.Mat4
	Light   Light
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	// Accept fragments closer to the camera than the former one.
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.ClearColor(cfg.ClearColor[0], cfg.ClearColor[1], cfg.ClearColor[2], 0)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	return r, nil
}

// NewStandardProgram compiles the embedded textured, lit shader.
func (r *Renderer) NewStandardProgram() (*shader.Program, error) {
	program, err := shader.Compile(shaders.StandardVertexShader, shaders.StandardFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("standard shader: %w", err)
	}
	logger.Debug("shader program created", zap.Uint32("program", program.ID))
	return program, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the current viewport size.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// UploadMesh creates one buffer per attribute plus a 16-bit element buffer,
// all recorded in a vertex array.
func (r *Renderer) UploadMesh(m *mesh.Indexed) (MeshHandle, error) {
	if len(m.Indices) == 0 {
		return MeshHandle{}, ErrEmptyMesh
	}

	var h MeshHandle
	gl.GenVertexArrays(1, &h.VAO)
	gl.BindVertexArray(h.VAO)

	h.Positions = uploadAttrib(attribPosition, 3, len(m.Positions)*3*4, unsafe.Pointer(&m.Positions[0]))
	h.TexCoords = uploadAttrib(attribTexCoord, 2, len(m.TexCoords)*2*4, unsafe.Pointer(&m.TexCoords[0]))
	h.Normals = uploadAttrib(attribNormal, 3, len(m.Normals)*3*4, unsafe.Pointer(&m.Normals[0]))

	// The element binding is VAO state.
	gl.GenBuffers(1, &h.Elements)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, h.Elements)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*2, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)
	h.IndexCount = int32(len(m.Indices))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	logger.Debug("mesh uploaded",
		zap.Uint32("vao", h.VAO),
		zap.Int("vertices", m.VertexCount()),
		zap.Int32("indices", h.IndexCount),
	)
	return h, nil
}

func uploadAttrib(location uint32, size int32, bytes int, data unsafe.Pointer) uint32 {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, bytes, data, gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(location, size, gl.FLOAT, false, 0, 0)
	gl.EnableVertexAttribArray(location)
	return vbo
}

// DeleteMesh releases the GPU objects of a mesh.
func (r *Renderer) DeleteMesh(h MeshHandle) {
	buffers := []uint32{h.Positions, h.TexCoords, h.Normals, h.Elements}
	gl.DeleteBuffers(int32(len(buffers)), &buffers[0])
	gl.DeleteVertexArrays(1, &h.VAO)
}

// UploadTexture uploads an RGBA image with mipmaps. Row 0 of img becomes
// texture row 0 (the bottom in GL convention).
func (r *Renderer) UploadTexture(img *image.RGBA) TextureHandle {
	h := TextureHandle{Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}

	gl.GenTextures(1, &h.ID)
	gl.BindTexture(gl.TEXTURE_2D, h.ID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(h.Width), int32(h.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	logger.Debug("texture uploaded",
		zap.Uint32("id", h.ID),
		zap.Int("width", h.Width),
		zap.Int("height", h.Height),
	)
	return h
}

// WhiteTexture uploads a 1x1 white texture for untextured meshes.
func (r *Renderer) WhiteTexture() TextureHandle {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	copy(img.Pix, []uint8{255, 255, 255, 255})
	return r.UploadTexture(img)
}

// DeleteTexture releases a texture.
func (r *Renderer) DeleteTexture(h TextureHandle) {
	gl.DeleteTextures(1, &h.ID)
}

// Draw issues one indexed draw with the standard shader uniforms.
func (r *Renderer) Draw(dc DrawCall) {
	p := dc.Program
	p.SetMat4("MVP", dc.MVP)
	p.SetMat4("M", dc.Model)
	p.SetMat4("V", dc.View)
	p.SetVec3("LightPosition_worldspace", dc.Light.Position)
	p.SetVec3("LightColor", dc.Light.Color)
	p.SetFloat("LightPower", dc.Light.Power)
	p.SetInt("myTextureSampler", 0)

	gl.UseProgram(p.ID)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, dc.Texture.ID)
	gl.BindVertexArray(dc.Mesh.VAO)

	gl.DrawElements(gl.TRIANGLES, dc.Mesh.IndexCount, gl.UNSIGNED_SHORT, nil)

	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)
}

// ReadPixels returns the back buffer as tightly packed RGBA rows, bottom row
// first.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}
