// Package glpass classifies the x-edges of a scalar field on the GPU with an
// OpenGL 4.3 compute shader. It plugs into flyingedges as the pass 1
// backend through flyingedges.Config.Classifier.
//
// All calls must happen on the goroutine that owns the current GL context,
// usually the main goroutine with runtime.LockOSThread called in init.
package glpass

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/gl/all-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/flyingedges"
	"github.com/soypat/glgl/v4.6-core/glgl"
)

// InitContext creates a hidden window with an OpenGL 4.3 core context and
// makes it current on the calling thread. terminate releases it.
func InitContext() (terminate func(), err error) {
	if err = glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw.Init: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.Visible, glfw.False)
	win, err := glfw.CreateWindow(1, 1, "flyingedges", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfw.CreateWindow: %w", err)
	}
	win.MakeContextCurrent()
	if err = gl.Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("gl.Init: %w", err)
	}
	return func() {
		win.Destroy()
		glfw.Terminate()
	}, nil
}

// EdgeClassifier runs pass 1 on the GPU. One shader invocation classifies
// one x-edge. Programs are compiled per isovalue and cached until Delete.
type EdgeClassifier struct {
	progs   map[float32]glgl.Program
	scratch []float32
}

var _ flyingedges.EdgeClassifier = (*EdgeClassifier)(nil)

// NewEdgeClassifier returns a classifier for the current GL context.
func NewEdgeClassifier() *EdgeClassifier {
	return &EdgeClassifier{progs: make(map[float32]glgl.Program)}
}

// ClassifyEdges implements [flyingedges.EdgeClassifier]. The field is
// uploaded as an NX by NY*NZ single channel float texture and the edge cases
// are read back from an (NX-1) by NY*NZ texture.
func (ec *EdgeClassifier) ClassifyEdges(dst []flyingedges.EdgeCase, f *flyingedges.Field, isovalue float32) error {
	nxe, rows := f.NX-1, f.NY*f.NZ
	if len(dst) != nxe*rows {
		return fmt.Errorf("edge buffer length %d, want %d", len(dst), nxe*rows)
	}
	if nxe == 0 {
		return nil
	}
	if math32.IsInf(isovalue, 0) || math32.IsNaN(isovalue) {
		return errors.New("glpass: isovalue must be finite")
	}
	var maxSize int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxSize)
	if f.NX > int(maxSize) || rows > int(maxSize) {
		return fmt.Errorf("glpass: %dx%d field texture exceeds GL_MAX_TEXTURE_SIZE=%d", f.NX, rows, maxSize)
	}
	prog, err := ec.program(isovalue)
	if err != nil {
		return err
	}
	prog.Bind()
	scalarCfg := glgl.TextureImgConfig{
		Type:           glgl.Texture2D,
		Width:          f.NX,
		Height:         rows,
		Access:         glgl.ReadOnly,
		Format:         gl.RED,
		MinFilter:      gl.NEAREST,
		MagFilter:      gl.NEAREST,
		Xtype:          gl.FLOAT,
		InternalFormat: gl.R32F,
		ImageUnit:      0,
	}
	fieldTex, err := glgl.NewTextureFromImage(scalarCfg, f.Data)
	if err != nil {
		return fmt.Errorf("uploading field: %w", err)
	}
	defer fieldTex.Delete()
	if cap(ec.scratch) < len(dst) {
		ec.scratch = make([]float32, len(dst))
	}
	cases := ec.scratch[:len(dst)]
	edgeCfg := glgl.TextureImgConfig{
		Type:           glgl.Texture2D,
		Width:          nxe,
		Height:         rows,
		Access:         glgl.WriteOnly,
		Format:         gl.RED,
		MinFilter:      gl.NEAREST,
		MagFilter:      gl.NEAREST,
		Xtype:          gl.FLOAT,
		InternalFormat: gl.R32F,
		ImageUnit:      1,
	}
	edgeTex, err := glgl.NewTextureFromImage(edgeCfg, cases)
	if err != nil {
		return fmt.Errorf("allocating edge texture: %w", err)
	}
	defer edgeTex.Delete()
	err = prog.RunCompute(nxe, rows, 1)
	if err != nil {
		return fmt.Errorf("running classifier: %w", err)
	}
	err = glgl.GetImage(cases, edgeTex, edgeCfg)
	if err != nil {
		return fmt.Errorf("reading edge cases: %w", err)
	}
	for i, c := range cases {
		if c < 0 || c > float32(flyingedges.BothAbove) || c != math32.Floor(c) {
			return fmt.Errorf("glpass: invalid edge case %v at edge %d", c, i)
		}
		dst[i] = flyingedges.EdgeCase(c)
	}
	return nil
}

// Delete frees every compiled program. The classifier may be used again
// afterwards and recompiles programs as needed.
func (ec *EdgeClassifier) Delete() {
	for iso, prog := range ec.progs {
		prog.Delete()
		delete(ec.progs, iso)
	}
}

func (ec *EdgeClassifier) program(isovalue float32) (glgl.Program, error) {
	if prog, ok := ec.progs[isovalue]; ok {
		return prog, nil
	}
	combined, err := glgl.ParseCombined(strings.NewReader(classifierSource(isovalue)))
	if err != nil {
		return glgl.Program{}, err
	}
	prog, err := glgl.CompileProgram(combined)
	if err != nil {
		return glgl.Program{}, errors.New(string(combined.Compute) + "\n" + err.Error())
	}
	ec.progs[isovalue] = prog
	return prog, nil
}

// classifierSource returns the compute shader with isovalue embedded as a
// literal that parses back to the same float32.
func classifierSource(isovalue float32) string {
	iso := strconv.FormatFloat(float64(isovalue), 'e', -1, 32)
	return `#shader compute
#version 430
layout(local_size_x = 1, local_size_y = 1, local_size_z = 1) in;
layout(r32f, binding = 0) uniform image2D in_field;
layout(r32f, binding = 1) uniform image2D out_edges;

void main() {
	ivec2 pos = ivec2(gl_GlobalInvocationID.xy);
	float left = imageLoad(in_field, pos).r;
	float right = imageLoad(in_field, pos + ivec2(1, 0)).r;
	float ec = 0.0;
	if (left >= ` + iso + `) {
		ec += 1.0;
	}
	if (right >= ` + iso + `) {
		ec += 2.0;
	}
	imageStore(out_edges, pos, vec4(ec, 0.0, 0.0, 0.0));
}
`
}
