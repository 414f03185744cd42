package render

import (
	"image"
	"image/color"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/glgl/math/ms3"
	"golang.org/x/image/colornames"
)

// PreviewConfig describes the camera and output of a preview render.
// The model is fit into a bi-unit cube centered at the origin before
// rendering, so camera positions are given relative to that cube.
type PreviewConfig struct {
	Width, Height int
	// Supersample renders at this multiple of the output size and
	// downsamples for antialiasing. Values below 1 mean 1.
	Supersample     int
	Eye, LookAt, Up ms3.Vec
	Near, Far       float64
	// FovY is the vertical field of view in degrees.
	FovY       float64
	Color      color.Color
	Background color.Color
}

// DefaultPreview looks at the model from the (1,1,1) diagonal with Z up.
var DefaultPreview = PreviewConfig{
	Width:       640,
	Height:      480,
	Supersample: 2,
	Eye:         ms3.Vec{X: 3, Y: 3, Z: 3},
	Up:          ms3.Vec{Z: 1},
	Near:        1,
	Far:         10,
	FovY:        30,
	Color:       colornames.Seagreen,
	Background:  colornames.Floralwhite,
}

// Preview rasterizes the triangles of r with a Phong shader.
func Preview(r Renderer, cfg PreviewConfig) (image.Image, error) {
	model, err := RenderAll(r)
	if err != nil {
		return nil, err
	}
	tris := make([]*fauxgl.Triangle, 0, len(model))
	for _, t := range model {
		if t.IsDegenerate(0) {
			continue
		}
		tris = append(tris, fauxgl.NewTriangleForPoints(fauxglVec(t[0]), fauxglVec(t[1]), fauxglVec(t[2])))
	}
	mesh := fauxgl.NewTriangleMesh(tris)
	scale := max(cfg.Supersample, 1)
	var (
		eye    = fauxglVec(cfg.Eye)
		center = fauxglVec(cfg.LookAt)
		up     = fauxglVec(cfg.Up)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
	)
	// fit mesh in a bi-unit cube centered at the origin
	mesh.BiUnitCube()
	context := fauxgl.NewContext(cfg.Width*scale, cfg.Height*scale)
	context.ClearColorBufferWith(fauxgl.MakeColor(cfg.Background))
	aspect := float64(cfg.Width) / float64(cfg.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(cfg.FovY, aspect, cfg.Near, cfg.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.MakeColor(cfg.Color)
	context.Shader = shader
	context.DrawMesh(mesh)
	img := context.Image()
	if scale > 1 {
		// downsample image for antialiasing
		img = resize.Resize(uint(cfg.Width), uint(cfg.Height), img, resize.Bilinear)
	}
	return img, nil
}

// PreviewPNG renders the triangles of r and saves the result as a PNG at path.
func PreviewPNG(path string, r Renderer, cfg PreviewConfig) error {
	img, err := Preview(r, cfg)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, img)
}

func fauxglVec(v ms3.Vec) fauxgl.Vector {
	return fauxgl.V(float64(v.X), float64(v.Y), float64(v.Z))
}
