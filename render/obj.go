package render

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/soypat/flyingedges"
	"github.com/soypat/glgl/math/ms3"
)

// ReadOBJ reads the vertices and triangular faces of a Wavefront OBJ
// stream. Face indices may be negative (relative) and may carry texture or
// normal references, which are ignored. Polygons with more than three
// vertices are fanned into triangles. Other statements are skipped.
func ReadOBJ(r io.Reader) (*flyingedges.Mesh, error) {
	m := &flyingedges.Mesh{}
	sc := bufio.NewScanner(r)
	line := 0
	var face []int32
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj line %d: vertex needs 3 coordinates", line)
			}
			var xyz [3]float32
			for i := range xyz {
				f, err := strconv.ParseFloat(fields[i+1], 32)
				if err != nil {
					return nil, fmt.Errorf("obj line %d: %w", line, err)
				}
				xyz[i] = float32(f)
			}
			m.Vertices = append(m.Vertices, ms3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]})
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj line %d: face needs at least 3 vertices", line)
			}
			face = face[:0]
			for _, field := range fields[1:] {
				idx, err := objIndex(field, len(m.Vertices))
				if err != nil {
					return nil, fmt.Errorf("obj line %d: %w", line, err)
				}
				face = append(face, idx)
			}
			for i := 2; i < len(face); i++ {
				m.Triangles = append(m.Triangles, flyingedges.Triangle{face[0], face[i-1], face[i]})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// objIndex resolves a face vertex reference such as "7", "-1" or "7/2/3"
// to a 0-based vertex index.
func objIndex(field string, nverts int) (int32, error) {
	if slash := strings.IndexByte(field, '/'); slash >= 0 {
		field = field[:slash]
	}
	i, err := strconv.Atoi(field)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		i += nverts + 1
	}
	if i < 1 || i > nverts || i > math.MaxInt32 {
		return 0, fmt.Errorf("vertex index %s out of range [1,%d]", field, nverts)
	}
	return int32(i - 1), nil
}
