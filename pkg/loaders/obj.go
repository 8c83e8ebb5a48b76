package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
)

var (
	// ErrNotTriangulated is returned for faces that do not have exactly three vertices
	ErrNotTriangulated = errors.New("obj: mesh is not triangulated")
	// ErrInvalidIndex is returned for a zero or out-of-range vertex reference
	ErrInvalidIndex = errors.New("obj: invalid vertex index")
)

// OBJData contains the geometry loaded from a Wavefront OBJ file
type OBJData struct {
	Name     string      // First object name ("o" record), if any
	Vertices []core.Vec3 // Vertex positions
	Faces    []int       // Triangle indices (3 per triangle, zero-based)
}

// TriangleCount returns the number of triangles in the data
func (d *OBJData) TriangleCount() int {
	return len(d.Faces) / 3
}

// LoadOBJ loads vertex positions and triangular faces from an OBJ file.
// Texture coordinates, normals, groups, and materials are ignored.
func LoadOBJ(filename string) (*OBJData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer file.Close()

	data, err := ParseOBJ(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// ParseOBJ reads OBJ records from r
func ParseOBJ(r io.Reader) (*OBJData, error) {
	data := &OBJData{}
	scanner := bufio.NewScanner(r)
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			vertex, err := parseVertex(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNumber, err)
			}
			data.Vertices = append(data.Vertices, vertex)
		case "f":
			if len(fields)-1 != 3 {
				return nil, fmt.Errorf("line %d: face has %d vertices: %w", lineNumber, len(fields)-1, ErrNotTriangulated)
			}
			for _, token := range fields[1:] {
				index, err := parseFaceIndex(token, len(data.Vertices))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNumber, err)
				}
				data.Faces = append(data.Faces, index)
			}
		case "o":
			if data.Name == "" && len(fields) > 1 {
				data.Name = strings.Join(fields[1:], " ")
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading OBJ: %w", err)
	}

	// Positive indices may refer forward, so the range check waits for the last vertex
	for i, index := range data.Faces {
		if index >= len(data.Vertices) {
			return nil, fmt.Errorf("face %d references vertex %d of %d: %w",
				i/3, index+1, len(data.Vertices), ErrInvalidIndex)
		}
	}

	return data, nil
}

// parseVertex parses "x y z [w]"
func parseVertex(fields []string) (core.Vec3, error) {
	if len(fields) < 3 {
		return core.Vec3{}, fmt.Errorf("vertex needs 3 coordinates, got %d", len(fields))
	}

	var coords [3]float64
	for i := range coords {
		value, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("invalid vertex coordinate %q: %w", fields[i], err)
		}
		coords[i] = value
	}
	return core.NewVec3(coords[0], coords[1], coords[2]), nil
}

// parseFaceIndex resolves a "v", "v/vt", "v//vn", or "v/vt/vn" token to a
// zero-based vertex index. Negative indices count back from the latest vertex.
func parseFaceIndex(token string, vertexCount int) (int, error) {
	position, _, _ := strings.Cut(token, "/")
	index, err := strconv.Atoi(position)
	if err != nil {
		return 0, fmt.Errorf("invalid face index %q: %w", token, err)
	}

	switch {
	case index > 0:
		return index - 1, nil
	case index < 0 && vertexCount+index >= 0:
		return vertexCount + index, nil
	default:
		return 0, fmt.Errorf("face index %q with %d vertices: %w", token, vertexCount, ErrInvalidIndex)
	}
}
