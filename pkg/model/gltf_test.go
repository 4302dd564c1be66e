package model

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
	"testing"

	"showroom/pkg/math3d"
)

// triangleBin packs the binary chunk shared by the GLB fixtures: positions
// (0,0,0) (1,0,0) (0,1,0) followed by uint16 indices 0 1 2.
func triangleBin(t *testing.T) []byte {
	t.Helper()

	var bin bytes.Buffer
	positions := []float32{
		0, 0, 0,
		1, 0, 0,
		0, 1, 0,
	}
	if err := binary.Write(&bin, binary.LittleEndian, positions); err != nil {
		t.Fatal(err)
	}
	indices := []uint16{0, 1, 2}
	if err := binary.Write(&bin, binary.LittleEndian, indices); err != nil {
		t.Fatal(err)
	}
	bin.Write([]byte{0, 0}) // pad BIN chunk to 4 bytes
	return bin.Bytes()
}

// packGLB wraps a JSON document and binary chunk in the GLB container.
func packGLB(t *testing.T, doc string, bin []byte) []byte {
	t.Helper()

	if pad := len(doc) % 4; pad != 0 {
		doc += strings.Repeat(" ", 4-pad)
	}

	var glb bytes.Buffer
	glb.WriteString("glTF")
	binary.Write(&glb, binary.LittleEndian, uint32(2))
	binary.Write(&glb, binary.LittleEndian, uint32(12+8+len(doc)+8+len(bin)))
	binary.Write(&glb, binary.LittleEndian, uint32(len(doc)))
	glb.WriteString("JSON")
	glb.WriteString(doc)
	binary.Write(&glb, binary.LittleEndian, uint32(len(bin)))
	glb.Write([]byte{'B', 'I', 'N', 0})
	glb.Write(bin)
	return glb.Bytes()
}

// buildTriangleGLB assembles a minimal binary glTF: one indexed triangle
// with positions (0,0,0) (1,0,0) (0,1,0).
func buildTriangleGLB(t *testing.T) []byte {
	t.Helper()

	bin := triangleBin(t)
	doc := fmt.Sprintf(`{"asset":{"version":"2.0"},`+
		`"buffers":[{"byteLength":%d}],`+
		`"bufferViews":[{"buffer":0,"byteOffset":0,"byteLength":36},{"buffer":0,"byteOffset":36,"byteLength":6}],`+
		`"accessors":[{"bufferView":0,"componentType":5126,"count":3,"type":"VEC3","min":[0,0,0],"max":[1,1,0]},`+
		`{"bufferView":1,"componentType":5123,"count":3,"type":"SCALAR"}],`+
		`"meshes":[{"primitives":[{"attributes":{"POSITION":0},"indices":1}]}]}`, len(bin))
	return packGLB(t, doc, bin)
}

func TestDecodeGLB(t *testing.T) {
	data := buildTriangleGLB(t)

	mesh, tex, err := DecodeGLB(bytes.NewReader(data), "triangle.glb")
	if err != nil {
		t.Fatalf("DecodeGLB: %v", err)
	}

	if tex != nil {
		t.Error("expected no embedded texture")
	}
	if mesh.VertexCount() != 3 {
		t.Fatalf("vertices = %d, want 3", mesh.VertexCount())
	}
	if mesh.TriangleCount() != 1 {
		t.Fatalf("triangles = %d, want 1", mesh.TriangleCount())
	}

	// Winding is reversed on import.
	if mesh.Face(0) != [3]int{0, 2, 1} {
		t.Errorf("face = %v, want [0 2 1]", mesh.Face(0))
	}

	if mesh.BoundsMin != math3d.Zero3() || mesh.BoundsMax != math3d.V3(1, 1, 0) {
		t.Errorf("bounds = [%v, %v]", mesh.BoundsMin, mesh.BoundsMax)
	}

	// No NORMAL attribute: smooth normals are generated.
	for i := 0; i < mesh.VertexCount(); i++ {
		_, n, _ := mesh.Vertex(i)
		if l := n.Len(); l < 0.999 || l > 1.001 {
			t.Errorf("vertex %d normal length = %v, want 1", i, l)
		}
	}
}

// An image whose buffer view claims far more bytes than the buffer holds
// must not take the loader down; the mesh still decodes, just untextured.
func TestDecodeGLBImageViewBeyondBuffer(t *testing.T) {
	bin := triangleBin(t)
	doc := fmt.Sprintf(`{"asset":{"version":"2.0"},`+
		`"buffers":[{"byteLength":%d}],`+
		`"bufferViews":[{"buffer":0,"byteOffset":0,"byteLength":36},{"buffer":0,"byteOffset":36,"byteLength":6},`+
		`{"buffer":0,"byteOffset":0,"byteLength":99999}],`+
		`"accessors":[{"bufferView":0,"componentType":5126,"count":3,"type":"VEC3","min":[0,0,0],"max":[1,1,0]},`+
		`{"bufferView":1,"componentType":5123,"count":3,"type":"SCALAR"}],`+
		`"images":[{"bufferView":2,"mimeType":"image/png"}],`+
		`"meshes":[{"primitives":[{"attributes":{"POSITION":0},"indices":1}]}]}`, len(bin))

	mesh, tex, err := DecodeGLB(bytes.NewReader(packGLB(t, doc, bin)), "badimage.glb")
	if err != nil {
		t.Fatalf("DecodeGLB: %v", err)
	}
	if tex != nil {
		t.Error("expected the malformed image to be skipped")
	}
	if mesh.VertexCount() != 3 {
		t.Errorf("vertices = %d, want 3", mesh.VertexCount())
	}
}

// A zero-count accessor with an explicit byte stride used to compute a
// negative byte range; it must decode to an empty mesh instead.
func TestDecodeGLBZeroCountAccessor(t *testing.T) {
	bin := triangleBin(t)
	doc := fmt.Sprintf(`{"asset":{"version":"2.0"},`+
		`"buffers":[{"byteLength":%d}],`+
		`"bufferViews":[{"buffer":0,"byteOffset":0,"byteLength":36,"byteStride":16}],`+
		`"accessors":[{"bufferView":0,"componentType":5126,"count":0,"type":"VEC3"}],`+
		`"meshes":[{"primitives":[{"attributes":{"POSITION":0}}]}]}`, len(bin))

	mesh, _, err := DecodeGLB(bytes.NewReader(packGLB(t, doc, bin)), "empty-accessor.glb")
	if err != nil {
		t.Fatalf("DecodeGLB: %v", err)
	}
	if mesh.VertexCount() != 0 || mesh.TriangleCount() != 0 {
		t.Errorf("mesh = %d vertices, %d triangles, want empty",
			mesh.VertexCount(), mesh.TriangleCount())
	}
}

func TestDecodeGLBGarbage(t *testing.T) {
	_, _, err := DecodeGLB(bytes.NewReader([]byte("not a gltf document")), "bad.glb")
	if err == nil {
		t.Error("expected error decoding garbage")
	}
}

func TestDecodeGLBEmpty(t *testing.T) {
	_, _, err := DecodeGLB(bytes.NewReader(nil), "empty.glb")
	if err == nil {
		t.Error("expected error decoding empty input")
	}
}
