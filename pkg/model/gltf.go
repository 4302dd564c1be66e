package model

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"

	"github.com/qmuntal/gltf"

	"showroom/pkg/math3d"
)

// DecodeGLB decodes a binary glTF document from r and flattens its meshes
// into a single Mesh. The second return value is the first embedded texture
// image, or nil when the document carries none. External (URI-referenced)
// buffers and images are not supported.
func DecodeGLB(r io.Reader, name string) (*Mesh, image.Image, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, nil, fmt.Errorf("decode gltf: %w", err)
	}

	mesh := NewMesh(name)
	for _, m := range doc.Meshes {
		if err := appendPrimitives(doc, m, mesh); err != nil {
			return nil, nil, fmt.Errorf("mesh %q: %w", m.Name, err)
		}
	}

	if !mesh.hasNormals() {
		mesh.CalculateSmoothNormals()
	}
	mesh.RecalculateBounds()

	return mesh, firstEmbeddedImage(doc), nil
}

// appendPrimitives extracts the triangle primitives of one glTF mesh.
func appendPrimitives(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Lines and points are not rendered.
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals []math3d.Vec3
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = readVec3Accessor(doc, normIdx)
			if err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var uvs []math3d.Vec2
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = readVec2Accessor(doc, uvIdx)
			if err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		base := len(mesh.Vertices)
		for i := range positions {
			v := Vertex{Position: positions[i]}
			if i < len(normals) {
				v.Normal = normals[i]
			}
			if i < len(uvs) {
				// glTF puts V=0 at the top; flip for bottom-left origin.
				v.UV = math3d.V2(uvs[i].X, 1.0-uvs[i].Y)
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		// glTF front faces wind CCW; the rasterizer's screen-space Y flip
		// makes them CW, so the winding is reversed here.
		if prim.Indices != nil {
			indices, err := readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
			for i := 0; i+2 < len(indices); i += 3 {
				mesh.Triangles = append(mesh.Triangles, Triangle{
					V: [3]int{
						base + indices[i],
						base + indices[i+2],
						base + indices[i+1],
					},
				})
			}
		} else {
			for i := 0; i+2 < len(positions); i += 3 {
				mesh.Triangles = append(mesh.Triangles, Triangle{
					V: [3]int{
						base + i,
						base + i + 2,
						base + i + 1,
					},
				})
			}
		}
	}

	return nil
}

// firstEmbeddedImage decodes the first image stored in the document's
// binary buffer, if any. Images with malformed buffer views are skipped
// rather than failing the load; the mesh is still usable untextured.
func firstEmbeddedImage(doc *gltf.Document) image.Image {
	for _, img := range doc.Images {
		if img.BufferView == nil || *img.BufferView >= len(doc.BufferViews) {
			continue
		}
		bv := doc.BufferViews[*img.BufferView]
		if bv.Buffer >= len(doc.Buffers) {
			continue
		}
		buf := doc.Buffers[bv.Buffer]
		if buf.Data == nil {
			continue
		}
		end := bv.ByteOffset + bv.ByteLength
		if end > len(buf.Data) {
			continue
		}
		data := buf.Data[bv.ByteOffset:end]
		decoded, _, err := image.Decode(bytes.NewReader(data))
		if err == nil {
			return decoded
		}
	}
	return nil
}

func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}

	data, stride, err := accessorBytes(doc, accessor, 12)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec3, accessor.Count)
	for i := range accessor.Count {
		offset := i * stride
		result[i] = math3d.V3(
			float64(readFloat32(data[offset:])),
			float64(readFloat32(data[offset+4:])),
			float64(readFloat32(data[offset+8:])),
		)
	}
	return result, nil
}

func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec2, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec2 {
		return nil, fmt.Errorf("expected VEC2, got %v", accessor.Type)
	}

	data, stride, err := accessorBytes(doc, accessor, 8)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec2, accessor.Count)
	for i := range accessor.Count {
		offset := i * stride
		result[i] = math3d.V2(
			float64(readFloat32(data[offset:])),
			float64(readFloat32(data[offset+4:])),
		)
	}
	return result, nil
}

func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}

	var compSize int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		compSize = 1
	case gltf.ComponentUshort:
		compSize = 2
	case gltf.ComponentUint:
		compSize = 4
	default:
		return nil, fmt.Errorf("unsupported index component type: %v", accessor.ComponentType)
	}

	data, stride, err := accessorBytes(doc, accessor, compSize)
	if err != nil {
		return nil, err
	}

	result := make([]int, accessor.Count)
	for i := range accessor.Count {
		offset := i * stride
		switch compSize {
		case 1:
			result[i] = int(data[offset])
		case 2:
			result[i] = int(binary.LittleEndian.Uint16(data[offset:]))
		case 4:
			result[i] = int(binary.LittleEndian.Uint32(data[offset:]))
		}
	}
	return result, nil
}

// accessorBytes resolves an accessor to the raw bytes of its buffer view
// and the element stride. defaultStride is the tightly-packed element size.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, defaultStride int) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}
	if *accessor.BufferView >= len(doc.BufferViews) {
		return nil, 0, fmt.Errorf("buffer view %d out of range", *accessor.BufferView)
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	if bufferView.Buffer >= len(doc.Buffers) {
		return nil, 0, fmt.Errorf("buffer %d out of range", bufferView.Buffer)
	}
	buffer := doc.Buffers[bufferView.Buffer]

	if buffer.URI != "" {
		return nil, 0, fmt.Errorf("external buffers not supported")
	}
	if buffer.Data == nil {
		return nil, 0, fmt.Errorf("buffer has no data")
	}

	stride := bufferView.ByteStride
	if stride == 0 {
		stride = defaultStride
	}

	if accessor.Count == 0 {
		return nil, stride, nil
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	end := start + (accessor.Count-1)*stride + defaultStride
	if end > len(buffer.Data) {
		return nil, 0, fmt.Errorf("accessor range [%d, %d) exceeds buffer of %d bytes", start, end, len(buffer.Data))
	}

	return buffer.Data[start:end], stride, nil
}

func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
