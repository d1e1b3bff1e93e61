package compositor

import (
	"encoding/binary"
	"math"
)

// Wire sizes of the per-kind instance records, in bytes. These layouts are
// the external interface of the compositor: the WGSL input structs and the
// vertex-attribute descriptors below must match them field for field.
const (
	FlatVertexStride     = 6 * 4  // position vec2 + color vec4
	QuadInstanceStride   = 14 * 4 // position + size + color + border_color + radius + width
	SpriteInstanceStride = 11 * 4 // position + atlas_pos + atlas_size + origin + rotation + layer + hi_dpi
	ImageInstanceStride  = 8 * 4  // position + size + atlas_pos + atlas_size
)

// AttributeFormat is the data type of a single vertex attribute.
type AttributeFormat int

const (
	// FormatFloat32 is a single 32-bit float.
	FormatFloat32 AttributeFormat = iota
	// FormatFloat32x2 is a 2-component 32-bit float vector.
	FormatFloat32x2
	// FormatFloat32x4 is a 4-component 32-bit float vector.
	FormatFloat32x4
	// FormatUint32 is a single 32-bit unsigned integer.
	FormatUint32
)

// VertexAttribute describes one field of an instance record for pipeline
// vertex-state construction.
type VertexAttribute struct {
	// ShaderLocation is the attribute's location in the shader input.
	ShaderLocation uint32
	// Format is the attribute data type.
	Format AttributeFormat
	// Offset is the byte offset within the record.
	Offset uint32
}

// FlatVertexLayout describes the flat-pass per-vertex layout.
// Location 0 is reserved for the shared unit-quad corner in instanced passes;
// the flat pass consumes its data per vertex instead.
func FlatVertexLayout() []VertexAttribute {
	return []VertexAttribute{
		{ShaderLocation: 0, Format: FormatFloat32x2, Offset: 0},  // position
		{ShaderLocation: 1, Format: FormatFloat32x4, Offset: 8},  // color
	}
}

// QuadInstanceLayout describes the styled-quad per-instance layout.
func QuadInstanceLayout() []VertexAttribute {
	return []VertexAttribute{
		{ShaderLocation: 1, Format: FormatFloat32x2, Offset: 0},  // position
		{ShaderLocation: 2, Format: FormatFloat32x2, Offset: 8},  // size
		{ShaderLocation: 3, Format: FormatFloat32x4, Offset: 16}, // color
		{ShaderLocation: 4, Format: FormatFloat32x4, Offset: 32}, // border_color
		{ShaderLocation: 5, Format: FormatFloat32, Offset: 48},   // border_radius
		{ShaderLocation: 6, Format: FormatFloat32, Offset: 52},   // border_width
	}
}

// SpriteInstanceLayout describes the sprite per-instance layout.
func SpriteInstanceLayout() []VertexAttribute {
	return []VertexAttribute{
		{ShaderLocation: 1, Format: FormatFloat32x2, Offset: 0},  // position
		{ShaderLocation: 2, Format: FormatFloat32x2, Offset: 8},  // atlas_position
		{ShaderLocation: 3, Format: FormatFloat32x2, Offset: 16}, // atlas_size
		{ShaderLocation: 4, Format: FormatFloat32x2, Offset: 24}, // rotate_origin
		{ShaderLocation: 5, Format: FormatFloat32, Offset: 32},   // rotation
		{ShaderLocation: 6, Format: FormatUint32, Offset: 36},    // atlas_layer
		{ShaderLocation: 7, Format: FormatUint32, Offset: 40},    // hi_dpi
	}
}

// ImageInstanceLayout describes the image-blit per-instance layout.
func ImageInstanceLayout() []VertexAttribute {
	return []VertexAttribute{
		{ShaderLocation: 1, Format: FormatFloat32x2, Offset: 0},  // position
		{ShaderLocation: 2, Format: FormatFloat32x2, Offset: 8},  // size
		{ShaderLocation: 3, Format: FormatFloat32x2, Offset: 16}, // atlas_position
		{ShaderLocation: 4, Format: FormatFloat32x2, Offset: 24}, // atlas_size
	}
}

func putF32(dst []byte, v float32) {
	binary.LittleEndian.PutUint32(dst, math.Float32bits(v))
}

// AppendFlatVertex appends the wire encoding of a flat vertex.
func AppendFlatVertex(dst []byte, v FlatVertex) []byte {
	var buf [FlatVertexStride]byte
	putF32(buf[0:], v.Position.X)
	putF32(buf[4:], v.Position.Y)
	putF32(buf[8:], v.Color.R)
	putF32(buf[12:], v.Color.G)
	putF32(buf[16:], v.Color.B)
	putF32(buf[20:], v.Color.A)
	return append(dst, buf[:]...)
}

// AppendQuadInstance appends the wire encoding of a styled quad instance.
func AppendQuadInstance(dst []byte, q QuadInstance) []byte {
	var buf [QuadInstanceStride]byte
	putF32(buf[0:], q.Position.X)
	putF32(buf[4:], q.Position.Y)
	putF32(buf[8:], q.Size.W)
	putF32(buf[12:], q.Size.H)
	putF32(buf[16:], q.Color.R)
	putF32(buf[20:], q.Color.G)
	putF32(buf[24:], q.Color.B)
	putF32(buf[28:], q.Color.A)
	putF32(buf[32:], q.BorderColor.R)
	putF32(buf[36:], q.BorderColor.G)
	putF32(buf[40:], q.BorderColor.B)
	putF32(buf[44:], q.BorderColor.A)
	putF32(buf[48:], q.BorderRadius)
	putF32(buf[52:], q.BorderWidth)
	return append(dst, buf[:]...)
}

// AppendSpriteInstance appends the wire encoding of a sprite instance.
func AppendSpriteInstance(dst []byte, s SpriteInstance) []byte {
	var buf [SpriteInstanceStride]byte
	putF32(buf[0:], s.Position.X)
	putF32(buf[4:], s.Position.Y)
	putF32(buf[8:], s.AtlasPosition.X)
	putF32(buf[12:], s.AtlasPosition.Y)
	putF32(buf[16:], s.AtlasSize.W)
	putF32(buf[20:], s.AtlasSize.H)
	putF32(buf[24:], s.RotateOrigin.X)
	putF32(buf[28:], s.RotateOrigin.Y)
	putF32(buf[32:], s.Rotation)
	binary.LittleEndian.PutUint32(buf[36:], s.AtlasLayer)
	var hiDPI uint32
	if s.HiDPI {
		hiDPI = 1
	}
	binary.LittleEndian.PutUint32(buf[40:], hiDPI)
	return append(dst, buf[:]...)
}

// AppendImageInstance appends the wire encoding of an image blit instance.
func AppendImageInstance(dst []byte, im ImageInstance) []byte {
	var buf [ImageInstanceStride]byte
	putF32(buf[0:], im.Position.X)
	putF32(buf[4:], im.Position.Y)
	putF32(buf[8:], im.Size.W)
	putF32(buf[12:], im.Size.H)
	putF32(buf[16:], im.AtlasPosition.X)
	putF32(buf[20:], im.AtlasPosition.Y)
	putF32(buf[24:], im.AtlasSize.W)
	putF32(buf[28:], im.AtlasSize.H)
	return append(dst, buf[:]...)
}

// AppendMat4 appends the column-major matrix uniform encoding.
func AppendMat4(dst []byte, m Mat4) []byte {
	var buf [64]byte
	for i, v := range m {
		putF32(buf[i*4:], v)
	}
	return append(dst, buf[:]...)
}
