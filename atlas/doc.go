// Package atlas manages the layered sprite texture atlas.
//
// Textures are packed into fixed-size square layers (2048x2048 by
// default) using shelf packing. Sources that fit inside one layer get a
// contiguous entry; larger sources are split into fragments spread over
// one or more layers. Each fragment composites as its own sprite, so
// fragmentation is invisible to the host beyond the entry shape.
//
// The atlas keeps a CPU-side pixel store per layer. The software backend
// samples it directly; the GPU backend uploads dirty layers to a texture
// array before the sprite pass.
package atlas
