// Package imagecodec is the general-purpose image capability used by the
// texture and binder extraction strategies.
//
// Decoding goes through image.Decode, so every registered format is accepted:
// PNG, JPEG and GIF from the standard library, BMP, TIFF and WebP from
// golang.org/x/image, and DirectDraw Surfaces (uncompressed, DXT1, DXT3, DXT5)
// from this package. Encoding supports png, jpg, gif, bmp and tiff.
package imagecodec
