package testsupport

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// DDS builds an uncompressed 32-bit BGRA DirectDraw Surface filled with c.
func DDS(width, height int, c color.NRGBA) []byte {
	header := make([]byte, 128)
	copy(header, "DDS ")
	le := binary.LittleEndian
	le.PutUint32(header[4:], 124)
	le.PutUint32(header[8:], 0x1|0x2|0x4|0x8|0x1000) // caps, height, width, pitch, pixelformat
	le.PutUint32(header[12:], uint32(height))
	le.PutUint32(header[16:], uint32(width))
	le.PutUint32(header[20:], uint32(width*4))
	le.PutUint32(header[76:], 32)
	le.PutUint32(header[80:], 0x40|0x1) // rgb + alpha
	le.PutUint32(header[88:], 32)
	le.PutUint32(header[92:], 0x00FF0000)
	le.PutUint32(header[96:], 0x0000FF00)
	le.PutUint32(header[100:], 0x000000FF)
	le.PutUint32(header[104:], 0xFF000000)
	le.PutUint32(header[108:], 0x1000)

	pixels := make([]byte, 0, width*height*4)
	for i := 0; i < width*height; i++ {
		pixels = append(pixels, c.B, c.G, c.R, c.A)
	}
	return append(header, pixels...)
}

// PNG encodes a width x height image filled with c.
func PNG(t testing.TB, width, height int, c color.NRGBA) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png fixture: %v", err)
	}
	return buf.Bytes()
}
