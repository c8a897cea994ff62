package imagecodec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math/bits"
)

const (
	ddsMagic      = "DDS "
	ddsHeaderSize = 128

	ddpfAlphaPixels = 0x1
	ddpfFourCC      = 0x4
	ddpfRGB         = 0x40
	ddpfLuminance   = 0x20000

	ddsdPitch = 0x8

	// Guards against absurd dimensions in corrupt headers.
	maxDDSDimension = 1 << 14
)

// ErrUnsupportedDDS reports a DDS layout this decoder does not handle.
var ErrUnsupportedDDS = errors.New("unsupported dds layout")

func init() {
	image.RegisterFormat("dds", ddsMagic, DecodeDDS, DecodeDDSConfig)
}

type ddsHeader struct {
	flags    uint32
	height   int
	width    int
	pitch    int
	pfFlags  uint32
	fourCC   string
	bitCount int
	masks    [4]uint32 // r, g, b, a
}

func readDDSHeader(r io.Reader) (ddsHeader, error) {
	var raw [ddsHeaderSize]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return ddsHeader{}, fmt.Errorf("dds header: %w", err)
	}
	if string(raw[:4]) != ddsMagic {
		return ddsHeader{}, errors.New("dds header: missing magic")
	}
	le := binary.LittleEndian
	if size := le.Uint32(raw[4:8]); size != 124 {
		return ddsHeader{}, fmt.Errorf("dds header: unexpected size %d", size)
	}
	h := ddsHeader{
		flags:    le.Uint32(raw[8:12]),
		height:   int(le.Uint32(raw[12:16])),
		width:    int(le.Uint32(raw[16:20])),
		pitch:    int(le.Uint32(raw[20:24])),
		pfFlags:  le.Uint32(raw[80:84]),
		fourCC:   string(raw[84:88]),
		bitCount: int(le.Uint32(raw[88:92])),
		masks: [4]uint32{
			le.Uint32(raw[92:96]),
			le.Uint32(raw[96:100]),
			le.Uint32(raw[100:104]),
			le.Uint32(raw[104:108]),
		},
	}
	if h.width <= 0 || h.height <= 0 || h.width > maxDDSDimension || h.height > maxDDSDimension {
		return ddsHeader{}, fmt.Errorf("dds header: invalid dimensions %dx%d", h.width, h.height)
	}
	return h, nil
}

// DecodeDDSConfig returns the dimensions of a DDS image.
func DecodeDDSConfig(r io.Reader) (image.Config, error) {
	h, err := readDDSHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.NRGBAModel, Width: h.width, Height: h.height}, nil
}

// DecodeDDS decodes the top mip level of an uncompressed or DXT1/DXT3/DXT5
// DirectDraw Surface.
func DecodeDDS(r io.Reader) (image.Image, error) {
	h, err := readDDSHeader(r)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("dds payload: %w", err)
	}

	switch {
	case h.pfFlags&ddpfFourCC != 0:
		switch h.fourCC {
		case "DXT1":
			return decodeBlocks(h, data, 8, decodeDXT1Block)
		case "DXT3":
			return decodeBlocks(h, data, 16, decodeDXT3Block)
		case "DXT5":
			return decodeBlocks(h, data, 16, decodeDXT5Block)
		default:
			return nil, fmt.Errorf("%w: fourcc %q", ErrUnsupportedDDS, bytes.TrimRight([]byte(h.fourCC), "\x00"))
		}
	case h.pfFlags&(ddpfRGB|ddpfLuminance) != 0:
		return decodeUncompressed(h, data)
	default:
		return nil, fmt.Errorf("%w: pixel format flags %#x", ErrUnsupportedDDS, h.pfFlags)
	}
}

func decodeUncompressed(h ddsHeader, data []byte) (image.Image, error) {
	if h.bitCount%8 != 0 || h.bitCount < 8 || h.bitCount > 32 {
		return nil, fmt.Errorf("%w: %d bits per pixel", ErrUnsupportedDDS, h.bitCount)
	}
	bpp := h.bitCount / 8
	pitch := h.width * bpp
	if h.flags&ddsdPitch != 0 && h.pitch >= pitch {
		pitch = h.pitch
	}
	if len(data) < pitch*(h.height-1)+h.width*bpp {
		return nil, fmt.Errorf("dds payload: truncated, have %d bytes", len(data))
	}

	masks := h.masks
	if h.pfFlags&ddpfLuminance != 0 {
		masks[1], masks[2] = masks[0], masks[0]
	}
	hasAlpha := h.pfFlags&ddpfAlphaPixels != 0 && masks[3] != 0

	img := image.NewNRGBA(image.Rect(0, 0, h.width, h.height))
	for y := 0; y < h.height; y++ {
		row := data[y*pitch:]
		for x := 0; x < h.width; x++ {
			var px uint32
			for i := 0; i < bpp; i++ {
				px |= uint32(row[x*bpp+i]) << (8 * i)
			}
			a := uint8(0xFF)
			if hasAlpha {
				a = scaleMask(px, masks[3])
			}
			img.SetNRGBA(x, y, color.NRGBA{
				R: scaleMask(px, masks[0]),
				G: scaleMask(px, masks[1]),
				B: scaleMask(px, masks[2]),
				A: a,
			})
		}
	}
	return img, nil
}

func scaleMask(px, mask uint32) uint8 {
	if mask == 0 {
		return 0
	}
	shift := bits.TrailingZeros32(mask)
	maxValue := mask >> shift
	value := (px & mask) >> shift
	return uint8(uint64(value) * 255 / uint64(maxValue))
}

type blockDecoder func(block []byte, out *[16]color.NRGBA)

func decodeBlocks(h ddsHeader, data []byte, blockSize int, decode blockDecoder) (image.Image, error) {
	blocksWide := (h.width + 3) / 4
	blocksHigh := (h.height + 3) / 4
	if need := blocksWide * blocksHigh * blockSize; len(data) < need {
		return nil, fmt.Errorf("dds payload: truncated, need %d bytes, have %d", need, len(data))
	}

	img := image.NewNRGBA(image.Rect(0, 0, h.width, h.height))
	var texels [16]color.NRGBA
	for by := 0; by < blocksHigh; by++ {
		for bx := 0; bx < blocksWide; bx++ {
			offset := (by*blocksWide + bx) * blockSize
			decode(data[offset:offset+blockSize], &texels)
			for i, c := range texels {
				x := bx*4 + i%4
				y := by*4 + i/4
				if x < h.width && y < h.height {
					img.SetNRGBA(x, y, c)
				}
			}
		}
	}
	return img, nil
}

func rgb565(v uint16) color.NRGBA {
	r := uint8(v>>11) & 0x1F
	g := uint8(v>>5) & 0x3F
	b := uint8(v) & 0x1F
	return color.NRGBA{
		R: r<<3 | r>>2,
		G: g<<2 | g>>4,
		B: b<<3 | b>>2,
		A: 0xFF,
	}
}

func lerp(a, b uint8, wa, wb, div int) uint8 {
	return uint8((int(a)*wa + int(b)*wb) / div)
}

func colorPalette(block []byte, allowTransparent bool) [4]color.NRGBA {
	c0 := binary.LittleEndian.Uint16(block[0:2])
	c1 := binary.LittleEndian.Uint16(block[2:4])
	p0, p1 := rgb565(c0), rgb565(c1)
	var palette [4]color.NRGBA
	palette[0], palette[1] = p0, p1
	if c0 > c1 || !allowTransparent {
		palette[2] = color.NRGBA{R: lerp(p0.R, p1.R, 2, 1, 3), G: lerp(p0.G, p1.G, 2, 1, 3), B: lerp(p0.B, p1.B, 2, 1, 3), A: 0xFF}
		palette[3] = color.NRGBA{R: lerp(p0.R, p1.R, 1, 2, 3), G: lerp(p0.G, p1.G, 1, 2, 3), B: lerp(p0.B, p1.B, 1, 2, 3), A: 0xFF}
	} else {
		palette[2] = color.NRGBA{R: lerp(p0.R, p1.R, 1, 1, 2), G: lerp(p0.G, p1.G, 1, 1, 2), B: lerp(p0.B, p1.B, 1, 1, 2), A: 0xFF}
		palette[3] = color.NRGBA{}
	}
	return palette
}

func decodeColorBlock(block []byte, allowTransparent bool, out *[16]color.NRGBA) {
	palette := colorPalette(block, allowTransparent)
	indices := binary.LittleEndian.Uint32(block[4:8])
	for i := 0; i < 16; i++ {
		out[i] = palette[(indices>>(2*i))&0x3]
	}
}

func decodeDXT1Block(block []byte, out *[16]color.NRGBA) {
	decodeColorBlock(block, true, out)
}

func decodeDXT3Block(block []byte, out *[16]color.NRGBA) {
	decodeColorBlock(block[8:16], false, out)
	alpha := binary.LittleEndian.Uint64(block[0:8])
	for i := 0; i < 16; i++ {
		a := uint8(alpha>>(4*i)) & 0x0F
		out[i].A = a<<4 | a
	}
}

func decodeDXT5Block(block []byte, out *[16]color.NRGBA) {
	decodeColorBlock(block[8:16], false, out)
	a0, a1 := block[0], block[1]
	var alphas [8]uint8
	alphas[0], alphas[1] = a0, a1
	if a0 > a1 {
		for i := 1; i < 7; i++ {
			alphas[i+1] = lerp(a0, a1, 7-i, i, 7)
		}
	} else {
		for i := 1; i < 5; i++ {
			alphas[i+1] = lerp(a0, a1, 5-i, i, 5)
		}
		alphas[6] = 0
		alphas[7] = 0xFF
	}
	var packed uint64
	for i := 0; i < 6; i++ {
		packed |= uint64(block[2+i]) << (8 * i)
	}
	for i := 0; i < 16; i++ {
		out[i].A = alphas[(packed>>(3*i))&0x7]
	}
}
