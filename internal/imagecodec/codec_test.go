package imagecodec_test

import (
	"encoding/binary"
	"errors"
	"image/color"
	"testing"

	"freqshift/internal/imagecodec"
	"freqshift/internal/testsupport"
)

func TestDecodeUncompressedDDS(t *testing.T) {
	want := color.NRGBA{R: 200, G: 100, B: 50, A: 255}
	codec := imagecodec.New()

	img, format, err := codec.Decode(testsupport.DDS(3, 2, want))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if format != "dds" {
		t.Fatalf("format = %q, want dds", format)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("bounds = %v", b)
	}
	got := color.NRGBAModel.Convert(img.At(2, 1)).(color.NRGBA)
	if got != want {
		t.Fatalf("pixel = %#v, want %#v", got, want)
	}
}

func TestDecodeDXT1(t *testing.T) {
	data := testsupport.DDS(4, 4, color.NRGBA{})
	header := data[:128]
	le := binary.LittleEndian
	le.PutUint32(header[80:], 0x4)
	copy(header[84:88], "DXT1")
	le.PutUint32(header[88:], 0)

	block := make([]byte, 8)
	le.PutUint16(block[0:], 0xF800) // pure red
	le.PutUint16(block[2:], 0x001F) // pure blue
	le.PutUint32(block[4:], 0)      // every texel uses color 0
	payload := append(append([]byte(nil), header...), block...)

	img, _, err := imagecodec.New().Decode(payload)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	got := color.NRGBAModel.Convert(img.At(3, 3)).(color.NRGBA)
	if got.R != 0xFF || got.G != 0 || got.B != 0 || got.A != 0xFF {
		t.Fatalf("pixel = %#v, want opaque red", got)
	}
}

func TestDecodeRejectsUnsupportedFourCC(t *testing.T) {
	data := testsupport.DDS(4, 4, color.NRGBA{})
	le := binary.LittleEndian
	le.PutUint32(data[80:], 0x4)
	copy(data[84:88], "ATI2")

	_, _, err := imagecodec.New().Decode(data)
	if !errors.Is(err, imagecodec.ErrUnsupportedDDS) {
		t.Fatalf("expected ErrUnsupportedDDS, got %v", err)
	}
}

func TestDecodeRejectsTruncatedDDS(t *testing.T) {
	data := testsupport.DDS(8, 8, color.NRGBA{A: 255})
	if _, _, err := imagecodec.New().Decode(data[:140]); err == nil {
		t.Fatal("expected error for truncated payload")
	}
	if _, _, err := imagecodec.New().Decode([]byte("DDS")); err == nil {
		t.Fatal("expected error for bare magic")
	}
	if _, _, err := imagecodec.New().Decode(nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	codec := imagecodec.New()
	src, _, err := codec.Decode(testsupport.PNG(t, 5, 4, color.NRGBA{R: 10, G: 20, B: 30, A: 255}))
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	expectFormat := map[string]string{
		"png":  "png",
		"jpg":  "jpeg",
		"gif":  "gif",
		"bmp":  "bmp",
		"tiff": "tiff",
	}
	for _, format := range imagecodec.EncodeFormats() {
		t.Run(format, func(t *testing.T) {
			encoded, err := codec.Encode(src, format)
			if err != nil {
				t.Fatalf("Encode(%s) returned error: %v", format, err)
			}
			img, detected, err := codec.Decode(encoded)
			if err != nil {
				t.Fatalf("decode %s output: %v", format, err)
			}
			if detected != expectFormat[format] {
				t.Fatalf("detected %q, want %q", detected, expectFormat[format])
			}
			if b := img.Bounds(); b.Dx() != 5 || b.Dy() != 4 {
				t.Fatalf("bounds = %v", b)
			}
		})
	}
}

func TestEncodeUnsupportedFormat(t *testing.T) {
	codec := imagecodec.New()
	img, _, err := codec.Decode(testsupport.PNG(t, 1, 1, color.NRGBA{A: 255}))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := codec.Encode(img, "dds"); !errors.Is(err, imagecodec.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := codec.Encode(nil, "png"); err == nil {
		t.Fatal("expected error for nil image")
	}
}

func TestNormalizeFormat(t *testing.T) {
	cases := map[string]string{".JPEG": "jpg", "tif": "tiff", " png ": "png"}
	for in, want := range cases {
		if got := imagecodec.NormalizeFormat(in); got != want {
			t.Fatalf("NormalizeFormat(%q) = %q, want %q", in, got, want)
		}
	}
}
