package preflight

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"freqshift/internal/imagecodec"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckImageCodecs round-trips a one-pixel image through every encode format.
func CheckImageCodecs(codec *imagecodec.Codec) Result {
	const name = "Image codecs"
	if codec == nil {
		codec = imagecodec.New()
	}
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 0xFF, A: 0xFF})

	var failed []string
	for _, format := range imagecodec.EncodeFormats() {
		encoded, err := codec.Encode(img, format)
		if err == nil {
			_, _, err = codec.Decode(encoded)
		}
		if err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", format, err))
		}
	}
	if len(failed) > 0 {
		return Result{Name: name, Detail: strings.Join(failed, "; ")}
	}
	return Result{Name: name, Passed: true, Detail: strings.Join(imagecodec.EncodeFormats(), ", ")}
}
