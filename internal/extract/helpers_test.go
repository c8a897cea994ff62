package extract_test

import (
	"freqshift/internal/extract"
	"freqshift/internal/imagecodec"
)

func imageCodec() extract.ImageCodec { return imagecodec.New() }
