package extract

import (
	"bytes"
	"context"
	"fmt"

	"freqshift/internal/artifact"
	"freqshift/internal/services"
)

// embeddedSignature recognizes a sub-resource inside an opaque binder.
type embeddedSignature struct {
	Label string
	Magic []byte
	Ext   string
	// Image candidates are handed to the codec; fonts are only isolated.
	Image bool
}

var embeddedSignatures = []embeddedSignature{
	{Label: "dds", Magic: []byte("DDS "), Ext: "dds", Image: true},
	{Label: "png", Magic: []byte("\x89PNG\r\n\x1a\n"), Ext: "png", Image: true},
	{Label: "tiff_le", Magic: []byte("II*\x00"), Ext: "tiff", Image: true},
	{Label: "tiff_be", Magic: []byte("MM\x00*"), Ext: "tiff", Image: true},
	{Label: "bmp", Magic: []byte("BM"), Ext: "bmp", Image: true},
	{Label: "otf", Magic: []byte("OTTO"), Ext: "otf"},
	{Label: "ttc", Magic: []byte("ttcf"), Ext: "ttc"},
}

// Candidate is one embedded signature located in a buffer.
type Candidate struct {
	Label  string
	Ext    string
	Offset int
	Image  bool
}

// FindCandidates returns the first occurrence of every known embedded
// signature in buf, in signature order.
func FindCandidates(buf []byte) []Candidate {
	var out []Candidate
	for _, sig := range embeddedSignatures {
		idx := bytes.Index(buf, sig.Magic)
		if idx < 0 {
			continue
		}
		out = append(out, Candidate{Label: sig.Label, Ext: sig.Ext, Offset: idx, Image: sig.Image})
	}
	return out
}

// Isolate slices every embedded candidate from its signature to the end of
// buf, decodes image candidates, and always writes a strings report.
// Undecodable candidates become warnings wrapping ErrCodec.
func (e *Extractor) Isolate(ctx context.Context, buf []byte, target artifact.Target, opts Options) (Result, error) {
	var res Result
	format := e.format(opts)
	stage := string(StrategyIsolation)

	for _, cand := range FindCandidates(buf) {
		slice := buf[cand.Offset:]
		suffix := "_" + cand.Label
		if err := e.write(ctx, &res, target.Path(suffix, cand.Ext), slice, artifact.KindCandidate); err != nil {
			return res, err
		}
		if !cand.Image {
			continue
		}
		img, _, err := e.codec.Decode(slice)
		if err != nil {
			e.warn(ctx, &res, "candidate_decode_failed", "candidate kept raw",
				services.Wrap(ErrCodec, stage, "decode", fmt.Sprintf("%s candidate at offset %d", cand.Label, cand.Offset), err))
			continue
		}
		encoded, err := e.codec.Encode(img, format)
		if err != nil {
			e.warn(ctx, &res, "candidate_encode_failed", "candidate kept raw",
				services.Wrap(ErrCodec, stage, "encode", fmt.Sprintf("%s candidate as %s", cand.Label, format), err))
			continue
		}
		if err := e.write(ctx, &res, target.Path(suffix+"_decoded", format), encoded, artifact.KindImage); err != nil {
			return res, err
		}
	}

	var report bytes.Buffer
	for _, run := range HarvestStrings(buf, e.minRun) {
		report.Write(run)
		report.WriteByte('\n')
	}
	if err := e.write(ctx, &res, target.Path("_strings", "txt"), report.Bytes(), artifact.KindMetadata); err != nil {
		return res, err
	}
	return res, nil
}

// HarvestStrings returns every maximal run of printable ASCII (32..126) at
// least minRun bytes long, in buffer order. The runs alias buf.
func HarvestStrings(buf []byte, minRun int) [][]byte {
	if minRun < 1 {
		minRun = DefaultMinStringRun
	}
	var runs [][]byte
	start := -1
	for i, b := range buf {
		if b >= 32 && b <= 126 {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 && i-start >= minRun {
			runs = append(runs, buf[start:i:i])
		}
		start = -1
	}
	if start >= 0 && len(buf)-start >= minRun {
		runs = append(runs, buf[start:len(buf):len(buf)])
	}
	return runs
}
