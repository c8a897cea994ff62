package extract

import (
	"bytes"
	"context"
	"encoding/binary"

	"freqshift/internal/artifact"
	"freqshift/internal/container"
	"freqshift/internal/services"
)

// Synthetic header parameters. They are placeholders and are not derived
// from the payload.
const (
	WAVHeaderSize    = 44
	wavChannels      = 2
	wavSampleRate    = 44100
	wavBitsPerSample = 16
	// Streaming placeholder for the RIFF and data chunk sizes.
	wavUnknownSize = 0xFFFFFFFF
)

// SyntheticWAVHeader returns the fixed RIFF/WAVE PCM header prepended to
// padded audio payloads.
func SyntheticWAVHeader() []byte {
	le := binary.LittleEndian
	h := make([]byte, WAVHeaderSize)
	copy(h[0:4], "RIFF")
	le.PutUint32(h[4:8], wavUnknownSize)
	copy(h[8:12], "WAVE")
	copy(h[12:16], "fmt ")
	le.PutUint32(h[16:20], 16)
	le.PutUint16(h[20:22], 1)
	le.PutUint16(h[22:24], wavChannels)
	le.PutUint32(h[24:28], wavSampleRate)
	le.PutUint32(h[28:32], wavSampleRate*wavChannels*wavBitsPerSample/8)
	le.PutUint16(h[32:34], wavChannels*wavBitsPerSample/8)
	le.PutUint16(h[34:36], wavBitsPerSample)
	copy(h[36:40], "data")
	le.PutUint32(h[40:44], wavUnknownSize)
	return h
}

// PaddedPayload locates the audio payload of a padded container: everything
// after the padding delimiter, or the whole buffer when it has no delimiter
// but starts with the Ogg magic.
func PaddedPayload(buf []byte) ([]byte, bool) {
	marker := []byte(container.PaddingMarker)
	if idx := bytes.Index(buf, marker); idx >= 0 {
		return buf[idx+len(marker):], true
	}
	if bytes.HasPrefix(buf, []byte(container.OggMagic)) {
		return buf, true
	}
	return nil, false
}

// SynthesizeAudio prepends the synthetic WAV header to the padded payload and
// writes base.wav. The output is structurally valid but not guaranteed to
// play back correctly.
func (e *Extractor) SynthesizeAudio(ctx context.Context, buf []byte, target artifact.Target) (Result, error) {
	var res Result
	payload, ok := PaddedPayload(buf)
	if !ok {
		return res, services.Wrap(ErrNoRecognizedPayload, string(StrategySyntheticAudio), "locate payload",
			"neither "+container.PaddingMarker+" delimiter nor "+container.OggMagic+" magic found", nil)
	}
	out := make([]byte, 0, WAVHeaderSize+len(payload))
	out = append(out, SyntheticWAVHeader()...)
	out = append(out, payload...)
	if err := e.write(ctx, &res, target.Path("", "wav"), out, artifact.KindSyntheticAudio); err != nil {
		return res, err
	}
	return res, nil
}
