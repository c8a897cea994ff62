package extract

import (
	"bytes"
	"context"

	"freqshift/internal/artifact"
	"freqshift/internal/container"
	"freqshift/internal/services"
)

// Passthrough writes buf unchanged to base.<rawExt>. The buffer must start
// with the DDS magic.
func (e *Extractor) Passthrough(ctx context.Context, buf []byte, target artifact.Target, opts Options) (Result, error) {
	var res Result
	if !bytes.HasPrefix(buf, []byte(container.DDSMagic)) {
		return res, services.Wrap(ErrSignatureMismatch, string(StrategyPassthrough), "verify", "input does not start with DDS magic", nil)
	}
	if err := e.write(ctx, &res, target.Path("", rawExt(opts)), buf, artifact.KindRaw); err != nil {
		return res, err
	}
	return res, nil
}

// ImageReencode materializes the raw texture and re-encodes it through the
// image codec. A codec failure is returned with the raw artifact still listed.
func (e *Extractor) ImageReencode(ctx context.Context, buf []byte, target artifact.Target, opts Options) (Result, error) {
	res, err := e.Passthrough(ctx, buf, target, Options{RawExt: "dds"})
	if err != nil {
		return res, err
	}
	format := e.format(opts)
	img, _, err := e.codec.Decode(buf)
	if err != nil {
		return res, services.Wrap(ErrCodec, string(StrategyImageReencode), "decode", "embedded texture", err)
	}
	encoded, err := e.codec.Encode(img, format)
	if err != nil {
		return res, services.Wrap(ErrCodec, string(StrategyImageReencode), "encode", format, err)
	}
	if err := e.write(ctx, &res, target.Path("", format), encoded, artifact.KindImage); err != nil {
		return res, err
	}
	return res, nil
}
