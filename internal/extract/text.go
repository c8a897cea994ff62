package extract

import (
	"context"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"freqshift/internal/artifact"
	"freqshift/internal/services"
)

// ReemitText decodes buf as UTF-8, replacing invalid sequences with U+FFFD,
// and writes the result to base.txt. Any replacement adds an
// ErrDecodeFallback warning.
func (e *Extractor) ReemitText(ctx context.Context, buf []byte, target artifact.Target) (Result, error) {
	var res Result
	decoded, err := unicode.UTF8.NewDecoder().Bytes(buf)
	if err != nil {
		return res, services.Wrap(services.ErrIO, string(StrategyText), "decode", "utf-8", err)
	}
	if !utf8.Valid(buf) {
		e.warn(ctx, &res, "text_decode_fallback", "invalid bytes replaced with U+FFFD",
			services.Wrap(ErrDecodeFallback, string(StrategyText), "decode", "input is not valid utf-8", nil))
	}
	if err := e.write(ctx, &res, target.Path("", "txt"), decoded, artifact.KindText); err != nil {
		return res, err
	}
	return res, nil
}
