package dispatch

import (
	"fmt"
	"slices"
	"strings"

	"freqshift/internal/container"
	"freqshift/internal/extract"
	"freqshift/internal/imagecodec"
)

// ErrUnsupportedConversion is returned for requests the route table rejects.
var ErrUnsupportedConversion = extract.ErrUnsupportedConversion

// OutputKind is the family of output a caller asks for.
type OutputKind string

const (
	OutputRaw            OutputKind = "raw"
	OutputImage          OutputKind = "image"
	OutputText           OutputKind = "text"
	OutputMetadata       OutputKind = "metadata"
	OutputSyntheticAudio OutputKind = "synthetic-audio"
	OutputTranscode      OutputKind = "transcode"
)

// OutputKinds lists every output kind.
func OutputKinds() []OutputKind {
	return []OutputKind{OutputRaw, OutputImage, OutputText, OutputMetadata, OutputSyntheticAudio, OutputTranscode}
}

// ParseOutputKind resolves a case-insensitive output kind name. The empty
// string is valid and means "default for the kind".
func ParseOutputKind(value string) (OutputKind, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "", nil
	}
	for _, kind := range OutputKinds() {
		if string(kind) == value {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown output kind %q", value)
}

// Delegate names an external tool.
type Delegate string

const (
	DelegateFFmpeg    Delegate = "ffmpeg"
	DelegateVGMStream Delegate = "vgmstream"
)

// Route is one row of the dispatch table. Exactly one of Strategy and
// Delegate is set.
type Route struct {
	Kind       container.Kind
	Output     OutputKind
	Strategy   extract.Strategy
	Delegate   Delegate
	DefaultExt string
	// Allowed lists accepted output extensions. Empty means only DefaultExt.
	Allowed []string
}

// Handler names the strategy or delegate serving the route.
func (r Route) Handler() string {
	if r.Delegate != "" {
		return string(r.Delegate)
	}
	return string(r.Strategy)
}

// Extensions returns the accepted output extensions.
func (r Route) Extensions() []string {
	if len(r.Allowed) == 0 {
		return []string{r.DefaultExt}
	}
	return slices.Clone(r.Allowed)
}

func (r Route) allows(ext string) bool {
	return slices.Contains(r.Extensions(), ext)
}

var imageExtensions = []string{"png", "jpg", "gif", "bmp", "tiff"}

// routes is ordered; the first row for a kind is its default output.
var routes = []Route{
	{Kind: container.GenericAudioVideo, Output: OutputTranscode, Delegate: DelegateFFmpeg, DefaultExt: "mp4",
		Allowed: []string{"mp3", "mp4", "wav", "ogg", "mkv", "flac", "mov", "webm", "gif"}},
	{Kind: container.StreamedAudio, Output: OutputTranscode, Delegate: DelegateVGMStream, DefaultExt: "wav"},
	{Kind: container.EmbeddedTexture, Output: OutputRaw, Strategy: extract.StrategyPassthrough, DefaultExt: "dds"},
	{Kind: container.EmbeddedTexture, Output: OutputImage, Strategy: extract.StrategyImageReencode, DefaultExt: "png", Allowed: imageExtensions},
	{Kind: container.TextureStreamInfo, Output: OutputText, Strategy: extract.StrategyText, DefaultExt: "txt"},
	{Kind: container.ScriptText, Output: OutputText, Strategy: extract.StrategyText, DefaultExt: "txt"},
	{Kind: container.CharacterMapText, Output: OutputText, Strategy: extract.StrategyText, DefaultExt: "txt"},
	{Kind: container.ResourceBinder, Output: OutputRaw, Strategy: extract.StrategyIsolation, DefaultExt: "bin"},
	{Kind: container.ResourceBinder, Output: OutputMetadata, Strategy: extract.StrategyIsolation, DefaultExt: "txt"},
	{Kind: container.ResourceBinder, Output: OutputImage, Strategy: extract.StrategyIsolation, DefaultExt: "png", Allowed: imageExtensions},
	{Kind: container.PaddedAudioContainer, Output: OutputSyntheticAudio, Strategy: extract.StrategySyntheticAudio, DefaultExt: "wav"},
}

// Routes returns a copy of the dispatch table.
func Routes() []Route {
	out := make([]Route, len(routes))
	for i, r := range routes {
		r.Allowed = slices.Clone(r.Allowed)
		out[i] = r
	}
	return out
}

// RoutesFor returns the rows serving kind, default first.
func RoutesFor(kind container.Kind) []Route {
	var out []Route
	for _, r := range Routes() {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// Plan is a validated route plus the resolved output extension.
type Plan struct {
	Route
	Ext string
}

// Lookup validates (kind, output, ext). An empty output selects the kind's
// default route and an empty ext selects the route's default extension.
func Lookup(kind container.Kind, output OutputKind, ext string) (Plan, error) {
	candidates := RoutesFor(kind)
	if len(candidates) == 0 {
		return Plan{}, fmt.Errorf("%w: no route for %s", ErrUnsupportedConversion, kind)
	}
	route := candidates[0]
	if output != "" {
		idx := slices.IndexFunc(candidates, func(r Route) bool { return r.Output == output })
		if idx < 0 {
			return Plan{}, fmt.Errorf("%w: %s cannot produce %s output", ErrUnsupportedConversion, kind, output)
		}
		route = candidates[idx]
	}
	ext = container.NormalizeExtension(ext)
	if route.Output == OutputImage {
		ext = imagecodec.NormalizeFormat(ext)
	}
	if ext == "" {
		ext = route.DefaultExt
	}
	if !route.allows(ext) {
		return Plan{}, fmt.Errorf("%w: %s %s output does not support .%s (allowed: %s)",
			ErrUnsupportedConversion, kind, route.Output, ext, strings.Join(route.Extensions(), ", "))
	}
	return Plan{Route: route, Ext: ext}, nil
}
