package dispatch_test

import (
	"errors"
	"testing"

	"freqshift/internal/container"
	"freqshift/internal/dispatch"
)

func TestEveryKnownKindHasARoute(t *testing.T) {
	for _, kind := range container.Kinds() {
		routes := dispatch.RoutesFor(kind)
		if kind == container.Unknown {
			if len(routes) != 0 {
				t.Fatalf("unknown kind should have no routes, got %v", routes)
			}
			continue
		}
		if len(routes) == 0 {
			t.Fatalf("kind %s has no route", kind)
		}
	}
}

func TestRoutesServeExactlyOneHandler(t *testing.T) {
	for _, r := range dispatch.Routes() {
		if (r.Strategy == "") == (r.Delegate == "") {
			t.Fatalf("route %s/%s must have exactly one of strategy or delegate", r.Kind, r.Output)
		}
		if r.DefaultExt == "" {
			t.Fatalf("route %s/%s has no default extension", r.Kind, r.Output)
		}
		found := false
		for _, ext := range r.Extensions() {
			if ext == r.DefaultExt {
				found = true
			}
		}
		if !found {
			t.Fatalf("route %s/%s does not allow its own default .%s", r.Kind, r.Output, r.DefaultExt)
		}
	}
}

func TestLookup(t *testing.T) {
	cases := []struct {
		name    string
		kind    container.Kind
		output  dispatch.OutputKind
		ext     string
		handler string
		wantExt string
		wantErr bool
	}{
		{name: "av default", kind: container.GenericAudioVideo, handler: "ffmpeg", wantExt: "mp4"},
		{name: "av flac", kind: container.GenericAudioVideo, output: dispatch.OutputTranscode, ext: ".FLAC", handler: "ffmpeg", wantExt: "flac"},
		{name: "av disallowed", kind: container.GenericAudioVideo, ext: "avi", wantErr: true},
		{name: "streamed default", kind: container.StreamedAudio, handler: "vgmstream", wantExt: "wav"},
		{name: "streamed mp3", kind: container.StreamedAudio, ext: "mp3", wantErr: true},
		{name: "texture default raw", kind: container.EmbeddedTexture, handler: "passthrough", wantExt: "dds"},
		{name: "texture image jpeg alias", kind: container.EmbeddedTexture, output: dispatch.OutputImage, ext: "jpeg", handler: "image-reencode", wantExt: "jpg"},
		{name: "texture text", kind: container.EmbeddedTexture, output: dispatch.OutputText, wantErr: true},
		{name: "script text", kind: container.ScriptText, handler: "text", wantExt: "txt"},
		{name: "charmap image", kind: container.CharacterMapText, output: dispatch.OutputImage, wantErr: true},
		{name: "binder metadata", kind: container.ResourceBinder, output: dispatch.OutputMetadata, handler: "isolation", wantExt: "txt"},
		{name: "binder image tif", kind: container.ResourceBinder, output: dispatch.OutputImage, ext: "tif", handler: "isolation", wantExt: "tiff"},
		{name: "padded default", kind: container.PaddedAudioContainer, handler: "synthetic-audio", wantExt: "wav"},
		{name: "padded transcode", kind: container.PaddedAudioContainer, output: dispatch.OutputTranscode, wantErr: true},
		{name: "unknown", kind: container.Unknown, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := dispatch.Lookup(tc.kind, tc.output, tc.ext)
			if tc.wantErr {
				if !errors.Is(err, dispatch.ErrUnsupportedConversion) {
					t.Fatalf("expected ErrUnsupportedConversion, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup returned error: %v", err)
			}
			if plan.Handler() != tc.handler || plan.Ext != tc.wantExt {
				t.Fatalf("plan = %s .%s, want %s .%s", plan.Handler(), plan.Ext, tc.handler, tc.wantExt)
			}
		})
	}
}

func TestParseOutputKind(t *testing.T) {
	if kind, err := dispatch.ParseOutputKind(" Synthetic-Audio "); err != nil || kind != dispatch.OutputSyntheticAudio {
		t.Fatalf("ParseOutputKind = %q, %v", kind, err)
	}
	if kind, err := dispatch.ParseOutputKind(""); err != nil || kind != "" {
		t.Fatalf("empty output kind should be the default, got %q, %v", kind, err)
	}
	if _, err := dispatch.ParseOutputKind("video"); err == nil {
		t.Fatal("expected error for unknown output kind")
	}
}

func TestRoutesReturnsCopy(t *testing.T) {
	routes := dispatch.Routes()
	routes[0].Allowed[0] = "exe"
	if dispatch.Routes()[0].Allowed[0] == "exe" {
		t.Fatal("Routes must not expose the table")
	}
}
