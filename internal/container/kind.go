package container

import (
	"fmt"
	"strings"
)

// Kind is the classified family a file belongs to.
type Kind int

const (
	Unknown Kind = iota
	GenericAudioVideo
	StreamedAudio
	EmbeddedTexture
	TextureStreamInfo
	ScriptText
	CharacterMapText
	ResourceBinder
	PaddedAudioContainer
)

var kindNames = [...]string{
	Unknown:              "unknown",
	GenericAudioVideo:    "generic-audio-video",
	StreamedAudio:        "streamed-audio",
	EmbeddedTexture:      "embedded-texture",
	TextureStreamInfo:    "texture-stream-info",
	ScriptText:           "script-text",
	CharacterMapText:     "character-map-text",
	ResourceBinder:       "resource-binder",
	PaddedAudioContainer: "padded-audio-container",
}

// Kinds lists every classification in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindNames))
	for i := range kindNames {
		out = append(out, Kind(i))
	}
	return out
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// MarshalText renders the kind using its stable name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a stable kind name.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind resolves a kind from its stable name. Underscores and case are ignored.
func ParseKind(value string) (Kind, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), "_", "-")
	for i, name := range kindNames {
		if name == normalized {
			return Kind(i), nil
		}
	}
	return Unknown, fmt.Errorf("unknown container kind %q", value)
}

// Delegated reports whether the kind is transcoded by an external tool rather
// than extracted in-process.
func (k Kind) Delegated() bool {
	return k == GenericAudioVideo || k == StreamedAudio
}
