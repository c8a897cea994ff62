package container

// Well-known markers shared with the extraction strategies.
const (
	DDSMagic      = "DDS"
	StreamInfoTag = "StreamInfo"
	OggMagic      = "OggS"
	PaddingMarker = "I_AM_PADDING"
)

// table is consulted in order. Extensions must be unique across groups and
// signatures within a group are listed by precedence.
var table = []Group{
	{
		Name:       "media",
		Extensions: []string{"mp3", "mp4", "wav", "mkv", "flac", "mov", "webm", "gif", "avi", "m4a", "aac", "wma"},
		Immediate:  GenericAudioVideo,
	},
	{
		Name:       "streamed-audio",
		Extensions: []string{"wem", "fsb", "adx", "hca", "brstm", "bfstm", "bcstm", "at9", "xwm", "xma", "nus3audio"},
		Immediate:  StreamedAudio,
	},
	{
		Name:       "ogg",
		Extensions: []string{"ogg"},
		Signatures: []Signature{
			Contains(PaddedAudioContainer, PaddingMarker),
			StartsWith(GenericAudioVideo, OggMagic),
		},
		Fallback: GenericAudioVideo,
	},
	{
		Name:       "game-metadata",
		Extensions: []string{"tex", "tpf", "bnd", "bhd", "bdt", "dat", "bin", "res", "meta"},
		Signatures: []Signature{
			StartsWith(EmbeddedTexture, DDSMagic),
			StartsWith(TextureStreamInfo, StreamInfoTag),
			Contains(ScriptText, "function"),
			Contains(ScriptText, "script"),
			Contains(ScriptText, "SCRIPT"),
			Contains(CharacterMapText, "char id="),
			Contains(CharacterMapText, "chars count="),
			Contains(CharacterMapText, "CharMap"),
			StartsWith(ResourceBinder, "BND3"),
			StartsWith(ResourceBinder, "BND4"),
			StartsWith(ResourceBinder, "BHF3"),
			StartsWith(ResourceBinder, "BHF4"),
			StartsWith(ResourceBinder, "BDF3"),
			StartsWith(ResourceBinder, "BDF4"),
		},
		Fallback: ResourceBinder,
	},
}

// Groups returns a copy of the signature table.
func Groups() []Group {
	out := make([]Group, len(table))
	for i, group := range table {
		out[i] = group.clone()
	}
	return out
}

// Lookup returns the group owning ext. The extension is normalized first.
func Lookup(ext string) (Group, bool) {
	return lookup(table, NormalizeExtension(ext))
}

func lookup(groups []Group, ext string) (Group, bool) {
	if ext == "" {
		return Group{}, false
	}
	for _, group := range groups {
		if group.HasExtension(ext) {
			return group, true
		}
	}
	return Group{}, false
}
