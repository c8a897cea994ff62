package delegate

import "context"

// FFmpeg transcodes generic audio and video.
type FFmpeg struct {
	runner
}

// NewFFmpeg constructs an ffmpeg client. The default binary is "ffmpeg".
func NewFFmpeg(opts ...Option) *FFmpeg {
	return &FFmpeg{runner: newRunner("ffmpeg", "ffmpeg", opts)}
}

// Args returns the ffmpeg arguments for a transcode. Existing outputs are
// overwritten.
func (f *FFmpeg) Args(inputPath, outputPath string) []string {
	return []string{"-hide_banner", "-loglevel", "error", "-y", "-i", inputPath, outputPath}
}

// Transcode runs ffmpeg.
func (f *FFmpeg) Transcode(ctx context.Context, inputPath, outputPath string) error {
	if err := requirePaths(f.tool, inputPath, outputPath); err != nil {
		return err
	}
	_, err := f.run(ctx, f.Args(inputPath, outputPath))
	return err
}

// VGMStream decodes proprietary streamed game audio.
type VGMStream struct {
	runner
}

// NewVGMStream constructs a vgmstream client. The default binary is "vgmstream-cli".
func NewVGMStream(opts ...Option) *VGMStream {
	return &VGMStream{runner: newRunner("vgmstream", "vgmstream-cli", opts)}
}

// Args returns the vgmstream-cli arguments for a decode.
func (v *VGMStream) Args(inputPath, outputPath string) []string {
	return []string{inputPath, "-o", outputPath}
}

// Transcode runs vgmstream-cli.
func (v *VGMStream) Transcode(ctx context.Context, inputPath, outputPath string) error {
	if err := requirePaths(v.tool, inputPath, outputPath); err != nil {
		return err
	}
	_, err := v.run(ctx, v.Args(inputPath, outputPath))
	return err
}

var (
	_ Transcoder = (*FFmpeg)(nil)
	_ Transcoder = (*VGMStream)(nil)
)
