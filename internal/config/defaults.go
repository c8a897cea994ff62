package config

const (
	defaultLogDir          = "~/.local/share/freqshift/logs"
	defaultFFmpegBinary    = "ffmpeg"
	defaultVGMStreamBinary = "vgmstream-cli"
	defaultFFprobeBinary   = "ffprobe"
	defaultParallelism     = 2
	defaultMinStringRun    = 4
	defaultImageFormat     = "png"
	defaultJPEGQuality     = 90
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Delegates: Delegates{
			FFmpegBinary:    defaultFFmpegBinary,
			VGMStreamBinary: defaultVGMStreamBinary,
			FFprobeBinary:   defaultFFprobeBinary,
		},
		Convert: Convert{
			AtomicWrites: true,
			Parallelism:  defaultParallelism,
			MinStringRun: defaultMinStringRun,
			ImageFormat:  defaultImageFormat,
			JPEGQuality:  defaultJPEGQuality,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
