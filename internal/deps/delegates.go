package deps

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"freqshift/internal/config"
)

// DelegateRequirements lists the external tools configured in cfg. Every
// delegate is optional: only inputs routed to that tool need it.
func DelegateRequirements(cfg *config.Config) []Requirement {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.Delegates.FFmpegBinary,
			Description: "Transcodes generic audio and video",
			Optional:    true,
		},
		{
			Name:        "vgmstream",
			Command:     cfg.Delegates.VGMStreamBinary,
			Description: "Decodes streamed game audio (wem, fsb, adx, hca, ...)",
			Optional:    true,
		},
		{
			Name:        "FFprobe",
			Command:     ResolveFFprobe(cfg.Delegates.FFmpegBinary, cfg.Delegates.FFprobeBinary),
			Description: "Reports stream details in inspect",
			Optional:    true,
		},
	}
}

// ResolveFFprobe returns the ffprobe command to run. An explicitly configured
// binary wins; otherwise an ffprobe next to the resolved ffmpeg is preferred
// over PATH lookup.
func ResolveFFprobe(ffmpegCommand, ffprobeCommand string) string {
	name := executableName("ffprobe")
	ffprobeCommand = strings.TrimSpace(ffprobeCommand)
	if ffprobeCommand != "" && ffprobeCommand != "ffprobe" && ffprobeCommand != name {
		return ffprobeCommand
	}
	if ffmpegCommand = strings.TrimSpace(ffmpegCommand); ffmpegCommand != "" {
		if resolved, err := exec.LookPath(ffmpegCommand); err == nil {
			candidate := filepath.Join(filepath.Dir(resolved), name)
			if info, statErr := os.Stat(candidate); statErr == nil && isExecutable(info) {
				return candidate
			}
		}
	}
	if ffprobeCommand == "" {
		return "ffprobe"
	}
	return ffprobeCommand
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
