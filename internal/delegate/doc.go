// Package delegate hands well-known audio and video formats to external
// tools.
//
// Key types:
//   - Transcoder: the narrow contract the engine depends on
//   - FFmpeg: generic audio/video transcodes
//   - VGMStream: proprietary streamed game audio, decoded to WAV
//   - Prober: ffprobe JSON inspection used by the inspect command
//   - ProcessError: exit code and captured stderr of a failed invocation
//
// Process execution goes through Executor so tests can stub the tools.
package delegate
