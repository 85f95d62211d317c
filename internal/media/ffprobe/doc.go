// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual stream properties, including audio extradata size
//   - Format: container-level metadata (duration, size, bitrate)
//
// Args builds the ffprobe command line and Parse decodes its output, so
// callers can run the binary through their own executor.
package ffprobe
