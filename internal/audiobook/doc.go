// Package audiobook models a source audiobook directory and discovers it.
//
// A Job is the immutable result of discovery: the naturally ordered MP3
// tracks, the probed source bitrate and channel count, the total duration and
// a chapter list that partitions the timeline. Chapters come from one of two
// sources, resolved once per discovery:
//   - metadata: a sibling metadata/metadata.json with spine and chapter lists
//   - files: one chapter per track, titled after the file name
//
// The Discoverer depends only on the Prober interface so tests and callers
// can supply any implementation; the transcoder gateway is the production one.
package audiobook
