// Package transcoder drives ffmpeg and ffprobe for audiobook conversion.
//
// Gateway is the single entry point: it checks that both tools resolve,
// probes source tracks, picks the best available AAC encoder, writes the
// concat list and FFMETADATA chapter file into a work directory, runs the
// encode while reporting percent progress, and verifies the Telegram
// extradata post-condition on the result.
//
// All subprocesses go through an Executor so tests can substitute canned
// output with WithExecutor.
package transcoder
