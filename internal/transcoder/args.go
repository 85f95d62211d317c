package transcoder

import "strconv"

// Request describes one encode.
type Request struct {
	ConcatList    string
	ChapterFile   string
	Output        string
	Encoder       string
	BitrateKbps   int
	Channels      int
	TotalDuration float64
	TelegramMode  bool
}

// BuildArgs assembles the ffmpeg command line for req. Progress is written
// to stdout as key=value blocks.
func BuildArgs(req Request) []string {
	encoder := req.Encoder
	if encoder == "" {
		encoder = EncoderNative
	}
	args := []string{
		"-hide_banner", "-nostdin", "-loglevel", "error", "-y",
		"-progress", "pipe:1", "-nostats",
		"-f", "concat", "-safe", "0", "-i", req.ConcatList,
		"-i", req.ChapterFile,
		"-map", "0:a",
		"-map_metadata", "1",
		"-map_chapters", "1",
	}

	if req.TelegramMode {
		args = append(args,
			"-c:a", encoder,
			"-profile:a", "aac_low",
			"-movflags", "+faststart",
			"-avoid_negative_ts", "make_zero",
			"-fflags", "+genpts",
		)
	} else {
		if encoder == EncoderNative {
			args = append(args, "-c:a", EncoderNative, "-aac_coder", "twoloop")
		} else {
			args = append(args, "-c:a", encoder)
		}
		args = append(args, "-brand", "isom", "-movflags", "+faststart")
	}

	bitrate := req.BitrateKbps
	if bitrate <= 0 {
		bitrate = fallbackBitrateKbps
	}
	channels := req.Channels
	if channels <= 0 {
		channels = fallbackChannels
	}
	args = append(args,
		"-b:a", strconv.Itoa(bitrate)+"k",
		"-ac", strconv.Itoa(channels),
		req.Output,
	)
	return args
}
