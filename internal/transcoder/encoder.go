package transcoder

import (
	"context"
	"strings"

	"bookbinder/internal/logging"
)

// Encoder names in preference order.
const (
	EncoderAudioToolbox = "aac_at"
	EncoderFDK          = "libfdk_aac"
	EncoderNative       = "aac"
)

var encoderPriority = []string{EncoderAudioToolbox, EncoderFDK, EncoderNative}

// DetectBestEncoder returns the most preferred AAC encoder this ffmpeg build
// offers. The listing runs once per gateway; failures fall back to the
// native encoder, and a listing cut short by cancellation is not remembered.
func (g *Gateway) DetectBestEncoder(ctx context.Context) string {
	g.encoderMu.Lock()
	defer g.encoderMu.Unlock()
	if g.encoder != "" {
		return g.encoder
	}

	out, err := g.exec.Output(ctx, g.ffmpeg, []string{"-hide_banner", "-encoders"})
	if err != nil && ctx.Err() != nil {
		// Not memoized: a later call with a live context lists again.
		return EncoderNative
	}
	if err != nil {
		logging.WarnWithContext(g.logger, "encoder listing failed", "encoder_detection",
			logging.Error(err),
			logging.String(logging.FieldImpact, "falling back to the native aac encoder"),
			logging.String(logging.FieldErrorHint, "run 'ffmpeg -encoders' to inspect the build"),
		)
		g.encoder = EncoderNative
		return g.encoder
	}

	g.encoder = pickEncoder(string(out))
	g.logger.Debug("encoder selected", logging.String("encoder", g.encoder))
	return g.encoder
}

// pickEncoder matches whole whitespace-delimited tokens, so "aac" inside
// "aac_mf" or "libfdk_aac" does not count.
func pickEncoder(listing string) string {
	available := make(map[string]struct{})
	for _, token := range strings.Fields(listing) {
		available[token] = struct{}{}
	}
	for _, name := range encoderPriority {
		if _, ok := available[name]; ok {
			return name
		}
	}
	return EncoderNative
}
