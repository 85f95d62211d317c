package transcoder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"bookbinder/internal/logging"
)

var (
	// ErrCanceled reports that the encode stopped because its context ended.
	ErrCanceled = errors.New("transcode canceled")
	// ErrTranscodeFailed reports a non-zero ffmpeg exit.
	ErrTranscodeFailed = errors.New("transcode failed")
)

const stderrTailLines = 20

// Transcode runs one encode. onProgress, when set, receives increasing
// percentages in [0, 100]. The returned error wraps ErrCanceled or
// ErrTranscodeFailed.
func (g *Gateway) Transcode(ctx context.Context, req Request, onProgress func(float64)) error {
	args := BuildArgs(req)
	parser := newProgressParser(req.TotalDuration)
	tail := newLineTail(stderrTailLines)

	g.logger.Debug("ffmpeg starting",
		logging.String("encoder", req.Encoder),
		logging.String("output", req.Output),
		logging.Bool("telegram", req.TelegramMode),
		logging.Any("args", args),
	)

	err := g.exec.Run(ctx, g.ffmpeg, args, func(line string) {
		if percent, ok := parser.Feed(line); ok && onProgress != nil {
			onProgress(percent)
		}
	}, tail.Add)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ErrCanceled, ctxErr)
	}
	if err != nil {
		detail := tail.String()
		logging.ErrorWithContext(g.logger, "ffmpeg failed", "transcode_failed",
			logging.String("output", req.Output),
			logging.Error(err),
			logging.String("stderr", detail),
			logging.String(logging.FieldErrorHint, "re-run with --log-level debug to see the ffmpeg command"),
		)
		if detail != "" {
			return fmt.Errorf("%w: %w: %s", ErrTranscodeFailed, err, detail)
		}
		return fmt.Errorf("%w: %w", ErrTranscodeFailed, err)
	}
	return nil
}

// lineTail keeps the last n non-empty lines written to it.
type lineTail struct {
	mu    sync.Mutex
	limit int
	lines []string
}

func newLineTail(limit int) *lineTail {
	return &lineTail{limit: limit}
}

func (t *lineTail) Add(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, line)
	if len(t.lines) > t.limit {
		t.lines = t.lines[len(t.lines)-t.limit:]
	}
}

func (t *lineTail) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Join(t.lines, "\n")
}
