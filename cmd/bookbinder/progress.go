package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/schollz/progressbar/v3"
)

// barProgress renders the encode step as a terminal progress bar.
type barProgress struct {
	out      io.Writer
	colorize bool
}

func newBarProgress(out io.Writer, colorize bool) *barProgress {
	return &barProgress{out: out, colorize: colorize}
}

func (p *barProgress) Track(_ context.Context, label string, run func(report func(float64)) error) error {
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionEnableColorCodes(p.colorize),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(p.out) }),
	)

	err := run(func(percent float64) {
		_ = bar.Set(barValue(percent))
	})
	if err != nil {
		_ = bar.Exit()
		fmt.Fprintln(p.out)
		return err
	}
	_ = bar.Finish()
	return nil
}

// barValue converts a percentage into the bar's 0..100 integer scale.
func barValue(percent float64) int {
	if math.IsNaN(percent) || percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return int(percent)
}
