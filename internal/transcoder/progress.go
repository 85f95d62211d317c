package transcoder

import (
	"strconv"
	"strings"
	"time"
)

// progressParser turns ffmpeg -progress key=value lines into percentages of
// the expected output duration.
type progressParser struct {
	total float64
	last  float64
}

func newProgressParser(totalSeconds float64) *progressParser {
	return &progressParser{total: totalSeconds, last: -1}
}

// Feed consumes one line and returns a new percentage when the line moves
// the encode forward.
func (p *progressParser) Feed(line string) (float64, bool) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return 0, false
	}
	var elapsed float64
	switch key {
	case "out_time_us", "out_time_ms":
		// ffmpeg reports microseconds under both keys.
		us, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return 0, false
		}
		elapsed = float64(us) / float64(time.Second/time.Microsecond)
	case "out_time":
		seconds, ok := parseClock(value)
		if !ok {
			return 0, false
		}
		elapsed = seconds
	case "progress":
		if strings.TrimSpace(value) != "end" {
			return 0, false
		}
		return p.emit(100)
	default:
		return 0, false
	}
	if p.total <= 0 {
		return 0, false
	}
	return p.emit(elapsed / p.total * 100)
}

func (p *progressParser) emit(percent float64) (float64, bool) {
	percent = clampPercent(percent)
	if percent <= p.last {
		return 0, false
	}
	p.last = percent
	return percent, true
}

func clampPercent(percent float64) float64 {
	switch {
	case percent < 0:
		return 0
	case percent > 100:
		return 100
	default:
		return percent
	}
}

// parseClock reads HH:MM:SS.micro as seconds.
func parseClock(value string) (float64, bool) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 3 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, false
	}
	if hours < 0 {
		return 0, false
	}
	return float64(hours)*3600 + float64(minutes)*60 + seconds, true
}
