package transcoder

import "testing"

func TestProgressParserClampsAndDeduplicates(t *testing.T) {
	p := newProgressParser(100)
	steps := []struct {
		line   string
		want   float64
		wantOK bool
	}{
		{"out_time_us=-23000", 0, true},
		{"out_time_us=0", 0, false},
		{"bitrate=N/A", 0, false},
		{"out_time_us=50000000", 50, true},
		{"out_time=00:00:40.000000", 0, false},
		{"out_time_us=250000000", 100, true},
		{"progress=end", 0, false},
	}
	for _, step := range steps {
		got, ok := p.Feed(step.line)
		if ok != step.wantOK || (ok && got != step.want) {
			t.Fatalf("Feed(%q) = %v, %v; want %v, %v", step.line, got, ok, step.want, step.wantOK)
		}
	}
}

func TestProgressParserUnknownTotal(t *testing.T) {
	p := newProgressParser(0)
	if _, ok := p.Feed("out_time_us=1000000"); ok {
		t.Fatal("expected no percentage without a total")
	}
	if got, ok := p.Feed("progress=end"); !ok || got != 100 {
		t.Fatalf("progress=end should report 100, got %v %v", got, ok)
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"01:02:03.500000", 3723.5, true},
		{"00:00:00.000000", 0, true},
		{"N/A", 0, false},
		{"1:2", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseClock(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("parseClock(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
