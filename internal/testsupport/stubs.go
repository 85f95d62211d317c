package testsupport

import (
	"fmt"
	"os"
	"testing"
)

// FFprobeStub returns a shell script that answers every probe with one
// 64 kbps mono audio stream of the given length and two bytes of extradata.
func FFprobeStub(seconds float64) string {
	return fmt.Sprintf(`#!/bin/sh
cat <<'JSON'
{"streams":[{"codec_type":"audio","codec_name":"mp3","bit_rate":"64000","channels":1,"duration":"%[1]f","extradata_size":2}],"format":{"duration":"%[1]f","bit_rate":"64000"}}
JSON
`, seconds)
}

// FFmpegStub returns a shell script that lists only the native aac encoder
// and otherwise writes a small file to its last argument while reporting
// progress up to totalSeconds.
func FFmpegStub(totalSeconds float64) string {
	return fmt.Sprintf(`#!/bin/sh
for arg in "$@"; do
  if [ "$arg" = "-encoders" ]; then
    echo " A....D aac                  AAC (Advanced Audio Coding)"
    exit 0
  fi
  last="$arg"
done
printf 'm4b' > "$last"
echo "out_time_us=%d"
echo "progress=end"
`, int64(totalSeconds*1e6))
}

func writeScript(t testing.TB, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", path, err)
	}
}
