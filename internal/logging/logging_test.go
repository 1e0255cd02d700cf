package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := Component(New(&buf, "debug", "json"), "engine")
	log.Debug().Int("students", 3).Msg("done")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not json: %v (%s)", err, buf.String())
	}
	if entry["component"] != "engine" || entry["message"] != "done" || entry["students"] != float64(3) {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Fatalf("global level want debug got %s", zerolog.GlobalLevel())
	}
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "loud", "pretty")
	log.Debug().Msg("hidden")
	log.Info().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestNew_AutoFormatWithoutTerminal(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", "auto")
	log.Info().Msg("plain")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("auto format on a buffer should be json: %v (%s)", err, buf.String())
	}
}

func TestUsePretty(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "log")
	if err != nil {
		t.Fatalf("create temp: %v", err)
	}
	defer f.Close()

	cases := []struct {
		name   string
		format string
		want   bool
	}{
		{name: "固定可读格式", format: "pretty", want: true},
		{name: "非终端文件自动为JSON", format: "auto", want: false},
		{name: "JSON", format: "json", want: false},
	}
	for _, tc := range cases {
		if got := usePretty(f, tc.format); got != tc.want {
			t.Fatalf("%s: want %v got %v", tc.name, tc.want, got)
		}
	}
}
