package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/flightsurety/surety-node/config"
)

func TestLoggerLevels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := newLogger(&buf, config.LogFormatJSON, "state:info,*:error")
	if err != nil {
		t.Fatal(err)
	}

	logger.With("module", "state").Info("committed", "height", 1)
	logger.With("module", "oracle").Info("dropped")

	out := buf.String()
	if !strings.Contains(out, "committed") {
		t.Fatalf("state info must be logged, got %q", out)
	}
	if strings.Contains(out, "dropped") {
		t.Fatalf("oracle info must be filtered, got %q", out)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	t.Parallel()

	if _, err := newLogger(&bytes.Buffer{}, "xml", "info"); err == nil {
		t.Fatal("expected error")
	}
}
