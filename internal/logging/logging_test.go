package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewJSONWritesFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "debug", Format: "JSON", Writer: &buf})
	log.Debug("rendered", Repository("acme/widgets"), Path("src"), Error(errors.New("boom")))

	out := buf.String()
	assert.Contains(t, out, `"repository":"acme/widgets"`)
	assert.Contains(t, out, `"path":"src"`)
	assert.Contains(t, out, `"error":"boom"`)
}

func TestErrorAttrNil(t *testing.T) {
	assert.Equal(t, "", Error(nil).Value.String())
}
