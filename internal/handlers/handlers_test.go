package handlers

import (
	"io"
	"log/slog"
)

// testLogger discards output; handler logs are not under test.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }
