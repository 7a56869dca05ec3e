package voice

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRecordAndTranscribe(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on unix coreutils")
	}

	fixture := filepath.Join(t.TempDir(), "fixture.wav")
	if err := os.WriteFile(fixture, []byte("send mike twenty dollars\n"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	// "cp fixture <out>" stands in for the recorder, "cat <out>" for the
	// transcriber.
	h := New(Handler{
		RecordCmd:     "cp",
		RecordArgs:    []string{fixture},
		TranscribeCmd: "cat",
		ListenSeconds: 2,
	}, discardLogger())

	transcript, err := h.RecordAndTranscribe(context.Background())
	if err != nil {
		t.Fatalf("record and transcribe: %v", err)
	}
	if transcript != "send mike twenty dollars" {
		t.Fatalf("unexpected transcript: %q", transcript)
	}
}

func TestRecordFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on unix coreutils")
	}

	h := New(Handler{
		RecordCmd:     "false",
		TranscribeCmd: "cat",
		ListenSeconds: 2,
	}, discardLogger())

	_, err := h.RecordAndTranscribe(context.Background())
	if err == nil {
		t.Fatal("expected record failure")
	}
	if !strings.Contains(err.Error(), "record") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSpeakNoCommandIsNoop(t *testing.T) {
	h := New(Handler{RecordCmd: "rec", TranscribeCmd: "cat"}, discardLogger())
	if err := h.Speak(context.Background(), "hello"); err != nil {
		t.Fatalf("speak with no command should be a no-op: %v", err)
	}
}

func TestAvailable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on unix coreutils")
	}

	ok := New(Handler{RecordCmd: "cat", TranscribeCmd: "cat"}, discardLogger())
	if !ok.Available() {
		t.Fatal("coreutils commands should resolve")
	}

	missing := New(Handler{RecordCmd: "definitely-not-a-command", TranscribeCmd: "cat"}, discardLogger())
	if missing.Available() {
		t.Fatal("missing recorder should report unavailable")
	}
}
