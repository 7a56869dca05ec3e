// Package voice shells out to external audio tools for push-to-talk input
// and spoken replies. The commands are configurable so any recorder,
// transcriber, and TTS engine with a file-in/text-out interface works.
package voice

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const defaultListenSeconds = 5

// Handler records microphone audio, transcribes it, and speaks responses.
type Handler struct {
	RecordCmd      string
	RecordArgs     []string
	TranscribeCmd  string
	TranscribeArgs []string
	SpeakCmd       string
	SpeakArgs      []string
	ListenSeconds  int

	logger *slog.Logger
}

// New creates a handler. Zero ListenSeconds falls back to a short default.
func New(h Handler, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if h.ListenSeconds <= 0 {
		h.ListenSeconds = defaultListenSeconds
	}
	h.logger = logger
	return &h
}

// Available reports whether the record and transcribe commands resolve on
// PATH. Speak is optional; replies degrade to text when it is missing.
func (h *Handler) Available() bool {
	if _, err := exec.LookPath(h.RecordCmd); err != nil {
		return false
	}
	if _, err := exec.LookPath(h.TranscribeCmd); err != nil {
		return false
	}
	return true
}

// RecordAndTranscribe captures one utterance and returns its transcript.
// The recorder gets the output path as its final argument and is killed
// after the listen window elapses.
func (h *Handler) RecordAndTranscribe(ctx context.Context) (string, error) {
	dir, err := os.MkdirTemp("", "fincoach-voice-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	audioPath := filepath.Join(dir, "utterance.wav")
	if err := h.record(ctx, audioPath); err != nil {
		return "", err
	}
	return h.transcribe(ctx, audioPath)
}

func (h *Handler) record(ctx context.Context, audioPath string) error {
	recordCtx, cancel := context.WithTimeout(ctx, time.Duration(h.ListenSeconds)*time.Second)
	defer cancel()

	args := append(append([]string{}, h.RecordArgs...), audioPath)
	cmd := exec.CommandContext(recordCtx, h.RecordCmd, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	h.logger.Debug("recording", "cmd", h.RecordCmd, "seconds", h.ListenSeconds)
	err := cmd.Run()
	// The recorder being killed at the end of the listen window is the
	// normal stop condition, not a failure.
	if err != nil && recordCtx.Err() == nil {
		return fmt.Errorf("record: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	if _, statErr := os.Stat(audioPath); statErr != nil {
		return fmt.Errorf("record produced no audio: %w", statErr)
	}
	return nil
}

func (h *Handler) transcribe(ctx context.Context, audioPath string) (string, error) {
	args := append(append([]string{}, h.TranscribeArgs...), audioPath)
	cmd := exec.CommandContext(ctx, h.TranscribeCmd, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("transcribe: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	transcript := strings.TrimSpace(stdout.String())
	if transcript == "" {
		return "", fmt.Errorf("transcribe: empty transcript")
	}
	h.logger.Debug("transcribed", "text", transcript)
	return transcript, nil
}

// Speak reads text aloud. Errors are returned but callers typically just
// log them and fall back to printed output.
func (h *Handler) Speak(ctx context.Context, text string) error {
	if h.SpeakCmd == "" {
		return nil
	}
	args := append(append([]string{}, h.SpeakArgs...), text)
	cmd := exec.CommandContext(ctx, h.SpeakCmd, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("speak: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
