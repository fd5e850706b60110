// Package speech provides speech input and output adapters: a console line reader for
// development, an external recorder paired with a Whisper-compatible transcriber, and
// console or command-driven speakers.
package speech

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/doeshing/phoenix-go/internal/domain"
	"github.com/doeshing/phoenix-go/internal/ports"
)

// ConsoleInput treats each line read from r as one recognised utterance.
type ConsoleInput struct {
	once  sync.Once
	r     io.Reader
	lines chan string
	done  chan struct{}
	err   error
}

// NewConsoleInput reads utterances from r, typically os.Stdin.
func NewConsoleInput(r io.Reader) *ConsoleInput {
	return &ConsoleInput{r: r, lines: make(chan string), done: make(chan struct{})}
}

func (c *ConsoleInput) start() {
	c.once.Do(func() {
		go func() {
			defer close(c.done)
			scanner := bufio.NewScanner(c.r)
			for scanner.Scan() {
				c.lines <- scanner.Text()
			}
			c.err = scanner.Err()
		}()
	})
}

// Capture waits up to timeout for the next line. A blank line or a timeout is
// domain.ErrNoSpeech; end of input is domain.ErrNoDevice.
func (c *ConsoleInput) Capture(ctx context.Context, timeout, _ time.Duration) ([]byte, error) {
	c.start()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, domain.ErrNoSpeech
	case line := <-c.lines:
		if strings.TrimSpace(line) == "" {
			return nil, domain.ErrNoSpeech
		}
		return []byte(line), nil
	case <-c.done:
		if c.err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrNoDevice, c.err)
		}
		return nil, fmt.Errorf("%w: console input closed", domain.ErrNoDevice)
	}
}

// Transcribe returns the captured line.
func (c *ConsoleInput) Transcribe(_ context.Context, audio []byte, _ string) (string, error) {
	text := strings.TrimSpace(string(audio))
	if text == "" {
		return "", domain.ErrNoSpeech
	}
	return text, nil
}

// Microphones reports the console as the only device.
func (c *ConsoleInput) Microphones(context.Context) ([]domain.Microphone, error) {
	return []domain.Microphone{{ID: 0, Name: "console"}}, nil
}

// ConsoleSpeaker prints phrases instead of speaking them.
type ConsoleSpeaker struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleSpeaker writes to w.
func NewConsoleSpeaker(w io.Writer) *ConsoleSpeaker {
	return &ConsoleSpeaker{w: w}
}

func (s *ConsoleSpeaker) Speak(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintf(s.w, "Phoenix: %s\n", text)
	return err
}

// Silent discards every phrase.
type Silent struct{}

func (Silent) Speak(context.Context, string) error { return nil }

var (
	_ ports.SpeechInput  = (*ConsoleInput)(nil)
	_ ports.SpeechOutput = (*ConsoleSpeaker)(nil)
	_ ports.SpeechOutput = Silent{}
)
