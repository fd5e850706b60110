package speech

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/doeshing/phoenix-go/internal/domain"
	"github.com/doeshing/phoenix-go/internal/ports"
)

// Placeholders substituted into the recorder command.
const (
	placeholderSeconds = "{seconds}"
	placeholderDevice  = "{device}"
)

// Transcriber turns captured audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, language string) (string, error)
}

// RecorderInput captures audio by running an external recorder command that writes a
// WAV clip to stdout, then hands the clip to a Transcriber.
type RecorderInput struct {
	exec        ports.CommandExecutor
	command     string
	listCommand string
	device      func() string
	transcriber Transcriber
}

// NewRecorderInput builds a recorder-backed input. device returns the selected
// microphone name substituted for {device}; it may be nil.
func NewRecorderInput(exec ports.CommandExecutor, command, listCommand string, device func() string, transcriber Transcriber) *RecorderInput {
	return &RecorderInput{
		exec:        exec,
		command:     command,
		listCommand: listCommand,
		device:      device,
		transcriber: transcriber,
	}
}

// Capture records one phrase. A recorder that cannot be started is domain.ErrNoDevice.
func (r *RecorderInput) Capture(ctx context.Context, timeout, phraseLimit time.Duration) ([]byte, error) {
	seconds := int((timeout + phraseLimit).Round(time.Second) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	command := strings.ReplaceAll(r.command, placeholderSeconds, strconv.Itoa(seconds))
	device := "default"
	if r.device != nil {
		if d := r.device(); d != "" {
			device = d
		}
	}
	command = strings.ReplaceAll(command, placeholderDevice, device)

	res, err := r.exec.Execute(ctx, command)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if res.ExitCode == 126 || res.ExitCode == 127 {
			return nil, fmt.Errorf("%w: %s", domain.ErrNoDevice, strings.TrimSpace(res.Stderr))
		}
		var exitErr interface{ ExitCode() int }
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: %v", domain.ErrNoDevice, err)
		}
		return nil, fmt.Errorf("%w: recorder: %v", domain.ErrServiceUnavailable, err)
	}
	if len(res.Stdout) == 0 {
		return nil, domain.ErrNoSpeech
	}
	return []byte(res.Stdout), nil
}

// Transcribe delegates to the configured transcriber.
func (r *RecorderInput) Transcribe(ctx context.Context, audio []byte, language string) (string, error) {
	if r.transcriber == nil {
		return "", fmt.Errorf("%w: no transcriber configured", domain.ErrServiceUnavailable)
	}
	return r.transcriber.Transcribe(ctx, audio, language)
}

// Microphones lists one device per non-empty line of the list command output.
func (r *RecorderInput) Microphones(ctx context.Context) ([]domain.Microphone, error) {
	if r.listCommand == "" {
		return []domain.Microphone{{ID: 0, Name: "default"}}, nil
	}
	res, err := r.exec.Execute(ctx, r.listCommand)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoDevice, err)
	}
	var mics []domain.Microphone
	for _, line := range strings.Split(res.Stdout, "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		mics = append(mics, domain.Microphone{ID: len(mics), Name: name})
	}
	return mics, nil
}

// CommandSpeaker pipes each phrase to a text-to-speech command. The phrase is
// substituted for {text}, or appended when the placeholder is absent.
type CommandSpeaker struct {
	exec    ports.CommandExecutor
	command string
}

// NewCommandSpeaker builds a speaker such as `espeak-ng {text}` or `say {text}`.
func NewCommandSpeaker(exec ports.CommandExecutor, command string) *CommandSpeaker {
	return &CommandSpeaker{exec: exec, command: command}
}

func (s *CommandSpeaker) Speak(ctx context.Context, text string) error {
	quoted := "'" + strings.ReplaceAll(text, "'", `'\''`) + "'"
	command := s.command
	if strings.Contains(command, "{text}") {
		command = strings.ReplaceAll(command, "{text}", quoted)
	} else {
		command += " " + quoted
	}
	_, err := s.exec.Execute(ctx, command)
	return err
}

var (
	_ ports.SpeechInput  = (*RecorderInput)(nil)
	_ ports.SpeechOutput = (*CommandSpeaker)(nil)
	_ Transcriber        = (*WhisperTranscriber)(nil)
)
