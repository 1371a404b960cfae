// Package repl drives the interactive conversation loop: read a line,
// send the whole history to the completion service, print the reply,
// repeat until the user quits or the service fails.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/ewittry/parley/pkg/chat"
)

// Sentinel is the input that ends the session. Matched
// case-insensitively after trimming.
const Sentinel = "quit"

// ErrCompletion marks a session that ended because the completion
// service failed. The command layer maps it to a non-zero exit code.
var ErrCompletion = errors.New("completion failed")

// Completer is the completion service boundary: given the conversation
// so far, return the next assistant turn or an error. Errors are not
// retried; any failure ends the session.
type Completer interface {
	Complete(ctx context.Context, turns []chat.Turn) (chat.Turn, error)
}

// Recorder receives completed exchanges for transcript storage.
// Recording failures never end the session.
type Recorder interface {
	Record(ctx context.Context, turns ...chat.Turn) error
}

// Config holds the session's presentation settings and collaborators.
type Config struct {
	// In is the line-oriented input stream (stdin in production).
	In io.Reader

	// Out receives the banner, prompts, replies, and errors.
	Out io.Writer

	// Recorder is optional; nil disables transcript recording.
	Recorder Recorder

	// Styled enables colored labels. Off for pipes and tests.
	Styled bool
}

// Session owns one conversation and runs the loop over it.
type Session struct {
	completer Completer
	recorder  Recorder
	logger    *zap.Logger
	conv      *chat.Conversation
	in        *bufio.Scanner
	out       io.Writer
	styles    styles
}

// NewSession creates a session with an empty conversation.
func NewSession(completer Completer, config Config, logger *zap.Logger) *Session {
	scanner := bufio.NewScanner(config.In)
	// Default token limit is 64KB; pasted prompts can be bigger
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	return &Session{
		completer: completer,
		recorder:  config.Recorder,
		logger:    logger,
		conv:      chat.NewConversation(),
		in:        scanner,
		out:       config.Out,
		styles:    newStyles(config.Styled),
	}
}

// Conversation exposes the turn history, oldest first.
func (s *Session) Conversation() []chat.Turn {
	return s.conv.Turns()
}

// Run executes the loop until the sentinel, end of input, or a
// completion failure. A normal stop returns nil; a completion failure
// returns an error wrapping ErrCompletion after the message has been
// printed.
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Welcome! I am your AI assistant.")
	fmt.Fprintf(s.out, "Ask me anything, or just chat. (type '%s' to exit)\n\n", Sentinel)

	for {
		fmt.Fprint(s.out, s.styles.you.Render("You:")+" ")

		if !s.in.Scan() {
			if err := s.in.Err(); err != nil {
				s.logger.Warn("input read error", zap.Error(err))
			}
			// EOF behaves like quit
			fmt.Fprintln(s.out)
			s.farewell()
			return nil
		}

		input := strings.TrimSpace(s.in.Text())
		if strings.EqualFold(input, Sentinel) {
			s.farewell()
			return nil
		}

		s.conv.Append(chat.UserTurn(input))

		reply, err := s.completer.Complete(ctx, s.conv.Turns())
		if err != nil {
			s.logger.Error("completion failed", zap.Error(err))
			fmt.Fprintf(s.out, "%s %v\n", s.styles.errLabel.Render("Error:"), err)
			return fmt.Errorf("%w: %v", ErrCompletion, err)
		}

		fmt.Fprintf(s.out, "%s %s\n\n", s.styles.assistant.Render("Assistant:"), reply.Content)
		s.conv.Append(reply)

		s.record(ctx, input, reply)
	}
}

func (s *Session) farewell() {
	fmt.Fprintln(s.out, "Goodbye!")
}

// record stores the completed exchange. Failures are logged and
// swallowed; the chat goes on without its transcript.
func (s *Session) record(ctx context.Context, input string, reply chat.Turn) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(ctx, chat.UserTurn(input), reply); err != nil {
		s.logger.Warn("could not record exchange", zap.Error(err))
	}
}
