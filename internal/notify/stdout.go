package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// StdoutService prints the subject and text body.
type StdoutService struct {
	w      io.Writer
	logger *slog.Logger
}

func NewStdoutService(w io.Writer, logger *slog.Logger) *StdoutService {
	if w == nil {
		w = os.Stdout
	}
	return &StdoutService{w: w, logger: logger}
}

func (s *StdoutService) Send(_ context.Context, msg Message) error {
	s.logger.Info("sending stdout notification")
	if _, err := fmt.Fprintf(s.w, "%s\n%s\n", msg.Subject, msg.Text); err != nil {
		return fmt.Errorf("write notification: %w", err)
	}
	return nil
}

func (s *StdoutService) Close() error {
	return nil
}
