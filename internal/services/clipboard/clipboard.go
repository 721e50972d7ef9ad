// Package clipboard provides access to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
)

const errorCopyFormat = "copy %s to clipboard: %w"

// ErrUnavailable is returned when the platform offers no clipboard utility.
var ErrUnavailable = errors.New("clipboard is not available on this system")

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a Clipboard service implementation.
func NewService() *Service {
	return &Service{}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	return clipboard.WriteAll(text)
}

var _ Copier = (*Service)(nil)

// CopyWithReport copies text and logs a warning on failure instead of failing the command.
// label names what was copied in the log and error message.
func CopyWithReport(copier Copier, text string, label string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if copier == nil {
		copier = NewService()
	}
	if copyError := copier.Copy(text); copyError != nil {
		wrappedError := fmt.Errorf(errorCopyFormat, label, copyError)
		logger.Warn("Failed to copy to clipboard", zap.String("content", label), zap.Error(copyError))
		return wrappedError
	}
	logger.Debug("Copied to clipboard", zap.String("content", label))
	return nil
}
