package llm

import (
	"context"
	"fmt"
)

// Completer produces text completions for assembled prompts. Implementations
// wrap an external model API; callers decide how to surface failures.
type Completer interface {
	// Complete blocks until the full completion text is available.
	Complete(ctx context.Context, prompt string) (string, error)

	// CompleteStream returns the completion as a lazy sequence of text
	// fragments. Recv returns io.EOF once the model signals completion;
	// concatenating the fragments reconstructs the full text.
	CompleteStream(ctx context.Context, prompt string) (Stream, error)
}

// Stream delivers completion fragments in emission order.
type Stream interface {
	Recv() (string, error)
	Close() error
}

// GenerationError reports a model API failure: transport errors, timeouts,
// non-2xx upstream responses, or a response with no usable text.
type GenerationError struct {
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// NewGenerationError wraps cause into a GenerationError.
func NewGenerationError(message string, cause error) *GenerationError {
	return &GenerationError{Message: message, Cause: cause}
}
