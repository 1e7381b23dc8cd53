package mentor

import (
	"errors"
	"fmt"
)

// MalformedOutputError reports a model response that could not be parsed
// under the structured-output contract. It is distinct from a backend
// failure (llm.GenerationError) so the chat operation can word its two
// fallback messages differently.
type MalformedOutputError struct {
	Raw string
	Err error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed structured output: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

// IsMalformedOutput reports whether err is (or wraps) a MalformedOutputError.
func IsMalformedOutput(err error) bool {
	var malformed *MalformedOutputError
	return errors.As(err, &malformed)
}
