package frontmatter

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrMalformedDefinition is matched by every MalformedDefinitionError
var ErrMalformedDefinition = errors.New("no frontmatter found")

// MalformedDefinitionError reports a source file without a valid pair of
// `---` delimiter lines
type MalformedDefinitionError struct {
	Path string
}

func (e *MalformedDefinitionError) Error() string {
	return fmt.Sprintf("invalid definition format in %s: %s", e.Path, ErrMalformedDefinition)
}

// Unwrap allows errors.Is(err, ErrMalformedDefinition)
func (e *MalformedDefinitionError) Unwrap() error {
	return ErrMalformedDefinition
}
