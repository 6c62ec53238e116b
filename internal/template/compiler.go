package template

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrCompilationFailed wraps every rendering failure so callers can branch
// without knowing the engine.
var ErrCompilationFailed = errors.New("template compilation failed")

// Payload is the input of one compilation: the step's template definition
// plus the merged runtime data.
type Payload struct {
	Subject    string
	Content    string
	SenderName string
	Layout     string           // wrapper template, empty for none
	Variables  map[string]any   // merged trigger payload
	Events     []map[string]any // digested trigger events, if any
}

// Compiled is the rendered result of one compilation.
type Compiled struct {
	Subject    string
	HTML       string
	Text       string
	SenderName string
}

// Compiler turns a template payload into renderable content. Implementations
// must be deterministic for identical inputs.
type Compiler interface {
	Compile(ctx context.Context, envID, orgID, userID uuid.UUID, p Payload) (Compiled, error)
}
