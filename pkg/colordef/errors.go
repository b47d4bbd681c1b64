package colordef

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrMissingSection indicates the options or colors section is absent.
	ErrMissingSection = errors.New("missing section")
	// ErrMissingName indicates the options section has no name.
	ErrMissingName = errors.New("missing name option")
	// ErrInvalidColor indicates a color value is not exactly six hex digits.
	ErrInvalidColor = errors.New("invalid color value")
	// ErrInvalidActive indicates the active option is neither a number nor a boolean.
	ErrInvalidActive = errors.New("invalid active option")
)

// ParseError reports why a color definition file could not be loaded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unable to parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DuplicateNameError reports a list that was skipped because another list with
// the same name was already loaded.
type DuplicateNameError struct {
	Path string
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("not loading %s: color list %q is already loaded", e.Path, e.Name)
}

func parseFailure(path string, err error) error {
	return errors.WithStack(&ParseError{Path: path, Err: err})
}
