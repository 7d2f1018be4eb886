package render

import (
	"errors"
	"fmt"
)

var ErrTemplateNotFound = errors.New("template not found")

// TemplateRenderingError reports that a named template could not be located,
// parsed or executed.
type TemplateRenderingError struct {
	Name string
	Err  error
}

func (e *TemplateRenderingError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Name, e.Err)
}

func (e *TemplateRenderingError) Unwrap() error {
	return e.Err
}

// IsRenderingError reports whether err is, or wraps, a TemplateRenderingError.
func IsRenderingError(err error) bool {
	var re *TemplateRenderingError
	return errors.As(err, &re)
}
