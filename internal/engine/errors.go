package engine

import "fmt"

// RequiresTypeMismatchError reports a template whose requires list names
// another template. Templates may only require stubs.
type RequiresTypeMismatchError struct {
	TemplateKey  string
	OffendingKey string
}

func (e *RequiresTypeMismatchError) Error() string {
	return fmt.Sprintf("template %q requires %q, which is a template; templates may only require stubs",
		e.TemplateKey, e.OffendingKey)
}

// MissingUnitError reports a template requirement that was excluded from the
// build (includeDependencies=false) and has no unit in the engine cache from
// an earlier build.
type MissingUnitError struct {
	TemplateKey string
	Key         string
}

func (e *MissingUnitError) Error() string {
	return fmt.Sprintf("template %q requires %q, which is outside the requested set and has not been emitted by this engine",
		e.TemplateKey, e.Key)
}
