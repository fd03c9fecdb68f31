package envaccessor

import "fmt"

// MissingEnvError reports a read of an environment variable that had no
// value and no default (spec §4.3, §7).
type MissingEnvError struct {
	Name string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("envaccessor: %q is not set and has no default", e.Name)
}
