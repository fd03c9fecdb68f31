package sourceloader

import (
	"errors"
	"fmt"
)

// FileNotFoundError reports a required (non-optional) configuration file
// that does not exist (spec §4.4, §7's *FileNotFound*).
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("sourceloader: file not found: %s", e.Path)
}

// ParseError wraps a failure to parse a configuration file, or a file whose
// root decoded to something other than an object (spec §4.4, §7's *Parse*).
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("sourceloader: %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func errUnknownFormat(path string) error {
	return fmt.Errorf("unrecognized configuration format for %q", path)
}

func errRootNotObject() error {
	return errors.New("document root is not an object")
}
