package tconf

import (
	"fmt"
	"strings"

	"github.com/ravendot/tconf/internal/dotenv"
	"github.com/ravendot/tconf/internal/envaccessor"
	"github.com/ravendot/tconf/internal/sourceloader"
)

// FormatError reports a malformed dotenv file (spec §4.1, §6).
type FormatError = dotenv.FormatError

// PathError reports a dotenv base path that could not be read (spec §4.1,
// §6).
type PathError = dotenv.PathError

// MissingEnvError reports an environment read without a default (spec §4.3,
// §7's *MissingEnv*).
type MissingEnvError = envaccessor.MissingEnvError

// ConfigFileNotFoundError reports a required configuration file that does
// not exist (spec §6, §7's *FileNotFound*).
type ConfigFileNotFoundError = sourceloader.FileNotFoundError

// ConfigParseError wraps a configuration file that failed to parse, or
// whose root was not an object (spec §6, §7's *Parse*).
type ConfigParseError = sourceloader.ParseError

// ConfigError is the umbrella error type for composer-level failures that
// don't carry a more specific shape of their own.
type ConfigError struct {
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tconf: %s: %v", e.Message, e.Err)
	}

	return fmt.Sprintf("tconf: %s", e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Issue is a single validation failure (spec §6's "issue list").
type Issue struct {
	Path    string
	Message string
}

// ConfigValidationError reports a merged, resolved configuration tree that
// the caller's schema rejected (spec §6, §7's *Validation*). It wraps the
// cause returned by the schema so callers can still errors.As into the
// underlying validator's own error type.
type ConfigValidationError struct {
	Issues []Issue
	Err    error
}

func (e *ConfigValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Err != nil {
			return fmt.Sprintf("tconf: validation failed: %v", e.Err)
		}

		return "tconf: validation failed"
	}

	var sb strings.Builder
	sb.WriteString("tconf: validation failed:\n")
	for i, issue := range e.Issues {
		sb.WriteString("  - ")
		if issue.Path != "" {
			sb.WriteString(issue.Path)
			sb.WriteString(": ")
		}
		sb.WriteString(issue.Message)
		if i < len(e.Issues)-1 {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func (e *ConfigValidationError) Unwrap() error {
	return e.Err
}
