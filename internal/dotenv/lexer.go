// Package dotenv implements the hand-written dotenv lexer/evaluator and the
// Symfony-compatible multi-file cascade described in spec.md §4.1-§4.2. It
// deliberately does not delegate to a third-party dotenv library: the core
// requirement is byte-exact, positioned diagnostics over a shell-flavoured
// grammar, which no off-the-shelf dotenv parser in the retrieval pack
// provides (see DESIGN.md).
//
// The value lexer is a small state machine dispatching on the leading byte
// of each segment ('\'', '"', or bare), in the same style as the teacher's
// bytesize/duration parsers: manual byte-index scanning, never a regex
// chain. Backslash-escape accounting is done by pairwise consumption of
// adjacent bytes rather than counting runs, which yields the same
// odd/even-backslash semantics the spec requires without a separate
// counting pass.
package dotenv

import (
	"fmt"
	"strings"

	"github.com/ravendot/tconf/internal/envstore"
)

// ParseOptions configures a single Parse call.
type ParseOptions struct {
	// Env is consulted for interpolation lookups (spec §4.1 precedence (b)).
	Env envstore.ProcessEnv
	// LoadedByUs reports whether name is a member of the cascade's
	// "loaded-by-us" sentinel set (spec §3, §4.1 precedence (a)).
	LoadedByUs func(name string) bool
	// EnableCommandSub allows $(...) to execute a subprocess. It is also
	// enabled implicitly by a "@dotenv-expand-commands" directive comment
	// appearing anywhere in text before the value that uses it.
	EnableCommandSub bool
}

// Parse tokenises and evaluates a single dotenv text and returns the
// resulting name/value mapping. The returned map does not preserve
// encounter order (Go maps have no order); when a name is assigned more than
// once, the last assignment wins.
func Parse(text, path string, opts ParseOptions) (map[string]string, error) {
	p := &parser{
		path:             path,
		data:             []byte(normalizeNewlines(text)),
		line:             1,
		values:           make(map[string]string),
		env:              opts.Env,
		loadedByUs:       opts.LoadedByUs,
		enableCommandSub: opts.EnableCommandSub || strings.Contains(text, "@dotenv-expand-commands"),
	}
	p.end = len(p.data)

	if err := p.checkBOM(); err != nil {
		return nil, err
	}

	if err := p.run(); err != nil {
		return nil, err
	}

	return p.values, nil
}

func normalizeNewlines(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}

// parser holds the state for a single Parse call (spec §3's dotenv parser
// state): (path, data, cursor, line, end, values). It is never reused or
// shared between calls.
type parser struct {
	path string
	data []byte
	cursor,
	line,
	lineStart,
	end int
	values map[string]string
	order  []string

	env              envstore.ProcessEnv
	loadedByUs       func(name string) bool
	enableCommandSub bool
}

func (p *parser) checkBOM() error {
	if len(p.data) >= 3 && p.data[0] == 0xEF && p.data[1] == 0xBB && p.data[2] == 0xBF {
		return p.errorf(1, 1, "leading UTF-8 BOM is not permitted; strip it before parsing")
	}

	return nil
}

func (p *parser) run() error {
	for p.cursor < p.end {
		p.skipHSpace()
		if p.cursor >= p.end {
			break
		}

		switch p.data[p.cursor] {
		case '\n':
			p.advance()
			continue
		case '#':
			p.skipToLF()
			continue
		}

		if err := p.parseAssignment(); err != nil {
			return err
		}
	}

	return nil
}

func (p *parser) parseAssignment() error {
	line, col := p.line, p.column()

	if p.matchKeyword("export") {
		if p.cursor >= p.end || !isHSpace(p.data[p.cursor]) {
			return p.errorf(p.line, p.column(), "expected whitespace after 'export'")
		}
		p.skipHSpace()
	}

	name, err := p.parseName()
	if err != nil {
		return err
	}

	if p.cursor >= p.end || p.data[p.cursor] != '=' {
		return p.errorf(line, col, "expected '=' after variable name %q", name)
	}
	p.advance()

	if p.cursor < p.end && isHSpace(p.data[p.cursor]) {
		return p.errorf(p.line, p.column(), "value for %q must not start with whitespace; quote the value instead", name)
	}

	if !p.enableCommandSub && strings.Contains(string(p.data[:p.cursor]), "@dotenv-expand-commands") {
		p.enableCommandSub = true
	}

	value, err := p.parseValue()
	if err != nil {
		return err
	}

	p.setValue(name, value)
	p.skipToLF()

	return nil
}

func (p *parser) parseValue() (string, error) {
	var out strings.Builder

	for p.cursor < p.end && p.data[p.cursor] != '\n' {
		switch p.data[p.cursor] {
		case '\'':
			seg, err := p.parseSingleQuoted()
			if err != nil {
				return "", err
			}
			out.WriteString(seg)
		case '"':
			seg, err := p.parseDoubleQuoted()
			if err != nil {
				return "", err
			}
			out.WriteString(seg)
		default:
			seg, stop, err := p.parseBare()
			if err != nil {
				return "", err
			}
			out.WriteString(seg)
			if stop {
				return out.String(), nil
			}
		}
	}

	return out.String(), nil
}

func (p *parser) parseSingleQuoted() (string, error) {
	line, col := p.line, p.column()
	p.advance() // consume opening '

	start := p.cursor
	for p.cursor < p.end && p.data[p.cursor] != '\'' {
		p.advance()
	}

	if p.cursor >= p.end {
		return "", p.errorf(line, col, "unterminated single-quoted value")
	}

	seg := string(p.data[start:p.cursor])
	p.advance() // consume closing '

	return seg, nil
}

func (p *parser) parseDoubleQuoted() (string, error) {
	line, col := p.line, p.column()
	p.advance() // consume opening "

	start := p.cursor
	for p.cursor < p.end {
		c := p.data[p.cursor]
		if c == '\\' && p.cursor+1 < p.end {
			p.advance()
			p.advance()
			continue
		}
		if c == '"' {
			break
		}
		p.advance()
	}

	if p.cursor >= p.end {
		return "", p.errorf(line, col, "unterminated double-quoted value")
	}

	raw := string(p.data[start:p.cursor])
	p.advance() // consume closing "

	return p.expandDouble(raw, line, col)
}

func (p *parser) parseBare() (string, bool, error) {
	start := p.cursor
	stoppedAtComment := false

	for p.cursor < p.end {
		c := p.data[p.cursor]
		if c == '\n' || c == '"' || c == '\'' {
			break
		}
		if c == '#' && (p.cursor == start || isHSpace(p.data[p.cursor-1])) {
			stoppedAtComment = true
			break
		}
		if c == '\\' && p.cursor+1 < p.end && (p.data[p.cursor+1] == '"' || p.data[p.cursor+1] == '\'') {
			p.advance()
			p.advance()
			continue
		}
		p.advance()
	}

	line, col := p.line, p.column()
	raw := strings.TrimRight(string(p.data[start:p.cursor]), " \t")

	if bareHasRawWhitespace(raw) {
		return "", false, p.errorf(line, col, "value containing spaces must be surrounded by quotes")
	}

	expanded, err := p.expandBare(raw, line, col)
	if err != nil {
		return "", false, err
	}

	return expanded, stoppedAtComment, nil
}

// --- low-level cursor helpers ---

func (p *parser) advance() {
	if p.cursor >= p.end {
		return
	}
	if p.data[p.cursor] == '\n' {
		p.line++
		p.lineStart = p.cursor + 1
	}
	p.cursor++
}

func (p *parser) column() int {
	return p.cursor - p.lineStart + 1
}

func (p *parser) skipHSpace() {
	for p.cursor < p.end && isHSpace(p.data[p.cursor]) {
		p.advance()
	}
}

func (p *parser) skipToLF() {
	for p.cursor < p.end && p.data[p.cursor] != '\n' {
		p.advance()
	}
}

func (p *parser) matchKeyword(kw string) bool {
	n := len(kw)
	if p.cursor+n > p.end || string(p.data[p.cursor:p.cursor+n]) != kw {
		return false
	}
	if p.cursor+n < p.end && isNameChar(p.data[p.cursor+n]) {
		return false
	}
	for range n {
		p.advance()
	}

	return true
}

func (p *parser) parseName() (string, error) {
	if p.cursor >= p.end {
		return "", p.errorf(p.line, p.column(), "expected a variable name")
	}

	c := p.data[p.cursor]
	if c != '_' && !isAlpha(c) {
		return "", p.errorf(p.line, p.column(), "invalid start of variable name %q", string(c))
	}

	start := p.cursor
	p.advance()
	for p.cursor < p.end && isNameChar(p.data[p.cursor]) {
		p.advance()
	}

	return string(p.data[start:p.cursor]), nil
}

func (p *parser) errorf(line, col int, format string, args ...any) error {
	return &FormatError{
		Path:    p.path,
		Line:    line,
		Column:  col,
		Message: fmt.Sprintf(format, args...),
	}
}

func (p *parser) setValue(name, value string) {
	if _, exists := p.values[name]; !exists {
		p.order = append(p.order, name)
	}
	p.values[name] = value
}

func isHSpace(c byte) bool     { return c == ' ' || c == '\t' }
func isAlpha(c byte) bool      { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isNameChar(c byte) bool   { return isAlpha(c) || isDigit(c) || c == '_' }
func isNameStart(c byte) bool  { return isAlpha(c) || c == '_' }
