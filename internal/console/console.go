// Package console implements the interactive command shell over a storage
// engine.
//
// Two calling forms are accepted:
//
//	show User 1234
//	User.show("1234")
package console

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"hbnb/internal/storage"

	"go.uber.org/zap"
)

// DefaultPrompt is printed before each line is read
const DefaultPrompt = "(hbnb) "

// dotCall matches "<Kind>.<command>(<args>)"
var dotCall = regexp.MustCompile(`^([^.\s(]*)\.(\w+)\((.*)\)$`)

// callCommands are the commands reachable in the "<Kind>.<command>()" form
var callCommands = map[string]bool{
	"all":     true,
	"count":   true,
	"show":    true,
	"destroy": true,
	"update":  true,
}

// Console reads commands and runs them against an engine
type Console struct {
	engine *storage.Engine
	out    io.Writer
	prompt string
	logger *zap.Logger
}

// Option configures a Console
type Option func(*Console)

// WithPrompt overrides the prompt. An empty prompt prints nothing.
func WithPrompt(prompt string) Option {
	return func(c *Console) {
		c.prompt = prompt
	}
}

// WithLogger sets the console's logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Console) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a console writing command output to out
func New(engine *storage.Engine, out io.Writer, opts ...Option) *Console {
	c := &Console{
		engine: engine,
		out:    out,
		prompt: DefaultPrompt,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Prompt returns the prompt string
func (c *Console) Prompt() string {
	return c.prompt
}

// Run executes lines from in until a command ends the session or input is
// exhausted. End of input behaves like the EOF command.
func (c *Console) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		if c.prompt != "" {
			fmt.Fprint(c.out, c.prompt)
		}
		if !scanner.Scan() {
			break
		}
		if c.Exec(scanner.Text()) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	c.Exec("EOF")
	return nil
}

// Exec runs a single command line and reports whether the session should
// end. An empty line does nothing.
func (c *Console) Exec(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if m := dotCall.FindStringSubmatch(line); m != nil {
		return c.call(line, m[1], m[2], m[3])
	}
	name, arg, _ := strings.Cut(line, " ")
	return c.dispatch(line, name, arg)
}

// call runs the "<Kind>.<command>(<args>)" form by rewriting it into
// "<command> <Kind> <args>". Only commands that act on a class take this
// form, and the class is required.
func (c *Console) call(line, kind, name, args string) bool {
	if !callCommands[name] {
		c.printf(msgUnknownSyntax+"\n", line)
		return false
	}
	if kind == "" {
		c.println(msgClassMissing)
		return false
	}
	arg := kind
	if parts := splitCallArgs(args); len(parts) > 0 {
		arg += " " + strings.Join(parts, " ")
	}
	return c.dispatch(line, name, arg)
}

func (c *Console) dispatch(line, name, arg string) bool {
	cmd, ok := lookupCommand(name)
	if !ok {
		c.printf(msgUnknownSyntax+"\n", line)
		return false
	}
	c.logger.Debug("exec", zap.String("command", name))
	return cmd.Handler(c, arg)
}

// splitCallArgs splits a parenthesized argument list on the commas that sit
// outside quotes and braces
func splitCallArgs(s string) []string {
	var (
		args  []string
		cur   strings.Builder
		quote rune
		depth int
	)
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '{':
			depth++
		case r == '}':
			depth--
		case r == ',' && depth == 0:
			args = append(args, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteRune(r)
	}
	if last := strings.TrimSpace(cur.String()); last != "" || len(args) > 0 {
		args = append(args, last)
	}
	return args
}

// nextToken reads one whitespace-delimited word from s. A word wrapped in
// single or double quotes may contain spaces; quoted reports whether it was.
func nextToken(s string) (tok string, quoted bool, rest string, ok bool) {
	s = strings.TrimLeft(s, " \t")
	if s == "" {
		return "", false, "", false
	}
	if q := s[0]; q == '"' || q == '\'' {
		if end := strings.IndexByte(s[1:], q); end >= 0 {
			return s[1 : end+1], true, s[end+2:], true
		}
		return s[1:], true, "", true
	}
	if end := strings.IndexAny(s, " \t"); end >= 0 {
		return s[:end], false, s[end:], true
	}
	return s, false, "", true
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
