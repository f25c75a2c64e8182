package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/pontaoski/plaia/concrete"
	"github.com/pontaoski/plaia/machine"
	"github.com/pontaoski/plaia/parser"
	"github.com/ztrue/tracerr"
)

const (
	historyFile = ".plaia_history"
	promptMain  = "plaia> "
	promptCont  = "  ...> "
)

// session is one persistent machine that every REPL statement runs in.
type session struct {
	m      *concrete.Machine
	trace  bool
	source strings.Builder
	out    io.Writer
}

func newSession(opts machine.Options, trace bool, out io.Writer) *session {
	return &session{m: concrete.NewMachine(opts), trace: trace, out: out}
}

func (s *session) printFrame() {
	machine.PrintStore(s.out, s.m.Heap(), s.m.Frame())
}

// command runs a `:name` line and reports whether the session should end.
func (s *session) command(line string) (exit bool) {
	switch strings.TrimSpace(strings.ToLower(line)) {
	case ":quit", ":q":
		return true
	case ":frame":
		if s.m.Depth() > 0 {
			s.printFrame()
		}
	case ":trace":
		concrete.PrintTrace(s.out, s.m, s.source.String())
	default:
		fmt.Fprintln(s.out, "unknown command. Known commands are :quit, :frame and :trace.")
	}
	return false
}

// exec parses and runs one statement. Spans in the trace index into the
// accumulated source, so each statement is parsed at its offset in it.
func (s *session) exec(code string) error {
	if s.source.Len() > 0 {
		s.source.WriteByte('\n')
	}
	prefix := s.source.Len()
	s.source.WriteString(code)

	stmt, err := parser.ParseStatement(blank(s.source.String()[:prefix]) + code)
	if err != nil {
		return err
	}
	if err := concrete.Exec(s.m, stmt, s.trace); err != nil {
		return err
	}

	s.printFrame()
	return nil
}

// blank keeps the line structure of src and nothing else.
func blank(src string) string {
	b := []byte(src)
	for i := range b {
		if b[i] != '\n' {
			b[i] = ' '
		}
	}
	return string(b)
}

func readStatement(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		_, perr := parser.ParseStatement(src)
		if perr != nil && parser.IsIncomplete(perr) && strings.TrimSpace(src) != "" {
			continue
		}
		return src, true
	}
}

func repl(opts machine.Options, trace bool) error {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		ln.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}()

	s := newSession(opts, trace, os.Stdout)
	for {
		code, ok := readStatement(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return nil
		}

		if strings.TrimSpace(code) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		if strings.HasPrefix(strings.TrimSpace(code), ":") {
			if s.command(code) {
				return nil
			}
			continue
		}

		if err := s.exec(code); err != nil {
			tracerr.PrintSourceColor(err)
		}
	}
}
