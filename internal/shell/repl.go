package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// LineReader yields one input line at a time and io.EOF at the end.
// *term.Terminal satisfies it.
type LineReader interface {
	ReadLine() (string, error)
}

type prompter interface {
	SetPrompt(prompt string)
}

// REPL reads commands interactively until exit or end of input.
type REPL struct {
	session    *Session
	dispatcher *Dispatcher
	out        io.Writer
}

// NewREPL returns a REPL writing results to out.
func NewREPL(s *Session, d *Dispatcher, out io.Writer) *REPL {
	return &REPL{session: s, dispatcher: d, out: out}
}

type readResult struct {
	line string
	err  error
}

// Run loops until exit, end of input, or ctx is done. When in can show
// its own prompt (a terminal line editor), the prompt is handed to it;
// otherwise it is written to out.
//
// Each read runs in its own goroutine so a cancelled ctx returns
// immediately even while a read is blocked. That read is abandoned.
func (r *REPL) Run(ctx context.Context, in LineReader) error {
	p, ownPrompt := in.(prompter)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		if ownPrompt {
			p.SetPrompt(r.session.Prompt())
		} else {
			fmt.Fprint(r.out, r.session.Prompt())
		}

		lines := make(chan readResult, 1)
		go func() {
			line, err := in.ReadLine()
			lines <- readResult{line: line, err: err}
		}()

		var res readResult
		select {
		case <-ctx.Done():
			return nil
		case res = <-lines:
		}

		if res.err == io.EOF {
			return nil
		}
		if res.err != nil {
			return fmt.Errorf("read input: %w", res.err)
		}

		result := r.dispatcher.Execute(res.line)
		if result.Output != "" {
			fmt.Fprintln(r.out, result.Output)
		}
		if result.Exit {
			return nil
		}
	}
}

type scannerReader struct {
	scanner *bufio.Scanner
}

// NewLineReader wraps a plain reader, such as piped stdin.
func NewLineReader(r io.Reader) LineReader {
	return &scannerReader{scanner: bufio.NewScanner(r)}
}

func (s *scannerReader) ReadLine() (string, error) {
	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
