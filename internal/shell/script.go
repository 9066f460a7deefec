package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"vfsshell/internal/logging"
	"vfsshell/internal/metrics"

	"github.com/spf13/afero"
)

var (
	scriptLogger = logging.GetLogger().WithPrefix("script")

	// ErrExit is returned when a script runs the exit command
	ErrExit = errors.New("session exit requested")

	// ErrScriptFailed is returned when a script line reports an error
	ErrScriptFailed = errors.New("script command failed")
)

// Player feeds script lines to a dispatcher and writes a transcript.
type Player struct {
	dispatcher *Dispatcher
	session    *Session
	out        io.Writer
}

// NewPlayer returns a player writing its transcript to out.
func NewPlayer(s *Session, d *Dispatcher, out io.Writer) *Player {
	return &Player{dispatcher: d, session: s, out: out}
}

// RunFile plays the script at path.
func (p *Player) RunFile(fsys afero.Fs, path string) error {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	fmt.Fprintf(p.out, "Running startup script: %s\n\n", path)

	f, err := fsys.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(p.out, "Error: startup script '%s' not found.\n", path)
		} else {
			fmt.Fprintf(p.out, "Error reading startup script: %v\n", err)
		}
		return fmt.Errorf("open script %s: %w", path, err)
	}
	defer f.Close()

	if err := p.Run(f); err != nil {
		return err
	}
	fmt.Fprintf(p.out, "\nStartup script '%s' completed.\n", path)
	return nil
}

// Run plays lines from r. Blank lines and lines starting with '#' are
// skipped. Playback stops at the first failed command.
func (p *Player) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fmt.Fprintf(p.out, "%s%s\n", p.session.Prompt(), line)
		res := p.dispatcher.Execute(line)
		metrics.RecordScriptLine()
		if res.Output != "" {
			fmt.Fprintln(p.out, res.Output)
		}

		if res.Failed {
			scriptLogger.Warn("Script stopped at line %d: %s", lineNo, line)
			fmt.Fprintln(p.out, "\nScript failed, stopping.")
			return fmt.Errorf("line %d %q: %w", lineNo, line, ErrScriptFailed)
		}
		if res.Exit {
			return ErrExit
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(p.out, "Error reading startup script: %v\n", err)
		return fmt.Errorf("read script: %w", err)
	}
	return nil
}
