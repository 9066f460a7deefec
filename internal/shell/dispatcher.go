package shell

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"vfsshell/internal/logging"
	"vfsshell/internal/metrics"
	"vfsshell/internal/vfs"
)

var (
	dispatchLogger = logging.GetLogger().WithPrefix("dispatch")
)

// Result is the outcome of one command line.
type Result struct {
	// Output is the text to show the user, without a trailing newline
	Output string
	// Failed marks a command error; script playback stops on it
	Failed bool
	// Exit asks the front-end to end the session
	Exit bool
}

// CommandFunc handles one command's arguments.
type CommandFunc func(args []string) Result

// Dispatcher maps command words to handlers bound to one session.
type Dispatcher struct {
	session  *Session
	commands map[string]CommandFunc
	getenv   func(string) string
}

// NewDispatcher returns a dispatcher with the built-in commands.
func NewDispatcher(s *Session) *Dispatcher {
	d := &Dispatcher{
		session: s,
		getenv:  os.Getenv,
	}
	d.commands = map[string]CommandFunc{
		"ls":   d.ls,
		"cd":   d.cd,
		"pwd":  d.pwd,
		"echo": d.echo,
		"exit": d.exit,
	}
	return d
}

// SetEnv replaces the variable lookup used for $NAME expansion.
func (d *Dispatcher) SetEnv(getenv func(string) string) {
	d.getenv = getenv
}

// Commands returns the registered command names in order.
func (d *Dispatcher) Commands() []string {
	names := make([]string, 0, len(d.commands))
	for name := range d.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute parses and runs one command line. A blank line is a no-op.
func (d *Dispatcher) Execute(line string) Result {
	words, err := ParseCommand(line, d.getenv)
	if err != nil {
		return Result{Output: fmt.Sprintf("Error: %v", err), Failed: true}
	}
	if len(words) == 0 {
		return Result{}
	}

	name, args := words[0], words[1:]
	cmd, ok := d.commands[name]
	if !ok {
		dispatchLogger.Debug("Unknown command %q", name)
		metrics.RecordCommand("unknown", false)
		return Result{Output: fmt.Sprintf("Error: unknown command '%s'", name), Failed: true}
	}

	dispatchLogger.Trace("Running %s %v", name, args)
	res := cmd(args)
	metrics.RecordCommand(name, !res.Failed)
	return res
}

func (d *Dispatcher) ls(args []string) Result {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	names, err := d.session.Store.ListDirectory(path)
	if err != nil {
		return failure("ls", path, err)
	}
	return Result{Output: strings.Join(names, "  ")}
}

func (d *Dispatcher) cd(args []string) Result {
	if len(args) == 0 || args[0] == "" {
		return Result{Output: "cd: missing operand (path required)", Failed: true}
	}
	if err := d.session.Store.ChangeDirectory(args[0]); err != nil {
		return failure("cd", args[0], err)
	}
	return Result{}
}

func (d *Dispatcher) pwd(_ []string) Result {
	return Result{Output: d.session.Store.CurrentAbsolutePath()}
}

func (d *Dispatcher) echo(args []string) Result {
	return Result{Output: strings.Join(args, " ")}
}

func (d *Dispatcher) exit(_ []string) Result {
	return Result{Output: "Exiting...", Exit: true}
}

// failure formats a store error for the user.
func failure(cmd, arg string, err error) Result {
	if arg == "" {
		arg = "."
	}
	var msg string
	switch {
	case errors.Is(err, vfs.ErrNotADirectory):
		msg = fmt.Sprintf("%s: %s: Not a directory", cmd, arg)
	case errors.Is(err, vfs.ErrNotFound):
		msg = fmt.Sprintf("%s: %s: No such file or directory", cmd, arg)
	default:
		msg = fmt.Sprintf("%s: %v", cmd, err)
	}
	return Result{Output: msg, Failed: true}
}
