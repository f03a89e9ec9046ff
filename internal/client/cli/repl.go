package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// errPanic marks a command that panicked; the REPL keeps running.
var errPanic = errors.New("command failed unexpectedly")

// userError is a console usage problem shown to the user verbatim.
type userError string

func (e userError) Error() string       { return string(e) }
func (e userError) UserMessage() string { return string(e) }

func usage(format string, args ...any) error {
	return userError("Usage: " + fmt.Sprintf(format, args...))
}

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	report(ctx context.Context, err error)

	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error

	Navigate(ctx context.Context, path string) error
	Nav(ctx context.Context, group string) error
	Theme(ctx context.Context, value string) error
	Menu(ctx context.Context, value string) error
	Width(ctx context.Context, value string) error
	Branch(ctx context.Context, id string) error
	Prefs(ctx context.Context, args []string) error

	Search(ctx context.Context, text string) error
	Filter(ctx context.Context, key, value string) error
	Clear(ctx context.Context) error
	Refresh(ctx context.Context) error

	Add(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Show(ctx context.Context, id string) error
	Actions(ctx context.Context, id string) error
	Archive(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error

	Enroll(ctx context.Context, student, group string) error
	Pay(ctx context.Context) error
	Profile(ctx context.Context) error
	Password(ctx context.Context) error
	Find(ctx context.Context, text string) error
}

const (
	anonymousHelp = "Available commands: login, help, exit"
	memberHelp    = `Available commands:
  go <path>, nav [group]         move between screens
  search <text>, filter <k> <v>  narrow the current list
  clear, refresh                 reset filters, reload
  add, edit <id>, show <id>      create, change, inspect a row
  actions <id>                   row actions menu
  archive <id>, restore <id>     archive or restore a row
  delete <id>                    delete a row permanently
  enroll <student> <group>, pay  enrollment and payments
  find <text>                    search students and teachers
  profile, password              your account
  theme <light|dark|mixed>, menu <vertical|horizontal>, width <full|contained>
  branch [id], prefs [reset]     preferences
  whoami, logout, exit`
)

// runREPL starts the read–eval–print loop of the admin console.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Errors returned by a command are shown as
// failure notifications and a panicking command is reported the same way,
// so the loop keeps running. The loop exits on EOF or when the user types
// "exit" or "quit".
//
// The prompt shows the current status (from statusFn): the signed-in user
// and the current path.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("edu %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}
		execute(ctx, a, cmd, args)
	}
}

// execute runs one command, turning errors and panics into notifications.
func execute(ctx context.Context, a execIface, cmd string, args []string) {
	defer func() {
		if r := recover(); r != nil {
			a.report(ctx, fmt.Errorf("%w: %s: %v", errPanic, cmd, r))
		}
	}()
	if err := dispatch(ctx, a, cmd, args); err != nil {
		a.report(ctx, err)
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	arg := func(i int) string {
		if i < len(args) {
			return args[i]
		}
		return ""
	}
	rest := strings.Join(args, " ")

	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(memberHelp)
		} else {
			printlnFn(anonymousHelp)
		}
		return nil
	case "login":
		return a.Login(ctx)
	}

	if !a.isLoggedIn() {
		printlnFn("Unknown command:", cmd)
		printlnFn(anonymousHelp)
		return nil
	}

	switch cmd {
	case "logout":
		return a.Logout(ctx)
	case "whoami":
		return a.Whoami(ctx)

	case "go":
		if len(args) != 1 {
			return usage("go <path>")
		}
		return a.Navigate(ctx, args[0])
	case "nav":
		return a.Nav(ctx, rest)
	case "theme":
		return a.Theme(ctx, arg(0))
	case "menu":
		return a.Menu(ctx, arg(0))
	case "width":
		return a.Width(ctx, arg(0))
	case "branch":
		return a.Branch(ctx, arg(0))
	case "prefs":
		return a.Prefs(ctx, args)

	case "search":
		return a.Search(ctx, rest)
	case "filter":
		if len(args) < 1 {
			return usage("filter <key> [value]")
		}
		return a.Filter(ctx, args[0], strings.Join(args[1:], " "))
	case "clear":
		return a.Clear(ctx)
	case "refresh":
		return a.Refresh(ctx)

	case "add":
		return a.Add(ctx)
	case "edit", "show", "actions", "archive", "restore", "delete":
		if len(args) != 1 {
			return usage("%s <id>", cmd)
		}
		return rowCommand(ctx, a, cmd, args[0])

	case "enroll":
		if len(args) != 2 {
			return usage("enroll <student id> <group id>")
		}
		return a.Enroll(ctx, args[0], args[1])
	case "pay":
		return a.Pay(ctx)
	case "profile":
		return a.Profile(ctx)
	case "password":
		return a.Password(ctx)
	case "find":
		return a.Find(ctx, rest)
	}

	printlnFn("Unknown command:", cmd)
	return nil
}

func rowCommand(ctx context.Context, a execIface, cmd, id string) error {
	switch cmd {
	case "edit":
		return a.Edit(ctx, id)
	case "show":
		return a.Show(ctx, id)
	case "actions":
		return a.Actions(ctx, id)
	case "archive":
		return a.Archive(ctx, id)
	case "restore":
		return a.Restore(ctx, id)
	default:
		return a.Delete(ctx, id)
	}
}
