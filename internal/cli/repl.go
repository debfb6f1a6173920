package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/drscreen/internal/controller"
)

// printlnFn and printFn are test seams for REPL output.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface defines the command surface the REPL dispatches to. App
// satisfies it; tests provide a stub.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Analyze(ctx context.Context, path string) error
	History(ctx context.Context) error
	Summary(ctx context.Context) error
	Delete(ctx context.Context, id int64) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	Passwd(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	Logout(ctx context.Context) error
}

var loggedInOnly = map[string]bool{
	"analyze":       true,
	"history":       true,
	"summary":       true,
	"delete":        true,
	"profile":       true,
	"editprofile":   true,
	"passwd":        true,
	"deleteaccount": true,
	"logout":        true,
}

// runREPL reads commands from reader until EOF, "exit" or "quit", and
// dispatches them to a. Errors returned by handlers are shown to the user
// and do not stop the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printFn(fmt.Sprintf("drscreen %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			printlnFn()
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := strings.ToLower(parts[0])
		rest := strings.TrimSpace(strings.TrimSpace(line)[len(parts[0]):])

		if loggedInOnly[cmd] && !a.isLoggedIn() {
			printlnFn("Please log in first.")
			continue
		}

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: analyze <path>, history, summary, delete <id>, profile, editprofile, passwd, deleteaccount, logout, exit")
			} else {
				printlnFn("Available commands: signup, login, exit")
			}

		case "signup", "register":
			cmdErr = a.Signup(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "analyze":
			if rest == "" {
				printlnFn("Usage: analyze <path>")
				continue
			}
			cmdErr = a.Analyze(ctx, rest)

		case "history", "list", "l":
			cmdErr = a.History(ctx)

		case "summary":
			cmdErr = a.Summary(ctx)

		case "delete":
			id, err := strconv.ParseInt(rest, 10, 64)
			if err != nil {
				printlnFn("Usage: delete <id>")
				continue
			}
			cmdErr = a.Delete(ctx, id)

		case "profile":
			cmdErr = a.Profile(ctx)

		case "editprofile":
			cmdErr = a.EditProfile(ctx)

		case "passwd":
			cmdErr = a.Passwd(ctx)

		case "deleteaccount":
			cmdErr = a.DeleteAccount(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", controller.Message(cmdErr))
		}
	}
}
