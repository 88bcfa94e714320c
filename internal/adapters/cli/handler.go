package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"futbal/internal/infrastructure/i18n"
	"futbal/internal/ports/input"
	"futbal/internal/ports/output"
)

const prompt = "futbal> "

// errQuit ends the read loop.
var errQuit = errors.New("quit")

// errUsage asks the loop to print the usage line of the current command.
var errUsage = errors.New("usage")

type command struct {
	usage string
	run   func(ctx context.Context, args []string) error
}

// Handler runs the interactive shell over the use cases.
type Handler struct {
	directory     input.DirectoryUseCase
	participation input.ParticipationUseCase
	owner         input.OwnerUseCase
	session       input.SessionUseCase
	profile       input.ProfileUseCase
	tr            output.Translator
	loc           *time.Location
	log           *zap.Logger

	in       *bufio.Scanner
	out      io.Writer
	now      func() time.Time
	commands map[string]command
	order    []string
}

// NewHandler creates a Handler reading commands from in and writing to out.
func NewHandler(
	directory input.DirectoryUseCase,
	participation input.ParticipationUseCase,
	owner input.OwnerUseCase,
	session input.SessionUseCase,
	profile input.ProfileUseCase,
	tr output.Translator,
	loc *time.Location,
	logger *zap.Logger,
	in io.Reader,
	out io.Writer,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	h := &Handler{
		directory:     directory,
		participation: participation,
		owner:         owner,
		session:       session,
		profile:       profile,
		tr:            tr,
		loc:           loc,
		log:           logger,
		in:            bufio.NewScanner(in),
		out:           out,
		now:           time.Now,
	}
	h.registerCommands()
	return h
}

func (h *Handler) register(name, usage string, run func(ctx context.Context, args []string) error) {
	h.commands[name] = command{usage: usage, run: run}
	h.order = append(h.order, name)
}

func (h *Handler) registerCommands() {
	h.commands = make(map[string]command)
	h.register("events", "events", h.handleEvents)
	h.register("filter", "filter <text|-> ["+typeChoices("|", true)+"]", h.handleFilter)
	h.register("show", "show <id>", h.handleShow)
	h.register("join", "join <id>", h.handleJoin)
	h.register("leave", "leave <id>", h.handleLeave)
	h.register("login", "login <username> <password>", h.handleLogin)
	h.register("google", "google <access-token>", h.handleGoogle)
	h.register("signup", "signup <username> <email> <password> [first] [last]", h.handleSignup)
	h.register("logout", "logout", h.handleLogout)
	h.register("whoami", "whoami", h.handleWhoami)
	h.register("profile", "profile [set field=value...]", h.handleProfile)
	h.register("mine", "mine", h.handleMine)
	h.register("joined", "joined", h.handleJoined)
	h.register("create", "create title=... desc=... where=... start=\"YYYY-MM-DD HH:MM\" end=... [type=...] [max=N] [lat=.. lng=..]", h.handleCreate)
	h.register("update", "update <id> field=value...", h.handleUpdate)
	h.register("delete", "delete <id> [--yes]", h.handleDelete)
	h.register("kick", "kick <event-id> <user-id>", h.handleKick)
	h.register("seed", "seed", h.handleSeed)
	h.register("help", "help", h.handleHelp)
	h.register("quit", "quit", func(context.Context, []string) error { return errQuit })
}

// Run reads commands until EOF, "quit" or ctx is done. Command failures are
// reported and never end the loop.
func (h *Handler) Run(ctx context.Context) error {
	h.session.Initialize(ctx)
	if _, err := h.directory.Refresh(ctx); err != nil {
		h.printError(err)
	}
	h.println(h.tr.T("shell.welcome", nil))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(h.out, prompt)
		if !h.in.Scan() {
			fmt.Fprintln(h.out)
			return h.in.Err()
		}
		if err := h.Exec(ctx, h.in.Text()); errors.Is(err, errQuit) {
			h.println(h.tr.T("shell.bye", nil))
			return nil
		}
	}
}

// Exec runs one command line and prints its outcome. It returns errQuit for "quit"
// and the command's error otherwise.
func (h *Handler) Exec(ctx context.Context, line string) error {
	args, err := tokenize(line)
	if err != nil {
		h.println(h.tr.T("shell.bad_quotes", nil))
		return err
	}
	if len(args) == 0 {
		return nil
	}
	name := strings.ToLower(args[0])
	if name == "exit" {
		name = "quit"
	}
	cmd, ok := h.commands[name]
	if !ok {
		h.println(h.tr.T("shell.unknown_command", map[string]any{"Name": args[0]}))
		return fmt.Errorf("unknown command %q", args[0])
	}

	err = cmd.run(ctx, args[1:])
	switch {
	case err == nil, errors.Is(err, errQuit):
	case errors.Is(err, errUsage):
		h.println(h.tr.T("shell.usage", map[string]any{"Usage": cmd.usage}))
	default:
		h.log.Debug("command failed", zap.String("command", name), zap.Error(err))
		h.printError(err)
	}
	return err
}

// ensureLoaded fetches the directory when no refresh has succeeded yet, so ids can
// be resolved after a failed startup refresh.
func (h *Handler) ensureLoaded(ctx context.Context) error {
	if h.directory.Loaded() {
		return nil
	}
	h.println(h.tr.T("shell.loading", nil))
	_, err := h.directory.Refresh(ctx)
	return err
}

func (h *Handler) println(s string) { fmt.Fprintln(h.out, s) }

func (h *Handler) printError(err error) {
	fmt.Fprintln(h.out, "! "+i18n.ErrorMessage(h.tr, err))
}

// confirm asks a yes/no question on the shell's input. Anything but yes is no.
func (h *Handler) confirm(question string) bool {
	fmt.Fprint(h.out, question)
	if !h.in.Scan() {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(h.in.Text())) {
	case "y", "yes", "o", "oui":
		return true
	}
	return false
}
