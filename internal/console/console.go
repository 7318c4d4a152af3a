// Package console is the line-oriented command layer on top of a session.
// It parses commands, calls the session and renders results and error
// codes as text.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"hackterm/internal/domain"
	"hackterm/internal/service"
)

// ErrExit is returned by Execute when the player asks to quit
var ErrExit = errors.New("exit requested")

type command struct {
	usage string
	help  string
	run   func(ctx context.Context, args []string) error
}

// Console dispatches commands against a session
type Console struct {
	session  *service.Session
	out      io.Writer
	savePath string
	commands map[string]command

	prompt *color.Color
	alert  *color.Color
	accent *color.Color
}

// Option configures a Console
type Option func(*Console)

// WithSavePath sets the path save and load use when called without one
func WithSavePath(path string) Option {
	return func(c *Console) { c.savePath = path }
}

// New creates a console writing to out
func New(s *service.Session, out io.Writer, opts ...Option) *Console {
	c := &Console{
		session: s,
		out:     out,
		prompt:  color.New(color.FgGreen, color.Bold),
		alert:   color.New(color.FgRed),
		accent:  color.New(color.FgCyan),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.commands = map[string]command{
		"help":      {"help", "show this message", c.cmdHelp},
		"scan":      {"scan", "list servers linked to the current one", c.cmdScan},
		"connect":   {"connect <name>", "move to a linked server", c.cmdConnect},
		"info":      {"info", "show the current server", c.cmdInfo},
		"home":      {"home", "return to the home server", c.cmdHome},
		"save":      {"save [path]", "save the game", c.cmdSave},
		"load":      {"load [path]", "load a saved game", c.cmdLoad},
		"snapshot":  {"snapshot [label]", "archive the current game", c.cmdSnapshot},
		"snapshots": {"snapshots", "list archived games", c.cmdSnapshots},
		"restore":   {"restore <id>", "bring back an archived game", c.cmdRestore},
		"echo":      {"echo <text>", "print text", c.cmdEcho},
		"exit":      {"exit", "quit hackterm", c.cmdExit},
		"quit":      {"quit", "quit hackterm", c.cmdExit},
	}
	return c
}

// Execute runs one command line. Failures are printed as
// "<command>: <CODE>"; ErrExit is returned when the player quits.
func (c *Console) Execute(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	name, args := strings.ToLower(fields[0]), fields[1:]
	cmd, ok := c.commands[name]
	if !ok {
		c.alert.Fprintf(c.out, "Unknown command: %s\n", fields[0])
		return nil
	}

	err := cmd.run(ctx, args)
	if errors.Is(err, ErrExit) {
		return err
	}
	if err != nil {
		c.alert.Fprintf(c.out, "%s: %s\n", name, domain.CodeOf(err))
	}
	return nil
}

// Run reads commands from in until it is exhausted, exit is entered or
// ctx is cancelled.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		c.writePrompt()
		if !scanner.Scan() {
			fmt.Fprintln(c.out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.Execute(ctx, scanner.Text()); errors.Is(err, ErrExit) {
			return nil
		}
	}
}

func (c *Console) writePrompt() {
	name := "?"
	if srv, err := c.session.CurrentServer(); err == nil {
		name = srv.Name
	}
	c.prompt.Fprintf(c.out, "%s$ ", name)
}

func (c *Console) cmdHelp(context.Context, []string) error {
	names := make([]string, 0, len(c.commands))
	for name := range c.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(c.out, "Available commands:")
	for _, name := range names {
		cmd := c.commands[name]
		fmt.Fprintf(c.out, "  %-18s - %s\n", cmd.usage, cmd.help)
	}
	return nil
}

func (c *Console) cmdScan(context.Context, []string) error {
	ids := c.session.Scan()
	if len(ids) == 0 {
		fmt.Fprintln(c.out, "No servers in range.")
		return nil
	}

	for _, id := range ids {
		srv, err := c.session.Server(id)
		if err != nil {
			continue
		}
		fmt.Fprintf(c.out, "  %-4d %-32s %s\n", id, c.accent.Sprint(srv.Name), srv.Type)
	}
	return nil
}

func (c *Console) cmdConnect(_ context.Context, args []string) error {
	if len(args) == 0 {
		return domain.ErrInvalidArgument
	}
	id, err := c.session.ConnectByName(args[0])
	if err != nil {
		return err
	}
	return c.connected(id)
}

func (c *Console) cmdHome(context.Context, []string) error {
	home := c.session.Home()
	if c.session.Current() == home {
		fmt.Fprintln(c.out, "Already home.")
		return nil
	}
	if err := c.session.Connect(home); err != nil {
		return err
	}
	return c.connected(home)
}

func (c *Console) connected(id domain.ServerID) error {
	srv, err := c.session.Server(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Connected to %s\n", c.accent.Sprint(srv.Name))
	return nil
}

func (c *Console) cmdInfo(context.Context, []string) error {
	srv, err := c.session.CurrentServer()
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "%s (id %d)\n", c.accent.Sprint(srv.Name), srv.ID)
	fmt.Fprintf(c.out, "  type:     %s\n", srv.Type)
	fmt.Fprintf(c.out, "  security: %d\n", srv.Security)
	fmt.Fprintf(c.out, "  money:    %d\n", srv.Money)
	fmt.Fprintf(c.out, "  links:    %d\n", len(srv.Links))
	if len(srv.Services) == 0 {
		fmt.Fprintln(c.out, "  services: none")
		return nil
	}
	fmt.Fprintln(c.out, "  services:")
	for _, svc := range srv.Services {
		fmt.Fprintf(c.out, "    %-5d %-15s vuln %d\n", svc.Port, svc.Name, svc.VulnLevel)
	}
	return nil
}

func (c *Console) pathArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return c.savePath
}

func (c *Console) cmdSave(_ context.Context, args []string) error {
	path := c.pathArg(args)
	if err := c.session.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Saved to %s\n", path)
	return nil
}

func (c *Console) cmdLoad(_ context.Context, args []string) error {
	path := c.pathArg(args)
	if err := c.session.Load(path); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Loaded %s (%d servers)\n", path, c.session.Network().Len())
	return nil
}

func (c *Console) cmdSnapshot(ctx context.Context, args []string) error {
	snap, err := c.session.Snapshot(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Snapshot %s (%d servers)\n", snap.ID, snap.ServerCount)
	return nil
}

func (c *Console) cmdSnapshots(ctx context.Context, _ []string) error {
	snaps, err := c.session.Snapshots(ctx)
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Fprintln(c.out, "No snapshots.")
		return nil
	}
	for _, snap := range snaps {
		fmt.Fprintf(c.out, "  %s  %s  %4d servers  %s\n",
			snap.ID, snap.CreatedAt.Format("2006-01-02 15:04:05"), snap.ServerCount, snap.Label)
	}
	return nil
}

func (c *Console) cmdRestore(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return domain.ErrInvalidArgument
	}
	if err := c.session.Restore(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Restored %s\n", args[0])
	return nil
}

func (c *Console) cmdEcho(_ context.Context, args []string) error {
	fmt.Fprintln(c.out, strings.Join(args, " "))
	return nil
}

func (c *Console) cmdExit(context.Context, []string) error {
	return ErrExit
}
