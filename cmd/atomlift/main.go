package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	v1 "technuob.com/atomlift/atomlift/v1"
	"technuob.com/atomlift/attendance"
	"technuob.com/atomlift/infrastructure/communication"
	"technuob.com/atomlift/infrastructure/devops"
	"technuob.com/atomlift/infrastructure/logging"
	"technuob.com/atomlift/session"
)

type app struct {
	cfg     devops.Config
	log     zerolog.Logger
	out     io.Writer
	store   *session.Store
	client  *v1.AtomliftClient
	session *session.Manager
	tracker *attendance.Tracker
	slack   *communication.Slack
}

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"login":      cmdLogin,
	"otp":        cmdOTP,
	"logout":     cmdLogout,
	"whoami":     cmdWhoami,
	"attendance": cmdAttendance,
	"leave":      cmdLeave,
	"complaints": cmdComplaints,
	"amc":        cmdAMC,
	"customers":  cmdCustomers,
	"travel":     cmdTravel,
	"materials":  cmdMaterials,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("atomlift", flag.ContinueOnError)
	global.SetOutput(stderr)
	configPath := global.String("config", os.Getenv("ATOMLIFT_CONFIG"), "config file, or ssm:<parameter>")
	global.Usage = func() {
		fmt.Fprintf(stderr, "usage: atomlift [-config path] <command> [args]\ncommands: %s\n", strings.Join(commandNames(), ", "))
	}
	if err := global.Parse(args); err != nil {
		return 2
	}
	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return 2
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", rest[0])
		global.Usage()
		return 2
	}

	cfg, err := devops.Load(ctx, *configPath)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	log := logging.New(logging.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Writer: stderr, Service: "atomlift-cli"})

	a, err := newApp(cfg, log, stdout)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	a.session.Restore(ctx)

	if err := cmd(ctx, a, rest[1:]); err != nil {
		var ue *usageError
		if errors.As(err, &ue) {
			fmt.Fprintf(stderr, "usage: atomlift %s %s\n", rest[0], ue.line)
			return 2
		}
		if errors.Is(err, v1.ErrAuthRequired) {
			fmt.Fprintln(stderr, "Error: not logged in, run `atomlift login` first")
			return 1
		}
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

// newApp wires the store, client, session and tracker from cfg.
func newApp(cfg devops.Config, log zerolog.Logger, out io.Writer) (*app, error) {
	kv, err := session.NewFileKV(cfg.StateDir)
	if err != nil {
		return nil, fmt.Errorf("open state dir: %w", err)
	}
	store := session.NewStore(kv, log)
	client := v1.NewAtomliftClient(cfg.BaseURL, store, v1.WithTimeout(cfg.Timeout), v1.WithLogger(log))

	a := &app{
		cfg:     cfg,
		log:     log,
		out:     out,
		store:   store,
		client:  client,
		session: session.NewManager(client.Auth, store, log),
	}

	var opts []attendance.Option
	if a.slack = communication.ConnectSlack(cfg.Slack); a.slack != nil {
		opts = append(opts, attendance.WithNotifier(a.slack))
	}
	a.tracker = attendance.NewTracker(client.Attendance, log, opts...)
	return a, nil
}

// usageError is printed as the command's usage line rather than as an error.
type usageError struct {
	line string
}

func (e *usageError) Error() string {
	return "usage: " + e.line
}

func usage(line string) error {
	return &usageError{line: line}
}

// dispatch runs the subcommand named by args[0].
func dispatch(ctx context.Context, a *app, args []string, subs map[string]command) error {
	names := make([]string, 0, len(subs))
	for name := range subs {
		names = append(names, name)
	}
	sort.Strings(names)
	line := strings.Join(names, "|")

	if len(args) == 0 {
		return usage(line)
	}
	sub, ok := subs[args[0]]
	if !ok {
		return usage(line)
	}
	return sub(ctx, a, args[1:])
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parse wraps flag parsing errors as usage errors.
func parse(fs *flag.FlagSet, args []string, line string) error {
	if err := fs.Parse(args); err != nil {
		return usage(line)
	}
	return nil
}
