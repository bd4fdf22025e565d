package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"github.com/gosimple/slug"
	"github.com/maruel/natural"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"modelpack/config"
	"modelpack/internal/archzip"
	"modelpack/pack"
	"modelpack/state"
)

// initializeAppContext prepares application context before command execution but
// after command line has been parsed.
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	if env.Cfg, err = config.Load(cmd.String("config")); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if env.Log, err = env.Cfg.Logging.Prepare(); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("program started", zap.Strings("args", os.Args))
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}
	env.RestoreStdLog()
	return
}

// Ignore urfave/cli default error handling, errors are returned directly
// from subcommands and reported once here.
var errWasHandled bool

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)
	if env.Log != nil {
		env.Log.Error("program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Log.Warn("unknown command, nothing to do", zap.String("command", name))
}

func main() {
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            "packctl",
		Usage:           "inspect and manipulate content-addressed object packs",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
		},
		Commands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "create an empty pack file",
				ArgsUsage: "FILE",
				Action:    runInit,
			},
			{
				Name:      "dump",
				Usage:     "store raw bytes from a file (or stdin with @-) under a slot key",
				ArgsUsage: "FILE KEY SOURCE",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "suggest-key", Usage: "derive KEY from SOURCE's file name instead of taking it as an argument"},
				},
				Action: runDump,
			},
			{
				Name:      "load",
				Usage:     "write a slot's decoded payload to stdout",
				ArgsUsage: "FILE KEY",
				Action:    runLoad,
			},
			{
				Name:      "remove",
				Usage:     "delete a slot from a pack",
				ArgsUsage: "FILE KEY",
				Action:    runRemove,
			},
			{
				Name:      "list",
				Usage:     "list slot keys in natural sort order",
				ArgsUsage: "FILE",
				Action:    runList,
			},
			{
				Name:      "inspect",
				Usage:     "show manifest metadata and a raw walk of every ZIP entry",
				ArgsUsage: "FILE",
				Action:    runInspect,
			},
			{
				Name:      "repair",
				Usage:     "rebuild a pack's ZIP directory without data descriptors",
				ArgsUsage: "FILE OUT",
				Action:    runRepair,
			},
		},
	}

	var err error
	defer func() {
		stop()
		if err != nil {
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "packctl: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func runInit(_ context.Context, cmd *cli.Command) error {
	fname := cmd.Args().Get(0)
	if len(fname) == 0 {
		return fmt.Errorf("usage: packctl init FILE")
	}
	f, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("unable to create %s: %w", fname, err)
	}
	defer f.Close()

	p, err := pack.Open(f)
	if err != nil {
		return fmt.Errorf("unable to initialize pack: %w", err)
	}
	return p.Close()
}

func runDump(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	var fname, key, source string
	if cmd.Bool("suggest-key") {
		if cmd.Args().Len() < 2 {
			return fmt.Errorf("usage: packctl dump --suggest-key FILE SOURCE")
		}
		fname, source = cmd.Args().Get(0), cmd.Args().Get(1)
		key = slug.Make(baseNameWithoutExt(source))
	} else {
		if cmd.Args().Len() < 3 {
			return fmt.Errorf("usage: packctl dump FILE KEY SOURCE")
		}
		fname, key, source = cmd.Args().Get(0), cmd.Args().Get(1), cmd.Args().Get(2)
	}

	data, err := readSource(source)
	if err != nil {
		return fmt.Errorf("unable to read %s: %w", source, err)
	}

	f, p, err := openExisting(fname)
	if err != nil {
		return err
	}
	defer f.Close()
	defer p.Close()

	if err := p.Dump(key, data); err != nil {
		return fmt.Errorf("unable to dump slot %s: %w", key, err)
	}
	if env.Log != nil {
		env.Log.Info("stored slot", zap.String("key", key), zap.String("source", source))
	}
	return nil
}

func runLoad(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 2 {
		return fmt.Errorf("usage: packctl load FILE KEY")
	}
	fname, key := cmd.Args().Get(0), cmd.Args().Get(1)

	f, p, err := openExisting(fname)
	if err != nil {
		return err
	}
	defer f.Close()
	defer p.Close()

	obj, err := p.Load(key)
	if err != nil {
		return fmt.Errorf("unable to load slot %s: %w", key, err)
	}

	if data, ok := obj.([]byte); ok {
		_, err = os.Stdout.Write(data)
		return err
	}
	_, err = fmt.Fprintf(os.Stdout, "%v\n", obj)
	return err
}

func runRemove(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 2 {
		return fmt.Errorf("usage: packctl remove FILE KEY")
	}
	fname, key := cmd.Args().Get(0), cmd.Args().Get(1)

	f, p, err := openExisting(fname)
	if err != nil {
		return err
	}
	defer f.Close()
	defer p.Close()

	if err := p.Remove(key); err != nil {
		return fmt.Errorf("unable to remove slot %s: %w", key, err)
	}
	return nil
}

func runList(_ context.Context, cmd *cli.Command) error {
	fname := cmd.Args().Get(0)
	if len(fname) == 0 {
		return fmt.Errorf("usage: packctl list FILE")
	}

	f, p, err := openExisting(fname)
	if err != nil {
		return err
	}
	defer f.Close()
	defer p.Close()

	slots := p.SlotsInfo()
	keys := make([]string, 0, len(slots))
	for k := range slots {
		keys = append(keys, k)
	}
	sort.Sort(natural.StringSlice(keys))

	for _, k := range keys {
		s := slots[k]
		short := s.SHA256
		if len(short) > 12 {
			short = short[:12]
		}
		fmt.Fprintf(os.Stdout, "%s\t%s\t%s\n", k, s.CodecTag, short)
	}
	return nil
}

func runInspect(_ context.Context, cmd *cli.Command) error {
	fname := cmd.Args().Get(0)
	if len(fname) == 0 {
		return fmt.Errorf("usage: packctl inspect FILE")
	}

	f, p, err := openExisting(fname)
	if err != nil {
		return err
	}
	defer f.Close()
	defer p.Close()

	man := p.ManifestInfo()
	fmt.Fprintf(os.Stdout, "created_at: %s\nupdated_at: %s\nslots: %d\ndependencies: %d\n\n",
		man.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		man.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
		len(man.Slots()), len(man.Dependencies()))

	fmt.Fprintln(os.Stdout, "zip entries:")
	return archzip.Walk(fname, func(e archzip.Entry) error {
		verdict := "dangling"
		if e.Live {
			verdict = "live"
		}
		fmt.Fprintf(os.Stdout, "  %-40s %10d bytes  %s\n", e.File.Name, e.File.UncompressedSize64, verdict)
		return nil
	})
}

func runRepair(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 2 {
		return fmt.Errorf("usage: packctl repair FILE OUT")
	}
	fname, outName := cmd.Args().Get(0), cmd.Args().Get(1)

	f, p, err := openExisting(fname)
	if err != nil {
		return err
	}
	defer f.Close()
	defer p.Close()

	out, err := os.Create(outName)
	if err != nil {
		return fmt.Errorf("unable to create %s: %w", outName, err)
	}
	if err := p.Repair(out); err != nil {
		return multierr.Append(fmt.Errorf("unable to repair pack: %w", err), out.Close())
	}
	return multierr.Append(nil, out.Close())
}

func openExisting(fname string) (*os.File, *pack.Pack, error) {
	f, err := os.OpenFile(fname, os.O_RDWR, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open %s: %w", fname, err)
	}
	p, err := pack.Open(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("unable to open pack %s: %w", fname, err)
	}
	return f, p, nil
}

func readSource(source string) ([]byte, error) {
	if source == "@-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(source)
}

func baseNameWithoutExt(path string) string {
	base := path
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '/' || base[i] == '\\' {
			base = base[i+1:]
			break
		}
	}
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '.' {
			return base[:i]
		}
	}
	return base
}
