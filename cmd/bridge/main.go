package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/wippyai/scriptbridge/command"
	"github.com/wippyai/scriptbridge/config"
	"github.com/wippyai/scriptbridge/host"
	"github.com/wippyai/scriptbridge/irc"
	"github.com/wippyai/scriptbridge/object"
	"github.com/wippyai/scriptbridge/proxy"
	"github.com/wippyai/scriptbridge/script"
	"github.com/wippyai/scriptbridge/signal"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Path to "+config.FileName)
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		demo        = flag.Bool("demo", false, "Seed a server and sample DCC connections")
	)
	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(cfg, *demo); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg, *demo, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the process logger from the [log] section, writing to w.
func newLogger(cfg config.Log, w io.Writer) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encoder := zapcore.NewJSONEncoder(encCfg)
	if cfg.Development {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), level)
	var opts []zap.Option
	if cfg.Development {
		opts = append(opts, zap.Development(), zap.AddCaller())
	}
	return zap.New(core, opts...), nil
}

// setLoggers installs l in every package that logs.
func setLoggers(l *zap.Logger) {
	signal.SetLogger(l.Named("signal"))
	irc.SetLogger(l.Named("irc"))
	object.SetLogger(l.Named("object"))
	command.SetLogger(l.Named("command"))
	proxy.SetLogger(l.Named("proxy"))
	script.SetLogger(l.Named("script"))
	host.SetLogger(l.Named("host"))
}

// start creates the host, seeds demo data and loads autoload scripts.
func start(ctx context.Context, cfg *config.Config, demo bool, out io.Writer) (*host.Host, *console, error) {
	h := host.New(&host.Config{
		Output:           out,
		DefaultCategory:  cfg.Commands.DefaultCategory,
		MemoryLimitPages: cfg.WASM.MemoryLimitPages,
	})
	if demo {
		if err := seedDemo(h.Core()); err != nil {
			h.Close(ctx)
			return nil, nil, fmt.Errorf("demo: %w", err)
		}
	}
	c := newConsole(h, cfg)

	for _, s := range cfg.Autoload() {
		unit, err := unitFor(cfg, s)
		if err == nil {
			err = h.Load(ctx, unit, s.Args)
		}
		if err != nil {
			c.close()
			h.Close(ctx)
			return nil, nil, fmt.Errorf("autoload %s: %w", s.Name, err)
		}
	}
	return h, c, nil
}

func run(cfg *config.Config, demo bool, in io.Reader, out io.Writer) error {
	ctx := context.Background()

	logger, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()
	setLoggers(logger)

	h, c, err := start(ctx, cfg, demo, out)
	if err != nil {
		return err
	}
	defer func() {
		c.close()
		if err := h.Close(ctx); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	return repl(ctx, c, in, out, term.IsTerminal(int(os.Stdin.Fd())))
}

// repl reads commands line by line until EOF or quit.
func repl(ctx context.Context, c *console, in io.Reader, out io.Writer, prompt bool) error {
	scanner := bufio.NewScanner(in)
	for {
		if prompt {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		quit, err := c.exec(ctx, scanner.Text())
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}
