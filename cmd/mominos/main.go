package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mominos/mominos/internal/config"
	"github.com/mominos/mominos/internal/daemon"
	"github.com/mominos/mominos/internal/desktop"
	"github.com/mominos/mominos/internal/ipc"
	"github.com/mominos/mominos/internal/logging"
	"github.com/mominos/mominos/internal/tui"
	"gopkg.in/yaml.v3"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "desktop":
		os.Exit(runDesktop(os.Args[2:]))
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "window":
		os.Exit(runWindow(os.Args[2:]))
	case "apps":
		os.Exit(runApps(os.Args[2:]))
	case "session":
		os.Exit(runSession(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mominos <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  desktop             Open the desktop in this terminal")
	fmt.Fprintln(w, "  daemon              Run a headless desktop (foreground)")
	fmt.Fprintln(w, "  status              Show desktop status")
	fmt.Fprintln(w, "  reload              Reload configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  window list         List open windows")
	fmt.Fprintln(w, "  window open         Open an app in a new window")
	fmt.Fprintln(w, "  window focus        Focus a window")
	fmt.Fprintln(w, "  window move-focus   Move focus to a neighbouring window")
	fmt.Fprintln(w, "  window minimize     Minimize a window")
	fmt.Fprintln(w, "  window maximize     Toggle maximize")
	fmt.Fprintln(w, "  window close        Close a window")
	fmt.Fprintln(w, "  window snap         Snap a window to a zone")
	fmt.Fprintln(w, "  window drag         Drag a window by its title bar")
	fmt.Fprintln(w, "  window resize       Drag a resize handle")
	fmt.Fprintln(w, "  window arrange      Tile or cascade windows")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  apps                List installed apps")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  session save        Save the current layout")
	fmt.Fprintln(w, "  session load        Restore a saved layout")
	fmt.Fprintln(w, "  session list        List saved layouts")
	fmt.Fprintln(w, "  session delete      Delete a saved layout")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'mominos <command> --help' for command-specific options.")
}

// watchSignals cancels ctx on SIGINT/SIGTERM and reloads the config on SIGHUP.
func watchSignals(ctx context.Context, cancel context.CancelFunc, dm *daemon.Daemon, logger *slog.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		defer signal.Stop(sigCh)
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGHUP:
					logger.Info("received SIGHUP, reloading config")
					if err := dm.Reload(); err != nil {
						logger.Warn("config reload failed", "error", err)
						continue
					}
					logger.Info("config reloaded")
				default:
					logger.Info("shutting down", "signal", sig.String())
					cancel()
					return
				}
			}
		}
	}()
}

func saveConfig(cfg *config.Config) error {
	return cfg.Save()
}

func runDesktop(args []string) int {
	fs := flag.NewFlagSet("desktop", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	restore := fs.String("restore", "", "Restore a saved session on start")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mominos desktop [--restore NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open the desktop full screen. The control socket is served while it runs,")
		fmt.Fprintln(os.Stderr, "so 'mominos window ...' and 'mominos mcp serve' can drive it.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "desktop takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	// The screen belongs to the desktop, so logs always go to a file.
	logger, closeLog, err := logging.New(cfg.GetLoggingConfig(), io.Discard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		return 1
	}
	defer closeLog()

	d := desktop.New(desktop.Options{Config: cfg, Logger: logger, SaveConfig: saveConfig})
	d.Start()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dm := daemon.New(d, daemon.Options{Logger: logger, Restore: *restore})
	watchSignals(ctx, cancel, dm, logger)

	done := make(chan error, 1)
	go func() { done <- dm.Run(ctx) }()

	runErr := tui.Run(ctx, d, logger)
	cancel()
	if err := <-done; err != nil {
		logger.Warn("control socket unavailable", "error", err)
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		return 1
	}
	return 0
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	restore := fs.String("restore", "", "Restore a saved session on start")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mominos daemon [--restore NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run a desktop without a screen, driven over the control socket.")
		fmt.Fprintln(os.Stderr, "SIGHUP reloads the configuration.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	logger, closeLog, err := logging.New(cfg.Logging, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		return 1
	}
	defer closeLog()

	logger.Info("configuration loaded", "profile", cfg.GeometryProfile, "startup_apps", len(cfg.StartupApps))

	d := desktop.New(desktop.Options{Config: cfg, Logger: logger, SaveConfig: saveConfig})
	d.Start()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dm := daemon.New(d, daemon.Options{Logger: logger, Restore: *restore})
	watchSignals(ctx, cancel, dm, logger)

	if err := dm.Run(ctx); err != nil {
		logger.Error("daemon failed", "error", err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOut := fs.Bool("json", false, "Output as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mominos status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show desktop status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(status)
	}

	focused := status.Focused
	if focused == "" {
		focused = "-"
	}
	fmt.Printf("daemon_running:   %v\n", status.DaemonRunning)
	fmt.Printf("geometry_profile: %s\n", status.Profile)
	fmt.Printf("viewport:         %dx%d\n", status.Width, status.Height)
	fmt.Printf("windows:          %d (%d minimized)\n", status.Windows, status.Minimized)
	fmt.Printf("focused:          %s\n", focused)
	if status.Gesture != "" {
		fmt.Printf("gesture:          %s\n", status.Gesture)
	}
	fmt.Printf("uptime:           %s\n", status.Uptime)
	return 0
}

func runReload(args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stdout, "Usage: mominos reload")
		return 0
	}
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, "reload takes no arguments")
		return 2
	}
	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("config reloaded")
	return 0
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func loadConfigResult(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  mominos config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  mominos config print [--path PATH] [--effective|--defaults]")
		fmt.Fprintln(os.Stderr, "  mominos config explain [--path PATH] <yaml.path>")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/mominos/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		if _, err := loadConfigResult(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/mominos/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		printEffective := fs.Bool("effective", false, "Print effective config (default)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			_ = printEffective // default
			res, err := loadConfigResult(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			for _, f := range res.Files {
				fmt.Printf("# loaded: %s\n", f)
			}
			cfg = res.Config
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "explain":
		fs := flag.NewFlagSet("explain", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/mominos/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadConfigResult(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", formatSource(src))
		fmt.Printf("value:\n%s", string(out))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceBuiltin:
		if src.Name != "" {
			return "builtin:" + src.Name
		}
		return "builtin"
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}
