package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sysglance/internal/errors"
	"sysglance/internal/tui"
	"sysglance/internal/web"
)

// Command-specific flags
var (
	watchIntervalFlag time.Duration
	serveIntervalFlag time.Duration
	serveAddrFlag     string
	initForce         bool
)

// watchCmd starts the console dashboard.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Console dashboard (default)",
	Long: `Start the full-screen console dashboard.

Shows CPU, memory, and disk gauges, the state of every configured
service unit, and recent journal entries, refreshed on the configured
cadence.

Keyboard shortcuts:
  q / Ctrl+C  Quit
  d / t       Toggle light/dark theme

Examples:
  sysglance
  sysglance watch
  sysglance watch --interval 5s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return watchCommand(watchIntervalFlag)
	},
}

// serveCmd starts the web dashboard.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Web dashboard",
	Long: `Serve the browser dashboard.

Exposes the same live view as the console dashboard over HTTP: a JSON
API, a websocket that pushes each refresh, and a small single-page UI.

Examples:
  sysglance serve
  sysglance serve --addr :9000
  sysglance serve --interval 5s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCommand(serveAddrFlag, serveIntervalFlag)
	},
}

// initCmd creates a sysglance.yaml configuration.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create sysglance.yaml configuration",
	Long: `Initialize a new sysglance configuration file.

Walks through the monitored services, refresh cadence, and log settings
with interactive prompts, then writes sysglance.yaml to the current
directory.

Examples:
  sysglance init
  sysglance init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initForce)
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchIntervalFlag, "interval", 0, "refresh interval override (e.g., 2s, 5s)")
	rootCmd.Flags().DurationVar(&watchIntervalFlag, "interval", 0, "refresh interval override (e.g., 2s, 5s)")

	serveCmd.Flags().DurationVar(&serveIntervalFlag, "interval", 0, "refresh interval override (e.g., 2s, 5s)")
	serveCmd.Flags().StringVar(&serveAddrFlag, "addr", "", "listen address override (e.g., :9000)")

	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
}

// watchCommand runs the sampling pipeline behind the console dashboard.
func watchCommand(interval time.Duration) error {
	a, err := buildApp(interval)
	if err != nil {
		return err
	}

	if err := a.scheduler.Start(context.Background()); err != nil {
		return err
	}
	// The quit key stops sampling before the screen is torn down.
	return tui.Run(a.holder, a.themes, a.scheduler.Stop)
}

// serveCommand runs the sampling pipeline behind the web server until
// SIGINT or SIGTERM.
func serveCommand(addr string, interval time.Duration) error {
	a, err := buildApp(interval)
	if err != nil {
		return err
	}
	if addr == "" {
		addr = a.cfg.Web.Addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.scheduler.Start(ctx); err != nil {
		return err
	}
	defer a.scheduler.Stop()

	srv := web.New(addr, a.holder, a.themes, a.log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	fmt.Printf("sysglance serving on %s\n", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Grace())
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.WrapWithCode(err, errors.ErrShutdown,
				"Web server did not shut down cleanly",
				"In-flight requests may have been dropped")
		}
		return nil
	case err := <-errCh:
		return errors.WrapWithCode(err, errors.ErrShutdown,
			"Web server stopped unexpectedly",
			"Check that the listen address is free and bindable")
	}
}
