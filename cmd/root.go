package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"tomgalvin.uk/qlprint/internal/config"
	"tomgalvin.uk/qlprint/internal/printer"
	"tomgalvin.uk/qlprint/internal/usb"
)

var (
	settings = config.New()
	cfg      *config.Config
	logger   = slog.Default()

	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "qlprint",
	Short: "Print labels on Brother QL printers",
	Long: `Print text labels on Brother QL label printers connected over USB.

Settings are read from a YAML config file ($XDG_CONFIG_HOME/qlprint/config.yaml
or ./qlprint.yaml), QLPRINT_ environment variables and flags.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(settings, configPath)
		if err != nil {
			return err
		}
		level, err := c.Level()
		if err != nil {
			return err
		}
		cfg = c
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
		return nil
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		stop()
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file path")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("serial", "", "serial number of the printer to use")
	flags.Duration("timeout", printer.DefaultTimeout, "timeout for each USB transfer")

	bindFlag(rootCmd, config.KeyLogLevel, "log-level")
	bindFlag(rootCmd, config.KeySerial, "serial")
	bindFlag(rootCmd, config.KeyTimeout, "timeout")
}

func bindFlag(c *cobra.Command, key, flag string) {
	f := c.PersistentFlags().Lookup(flag)
	if f == nil {
		f = c.Flags().Lookup(flag)
	}
	if err := settings.BindPFlag(key, f); err != nil {
		panic(err)
	}
}

// An initialised printer and the connection under it, close with close()
type session struct {
	conn    *usb.Connection
	printer *printer.Printer
}

func openPrinter(ctx context.Context) (*session, error) {
	conn, err := usb.Open(logger, cfg.Serial)
	if err != nil {
		return nil, err
	}
	p := printer.New(conn, cfg.PrinterOptions(logger))
	if _, err := p.Initialize(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("Couldn't initialise %s:\n%w", conn.Info.Model, err)
	}
	return &session{conn: conn, printer: p}, nil
}

func (s *session) close() {
	if err := s.conn.Close(); err != nil {
		logger.Warn("Couldn't close printer connection", "error", err)
	}
}
