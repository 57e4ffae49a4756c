package main

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/collide/internal/metrics"
	"github.com/vovakirdan/collide/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagMetricsAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the collide SSH server",
	Long: `Start an SSH server that lets users connect and watch scenarios.

Each SSH connection gets its own world and a scenario picker. A scenario id
given as the SSH command opens it directly. Snapshots saved with Ctrl+S go
to the server's database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise uses server.host_key_path from the config, generating it if needed

Examples:
  collide serve                       # Listen on the configured address
  collide serve --ssh :2222           # Listen on port 2222
  collide serve --metrics :9090       # Also expose Prometheus metrics

Users can connect with:
  ssh localhost -p 2323
  ssh localhost -p 2323 -t rain`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address host:port (default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file")
	serveCmd.Flags().StringVar(&flagMetricsAddr, "metrics", "", "Prometheus metrics address, e.g. :9090")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger("collide-ssh")
	if err != nil {
		return err
	}

	if flagSSHAddr != "" {
		host, port, err := net.SplitHostPort(flagSSHAddr)
		if err != nil {
			return fmt.Errorf("--ssh: %w", err)
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("--ssh: bad port %q", port)
		}
		cfg.Server.Host, cfg.Server.Port = host, p
	}
	if flagHostKey != "" {
		cfg.Server.HostKeyPath = flagHostKey
	}
	if flagMetricsAddr != "" {
		cfg.Server.MetricsAddr = flagMetricsAddr
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	var rec *metrics.Recorder
	if cfg.Server.MetricsAddr != "" {
		rec = metrics.New()
	}

	server, err := tui.NewSSHServer(cfg, store, rec, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.ListenAndServe(ctx)
	})
	if rec != nil {
		g.Go(func() error {
			return rec.Serve(ctx, cfg.Server.MetricsAddr, logger)
		})
	}

	fmt.Printf("collide SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	return g.Wait()
}
