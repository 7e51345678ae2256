package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kuctl/internal/agentsim"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const defaultSimulateAddr = "127.0.0.1:8181"

func newSimulateCmd() *cobra.Command {
	var (
		addr       string
		scriptPath string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a simulated Kobo-UNCaGED agent",
		Long: `Serves the agent HTTP API and push channel from memory so kuctl can be tried
without a device. With --script a YAML scenario of state changes and push
events is replayed once a client subscribes. The simulator stops when a
client calls the exit endpoint or on Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, addr, scriptPath)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultSimulateAddr, "Address to listen on")
	cmd.Flags().StringVar(&scriptPath, "script", "", "Scenario to replay (YAML)")
	return cmd
}

func runSimulate(cmd *cobra.Command, addr, scriptPath string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "agentsim",
	})

	var script *agentsim.Script
	if scriptPath != "" {
		var err error
		if script, err = agentsim.LoadScript(scriptPath); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Push streams only end when their request context does.
	streamCtx, closeStreams := context.WithCancel(context.Background())
	defer closeStreams()

	gin.SetMode(gin.ReleaseMode)
	sim := agentsim.New(agentsim.WithLogger(logger))
	srv := &http.Server{
		Addr:              addr,
		Handler:           sim.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return streamCtx },
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		serveErr <- srv.ListenAndServe()
	}()

	if script != nil {
		go func() {
			logger.Info("replaying script", "name", script.Name, "steps", len(script.Steps))
			if err := script.Run(ctx, sim); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("script stopped", "err", err)
				return
			}
			logger.Info("script finished")
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("interrupted")
	case <-sim.Exited():
		logger.Info("client asked the agent to exit")
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("simulated agent stopped: %w", err)
		}
	}

	closeStreams()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to shut down: %w", err)
	}
	return runErr
}
