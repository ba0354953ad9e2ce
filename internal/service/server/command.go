package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"google.golang.org/grpc"

	api "github.com/oshokin/alarm-clock/internal/api/grpc/alarm"
	mcpapi "github.com/oshokin/alarm-clock/internal/api/mcp"
	"github.com/oshokin/alarm-clock/internal/clock"
	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/service/ticker"
	"github.com/oshokin/alarm-clock/internal/version"
)

// Options controls the alarm-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// Clock overrides the system clock; nil uses the host time.
	Clock clock.Clock
}

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// mcpReadHeaderTimeout bounds the header read of MCP HTTP requests.
const mcpReadHeaderTimeout = 10 * time.Second

// Run starts the alarm scheduler with its gRPC and MCP endpoints and blocks until
// the context is canceled or a server fails. On shutdown ringing alarms are stopped
// and the collection is persisted.
//
//nolint:funlen // Linear start-up and shutdown sequence.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "alarm-server")

	// Load configuration first to get server settings.
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if err = logger.Configure(settings.LogLevel); err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}

	// Determine listen address: CLI argument overrides config port extraction.
	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	clk := opts.Clock
	if clk == nil {
		clk = clock.NewSystem()
	}

	svc, err := newService(ctx, settings, clk)
	if err != nil {
		return fmt.Errorf("initialise service: %w", err)
	}

	// Shutdown work must outlive the canceled run context.
	shutdownCtx := context.WithoutCancel(ctx)

	defer func() {
		if closeErr := svc.close(shutdownCtx); closeErr != nil {
			logger.ErrorKV(shutdownCtx, "Failed to close alarm service", "error", closeErr)
		}
	}()

	tick, err := ticker.New(ctx, settings.Tick, svc.manager)
	if err != nil {
		return fmt.Errorf("create ticker: %w", err)
	}

	// Setup TCP listener for gRPC server.
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	grpcServer := grpc.NewServer()
	api.RegisterAlarmServiceServer(grpcServer, api.NewServer(svc.manager))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup

	wg.Go(func() {
		_ = tick.Run(runCtx)
	})

	var (
		mcpServer *http.Server
		// mcpErr is written by the MCP goroutine and read after wg.Wait.
		mcpErr error
	)

	if settings.MCP.ListenAddress != "" {
		mcpServer = &http.Server{
			Addr:              settings.MCP.ListenAddress,
			Handler:           mcpapi.Handler(mcpapi.NewServer(svc.manager, version.Short())),
			ReadHeaderTimeout: mcpReadHeaderTimeout,
		}

		wg.Go(func() {
			logger.InfoKV(runCtx, "MCP endpoint listening", "listen_address", settings.MCP.ListenAddress)

			if err := mcpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.ErrorKV(runCtx, "MCP endpoint failed", "error", err)

				mcpErr = fmt.Errorf("serve MCP: %w", err)

				cancel()
			}
		})
	}

	logger.InfoKV(ctx, "Alarm server listening", append([]any{
		"listen_address", listenAddress,
		"backend", settings.Storage.Backend,
		"tick", settings.Tick,
	}, version.KV()...)...)

	// Done channel is closed after the servers stop to ensure we block
	// until they fully stop before returning.
	done := make(chan struct{})

	go func() {
		defer close(done)

		<-runCtx.Done()
		logger.Info(ctx, "Shutting down alarm server")

		grpcServer.GracefulStop()

		if mcpServer != nil {
			stopCtx, stop := context.WithTimeout(shutdownCtx, settings.Timeout)
			defer stop()

			if err := mcpServer.Shutdown(stopCtx); err != nil {
				logger.ErrorKV(ctx, "MCP endpoint shutdown failed", "error", err)
			}
		}
	}()

	serveErr := grpcServer.Serve(lis)
	if errors.Is(serveErr, grpc.ErrServerStopped) {
		serveErr = nil
	}

	cancel()
	<-done
	wg.Wait()

	logger.Info(ctx, "Alarm server stopped")

	if serveErr != nil {
		serveErr = fmt.Errorf("serve gRPC: %w", serveErr)
	}

	return errors.Join(serveErr, mcpErr)
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise extracts port from configAddr.
// Returns appropriate listen address (e.g., ":8080" for port-only binding).
func resolveListenAddress(configAddr, override string) (string, error) {
	// Use override address if provided (e.g., ":9090", "0.0.0.0:8080").
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	// Return port-only listen address to bind on all interfaces.
	return ":" + port, nil
}
