package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/agent-trust-protocol/atp-core/internal/application/services"
	"github.com/agent-trust-protocol/atp-core/internal/domain/entities"
	"github.com/agent-trust-protocol/atp-core/internal/infrastructure/config"
	"github.com/agent-trust-protocol/atp-core/internal/infrastructure/logger"
	"github.com/agent-trust-protocol/atp-core/internal/infrastructure/server"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the documentation server",
		Long:  "Start the documentation server on the configured port, serving the working directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunServer()
		},
	}
}

// NewRenderCommand creates the render command, a one-shot preview that
// writes a single markdown file as a full HTML page to stdout.
func NewRenderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "render <file.md>",
		Short: "Render one markdown file to HTML on stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderFile(args[0], cmd.OutOrStdout())
		},
	}
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the docserver version",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				fmt.Println("docserver (unknown version)")
				return
			}
			fmt.Printf("%s v%s\n", cfg.App.Name, cfg.App.Version)
		},
	}
}

// RunServer loads configuration, builds the server and blocks until it
// exits or the process receives an interrupt.
func RunServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	srv, err := server.New(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	fmt.Printf("✅ %s server running at %s\n", cfg.Docs.SiteName, cfg.Server.LocalURL())
	fmt.Printf("📚 Serving files from: %s\n", cfg.Docs.Root)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(cfg.Server.ListenAddr())
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
	}

	return nil
}

func renderFile(path string, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	renderer := services.NewRenderService(cfg.Docs.SiteName, entities.DefaultNav(), logger.NewNop())
	page, err := renderer.RenderPage(filepath.Base(path), content)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}

	_, err = out.Write(page)
	return err
}
