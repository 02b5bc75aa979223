package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"gestao-alunos-go/config"
	"gestao-alunos-go/db"
	"gestao-alunos-go/gateway"
	"gestao-alunos-go/handlers"
	"gestao-alunos-go/logger"
	"gestao-alunos-go/metrics"
	"gestao-alunos-go/panel"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg config.Config

	root := &cobra.Command{
		Use:           "gestao-alunos",
		Short:         "Admin panel for students and courses",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			// flags win over the environment
			if cmd.Flags().Changed("api-base") {
				loaded.APIBase = cfg.APIBase
			}
			if cmd.Flags().Changed("addr") {
				loaded.PanelAddr = cfg.PanelAddr
				loaded.APIAddr = cfg.PanelAddr
			}
			cfg = loaded
			logger.Init(cfg.LogLevel)
			gin.SetMode(gin.ReleaseMode)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfg.APIBase, "api-base", "", "base URL of the students REST API")
	root.PersistentFlags().StringVar(&cfg.PanelAddr, "addr", "", "listen address (panel or api)")

	root.AddCommand(
		&cobra.Command{
			Use:   "panel",
			Short: "Serve the admin panel",
			RunE:  func(cmd *cobra.Command, args []string) error { return runPanel(cmd.Context(), cfg) },
		},
		&cobra.Command{
			Use:   "api",
			Short: "Serve the development REST API backed by Redis",
			RunE:  func(cmd *cobra.Command, args []string) error { return runAPI(cmd.Context(), cfg) },
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Insert the initial courses when none exist",
			RunE:  func(cmd *cobra.Command, args []string) error { return runSeed(cmd.Context(), cfg) },
		},
		&cobra.Command{
			Use:   "import <planilha.xlsx>",
			Short: "Enroll every row of a spreadsheet through the REST API",
			Args:  cobra.ExactArgs(1),
			RunE:  func(cmd *cobra.Command, args []string) error { return runImport(cmd.Context(), cfg, args[0]) },
		},
		&cobra.Command{
			Use:   "export <planilha.xlsx>",
			Short: "Write the current student list to a spreadsheet",
			Args:  cobra.ExactArgs(1),
			RunE:  func(cmd *cobra.Command, args []string) error { return runExport(cmd.Context(), cfg, args[0]) },
		},
	)
	return root
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// newGateway builds the REST client on http.DefaultClient, which sets no timeout
func newGateway(cfg config.Config) *gateway.Client {
	return gateway.New(cfg.APIBase, nil)
}

func newPanel(cfg config.Config, gw *gateway.Client) *panel.Panel {
	return panel.New(gw, panel.WithToastTTL(cfg.ToastTTL))
}

func runPanel(parent context.Context, cfg config.Config) error {
	ctx, cancel := signalContext(parent)
	defer cancel()

	gw := newGateway(cfg)
	p := newPanel(cfg, gw)
	logger.LogInfo("Loading initial data", "api_base", gw.BaseURL())
	p.Bootstrap(ctx)

	reg := prometheus.NewRegistry()
	metrics.Register(reg)
	router := handlers.NewPanelRouter(handlers.NewPanelHandler(p), reg)

	return serve(ctx, cfg.PanelAddr, router)
}

func runAPI(parent context.Context, cfg config.Config) error {
	ctx, cancel := signalContext(parent)
	defer cancel()

	client, err := db.InitializeRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.LogError("Failed to connect to Redis", err)
		return err
	}
	defer client.Close()

	service := db.NewRedisService(client)
	if _, err := service.SeedCourses(ctx); err != nil {
		// the API still works without the initial courses
		logger.LogWarn("Could not seed initial courses", "error", err)
	}

	return serve(ctx, cfg.APIAddr, handlers.NewAPIRouter(handlers.NewAPIHandler(service)))
}

func runSeed(parent context.Context, cfg config.Config) error {
	client, err := db.InitializeRedisClient(parent, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer client.Close()

	inserted, err := db.NewRedisService(client).SeedCourses(parent)
	if err != nil {
		return err
	}
	if inserted {
		fmt.Println("Cursos iniciais inseridos com sucesso!")
	} else {
		fmt.Println("Banco de dados já possui cursos. Pulando população inicial.")
	}
	return nil
}

func runImport(parent context.Context, cfg config.Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	p := newPanel(cfg, newGateway(cfg))
	result, err := p.ImportSpreadsheet(parent, f)
	if err != nil {
		return err
	}
	fmt.Printf("importados: %d, ignorados: %d, recusados: %d\n", result.Imported, result.Skipped, result.Failed)
	return nil
}

func runExport(parent context.Context, cfg config.Config, path string) error {
	p := newPanel(cfg, newGateway(cfg))
	p.Bootstrap(parent)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create spreadsheet: %w", err)
	}
	if err := p.ExportSpreadsheet(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// serve runs handler on addr until ctx is cancelled, then shuts down gracefully
func serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.LogInfo("Starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			logger.LogError("Server failed", err, "addr", addr)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.LogInfo("Shutting down server", "addr", addr)
	return srv.Shutdown(shutdownCtx)
}
