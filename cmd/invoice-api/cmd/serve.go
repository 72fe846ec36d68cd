package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-api/internal/config"
	"github.com/rezonia/invoice-api/internal/logging"
	"github.com/rezonia/invoice-api/internal/model"
	"github.com/rezonia/invoice-api/internal/pdf"
	"github.com/rezonia/invoice-api/internal/server"
	"github.com/rezonia/invoice-api/internal/storage"
	"github.com/rezonia/invoice-api/internal/tax"
)

var (
	serverAddr  string
	serverDebug bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server for invoice generation.

The API provides:
  - POST /api/v1/invoices          - Compute totals, render PDF, upload
  - POST /api/v1/invoices/preview  - Compute totals only
  - GET  /api/v1/rules             - Show the active tax rule set
  - GET  /health                   - Health check

Document upload is enabled when a storage bucket is configured; otherwise
responses carry the rendered PDF inline only.

Examples:
  # Start server with defaults
  invoice-api serve

  # Start on a custom port with a rules file
  invoice-api serve --address :9090 --rules rules.yaml

  # Start with a config file
  invoice-api serve --config config.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", "", "Server listen address (overrides config)")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if serverAddr != "" {
		cfg.Server.Address = serverAddr
	}
	if serverDebug {
		cfg.Server.Debug = true
	}

	logger := logging.New(os.Stdout, cfg.Env, cfg.LogLevel)

	rules, err := loadRules(cfg.RulesPath)
	if err != nil {
		return err
	}
	resolver := tax.NewResolver(rules)
	logger.Info().Int("rules", len(rules)).Msg("tax rule set loaded")

	var uploader server.Uploader
	if cfg.Storage.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s3Uploader, err := storage.NewS3Uploader(ctx, storage.Config{
			Bucket:            cfg.Storage.Bucket,
			Region:            cfg.Storage.Region,
			Endpoint:          cfg.Storage.Endpoint,
			AccessKeyID:       cfg.Storage.AccessKeyID,
			SecretAccessKey:   cfg.Storage.SecretAccessKey,
			CredentialsSecret: cfg.Storage.CredentialsSecret,
			URLTTL:            cfg.Storage.URLTTL,
		}, logger)
		if err != nil {
			return fmt.Errorf("initialize storage uploader: %w", err)
		}
		uploader = s3Uploader
		logger.Info().Str("bucket", cfg.Storage.Bucket).Msg("document upload enabled")
	} else {
		logger.Info().Msg("document upload disabled (no bucket configured)")
	}

	srv := server.NewServer(&server.Config{
		Address:      cfg.Server.Address,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Debug:        cfg.Server.Debug,
	}, logger, resolver, pdf.NewRenderer(), uploader)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info().Msg("shutting down server")
		os.Exit(0)
	}()

	logger.Info().Str("address", cfg.Server.Address).Msg("starting server")
	return srv.Run()
}

// loadRules returns the configured rule set, preferring the --rules flag
// over the config file path over the built-in defaults.
func loadRules(configPath string) ([]model.TaxRule, error) {
	path := rulesFile
	if path == "" {
		path = configPath
	}
	if path == "" {
		return tax.DefaultRules(), nil
	}
	printVerbose("Loading rules from %s\n", path)
	return tax.LoadRules(path)
}
