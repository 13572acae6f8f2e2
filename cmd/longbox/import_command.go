package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"longbox/internal/catalog"
	"longbox/internal/config"
	"longbox/internal/convstore"
	"longbox/internal/gcd"
	"longbox/internal/imaging"
	"longbox/internal/importer"
	"longbox/internal/logging"
	"longbox/internal/operator"
	"longbox/internal/reprints"
	"longbox/internal/resolve"
	"longbox/internal/source"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Run an interactive series import",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *convstore.Store) error {
				return runImport(cmd, cfg, store)
			})
		},
	}
}

func runImport(cmd *cobra.Command, cfg *config.Config, store *convstore.Store) error {
	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, closer, err := logging.NewFileLogger(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}, cfg.Paths.LogDir, "longbox.log")
	if err != nil {
		return err
	}
	defer closer.Close()

	op, err := operator.NewTerminal()
	if err != nil {
		return err
	}

	catalogClient, err := catalog.New(catalog.Config{
		BaseURL:        cfg.Catalog.BaseURL,
		User:           cfg.Catalog.User,
		Password:       cfg.Catalog.Password,
		CallsPerMinute: cfg.Catalog.CallsPerMinute,
		Timeout:        time.Duration(cfg.Catalog.TimeoutSeconds) * time.Second,
		MaxRetries:     cfg.Catalog.MaxRetries,
	}, logger)
	if err != nil {
		return err
	}

	sourceClient, err := source.New(source.Config{
		BaseURL: cfg.Source.BaseURL,
		APIKey:  cfg.Source.APIKey,
		Timeout: time.Duration(cfg.Source.TimeoutSeconds) * time.Second,
	}, logger)
	if err != nil {
		return err
	}

	fetcher, err := imaging.NewFetcher(filepath.Join(cfg.Paths.CacheDir, "images"), logger)
	if err != nil {
		return err
	}

	denylist, err := resolve.LoadDenylist(cfg.Resolver.DenylistPath)
	if err != nil {
		return err
	}

	deps := importer.Deps{
		Catalog:    catalogClient,
		Source:     sourceClient,
		Resolver:   resolve.New(store.Source(), catalogClient, sourceClient, fetcher, op, denylist, logger),
		Roles:      resolve.NewRoleAssigner(catalogClient, op),
		Images:     fetcher,
		IssueCache: store.Grassroots(),
		Operator:   op,
		Logger:     logger,
	}

	if cfg.Grassroots.DSN != "" {
		db, err := gcd.Open(cfg.Grassroots.DSN, logger)
		if err != nil {
			return fmt.Errorf("open grassroots database: %w", err)
		}
		defer db.Close()
		deps.Grassroots = db
		deps.Matcher = reprints.NewMatcher(store.Grassroots(), catalogClient, op, logger)
	}

	return importer.New(deps).Run(runCtx)
}
