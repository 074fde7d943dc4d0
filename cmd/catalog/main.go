package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/niksmo/visual-catalog/config"
	"github.com/niksmo/visual-catalog/internal/app"
	"github.com/niksmo/visual-catalog/pkg/sigctx"
)

const (
	shutdownTimeout = 10 * time.Second
	defaultTUILog   = "catalog.log"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "catalog",
		Short:        "Browse a remote product catalog",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "config file (env CATALOG_CONFIG_FILE)")

	root.AddCommand(
		newTUICmd(),
		newServeCmd(),
		newTopicsCmd(),
		newConfigCmd(),
	)
	return root
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	return config.Load(config.FilePath(cmd.Flags()))
}

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive terminal catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.LogFile == "" {
				cfg.LogFile = defaultTUILog
			}

			sigCtx, closeApp := sigctx.NotifyContext(cmd.Context())
			defer closeApp()

			a := app.New(sigCtx, cfg)
			defer closeWithTimeout(a)

			return a.RunTUI()
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog as a JSON API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			sigCtx, closeApp := sigctx.NotifyContext(cmd.Context())
			defer closeApp()

			a := app.New(sigCtx, cfg)
			a.RunHTTP(closeApp)

			<-sigCtx.Done()
			closeWithTimeout(a)
			return nil
		},
	}
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "Create the interaction telemetry topic",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if len(cfg.Telemetry.SeedBrokers) == 0 {
				return errors.New("telemetry.seed_brokers is empty")
			}

			sigCtx, closeApp := sigctx.NotifyContext(cmd.Context())
			defer closeApp()

			return app.RunTopics(sigCtx, cfg, cmd.OutOrStdout())
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg.Print(cmd.OutOrStdout())
			return nil
		},
	}
}

func closeWithTimeout(a *app.App) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.Close(ctx)
}
