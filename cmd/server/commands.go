package main

import (
	"advisorchat-backend/internal/config"
	"advisorchat-backend/internal/services"
	"advisorchat-backend/pkg/logger"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command. Without a subcommand it serves HTTP.
func NewRootCmd() *cobra.Command {
	var (
		cfg     *config.Config
		envFile string
	)

	rootCmd := &cobra.Command{
		Use:           "advisorchat",
		Short:         "Advisor chat backend",
		Long:          `advisorchat serves the customer, chat and chart API used by financial advisors.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			if envFile != "" {
				files = append(files, envFile)
			}
			loaded, err := config.LoadConfig(files...)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				loaded.Debug = true
				loaded.LogLevel = "debug"
			}
			logger.Init(logger.Config{Level: loaded.LogLevel, Pretty: loaded.LogPretty})
			cfg = loaded
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Fill an empty database with sample customers and accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), cfg)
		},
	})
	rootCmd.AddCommand(newTokenCmd(func() *config.Config { return cfg }))
	rootCmd.AddCommand(newVersionCmd(func() *config.Config { return cfg }))

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load environment from this file instead of .env")

	return rootCmd
}

func runSeed(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	db, err := openStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := services.NewSeedService(db, nil).Seed(ctx)
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}
	if res.Skipped {
		fmt.Printf("Database already has %d customers. Skipping seed.\n", res.Existing)
		return nil
	}
	fmt.Printf("Database seeded: %d customers, %d accounts\n", res.Customers, res.Accounts)
	return nil
}

// newTokenCmd mints an advisor token for local testing.
func newTokenCmd(cfg func() *config.Config) *cobra.Command {
	var advisorID string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed access token for an advisor",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := services.NewAuthService(cfg()).IssueToken(advisorID)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
	cmd.Flags().StringVar(&advisorID, "advisor", services.SampleAdvisorID, "Advisor id to put in the advisor_id claim")
	return cmd
}

func newVersionCmd(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			c := cfg()
			fmt.Printf("%s v%s (%s)\n", c.AppName, c.AppVersion, c.Environment)
			log.Debug().Str("database", c.DatabaseURL).Str("llm_provider", c.LLMProvider).Msg("Configuration")
		},
	}
}
