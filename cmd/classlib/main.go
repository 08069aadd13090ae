package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"classlib-backend/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "classlib",
	Short: "Maintenance commands for the class library backend",
	Long: `classlib runs the one-off tasks of the class library backend against
the database configured by DATABASE_URL or the DB_* variables.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		envFileErr := godotenv.Load()
		logger.Init(getEnv("APP_ENV", "development"), getEnv("LOG_LEVEL", "info"))
		if envFileErr != nil {
			log.Debug().Msg("No .env file found, using system environment variables")
		}
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
