package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"VideoScanner/internal/app"
	"VideoScanner/internal/config"
	"VideoScanner/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "videoscanner",
	Short: "Scans YouTube channels and posts video summaries to Telegram",
	Long: `videoscanner watches a set of YouTube channels for freshly published
videos, summarizes their transcripts with a language model, and posts the
summaries to a Telegram chat.

Configuration is taken from environment variables (YOUTUBE_API_KEY,
YOUTUBE_CHANNEL_IDS, TELEGRAM_BOT_TOKEN, TELEGRAM_CHAT_ID, GEMINI_API_KEY)
or from a YAML file pointed at by VIDEO_SCANNER_CONFIG.`,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Perform a single scan over the configured channels and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		application, err := buildApp(cmd)
		if err != nil {
			return err
		}
		application.Run(cmd.Context())
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose an HTTP endpoint that triggers a scan per request",
	RunE: func(cmd *cobra.Command, _ []string) error {
		application, err := buildApp(cmd)
		if err != nil {
			return err
		}
		return application.Serve()
	},
}

func buildApp(cmd *cobra.Command) (*app.Application, error) {
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)
	return app.New(cmd.Context(), cfg, logger)
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
