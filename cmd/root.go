package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "chatscrub",
	Short: "Extract bot chat history and mask PII",
	Long: `Chatscrub pulls conversational transcripts from a Kore.ai bot,
rebuilds each session in time order, masks personally identifiable
information, and writes the result to CSV.

It can also be used as a standalone filter to mask PII in local files.

Examples:
  chatscrub extract --stream-id st-123 --from 2025-01-01 --to 2025-01-31
  chatscrub extract --base-url bots.kore.ai --out january.csv
  chatscrub mask transcript.txt
  cat chat.log | chatscrub mask`,
}

// Execute is called by main.main(). It runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.chatscrub.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".chatscrub")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("CHATSCRUB")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("verbose", false)
	viper.SetDefault("format", "csv")
	viper.SetDefault("output", "chat_history_masked.csv")
	viper.SetDefault("page_size", 10000)
	viper.SetDefault("backoff", "5s")
	viper.SetDefault("mask", true)

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// newLogger builds the process logger. Diagnostics go to stderr so they never
// mix with masked output on stdout.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
