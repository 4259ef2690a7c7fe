package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"golang.org/x/time/rate"

	"github.com/bimmerbailey/chatscrub/internal/config"
	"github.com/bimmerbailey/chatscrub/internal/kore"
	"github.com/bimmerbailey/chatscrub/internal/output"
	"github.com/bimmerbailey/chatscrub/internal/pii"
	"github.com/bimmerbailey/chatscrub/internal/pipeline"
	"github.com/bimmerbailey/chatscrub/internal/transcript"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Pull chat history, mask PII, and write it out",
	Long: `Fetch all chat history for a date range from the bot's getMessagesV2
endpoint, rebuild per-session conversations, mask PII, and save them.

The auth token can be passed via --token, the CHATSCRUB_TOKEN environment
variable, or entered interactively (hidden input).

Examples:
  chatscrub extract --stream-id st-123 --from 2025-01-01 --to 2025-01-31
  chatscrub extract --base-url bots.kore.ai --out january.csv --format json
  chatscrub extract --no-mask --out raw_history.csv`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("base-url", "", "bot platform base URL (e.g. bots.kore.ai)")
	extractCmd.Flags().String("stream-id", "", "stream ID (bot ID)")
	extractCmd.Flags().String("token", "", "JWT auth token")
	extractCmd.Flags().String("from", "", "start date (YYYY-MM-DD)")
	extractCmd.Flags().String("to", "", "end date (YYYY-MM-DD)")
	extractCmd.Flags().StringP("out", "o", "", "output file path")
	extractCmd.Flags().StringP("format", "f", "", "output format (csv, json)")
	extractCmd.Flags().Int("page-size", 0, "messages requested per page")
	extractCmd.Flags().Duration("backoff", 0, "pause between full pages (0 disables)")
	extractCmd.Flags().Bool("no-mask", false, "skip PII masking")

	_ = viper.BindPFlag("base_url", extractCmd.Flags().Lookup("base-url"))
	_ = viper.BindPFlag("stream_id", extractCmd.Flags().Lookup("stream-id"))
	_ = viper.BindPFlag("token", extractCmd.Flags().Lookup("token"))
	_ = viper.BindPFlag("date_from", extractCmd.Flags().Lookup("from"))
	_ = viper.BindPFlag("date_to", extractCmd.Flags().Lookup("to"))

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyExtractFlags(cmd, cfg)

	if cfg.Token == "" {
		cfg.Token, err = promptToken(cmd)
		if err != nil {
			return fmt.Errorf("reading token: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := kore.NewClient(cfg.BaseURL, cfg.StreamID, cfg.Token, logger)
	driver := pipeline.New(client, pipeline.Options{
		PageSize: cfg.PageSize,
		Limiter:  rate.NewLimiter(rate.Every(cfg.Backoff), 1),
		Logger:   logger,
	})

	logger.Info("fetching chat history", "from", cfg.DateFrom, "to", cfg.DateTo, "stream", cfg.StreamID)

	result, err := driver.Run(ctx, cfg.DateFrom, cfg.DateTo)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("interrupted, no output written")
		}
		return err
	}

	rows := buildRows(result, cfg.Mask)

	if err := writeRows(cfg, rows); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved %d sessions (%d messages) to %s\n",
		len(rows), result.Messages, cfg.Output)

	if result.Degraded {
		return fmt.Errorf("retrieval incomplete, partial output written: %w", result.Cause)
	}
	return nil
}

// buildRows formats and masks every conversation that has renderable text.
func buildRows(result *pipeline.Result, mask bool) []output.Session {
	masker := pii.NewMasker()

	rows := make([]output.Session, 0, len(result.Conversations))
	for _, conv := range result.Conversations {
		if !conv.HasText() {
			continue
		}
		text := transcript.Format(conv.Messages)
		if mask {
			text = masker.Mask(text)
		}
		rows = append(rows, output.Session{ID: conv.ID, Transcript: text})
	}
	return rows
}

func writeRows(cfg *config.Config, rows []output.Session) error {
	f, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}

	if err := output.New(f, output.ParseFormat(cfg.Format)).WriteSessions(rows); err != nil {
		f.Close()
		return fmt.Errorf("writing output: %w", err)
	}
	return f.Close()
}

// applyExtractFlags copies flags that have no viper binding onto the config,
// flag value winning over config file when set.
func applyExtractFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("out") {
		cfg.Output, _ = cmd.Flags().GetString("out")
	}
	if cmd.Flags().Changed("format") {
		cfg.Format, _ = cmd.Flags().GetString("format")
	}
	if cmd.Flags().Changed("page-size") {
		cfg.PageSize, _ = cmd.Flags().GetInt("page-size")
	}
	if cmd.Flags().Changed("backoff") {
		cfg.Backoff, _ = cmd.Flags().GetDuration("backoff")
	}
	if cmd.Flags().Changed("no-mask") {
		noMask, _ := cmd.Flags().GetBool("no-mask")
		cfg.Mask = !noMask
	}
}

// promptToken reads the auth token interactively with echo disabled. Returns
// empty (letting Validate fail with a clear message) when stdin is not a
// terminal.
func promptToken(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", nil
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Enter JWT token: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
