package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bimmerbailey/chatscrub/internal/pii"
	"github.com/bimmerbailey/chatscrub/internal/tail"
)

// maxLineSize bounds a single input line when filtering.
const maxLineSize = 1024 * 1024

var maskCmd = &cobra.Command{
	Use:   "mask [flags] [file...]",
	Short: "Mask PII in local files or stdin",
	Long: `Run the PII masking engine as a line filter over local files, or over
stdin when no file is given. Output order and line structure are preserved.

With --follow the file is tailed like 'tail -f': existing lines are masked
first, then new lines as they are appended.

Examples:
  chatscrub mask transcript.txt
  chatscrub mask a.txt b.txt --out masked.txt
  cat chat.log | chatscrub mask
  chatscrub mask --follow live_chat.log`,
	RunE: runMask,
}

func init() {
	maskCmd.Flags().StringP("out", "o", "", "write output to file instead of stdout")
	maskCmd.Flags().Bool("follow", false, "follow a growing file and mask new lines")

	rootCmd.AddCommand(maskCmd)
}

func runMask(cmd *cobra.Command, args []string) error {
	outPath, _ := cmd.Flags().GetString("out")
	follow, _ := cmd.Flags().GetBool("follow")

	if follow && len(args) != 1 {
		return fmt.Errorf("--follow requires exactly one file")
	}

	out := cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	masker := pii.NewMasker()

	if follow {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		tailer := tail.New(tail.Options{
			FilePath: args[0],
			Replay:   true,
			Follow:   true,
			OutputFunc: func(line string) error {
				_, err := fmt.Fprintln(out, masker.Mask(line))
				return err
			},
		})
		return tailer.Run(ctx)
	}

	if len(args) == 0 {
		return maskStream(masker, cmd.InOrStdin(), out)
	}

	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		err = maskStream(masker, f, out)
		f.Close()
		if err != nil {
			return fmt.Errorf("masking %s: %w", path, err)
		}
	}
	return nil
}

// maskStream copies r to w line by line, masking each line.
func maskStream(masker *pii.Masker, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, maxLineSize)
	scanner.Buffer(buf, maxLineSize)

	bw := bufio.NewWriter(w)
	for scanner.Scan() {
		if _, err := fmt.Fprintln(bw, masker.Mask(scanner.Text())); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return bw.Flush()
}
