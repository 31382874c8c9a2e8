package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/KIRKR101/Streamline/internal/output"
	"github.com/KIRKR101/Streamline/internal/protocol"
	"github.com/KIRKR101/Streamline/internal/transfer"
)

var sendCmd = &cobra.Command{
	Use:   "send <address:port> <file>...",
	Short: "Send one or more files to a receiver",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := resolveAddr(args[0])
		if err != nil {
			return err
		}
		paths := args[1:]

		// Invocation errors are caught before any connection is opened.
		if err := validatePaths(paths); err != nil {
			return err
		}

		senderCfg := transfer.DefaultSenderConfig()
		senderCfg.ChunkSize = cfg.ChunkSize
		senderCfg.Limits = protocol.Limits{MaxNameBytes: cfg.MaxNameBytes}

		sender := transfer.NewSender(senderCfg, log.Logger)
		report, err := sender.SendFiles(cmd.Context(), addr, paths)
		if len(report.Files) > 0 {
			fmt.Fprint(cmd.OutOrStdout(), output.RenderBatch(report))
		}
		if err != nil {
			return err
		}
		if report.Skipped > 0 {
			return fmt.Errorf("%d of %d files skipped", report.Skipped, len(paths))
		}
		return nil
	},
}

func validatePaths(paths []string) error {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("file %s: %w", p, err)
		}
		if !info.Mode().IsRegular() {
			return fmt.Errorf("not a regular file: %s", p)
		}
		f, err := os.Open(p)
		if err != nil {
			return fmt.Errorf("file %s: %w", p, err)
		}
		_ = f.Close()
	}
	return nil
}

func init() {
	rootCmd.AddCommand(sendCmd)
}
