package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/KIRKR101/Streamline/internal/observability"
	"github.com/KIRKR101/Streamline/internal/protocol"
	"github.com/KIRKR101/Streamline/internal/transfer"
)

var serveAdminAddr string

var serveCmd = &cobra.Command{
	Use:   "serve <address:port> <directory>",
	Short: "Listen for inbound transfers and write files into a directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := resolveAddr(args[0])
		if err != nil {
			return err
		}
		dir := args[1]
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create destination directory: %w", err)
		}

		svcCfg := transfer.DefaultServiceConfig()
		svcCfg.ListenAddr = addr
		svcCfg.Dir = dir
		svcCfg.Receiver = transfer.ReceiverConfig{
			ChunkSize: cfg.ChunkSize,
			Limits:    protocol.Limits{MaxNameBytes: cfg.MaxNameBytes},
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		adminAddr := serveAdminAddr
		if adminAddr == "" {
			adminAddr = cfg.AdminAddr
		}
		if adminAddr != "" {
			router := observability.AdminRouter("streamline-server")
			go func() {
				if err := observability.ServeAdmin(ctx, adminAddr, router); err != nil {
					log.Error().Str("addr", adminAddr).Err(err).Msg("admin server failed")
				}
			}()
			log.Info().Str("addr", adminAddr).Msg("admin surface enabled")
		}

		svc := transfer.NewService(svcCfg, log.Logger)
		return svc.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAdminAddr, "admin-addr", "", "optional address for /health and /metrics")
	rootCmd.AddCommand(serveCmd)
}
