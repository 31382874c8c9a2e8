package cli

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KIRKR101/Streamline/internal/config"
	"github.com/KIRKR101/Streamline/internal/logging"
)

var (
	cfgFile  string
	logLevel string

	// Shared state set during PersistentPreRun
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "streamline",
	Short: "Point-to-point file transfer over a single TCP connection",
	Long: `Streamline moves an ordered batch of files between two machines over
one TCP connection. Run "streamline serve" on the receiving side and
"streamline send" on the sending side.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.ConfigureRuntime()

		cfg = config.Default()
		if cfgFile != "" {
			loaded, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		logging.SetLevel(cfg.LogLevel)
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// RootCmd returns the root cobra.Command for testing purposes.
func RootCmd() *cobra.Command {
	return rootCmd
}

// resolveAddr validates an address:port argument, filling in the wildcard
// host for the port-only ":8080" form.
func resolveAddr(arg string) (string, error) {
	addr := strings.TrimSpace(arg)
	if addr == "" {
		return "", errors.New("address required")
	}
	if strings.HasPrefix(addr, ":") {
		addr = "0.0.0.0" + addr
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", fmt.Errorf("invalid address %q: %w", arg, err)
	}
	if host == "" || port == "" {
		return "", fmt.Errorf("invalid address %q: host and port required", arg)
	}
	return addr, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "optional TOML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
}
