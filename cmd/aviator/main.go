package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"AviatorAdvisor/internal/config"
	"AviatorAdvisor/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	var debug bool
	cfg := &config.Config{}

	root := &cobra.Command{
		Use:           "aviator",
		Short:         "Wagering decision engine for the Aviator crash game",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if v := os.Getenv("CONFIG_PATH"); v != "" && !cmd.Flags().Changed("config") {
				cfgPath = v
			}
			loaded, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := loaded.Validate(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			logging.Setup(loaded.Log)
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			*cfg = *loaded
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "configs/config.yaml", "config file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(newRunCmd(cfg), newReplayCmd(cfg))
	return root
}

func engineLogger() zerolog.Logger {
	return log.Logger.With().Str("component", "engine").Logger()
}
