package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rentr/api/internal/config"
	"github.com/rentr/api/internal/logger"
)

// version is the service version reported at startup.
const version = "1.0.0"

// app carries state shared by every subcommand once the root pre-run has
// loaded configuration.
type app struct {
	v   *viper.Viper
	cfg *config.Config
	log *logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:          "rentr-api",
		Short:        "Tenant scoring and property matching API",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWith(a.v)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg = cfg
			a.log = logger.New(cfg.Server.Env)
			return nil
		},
	}

	root.PersistentFlags().String("scoring-config", "", "path to a YAML scoring weight table (env SCORING_CONFIG_PATH)")
	_ = a.v.BindPFlag("SCORING_CONFIG_PATH", root.PersistentFlags().Lookup("scoring-config"))

	root.AddCommand(newServeCmd(a), newMigrateCmd(a))
	return root
}
