package main

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/formforge/forms-api/internal/pkg/config"
	"github.com/formforge/forms-api/pkg/logger"
)

type loadFunc func(ctx context.Context) (*config.Config, zerolog.Logger, error)

// newRootCmd builds the command tree. Configuration comes from lookuper when
// set, otherwise from the --env-file and the process environment.
func newRootCmd(lookuper envconfig.Lookuper) *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "formsapi",
		Short:         "Form builder API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file read before the environment")

	load := func(ctx context.Context) (*config.Config, zerolog.Logger, error) {
		var (
			cfg *config.Config
			err error
		)
		if lookuper != nil {
			cfg, err = config.FromLookuper(ctx, lookuper)
		} else {
			cfg, err = config.Load(ctx, envFile)
		}
		if err != nil {
			return nil, zerolog.Logger{}, err
		}
		log := logger.Init(logger.Options{
			Level:   cfg.LogLevel,
			Pretty:  !cfg.IsProduction(),
			Service: "formsapi",
		})
		return cfg, log, nil
	}

	root.AddCommand(newServeCmd(load), newEnsureIndexesCmd(load))
	return root
}
