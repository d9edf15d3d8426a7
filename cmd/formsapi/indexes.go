package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/formforge/forms-api/internal/infrastructure/db/mongo"
)

func newEnsureIndexesCmd(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "ensure-indexes",
		Short: "Create the MongoDB indexes and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := load(cmd.Context())
			if err != nil {
				return err
			}

			client, db, err := mongo.Connect(cmd.Context(), mongo.Config{
				URI:      cfg.Mongo.URI,
				Database: cfg.Mongo.Database,
				Timeout:  cfg.Mongo.Timeout,
			})
			if err != nil {
				return err
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				_ = client.Disconnect(ctx)
			}()

			if err := mongo.EnsureIndexes(cmd.Context(), db); err != nil {
				return err
			}
			log.Info().Str("database", cfg.Mongo.Database).Msg("indexes ensured")
			return nil
		},
	}
}
