package cli

import (
	"context"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/grc-lab/attest/pkg/utils/logging"
)

func cmdMigrate() *cli.Command {
	var projectID string
	var databaseID string
	var dryRun bool

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Migrate Firestore indexes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "firestore-project-id",
				Usage:       "Firestore Project ID (required)",
				Required:    true,
				Sources:     cli.EnvVars("ATTEST_FIRESTORE_PROJECT_ID"),
				Destination: &projectID,
			},
			&cli.StringFlag{
				Name:        "firestore-database-id",
				Usage:       "Firestore Database ID",
				Sources:     cli.EnvVars("ATTEST_FIRESTORE_DATABASE_ID"),
				Destination: &databaseID,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Preview changes without applying",
				Destination: &dryRun,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			logger.Info("Migrate configuration",
				"projectID", projectID,
				"databaseID", databaseID,
				"dryRun", dryRun)

			indexConfig := getIndexConfig()

			client, err := fireconf.NewClient(ctx, projectID, databaseID)
			if err != nil {
				return goerr.Wrap(err, "failed to create fireconf client")
			}
			defer func() {
				if err := client.Close(); err != nil {
					logger.Error("failed to close fireconf client", "error", err.Error())
				}
			}()

			if dryRun {
				logger.Info("Dry run mode - previewing changes")
				plan, err := client.GetMigrationPlan(ctx, indexConfig)
				if err != nil {
					return goerr.Wrap(err, "failed to create migration plan")
				}

				if len(plan.Steps) == 0 {
					logger.Info("No changes required")
					return nil
				}

				for _, step := range plan.Steps {
					logger.Info("Migration step",
						"collection", step.Collection,
						"operation", step.Operation,
						"description", step.Description,
						"destructive", step.Destructive)
				}
			} else {
				logger.Info("Applying migrations")
				if err := client.Migrate(ctx, indexConfig); err != nil {
					return goerr.Wrap(err, "failed to apply migrations")
				}
				logger.Info("Migrations applied successfully")
			}

			return nil
		},
	}
}

// getIndexConfig returns the Firestore index configuration
func getIndexConfig() *fireconf.Config {
	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: "controls",
				Indexes: []fireconf.Index{
					// ListOverdue: status ASC, next_test_date ASC
					{
						Fields: []fireconf.IndexField{
							{Path: "status", Order: fireconf.OrderAscending},
							{Path: "next_test_date", Order: fireconf.OrderAscending},
						},
					},
				},
			},
			{
				Name: "test_executions",
				Indexes: []fireconf.Index{
					// CountSubmittedSince: status ASC, updated_at ASC
					{
						Fields: []fireconf.IndexField{
							{Path: "status", Order: fireconf.OrderAscending},
							{Path: "updated_at", Order: fireconf.OrderAscending},
						},
					},
				},
			},
			{
				Name: "alerts",
				Indexes: []fireconf.Index{
					// FindOpenByRelated: type ASC, related_kind ASC, related_id ASC
					{
						Fields: []fireconf.IndexField{
							{Path: "type", Order: fireconf.OrderAscending},
							{Path: "related_kind", Order: fireconf.OrderAscending},
							{Path: "related_id", Order: fireconf.OrderAscending},
						},
					},
				},
			},
			{
				Name: "capture_rules",
				Indexes: []fireconf.Index{
					// ListEnabled: enabled ASC, source_kind ASC, trigger_event ASC
					{
						Fields: []fireconf.IndexField{
							{Path: "enabled", Order: fireconf.OrderAscending},
							{Path: "source_kind", Order: fireconf.OrderAscending},
							{Path: "trigger_event", Order: fireconf.OrderAscending},
						},
					},
				},
			},
			{
				Name: "evidence",
				Indexes: []fireconf.Index{
					// ListByControl: control_id ASC, captured_at DESC
					{
						Fields: []fireconf.IndexField{
							{Path: "control_id", Order: fireconf.OrderAscending},
							{Path: "captured_at", Order: fireconf.OrderDescending},
						},
					},
				},
			},
		},
	}
}
