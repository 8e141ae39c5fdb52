package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/grc-lab/attest/pkg/cli/config"
	"github.com/grc-lab/attest/pkg/usecase"
)

func cmdPurge() *cli.Command {
	var repoCfg config.Repository
	var all bool
	var force bool

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "all",
			Usage:       "Delete every record, not only demo data",
			Destination: &all,
		},
		&cli.BoolFlag{
			Name:        "force",
			Usage:       "Skip the confirmation prompt",
			Aliases:     []string{"f"},
			Destination: &force,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "purge",
		Usage: "Delete demo data (or everything with --all)",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			warn := color.New(color.FgRed, color.Bold)
			if all {
				_, _ = warn.Println("Purging ALL records")
			} else {
				_, _ = warn.Println("Purging demo records")
			}

			if !force {
				_, _ = color.New(color.FgYellow).Print("Type 'yes' to continue: ")
				var answer string
				if _, err := fmt.Fscanln(os.Stdin, &answer); err != nil || answer != "yes" {
					_, _ = color.New(color.FgGreen).Println("Aborted")
					return nil
				}
			}

			return withUseCases(ctx, &repoCfg, func(uc *usecase.UseCases) error {
				var result *usecase.PurgeResult
				var err error
				if all {
					result, err = uc.Maintenance.PurgeAll(ctx, os.Stdout)
				} else {
					result, err = uc.Maintenance.PurgeDemo(ctx, os.Stdout)
				}
				if err != nil {
					return goerr.Wrap(err, "purge failed")
				}

				_, _ = color.New(color.FgGreen).Printf("Done: %d records deleted\n", result.Total())
				return nil
			})
		},
	}
}
