package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/grc-lab/attest/pkg/cli/config"
	"github.com/grc-lab/attest/pkg/usecase"
	"github.com/grc-lab/attest/pkg/utils/safe"
)

func cmdScanOverdue() *cli.Command {
	var repoCfg config.Repository

	return &cli.Command{
		Name:  "scan-overdue",
		Usage: "Scan for overdue control tests and raise alerts",
		Flags: repoCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			return withUseCases(ctx, &repoCfg, func(uc *usecase.UseCases) error {
				result, err := uc.Alert.ScanOverdue(ctx)
				if err != nil {
					return goerr.Wrap(err, "overdue scan failed")
				}

				safe.Fprintf(ctx, os.Stdout, "scanned:    %d\n", result.Scanned)
				safe.Fprintf(ctx, os.Stdout, "created:    %d\n", result.Created)
				safe.Fprintf(ctx, os.Stdout, "suppressed: %d\n", result.Suppressed)
				return nil
			})
		},
	}
}
