package cli

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/grc-lab/attest/pkg/cli/config"
	"github.com/grc-lab/attest/pkg/usecase"
	"github.com/grc-lab/attest/pkg/utils/safe"
)

func cmdDigest() *cli.Command {
	var repoCfg config.Repository

	return &cli.Command{
		Name:  "digest",
		Usage: "Generate compliance digest reports",
		Flags: repoCfg.Flags(),
		Commands: []*cli.Command{
			{
				Name:  "weekly",
				Usage: "Weekly compliance summary",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withUseCases(ctx, &repoCfg, func(uc *usecase.UseCases) error {
						digest, err := uc.Digest.Weekly(ctx)
						if err != nil {
							return goerr.Wrap(err, "failed to build weekly digest")
						}
						if digest == nil {
							safe.Fprintf(ctx, os.Stdout, "weekly digest is disabled\n")
							return nil
						}

						title := color.New(color.FgCyan, color.Bold)
						_, _ = title.Println("Weekly Compliance Digest")
						safe.Fprintf(ctx, os.Stdout, "generated at:      %s\n", digest.GeneratedAt.Format("2006-01-02 15:04"))
						safe.Fprintf(ctx, os.Stdout, "active controls:   %d\n", digest.ActiveControls)
						safe.Fprintf(ctx, os.Stdout, "open risks:        %d\n", digest.OpenRisks)
						safe.Fprintf(ctx, os.Stdout, "open deficiencies: %d\n", digest.OpenDeficiencies)
						safe.Fprintf(ctx, os.Stdout, "tests last week:   %d\n", digest.TestsLastWeek)
						return nil
					})
				},
			},
			{
				Name:  "monthly",
				Usage: "Monthly control effectiveness summary",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withUseCases(ctx, &repoCfg, func(uc *usecase.UseCases) error {
						digest, err := uc.Digest.Monthly(ctx)
						if err != nil {
							return goerr.Wrap(err, "failed to build monthly digest")
						}
						if digest == nil {
							safe.Fprintf(ctx, os.Stdout, "compliance features are disabled\n")
							return nil
						}

						title := color.New(color.FgCyan, color.Bold)
						_, _ = title.Println("Monthly Control Effectiveness")
						safe.Fprintf(ctx, os.Stdout, "generated at:       %s\n", digest.GeneratedAt.Format("2006-01-02 15:04"))
						safe.Fprintf(ctx, os.Stdout, "active controls:    %d\n", digest.ActiveControls)
						safe.Fprintf(ctx, os.Stdout, "tested controls:    %d\n", digest.TestedControls)
						safe.Fprintf(ctx, os.Stdout, "effective controls: %d\n", digest.EffectiveControls)
						safe.Fprintf(ctx, os.Stdout, "effectiveness:      %.1f%%\n", digest.EffectivenessRate)
						safe.Fprintf(ctx, os.Stdout, "open deficiencies:  %d\n", digest.OpenDeficiencies)
						return nil
					})
				},
			},
		},
	}
}

// withUseCases builds the repository and use cases for a one-shot
// command and tears them down afterwards.
func withUseCases(ctx context.Context, repoCfg *config.Repository, fn func(uc *usecase.UseCases) error) error {
	repo, err := repoCfg.Configure(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to initialize repository")
	}

	uc := usecase.New(repo)
	defer func() {
		_ = uc.Close()
	}()

	return fn(uc)
}
