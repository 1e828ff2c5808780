package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rbxupload/rbxupload/internal/assets"
	"github.com/rbxupload/rbxupload/internal/report"
	"github.com/rbxupload/rbxupload/internal/uploader"
	"github.com/rbxupload/rbxupload/internal/wizard"
)

type uploadOptions struct {
	registry         bool
	noInteractive    bool
	skip             []string
	group            int64
	assetType        string
	name             string
	nameRetry        string
	description      string
	descriptionRetry string

	rateLimitDelay      time.Duration
	maxRateLimitRetries int
	concurrency         int
	rps                 float64
	reportPath          string
}

func newUploadCmd() *cobra.Command {
	var o uploadOptions

	cmd := &cobra.Command{
		Use:   "upload [files...]",
		Short: "Upload image files as decals",
		Long: `Upload image files as decals. Arguments are glob patterns; ** matches across directories.

Anything not given on the command line is asked for interactively. Use --no-interactive
or --skip to suppress prompts. In names and descriptions '$file' is replaced with the file name.`,
		Example: `  # Ask for everything
  rbxupload upload

  # Upload a folder to a group without prompts
  rbxupload upload "icons/**/*.png" --group 1234 --no-interactive

  # Fall back to a safe name when text filtering rejects the original
  rbxupload upload *.png --name "Icon $file" --name-retry "Icon" --report run.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, done := defaultEnv()
			defer done()
			return runUpload(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), e, args, o)
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&o.registry, "registry", "r", false, "Log in with Roblox Studio's cookie from the registry (Windows)")
	f.BoolVar(&o.noInteractive, "no-interactive", false, "Don't prompt for anything")
	f.StringSliceVar(&o.skip, "skip", nil, "Skip specific prompts: "+strings.Join(wizard.SkipValues, ", "))
	f.Int64Var(&o.group, "group", 0, "Group id to upload to")
	f.StringVar(&o.assetType, "type", "", "Asset type to upload as (auto or decal)")
	f.StringVar(&o.name, "name", "", "Asset name (defaults to $file)")
	f.StringVar(&o.nameRetry, "name-retry", "", "Fallback name if the upload fails due to text filtering")
	f.StringVar(&o.description, "description", "", "Asset description")
	f.StringVar(&o.descriptionRetry, "description-retry", "", "Fallback description if the upload fails due to text filtering")
	f.DurationVar(&o.rateLimitDelay, "rate-limit-delay", uploader.DefaultRateLimitDelay, "Wait between retries when rate limited")
	f.IntVar(&o.maxRateLimitRetries, "max-rate-limit-retries", 0, "Give up on a file after this many rate limit waits (0 retries forever)")
	f.IntVar(&o.concurrency, "concurrency", 1, "Number of files to upload at once")
	f.Float64Var(&o.rps, "rps", 0, "Maximum requests per second (0 for no limit)")
	f.StringVar(&o.reportPath, "report", "", "Write per-file results to this .yaml, .json or .parquet file")

	return cmd
}

func runUpload(ctx context.Context, stdout, stderr io.Writer, e env, args []string, o uploadOptions) error {
	skips, err := wizard.ParseSkips(o.noInteractive, o.skip)
	if err != nil {
		return err
	}
	var assetType assets.Type
	if o.assetType != "" {
		if assetType, err = assets.ParseType(o.assetType); err != nil {
			return err
		}
	}
	if o.reportPath != "" {
		if _, err := report.FormatFor(o.reportPath); err != nil {
			return err
		}
	}

	w := &wizard.Wizard{Prompt: e.prompt, Skips: skips, Out: stdout, Err: stderr}
	useRegistry, err := w.UseRegistry(o.registry, e.creds.HasEnvCookie())
	if err != nil {
		return err
	}
	cookie, err := e.creds.Resolve(useRegistry)
	if err != nil {
		return err
	}
	client := newClient(cookie, o.rps)

	plan, err := w.Run(ctx, client, wizard.Settings{
		Patterns:    args,
		Type:        assetType,
		GroupID:     o.group,
		Name:        o.name,
		Description: o.description,
	})
	if err != nil {
		return err
	}
	plan.Job.Concurrency = o.concurrency

	up := uploader.New(client, uploader.Options{
		FallbackName:        o.nameRetry,
		FallbackDescription: o.descriptionRetry,
		RateLimitDelay:      o.rateLimitDelay,
		MaxRateLimitRetries: o.maxRateLimitRetries,
		Stdout:              stdout,
		Stderr:              stderr,
	})

	started := time.Now()
	outcomes := up.UploadAll(ctx, plan.Files, plan.Job)
	summary := uploader.Summarize(outcomes)
	slog.Info("Upload finished", "total", summary.Total, "uploaded", summary.Uploaded, "failed", summary.Failed, "elapsed", time.Since(started).Round(time.Second))

	if o.reportPath == "" {
		return nil
	}
	cfg := report.NewConfig(started, plan.Job)
	cfg.User, cfg.UserID = plan.User.Username, plan.User.UserID
	if err := report.Save(o.reportPath, report.Build(cfg, time.Now(), outcomes)); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	slog.Info("Report saved", "path", o.reportPath)
	return nil
}
