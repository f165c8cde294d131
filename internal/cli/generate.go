package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"composegen/internal/compose"
	"composegen/internal/config"
	"composegen/internal/generator"
)

// incompleteError reports a run where some host failed or skipped models.
// Diagnostics were already logged, so Execute does not print it again.
type incompleteError struct {
	failed, partial int
}

func (e incompleteError) Error() string {
	return fmt.Sprintf("%d host(s) failed, %d host(s) partial", e.failed, e.partial)
}

func checkComplete(sum generator.Summary, allowMissing bool) error {
	if sum.Complete(allowMissing) {
		return nil
	}
	return incompleteError{failed: sum.Count(generator.StatusFailed), partial: sum.Count(generator.StatusPartial)}
}

func (a *app) generatorOptions(cfg config.Config, f *runFlags) generator.Options {
	return generator.Options{
		OutDir:  cfg.OutDir,
		Compose: cfg.ComposeOptions(),
		Hosts:   f.hosts,
		Logger:  a.log,
	}
}

func (a *app) generateCmd() *cobra.Command {
	var (
		f           runFlags
		dryRun      bool
		metricsFile string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write docker-compose.<host>.yml for every host in the cluster description",
		Example: "  composegen generate --cluster cluster.json --images images.yaml --out-dir deploy\n" +
			"  composegen generate --cluster cluster.json --images images.yaml --otel-endpoint http://collector:4317",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd, &f)
			if err != nil {
				return err
			}
			spec, images, err := loadInputs(cfg)
			if err != nil {
				return err
			}
			opts := a.generatorOptions(cfg, &f)
			var sum generator.Summary
			if dryRun {
				sum, err = generator.Generate(spec, images, opts)
				if err == nil {
					err = printManifests(a.stdout, sum)
				}
			} else {
				sum, err = generator.Run(spec, images, opts)
			}
			if metricsFile != "" {
				if merr := generator.WriteMetrics(metricsFile); merr != nil {
					a.log.Error().Err(merr).Str("file", metricsFile).Msg("write metrics")
				}
			}
			if err != nil {
				return err
			}
			if !dryRun {
				printSummary(a.stdout, sum)
			}
			return checkComplete(sum, f.allowMissing)
		},
	}
	f.register(cmd, true)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print manifests to stdout instead of writing files")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics in text format to this file after the run")
	return cmd
}

func (a *app) validateCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check inputs and report per-host outcomes without writing files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd, &f)
			if err != nil {
				return err
			}
			spec, images, err := loadInputs(cfg)
			if err != nil {
				return err
			}
			sum, err := generator.Generate(spec, images, a.generatorOptions(cfg, &f))
			if err != nil {
				return err
			}
			printSummary(a.stdout, sum)
			return checkComplete(sum, f.allowMissing)
		},
	}
	f.register(cmd, false)
	return cmd
}

func (a *app) renderCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "render HOST",
		Short: "Print one host's manifest to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd, &f)
			if err != nil {
				return err
			}
			spec, images, err := loadInputs(cfg)
			if err != nil {
				return err
			}
			f.hosts = []string{args[0]}
			sum, err := generator.Generate(spec, images, a.generatorOptions(cfg, &f))
			if err != nil {
				return err
			}
			rep := sum.Hosts[0]
			if rep.Manifest == nil {
				return incompleteError{failed: 1}
			}
			if err := compose.Encode(a.stdout, rep.Manifest); err != nil {
				return err
			}
			return checkComplete(sum, f.allowMissing)
		},
	}
	f.register(cmd, false)
	if fl := cmd.Flags().Lookup("host"); fl != nil {
		fl.Hidden = true
	}
	return cmd
}

// printSummary writes one line per host.
func printSummary(w io.Writer, sum generator.Summary) {
	for _, h := range sum.Hosts {
		switch h.Status {
		case generator.StatusFailed:
			fmt.Fprintf(w, "%-20s %-8s %v\n", h.Host, h.Status, h.Err)
		default:
			line := fmt.Sprintf("%-20s %-8s %d service(s)", h.Host, h.Status, h.Services)
			if len(h.Skipped) > 0 {
				line += fmt.Sprintf(", %d skipped", len(h.Skipped))
			}
			if h.File != "" {
				line += "  " + h.File
			}
			fmt.Fprintln(w, line)
		}
	}
	fmt.Fprintf(w, "%d ok, %d partial, %d failed\n",
		sum.Count(generator.StatusOK), sum.Count(generator.StatusPartial), sum.Count(generator.StatusFailed))
}

// printManifests writes every produced manifest, each preceded by its file name.
func printManifests(w io.Writer, sum generator.Summary) error {
	for _, h := range sum.Hosts {
		if h.Manifest == nil {
			continue
		}
		fmt.Fprintf(w, "---\n# %s\n", generator.FileName(h.Host))
		if err := compose.Encode(w, h.Manifest); err != nil {
			return err
		}
	}
	return nil
}
