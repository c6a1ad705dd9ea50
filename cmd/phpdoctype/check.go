package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"phpdoctype.dev/phpdoctype/diag"
	"phpdoctype.dev/phpdoctype/internal/config"
)

type checkFlags struct {
	configPath   string
	strictConfig bool
	preset       string
	jsonOut      bool
	debug        bool
	strict       bool
	watch        bool
}

func newCheckCmd() *cobra.Command {
	var fl checkFlags
	cmd := &cobra.Command{
		Use:   "check [path ...]",
		Short: "Report PHPDoc/native type mismatches without modifying files",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				paths = []string{"."}
			}
			cfg, err := loadConfig(fl.configPath, fl.preset, fl.debug, fl.strictConfig)
			if err != nil {
				return err
			}
			opts := runOpts{paths: paths, cfg: cfg, json: fl.jsonOut, strictParse: fl.strict}

			if fl.watch {
				return watchAndRun(cmd, opts)
			}
			failed, err := runAndReport(cmd, opts)
			if err != nil {
				return err
			}
			if failed {
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&fl.configPath, "config", "c", "", "path to a TOML or YAML config file")
	cmd.Flags().BoolVar(&fl.strictConfig, "strict-config", false, "decode --config directly instead of layering it over the preset")
	cmd.Flags().StringVarP(&fl.preset, "preset", "p", "default", `check preset ("default" or "strict")`)
	cmd.Flags().BoolVar(&fl.jsonOut, "json", false, "emit findings as a single JSON report")
	cmd.Flags().BoolVar(&fl.debug, "debug", false, "abort on the first malformed declaration instead of recovering")
	cmd.Flags().BoolVar(&fl.strict, "fail-fast", false, "treat a walker abort as a run failure instead of an internal-failure finding")
	cmd.Flags().BoolVarP(&fl.watch, "watch", "w", false, "re-run on every subsequent change to a watched path")
	return cmd
}

func loadConfig(path, preset string, debug, strictConfig bool) (config.Config, error) {
	cfg, err := config.LoadStrict(path, preset, strictConfig)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	cfg.DebugMode = debug
	if ver, err := config.FindMinPHPVersion("."); err == nil {
		cfg.MinPHPVersion = ver
	}
	return cfg, nil
}

// runAndReport runs one check pass and renders its findings, returning
// whether the run should be treated as a failure. It never calls
// os.Exit itself, so the same code path serves both a single check
// invocation and each re-run under -watch.
func runAndReport(cmd *cobra.Command, opts runOpts) (bool, error) {
	byFile, failed, err := run(opts)
	if err != nil {
		return false, err
	}
	if opts.json {
		if err := diag.RenderJSON(cmd.OutOrStdout(), diag.RunID(), byFile); err != nil {
			return false, err
		}
	} else {
		for file, findings := range byFile {
			diag.RenderText(cmd.OutOrStdout(), file, findings)
		}
	}
	return failed, nil
}
