package main

import (
	"os"

	"github.com/spf13/cobra"

	"phpdoctype.dev/phpdoctype/diag"
)

func newFixCmd() *cobra.Command {
	var fl checkFlags
	cmd := &cobra.Command{
		Use:   "fix [path ...]",
		Short: "Apply every fixable finding's suggested edit in place",
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
			opts := runOpts{paths: paths, cfg: cfg, json: fl.jsonOut, strictParse: fl.strict, applyFixes: true}

			byFile, _, err := run(opts)
			if err != nil {
				return err
			}
			remaining := 0
			for _, findings := range byFile {
				for _, f := range findings {
					if !f.Fixable {
						remaining++
					}
				}
			}
			if opts.json {
				unfixedByFile := make(map[string][]diag.Finding, len(byFile))
				for file, findings := range byFile {
					for _, f := range findings {
						if !f.Fixable {
							unfixedByFile[file] = append(unfixedByFile[file], f)
						}
					}
				}
				if err := diag.RenderJSON(cmd.OutOrStdout(), diag.RunID(), unfixedByFile); err != nil {
					return err
				}
			} else {
				for file, findings := range byFile {
					var unfixed []diag.Finding
					for _, f := range findings {
						if !f.Fixable {
							unfixed = append(unfixed, f)
						}
					}
					diag.RenderText(cmd.OutOrStdout(), file, unfixed)
				}
			}
			if remaining > 0 {
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&fl.configPath, "config", "c", "", "path to a TOML or YAML config file")
	cmd.Flags().BoolVar(&fl.strictConfig, "strict-config", false, "decode --config directly instead of layering it over the preset")
	cmd.Flags().StringVarP(&fl.preset, "preset", "p", "default", `check preset ("default" or "strict")`)
	cmd.Flags().BoolVar(&fl.jsonOut, "json", false, "emit remaining findings as a single JSON report")
	cmd.Flags().BoolVar(&fl.debug, "debug", false, "abort on the first malformed declaration instead of recovering")
	cmd.Flags().BoolVar(&fl.strict, "fail-fast", false, "treat a walker abort as a run failure instead of an internal-failure finding")
	return cmd
}
