package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"phpdoctype.dev/phpdoctype/diag"
	"phpdoctype.dev/phpdoctype/format"
	"phpdoctype.dev/phpdoctype/hierarchy"
	"phpdoctype.dev/phpdoctype/internal/config"
	"phpdoctype.dev/phpdoctype/phptype"
	"phpdoctype.dev/phpdoctype/token"
	"phpdoctype.dev/phpdoctype/walk"
)

// runOpts carries the resolved settings a check or fix invocation
// shares, gathered from cobra flags plus internal/config.LoadStrict
// (via loadConfig).
type runOpts struct {
	paths       []string
	cfg         config.Config
	json        bool
	applyFixes  bool
	strictParse bool
}

// collectPHPFiles walks paths, returning every *.php/*.phpt file found
// (a bare file argument is returned as-is without checking its
// extension, matching the teacher's behavior for a single named file).
func collectPHPFiles(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			out = append(out, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			switch filepath.Ext(d.Name()) {
			case ".php", ".phpt":
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// run executes one check/fix pass over opts.paths: pass 1 gathers the
// class hierarchy across every file so a subclass declared in one file
// resolves correctly against a parent declared in another, then pass 2
// walks each file against the merged hierarchy.
func run(opts runOpts) (byFile map[string][]diag.Finding, failed bool, err error) {
	files, err := collectPHPFiles(opts.paths)
	if err != nil {
		return nil, false, err
	}

	artifacts := map[string]phptype.Artifact{}
	sources := make(map[string][]byte, len(files))
	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", path, err)
		}
		sources[path] = src
		sc := token.NewScanner(bytes.NewReader(src))
		for fq, art := range walk.CollectArtifacts(sc) {
			artifacts[fq] = art
		}
	}
	hier := hierarchy.NewOracle(artifacts)

	byFile = make(map[string][]diag.Finding, len(files))
	for _, path := range files {
		col := &diag.Collector{File: path, AcceptFixes: opts.applyFixes}
		sc := token.NewScanner(bytes.NewReader(sources[path]))
		w := walk.NewWalker(opts.cfg, hier, col, artifacts)
		if werr := w.Walk(sc); werr != nil {
			if opts.strictParse {
				return byFile, true, fmt.Errorf("%s: %w", path, werr)
			}
			col.AddError(diag.CodeInternalFailure, token.Pos{}, "aborted: %v", werr)
		}
		byFile[path] = col.Findings

		for _, f := range col.Findings {
			if f.Severity == diag.Error {
				failed = true
			}
		}
		if len(col.Findings) > 0 {
			failed = true
		}

		if opts.applyFixes && len(col.Edits) > 0 {
			fixed, ferr := format.ApplyEdits(path, sources[path], col.Edits)
			if ferr != nil {
				return byFile, failed, ferr
			}
			if err := os.WriteFile(path, fixed, 0o644); err != nil {
				return byFile, failed, fmt.Errorf("%s: %w", path, err)
			}
		}
	}
	return byFile, failed, nil
}
