package main

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// watchAndRun runs the check once, then re-runs it on every subsequent
// write to a .php/.phpt file under one of opts.paths, for
// editor-adjacent iteration without a full language-server protocol.
func watchAndRun(cmd *cobra.Command, opts runOpts) error {
	if _, err := runAndReport(cmd, opts); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	dirs, err := watchableDirs(opts.paths)
	if err != nil {
		return err
	}
	for _, d := range dirs {
		if err := watcher.Add(d); err != nil {
			return fmt.Errorf("watching %s: %w", d, err)
		}
	}

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			ext := filepath.Ext(ev.Name)
			if ext != ".php" && ext != ".phpt" {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), "---", ev.Name, "changed ---")
			if _, err := runAndReport(cmd, opts); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "phpdoctype:", err)
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "phpdoctype: watch:", werr)
		}
	}
}

// watchableDirs resolves each path to the directory fsnotify should
// watch, deciding by extension: a path with a file extension has its
// parent watched, any other path is watched as a directory itself
// (fsnotify has no recursive-watch primitive, so a watched directory
// only observes its immediate children).
func watchableDirs(paths []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		dir := abs
		if ext := filepath.Ext(abs); ext != "" {
			dir = filepath.Dir(abs)
		}
		if !seen[dir] {
			seen[dir] = true
			out = append(out, dir)
		}
	}
	return out, nil
}
