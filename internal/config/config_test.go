package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"phpdoctype.dev/phpdoctype/internal/config"
)

func TestPreset(t *testing.T) {
	def := config.Preset("default")
	if !def.CheckTypeMatch || def.CheckHasDocBlocks {
		t.Fatalf("default preset = %+v", def)
	}
	strict := config.Preset("strict")
	if !strict.CheckHasDocBlocks || !strict.CheckStyle {
		t.Fatalf("strict preset = %+v", strict)
	}
}

func TestFindMinPHPVersionFallback(t *testing.T) {
	dir := t.TempDir()
	ver, err := config.FindMinPHPVersion(dir)
	if err != nil {
		t.Fatal(err)
	}
	if ver != 70400 {
		t.Errorf("ver = %d, want 70400 fallback", ver)
	}
}

func TestFindMinPHPVersionFromComposer(t *testing.T) {
	dir := t.TempDir()
	const composer = `{"require": {"php": "^8.1", "ext-json": "*"}}`
	if err := os.WriteFile(filepath.Join(dir, "composer.json"), []byte(composer), 0o644); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(dir, "src")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	ver, err := config.FindMinPHPVersion(sub)
	if err != nil {
		t.Fatal(err)
	}
	if ver != 80100 {
		t.Errorf("ver = %d, want 80100", ver)
	}
}

func TestLoadLayersFileOverPreset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "phpdoctype.toml")
	if err := os.WriteFile(path, []byte("check_style = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path, "default")
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.CheckStyle {
		t.Error("check_style from the file was not layered over the default preset")
	}
	if !cfg.CheckTypeMatch {
		t.Error("check_type_match from the default preset was lost when the file layered over it")
	}
}

func TestLoadStrictDecodesTOMLDirectly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "phpdoctype.toml")
	if err := os.WriteFile(path, []byte("check_style = true\ncheck_phpfig = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.LoadStrict(path, "strict", true)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.CheckStyle || !cfg.CheckPhpFig {
		t.Fatalf("cfg = %+v, want both flags decoded from the file", cfg)
	}
	if cfg.CheckTypeMatch {
		t.Error("strict decode should not layer the preset's defaults over the file")
	}
}

func TestLoadStrictDecodesYAMLDirectly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "phpdoctype.yaml")
	if err := os.WriteFile(path, []byte("check_style: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.LoadStrict(path, "strict", true)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.CheckStyle {
		t.Fatalf("cfg = %+v, want check_style decoded from the file", cfg)
	}
}
