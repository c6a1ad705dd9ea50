// Package config resolves phpdoctype's check configuration: the
// preset booleans of spec §6, layered with a project config file and
// composer.json's declared minimum PHP version.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config carries the eight boolean check flags of §6 plus the
// minimum PHP version composer.json (if any) declares, which gates
// which native-syntax constructs are expected to appear at all.
type Config struct {
	DebugMode bool `mapstructure:"debug_mode" toml:"debug_mode" yaml:"debug_mode"`

	CheckHasDocBlocks bool `mapstructure:"check_has_doc_blocks" toml:"check_has_doc_blocks" yaml:"check_has_doc_blocks"`
	CheckHasTags      bool `mapstructure:"check_has_tags" toml:"check_has_tags" yaml:"check_has_tags"`
	CheckNoMisplaced  bool `mapstructure:"check_no_misplaced" toml:"check_no_misplaced" yaml:"check_no_misplaced"`
	CheckTypeMatch    bool `mapstructure:"check_type_match" toml:"check_type_match" yaml:"check_type_match"`
	CheckStyle        bool `mapstructure:"check_style" toml:"check_style" yaml:"check_style"`
	CheckPhpFig       bool `mapstructure:"check_phpfig" toml:"check_phpfig" yaml:"check_phpfig"`
	CheckPassSplat    bool `mapstructure:"check_pass_splat" toml:"check_pass_splat" yaml:"check_pass_splat"`

	MinPHPVersion int `mapstructure:"-" toml:"-" yaml:"-"`
}

const defaultPHPVersion = 70400

// Default enables only the checks §6 lists for the default preset.
func Default() Config {
	return Config{
		CheckNoMisplaced: true,
		CheckTypeMatch:   true,
		CheckPassSplat:   true,
		MinPHPVersion:    defaultPHPVersion,
	}
}

// Strict enables every check.
func Strict() Config {
	return Config{
		CheckHasDocBlocks: true,
		CheckHasTags:      true,
		CheckNoMisplaced:  true,
		CheckTypeMatch:    true,
		CheckStyle:        true,
		CheckPhpFig:       true,
		CheckPassSplat:    true,
		MinPHPVersion:     defaultPHPVersion,
	}
}

// Preset resolves a preset name to its Config, defaulting to Default
// for an unrecognized or empty name.
func Preset(name string) Config {
	switch strings.ToLower(name) {
	case "strict":
		return Strict()
	default:
		return Default()
	}
}

// Load layers a preset with an optional TOML or YAML config file at
// path (either extension is accepted; empty path means preset-only).
// A file that only sets a handful of keys is read through viper, so
// its values merge over the preset's defaults; a file the caller
// wants decoded strictly, with no defaulting, goes through LoadStrict
// instead.
func Load(path, preset string) (Config, error) {
	return LoadStrict(path, preset, false)
}

// LoadStrict is Load, plus a strict flag: when true, and path ends in
// ".toml" or ".yaml"/".yml", the file is decoded directly via
// LoadTOML/LoadYAML instead of layered over the preset with viper, so
// every check flag must be spelled out in the file.
func LoadStrict(path, preset string, strict bool) (Config, error) {
	cfg := Preset(preset)
	if path == "" {
		return cfg, nil
	}
	if strict {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".toml":
			return LoadTOML(path)
		case ".yaml", ".yml":
			return LoadYAML(path)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v, cfg)
	if err := v.ReadInConfig(); err != nil {
		return cfg, err
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("debug_mode", cfg.DebugMode)
	v.SetDefault("check_has_doc_blocks", cfg.CheckHasDocBlocks)
	v.SetDefault("check_has_tags", cfg.CheckHasTags)
	v.SetDefault("check_no_misplaced", cfg.CheckNoMisplaced)
	v.SetDefault("check_type_match", cfg.CheckTypeMatch)
	v.SetDefault("check_style", cfg.CheckStyle)
	v.SetDefault("check_phpfig", cfg.CheckPhpFig)
	v.SetDefault("check_pass_splat", cfg.CheckPassSplat)
}

// LoadTOML reads a Config from a TOML file directly, bypassing viper,
// for callers that want a strict decode without layered defaults.
func LoadTOML(path string) (Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	return cfg, err
}

// LoadYAML reads a Config from a YAML file directly.
func LoadYAML(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var minVerCache = map[string]int{}

// FindMinPHPVersion walks up from dir looking for a composer.json and
// reads its declared "php" platform requirement, so the walker can
// judge whether a native never return type is in scope for the
// project being checked.
func FindMinPHPVersion(dir string) (int, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return 0, err
	}
	if ver, ok := minVerCache[dir]; ok {
		return ver, nil
	}

	start := dir
	for {
		comp := filepath.Join(dir, "composer.json")
		b, err := os.ReadFile(comp)
		if os.IsNotExist(err) {
			parent := filepath.Dir(dir)
			if parent == dir {
				minVerCache[start] = defaultPHPVersion
				return defaultPHPVersion, nil
			}
			dir = parent
			continue
		}
		if err != nil {
			return 0, err
		}

		ver := parseComposerPHPVersion(b)
		minVerCache[start] = ver
		return ver, nil
	}
}

// FormatVersion renders an encoded version (major*10000 + minor*100)
// as "major.minor", for use in diagnostics that cite a project's
// declared minimum PHP version.
func FormatVersion(v int) string {
	return strconv.Itoa(v/10000) + "." + strconv.Itoa(v%10000/100)
}

func parseComposerPHPVersion(b []byte) int {
	var proj struct {
		Require map[string]string `json:"require"`
	}
	if err := json.Unmarshal(b, &proj); err != nil {
		return defaultPHPVersion
	}

	raw, ok := proj.Require["php"]
	if !ok {
		return defaultPHPVersion
	}
	ver, ok := strings.CutPrefix(raw, ">=")
	if !ok {
		if ver, ok = strings.CutPrefix(raw, "^"); !ok {
			return defaultPHPVersion
		}
	}
	maj, min, ok := strings.Cut(strings.TrimSpace(ver), ".")
	if !ok {
		return defaultPHPVersion
	}
	majInt, _ := strconv.Atoi(maj)
	minInt, _ := strconv.Atoi(min)
	if majInt == 0 {
		return defaultPHPVersion
	}
	return majInt*10000 + minInt*100
}
