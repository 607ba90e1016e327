package project

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// SourceExt is the extension of forlang program files.
const SourceExt = ".fl"

// ErrNoManifest is returned by LoadManifestFrom when no manifest exists above the start directory.
var ErrNoManifest = errors.New("no forlang.toml found")

// Manifest is a loaded project manifest.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors forlang.toml.
type Config struct {
	Package PackageConfig `toml:"package" yaml:"package"`
	Run     RunConfig     `toml:"run" yaml:"run"`
	Limits  LimitsConfig  `toml:"limits" yaml:"limits"`
	Trace   TraceConfig   `toml:"trace" yaml:"trace"`
	Output  OutputConfig  `toml:"output" yaml:"output"`
}

type PackageConfig struct {
	Name string `toml:"name" yaml:"name"`
}

type RunConfig struct {
	Main  string   `toml:"main" yaml:"main"`
	Files []string `toml:"files" yaml:"files"`
}

type LimitsConfig struct {
	MaxIterations  uint64 `toml:"max_iterations" yaml:"max_iterations"`
	MaxDiagnostics int    `toml:"max_diagnostics" yaml:"max_diagnostics"`
}

type TraceConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Mode   string `toml:"mode" yaml:"mode"`
	Output string `toml:"output" yaml:"output"`
}

type OutputConfig struct {
	Color string `toml:"color" yaml:"color"` // auto|on|off
}

// LoadManifestFrom finds and loads the manifest above startDir.
// ok is false (with a nil error) when there is none.
func LoadManifestFrom(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := LoadManifest(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// LoadManifest decodes and validates the manifest at path.
// The format is chosen by extension: .toml, .yaml or .yml.
func LoadManifest(path string) (*Manifest, error) {
	var (
		cfg Config
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cfg, err = decodeYAML(path)
	default:
		cfg, err = decodeTOML(path)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, nil
}

func decodeTOML(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("run") {
		return Config{}, fmt.Errorf("%s: missing [run]", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	return cfg, nil
}

func decodeYAML(path string) (Config, error) {
	// #nosec G304 -- path comes from manifest discovery
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Package.Name) == "" {
		return errors.New("missing [package].name")
	}
	if strings.TrimSpace(c.Run.Main) == "" && len(c.Run.Files) == 0 {
		return errors.New("missing [run].main or [run].files")
	}
	switch c.Output.Color {
	case "", "auto", "on", "off":
	default:
		return fmt.Errorf("[output].color must be auto, on or off, got %q", c.Output.Color)
	}
	return nil
}

// RunTargets returns the absolute program paths named by [run]: main first,
// then files, in manifest order. Directories are returned as-is.
func (m *Manifest) RunTargets() ([]string, error) {
	var rels []string
	if main := strings.TrimSpace(m.Config.Run.Main); main != "" {
		rels = append(rels, main)
	}
	rels = append(rels, m.Config.Run.Files...)

	out := make([]string, 0, len(rels))
	for _, rel := range rels {
		p := filepath.Join(m.Root, filepath.FromSlash(rel))
		info, err := os.Stat(p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%s: run target does not exist: %s", m.Path, p)
			}
			return nil, fmt.Errorf("%s: failed to stat run target: %w", m.Path, err)
		}
		if !info.IsDir() && filepath.Ext(p) != SourceExt {
			return nil, fmt.Errorf("%s: run target must be a %s file or directory: %s", m.Path, SourceExt, rel)
		}
		out = append(out, p)
	}
	return out, nil
}
