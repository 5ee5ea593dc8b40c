package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoConfig is returned when no configuration file exists up to the filesystem root.
var ErrNoConfig = errors.New("no " + FileName + " found")

// Config is the generation configuration. Zero values fall back to defaults.
type Config struct {
	Output OutputConfig `yaml:"output,omitempty"`
	// Template is a path to a text/template file replacing the built-in one.
	Template string `yaml:"template,omitempty"`
	// Workers bounds the number of types generated concurrently. 0 means GOMAXPROCS.
	Workers int `yaml:"workers,omitempty"`
	// BuildTags are passed to the package loader.
	BuildTags []string `yaml:"buildTags,omitempty"`

	// Dir is the directory the configuration was found in. Not serialized.
	Dir string `yaml:"-"`
}

// OutputConfig controls where generated files land.
type OutputConfig struct {
	Suffix string `yaml:"suffix,omitempty"`
	// Dir, when set, collects every generated file in one directory.
	Dir string `yaml:"dir,omitempty"`
}

// NewConfig returns a configuration with defaults applied.
func NewConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Output.Suffix == "" {
		c.Output.Suffix = DefaultSuffix
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
}

// Validate reports configuration values that cannot work.
func (c *Config) Validate() error {
	if !strings.HasSuffix(c.Output.Suffix, ".go") {
		return fmt.Errorf("output suffix %q must end in .go", c.Output.Suffix)
	}
	return nil
}

// BuildFlags renders BuildTags for packages.Config.
func (c *Config) BuildFlags() []string {
	if len(c.BuildTags) == 0 {
		return nil
	}
	return []string{"-tags=" + strings.Join(c.BuildTags, ",")}
}

// Load reads the configuration file in dir.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	c.Dir = dir
	if c.Template != "" && !filepath.IsAbs(c.Template) {
		c.Template = filepath.Join(dir, c.Template)
	}
	if c.Output.Dir != "" && !filepath.IsAbs(c.Output.Dir) {
		c.Output.Dir = filepath.Join(dir, c.Output.Dir)
	}
	c.applyDefaults()
	return c, nil
}

// Discover walks up from startDir and loads the first configuration file found.
func Discover(startDir string) (*Config, error) {
	dir := startDir
	for {
		c, err := Load(dir)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, ErrNoConfig
		}
		dir = parent
	}
}
