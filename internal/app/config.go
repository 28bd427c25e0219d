package app

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a configuration value is out of range.
var ErrInvalidConfig = errors.New("invalid config")

//go:embed config.schema.json
var configSchema []byte

const schemaURL = "https://wireworld.local/config.schema.json"

// Preset bundles the grid dimensions and pixel scale of a reference layout.
type Preset struct {
	Width, Height, Scale int
}

// Presets lists the named layouts accepted by -preset.
var Presets = map[string]Preset{
	"32x32": {Width: 32, Height: 32, Scale: 16},
	"16x16": {Width: 16, Height: 16, Scale: 32},
}

// Config represents the command-line parameters for the application.
type Config struct {
	File     string
	Preset   string
	Width    int
	Height   int
	Scale    int
	Delay    time.Duration
	Snapshot string
	Workers  int
	Catalog  string
	Observe  string
	DataDir  string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Width:    32,
		Height:   32,
		Scale:    16,
		Delay:    100 * time.Millisecond,
		Snapshot: "unnamed.bin",
		DataDir:  ".",
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.File, "config", c.File, "YAML config file (flags override it)")
	fs.StringVar(&c.Preset, "preset", c.Preset, "grid preset: 32x32 or 16x16")
	fs.IntVar(&c.Width, "width", c.Width, "grid width in cells")
	fs.IntVar(&c.Height, "height", c.Height, "grid height in cells")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixels per cell")
	fs.DurationVar(&c.Delay, "delay", c.Delay, "delay between generations")
	fs.StringVar(&c.Snapshot, "snapshot", c.Snapshot, "snapshot loaded at start and saved on quit (.zst compresses)")
	fs.IntVar(&c.Workers, "workers", c.Workers, "goroutines per generation (0 = GOMAXPROCS)")
	fs.StringVar(&c.Catalog, "catalog", c.Catalog, "sqlite catalogue of saved snapshots (empty disables)")
	fs.StringVar(&c.Observe, "observe", c.Observe, "loopback address for the websocket observer (empty disables)")
	fs.StringVar(&c.DataDir, "data-dir", c.DataDir, "directory dropped snapshots are saved into")
}

// fileConfig mirrors the YAML layout. Pointers distinguish absent keys.
type fileConfig struct {
	Preset   *string `yaml:"preset"`
	Width    *int    `yaml:"width"`
	Height   *int    `yaml:"height"`
	Scale    *int    `yaml:"scale"`
	Delay    *string `yaml:"delay"`
	Snapshot *string `yaml:"snapshot"`
	Workers  *int    `yaml:"workers"`
	Catalog  *string `yaml:"catalog"`
	Observe  *string `yaml:"observe"`
	DataDir  *string `yaml:"data_dir"`
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(configSchema)); err != nil {
		return nil, err
	}
	return compiler.Compile(schemaURL)
}

func readFile(path string) (*fileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", path)
	}

	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrapf(err, "[LoadConfig] failed to parse yaml: %+v", path)
	}
	if doc == nil {
		return &fileConfig{}, nil
	}
	// Round-trip through JSON so the validator sees plain JSON values.
	js, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "[LoadConfig] failed to convert yaml: %+v", path)
	}
	var v any
	if err := json.Unmarshal(js, &v); err != nil {
		return nil, errors.Wrapf(err, "[LoadConfig] failed to convert yaml: %+v", path)
	}
	schema, err := compileSchema()
	if err != nil {
		return nil, errors.Wrap(err, "[LoadConfig] failed to compile schema")
	}
	if err := schema.Validate(v); err != nil {
		return nil, errors.Wrapf(ErrInvalidConfig, "%s: %v", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return nil, errors.Wrapf(err, "[LoadConfig] failed to decode: %+v", path)
	}
	return &fc, nil
}

// Configure parses args into a Config. Values resolve as defaults, then the
// preset, then the -config file, then explicitly passed flags.
func Configure(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := NewConfig()
	cfg.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	var file *fileConfig
	if cfg.File != "" {
		fc, err := readFile(cfg.File)
		if err != nil {
			return nil, err
		}
		file = fc
	}
	if err := cfg.merge(file, set); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) merge(file *fileConfig, set map[string]bool) error {
	if file == nil {
		file = &fileConfig{}
	}
	if !set["preset"] && file.Preset != nil {
		c.Preset = *file.Preset
	}
	if c.Preset != "" {
		p, ok := Presets[c.Preset]
		if !ok {
			return errors.Wrapf(ErrInvalidConfig, "unknown preset %q", c.Preset)
		}
		if !set["width"] {
			c.Width = p.Width
		}
		if !set["height"] {
			c.Height = p.Height
		}
		if !set["scale"] {
			c.Scale = p.Scale
		}
	}

	setInt := func(name string, dst *int, v *int) {
		if v != nil && !set[name] {
			*dst = *v
		}
	}
	setString := func(name string, dst *string, v *string) {
		if v != nil && !set[name] {
			*dst = *v
		}
	}
	setInt("width", &c.Width, file.Width)
	setInt("height", &c.Height, file.Height)
	setInt("scale", &c.Scale, file.Scale)
	setInt("workers", &c.Workers, file.Workers)
	setString("snapshot", &c.Snapshot, file.Snapshot)
	setString("catalog", &c.Catalog, file.Catalog)
	setString("observe", &c.Observe, file.Observe)
	setString("data-dir", &c.DataDir, file.DataDir)
	if file.Delay != nil && !set["delay"] {
		d, err := time.ParseDuration(*file.Delay)
		if err != nil {
			return errors.Wrapf(ErrInvalidConfig, "delay %q: %v", *file.Delay, err)
		}
		c.Delay = d
	}
	return nil
}

// Validate reports the first out-of-range value, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Preset != "" && !knownPreset(c.Preset):
		return errors.Wrapf(ErrInvalidConfig, "unknown preset %q", c.Preset)
	case c.Width <= 0 || c.Height <= 0:
		return errors.Wrapf(ErrInvalidConfig, "grid must be at least 1x1, got %dx%d", c.Width, c.Height)
	case c.Scale <= 0:
		return errors.Wrapf(ErrInvalidConfig, "scale must be positive, got %d", c.Scale)
	case c.Delay < 0:
		return errors.Wrapf(ErrInvalidConfig, "delay must not be negative, got %v", c.Delay)
	case c.Workers < 0:
		return errors.Wrapf(ErrInvalidConfig, "workers must not be negative, got %d", c.Workers)
	case c.Snapshot == "":
		return errors.Wrap(ErrInvalidConfig, "snapshot path is empty")
	}
	return nil
}

func knownPreset(name string) bool {
	_, ok := Presets[name]
	return ok
}
