package neat

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// ErrInvalidConfig is returned by LoadConfig and Config.Validate.
var ErrInvalidConfig = errors.New("config error")

// Config stores every tunable of the topology engine and its tools.
type Config struct {
	Genotype GenotypeConfig
	Mutation MutationConfig
	Network  NetworkConfig
	Probe    ProbeConfig
	Archive  ArchiveConfig
}

// GenotypeConfig describes the initial network and engine checks.
type GenotypeConfig struct {
	NumSensors      int   `ini:"num_sensors"`
	NumOutputs      int   `ini:"num_outputs"`
	Seed            int64 `ini:"seed"`             // 0 = seed from the clock
	CheckInvariants bool  `ini:"check_invariants"` // re-check acyclicity after add_connection
}

// MutationConfig holds the structural mutation schedule used by Genotype.Mutate.
type MutationConfig struct {
	AddNodeProb          float64 `ini:"add_node_prob"`
	AddConnectionProb    float64 `ini:"add_connection_prob"`
	ToggleConnectionProb float64 `ini:"toggle_connection_prob"`
	Attempts             int     `ini:"attempts"` // draws per operator before giving up
	Rounds               int     `ini:"rounds"`   // Mutate calls per CLI run
}

// NetworkConfig names the functions used by forward evaluation.
type NetworkConfig struct {
	Activation  string `ini:"activation"`
	Aggregation string `ini:"aggregation"`
}

// ProbeConfig controls DOT/PNG output.
type ProbeConfig struct {
	OutputDir  string `ini:"output_dir"`
	DotCommand string `ini:"dot_command"`
}

// ArchiveConfig selects the genotype archive backend.
type ArchiveConfig struct {
	Backend string `ini:"backend"` // "memory" or "badger"
	Path    string `ini:"path"`
}

// DefaultConfig returns the settings used when no config file is given.
func DefaultConfig() *Config {
	return &Config{
		Genotype: GenotypeConfig{
			NumSensors:      3,
			NumOutputs:      2,
			CheckInvariants: true,
		},
		Mutation: MutationConfig{
			AddNodeProb:          0.2,
			AddConnectionProb:    0.5,
			ToggleConnectionProb: 0.05,
			Attempts:             20,
			Rounds:               10,
		},
		Network: NetworkConfig{
			Activation:  "sigmoid",
			Aggregation: "sum",
		},
		Probe: ProbeConfig{
			OutputDir:  ".",
			DotCommand: "dot",
		},
		Archive: ArchiveConfig{
			Backend: "memory",
		},
	}
}

// LoadConfig loads configuration parameters from an INI file. Keys missing
// from the file keep their DefaultConfig values.
func LoadConfig(filePath string) (*Config, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}

	config := DefaultConfig()

	sections := []struct {
		name   string
		target any
	}{
		{"Genotype", &config.Genotype},
		{"Mutation", &config.Mutation},
		{"Network", &config.Network},
		{"Probe", &config.Probe},
		{"Archive", &config.Archive},
	}
	for _, s := range sections {
		if !cfg.HasSection(s.name) {
			continue
		}
		if err := cfg.Section(s.name).MapTo(s.target); err != nil {
			return nil, fmt.Errorf("failed to map [%s] section: %w", s.name, err)
		}
	}

	config.Network.Activation = cleanIniString(config.Network.Activation)
	config.Network.Aggregation = cleanIniString(config.Network.Aggregation)
	config.Probe.OutputDir = cleanIniString(config.Probe.OutputDir)
	config.Probe.DotCommand = cleanIniString(config.Probe.DotCommand)
	config.Archive.Backend = strings.ToLower(cleanIniString(config.Archive.Backend))
	config.Archive.Path = cleanIniString(config.Archive.Path)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks value ranges and names.
func (c *Config) Validate() error {
	if c.Genotype.NumSensors <= 0 {
		return fmt.Errorf("%w: num_sensors must be positive", ErrInvalidConfig)
	}
	if c.Genotype.NumOutputs <= 0 {
		return fmt.Errorf("%w: num_outputs must be positive", ErrInvalidConfig)
	}

	probs := map[string]float64{
		"add_node_prob":          c.Mutation.AddNodeProb,
		"add_connection_prob":    c.Mutation.AddConnectionProb,
		"toggle_connection_prob": c.Mutation.ToggleConnectionProb,
	}
	for name, p := range probs {
		if p < 0 || p > 1 {
			return fmt.Errorf("%w: %s must be between 0 and 1", ErrInvalidConfig, name)
		}
	}
	if c.Mutation.Attempts <= 0 {
		return fmt.Errorf("%w: attempts must be positive", ErrInvalidConfig)
	}
	if c.Mutation.Rounds < 0 {
		return fmt.Errorf("%w: rounds cannot be negative", ErrInvalidConfig)
	}

	if _, err := GetActivation(c.Network.Activation); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := GetAggregation(c.Network.Aggregation); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	switch c.Archive.Backend {
	case "", "memory":
	case "badger":
		if c.Archive.Path == "" {
			return fmt.Errorf("%w: badger archive needs a path", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: invalid archive backend '%s'", ErrInvalidConfig, c.Archive.Backend)
	}
	return nil
}

// GenotypeOptions translates the [Genotype] section into construction options.
func (gc *GenotypeConfig) GenotypeOptions() []Option {
	return []Option{
		WithSeed(gc.Seed),
		WithInvariantChecks(gc.CheckInvariants),
	}
}

// cleanIniString removes inline comments and trims whitespace from a string read from INI.
func cleanIniString(s string) string {
	if idx := strings.IndexAny(s, "#;"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
