package config

import (
	"path/filepath"
	"time"

	"github.com/flightsurety/surety-node/cmd/utils"
	"github.com/flightsurety/surety-node/core/types"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// LogFormatPlain is a format for colored text
	LogFormatPlain = "plain"
	// LogFormatJSON is a format for json output
	LogFormatJSON = "json"

	defaultConfigDir = "config"
	defaultDataDir   = "data"

	defaultConfigFileName  = "config.toml"
	defaultGenesisJSONName = "genesis.json"
)

var (
	defaultConfigFilePath  = filepath.Join(defaultConfigDir, defaultConfigFileName)
	defaultGenesisJSONPath = filepath.Join(defaultConfigDir, defaultGenesisJSONName)
)

// Config defines the configuration of a surety node.
type Config struct {
	BaseConfig `mapstructure:",squash"`

	Registry   RegistryConfig   `mapstructure:",squash"`
	Events     EventsConfig     `mapstructure:",squash"`
	Simulation SimulationConfig `mapstructure:",squash"`
}

func DefaultConfig() *Config {
	return &Config{
		BaseConfig: DefaultBaseConfig(),
		Registry:   DefaultRegistryConfig(),
		Events:     DefaultEventsConfig(),
		Simulation: DefaultSimulationConfig(),
	}
}

// GetConfig returns the default config rooted at the surety home dir,
// creating the directory layout and a default config file if missing.
func GetConfig() *Config {
	cfg := DefaultConfig()

	cfg.SetRoot(utils.GetSuretyHome())
	EnsureRoot(utils.GetSuretyHome())

	return cfg
}

// LoadConfig reads the config file at path over the defaults.
func LoadConfig(path string, cfg *Config) error {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "read config %s", path)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return errors.Wrapf(err, "decode config %s", path)
	}

	return cfg.ValidateBasic()
}

// SetRoot sets the RootDir for all Config structs
func (cfg *Config) SetRoot(root string) *Config {
	cfg.BaseConfig.RootDir = root
	return cfg
}

func (cfg *Config) ValidateBasic() error {
	if cfg.KeepLastStates < 0 {
		return errors.New("keep_last_states field should not be negative")
	}
	if cfg.StateCacheSize < 0 {
		return errors.New("state_cache_size field should not be negative")
	}
	if cfg.LogFormat != LogFormatPlain && cfg.LogFormat != LogFormatJSON {
		return errors.Errorf("unsupported log_format %q", cfg.LogFormat)
	}
	if cfg.Simulation.Oracles < 0 {
		return errors.New("simulation_oracles field should not be negative")
	}
	return cfg.Registry.ValidateBasic()
}

//-----------------------------------------------------------------------------
// BaseConfig

// BaseConfig defines the base configuration for a surety node
type BaseConfig struct {
	// The root directory for all data.
	// This should be set in viper so it can unmarshal into this struct
	RootDir string `mapstructure:"home"`

	// Path to the JSON file containing the initial registry state
	Genesis string `mapstructure:"genesis_file"`

	// Output level for logging
	LogLevel string `mapstructure:"log_level"`

	// Output format: 'plain' (colored text) or 'json'
	LogFormat string `mapstructure:"log_format"`

	LogPath string `mapstructure:"log_path"`

	// Database backend: goleveldb | memdb
	DBBackend string `mapstructure:"db_backend"`

	// Database directory
	DBPath string `mapstructure:"db_path"`

	KeepLastStates int64 `mapstructure:"keep_last_states"`

	StateCacheSize int `mapstructure:"state_cache_size"`

	// Pause between two committed blocks
	BlockInterval time.Duration `mapstructure:"block_interval"`

	Prometheus bool `mapstructure:"prometheus"`

	PrometheusListenAddr string `mapstructure:"prometheus_listen_addr"`
}

// DefaultBaseConfig returns a default base configuration for a surety node
func DefaultBaseConfig() BaseConfig {
	return BaseConfig{
		Genesis:              defaultGenesisJSONPath,
		LogLevel:             DefaultPackageLogLevels(),
		LogFormat:            LogFormatPlain,
		LogPath:              "stdout",
		DBBackend:            "goleveldb",
		DBPath:               defaultDataDir,
		KeepLastStates:       120,
		StateCacheSize:       1000000,
		BlockInterval:        time.Second,
		Prometheus:           false,
		PrometheusListenAddr: ":26660",
	}
}

// GenesisFile returns the full path to the genesis.json file
func (cfg BaseConfig) GenesisFile() string {
	return rootify(cfg.Genesis, cfg.RootDir)
}

// DBDir returns the full path to the database directory
func (cfg BaseConfig) DBDir() string {
	return rootify(cfg.DBPath, cfg.RootDir)
}

//-----------------------------------------------------------------------------
// RegistryConfig

// RegistryConfig seeds a fresh registry when no genesis file exists.
type RegistryConfig struct {
	OwnerAddress string `mapstructure:"owner_address"`
	FirstAirline string `mapstructure:"first_airline"`

	// Calling contract authorized at genesis and used as the default caller
	AppAddress string `mapstructure:"app_address"`

	Seed string `mapstructure:"seed"`
}

func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{
		OwnerAddress: "0x627306090abaB3A6e1400e9345bC60c78a8BEf57",
		FirstAirline: "0xf17f52151EbEF6C7334FAD080c5704D77216b732",
		AppAddress:   "0xC5fdf4076b8F3A5357c5E395ab970B5B54098Fef",
		Seed:         "0x5375726574794e6f646547656e65736973536565640000000000000000000000",
	}
}

func (cfg RegistryConfig) ValidateBasic() error {
	for key, value := range map[string]string{
		"owner_address": cfg.OwnerAddress,
		"first_airline": cfg.FirstAirline,
		"app_address":   cfg.AppAddress,
	} {
		if !types.IsHexAddress(value) {
			return errors.Errorf("%s field is not a valid address: %q", key, value)
		}
	}
	return nil
}

//-----------------------------------------------------------------------------
// EventsConfig

type EventsConfig struct {
	// Store committed events per height
	Enabled bool `mapstructure:"events_enabled"`

	// Forward events to kafka when not empty
	KafkaBrokers []string `mapstructure:"kafka_brokers"`
	KafkaTopic   string   `mapstructure:"kafka_topic"`
}

func DefaultEventsConfig() EventsConfig {
	return EventsConfig{
		Enabled:    true,
		KafkaTopic: "surety_events",
	}
}

//-----------------------------------------------------------------------------
// SimulationConfig

type SimulationConfig struct {
	Oracles int `mapstructure:"simulation_oracles"`

	// Status code every simulated oracle reports
	Status uint8 `mapstructure:"simulation_seed_status"`
}

func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		Oracles: 20,
		Status:  20,
	}
}

// DefaultLogLevel returns a default log level of "error"
func DefaultLogLevel() string {
	return "error"
}

// DefaultPackageLogLevels returns a default log level setting so all packages
// log at "error", while the `state`, `oracle` and `main` packages log at "info"
func DefaultPackageLogLevels() string {
	return "main:info,state:info,oracle:info,*:" + DefaultLogLevel()
}

//-----------------------------------------------------------------------------
// Utils

// helper function to make config creation independent of root dir
func rootify(path, root string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
