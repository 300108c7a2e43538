package config

import (
	"bytes"
	"path/filepath"
	"text/template"

	tmos "github.com/tendermint/tendermint/libs/os"
)

var configTemplate *template.Template

func init() {
	var err error
	if configTemplate, err = template.New("configFileTemplate").Parse(defaultConfigTemplate); err != nil {
		panic(err)
	}
}

// EnsureRoot creates the root, config, and data directories if they don't exist,
// and panics if it fails.
func EnsureRoot(rootDir string) {
	if err := tmos.EnsureDir(rootDir, 0700); err != nil {
		panic(err.Error())
	}
	if err := tmos.EnsureDir(filepath.Join(rootDir, defaultConfigDir), 0700); err != nil {
		panic(err.Error())
	}
	if err := tmos.EnsureDir(filepath.Join(rootDir, defaultDataDir), 0700); err != nil {
		panic(err.Error())
	}

	configFilePath := filepath.Join(rootDir, defaultConfigFilePath)

	// Write default config file if missing.
	if !tmos.FileExists(configFilePath) {
		writeDefaultConfigFile(configFilePath)
	}
}

func writeDefaultConfigFile(configFilePath string) {
	WriteConfigFile(configFilePath, DefaultConfig())
}

// WriteConfigFile renders config using the template and writes it to configFilePath.
func WriteConfigFile(configFilePath string, config *Config) {
	var buffer bytes.Buffer

	if err := configTemplate.Execute(&buffer, config); err != nil {
		panic(err)
	}

	tmos.MustWriteFile(configFilePath, buffer.Bytes(), 0644)
}

// Note: any changes to the comments/variables/mapstructure
// must be reflected in the appropriate struct in config/config.go
const defaultConfigTemplate = `# This is a TOML config file.
# For more information, see https://github.com/toml-lang/toml

##### main base config options #####

# Path to the JSON file containing the initial registry state
genesis_file = "{{ js .BaseConfig.Genesis }}"

# Database backend: goleveldb | memdb
db_backend = "{{ .BaseConfig.DBBackend }}"

# Database directory
db_path = "{{ js .BaseConfig.DBPath }}"

# Output level for logging, including package level options
log_level = "{{ .BaseConfig.LogLevel }}"

# Output format: 'plain' (colored text) or 'json'
log_format = "{{ .BaseConfig.LogFormat }}"

# Path to file for logs, "stdout" by default
log_path = "{{ .BaseConfig.LogPath }}"

# Number of committed states kept on disk, 0 keeps all of them
keep_last_states = {{ .BaseConfig.KeepLastStates }}

# Size of the state tree node cache
state_cache_size = {{ .BaseConfig.StateCacheSize }}

# Pause between two committed blocks
block_interval = "{{ .BaseConfig.BlockInterval }}"

##### registry genesis options #####

# Owner of the registry, the only account allowed to authorize callers
owner_address = "{{ .Registry.OwnerAddress }}"

# Airline registered at genesis
first_airline = "{{ .Registry.FirstAirline }}"

# Calling contract authorized at genesis
app_address = "{{ .Registry.AppAddress }}"

# Seed of the first oracle index draws
seed = "{{ .Registry.Seed }}"

##### events options #####

# Store committed events per height
events_enabled = {{ .Events.Enabled }}

# Kafka brokers receiving every event, empty disables forwarding
kafka_brokers = [{{ range $i, $b := .Events.KafkaBrokers }}{{ if $i }}, {{ end }}"{{ $b }}"{{ end }}]

kafka_topic = "{{ .Events.KafkaTopic }}"

##### simulation options #####

# Number of oracles registered by the simulate command
simulation_oracles = {{ .Simulation.Oracles }}

# Status code reported by simulated oracles
simulation_seed_status = {{ .Simulation.Status }}

##### instrumentation configuration options #####

# When true, Prometheus metrics are served under /metrics on
# prometheus_listen_addr.
prometheus = {{ .BaseConfig.Prometheus }}

# Address to listen for Prometheus collector(s) connections
prometheus_listen_addr = "{{ .BaseConfig.PrometheusListenAddr }}"
`
