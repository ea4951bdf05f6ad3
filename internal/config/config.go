package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/fluxwars/engine/internal/engine"
)

// FileName is the config file looked up in the config directory.
const FileName = "fluxwars.cfg.json"

// MemoryConfig holds replay file backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds settings for the SQLite backend. An empty DumpPath
// keeps the database in memory only.
type SQLiteConfig struct {
	DumpPath     string        `json:"dumpPath" mapstructure:"dumpPath"`
	DumpInterval time.Duration `json:"dumpInterval" mapstructure:"dumpInterval"`
}

// StorageConfig selects and configures the match recording backend.
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	Memory MemoryConfig `json:"memory" mapstructure:"memory"`
	SQLite SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
}

// OTelConfig holds OpenTelemetry settings.
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// InfluxConfig holds InfluxDB settings for per-round team metrics.
type InfluxConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Protocol string `json:"protocol" mapstructure:"protocol"`
	Token    string `json:"token" mapstructure:"token"`
	Org      string `json:"org" mapstructure:"org"`
	Bucket   string `json:"bucket" mapstructure:"bucket"`
}

// URL is the server address built from protocol, host and port.
func (c InfluxConfig) URL() string {
	return fmt.Sprintf("%s://%s:%s", c.Protocol, c.Host, c.Port)
}

// SetDefaults registers default values for every key.
func SetDefaults() {
	def := engine.DefaultConfig()

	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./fluxlogs")

	viper.SetDefault("engine.upkeep", def.Upkeep)
	viper.SetDefault("engine.opBudgetBase", def.OpBudgetBase)
	viper.SetDefault("engine.opBudgetPerCore", def.OpBudgetPerCore)
	viper.SetDefault("engine.turnTimeout", def.TurnTimeout.String())
	viper.SetDefault("engine.fluxRegen", def.FluxRegen)
	viper.SetDefault("engine.miningRate", def.MiningRate)
	viper.SetDefault("engine.income", def.Income)
	viper.SetDefault("engine.startingResources", def.StartingResources)
	viper.SetDefault("engine.includeBytecodes", def.IncludeBytecodes)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./replays")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.dumpPath", "")
	viper.SetDefault("storage.sqlite.dumpInterval", "3m")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "fluxwars")
	viper.SetDefault("influx.bucket", "matches")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "fluxwars")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// Load reads configuration from the JSON file in configDir on top of the
// defaults.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetEngineConfig returns the round driver settings.
func GetEngineConfig() engine.Config {
	return engine.Config{
		Upkeep:            viper.GetBool("engine.upkeep"),
		OpBudgetBase:      viper.GetInt("engine.opBudgetBase"),
		OpBudgetPerCore:   viper.GetInt("engine.opBudgetPerCore"),
		TurnTimeout:       viper.GetDuration("engine.turnTimeout"),
		FluxRegen:         viper.GetInt("engine.fluxRegen"),
		MiningRate:        viper.GetInt("engine.miningRate"),
		Income:            viper.GetInt("engine.income"),
		StartingResources: viper.GetInt("engine.startingResources"),
		IncludeBytecodes:  viper.GetBool("engine.includeBytecodes"),
	}
}

// GetStorageConfig returns the storage settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			DumpPath:     viper.GetString("storage.sqlite.dumpPath"),
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
		},
	}
}

// GetOTelConfig returns the OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetInfluxConfig returns the InfluxDB settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:  viper.GetBool("influx.enabled"),
		Host:     viper.GetString("influx.host"),
		Port:     viper.GetString("influx.port"),
		Protocol: viper.GetString("influx.protocol"),
		Token:    viper.GetString("influx.token"),
		Org:      viper.GetString("influx.org"),
		Bucket:   viper.GetString("influx.bucket"),
	}
}
