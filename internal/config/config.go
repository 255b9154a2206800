package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SqliteConfig holds SQLite storage backend settings
type SqliteConfig struct {
	DumpPath            string `json:"dumpPath" mapstructure:"dumpPath"`
	DumpIntervalSeconds int    `json:"dumpIntervalSeconds" mapstructure:"dumpIntervalSeconds"`
}

// StorageConfig selects and configures the storage backend
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	Memory MemoryConfig `json:"memory" mapstructure:"memory"`
	Sqlite SqliteConfig `json:"sqlite" mapstructure:"sqlite"`
}

// Storage builds a StorageConfig from the loaded configuration.
func Storage() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		Sqlite: SqliteConfig{
			DumpPath:            viper.GetString("storage.sqlite.dumpPath"),
			DumpIntervalSeconds: viper.GetInt("storage.sqlite.dumpIntervalSeconds"),
		},
	}
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("engine.resolution", 1000)
	viper.SetDefault("engine.maxMemory", 10)

	viper.SetDefault("monitor.statusDir", "./logs")

	viper.SetDefault("sequencer.lookAhead", 0.5)
	viper.SetDefault("sequencer.precision", 0.001)
	viper.SetDefault("sequencer.maxQueue", 256)

	viper.SetDefault("layer.segments", 6)
	viper.SetDefault("layer.copies", 2)
	viper.SetDefault("layer.radius", 100.0)
	viper.SetDefault("layer.durationMode", "modulo")
	viper.SetDefault("layer.durationModulo", 4)
	viper.SetDefault("layer.minDuration", 0.1)
	viper.SetDefault("layer.maxDuration", 1.0)
	viper.SetDefault("layer.velocityMode", "modulo")
	viper.SetDefault("layer.velocityModulo", 4)
	viper.SetDefault("layer.minVelocity", 0.3)
	viper.SetDefault("layer.maxVelocity", 0.9)
	viper.SetDefault("layer.useEqualTemperament", false)
	viper.SetDefault("layer.referenceFrequency", 440.0)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./sessions")
	viper.SetDefault("storage.memory.compressOutput", false)
	viper.SetDefault("storage.sqlite.dumpPath", "")
	viper.SetDefault("storage.sqlite.dumpIntervalSeconds", 30)

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "polygonome")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "polygonome-metrics")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetConfigName("polygonome.cfg.json")
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

// GetFloat returns a float config value.
func GetFloat(key string) float64 {
	return viper.GetFloat64(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
