// Package config loads the scenario engine's environment-driven
// configuration: store connection pieces (a MySQL DSN, or STORE_PATH for
// the embedded driver), the HTTP port, the rule-CSV autoload directory,
// and the optional cache/event-bus endpoints.
package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
)

var (
	cfg      *Config
	cfgOnce  sync.Once
)

// Config stores all configuration of the application.
type Config struct {
	EnvType string

	// Store: either a MySQL DSN's pieces, or StorePath for the embedded
	// (pure-Go, cgo-free) sqlite driver. StorePath set takes precedence —
	// see NewConnectionPool.
	StorePath  string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	// Server
	ServerPort string

	// Rule import
	TemplateDir      string
	ScenarioAutoload bool

	// Optional cache
	RedisHost string
	RedisPort string
	RedisDB   int

	// Optional ops event bus
	MQTTBrokerURL string
}

// Load loads config from environment variables based on ENV_TYPE, mirroring
// the LOCAL_/SERVER_ prefix-override convention.
func Load() *Config {
	envType := getEnv("ENV_TYPE", "LOCAL")
	prefix := "LOCAL_"
	if strings.ToUpper(envType) == "SERVER" {
		prefix = "SERVER_"
		envType = "SERVER"
	} else {
		envType = "LOCAL"
	}

	return &Config{
		EnvType: envType,

		StorePath:  getEnv(prefix+"STORE_PATH", getEnv("STORE_PATH", "")),
		DBHost:     getEnv(prefix+"DB_HOST", getEnv("DB_HOST", "localhost")),
		DBUser:     getEnv(prefix+"DB_USER", getEnv("DB_USER", "root")),
		DBPassword: getEnv(prefix+"DB_PASSWORD", getEnv("DB_PASSWORD", "")),
		DBName:     getEnv(prefix+"DB_NAME", getEnv("DB_NAME", "scenario_engine")),
		DBPort:     getEnv(prefix+"DB_PORT", getEnv("DB_PORT", "3306")),

		ServerPort: getEnv(prefix+"SERVER_PORT", getEnv("SERVER_PORT", "8080")),

		TemplateDir:      getEnv("TEMPLATE_DIR", "templates"),
		ScenarioAutoload: getEnvAsBool("SCENARIO_AUTOLOAD", false),

		RedisHost: getEnv("REDIS_HOST", ""),
		RedisPort: getEnv("REDIS_PORT", "6379"),
		RedisDB:   getEnvAsInt("REDIS_DB", 0),

		MQTTBrokerURL: getEnv("MQTT_BROKER_URL", ""),
	}
}

// Get returns the application configuration as a singleton.
func Get() *Config {
	cfgOnce.Do(func() {
		cfg = Load()
	})
	return cfg
}

// GetDSN returns the MySQL data source name. Unused when StorePath is set.
func (c *Config) GetDSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName +
		"?charset=utf8mb4&parseTime=True&loc=Local"
}

// UsesEmbeddedStore reports whether StorePath selects the embedded sqlite
// driver over the MySQL DSN pieces.
func (c *Config) UsesEmbeddedStore() bool {
	return c.StorePath != ""
}

// GetRedisAddr returns the cache's address, empty when unconfigured.
func (c *Config) GetRedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":" + c.RedisPort
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}
