package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Tracker  TrackerConfig  `mapstructure:"tracker"`
	Ethereum EthereumConfig `mapstructure:"ethereum"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Neo4J    Neo4JConfig    `mapstructure:"neo4j"`
}

// AppConfig represents application-specific configuration
type AppConfig struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
	HTTPPort int    `mapstructure:"http_port"`
}

// TrackerConfig configures what to track and when to stop.
type TrackerConfig struct {
	// TargetAddress is the contract address transactions must be sent to.
	TargetAddress string `mapstructure:"target_address"`
	// MatchLimit is the number of matched transactions to collect before the
	// final report. The classification core itself is unbounded; the limit is
	// a loop-level policy.
	MatchLimit int `mapstructure:"match_limit"`
}

// Target returns the configured contract address in canonical form. Only
// meaningful after validation succeeded.
func (c *TrackerConfig) Target() common.Address {
	return common.HexToAddress(c.TargetAddress)
}

// EthereumConfig represents node connection configuration
type EthereumConfig struct {
	WSURL           string `mapstructure:"ws_url"`
	SubscribeBuffer int    `mapstructure:"subscribe_buffer"`
}

// NATSConfig represents NATS configuration
type NATSConfig struct {
	URL               string        `mapstructure:"url"`
	SubjectPrefix     string        `mapstructure:"subject_prefix"`
	ConnectTimeout    time.Duration `mapstructure:"connect_timeout"`
	ReconnectAttempts int           `mapstructure:"reconnect_attempts"`
	ReconnectDelay    time.Duration `mapstructure:"reconnect_delay"`
	Enabled           bool          `mapstructure:"enabled"`
}

// Neo4JConfig represents Neo4J configuration
type Neo4JConfig struct {
	URI                          string        `mapstructure:"uri"`
	Username                     string        `mapstructure:"username"`
	Password                     string        `mapstructure:"password"`
	Database                     string        `mapstructure:"database"`
	MaxConnectionPoolSize        int           `mapstructure:"max_connection_pool_size"`
	ConnectionAcquisitionTimeout time.Duration `mapstructure:"connection_acquisition_timeout"`
	Enabled                      bool          `mapstructure:"enabled"`
}

// Load loads configuration from environment variables and files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/erc20-transfer-tracker")

	// Environment variables
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects configuration the tracking core must never see, most
// importantly a malformed target contract address.
func (c *Config) Validate() error {
	if c.Tracker.TargetAddress == "" {
		return fmt.Errorf("tracker.target_address is not set (TARGET_CONTRACT_ADDRESS)")
	}
	if !common.IsHexAddress(c.Tracker.TargetAddress) {
		return fmt.Errorf("invalid target contract address: %q", c.Tracker.TargetAddress)
	}
	if c.Tracker.MatchLimit <= 0 {
		return fmt.Errorf("tracker.match_limit must be positive, got %d", c.Tracker.MatchLimit)
	}
	if c.Ethereum.WSURL == "" {
		return fmt.Errorf("ethereum.ws_url is not set (ETH_WS_URL)")
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// App defaults
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.http_port", 8080)

	// Tracker defaults
	viper.SetDefault("tracker.match_limit", 5)

	// Ethereum defaults
	viper.SetDefault("ethereum.ws_url", "wss://mainnet.infura.io/ws/v3/")
	viper.SetDefault("ethereum.subscribe_buffer", 256)

	// NATS defaults
	viper.SetDefault("nats.url", "nats://localhost:4222")
	viper.SetDefault("nats.subject_prefix", "transfers")
	viper.SetDefault("nats.connect_timeout", "10s")
	viper.SetDefault("nats.reconnect_attempts", 5)
	viper.SetDefault("nats.reconnect_delay", "2s")
	viper.SetDefault("nats.enabled", false)

	// Neo4J defaults
	viper.SetDefault("neo4j.uri", "neo4j://localhost:7687")
	viper.SetDefault("neo4j.username", "neo4j")
	viper.SetDefault("neo4j.password", "password")
	viper.SetDefault("neo4j.database", "neo4j")
	viper.SetDefault("neo4j.max_connection_pool_size", 50)
	viper.SetDefault("neo4j.connection_acquisition_timeout", "60s")
	viper.SetDefault("neo4j.enabled", false)

	// Bind well-known environment variables
	viper.BindEnv("tracker.target_address", "TARGET_CONTRACT_ADDRESS")
	viper.BindEnv("ethereum.ws_url", "ETH_WS_URL")
	viper.BindEnv("nats.url", "NATS_URL")
}
