package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Parser    ParserConfig    `yaml:"parser"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// ParserConfig carries the tunables of the PR line parser. Defaults are
// applied during validation so an absent section works out of the box.
type ParserConfig struct {
	FuzzyThreshold int     `yaml:"fuzzy_threshold"`
	Permissive     bool    `yaml:"permissive"`
	MaxWeight      float64 `yaml:"max_weight"`
	MinReps        int     `yaml:"min_reps"`
	MaxReps        int     `yaml:"max_reps"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix PRTRACK_ and underscore-separated
// paths:
//
//	PRTRACK_SERVER_HOST, PRTRACK_SERVER_PORT,
//	PRTRACK_DB_HOST, PRTRACK_DB_PORT, PRTRACK_DB_NAME,
//	PRTRACK_DB_USER, PRTRACK_DB_PASSWORD, PRTRACK_DB_SSLMODE,
//	PRTRACK_AUTH_API_KEY, PRTRACK_PARSER_FUZZY_THRESHOLD,
//	PRTRACK_PARSER_PERMISSIVE
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PRTRACK_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("PRTRACK_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("PRTRACK_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("PRTRACK_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("PRTRACK_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("PRTRACK_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("PRTRACK_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("PRTRACK_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("PRTRACK_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("PRTRACK_PARSER_FUZZY_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Parser.FuzzyThreshold = n
		}
	}
	if v := os.Getenv("PRTRACK_PARSER_PERMISSIVE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Parser.Permissive = b
		}
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}

	// parser defaults
	if c.Parser.FuzzyThreshold == 0 {
		c.Parser.FuzzyThreshold = 85
	}
	if c.Parser.FuzzyThreshold < 0 || c.Parser.FuzzyThreshold > 100 {
		return fmt.Errorf("parser.fuzzy_threshold must be 0-100")
	}
	if c.Parser.MaxWeight == 0 {
		c.Parser.MaxWeight = 1000
	}
	if c.Parser.MinReps == 0 {
		c.Parser.MinReps = 3
	}
	if c.Parser.MaxReps == 0 {
		c.Parser.MaxReps = 50
	}
	if c.Parser.MinReps > c.Parser.MaxReps {
		return fmt.Errorf("parser.min_reps must not exceed parser.max_reps")
	}
	return nil
}
