package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Events    EventsConfig    `yaml:"events"`
	Oracle    OracleConfig    `yaml:"oracle"`
	Subjects  SubjectsConfig  `yaml:"subjects"`
	Engine    EngineConfig    `yaml:"engine"`
	Reporting ReportingConfig `yaml:"reporting"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type EventsConfig struct {
	URL string `yaml:"url"`
}

// OracleConfig selects the scaling oracle. Mode "table" computes scores from
// the subject table's scaling parameters; mode "http" forwards to a remote
// oracle service.
type OracleConfig struct {
	Mode  string `yaml:"mode"`
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
}

type SubjectsConfig struct {
	TablePath string `yaml:"table_path"`
}

type EngineConfig struct {
	DefaultVariation float64 `yaml:"default_variation"`
	MaxRows          int     `yaml:"max_rows"`
}

type ReportingConfig struct {
	StatsIntervalMs int `yaml:"stats_interval_ms"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) StatsInterval() time.Duration {
	return time.Duration(c.Reporting.StatsIntervalMs) * time.Millisecond
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
		},
		Events: EventsConfig{
			URL: "nats://localhost:4222",
		},
		Oracle: OracleConfig{
			Mode: "table",
			URL:  "http://localhost:8710",
		},
		Subjects: SubjectsConfig{
			TablePath: "subjects.yaml",
		},
		Engine: EngineConfig{
			DefaultVariation: 5,
			MaxRows:          50,
		},
		Reporting: ReportingConfig{
			StatsIntervalMs: 60000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	switch cfg.Oracle.Mode {
	case "table", "http":
	default:
		return nil, fmt.Errorf("oracle mode %q: must be table or http", cfg.Oracle.Mode)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TALLY_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("TALLY_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("TALLY_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("TALLY_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("TALLY_EVENTS_URL"); v != "" {
		cfg.Events.URL = v
	}
	if v := os.Getenv("TALLY_ORACLE_MODE"); v != "" {
		cfg.Oracle.Mode = v
	}
	if v := os.Getenv("TALLY_ORACLE_URL"); v != "" {
		cfg.Oracle.URL = v
	}
	if v := os.Getenv("TALLY_ORACLE_TOKEN"); v != "" {
		cfg.Oracle.Token = v
	}
	if v := os.Getenv("TALLY_SUBJECTS_PATH"); v != "" {
		cfg.Subjects.TablePath = v
	}
	if v := os.Getenv("TALLY_DEFAULT_VARIATION"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Engine.DefaultVariation = f
		}
	}
	if v := os.Getenv("TALLY_STATS_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Reporting.StatsIntervalMs = n
		}
	}
	if v := os.Getenv("TALLY_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
