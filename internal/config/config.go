package config

import (
	"encoding/xml"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

var (
	cfg  *APIConfig
	once sync.Once
)

// APIConfig represents the root element.
type APIConfig struct {
	XMLName        xml.Name             `xml:"API"`
	RequestDump    bool                 `xml:"REQUEST_DUMP,attr"`
	Context        ContextConfig        `xml:"CONTEXT"`
	Authentication AuthenticationConfig `xml:"AUTHENTICATION"`
	Assessment     AssessmentConfig     `xml:"ASSESSMENT"`
	DB             DBConfig             `xml:"DB"`
	Redis          RedisConfig          `xml:"REDIS"`
	Kafka          KafkaConfig          `xml:"KAFKA"`
	Reports        ReportsConfig        `xml:"REPORTS"`
}

// ContextConfig holds basic server settings.
type ContextConfig struct {
	Port     int    `xml:"PORT"`
	Host     string `xml:"HOST"`
	Path     string `xml:"PATH"`
	TimeZone string `xml:"TIME_ZONE"`
	LogDir   string `xml:"LOG_DIR"`
}

// AuthenticationConfig holds authentication settings.
type AuthenticationConfig struct {
	AccessSecret    string  `xml:"ACCESS_SECRET"`
	RefreshSecret   string  `xml:"REFRESH_SECRET"`
	SessionTimeout  int     `xml:"SESSION_TIMEOUT"`
	LoginRatePerSec float64 `xml:"LOGIN_RATE_PER_SEC"`
	LoginBurst      int     `xml:"LOGIN_BURST"`
}

// AssessmentConfig points at the question catalog. An empty path selects the
// built-in catalog.
type AssessmentConfig struct {
	CatalogPath string `xml:"CATALOG_PATH"`
}

// DBConfig holds database connection settings.
type DBConfig struct {
	Host     string       `xml:"HOST"`
	Port     int          `xml:"PORT"`
	Name     string       `xml:"NAME"`
	SSLMode  string       `xml:"SSL_MODE"`
	TimeZone string       `xml:"TIME_ZONE"`
	Username string       `xml:"USERNAME"`
	Password string       `xml:"PASSWORD"`
	Pool     DBPoolConfig `xml:"POOL"`
}

// DBPoolConfig holds database connection pooling settings.
type DBPoolConfig struct {
	MaxOpenConns    int `xml:"MAX_OPEN_CONNS"`
	MaxIdleConns    int `xml:"MAX_IDLE_CONNS"`
	ConnMaxLifetime int `xml:"CONN_MAX_LIFETIME"`
}

// RedisConfig holds the optional trust/progress cache settings.
type RedisConfig struct {
	Enabled  bool   `xml:"ENABLED,attr"`
	Host     string `xml:"HOST"`
	Port     int    `xml:"PORT"`
	Password string `xml:"PASSWORD"`
	DB       int    `xml:"DB"`
}

// KafkaConfig holds the optional completion event publisher settings.
type KafkaConfig struct {
	Enabled bool     `xml:"ENABLED,attr"`
	Brokers []string `xml:"BROKER"`
	Topic   string   `xml:"TOPIC"`
}

// ReportsConfig holds PDF report output settings.
type ReportsConfig struct {
	OutputDir string `xml:"OUTPUT_DIR"`
}

// LoadConfig loads and parses the XML configuration from the given file,
// then applies .env / environment overrides for deploy-time secrets.
func LoadConfig(xmlPath string) (*APIConfig, error) {
	var loadErr error
	once.Do(func() {
		f, err := os.Open(xmlPath)
		if err != nil {
			loadErr = err
			return
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			loadErr = err
			return
		}

		var newCfg APIConfig
		if err := xml.Unmarshal(data, &newCfg); err != nil {
			loadErr = err
			return
		}

		applyEnvOverrides(&newCfg)
		cfg = &newCfg
	})

	if loadErr != nil {
		return nil, loadErr
	}
	if cfg == nil {
		return nil, os.ErrInvalid
	}
	return cfg, nil
}

// GetConfig returns the loaded configuration.
func GetConfig() *APIConfig {
	return cfg
}

// applyEnvOverrides lets deployments keep secrets out of config.xml. A .env
// file is read when present; real environment variables win either way.
func applyEnvOverrides(c *APIConfig) {
	_ = godotenv.Load()

	if v := os.Getenv("WELLPATH_DB_HOST"); v != "" {
		c.DB.Host = v
	}
	if v := os.Getenv("WELLPATH_DB_PASSWORD"); v != "" {
		c.DB.Password = v
	}
	if v := os.Getenv("WELLPATH_DB_USER"); v != "" {
		c.DB.Username = v
	}
	if v := os.Getenv("WELLPATH_DB_NAME"); v != "" {
		c.DB.Name = v
	}
	if v := os.Getenv("WELLPATH_ACCESS_SECRET"); v != "" {
		c.Authentication.AccessSecret = v
	}
	if v := os.Getenv("WELLPATH_REFRESH_SECRET"); v != "" {
		c.Authentication.RefreshSecret = v
	}
	if v := os.Getenv("WELLPATH_REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("WELLPATH_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Context.Port = port
		}
	}
	if v := os.Getenv("WELLPATH_CATALOG_PATH"); v != "" {
		c.Assessment.CatalogPath = v
	}
}
