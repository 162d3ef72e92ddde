package config

import (
	"os"
	"time"

	"github.com/go-yaml/yaml"
	"github.com/pkg/errors"

	"github.com/totegamma/apub-playground"
)

type Config struct {
	NodeInfo NodeInfo `yaml:"nodeInfo"`
	Server   Server   `yaml:"server"`
}

type NodeInfo struct {
	FQDN      string `yaml:"fqdn"`
	Scheme    string `yaml:"scheme"` // http or https
	UserAgent string `yaml:"userAgent"`
}

type Server struct {
	Listen        string        `yaml:"listen"`
	PostgresDsn   string        `yaml:"postgresDsn"`
	RedisAddr     string        `yaml:"redisAddr"`
	RedisPassword string        `yaml:"redisPassword"`
	RedisDB       int           `yaml:"redisDB"`
	MemcachedAddr string        `yaml:"memcachedAddr"`
	EnableTrace   bool          `yaml:"enableTrace"`
	TraceEndpoint string        `yaml:"traceEndpoint"`
	FetchTimeout  time.Duration `yaml:"fetchTimeout"`
	LogLevel      string        `yaml:"logLevel"`
}

// Default returns a configuration that runs fully in memory.
func Default() Config {
	return Config{
		NodeInfo: NodeInfo{
			FQDN:      "localhost:8000",
			Scheme:    "http",
			UserAgent: "apub-playground",
		},
		Server: Server{
			Listen:       ":8000",
			FetchTimeout: 3 * time.Second,
			LogLevel:     "info",
		},
	}
}

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	config := Default()
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	if err := config.Normalize(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) Validate() error {
	if c.NodeInfo.FQDN == "" {
		return errors.New("nodeInfo.fqdn is required")
	}
	switch c.NodeInfo.Scheme {
	case "http", "https":
	default:
		return errors.Errorf("nodeInfo.scheme must be http or https, got %q", c.NodeInfo.Scheme)
	}
	if c.Server.FetchTimeout < 0 {
		return errors.New("server.fetchTimeout must not be negative")
	}
	return nil
}

// Normalize rewrites nodeInfo.fqdn into the host form object identifiers use,
// so a default port for the scheme is dropped and the host is lowercased.
func (c *Config) Normalize() error {
	base := c.NodeInfo.Scheme + "://" + c.NodeInfo.FQDN
	id, err := apub.ParseObjectID[struct{}](base)
	if err != nil {
		return errors.Wrap(err, "invalid nodeInfo.fqdn")
	}
	if id.String() != c.NodeInfo.Scheme+"://"+id.Domain()+"/" {
		return errors.Errorf("nodeInfo.fqdn must be a bare host, got %q", c.NodeInfo.FQDN)
	}
	c.NodeInfo.FQDN = id.Domain()
	return nil
}
