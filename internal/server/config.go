package server

import (
	"fmt"

	"framewatch/internal/config"
	"framewatch/internal/model"
)

type FetchConfig struct {
	// HorizonHours bounds the recency window [now-horizon, now].
	HorizonHours float64 `yaml:"horizonHours"`
	Limit        int     `yaml:"limit"`
	// PresignExpiry is the signed-URL lifetime in seconds.
	PresignExpiry int `yaml:"presignExpiry"`
}

type Config struct {
	Addr      string                 `yaml:"addr"`
	SSLCert   string                 `yaml:"sslCert"`
	SSLKey    string                 `yaml:"sslKey"`
	DB        model.DBConfig         `yaml:"db"`
	S3        config.S3Config        `yaml:"s3"`
	NSQ       config.NSQConfig       `yaml:"nsq"`
	Fetch     FetchConfig            `yaml:"fetch"`
	WatchList config.WatchListConfig `yaml:"watchList"`
	Timezone  string                 `yaml:"timezone"`
}

func DefaultConfig() *Config {
	return &Config{
		Addr: "127.0.0.1:8081",
		DB: model.DBConfig{
			DSN:          "root:123456@tcp(127.0.0.1:3306)/framewatch?charset=utf8mb4&parseTime=True&loc=Local",
			MaxIdleConns: 100,
			MaxOpenConns: 1000,
			MaxLifetime:  60,
		},
		S3: config.S3Config{
			Bucket:   "framewatch",
			Endpoint: "127.0.0.1:9000",
			UseSSL:   false,
			Region:   "us-east-1",
			KeyRoot:  "frames",
		},
		Fetch: FetchConfig{
			HorizonHours:  1,
			Limit:         3,
			PresignExpiry: 300,
		},
		Timezone: "UTC",
	}
}

func LoadConfig(configPath string) (*Config, error) {
	conf := DefaultConfig()
	if err := config.LoadYAMLConfig(configPath, conf); err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.DB.DSN == "" {
		return fmt.Errorf("db: dsn is required")
	}
	if err := c.S3.Validate(); err != nil {
		return err
	}
	if err := c.WatchList.Validate(); err != nil {
		return err
	}
	if c.Fetch.HorizonHours <= 0 {
		return fmt.Errorf("fetch: horizonHours must be positive")
	}
	if c.Fetch.Limit <= 0 {
		return fmt.Errorf("fetch: limit must be positive")
	}
	if c.Fetch.PresignExpiry <= 0 {
		return fmt.Errorf("fetch: presignExpiry must be positive")
	}
	if c.Timezone == "" {
		return fmt.Errorf("timezone is required")
	}
	return nil
}
