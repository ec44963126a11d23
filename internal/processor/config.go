package processor

import (
	"fmt"

	"framewatch/internal/config"
	"framewatch/internal/model"
)

type Config struct {
	NSQ       config.NSQConfig       `yaml:"nsq"`
	S3        config.S3Config        `yaml:"s3"`
	DB        model.DBConfig         `yaml:"db"`
	Triton    config.TritonConfig    `yaml:"triton"`
	Detect    config.DetectConfig    `yaml:"detect"`
	WatchList config.WatchListConfig `yaml:"watchList"`
	Timezone  string                 `yaml:"timezone"`
	InfluxDB  config.InfluxDBConfig  `yaml:"influxdb"`
}

func DefaultConfig() *Config {
	return &Config{
		NSQ: config.NSQConfig{
			NSQDAddrs: []string{"localhost:4150"},
			Topic:     "frames",
			Channel:   "framewatch-processor",
		},
		S3: config.S3Config{
			Bucket:   "framewatch",
			Endpoint: "localhost:9000",
			UseSSL:   false,
			Region:   "us-east-1",
			KeyRoot:  "frames",
		},
		DB: model.DBConfig{
			DSN:          "root:123456@tcp(127.0.0.1:3306)/framewatch?charset=utf8mb4&parseTime=True&loc=Local",
			MaxIdleConns: 100,
			MaxOpenConns: 1000,
			MaxLifetime:  60,
		},
		Triton: config.TritonConfig{
			ServerAddr: "localhost:8001",
			ModelName:  "pipeline",
		},
		Detect: config.DetectConfig{
			MaxLabels:     123,
			MinConfidence: 50.0,
		},
		WatchList: config.WatchListConfig{
			MinConfidence: 75.0,
		},
		Timezone: "UTC",
		InfluxDB: config.InfluxDBConfig{
			URL:     "http://127.0.0.1:48086",
			Org:     "framewatch",
			Bucket:  "framewatch",
			Enabled: false,
		},
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
	if err := c.NSQ.Validate(); err != nil {
		return err
	}
	if err := c.S3.Validate(); err != nil {
		return err
	}
	if err := c.Triton.Validate(); err != nil {
		return err
	}
	if err := c.WatchList.Validate(); err != nil {
		return err
	}
	if c.DB.DSN == "" {
		return fmt.Errorf("db: dsn is required")
	}
	if c.Timezone == "" {
		return fmt.Errorf("timezone is required")
	}
	return nil
}
