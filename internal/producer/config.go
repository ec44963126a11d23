package producer

import (
	"fmt"

	"framewatch/internal/config"
)

type CameraConfig struct {
	// Source is a device index ("0") or a stream URL (rtsp://...).
	Source      string `yaml:"source"`
	CaptureRate int    `yaml:"captureRate"`
	// Rotate applies a pre-encode rotation in degrees (0, 90, 180, 270),
	// for IP cameras mounted sideways or upside down.
	Rotate int `yaml:"rotate"`
}

type Config struct {
	NSQ            config.NSQConfig `yaml:"nsq"`
	Camera         CameraConfig     `yaml:"camera"`
	DataDir        string           `yaml:"dataDir"`
	EncoderWorkers int              `yaml:"encoderWorkers"`
}

func DefaultConfig() *Config {
	return &Config{
		NSQ: config.NSQConfig{
			NSQDAddrs: []string{"localhost:4150"},
			Topic:     "frames",
		},
		Camera: CameraConfig{
			Source:      "0",
			CaptureRate: 30,
		},
		DataDir:        "/var/lib/framewatch",
		EncoderWorkers: 3,
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
	if c.Camera.CaptureRate <= 0 {
		return fmt.Errorf("camera: captureRate must be a positive integer")
	}
	switch c.Camera.Rotate {
	case 0, 90, 180, 270:
	default:
		return fmt.Errorf("camera: rotate must be one of 0, 90, 180, 270")
	}
	if c.EncoderWorkers <= 0 {
		return fmt.Errorf("encoderWorkers must be positive")
	}
	return nil
}
