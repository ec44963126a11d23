package config

import (
	"fmt"
	"time"
)

// Shared configuration sections used by more than one command.

type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"accessKeyID"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	UseSSL          bool   `yaml:"useSSL"`
	Region          string `yaml:"region"`
	KeyRoot         string `yaml:"keyRoot"`
}

func (s3 *S3Config) Validate() error {
	if s3.Bucket == "" {
		return fmt.Errorf("s3: bucket is required")
	}
	if s3.Endpoint == "" {
		return fmt.Errorf("s3: endpoint is required")
	}
	return nil
}

type NSQConfig struct {
	NSQDAddrs []string `yaml:"nsqdAddrs"`
	Topic     string   `yaml:"topic"`
	Channel   string   `yaml:"channel"`
}

func (n *NSQConfig) Validate() error {
	if len(n.NSQDAddrs) == 0 {
		return fmt.Errorf("nsq: at least one nsqd address is required")
	}
	if n.Topic == "" {
		return fmt.Errorf("nsq: topic is required")
	}
	return nil
}

type TritonConfig struct {
	ServerAddr string `yaml:"serverAddr"`
	ModelName  string `yaml:"modelName"`
	LabelFile  string `yaml:"labelFile"`
}

func (t *TritonConfig) Validate() error {
	if t.ServerAddr == "" {
		return fmt.Errorf("triton: serverAddr is required")
	}
	if t.ModelName == "" {
		return fmt.Errorf("triton: modelName is required")
	}
	return nil
}

type DetectConfig struct {
	MaxLabels     int     `yaml:"maxLabels"`
	MinConfidence float64 `yaml:"minConfidence"`
}

// WatchListConfig drives watch-list matching and alerting. Matching is
// case-insensitive against Labels, gated by MinConfidence, which is
// independent of the detection service threshold.
type WatchListConfig struct {
	Labels        []string `yaml:"labels"`
	MinConfidence float64  `yaml:"minConfidence"`
	NotifyPhone   string   `yaml:"notifyPhone"`
	NotifyTopic   string   `yaml:"notifyTopic"`
	SMSEndpoint   string   `yaml:"smsEndpoint"`
	SMSToken      string   `yaml:"smsToken"`
}

func (w *WatchListConfig) Validate() error {
	if w.NotifyPhone != "" && w.SMSEndpoint == "" {
		return fmt.Errorf("watchList: notifyPhone is set but smsEndpoint is empty")
	}
	return nil
}

type InfluxDBConfig struct {
	URL     string `yaml:"url"`
	Org     string `yaml:"org"`
	Bucket  string `yaml:"bucket"`
	Token   string `yaml:"token"`
	Enabled bool   `yaml:"enabled"`
}

// Location parses an IANA timezone name. An unparseable name is a startup
// error, never a silent fallback to UTC.
func Location(timezone string) (*time.Location, error) {
	if timezone == "" {
		return nil, fmt.Errorf("timezone is required")
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}
