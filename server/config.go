// Copyright 2025 The TaskStream Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes the server YAML configuration.
type Config struct {
	Server struct {
		ListenAddr       string `yaml:"listen_addr"`
		HeartbeatSeconds int    `yaml:"heartbeat_seconds"`
	} `yaml:"server"`
	Stream struct {
		QueueSize    int `yaml:"queue_size"`
		EventWaitMs  int `yaml:"event_wait_ms"`
		ChunkDelayMs int `yaml:"chunk_delay_ms"`
	} `yaml:"stream"`
}

// LoadConfig reads and validates the configuration file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = DefaultAddr
	}
	if cfg.Server.HeartbeatSeconds < 0 {
		return cfg, fmt.Errorf("server.heartbeat_seconds cannot be negative")
	}
	if cfg.Stream.QueueSize < 0 {
		return cfg, fmt.Errorf("stream.queue_size cannot be negative")
	}
	if cfg.Stream.EventWaitMs < 0 {
		return cfg, fmt.Errorf("stream.event_wait_ms cannot be negative")
	}
	if cfg.Stream.ChunkDelayMs < 0 {
		return cfg, fmt.Errorf("stream.chunk_delay_ms cannot be negative")
	}
	return cfg, nil
}

// Options lowers the configuration into server options. Zero-valued fields
// produce no option, so the server defaults apply.
func (c Config) Options() []Option {
	opts := []Option{WithAddr(c.Server.ListenAddr)}
	if c.Server.HeartbeatSeconds > 0 {
		opts = append(opts, WithHeartbeat(time.Duration(c.Server.HeartbeatSeconds)*time.Second))
	}
	if c.Stream.QueueSize > 0 {
		opts = append(opts, WithQueueSize(c.Stream.QueueSize))
	}
	if c.Stream.EventWaitMs > 0 {
		opts = append(opts, WithEventWait(time.Duration(c.Stream.EventWaitMs)*time.Millisecond))
	}
	return opts
}

// ChunkDelay returns the configured streaming pace for the built-in pipeline.
func (c Config) ChunkDelay() time.Duration {
	if c.Stream.ChunkDelayMs <= 0 {
		return 0
	}
	return time.Duration(c.Stream.ChunkDelayMs) * time.Millisecond
}
