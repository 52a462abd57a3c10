/*
 *    Copyright 2025 Jeff Galyan
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

// Package config loads client settings from the environment, an optional .env
// file and an optional TOML file. Environment variables use the SYLLABUS_
// prefix and win over the file, which wins over defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/jrgalyan/syllabus"
)

// Config holds everything the binaries need to build a client.
type Config struct {
	APIURL           string `mapstructure:"api_url"`
	MaxResponseBytes int64  `mapstructure:"max_response_bytes"`
	UserAgent        string `mapstructure:"user_agent"`
	LogLevel         string `mapstructure:"log_level"`
	OTLPEndpoint     string `mapstructure:"otlp_endpoint"`
}

// Options says where to look for files. Zero values use the defaults.
type Options struct {
	// EnvFile is loaded into the process environment if it exists, without
	// overriding variables that are already set. Default: ".env".
	EnvFile string

	// ConfigFile is a TOML file. Default: $SYLLABUS_CONFIG, else
	// $HOME/.config/syllabus/config.toml. An explicitly named file must exist.
	ConfigFile string
}

// Load resolves the configuration.
func Load(o Options) (Config, error) {
	envFile := o.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	v.SetDefault("api_url", syllabus.DefaultBaseURL)
	v.SetDefault("max_response_bytes", syllabus.DefaultMaxResponseBytes)
	v.SetDefault("user_agent", "syllabus-client")
	v.SetDefault("log_level", "info")
	v.SetDefault("otlp_endpoint", "")

	v.SetEnvPrefix("SYLLABUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("otlp_endpoint", "SYLLABUS_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")

	path, explicit := o.ConfigFile, o.ConfigFile != ""
	if !explicit {
		if p := os.Getenv("SYLLABUS_CONFIG"); p != "" {
			path, explicit = p, true
		} else if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".config", "syllabus", "config.toml")
		}
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil || explicit {
			v.SetConfigType("toml")
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Client returns the client configuration.
func (c Config) Client() syllabus.Config {
	return syllabus.Config{
		BaseURL:          c.APIURL,
		MaxResponseBytes: c.MaxResponseBytes,
		UserAgent:        c.UserAgent,
	}
}

// Level parses LogLevel, falling back to info.
func (c Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}
