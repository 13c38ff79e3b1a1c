// Package config loads ttdtotpk defaults from an optional config file, a
// .env file and TTDTOTPK_* environment variables. Command-line flags override
// everything loaded here.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "TTDTOTPK"

// DefaultConfigName is the config file searched for when no path is given.
const DefaultConfigName = "ttdtotpk"

// Config holds the run settings.
type Config struct {
	RepoDownloadType   string `mapstructure:"repodownloadtype"`
	RepoPath           string `mapstructure:"repopath"`
	TpkCompressionType string `mapstructure:"tpkcompressiontype"`
	TpkBuildType       string `mapstructure:"tpkbuildtype"`
	CldbVerType        string `mapstructure:"cldbvertype"`
	CldbSkip           string `mapstructure:"cldbskip"`
	CldbExistBehavior  string `mapstructure:"cldbexistbehavior"`
	CldbPath           string `mapstructure:"cldbpath"`
	Version            string `mapstructure:"version"`
	OutDir             string `mapstructure:"outdir"`
	Workers            int    `mapstructure:"workers"`
	SkipRule           string `mapstructure:"skiprule"`
	Publish            string `mapstructure:"publish"`
	PlainHTTP          bool   `mapstructure:"plainhttp"`
	LogLevel           string `mapstructure:"loglevel"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		RepoDownloadType:   "git",
		RepoPath:           "https://github.com/AssetRipper/TypeTreeDumps",
		TpkCompressionType: "lzma",
		TpkBuildType:       "both",
		CldbVerType:        "fp",
		CldbSkip:           "minor",
		CldbExistBehavior:  "quit",
		CldbPath:           "CldbDumps",
		Version:            "none-none",
		OutDir:             ".",
		Workers:            1,
		SkipRule:           "exists",
		LogLevel:           "info",
	}
}

// Load reads settings over the defaults. path names a config file; when
// empty, ttdtotpk.{yaml,json,toml} is searched for in the working directory
// and a missing file is not an error. envFile names a dotenv file loaded
// into the process environment first; a missing envFile is ignored.
func Load(path, envFile string) (Config, error) {
	if envFile != "" {
		// Existing environment variables win over the file.
		_ = godotenv.Load(envFile)
	}

	v := viper.New()
	d := Defaults()
	v.SetDefault("repodownloadtype", d.RepoDownloadType)
	v.SetDefault("repopath", d.RepoPath)
	v.SetDefault("tpkcompressiontype", d.TpkCompressionType)
	v.SetDefault("tpkbuildtype", d.TpkBuildType)
	v.SetDefault("cldbvertype", d.CldbVerType)
	v.SetDefault("cldbskip", d.CldbSkip)
	v.SetDefault("cldbexistbehavior", d.CldbExistBehavior)
	v.SetDefault("cldbpath", d.CldbPath)
	v.SetDefault("version", d.Version)
	v.SetDefault("outdir", d.OutDir)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("skiprule", d.SkipRule)
	v.SetDefault("publish", d.Publish)
	v.SetDefault("plainhttp", d.PlainHTTP)
	v.SetDefault("loglevel", d.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
