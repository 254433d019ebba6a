package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DirName   = ".vibeshield"
	EnvPrefix = "VIBESHIELD_"
)

// Config mirrors the scan flag names. Zero values mean "not set".
type Config struct {
	Workers      *int     `yaml:"workers,omitempty"`
	MaxFileBytes *int64   `yaml:"max_file_bytes,omitempty"`
	Include      []string `yaml:"include,omitempty"`
	Exclude      []string `yaml:"exclude,omitempty"`
	RulesFile    string   `yaml:"rules_file,omitempty"`
	Format       string   `yaml:"format,omitempty"`
	Redact       *bool    `yaml:"redact,omitempty"`
	LogLevel     string   `yaml:"log_level,omitempty"`
}

// Load reads config from layered sources, later layers winning:
//  1. ~/.vibeshield/config.yaml (global)
//  2. ./.vibeshield/config.yaml (repo-local)
//  3. ~/.vibeshield/env (dotenv file with VIBESHIELD_* keys)
//  4. VIBESHIELD_* process environment
//
// Missing files are silently ignored. Returns zero Config if nothing is set.
func Load() (Config, error) {
	home, _ := os.UserHomeDir()
	cwd, _ := os.Getwd()
	return LoadDirs(home, cwd)
}

// LoadDirs is Load with explicit home and working directories.
func LoadDirs(home, cwd string) (Config, error) {
	var merged Config

	if home != "" {
		globalPath := filepath.Join(home, DirName, "config.yaml")
		global, err := loadFile(globalPath)
		if err != nil {
			return Config{}, fmt.Errorf("load global config %s: %w", globalPath, err)
		}
		merged = merge(merged, global)
	}

	if cwd != "" {
		localPath := filepath.Join(cwd, DirName, "config.yaml")
		local, err := loadFile(localPath)
		if err != nil {
			return Config{}, fmt.Errorf("load local config %s: %w", localPath, err)
		}
		merged = merge(merged, local)
	}

	fileEnv := map[string]string{}
	if home != "" {
		envPath := filepath.Join(home, DirName, "env")
		vals, err := readEnvFile(envPath)
		if err != nil {
			return Config{}, fmt.Errorf("load env file %s: %w", envPath, err)
		}
		fileEnv = vals
	}

	fromEnv, err := fromEnvironment(func(key string) (string, bool) {
		// A blank process variable does not hide the env file.
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			return v, true
		}
		v, ok := fileEnv[key]
		return v, ok
	})
	if err != nil {
		return Config{}, err
	}
	return merge(merged, fromEnv), nil
}

func loadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 {
		return Config{}, nil
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// readEnvFile parses a dotenv file without touching the process environment.
func readEnvFile(path string) (map[string]string, error) {
	vals, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	return vals, nil
}

func fromEnvironment(lookup func(string) (string, bool)) (Config, error) {
	var cfg Config
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%sWORKERS: %w", EnvPrefix, err)
		}
		cfg.Workers = &n
	}
	if v, ok := get("MAX_FILE_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("%sMAX_FILE_BYTES: %w", EnvPrefix, err)
		}
		cfg.MaxFileBytes = &n
	}
	if v, ok := get("REDACT"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%sREDACT: %w", EnvPrefix, err)
		}
		cfg.Redact = &b
	}
	if v, ok := get("INCLUDE"); ok {
		cfg.Include = splitList(v)
	}
	if v, ok := get("EXCLUDE"); ok {
		cfg.Exclude = splitList(v)
	}
	if v, ok := get("RULES"); ok {
		cfg.RulesFile = v
	}
	if v, ok := get("FORMAT"); ok {
		cfg.Format = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	return cfg, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// merge applies overrides from b onto a. Non-zero fields in b win.
func merge(a, b Config) Config {
	if b.Workers != nil {
		a.Workers = b.Workers
	}
	if b.MaxFileBytes != nil {
		a.MaxFileBytes = b.MaxFileBytes
	}
	if len(b.Include) > 0 {
		a.Include = b.Include
	}
	if len(b.Exclude) > 0 {
		a.Exclude = b.Exclude
	}
	if b.RulesFile != "" {
		a.RulesFile = b.RulesFile
	}
	if b.Format != "" {
		a.Format = b.Format
	}
	if b.Redact != nil {
		a.Redact = b.Redact
	}
	if b.LogLevel != "" {
		a.LogLevel = b.LogLevel
	}
	return a
}
