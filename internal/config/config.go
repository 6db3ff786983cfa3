// Package config provides configuration management for shiplift.
//
// Configuration is layered: command-line flags override environment
// variables, which override the YAML config file. Secrets (forge token,
// storage keys) are resolved once at command startup into explicit structs
// passed to constructors; nothing below the cli layer reads the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shiplift/shiplift/internal/constants"
)

// File is the on-disk YAML configuration.
type File struct {
	Forge   ForgeConfig   `yaml:"forge"`
	Storage StorageConfig `yaml:"storage"`
	Proxy   ProxySettings `yaml:"proxy"`
}

// ForgeConfig configures access to the release host (github.com or a
// GitHub Enterprise instance).
type ForgeConfig struct {
	// BaseURL is the API base for GitHub Enterprise. Empty means github.com.
	BaseURL string `yaml:"url"`
	// Token is a personal access token. Prefer TokenFile or the
	// GITHUB_TOKEN environment variable over storing tokens in the file.
	Token string `yaml:"token"`
	// TokenFile is a path to a file containing the token.
	TokenFile string `yaml:"token_file"`
}

// StorageConfig configures the object storage target.
type StorageConfig struct {
	Provider        string `yaml:"provider"` // "s3" (default) or "azure"
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`
	AzureAccount    string `yaml:"azure_account"`
	AzureKey        string `yaml:"azure_key"`
	AzureSASURL     string `yaml:"azure_sas_url"`
}

// ProxySettings configures outbound proxy behavior.
// Modes: "no-proxy" (default when empty), "system", "basic", "ntlm".
type ProxySettings struct {
	Mode     string `yaml:"mode"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	NoProxy  string `yaml:"no_proxy"`
}

// Credentials is storage secret material scoped to a single invocation.
// It is passed explicitly to provider constructors and must never be
// written to logs or persisted.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// Load reads and parses a YAML config file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg File
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return &cfg, nil
}

// DefaultPath returns the default config file location
// (~/.config/shiplift/config.yaml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", constants.AppName, "config.yaml")
}

// LoadDefault loads the config file from path if given, otherwise from the
// default location. A missing default file is not an error; an explicitly
// requested file that cannot be read is.
func LoadDefault(path string) (*File, error) {
	if path != "" {
		return Load(path)
	}
	defPath := DefaultPath()
	if defPath == "" {
		return &File{}, nil
	}
	if _, err := os.Stat(defPath); err != nil {
		return &File{}, nil
	}
	return Load(defPath)
}

// ReadTokenFile reads a token from a file, trimming surrounding whitespace.
func ReadTokenFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("token file %s is empty", path)
	}
	return token, nil
}

// ResolveForgeToken returns the forge token by checking sources in priority
// order:
//
//  1. Explicitly provided token (e.g. --token flag)
//  2. Token file (--token-file flag, then config token_file)
//  3. Config file token value
//  4. GITHUB_TOKEN, then GH_TOKEN environment variables
//
// A token file that was named but cannot be read is an error rather than a
// fallthrough: a typoed path must not silently downgrade a private-repo
// operation to unauthenticated access. Returns empty string when no source
// yields a token; unauthenticated access is valid for public repositories.
func ResolveForgeToken(explicit, tokenFile string, cfg *File) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	if tokenFile != "" {
		return ReadTokenFile(tokenFile)
	}

	if cfg != nil {
		if cfg.Forge.TokenFile != "" {
			return ReadTokenFile(cfg.Forge.TokenFile)
		}
		if cfg.Forge.Token != "" {
			return cfg.Forge.Token, nil
		}
	}

	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}
	return os.Getenv("GH_TOKEN"), nil
}

// ResolveStorageCredentials returns storage credentials by checking sources
// in priority order: explicit flag values, AWS_* environment variables, then
// the config file. Partial flag input (key without secret) falls through to
// the next complete source.
func ResolveStorageCredentials(explicitID, explicitSecret, explicitToken string, cfg *File) Credentials {
	if explicitID != "" && explicitSecret != "" {
		return Credentials{
			AccessKeyID:     explicitID,
			SecretAccessKey: explicitSecret,
			SessionToken:    explicitToken,
		}
	}

	envID := os.Getenv("AWS_ACCESS_KEY_ID")
	envSecret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if envID != "" && envSecret != "" {
		return Credentials{
			AccessKeyID:     envID,
			SecretAccessKey: envSecret,
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		}
	}

	if cfg != nil && cfg.Storage.AccessKeyID != "" && cfg.Storage.SecretAccessKey != "" {
		return Credentials{
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			SessionToken:    cfg.Storage.SessionToken,
		}
	}

	return Credentials{}
}

// ResolveRegion returns the storage region: explicit flag, AWS_REGION
// environment variable, config file, then the fixed default.
func ResolveRegion(explicit, fallback string, cfg *File) string {
	if explicit != "" {
		return explicit
	}
	if region := os.Getenv("AWS_REGION"); region != "" {
		return region
	}
	if cfg != nil && cfg.Storage.Region != "" {
		return cfg.Storage.Region
	}
	return fallback
}
