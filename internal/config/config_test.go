package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadParsesYAML verifies a full config file round-trips into the struct.
func TestLoadParsesYAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	content := `forge:
  url: https://github.example.com
  token_file: /secrets/gh-token
storage:
  provider: s3
  region: eu-west-1
  bucket: release-artifacts
proxy:
  mode: basic
  host: proxy.corp
  port: 3128
  no_proxy: "10.0.0.0/8,*.internal"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Forge.BaseURL != "https://github.example.com" {
		t.Errorf("Forge.BaseURL = %q, want https://github.example.com", cfg.Forge.BaseURL)
	}
	if cfg.Storage.Region != "eu-west-1" {
		t.Errorf("Storage.Region = %q, want eu-west-1", cfg.Storage.Region)
	}
	if cfg.Storage.Bucket != "release-artifacts" {
		t.Errorf("Storage.Bucket = %q, want release-artifacts", cfg.Storage.Bucket)
	}
	if cfg.Proxy.Mode != "basic" || cfg.Proxy.Port != 3128 {
		t.Errorf("Proxy = %+v, want mode=basic port=3128", cfg.Proxy)
	}
}

// TestLoadRejectsMalformedYAML verifies parse errors are surfaced.
func TestLoadRejectsMalformedYAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(path, []byte("storage: [not a map"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load() succeeded on malformed YAML, want error")
	}
}

// TestReadTokenFile verifies whitespace trimming and empty-file rejection.
func TestReadTokenFile(t *testing.T) {
	tmpDir := t.TempDir()

	path := filepath.Join(tmpDir, "token")
	if err := os.WriteFile(path, []byte("  ghp_abc123\n"), 0600); err != nil {
		t.Fatalf("failed to write token file: %v", err)
	}

	token, err := ReadTokenFile(path)
	if err != nil {
		t.Fatalf("ReadTokenFile() failed: %v", err)
	}
	if token != "ghp_abc123" {
		t.Errorf("token = %q, want ghp_abc123", token)
	}

	emptyPath := filepath.Join(tmpDir, "empty")
	if err := os.WriteFile(emptyPath, []byte("  \n"), 0600); err != nil {
		t.Fatalf("failed to write empty token file: %v", err)
	}
	if _, err := ReadTokenFile(emptyPath); err == nil {
		t.Error("ReadTokenFile() succeeded on empty file, want error")
	}
}

// TestResolveForgeTokenPrecedence verifies flag > token file > config > env.
func TestResolveForgeTokenPrecedence(t *testing.T) {
	tmpDir := t.TempDir()
	tokenPath := filepath.Join(tmpDir, "token")
	if err := os.WriteFile(tokenPath, []byte("from-file"), 0600); err != nil {
		t.Fatalf("failed to write token file: %v", err)
	}

	t.Setenv("GITHUB_TOKEN", "from-env")
	t.Setenv("GH_TOKEN", "from-gh-env")

	cfg := &File{Forge: ForgeConfig{Token: "from-config"}}

	if got, err := ResolveForgeToken("from-flag", tokenPath, cfg); err != nil || got != "from-flag" {
		t.Errorf("explicit token: got %q, %v, want from-flag", got, err)
	}
	if got, err := ResolveForgeToken("", tokenPath, cfg); err != nil || got != "from-file" {
		t.Errorf("token file: got %q, %v, want from-file", got, err)
	}
	if got, err := ResolveForgeToken("", "", cfg); err != nil || got != "from-config" {
		t.Errorf("config token: got %q, %v, want from-config", got, err)
	}
	if got, err := ResolveForgeToken("", "", nil); err != nil || got != "from-env" {
		t.Errorf("env token: got %q, %v, want from-env", got, err)
	}

	t.Setenv("GITHUB_TOKEN", "")
	if got, err := ResolveForgeToken("", "", nil); err != nil || got != "from-gh-env" {
		t.Errorf("GH_TOKEN fallback: got %q, %v, want from-gh-env", got, err)
	}
}

// TestResolveForgeTokenUnreadableFile verifies a named-but-unreadable token
// file fails loudly instead of degrading to unauthenticated access.
func TestResolveForgeTokenUnreadableFile(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "from-env")
	t.Setenv("GH_TOKEN", "from-gh-env")

	missing := filepath.Join(t.TempDir(), "no-such-token")

	// --token-file flag pointing at a missing file.
	if token, err := ResolveForgeToken("", missing, &File{}); err == nil {
		t.Errorf("flag token file: got %q with no error, want read failure", token)
	}

	// config token_file pointing at a missing file; the env token must not
	// paper over it.
	cfg := &File{Forge: ForgeConfig{TokenFile: missing}}
	if token, err := ResolveForgeToken("", "", cfg); err == nil {
		t.Errorf("config token file: got %q with no error, want read failure", token)
	}

	// An explicit --token still wins without touching the file.
	if token, err := ResolveForgeToken("from-flag", missing, &File{}); err != nil || token != "from-flag" {
		t.Errorf("explicit token: got %q, %v, want from-flag", token, err)
	}
}

// TestResolveStorageCredentials verifies flags > env > config and that a
// partial flag pair falls through.
func TestResolveStorageCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "env-id")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "env-secret")
	t.Setenv("AWS_SESSION_TOKEN", "env-session")

	cfg := &File{Storage: StorageConfig{
		AccessKeyID:     "cfg-id",
		SecretAccessKey: "cfg-secret",
	}}

	got := ResolveStorageCredentials("flag-id", "flag-secret", "", cfg)
	if got.AccessKeyID != "flag-id" || got.SecretAccessKey != "flag-secret" {
		t.Errorf("flag credentials: got %+v", got)
	}

	// Key without secret is incomplete; the env pair wins.
	got = ResolveStorageCredentials("flag-id", "", "", cfg)
	if got.AccessKeyID != "env-id" || got.SessionToken != "env-session" {
		t.Errorf("partial flag fallthrough: got %+v", got)
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "")
	got = ResolveStorageCredentials("", "", "", cfg)
	if got.AccessKeyID != "cfg-id" || got.SecretAccessKey != "cfg-secret" {
		t.Errorf("config credentials: got %+v", got)
	}

	got = ResolveStorageCredentials("", "", "", nil)
	if got.AccessKeyID != "" || got.SecretAccessKey != "" {
		t.Errorf("empty sources: got %+v, want zero credentials", got)
	}
}

// TestResolveRegion verifies explicit > env > config > default.
func TestResolveRegion(t *testing.T) {
	t.Setenv("AWS_REGION", "eu-central-1")
	cfg := &File{Storage: StorageConfig{Region: "ap-south-1"}}

	if got := ResolveRegion("us-west-2", "us-east-1", cfg); got != "us-west-2" {
		t.Errorf("explicit region: got %q", got)
	}
	if got := ResolveRegion("", "us-east-1", cfg); got != "eu-central-1" {
		t.Errorf("env region: got %q", got)
	}

	t.Setenv("AWS_REGION", "")
	if got := ResolveRegion("", "us-east-1", cfg); got != "ap-south-1" {
		t.Errorf("config region: got %q", got)
	}
	if got := ResolveRegion("", "us-east-1", nil); got != "us-east-1" {
		t.Errorf("default region: got %q", got)
	}
}
