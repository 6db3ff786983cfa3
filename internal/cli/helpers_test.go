package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/shiplift/shiplift/internal/config"
)

// TestBuildStoreRejectsUnknownProvider verifies a typoed provider fails
// before any client construction.
func TestBuildStoreRejectsUnknownProvider(t *testing.T) {
	flags := &storageFlags{provider: "gcs", bucket: "b"}

	_, _, err := flags.buildStore(context.Background(), &config.File{}, nil)
	if err == nil || !strings.Contains(err.Error(), "unknown storage provider") {
		t.Errorf("buildStore() error = %v, want unknown provider", err)
	}
}

// TestBuildStoreRequiresBucket verifies a missing bucket is rejected when
// neither the flag nor the config file supplies one.
func TestBuildStoreRequiresBucket(t *testing.T) {
	flags := &storageFlags{provider: "s3"}

	_, _, err := flags.buildStore(context.Background(), &config.File{}, nil)
	if err == nil || !strings.Contains(err.Error(), "bucket") {
		t.Errorf("buildStore() error = %v, want missing bucket", err)
	}
}

// TestBuildStoreS3RequiresCredentials verifies the s3 provider refuses to
// fall back to the ambient credential chain.
func TestBuildStoreS3RequiresCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")

	flags := &storageFlags{provider: "s3", bucket: "releases"}

	_, _, err := flags.buildStore(context.Background(), &config.File{}, nil)
	if err == nil || !strings.Contains(err.Error(), "credentials") {
		t.Errorf("buildStore() error = %v, want missing credentials", err)
	}
}

// TestBuildStoreS3FromFlags verifies explicit flag credentials build a
// store labeled with the bucket.
func TestBuildStoreS3FromFlags(t *testing.T) {
	flags := &storageFlags{
		provider:  "s3",
		bucket:    "releases",
		region:    "eu-west-1",
		accessKey: "AKIAEXAMPLE",
		secretKey: "secret",
	}

	store, target, err := flags.buildStore(context.Background(), &config.File{}, nil)
	if err != nil {
		t.Fatalf("buildStore() failed: %v", err)
	}
	if store == nil {
		t.Fatal("buildStore() returned nil store")
	}
	if target != "s3://releases" {
		t.Errorf("target = %q, want s3://releases", target)
	}
}

// TestBuildStoreDefaultsToS3 verifies an empty provider resolves to s3.
func TestBuildStoreDefaultsToS3(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")

	flags := &storageFlags{bucket: "releases"}

	_, _, err := flags.buildStore(context.Background(), &config.File{}, nil)
	// No credentials anywhere, so the s3 constructor must be the one
	// complaining.
	if err == nil || !strings.Contains(err.Error(), "s3 credentials") {
		t.Errorf("buildStore() error = %v, want s3 credential error", err)
	}
}

// TestBuildStoreAzureRequiresCredentials verifies the azure provider needs
// either a key pair or a SAS URL.
func TestBuildStoreAzureRequiresCredentials(t *testing.T) {
	flags := &storageFlags{provider: "azure", bucket: "releases"}

	_, _, err := flags.buildStore(context.Background(), &config.File{}, nil)
	if err == nil || !strings.Contains(err.Error(), "azure credentials") {
		t.Errorf("buildStore() error = %v, want azure credential error", err)
	}
}

// TestBuildStoreConfigFallback verifies flag values take precedence over
// the config file, and the config file fills in what flags omit.
func TestBuildStoreConfigFallback(t *testing.T) {
	cfg := &config.File{}
	cfg.Storage.Provider = "azure"
	cfg.Storage.Bucket = "from-config"
	cfg.Storage.AzureSASURL = "https://acmestore.blob.core.windows.net/?sig=x"

	store, target, err := (&storageFlags{}).buildStore(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("buildStore() failed: %v", err)
	}
	if store == nil {
		t.Fatal("buildStore() returned nil store")
	}
	if target != "azure://from-config" {
		t.Errorf("target = %q, want azure://from-config", target)
	}

	// Flag bucket wins over config bucket.
	_, target, err = (&storageFlags{bucket: "from-flag"}).buildStore(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("buildStore() failed: %v", err)
	}
	if target != "azure://from-flag" {
		t.Errorf("target = %q, want azure://from-flag", target)
	}
}
