// Package cli provides client construction helpers shared by commands.
package cli

import (
	"context"
	"fmt"
	nethttp "net/http"

	"github.com/spf13/cobra"

	"github.com/shiplift/shiplift/internal/cloud/providers/azure"
	"github.com/shiplift/shiplift/internal/cloud/providers/s3"
	"github.com/shiplift/shiplift/internal/cloud/storage"
	"github.com/shiplift/shiplift/internal/config"
	"github.com/shiplift/shiplift/internal/constants"
	"github.com/shiplift/shiplift/internal/httpclient"
	"github.com/shiplift/shiplift/internal/release"
)

// loadConfig loads the YAML config file from --config or the default path.
func loadConfig() (*config.File, error) {
	cfg, err := config.LoadDefault(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newHTTPClient builds the shared pooled client honoring proxy settings.
func newHTTPClient(cfg *config.File) (*nethttp.Client, error) {
	client, err := httpclient.New(cfg.Proxy)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	return client, nil
}

// newForgeClient creates a release client on top of base. With retryAPI the
// metadata surface retries transient failures; asset downloads always go
// through the plain client so a broken stream fails fast instead of
// restarting mid-transfer.
func newForgeClient(cfg *config.File, base *nethttp.Client, retryAPI bool) (*release.Client, error) {
	apiClient := base
	if retryAPI {
		apiClient = httpclient.NewRetrying(base)
	}

	baseURL := forgeURL
	if baseURL == "" {
		baseURL = cfg.Forge.BaseURL
	}

	token, err := config.ResolveForgeToken(forgeToken, tokenFile, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve forge token: %w", err)
	}

	return release.NewClient(release.ClientOptions{
		APIClient:      apiClient,
		DownloadClient: base,
		Token:          token,
		BaseURL:        baseURL,
	})
}

// storageFlags is the flag set shared by commands that write to object
// storage.
type storageFlags struct {
	provider     string
	bucket       string
	region       string
	accessKey    string
	secretKey    string
	sessionToken string
	azureAccount string
	azureKey     string
	azureSASURL  string
}

func (f *storageFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.provider, "provider", "", `Storage provider: "s3" or "azure" (default from config, else s3)`)
	cmd.Flags().StringVar(&f.bucket, "bucket", "", "Target bucket (S3) or container (Azure)")
	cmd.Flags().StringVar(&f.region, "region", "", "S3 region (default: AWS_REGION, config, then "+constants.DefaultRegion+")")
	cmd.Flags().StringVar(&f.accessKey, "access-key-id", "", "S3 access key ID (default: AWS_ACCESS_KEY_ID, then config)")
	cmd.Flags().StringVar(&f.secretKey, "secret-access-key", "", "S3 secret access key (default: AWS_SECRET_ACCESS_KEY, then config)")
	cmd.Flags().StringVar(&f.sessionToken, "session-token", "", "S3 session token for temporary credentials")
	cmd.Flags().StringVar(&f.azureAccount, "azure-account", "", "Azure storage account name")
	cmd.Flags().StringVar(&f.azureKey, "azure-key", "", "Azure shared account key")
	cmd.Flags().StringVar(&f.azureSASURL, "azure-sas-url", "", "Azure service URL with embedded SAS token")
}

// buildStore resolves provider, bucket, and credentials against the config
// file and constructs the object store. The second return value is a
// human-readable target label for log output.
func (f *storageFlags) buildStore(ctx context.Context, cfg *config.File, httpClient *nethttp.Client) (storage.ObjectStore, string, error) {
	provider := f.provider
	if provider == "" {
		provider = cfg.Storage.Provider
	}
	if provider == "" {
		provider = "s3"
	}

	bucket := f.bucket
	if bucket == "" {
		bucket = cfg.Storage.Bucket
	}
	if bucket == "" {
		return nil, "", fmt.Errorf("--bucket is required (or storage.bucket in the config file)")
	}

	switch provider {
	case "s3":
		store, err := s3.NewStore(ctx, s3.Options{
			Bucket:      bucket,
			Region:      config.ResolveRegion(f.region, constants.DefaultRegion, cfg),
			Credentials: config.ResolveStorageCredentials(f.accessKey, f.secretKey, f.sessionToken, cfg),
			HTTPClient:  httpClient,
		})
		if err != nil {
			return nil, "", err
		}
		return store, "s3://" + bucket, nil

	case "azure":
		account := f.azureAccount
		if account == "" {
			account = cfg.Storage.AzureAccount
		}
		key := f.azureKey
		if key == "" {
			key = cfg.Storage.AzureKey
		}
		sasURL := f.azureSASURL
		if sasURL == "" {
			sasURL = cfg.Storage.AzureSASURL
		}
		store, err := azure.NewStore(azure.Options{
			AccountName: account,
			AccountKey:  key,
			SASURL:      sasURL,
			Container:   bucket,
			HTTPClient:  httpClient,
		})
		if err != nil {
			return nil, "", err
		}
		return store, "azure://" + bucket, nil

	default:
		return nil, "", fmt.Errorf("unknown storage provider %q (expected s3 or azure)", provider)
	}
}
