// Package azure provides the Azure Blob implementation of
// storage.ObjectStore.
package azure

import (
	"context"
	"fmt"
	"io"
	nethttp "net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
)

// Store writes blobs into one Azure container, authenticated either by a
// shared account key or a pre-signed SAS URL.
type Store struct {
	client    *azblob.Client
	container string
}

// Options configures a Store. Either SASURL or the AccountName/AccountKey
// pair must be set.
type Options struct {
	AccountName string
	AccountKey  string
	// SASURL is a service URL with an embedded SAS token. Takes precedence
	// over the account key pair.
	SASURL    string
	Container string
	// HTTPClient overrides the SDK transport so blob calls share the
	// tool's pooled, proxy-aware client. nil keeps the SDK default.
	HTTPClient *nethttp.Client
}

// NewStore creates an Azure-Blob-backed object store.
func NewStore(opts Options) (*Store, error) {
	if opts.Container == "" {
		return nil, fmt.Errorf("azure container must not be empty")
	}

	clientOpts := &azblob.ClientOptions{}
	if opts.HTTPClient != nil {
		clientOpts.ClientOptions = azcore.ClientOptions{Transport: opts.HTTPClient}
	}

	switch {
	case opts.SASURL != "":
		client, err := azblob.NewClientWithNoCredential(opts.SASURL, clientOpts)
		if err != nil {
			return nil, fmt.Errorf("create azure client from SAS URL: %w", err)
		}
		return &Store{client: client, container: opts.Container}, nil

	case opts.AccountName != "" && opts.AccountKey != "":
		cred, err := azblob.NewSharedKeyCredential(opts.AccountName, opts.AccountKey)
		if err != nil {
			return nil, fmt.Errorf("create azure shared key credential: %w", err)
		}
		serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", opts.AccountName)
		client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, cred, clientOpts)
		if err != nil {
			return nil, fmt.Errorf("create azure client: %w", err)
		}
		return &Store{client: client, container: opts.Container}, nil

	default:
		return nil, fmt.Errorf("azure credentials are required (account name/key or SAS URL)")
	}
}

// Container returns the container blobs are written to.
func (s *Store) Container() string {
	return s.container
}

// Put streams body into the blob at key, overwriting any existing blob.
// UploadStream handles block splitting internally; the declared size is not
// needed.
func (s *Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	uploadOpts := &azblob.UploadStreamOptions{}
	if contentType != "" {
		uploadOpts.HTTPHeaders = &blob.HTTPHeaders{BlobContentType: &contentType}
	}

	if _, err := s.client.UploadStream(ctx, s.container, key, body, uploadOpts); err != nil {
		return fmt.Errorf("put blob %s/%s: %w", s.container, key, err)
	}
	return nil
}
