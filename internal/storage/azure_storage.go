package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// AzureBlobSource downloads artifacts addressed as azblob://container/blob.
type AzureBlobSource struct {
	client *azblob.Client
}

func NewAzureBlobSource(accountName string, accountKey string) (*AzureBlobSource, error) {
	if accountName == "" || accountKey == "" {
		return nil, fmt.Errorf("azure storage account name and key are required")
	}

	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("azure client: %w", err)
	}

	return &AzureBlobSource{client: client}, nil
}

func (s *AzureBlobSource) Fetch(ctx context.Context, location string) ([]byte, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}
	if loc.Kind != LocationAzureBlob {
		return nil, fmt.Errorf("%w: %s is not an azblob location", ErrInvalidLocation, location)
	}

	resp, err := s.client.DownloadStream(ctx, loc.Container, loc.Blob, nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}

	body := resp.Body
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read blob %s/%s: %w", loc.Container, loc.Blob, err)
	}
	return data, nil
}

var _ ArtifactSource = (*AzureBlobSource)(nil)
