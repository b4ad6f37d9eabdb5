package s3

import (
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// NewClient builds the object-storage client. Deployment configs tend to
// carry the endpoint as a full URL; minio wants a bare host:port, so a
// scheme prefix is stripped and wins over the UseSSL flag.
func NewClient(cfg Config) (*minio.Client, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	useSSL := cfg.UseSSL
	if after, ok := strings.CutPrefix(endpoint, "https://"); ok {
		endpoint, useSSL = after, true
	} else if after, ok := strings.CutPrefix(endpoint, "http://"); ok {
		endpoint, useSSL = after, false
	}
	endpoint = strings.TrimRight(endpoint, "/")
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	return client, nil
}
