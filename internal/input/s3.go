// internal/input/s3.go
package input

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrBadObjectURL is returned for s3:// paths without both a bucket and a key.
var ErrBadObjectURL = errors.New("s3 path must look like s3://bucket/key")

// S3Config addresses an S3-compatible object store (AWS, MinIO, Ceph, Garage...).
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	Insecure  bool
}

// S3ConfigFromEnv reads HASHCHECK_S3_* variables, falling back to the usual
// AWS_* credential variables.
func S3ConfigFromEnv(getenv func(string) string) S3Config {
	first := func(keys ...string) string {
		for _, k := range keys {
			if v := strings.TrimSpace(getenv(k)); v != "" {
				return v
			}
		}
		return ""
	}
	c := S3Config{
		Endpoint:  first("HASHCHECK_S3_ENDPOINT"),
		AccessKey: first("HASHCHECK_S3_ACCESS_KEY", "AWS_ACCESS_KEY_ID"),
		SecretKey: first("HASHCHECK_S3_SECRET_KEY", "AWS_SECRET_ACCESS_KEY"),
		Region:    first("HASHCHECK_S3_REGION", "AWS_REGION"),
	}
	if c.Endpoint == "" {
		c.Endpoint = "s3.amazonaws.com"
	}
	if v := first("HASHCHECK_S3_INSECURE"); v != "" {
		c.Insecure, _ = strconv.ParseBool(v)
	}
	return c
}

// SplitObjectURL splits "s3://bucket/some/key" into bucket and key.
func SplitObjectURL(path string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(path, "s3://")
	if !ok {
		return "", "", ErrBadObjectURL
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q", ErrBadObjectURL, path)
	}
	return bucket, key, nil
}

func openS3(ctx context.Context, path string, cfg S3Config) (io.ReadCloser, error) {
	bucket, key, err := SplitObjectURL(path)
	if err != nil {
		return nil, err
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: !cfg.Insecure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}
	obj, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	// GetObject is lazy; Stat surfaces missing objects and auth errors up front.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return obj, nil
}
