package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"golang.org/x/sync/singleflight"

	"github.com/finkg/kgconv/pkg/loader"
)

// S3FileLoader is an InputFileLoader implementation that loads file
// contents from an S3 bucket. It uses the AWS SDK v2 for Go.
//
// File paths are joined onto an optional key prefix, so the same relative
// layout used on disk can be mirrored in the bucket.
type S3FileLoader struct {
	bucket string
	prefix string
	client *s3.Client

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewS3FileLoaderWithClient creates a new S3FileLoader using an existing
// s3.Client.
func NewS3FileLoaderWithClient(bucket, prefix string, client *s3.Client) *S3FileLoader {
	return &S3FileLoader{
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		client: client,
		cache:  make(map[string][]byte),
	}
}

// NewS3FileLoaderParams defines the configuration parameters for
// creating a new S3FileLoader.
//
// Endpoint allows overriding the S3 endpoint (useful for S3-compatible
// storage like MinIO).
type NewS3FileLoaderParams struct {
	Bucket    string
	Prefix    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// NewS3FileLoader creates a new S3FileLoader using the provided parameters.
// It initializes an S3 client with static credentials and the given
// endpoint/region.
//
// Example:
//
//	l, err := s3.NewS3FileLoader(ctx, s3.NewS3FileLoaderParams{
//		Bucket:    "kg-inputs",
//		Prefix:    "2024-06",
//		Endpoint:  "http://localhost:9000",
//		Region:    "us-east-1",
//		AccessKey: os.Getenv("AWS_ACCESS_KEY"),
//		SecretKey: os.Getenv("AWS_SECRET_KEY"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	file := loader.NewJSONFile(loader.NewInputFileParams{ID: "company", FilePath: "id_mappings/company2id.json", Loader: l})
//	data, err := file.GetText(ctx)
func NewS3FileLoader(ctx context.Context, params NewS3FileLoaderParams) (*S3FileLoader, error) {
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(params.Region),
		config.WithBaseEndpoint(params.Endpoint),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			params.AccessKey,
			params.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return NewS3FileLoaderWithClient(params.Bucket, params.Prefix, client), nil
}

// ObjectKey returns the bucket key a file path is read from.
func (l *S3FileLoader) ObjectKey(filePath string) string {
	filePath = strings.TrimPrefix(filePath, "./")
	filePath = strings.TrimLeft(filePath, "/")
	if l.prefix == "" {
		return filePath
	}
	return l.prefix + "/" + filePath
}

// GetFileText retrieves the contents of the given InputFile from the
// configured bucket. A missing key yields an error wrapping
// loader.ErrNotFound.
func (l *S3FileLoader) GetFileText(ctx context.Context, file loader.InputFile) ([]byte, error) {
	cacheKey := loader.CacheKey(file)

	l.cacheMu.RLock()
	if cached, ok := l.cache[cacheKey]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(cacheKey, func() (any, error) {
		l.cacheMu.RLock()
		if cached, ok := l.cache[cacheKey]; ok {
			l.cacheMu.RUnlock()
			return cached, nil
		}
		l.cacheMu.RUnlock()

		key := l.ObjectKey(file.FilePath)

		out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(l.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			var nsk *types.NoSuchKey
			if errors.As(err, &nsk) {
				return nil, fmt.Errorf("%w: s3://%s/%s", loader.ErrNotFound, l.bucket, key)
			}
			return nil, err
		}
		defer out.Body.Close()

		buf := new(bytes.Buffer)
		if _, err := io.Copy(buf, out.Body); err != nil {
			return nil, err
		}

		byts := buf.Bytes()

		l.cacheMu.Lock()
		l.cache[cacheKey] = byts
		l.cacheMu.Unlock()

		return byts, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}
