package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/source"
)

// Config holds configuration for an S3-compatible file store.
type Config struct {
	Endpoint        string // empty for AWS proper
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UsePathStyle    bool
}

// Client implements source.Store on S3-compatible object storage
// (AWS S3, MinIO, RustFS). Object keys are the opaque file identifiers;
// folder IDs are key prefixes.
type Client struct {
	client *s3.Client
	bucket string
	logger *slog.Logger
}

var _ source.Store = (*Client)(nil)

// New creates a Client with the given configuration.
func New(ctx context.Context, cfg Config) (*Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &Client{
		client: client,
		bucket: cfg.Bucket,
		logger: slog.Default().With("component", "s3-store"),
	}, nil
}

// ListFiles enumerates the objects under the folder prefix.
func (c *Client) ListFiles(ctx context.Context, folderID string) ([]core.SourceFile, error) {
	prefix := folderID
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var files []core.SourceFile
	paginator := s3.NewListObjectsV2Paginator(c.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classify("list objects", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, "/") {
				continue // folder placeholder objects
			}
			f := core.SourceFile{
				ID:          key,
				Name:        path.Base(key),
				ContentType: contentTypeForKey(key),
			}
			if obj.LastModified != nil {
				f.ModifiedAt = *obj.LastModified
			}
			files = append(files, f)
		}
	}

	c.logger.Debug("listed source files", "folder", folderID, "count", len(files))
	return files, nil
}

// FetchFile retrieves the raw bytes of an object.
func (c *Client) FetchFile(ctx context.Context, fileID, contentType string) ([]byte, error) {
	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(fileID),
	})
	if err != nil {
		return nil, classify("get object", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("get object body: %w", err)
	}
	return data, nil
}

// StoreBytes writes a derived artifact under the folder prefix.
func (c *Client) StoreBytes(ctx context.Context, name string, data []byte, contentType, folderID string) (*source.StoredFile, error) {
	key := name
	if folderID != "" {
		key = strings.TrimSuffix(folderID, "/") + "/" + name
	}

	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, classify("put object", err)
	}

	return &source.StoredFile{ID: key}, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
func (c *Client) EnsureBucket(ctx context.Context) error {
	_, err := c.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucket),
	})
	if err == nil {
		return nil
	}

	_, err = c.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(c.bucket),
	})
	if err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// classify maps S3 API failures onto the source package's typed errors so
// the pipeline can distinguish auth, permission, and missing-object cases.
func classify(op string, err error) error {
	var noSuchKey *s3types.NoSuchKey
	var noSuchBucket *s3types.NoSuchBucket
	if errors.As(err, &noSuchKey) || errors.As(err, &noSuchBucket) {
		return fmt.Errorf("%s: %w: %w", op, source.ErrNotFound, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied":
			return fmt.Errorf("%s: %w: %w", op, source.ErrPermission, err)
		case "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken", "TokenRefreshRequired":
			return fmt.Errorf("%s: %w: %w", op, source.ErrAuth, err)
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return fmt.Errorf("%s: %w: %w", op, source.ErrNotFound, err)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}

// contentTypeForKey derives a declared content type from the object key
// extension. Object listings do not carry content types, so the extension
// is the only signal available without a HeadObject per file.
func contentTypeForKey(key string) string {
	ct := mime.TypeByExtension(path.Ext(key))
	if ct == "" {
		return "application/octet-stream"
	}
	// TypeByExtension may attach charset parameters; the extractor matches
	// on the bare type.
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}
