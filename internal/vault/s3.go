package vault

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"idup/internal/config"
	"idup/internal/idup"
)

// versionMetadataKey is the user metadata entry holding a snapshot version.
const versionMetadataKey = "idup-version"

// Environment variables for static S3 credentials. When unset the default
// AWS credential chain applies.
const (
	envS3AccessKey = "IDUP_S3_ACCESS_KEY_ID"
	envS3SecretKey = "IDUP_S3_SECRET_ACCESS_KEY"
)

// S3Vault stores snapshots in an S3 bucket, or any S3-compatible store when
// an endpoint is configured. Objects live at <prefix>/<hostID>/<name> and
// carry their version in user metadata.
type S3Vault struct {
	name     string
	bucket   string
	prefix   string
	client   *s3.Client
	uploader *manager.Uploader
}

// NewS3Vault creates an S3 vault from cfg. No request is made until the
// vault is used.
func NewS3Vault(cfg config.VaultConfig) (*S3Vault, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 vault requires s3_bucket to be set")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
	}
	if key, secret := os.Getenv(envS3AccessKey), os.Getenv(envS3SecretKey); key != "" && secret != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Vault{
		name:     cfg.Name,
		bucket:   cfg.S3Bucket,
		prefix:   cfg.S3Prefix,
		client:   client,
		uploader: manager.NewUploader(client),
	}, nil
}

func (v *S3Vault) objectKey(hostID, name string) string {
	return path.Join(v.prefix, hostID, name)
}

// PutSnapshot uploads the snapshot with its version attached.
func (v *S3Vault) PutSnapshot(hostID string, name string, r io.Reader, size int64, version int64) error {
	counter := &countingReader{r: r}
	_, err := v.uploader.Upload(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(v.objectKey(hostID, name)),
		Body:   counter,
		Metadata: map[string]string{
			versionMetadataKey: strconv.FormatInt(version, 10),
		},
	})
	if err != nil {
		return fmt.Errorf("uploading snapshot: %w", err)
	}
	if counter.n != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, counter.n)
	}
	return nil
}

// GetSnapshot downloads the snapshot into w.
func (v *S3Vault) GetSnapshot(hostID string, name string, w io.Writer) error {
	out, err := v.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(v.objectKey(hostID, name)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return fmt.Errorf("snapshot %q not found for host: %s", name, hostID)
		}
		return fmt.Errorf("downloading snapshot: %w", err)
	}
	defer out.Body.Close()

	if _, err := io.Copy(w, out.Body); err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}
	return nil
}

// SnapshotVersion reads the version from the object's metadata, 0 when the
// object does not exist.
func (v *S3Vault) SnapshotVersion(hostID string, name string) (int64, error) {
	out, err := v.client.HeadObject(context.Background(), &s3.HeadObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(v.objectKey(hostID, name)),
	})
	if err != nil {
		var notFound *types.NotFound
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading snapshot metadata: %w", err)
	}
	return parseVersionMetadata(out.Metadata)
}

func parseVersionMetadata(md map[string]string) (int64, error) {
	raw, ok := md[versionMetadataKey]
	if !ok {
		return 0, fmt.Errorf("snapshot has no %s metadata", versionMetadataKey)
	}
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing version: %w", err)
	}
	return version, nil
}

// ValidateSetup checks that the bucket is reachable with the configured
// credentials.
func (v *S3Vault) ValidateSetup() error {
	_, err := v.client.HeadBucket(context.Background(), &s3.HeadBucketInput{
		Bucket: aws.String(v.bucket),
	})
	if err != nil {
		return fmt.Errorf("s3 bucket %s not accessible: %w", v.bucket, err)
	}
	return nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Compile-time check that S3Vault implements idup.Vault interface
var _ idup.Vault = (*S3Vault)(nil)
