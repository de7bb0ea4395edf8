package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const scheme = "s3://"

var ErrNotS3Reference = errors.New("not an s3:// reference")

// S3API is the subset of the S3 client the uploader calls.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	s3.ListObjectsV2APIClient
}

// Uploader stores travel and material request attachments. The reference it returns goes into the
// request's attachment field as is.
type Uploader struct {
	client S3API
	bucket string
	prefix string
}

func NewUploader(client S3API, bucket, prefix string) *Uploader {
	return &Uploader{client: client, bucket: bucket, prefix: prefix}
}

func ConnectS3(ctx context.Context, bucket, prefix string) (*Uploader, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewUploader(s3.NewFromConfig(cfg), bucket, prefix), nil
}

// Upload writes body under <prefix>/<uuid>/<name> and returns s3://bucket/key.
func (this *Uploader) Upload(ctx context.Context, name string, body io.Reader) (string, error) {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		base = "attachment"
	}
	key := path.Join(this.prefix, uuid.NewString(), base)

	input := &s3.PutObjectInput{
		Bucket: aws.String(this.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if ct := mime.TypeByExtension(filepath.Ext(base)); ct != "" {
		input.ContentType = aws.String(ct)
	}
	if _, err := this.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to put object %s to bucket %s: %w", key, this.bucket, err)
	}
	return scheme + this.bucket + "/" + key, nil
}

// ReadFile copies the object behind ref to out.
func (this *Uploader) ReadFile(ctx context.Context, ref string, out io.Writer) error {
	bucket, key, err := ParseReference(ref)
	if err != nil {
		return err
	}
	resp, err := this.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to get object %s from bucket %s: %w", key, bucket, err)
	}
	defer resp.Body.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to copy object %s from bucket %s: %w", key, bucket, err)
	}
	return nil
}

// ListFiles returns the references of every attachment under the prefix.
func (this *Uploader) ListFiles(ctx context.Context) ([]string, error) {
	var refs []string
	paginator := s3.NewListObjectsV2Paginator(this.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(this.bucket),
		Prefix: aws.String(this.prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects in bucket %s: %w", this.bucket, err)
		}
		for _, obj := range page.Contents {
			if obj.Key != nil {
				refs = append(refs, scheme+this.bucket+"/"+*obj.Key)
			}
		}
	}
	return refs, nil
}

func ParseReference(ref string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(ref, scheme)
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrNotS3Reference, ref)
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q", ErrNotS3Reference, ref)
	}
	return bucket, key, nil
}
