package filesystem

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryS3 struct {
	objects      map[string][]byte
	contentTypes map[string]string
}

func newMemoryS3() *memoryS3 {
	return &memoryS3{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (m *memoryS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(params.Bucket) + "/" + aws.ToString(params.Key)
	m.objects[key] = b
	m.contentTypes[key] = aws.ToString(params.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (m *memoryS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b := m.objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)]
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (m *memoryS3) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	out := &s3.ListObjectsV2Output{}
	bucket := aws.ToString(params.Bucket) + "/"
	for k := range m.objects {
		key, ok := strings.CutPrefix(k, bucket)
		if ok && strings.HasPrefix(key, aws.ToString(params.Prefix)) {
			out.Contents = append(out.Contents, types.Object{Key: aws.String(key)})
		}
	}
	return out, nil
}

func TestUploadAndRead(t *testing.T) {
	store := newMemoryS3()
	u := NewUploader(store, "lift-files", "attachments")
	ctx := context.Background()

	ref, err := u.Upload(ctx, "/home/ravi/bills/ticket.pdf", strings.NewReader("pdf bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "s3://lift-files/attachments/"), ref)
	assert.True(t, strings.HasSuffix(ref, "/ticket.pdf"), ref)

	bucket, key, err := ParseReference(ref)
	require.NoError(t, err)
	assert.Equal(t, "lift-files", bucket)
	assert.Equal(t, "application/pdf", store.contentTypes[bucket+"/"+key])

	var out bytes.Buffer
	require.NoError(t, u.ReadFile(ctx, ref, &out))
	assert.Equal(t, "pdf bytes", out.String())

	refs, err := u.ListFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{ref}, refs)
}

func TestUploadKeysAreUnique(t *testing.T) {
	u := NewUploader(newMemoryS3(), "b", "")
	a, err := u.Upload(context.Background(), "bill.jpg", strings.NewReader("1"))
	require.NoError(t, err)
	b, err := u.Upload(context.Background(), "bill.jpg", strings.NewReader("2"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestParseReference(t *testing.T) {
	tests := []struct {
		ref     string
		wantErr bool
	}{
		{"s3://bucket/key.pdf", false},
		{"s3://bucket/a/b/c.pdf", false},
		{"https://bucket/key.pdf", true},
		{"s3://bucket", true},
		{"s3:///key", true},
	}
	for _, tt := range tests {
		_, _, err := ParseReference(tt.ref)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrNotS3Reference, tt.ref)
		} else {
			assert.NoError(t, err, tt.ref)
		}
	}
}
