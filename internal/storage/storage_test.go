package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGetter struct {
	body   string
	err    error
	bucket string
	key    string
}

func (f *fakeGetter) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket = aws.ToString(in.Bucket)
	f.key = aws.ToString(in.Key)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestS3Source_Fetch(t *testing.T) {
	getter := &fakeGetter{body: "%PDF-1.7 resume"}
	src := &S3Source{client: getter, bucket: "resumes"}

	data, err := src.Fetch(context.Background(), "u1/resume.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 resume", string(data))
	assert.Equal(t, "resumes", getter.bucket)
	assert.Equal(t, "u1/resume.pdf", getter.key)
}

func TestS3Source_NotFound(t *testing.T) {
	src := &S3Source{client: &fakeGetter{err: &s3types.NoSuchKey{Message: aws.String("missing")}}, bucket: "b"}

	_, err := src.Fetch(context.Background(), "nope.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestS3Source_OtherError(t *testing.T) {
	boom := errors.New("connection reset")
	src := &S3Source{client: &fakeGetter{err: boom}, bucket: "b"}

	_, err := src.Fetch(context.Background(), "k")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestNewS3Source_Endpoints(t *testing.T) {
	ctx := context.Background()

	r2, err := NewS3Source(ctx, Options{Bucket: "b", R2AccountID: "acct", AccessKeyID: "ak", SecretAccessKey: "sk"})
	require.NoError(t, err)
	opts := r2.client.(*s3.Client).Options()
	assert.Equal(t, "https://acct.r2.cloudflarestorage.com", aws.ToString(opts.BaseEndpoint))
	assert.Equal(t, "auto", opts.Region)
	assert.False(t, opts.UsePathStyle)

	custom, err := NewS3Source(ctx, Options{Bucket: "b", Endpoint: "http://localhost:9000", R2AccountID: "acct", Region: "us-east-1"})
	require.NoError(t, err)
	opts = custom.client.(*s3.Client).Options()
	assert.Equal(t, "http://localhost:9000", aws.ToString(opts.BaseEndpoint))
	assert.Equal(t, "us-east-1", opts.Region)
	assert.True(t, opts.UsePathStyle)

	_, err = NewS3Source(ctx, Options{})
	assert.Error(t, err)
}

func TestFileSource_Fetch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "u1"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "u1", "resume.pdf"), []byte("content"), 0o644))

	src := NewFileSource(dir)
	data, err := src.Fetch(context.Background(), "u1/resume.pdf")
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	_, err = src.Fetch(context.Background(), "u1/missing.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileSource_RejectsEscapingKeys(t *testing.T) {
	src := NewFileSource(t.TempDir())
	for _, key := range []string{"../etc/passwd", "/etc/passwd", ""} {
		_, err := src.Fetch(context.Background(), key)
		assert.Error(t, err, key)
		assert.NotErrorIs(t, err, ErrNotFound, key)
	}
}

func TestFileSource_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFileSource(t.TempDir()).Fetch(ctx, "a.pdf")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	src, err := Open(ctx, Options{LocalDir: "/tmp", Bucket: "b"})
	require.NoError(t, err)
	assert.IsType(t, &FileSource{}, src)

	src, err = Open(ctx, Options{Bucket: "b", AccessKeyID: "ak", SecretAccessKey: "sk"})
	require.NoError(t, err)
	assert.IsType(t, &S3Source{}, src)

	_, err = Open(ctx, Options{})
	assert.Error(t, err)
}

func TestMediaTypeFromKey(t *testing.T) {
	assert.Equal(t, "application/pdf", MediaTypeFromKey("a/b/Resume.PDF"))
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", MediaTypeFromKey("cv.docx"))
	assert.Equal(t, "", MediaTypeFromKey("notes.txt"))
}
