package source

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleList = `# disposable domains
tempmail.org
  10minutemail.com  
mailinator.com # popular

not-a-domain
`

func TestParseList(t *testing.T) {
	entries, err := ParseList(strings.NewReader(sampleList))
	require.NoError(t, err)
	assert.Equal(t, []string{"tempmail.org", "10minutemail.com", "mailinator.com", "not-a-domain"}, entries)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.conf")
	require.NoError(t, os.WriteFile(path, []byte(sampleList), 0o644))

	src := NewFileSource(path)
	assert.Equal(t, "file:"+path, src.Name())

	entries, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	_, err = NewFileSource(filepath.Join(t.TempDir(), "missing")).Fetch(context.Background())
	assert.Error(t, err)
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/list" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, sampleList)
	}))
	defer srv.Close()

	entries, err := NewHTTPSource(srv.URL+"/list", time.Second, zap.NewNop()).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tempmail.org", entries[0])

	_, err = NewHTTPSource(srv.URL+"/missing", time.Second, zap.NewNop()).Fetch(context.Background())
	assert.ErrorContains(t, err, "404")
}

func TestStaticSourceReturnsCopy(t *testing.T) {
	domains := []string{"tempmail.org"}
	src := NewStaticSource("config", domains)

	entries, err := src.Fetch(context.Background())
	require.NoError(t, err)
	entries[0] = "changed"
	assert.Equal(t, "tempmail.org", domains[0])
}

type fakeS3 struct {
	body string
	err  error
	got  *s3.GetObjectInput
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.got = params
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestS3Source(t *testing.T) {
	client := &fakeS3{body: sampleList}
	src := NewS3Source(client, "lists", "disposable.conf", zap.NewNop())
	assert.Equal(t, "s3://lists/disposable.conf", src.Name())

	entries, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 4)
	assert.Equal(t, "lists", *client.got.Bucket)
	assert.Equal(t, "disposable.conf", *client.got.Key)

	client.err = errors.New("access denied")
	_, err = src.Fetch(context.Background())
	assert.ErrorContains(t, err, "access denied")
}
