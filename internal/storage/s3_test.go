package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const noSuchKeyXML = `<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`

// fakeS3 serves a single bucket "plans" over path-style requests.
func fakeS3(t *testing.T, objects map[string]string) *S3Storage {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("list-type") == "2" {
			prefix := r.URL.Query().Get("prefix")
			var b strings.Builder
			b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><ListBucketResult><Name>plans</Name><IsTruncated>false</IsTruncated>`)
			for _, key := range []string{"site/a.txt", "site/b.db", "other/c.txt"} {
				if strings.HasPrefix(key, prefix) {
					b.WriteString("<Contents><Key>" + key + "</Key></Contents>")
				}
			}
			b.WriteString("</ListBucketResult>")
			w.Header().Set("Content-Type", "application/xml")
			io.WriteString(w, b.String())
			return
		}

		key := strings.TrimPrefix(r.URL.Path, "/plans/")
		body, ok := objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			if r.Method != http.MethodHead {
				io.WriteString(w, noSuchKeyXML)
			}
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		if r.Method != http.MethodHead {
			io.WriteString(w, body)
		}
	}))
	t.Cleanup(srv.Close)

	client := s3.New(s3.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(srv.URL),
		UsePathStyle: true,
		Credentials:  aws.AnonymousCredentials{},
	})
	return NewS3StorageWithClient(client, "plans", S3Config{
		Retry: RetryPolicy{MaxRetries: 1, BaseBackoff: time.Millisecond},
	})
}

func TestS3Storage_Download(t *testing.T) {
	storage := fakeS3(t, map[string]string{"site/a.txt": "schedule"})
	ctx := context.Background()

	dst := filepath.Join(t.TempDir(), "in", "a.txt")
	if err := storage.Download(ctx, "site/a.txt", dst); err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	data, _ := os.ReadFile(dst)
	if string(data) != "schedule" {
		t.Errorf("downloaded %q", data)
	}

	err := storage.Download(ctx, "site/missing.txt", dst)
	if !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestS3Storage_Exists(t *testing.T) {
	storage := fakeS3(t, map[string]string{"site/a.txt": "schedule"})
	ctx := context.Background()

	if ok, err := storage.Exists(ctx, "site/a.txt"); err != nil || !ok {
		t.Errorf("Exists(present) = %v, %v", ok, err)
	}
	if ok, err := storage.Exists(ctx, "site/none.txt"); err != nil || ok {
		t.Errorf("Exists(absent) = %v, %v", ok, err)
	}
}

func TestS3Storage_ListObjects(t *testing.T) {
	storage := fakeS3(t, nil)
	objects, err := storage.ListObjects(context.Background(), "site/")
	if err != nil {
		t.Fatalf("ListObjects failed: %v", err)
	}
	if len(objects) != 2 || objects[0] != "site/a.txt" || objects[1] != "site/b.db" {
		t.Errorf("objects = %v", objects)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 3, BaseBackoff: time.Millisecond}
	ctx := context.Background()

	var calls int32
	err := retryWithBackoff(ctx, policy, func() error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Errorf("expected success on third call, got err=%v calls=%d", err, calls)
	}

	calls = 0
	err = retryWithBackoff(ctx, policy, func() error {
		atomic.AddInt32(&calls, 1)
		return ErrObjectNotFound
	})
	if !errors.Is(err, ErrObjectNotFound) || calls != 1 {
		t.Errorf("not-found should not be retried: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = retryWithBackoff(ctx, policy, func() error {
		atomic.AddInt32(&calls, 1)
		return errors.New("down")
	})
	if err == nil || calls != 4 {
		t.Errorf("expected 4 attempts, got err=%v calls=%d", err, calls)
	}
}
