package common

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/smithy-go"
)

func TestParseS3URI(t *testing.T) {
	cases := []struct {
		uri         string
		bucket, key string
		wantErr     bool
	}{
		{"s3://media/music/calm.mp3", "media", "music/calm.mp3", false},
		{"s3://media/a", "media", "a", false},
		{"s3://media/", "", "", true},
		{"s3://", "", "", true},
		{"https://example.com/a.mp3", "", "", true},
	}

	for _, c := range cases {
		bucket, key, err := ParseS3URI(c.uri)
		if (err != nil) != c.wantErr {
			t.Errorf("ParseS3URI(%q) error = %v, wantErr %v", c.uri, err, c.wantErr)
			continue
		}
		if bucket != c.bucket || key != c.key {
			t.Errorf("ParseS3URI(%q) = %q, %q", c.uri, bucket, key)
		}
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(&smithy.GenericAPIError{Code: "NoSuchKey"}) {
		t.Error("NoSuchKey should be not found")
	}
	if IsNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}) {
		t.Error("AccessDenied is not a not-found error")
	}
	if IsNotFound(errors.New("boom")) {
		t.Error("plain error is not a not-found error")
	}
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ok.mp3" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("audio"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "ok.mp3")
	if err := Download(context.Background(), srv.Client(), srv.URL+"/ok.mp3", dest); err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if data, _ := os.ReadFile(dest); string(data) != "audio" {
		t.Errorf("downloaded %q", data)
	}

	missing := filepath.Join(dir, "missing.mp3")
	if err := Download(context.Background(), srv.Client(), srv.URL+"/missing.mp3", missing); err == nil {
		t.Error("expected error for 404")
	}
	if _, err := os.Stat(missing); !os.IsNotExist(err) {
		t.Error("failed download left a file behind")
	}
}

func TestWriteFileLeavesNoPartial(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.bin")
	if err := WriteFile(dest, strings.NewReader("payload")); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dest + ".part"); !os.IsNotExist(err) {
		t.Error("temporary file survived")
	}
}
