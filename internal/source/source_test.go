package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestVariants_OrderAndDedup(t *testing.T) {
	got := Variants("post-1.md", []string{"data/posts", "posts", ""})
	want := []string{
		"data/posts/post-1.md", "/data/posts/post-1.md",
		"posts/post-1.md", "/posts/post-1.md",
		"post-1.md", "/post-1.md",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Variants = %v, want %v", got, want)
	}
}

func TestVariants_LocatorAlreadyUnderDir(t *testing.T) {
	got := Variants("/posts/post-1.md", []string{"posts"})
	want := []string{"posts/post-1.md", "/posts/post-1.md"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Variants = %v, want %v", got, want)
	}
}

func TestVariants_Empty(t *testing.T) {
	if got := Variants("", []string{"posts"}); got != nil {
		t.Errorf("Variants of empty locator = %v, want nil", got)
	}
}

func TestVariants_NoDirs(t *testing.T) {
	got := Variants("index.json", nil)
	want := []string{"index.json", "/index.json"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Variants = %v, want %v", got, want)
	}
}

func TestFS_FetchAndNotFound(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "posts"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "posts", "a.md"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := NewFS(root)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}

	data, err := f.Fetch(context.Background(), "/posts/a.md")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("data = %q", data)
	}

	_, err = f.Fetch(context.Background(), "posts/missing.md")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing file err = %v, want ErrNotFound", err)
	}
}

func TestFS_RejectsTraversal(t *testing.T) {
	f, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	if _, err := f.Fetch(context.Background(), "../outside.md"); err == nil {
		t.Error("expected traversal to be rejected")
	}
}

func TestHTTP_FetchStatuses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.md":
			w.Write([]byte("body"))
		case "/gone.md":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	h, err := NewHTTP(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("NewHTTP: %v", err)
	}

	data, err := h.Fetch(context.Background(), "ok.md")
	if err != nil {
		t.Fatalf("Fetch ok: %v", err)
	}
	if string(data) != "body" {
		t.Errorf("data = %q", data)
	}

	if _, err := h.Fetch(context.Background(), "/gone.md"); !errors.Is(err, ErrNotFound) {
		t.Errorf("404 err = %v, want ErrNotFound", err)
	}
	if _, err := h.Fetch(context.Background(), "/boom.md"); err == nil {
		t.Error("expected error for 500")
	}
}

func TestNewHTTP_RejectsRelativeBase(t *testing.T) {
	if _, err := NewHTTP("not-a-url", nil); err == nil {
		t.Error("expected error for relative base")
	}
}
