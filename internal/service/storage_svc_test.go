package service

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"laboutique_erp_202610/pkg/config"
)

func newLocalStorage(t *testing.T) *StorageService {
	t.Helper()
	svc, err := NewStorageService(config.StorageConfig{
		Provider:  "local",
		LocalDir:  t.TempDir(),
		PublicURL: "http://cdn.test/uploads/",
	})
	if err != nil {
		t.Fatalf("NewStorageService() error = %v", err)
	}
	return svc
}

func TestNewStorageService_InvalidProvider(t *testing.T) {
	if _, err := NewStorageService(config.StorageConfig{Provider: "ftp"}); err == nil {
		t.Error("期望返回错误，但未返回")
	}
}

func TestLocalStorage_UploadGetDelete(t *testing.T) {
	svc := newLocalStorage(t)
	ctx := context.Background()

	key, url, err := svc.Upload(ctx, 7, "products", "lamp.PNG", []byte("hello"), "")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if !strings.HasPrefix(key, "products/7/") || !strings.HasSuffix(key, ".png") {
		t.Errorf("key = %s", key)
	}
	if url != "http://cdn.test/uploads/"+key {
		t.Errorf("url = %s", url)
	}

	data, err := svc.GetObject(ctx, key)
	if err != nil || string(data) != "hello" {
		t.Fatalf("GetObject() = %s, %v", data, err)
	}

	if err := svc.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.GetObject(ctx, key); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("GetObject() after delete error = %v", err)
	}
	// 重复删除不报错
	if err := svc.Delete(ctx, key); err != nil {
		t.Errorf("second Delete() error = %v", err)
	}
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	svc := newLocalStorage(t)
	if err := svc.PutObject(context.Background(), "../escape.txt", []byte("x"), "text/plain"); err == nil {
		t.Error("PutObject() should reject path traversal")
	}
}

func TestStorage_UploadEmpty(t *testing.T) {
	svc := newLocalStorage(t)
	if _, _, err := svc.Upload(context.Background(), 1, "products", "a.jpg", nil, ""); err == nil {
		t.Error("Upload() should reject empty data")
	}
}

func TestStorage_UploadFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/webp")
		w.Write([]byte("RIFF0000WEBP"))
	}))
	defer srv.Close()

	svc := newLocalStorage(t)
	url, err := svc.UploadFromURL(context.Background(), 3, "imports", srv.URL+"/a")
	if err != nil {
		t.Fatalf("UploadFromURL() error = %v", err)
	}
	if !strings.Contains(url, "/imports/3/") || !strings.HasSuffix(url, ".webp") {
		t.Errorf("url = %s", url)
	}
}

func TestStorage_SaveBase64(t *testing.T) {
	svc := newLocalStorage(t)
	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\nrest"))

	url, err := svc.SaveBase64(context.Background(), 1, "banners", payload)
	if err != nil {
		t.Fatalf("SaveBase64() error = %v", err)
	}
	if !strings.HasSuffix(url, ".png") {
		t.Errorf("url = %s, want .png suffix", url)
	}

	if _, err := svc.SaveBase64(context.Background(), 1, "banners", "!!notbase64"); err == nil {
		t.Error("SaveBase64() should fail on invalid data")
	}
}

func TestLocalStorage_SignedURL(t *testing.T) {
	svc := newLocalStorage(t)
	got, err := svc.SignedURL(context.Background(), "invoices/1/INV-2026-000001.pdf", time.Minute)
	if err != nil {
		t.Fatalf("SignedURL() error = %v", err)
	}
	if got != "http://cdn.test/uploads/invoices/1/INV-2026-000001.pdf" {
		t.Errorf("SignedURL() = %s", got)
	}
}
