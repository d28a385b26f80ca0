package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Robe Wax Élégante", "robe-wax-elegante"},
		{"  Hello,   World!  ", "hello-world"},
		{"Crème brûlée & Co.", "creme-brulee-co"},
		{"100% Cotton T-Shirt", "100-cotton-t-shirt"},
		{"---", ""},
		{"中文", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUniqueSlug(t *testing.T) {
	taken := map[string]bool{"dress": true, "dress-2": true}
	got, err := UniqueSlug("dress", func(s string) (bool, error) { return taken[s], nil })
	if err != nil {
		t.Fatalf("UniqueSlug() error = %v", err)
	}
	if got != "dress-3" {
		t.Errorf("UniqueSlug() = %s, want dress-3", got)
	}

	got, _ = UniqueSlug("", func(s string) (bool, error) { return false, nil })
	if got != "item" {
		t.Errorf("UniqueSlug(empty) = %s, want item", got)
	}
}

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(6)
	if err != nil {
		t.Fatalf("GenerateCode() error = %v", err)
	}
	if len(code) != 6 {
		t.Errorf("len = %d, want 6", len(code))
	}
	for _, r := range code {
		if r == 'O' || r == '0' || r == 'I' || r == '1' {
			t.Errorf("ambiguous character in %s", code)
		}
	}

	a, _ := GenerateRandomString(32)
	b, _ := GenerateRandomString(32)
	if a == b {
		t.Error("random strings should differ")
	}
}

func TestDownloadImage(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Write(png)
		case "/empty":
		case "/huge.jpg":
			chunk := make([]byte, 1<<20)
			for i := 0; i <= MaxImageSize>>20; i++ {
				if _, err := w.Write(chunk); err != nil {
					return
				}
			}
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewHTTPClient(5 * time.Second)
	ctx := context.Background()

	data, ct, err := DownloadImage(ctx, client, srv.URL+"/ok.png")
	if err != nil {
		t.Fatalf("DownloadImage() error = %v", err)
	}
	if len(data) != len(png) || ct != "image/png" {
		t.Errorf("got %d bytes, content-type %s", len(data), ct)
	}
	if ExtForContentType(ct) != ".png" {
		t.Errorf("ExtForContentType(%s) = %s", ct, ExtForContentType(ct))
	}

	if _, _, err := DownloadImage(ctx, client, srv.URL+"/missing"); err == nil {
		t.Error("404 should fail")
	}
	if _, _, err := DownloadImage(ctx, client, srv.URL+"/empty"); err == nil {
		t.Error("empty body should fail")
	}
	if _, _, err := DownloadImage(ctx, client, srv.URL+"/huge.jpg"); err == nil || !strings.Contains(err.Error(), "图片过大") {
		t.Errorf("oversized body error = %v", err)
	}
}

func TestCurrencyScale(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"USD", 2},
		{"eur", 2},
		{"JPY", 0},
		{"XOF", 0},
		{"XAF", 0},
		{"KWD", 3},
		{"", 2},
		{"???", 2},
	}
	for _, tt := range tests {
		if got := CurrencyScale(tt.code); got != tt.want {
			t.Errorf("CurrencyScale(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestFormatMinorUnits(t *testing.T) {
	tests := []struct {
		amount int64
		code   string
		want   string
	}{
		{1999, "USD", "19.99"},
		{5, "EUR", "0.05"},
		{-250, "EUR", "-2.50"},
		{1500, "XOF", "1500"},
		{1234, "KWD", "1.234"},
		{7, "KWD", "0.007"},
	}
	for _, tt := range tests {
		if got := FormatMinorUnits(tt.amount, tt.code); got != tt.want {
			t.Errorf("FormatMinorUnits(%d, %s) = %s, want %s", tt.amount, tt.code, got, tt.want)
		}
		if back := ParseMinorUnits(FormatMinorUnits(tt.amount, tt.code), tt.code); tt.amount >= 0 && back != tt.amount {
			t.Errorf("ParseMinorUnits(FormatMinorUnits(%d, %s)) = %d", tt.amount, tt.code, back)
		}
	}
}
