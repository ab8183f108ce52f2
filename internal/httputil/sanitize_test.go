package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid HTTPS", "https://api.themoviedb.org/3/discover/movie", false},
		{"HTTP rejected", "http://example.com/path", true},
		{"javascript scheme rejected", "javascript:alert(1)", true},
		{"data scheme rejected", "data:text/html,<h1>Hi</h1>", true},
		{"FTP rejected", "ftp://example.com/file", true},
		{"empty string", "", true},
		{"no host", "https://", true},
		{"valid with port", "https://example.com:8080/path", false},
		{"valid with query", "https://example.com/path?q=test&a=b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidateVideoKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"youtube key", "YoHD9XEInc0", false},
		{"key with dash and underscore", "a-b_c", false},
		{"empty", "", true},
		{"flag injection", "--exec=rm", true},
		{"shell injection semicolon", "abc; rm -rf /", true},
		{"command substitution", "$(whoami)", true},
		{"path traversal", "../../etc/passwd", true},
		{"url", "https://evil.example/x", true},
		{"newline injection", "abc\ndef", true},
		{"too long", strings.Repeat("a", 65), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVideoKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateVideoKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
		})
	}
}

func TestValidateMovieID(t *testing.T) {
	if err := ValidateMovieID(27205); err != nil {
		t.Errorf("ValidateMovieID(27205) error = %v", err)
	}
	if err := ValidateMovieID(0); err == nil {
		t.Error("ValidateMovieID(0) should fail")
	}
	if err := ValidateMovieID(-1); err == nil {
		t.Error("ValidateMovieID(-1) should fail")
	}
}

func TestValidImagePath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/kqjL17yufvn9OVLyXYpvtyrFfak.jpg", true},
		{"/abc.png", true},
		{"", false},
		{"kqjL17yufvn9OVLyXYpvtyrFfak.jpg", false},
		{"/../secret.jpg", false},
		{"/a.jpg?x=1", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := ValidImagePath(tt.path); got != tt.want {
				t.Errorf("ValidImagePath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Inception", "Inception"},
		{"unicode kept", "Amélie", "Amélie"},
		{"ansi escape stripped", "\x1b[2J\x1b[31mRed", "[2J[31mRed"},
		{"bell stripped", "Title\a", "Title"},
		{"newlines folded", "line one\nline two", "line one line two"},
		{"rtl override stripped", "abc\u202edef", "abcdef"},
		{"surrounding space trimmed", "  spaced  ", "spaced"},
		{"shell text kept literal", "$(whoami)", "$(whoami)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeText(tt.input)
			if got != tt.expected {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRedact(t *testing.T) {
	got := Redact("https://api.themoviedb.org/3/movie/1?api_key=secret&language=en-US")
	if strings.Contains(got, "secret") {
		t.Errorf("Redact() leaked credential: %q", got)
	}
	if !strings.Contains(got, "language=en-US") {
		t.Errorf("Redact() dropped other params: %q", got)
	}

	plain := "https://example.com/a?b=c"
	if got := Redact(plain); got != plain {
		t.Errorf("Redact(%q) = %q, want unchanged", plain, got)
	}
}

func TestBuildURL(t *testing.T) {
	got := BuildURL("https://api.themoviedb.org/3/", "movie", "27205")
	if got != "https://api.themoviedb.org/3/movie/27205" {
		t.Errorf("BuildURL() = %q", got)
	}
	got = BuildURL("https://example.com", "a b")
	if got != "https://example.com/a%20b" {
		t.Errorf("BuildURL() did not escape segment: %q", got)
	}
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Accept = %q, want application/json", r.Header.Get("Accept"))
		}
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte(`{"ok":true}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	body, err := GetJSON(context.Background(), srv.Client(), srv.URL+"/ok")
	if err != nil {
		t.Fatalf("GetJSON() error: %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("body = %q", body)
	}

	_, err = GetJSON(context.Background(), srv.Client(), srv.URL+"/denied?api_key=secret")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("GetJSON() error = %v, want *StatusError", err)
	}
	if se.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", se.Code)
	}
	if strings.Contains(err.Error(), "secret") {
		t.Errorf("error leaked credential: %v", err)
	}

	if _, err := GetJSON(context.Background(), srv.Client(), "http://insecure.example/"); err == nil {
		t.Error("GetJSON() should reject plain HTTP")
	}
}
