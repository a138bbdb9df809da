package captcha

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStaticVerifier(t *testing.T) {
	v := Static{}
	if err := v.Verify(context.Background(), "any-token"); err != nil {
		t.Fatalf("expected non-empty token to pass, got %v", err)
	}
	if err := v.Verify(context.Background(), ""); !errors.Is(err, ErrRejected) {
		t.Fatalf("expected empty token to be rejected, got %v", err)
	}
}

func TestHTTPVerifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("secret") != "s3cret" {
			t.Fatalf("missing secret in form")
		}
		if r.PostForm.Get("response") == "good-token" {
			w.Write([]byte(`{"success":true}`))
			return
		}
		w.Write([]byte(`{"success":false}`))
	}))
	defer srv.Close()

	v := NewHTTPVerifier(srv.URL, "s3cret")

	if err := v.Verify(context.Background(), "good-token"); err != nil {
		t.Fatalf("expected good token to pass, got %v", err)
	}
	if err := v.Verify(context.Background(), "bad-token"); !errors.Is(err, ErrRejected) {
		t.Fatalf("expected bad token to be rejected, got %v", err)
	}
}
