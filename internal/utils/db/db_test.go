package db

import (
	"context"
	"testing"

	"github.com/vanzari-imobiliare/api/internal/config"
)

func TestBuildDSN(t *testing.T) {
	cfg := config.DBConfig{Host: "db", Port: 5433, Name: "vanzari", SSLDisable: true}
	got := buildDSN(cfg, "u", "p")
	want := "host=db user=u password=p dbname=vanzari port=5433 sslmode=disable"
	if got != want {
		t.Fatalf("buildDSN = %q, want %q", got, want)
	}
}

func TestRetrieveCredentialsPrefersEnvironment(t *testing.T) {
	u, p, err := retrieveCredentials(context.Background(), config.DBConfig{Username: "a", Password: "b", SecretID: "ignored"})
	if err != nil || u != "a" || p != "b" {
		t.Fatalf("got %q %q %v", u, p, err)
	}
}

func TestDecodeCredentials(t *testing.T) {
	u, p, err := decodeCredentials([]byte(`{"username":"app","password":"pw"}`))
	if err != nil || u != "app" || p != "pw" {
		t.Fatalf("got %q %q %v", u, p, err)
	}
	if _, _, err := decodeCredentials([]byte(`{"username":"app"}`)); err == nil {
		t.Fatal("expected error for missing password")
	}
}
