package utils

import (
	"testing"
	"time"
)

func TestServiceTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "utils-test-secret")

	token, err := GenerateServiceToken("pos-sync", time.Hour)
	if err != nil {
		t.Fatalf("GenerateServiceToken: %v", err)
	}
	claims, err := ParseServiceToken(token)
	if err != nil {
		t.Fatalf("ParseServiceToken: %v", err)
	}
	if claims.Service != "pos-sync" {
		t.Errorf("Service = %q, want pos-sync", claims.Service)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) <= 0 {
		t.Error("token must carry a future expiry")
	}
}

func TestParseServiceTokenRejectsExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "utils-test-secret")

	token, err := GenerateServiceToken("pos-sync", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateServiceToken: %v", err)
	}
	if _, err := ParseServiceToken(token); err == nil {
		t.Error("expired token must not parse")
	}
}

func TestParseServiceTokenRejectsTampered(t *testing.T) {
	t.Setenv("JWT_SECRET", "utils-test-secret")

	token, err := GenerateServiceToken("pos-sync", time.Hour)
	if err != nil {
		t.Fatalf("GenerateServiceToken: %v", err)
	}
	if _, err := ParseServiceToken(token + "x"); err == nil {
		t.Error("tampered token must not parse")
	}
}

func TestBlacklistTokenLifecycle(t *testing.T) {
	token := "revoked-token-123"
	if IsTokenBlacklisted(token) {
		t.Fatal("fresh token must not be blacklisted")
	}

	BlacklistToken(token, time.Now().Add(time.Hour))
	if !IsTokenBlacklisted(token) {
		t.Error("revoked token must be blacklisted")
	}

	// An already-expired token needs no entry at all.
	BlacklistToken("long-gone", time.Now().Add(-time.Minute))
	if IsTokenBlacklisted("long-gone") {
		t.Error("expired token must not be recorded")
	}
}
