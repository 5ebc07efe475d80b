package token

import (
	"errors"
	"testing"
	"time"

	"github.com/pecadorcelestial/panda-proxy/internal/config"
)

func testCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec(config.AuthConfig{
		JWTSecret:   "secret",
		JWTIssuer:   "panda-proxy",
		JWTAudience: "https://portal.example.com",
		TokenTTL:    time.Hour,
	})
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	return c
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	c := testCodec(t)

	signed, err := c.Sign(Claims{User: "ana@example.com", Type: CallerClient}, SignOptions{Algorithm: AlgHS256})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := c.Verify(signed, VerifyOptions{})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.User != "ana@example.com" || claims.Type != CallerClient {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Issuer != "panda-proxy" {
		t.Fatalf("expected default issuer, got %q", claims.Issuer)
	}
	if claims.FirstAudience() != "https://portal.example.com" {
		t.Fatalf("expected default audience, got %q", claims.FirstAudience())
	}
	if claims.ID == "" {
		t.Fatalf("expected generated jti")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	c := testCodec(t)

	past := time.Now().Add(-3 * time.Hour)
	c.now = func() time.Time { return past }
	signed, err := c.Sign(Claims{User: "u"}, SignOptions{Algorithm: AlgHS256, ExpiresIn: time.Hour})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	c.now = time.Now
	if _, err := c.Verify(signed, VerifyOptions{}); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyRejectsNotYetValid(t *testing.T) {
	c := testCodec(t)

	signed, err := c.Sign(Claims{User: "u"}, SignOptions{Algorithm: AlgHS256, ExpiresIn: 2 * time.Hour, NotBefore: time.Hour})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := c.Verify(signed, VerifyOptions{}); !errors.Is(err, ErrTokenNotYetValid) {
		t.Fatalf("expected ErrTokenNotYetValid, got %v", err)
	}
}

func TestVerifyRejectsDisallowedAlgorithmEvenWithValidSignature(t *testing.T) {
	c := testCodec(t)

	// HS384 signs fine with the shared secret, but the default policy
	// only admits HS256.
	signed, err := c.Sign(Claims{User: "u"}, SignOptions{Algorithm: AlgHS384})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := c.Verify(signed, VerifyOptions{}); !errors.Is(err, ErrUnsupportedAlgorithm) {
		t.Fatalf("expected ErrUnsupportedAlgorithm, got %v", err)
	}

	// The same token passes once HS384 is explicitly allowed.
	if _, err := c.Verify(signed, VerifyOptions{Algorithms: []Algorithm{AlgHS384}}); err != nil {
		t.Fatalf("expected allow-listed verify to pass, got %v", err)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	c := testCodec(t)

	signed, err := c.Sign(Claims{User: "u"}, SignOptions{Algorithm: AlgHS256})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	tampered := signed[:len(signed)-2] + "xx"
	if _, err := c.Verify(tampered, VerifyOptions{}); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
	if _, err := c.Verify("not-a-token", VerifyOptions{}); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed for garbage, got %v", err)
	}
}

func TestVerifyAudienceOption(t *testing.T) {
	c := testCodec(t)

	signed, err := c.Sign(Claims{User: "u"}, SignOptions{Algorithm: AlgHS256, Audience: "https://a.example.com"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := c.Verify(signed, VerifyOptions{Audience: "https://b.example.com"}); !errors.Is(err, ErrAudienceMismatch) {
		t.Fatalf("expected ErrAudienceMismatch, got %v", err)
	}
	if _, err := c.Verify(signed, VerifyOptions{Audience: "https://a.example.com"}); err != nil {
		t.Fatalf("expected matching audience to pass, got %v", err)
	}
}

func TestSignValidatesOptionsBeforeSigning(t *testing.T) {
	c := testCodec(t)

	_, err := c.Sign(Claims{User: "u"}, SignOptions{Algorithm: "HS999", ExpiresIn: -time.Minute})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(verr.Fields) != 2 {
		t.Fatalf("expected two violated fields, got %+v", verr.Fields)
	}

	if _, err := c.Sign(Claims{User: "u"}, SignOptions{Algorithm: AlgNone}); err == nil {
		t.Fatalf("expected unsigned tokens to be refused")
	}
}

func TestSignRefusesAsymmetricAlgorithms(t *testing.T) {
	c := testCodec(t)

	if _, err := c.Sign(Claims{User: "u"}, SignOptions{Algorithm: AlgRS256}); !errors.Is(err, ErrSigning) {
		t.Fatalf("expected ErrSigning for RS256 without a key, got %v", err)
	}
}

func TestCallerDefaultsToEmployee(t *testing.T) {
	if (Claims{}).Caller() != CallerEmployee {
		t.Fatalf("expected absent type to mean employee")
	}
	if !CallerDistributor.Trusted() || CallerEmployee.Trusted() {
		t.Fatalf("unexpected trusted classification")
	}
}
