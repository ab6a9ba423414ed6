package auth

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestHS256RoundTrip(t *testing.T) {
	claims := Claims{
		Sub:   "user-1",
		Email: "player@example.com",
		Role:  "member",
		Iat:   time.Now().Unix(),
		Exp:   time.Now().Add(1 * time.Hour).Unix(),
	}
	secret := "test-secret"

	token, err := SignHS256(claims, secret)
	if err != nil {
		t.Fatalf("SignHS256 failed: %v", err)
	}
	parsed, err := ParseAndVerifyHS256(token, secret)
	if err != nil {
		t.Fatalf("ParseAndVerifyHS256 failed: %v", err)
	}
	if parsed.Sub != claims.Sub || parsed.Email != claims.Email || parsed.Role != claims.Role {
		t.Fatalf("claims mismatch: got %+v", parsed)
	}
	if _, err := ParseAndVerifyHS256(token, "wrong-secret"); err == nil {
		t.Fatal("expected verification error with wrong secret")
	}
}

func TestRS256Verify(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("rsa.GenerateKey failed: %v", err)
	}
	claims := Claims{
		Sub:  "user-2",
		Role: "admin",
		Iat:  time.Now().Unix(),
		Exp:  time.Now().Add(1 * time.Hour).Unix(),
	}

	token, err := signRS256(claims, key, "kid-1")
	if err != nil {
		t.Fatalf("rs256 Sign failed: %v", err)
	}
	parsed, err := VerifyRS256(token, &key.PublicKey)
	if err != nil {
		t.Fatalf("VerifyRS256 failed: %v", err)
	}
	if parsed.Sub != claims.Sub || parsed.Email != claims.Email || parsed.Role != claims.Role {
		t.Fatalf("claims mismatch: got %+v", parsed)
	}
}

func TestHS256Expired(t *testing.T) {
	token, err := SignHS256(Claims{Sub: "user-1", Role: "member", Exp: time.Now().Add(-time.Minute).Unix()}, "s")
	if err != nil {
		t.Fatalf("SignHS256 failed: %v", err)
	}
	if _, err := ParseAndVerifyHS256(token, "s"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifierUsesJWKS(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("rsa.GenerateKey failed: %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(jwks{Keys: []jwk{{
			Kty: "RSA",
			Kid: "kid-1",
			Alg: "RS256",
			N:   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
		}}})
	}))
	defer srv.Close()

	v := Verifier{Secret: "unused", JWKS: NewJWKSClient(srv.URL, time.Minute)}
	token, err := signRS256(Claims{Sub: "admin-1", Role: "admin", Exp: time.Now().Add(time.Hour).Unix()}, key, "kid-1")
	if err != nil {
		t.Fatalf("signRS256 failed: %v", err)
	}
	claims, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.Role != "admin" {
		t.Fatalf("unexpected role %q", claims.Role)
	}

	unknown, err := signRS256(Claims{Sub: "admin-1", Role: "admin"}, key, "kid-2")
	if err != nil {
		t.Fatalf("signRS256 failed: %v", err)
	}
	if _, err := v.Verify(unknown); err == nil {
		t.Fatal("expected error for unknown kid")
	}

	hs, err := SignHS256(Claims{Sub: "user-1", Role: "member"}, "unused")
	if err != nil {
		t.Fatalf("SignHS256 failed: %v", err)
	}
	if _, err := v.Verify(hs); err != nil {
		t.Fatalf("expected HS256 fallback, got %v", err)
	}
}

func TestJWKSClientRefetchesOnRotation(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("rsa.GenerateKey failed: %v", err)
	}
	var fetches atomic.Int32
	var kid atomic.Value
	kid.Store("kid-1")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fetches.Add(1)
		_ = json.NewEncoder(w).Encode(jwks{Keys: []jwk{
			{Kty: "RSA", Kid: "enc-key", Use: "enc", N: "AQAB", E: "AQAB"},
			{
				Kty: "RSA",
				Kid: kid.Load().(string),
				Use: "sig",
				N:   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
				E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
			},
		}})
	}))
	defer srv.Close()

	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	c := NewJWKSClient(srv.URL, time.Hour)
	c.now = func() time.Time { return now }

	if _, err := c.Get("kid-1"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if _, err := c.Get("enc-key"); err != ErrKeyNotFound {
		t.Fatalf("encryption keys must be skipped, got %v", err)
	}

	kid.Store("kid-2")
	if _, err := c.Get("kid-2"); err != ErrKeyNotFound {
		t.Fatalf("expected throttled miss, got %v", err)
	}
	if got := fetches.Load(); got != 1 {
		t.Fatalf("expected 1 fetch, got %d", got)
	}

	now = now.Add(minRefetch)
	if _, err := c.Get("kid-2"); err != nil {
		t.Fatalf("expected rotated key after refetch, got %v", err)
	}
	if got := fetches.Load(); got != 2 {
		t.Fatalf("expected 2 fetches, got %d", got)
	}
}

func signRS256(claims Claims, key *rsa.PrivateKey, kid string) (string, error) {
	header := map[string]string{
		"alg": "RS256",
		"typ": "JWT",
	}
	if kid != "" {
		header["kid"] = kid
	}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", err
	}
	payloadJSON, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	headerEnc := base64.RawURLEncoding.EncodeToString(headerJSON)
	payloadEnc := base64.RawURLEncoding.EncodeToString(payloadJSON)
	unsigned := headerEnc + "." + payloadEnc
	hash := sha256.Sum256([]byte(unsigned))
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, hash[:])
	if err != nil {
		return "", err
	}
	signature := base64.RawURLEncoding.EncodeToString(sig)
	return unsigned + "." + signature, nil
}
