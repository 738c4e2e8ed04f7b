package identity

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testKid = "test-key-1"

// testProvider stands in for the identity provider: it owns a signing key,
// serves the matching certificate, and mints ID tokens.
type testProvider struct {
	key    *rsa.PrivateKey
	server *httptest.Server
}

func newTestProvider(t *testing.T) *testProvider {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "securetoken test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("creating certificate: %v", err)
	}
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		json.NewEncoder(w).Encode(map[string]string{testKid: string(certPEM)})
	}))
	t.Cleanup(server.Close)

	return &testProvider{key: key, server: server}
}

func (p *testProvider) mint(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKid
	signed, err := token.SignedString(p.key)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func (p *testProvider) verifier(projectID string) *GoogleVerifier {
	return &GoogleVerifier{
		projectID: projectID,
		certsURL:  p.server.URL,
		client:    &http.Client{Timeout: 5 * time.Second},
	}
}

func validClaims(projectID string) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"aud":     projectID,
		"iss":     "https://securetoken.google.com/" + projectID,
		"sub":     "uid-123",
		"email":   "ada@example.com",
		"name":    "Ada",
		"picture": "https://example.com/ada.png",
		"iat":     now.Unix(),
		"exp":     now.Add(time.Hour).Unix(),
	}
}

func TestGoogleVerifierAcceptsValidToken(t *testing.T) {
	p := newTestProvider(t)
	v := p.verifier("demo-project")

	token := p.mint(t, validClaims("demo-project"))

	claims, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.UID != "uid-123" {
		t.Errorf("UID = %q, want uid-123", claims.UID)
	}
	if claims.Email != "ada@example.com" {
		t.Errorf("Email = %q, want ada@example.com", claims.Email)
	}
	if claims.Name != "Ada" {
		t.Errorf("Name = %q, want Ada", claims.Name)
	}
}

func TestGoogleVerifierRejectsBadTokens(t *testing.T) {
	p := newTestProvider(t)
	v := p.verifier("demo-project")

	expired := validClaims("demo-project")
	expired["exp"] = time.Now().Add(-time.Hour).Unix()

	wrongAud := validClaims("demo-project")
	wrongAud["aud"] = "other-project"

	wrongIss := validClaims("demo-project")
	wrongIss["iss"] = "https://securetoken.google.com/other-project"

	noSub := validClaims("demo-project")
	delete(noSub, "sub")

	tests := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{"expired", expired},
		{"wrong audience", wrongAud},
		{"wrong issuer", wrongIss},
		{"missing subject", noSub},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := p.mint(t, tt.claims)
			if _, err := v.Verify(context.Background(), token); err == nil {
				t.Fatal("Verify accepted an invalid token")
			}
		})
	}

	t.Run("garbage token", func(t *testing.T) {
		if _, err := v.Verify(context.Background(), "not-a-jwt"); err == nil {
			t.Fatal("Verify accepted garbage")
		}
	})

	t.Run("foreign signing key", func(t *testing.T) {
		other := newTestProvider(t)
		token := other.mint(t, validClaims("demo-project"))
		if _, err := v.Verify(context.Background(), token); err == nil {
			t.Fatal("Verify accepted a token signed by an unknown key")
		}
	})
}

func TestNewGoogleVerifierRequiresProjectID(t *testing.T) {
	if _, err := NewGoogleVerifier([]byte(`{"type":"service_account"}`)); err == nil {
		t.Fatal("expected error for credentials without project_id")
	}
	if _, err := NewGoogleVerifier([]byte(`not json`)); err == nil {
		t.Fatal("expected error for malformed credentials")
	}

	v, err := NewGoogleVerifier([]byte(`{"project_id":"demo-project"}`))
	if err != nil {
		t.Fatalf("NewGoogleVerifier: %v", err)
	}
	if v.projectID != "demo-project" {
		t.Errorf("projectID = %q, want demo-project", v.projectID)
	}
}

func TestParseMaxAge(t *testing.T) {
	tests := []struct {
		header string
		want   time.Duration
	}{
		{"public, max-age=19008, must-revalidate", 19008 * time.Second},
		{"max-age=60", time.Minute},
		{"no-cache", time.Hour},
		{"", time.Hour},
	}
	for _, tt := range tests {
		if got := parseMaxAge(tt.header); got != tt.want {
			t.Errorf("parseMaxAge(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}
