package identity

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultCertsURL = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"

var maxAgeRe = regexp.MustCompile(`max-age=(\d+)`)

// serviceAccount is the subset of the provider key file we need.
type serviceAccount struct {
	ProjectID string `json:"project_id"`
}

// GoogleVerifier validates securetoken ID tokens (RS256) against Google's
// published signing certificates. Certificates are fetched lazily and cached
// until the Cache-Control max-age of the response elapses.
type GoogleVerifier struct {
	projectID string
	certsURL  string
	client    *http.Client

	mu        sync.RWMutex
	certs     map[string]*rsa.PublicKey // keyed by kid
	certsFrom time.Time
	certsTTL  time.Duration
}

// NewGoogleVerifier builds a verifier from the service-account credentials.
// Only the project id is read from the key file; token signatures are
// checked against the provider's public certificates, not the private key.
func NewGoogleVerifier(credentialsJSON []byte) (*GoogleVerifier, error) {
	var sa serviceAccount
	if err := json.Unmarshal(credentialsJSON, &sa); err != nil {
		return nil, fmt.Errorf("parsing service account credentials: %w", err)
	}
	if sa.ProjectID == "" {
		return nil, errors.New("service account credentials missing project_id")
	}

	return &GoogleVerifier{
		projectID: sa.ProjectID,
		certsURL:  defaultCertsURL,
		client:    &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Verify implements Verifier.
func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*Claims, error) {
	parsed, err := jwt.Parse(idToken, func(token *jwt.Token) (interface{}, error) {
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("token missing kid header")
		}
		return v.signingKey(ctx, kid)
	},
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(v.projectID),
		jwt.WithIssuer("https://securetoken.google.com/"+v.projectID),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	uid, _ := mapClaims["sub"].(string)
	if uid == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{UID: uid}
	claims.Email, _ = mapClaims["email"].(string)
	claims.Name, _ = mapClaims["name"].(string)
	claims.Picture, _ = mapClaims["picture"].(string)
	return claims, nil
}

// signingKey returns the public key for kid, refreshing the cert cache if
// it is stale or does not know the kid (Google rotates keys).
func (v *GoogleVerifier) signingKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.RLock()
	key, fresh := v.cachedKey(kid)
	v.mu.RUnlock()
	if fresh && key != nil {
		return key, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	// Another request may have refreshed while we waited for the lock.
	if key, fresh := v.cachedKey(kid); fresh && key != nil {
		return key, nil
	}

	if err := v.refreshCerts(ctx); err != nil {
		return nil, err
	}

	key, ok := v.certs[kid]
	if !ok {
		return nil, fmt.Errorf("no signing certificate for kid %q", kid)
	}
	return key, nil
}

func (v *GoogleVerifier) cachedKey(kid string) (*rsa.PublicKey, bool) {
	if v.certs == nil {
		return nil, false
	}
	fresh := time.Since(v.certsFrom) < v.certsTTL
	return v.certs[kid], fresh
}

func (v *GoogleVerifier) refreshCerts(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.certsURL, nil)
	if err != nil {
		return err
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching signing certificates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching signing certificates: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var raw map[string]string
	if err := json.Unmarshal(body, &raw); err != nil {
		return fmt.Errorf("decoding signing certificates: %w", err)
	}

	certs := make(map[string]*rsa.PublicKey, len(raw))
	for kid, certPEM := range raw {
		block, _ := pem.Decode([]byte(certPEM))
		if block == nil {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			continue
		}
		if pub, ok := cert.PublicKey.(*rsa.PublicKey); ok {
			certs[kid] = pub
		}
	}
	if len(certs) == 0 {
		return errors.New("signing certificate response contained no usable keys")
	}

	v.certs = certs
	v.certsFrom = time.Now()
	v.certsTTL = parseMaxAge(resp.Header.Get("Cache-Control"))
	return nil
}

// parseMaxAge extracts the cache lifetime of a cert response. Falls back to
// one hour, which is shorter than Google's usual rotation window.
func parseMaxAge(cacheControl string) time.Duration {
	m := maxAgeRe.FindStringSubmatch(cacheControl)
	if m == nil {
		return time.Hour
	}
	secs, err := strconv.Atoi(m[1])
	if err != nil || secs <= 0 {
		return time.Hour
	}
	return time.Duration(secs) * time.Second
}
