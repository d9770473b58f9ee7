package provider

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrWebhookVerification marks any failure to authenticate a webhook
// delivery: bad signature, stale token, body digest mismatch.
var ErrWebhookVerification = errors.New("webhook verification failed")

// webhookMaxAge bounds how old a webhook JWS may be before it is rejected
// as a possible replay.
const webhookMaxAge = 5 * time.Minute

type webhookClaims struct {
	jwt.RegisteredClaims
	RequestBodySHA256 string `json:"request_body_sha256"`
}

// KeySource is the subset of [API] the webhook verifier needs.
type KeySource interface {
	GetWebhookVerificationKey(ctx context.Context, keyID string) (WebhookKey, error)
}

// WebhookVerifier authenticates provider webhook deliveries. The provider
// signs every delivery with an ES256 JWS whose kid names a JWK served by
// the verification-key endpoint; keys are fetched once per kid and cached
// for the life of the process.
type WebhookVerifier struct {
	source KeySource

	mu   sync.RWMutex
	keys map[string]*ecdsa.PublicKey
}

// NewWebhookVerifier constructs a verifier backed by source for key
// retrieval.
func NewWebhookVerifier(source KeySource) *WebhookVerifier {
	return &WebhookVerifier{
		source: source,
		keys:   make(map[string]*ecdsa.PublicKey),
	}
}

// Verify authenticates one webhook delivery: the JWS signature against the
// provider-served JWK, the freshness of the iat claim, and the
// request_body_sha256 claim against the actual request body. Any failure
// wraps [ErrWebhookVerification].
func (v *WebhookVerifier) Verify(ctx context.Context, signedJWT string, body []byte) error {
	unverified, _, err := jwt.NewParser().ParseUnverified(signedJWT, jwt.MapClaims{})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWebhookVerification, err)
	}

	if unverified.Method.Alg() != jwt.SigningMethodES256.Alg() {
		return fmt.Errorf("%w: unexpected signing algorithm %q", ErrWebhookVerification, unverified.Method.Alg())
	}

	kid, _ := unverified.Header["kid"].(string)
	if kid == "" {
		return fmt.Errorf("%w: missing kid header", ErrWebhookVerification)
	}

	key, err := v.keyFor(ctx, kid)
	if err != nil {
		return err
	}

	claims := &webhookClaims{}
	_, err = jwt.ParseWithClaims(signedJWT, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodES256.Alg()}))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWebhookVerification, err)
	}

	issuedAt, err := claims.GetIssuedAt()
	if err != nil || issuedAt == nil {
		return fmt.Errorf("%w: missing iat claim", ErrWebhookVerification)
	}
	if time.Since(issuedAt.Time) > webhookMaxAge {
		return fmt.Errorf("%w: token older than %s", ErrWebhookVerification, webhookMaxAge)
	}

	digest := sha256.Sum256(body)
	if hex.EncodeToString(digest[:]) != claims.RequestBodySHA256 {
		return fmt.Errorf("%w: body digest mismatch", ErrWebhookVerification)
	}

	return nil
}

func (v *WebhookVerifier) keyFor(ctx context.Context, kid string) (*ecdsa.PublicKey, error) {
	v.mu.RLock()
	key, ok := v.keys[kid]
	v.mu.RUnlock()
	if ok {
		return key, nil
	}

	jwk, err := v.source.GetWebhookVerificationKey(ctx, kid)
	if err != nil {
		return nil, fmt.Errorf("fetch webhook verification key: %w", err)
	}
	if jwk.ExpiredAt != 0 {
		return nil, fmt.Errorf("%w: key %s is expired", ErrWebhookVerification, kid)
	}

	key, err = jwkToECDSA(jwk)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWebhookVerification, err)
	}

	v.mu.Lock()
	v.keys[kid] = key
	v.mu.Unlock()

	return key, nil
}

func jwkToECDSA(jwk WebhookKey) (*ecdsa.PublicKey, error) {
	if jwk.Kty != "EC" || jwk.Crv != "P-256" {
		return nil, fmt.Errorf("unsupported webhook key type %s/%s", jwk.Kty, jwk.Crv)
	}

	xBytes, err := base64.RawURLEncoding.DecodeString(jwk.X)
	if err != nil {
		return nil, fmt.Errorf("decode key x coordinate: %w", err)
	}
	yBytes, err := base64.RawURLEncoding.DecodeString(jwk.Y)
	if err != nil {
		return nil, fmt.Errorf("decode key y coordinate: %w", err)
	}

	return &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(xBytes),
		Y:     new(big.Int).SetBytes(yBytes),
	}, nil
}
