package provider

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type keySourceFunc func(ctx context.Context, keyID string) (WebhookKey, error)

func (f keySourceFunc) GetWebhookVerificationKey(ctx context.Context, keyID string) (WebhookKey, error) {
	return f(ctx, keyID)
}

func newSigningKey(t *testing.T, kid string) (*ecdsa.PrivateKey, WebhookKey) {
	t.Helper()

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	xb := make([]byte, 32)
	yb := make([]byte, 32)
	priv.PublicKey.X.FillBytes(xb)
	priv.PublicKey.Y.FillBytes(yb)

	jwk := WebhookKey{
		Alg: "ES256",
		Crv: "P-256",
		Kid: kid,
		Kty: "EC",
		Use: "sig",
		X:   base64.RawURLEncoding.EncodeToString(xb),
		Y:   base64.RawURLEncoding.EncodeToString(yb),
	}
	return priv, jwk
}

func signWebhook(t *testing.T, priv *ecdsa.PrivateKey, kid string, body []byte, issuedAt time.Time) string {
	t.Helper()

	digest := sha256.Sum256(body)
	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"iat":                 issuedAt.Unix(),
		"request_body_sha256": hex.EncodeToString(digest[:]),
	})
	token.Header["kid"] = kid

	signed, err := token.SignedString(priv)
	require.NoError(t, err)
	return signed
}

func staticKeySource(jwk WebhookKey) KeySource {
	return keySourceFunc(func(ctx context.Context, keyID string) (WebhookKey, error) {
		return jwk, nil
	})
}

// ── Verify ───────────────────────────────────────────────────────────────────

func TestVerify_Success(t *testing.T) {
	priv, jwk := newSigningKey(t, "kid-1")
	body := []byte(`{"webhook_type":"ITEM","webhook_code":"ERROR","item_id":"item-1"}`)
	signed := signWebhook(t, priv, "kid-1", body, time.Now())

	v := NewWebhookVerifier(staticKeySource(jwk))
	err := v.Verify(context.Background(), signed, body)

	require.NoError(t, err)
}

func TestVerify_BodyDigestMismatch(t *testing.T) {
	priv, jwk := newSigningKey(t, "kid-1")
	signed := signWebhook(t, priv, "kid-1", []byte(`{"item_id":"item-1"}`), time.Now())

	v := NewWebhookVerifier(staticKeySource(jwk))
	err := v.Verify(context.Background(), signed, []byte(`{"item_id":"tampered"}`))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWebhookVerification)
	assert.Contains(t, err.Error(), "digest mismatch")
}

func TestVerify_StaleToken(t *testing.T) {
	priv, jwk := newSigningKey(t, "kid-1")
	body := []byte(`{}`)
	signed := signWebhook(t, priv, "kid-1", body, time.Now().Add(-10*time.Minute))

	v := NewWebhookVerifier(staticKeySource(jwk))
	err := v.Verify(context.Background(), signed, body)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWebhookVerification)
}

func TestVerify_WrongAlgorithm(t *testing.T) {
	_, jwk := newSigningKey(t, "kid-1")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"iat": time.Now().Unix()})
	token.Header["kid"] = "kid-1"
	signed, err := token.SignedString([]byte("hmac-secret"))
	require.NoError(t, err)

	v := NewWebhookVerifier(staticKeySource(jwk))
	err = v.Verify(context.Background(), signed, []byte(`{}`))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWebhookVerification)
	assert.Contains(t, err.Error(), "unexpected signing algorithm")
}

func TestVerify_MissingKid(t *testing.T) {
	priv, jwk := newSigningKey(t, "kid-1")

	digest := sha256.Sum256([]byte(`{}`))
	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"iat":                 time.Now().Unix(),
		"request_body_sha256": hex.EncodeToString(digest[:]),
	})
	signed, err := token.SignedString(priv)
	require.NoError(t, err)

	v := NewWebhookVerifier(staticKeySource(jwk))
	err = v.Verify(context.Background(), signed, []byte(`{}`))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWebhookVerification)
	assert.Contains(t, err.Error(), "missing kid")
}

func TestVerify_ExpiredKey(t *testing.T) {
	priv, jwk := newSigningKey(t, "kid-1")
	jwk.ExpiredAt = time.Now().Add(-time.Hour).Unix()
	body := []byte(`{}`)
	signed := signWebhook(t, priv, "kid-1", body, time.Now())

	v := NewWebhookVerifier(staticKeySource(jwk))
	err := v.Verify(context.Background(), signed, body)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWebhookVerification)
	assert.Contains(t, err.Error(), "expired")
}

func TestVerify_SignedByDifferentKey(t *testing.T) {
	attacker, _ := newSigningKey(t, "kid-1")
	_, jwk := newSigningKey(t, "kid-1")
	body := []byte(`{}`)
	signed := signWebhook(t, attacker, "kid-1", body, time.Now())

	v := NewWebhookVerifier(staticKeySource(jwk))
	err := v.Verify(context.Background(), signed, body)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWebhookVerification)
}

func TestVerify_CachesKeyPerKid(t *testing.T) {
	priv, jwk := newSigningKey(t, "kid-1")
	body := []byte(`{}`)

	fetches := 0
	source := keySourceFunc(func(ctx context.Context, keyID string) (WebhookKey, error) {
		fetches++
		assert.Equal(t, "kid-1", keyID)
		return jwk, nil
	})

	v := NewWebhookVerifier(source)
	for i := 0; i < 3; i++ {
		signed := signWebhook(t, priv, "kid-1", body, time.Now())
		require.NoError(t, v.Verify(context.Background(), signed, body))
	}

	assert.Equal(t, 1, fetches)
}

func TestVerify_KeyFetchFailure(t *testing.T) {
	priv, _ := newSigningKey(t, "kid-1")
	body := []byte(`{}`)
	signed := signWebhook(t, priv, "kid-1", body, time.Now())

	source := keySourceFunc(func(ctx context.Context, keyID string) (WebhookKey, error) {
		return WebhookKey{}, assert.AnError
	})

	v := NewWebhookVerifier(source)
	err := v.Verify(context.Background(), signed, body)

	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}
