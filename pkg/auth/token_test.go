package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kioskoapp/kiosko-backend/pkg/config"
	"github.com/kioskoapp/kiosko-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "kiosko-test", ExpirationMinutes: 15}
}

func mintToken(t *testing.T, cfg config.JWTConfig, claims AccessTokenClaims) string {
	t.Helper()
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(15 * time.Minute)),
		ID:        uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwtSigningMethod, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return signed
}

func TestParseAccessTokenRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	concessionID := uuid.New()
	token := mintToken(t, cfg, AccessTokenClaims{
		UserID:       uuid.New(),
		ConcessionID: &concessionID,
		Role:         enums.ActorRoleConcessionaire,
	})

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if claims.Role != enums.ActorRoleConcessionaire {
		t.Fatalf("unexpected role %q", claims.Role)
	}
	if claims.ConcessionID == nil || *claims.ConcessionID != concessionID {
		t.Fatalf("concession id not preserved")
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	token := mintToken(t, cfg, AccessTokenClaims{UserID: uuid.New(), Role: enums.ActorRoleCustomer})

	bad := cfg
	bad.Secret = "other-secret"
	if _, err := ParseAccessToken(bad, token); err == nil {
		t.Fatal("expected signature validation to fail")
	}
}

func TestParseAccessTokenRejectsUnknownRole(t *testing.T) {
	cfg := testJWTConfig()
	token := mintToken(t, cfg, AccessTokenClaims{UserID: uuid.New(), Role: "intruder"})

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected role validation to fail")
	}
}
