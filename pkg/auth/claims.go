package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kioskoapp/kiosko-backend/pkg/enums"
)

// AccessTokenClaims represents the typed JWT issued to clients by the
// identity service. This backend only reads tokens; minting and refresh live
// with the auth collaborator.
type AccessTokenClaims struct {
	UserID       uuid.UUID       `json:"user_id"`
	ConcessionID *uuid.UUID      `json:"concession_id,omitempty"`
	Role         enums.ActorRole `json:"role"`
	jwt.RegisteredClaims
}
