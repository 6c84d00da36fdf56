package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the acting user's role within a client namespace.
type Role string

const (
	RoleOwner      Role = "owner"
	RoleSupervisor Role = "supervisor"
)

// Valid reports whether the role is known.
func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleSupervisor
}

// Session identifies the active client namespace and the acting role.
// It is passed explicitly to every core operation; there is no global
// current-namespace state.
type Session struct {
	Namespace string
	Role      Role
}

// LoginRequest holds credentials for establishing a session. Supervisors
// log in with the client id alone; owners must supply the owner password.
type LoginRequest struct {
	ClientID string `json:"client_id" validate:"required"`
	Role     Role   `json:"role" validate:"required,oneof=owner supervisor"`
	Password string `json:"password"`
}

// LoginResponse returns the issued token and client info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	ClientID    string    `json:"client_id"`
	ClientName  string    `json:"client_name"`
	Role        Role      `json:"role"`
	IssuedAt    time.Time `json:"issued_at"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	ClientID string `json:"client_id"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}

// Session derives the store session from the token claims.
func (c *JWTClaims) Session() Session {
	return Session{Namespace: c.ClientID, Role: c.Role}
}
