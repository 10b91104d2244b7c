package model

import "github.com/golang-jwt/jwt/v5"

// UserClaims are the JWT claims carried by a session token. The core only
// ever consumes the resolved UserID; the rest decorates responses.
type UserClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Admin  bool   `json:"admin"`
	jwt.RegisteredClaims
}

// LoginRequest is the body for POST /v1/auth/login.
type LoginRequest struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"givenName,omitempty"`
	FamilyName string `json:"familyName,omitempty"`
}

// LoginResponse returns the session token and the stored user record.
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
