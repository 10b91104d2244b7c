package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"dailyquiz/internal/model"
	"dailyquiz/internal/repository"
)

// ErrInvalidToken is returned for unparseable or expired session tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// AuthService is the identity shim: it issues and validates session tokens
// and keeps the user directory current. The lifecycle and analytics engines
// never call it; they only consume the user ID it resolved.
type AuthService struct {
	userRepo   repository.UserRepo
	jwtSecret  []byte
	adminEmail string
	tokenTTL   time.Duration
}

// NewAuthService creates a new auth service. adminEmail names the operator
// account that receives analytics access.
func NewAuthService(userRepo repository.UserRepo, jwtSecret, adminEmail string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		adminEmail: strings.ToLower(adminEmail),
		tokenTTL:   30 * 24 * time.Hour,
	}
}

// Login upserts the caller's directory record and returns a session token.
// The user ID is derived deterministically from the email so repeat logins
// resolve to the same stable identifier.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	var problems []string
	if req.Email == "" {
		problems = append(problems, "email is required")
	} else if !strings.Contains(req.Email, "@") {
		problems = append(problems, "invalid email format")
	}
	if req.Name == "" {
		problems = append(problems, "name is required")
	}
	if len(problems) > 0 {
		return nil, &model.ValidationError{Problems: problems}
	}

	email := strings.ToLower(req.Email)
	userID := "user_" + uuid.NewSHA1(uuid.NameSpaceOID, []byte(email)).String()

	user := &model.User{
		UserID:     userID,
		Email:      email,
		Name:       req.Name,
		GivenName:  req.GivenName,
		FamilyName: req.FamilyName,
	}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}

	claims := &model.UserClaims{
		UserID: userID,
		Email:  email,
		Name:   req.Name,
		Admin:  s.adminEmail != "" && email == s.adminEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{Token: signed, User: user}, nil
}

// ValidateToken parses a session JWT and returns its claims.
func (s *AuthService) ValidateToken(tokenString string) (*model.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
