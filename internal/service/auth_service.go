package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Marga-Ghale/ora-projects/internal/config"
	"github.com/Marga-Ghale/ora-projects/internal/db"
	"github.com/Marga-Ghale/ora-projects/internal/repository"
	"github.com/Marga-Ghale/ora-projects/internal/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ============================================
// Auth Service
// ============================================

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*repository.User, string, string, error)
	Login(ctx context.Context, email, password string) (*repository.User, string, string, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, string, error)
	// Logout revokes the refresh token and, when claims are given, the access token they came from.
	Logout(ctx context.Context, refreshToken string, claims *jwt.RegisteredClaims) error
	// LogoutAll revokes every refresh token of the claims' subject and the access token itself.
	LogoutAll(ctx context.Context, claims *jwt.RegisteredClaims) error
	ValidateToken(ctx context.Context, token string) (*jwt.RegisteredClaims, error)
}

type authService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
	users    UserService
	sessions *db.RedisDB
}

// NewAuthService creates the auth service. sessions may be nil, in which case access
// tokens stay valid until they expire.
func NewAuthService(cfg *config.Config, userRepo repository.UserRepository, users UserService, sessions *db.RedisDB) AuthService {
	return &authService{cfg: cfg, userRepo: userRepo, users: users, sessions: sessions}
}

func revokedKey(jti string) string {
	return "revoked:" + jti
}

func (s *authService) Register(ctx context.Context, name, email, password string) (*repository.User, string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", "", storeFailure("find user by email", err)
	}
	if existingUser != nil {
		return nil, "", "", ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &repository.User{
		Name:     strings.TrimSpace(name),
		Email:    email,
		Password: string(hashedPassword),
		Status:   types.UserOnline,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", "", storeFailure("create user", err)
	}
	s.users.InvalidateDirectory(ctx)

	accessToken, refreshToken, err := s.generateTokens(ctx, user.ID)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to generate tokens: %w", err)
	}

	log.Printf("[Auth] ✅ Registered user %s", user.ID)
	return user, accessToken, refreshToken, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*repository.User, string, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, "", "", storeFailure("find user by email", err)
	}
	if user == nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastActive(ctx, user.ID); err != nil {
		log.Printf("[Auth] ⚠️ Failed to update last active for %s: %v", user.ID, err)
	}
	user.Status = types.UserOnline

	accessToken, refreshToken, err := s.generateTokens(ctx, user.ID)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to generate tokens: %w", err)
	}

	return user, accessToken, refreshToken, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, string, error) {
	rt, err := s.userRepo.FindRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", "", storeFailure("find refresh token", err)
	}
	if rt == nil {
		return "", "", ErrInvalidToken
	}

	// Refresh tokens are single use.
	if err := s.userRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return "", "", storeFailure("delete refresh token", err)
	}
	if time.Now().After(rt.ExpiresAt) {
		return "", "", ErrInvalidToken
	}

	if err := s.userRepo.UpdateLastActive(ctx, rt.UserID); err != nil {
		log.Printf("[Auth] ⚠️ Failed to update last active for %s: %v", rt.UserID, err)
	}

	accessToken, newRefreshToken, err := s.generateTokens(ctx, rt.UserID)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate tokens: %w", err)
	}

	return accessToken, newRefreshToken, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string, claims *jwt.RegisteredClaims) error {
	if refreshToken != "" {
		if err := s.userRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
			return storeFailure("delete refresh token", err)
		}
	}

	return s.revokeAccessToken(ctx, claims)
}

func (s *authService) LogoutAll(ctx context.Context, claims *jwt.RegisteredClaims) error {
	if claims == nil || claims.Subject == "" {
		return ErrUnauthorized
	}
	if err := s.userRepo.DeleteUserRefreshTokens(ctx, claims.Subject); err != nil {
		return storeFailure("delete user refresh tokens", err)
	}
	if user, err := s.userRepo.FindByID(ctx, claims.Subject); err == nil && user != nil {
		user.Status = types.UserOffline
		if err := s.userRepo.Update(ctx, user); err != nil {
			log.Printf("[Auth] ⚠️ Failed to mark %s offline: %v", user.ID, err)
		}
	}
	log.Printf("[Auth] 🔒 Revoked all sessions for user %s", claims.Subject)
	return s.revokeAccessToken(ctx, claims)
}

// revokeAccessToken deny-lists the token's jti until it would have expired anyway.
func (s *authService) revokeAccessToken(ctx context.Context, claims *jwt.RegisteredClaims) error {
	if s.sessions == nil || claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.sessions.SetSession(ctx, revokedKey(claims.ID), claims.Subject, ttl); err != nil {
		return fmt.Errorf("failed to revoke access token: %w", err)
	}
	return nil
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	if s.sessions != nil && claims.ID != "" {
		revoked, err := s.sessions.HasSession(ctx, revokedKey(claims.ID))
		if err != nil {
			// Fail open: the token is accepted when the deny-list is unreachable.
			log.Printf("[Auth] ⚠️ Revocation check failed: %v", err)
		} else if revoked {
			return nil, ErrInvalidToken
		}
	}

	return claims, nil
}

func (s *authService) generateTokens(ctx context.Context, userID string) (string, string, error) {
	now := time.Now()
	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.New().String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour * time.Duration(s.cfg.JWTExpiry))),
	})

	accessTokenString, err := accessToken.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", "", err
	}

	rt := &repository.RefreshToken{
		Token:     uuid.New().String(),
		UserID:    userID,
		ExpiresAt: now.Add(time.Hour * 24 * time.Duration(s.cfg.RefreshExpiry)),
	}

	if err := s.userRepo.SaveRefreshToken(ctx, rt); err != nil {
		return "", "", storeFailure("save refresh token", err)
	}

	return accessTokenString, rt.Token, nil
}
