package auth

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"wiki-echo/internal/config"
	"wiki-echo/internal/domain"
	"wiki-echo/internal/repository"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Service validates the bearer tokens the wiki issues for its users.
type Service interface {
	ValidateAccessToken(token string) (*Claims, error)
	IssueToken(user *domain.User, ttl time.Duration) (string, error)
	ResolveUser(ctx context.Context, claims *Claims) (*domain.User, error)
}

type Claims struct {
	UserID int64    `json:"user_id"`
	Name   string   `json:"name"`
	Groups []string `json:"groups,omitempty"`
	jwt.RegisteredClaims
}

type service struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

func NewService(userRepo repository.UserRepository, cfg *config.Config) Service {
	return &service{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

func (s *service) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *service) IssueToken(user *domain.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Name:   user.Name,
		Groups: user.GroupList(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   strconv.FormatInt(user.ID, 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ResolveUser loads the mirrored account. Users the wiki has not synced yet
// are built from the token so they can still read their notifications.
func (s *service) ResolveUser(ctx context.Context, claims *Claims) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &domain.User{
			ID:     claims.UserID,
			Name:   claims.Name,
			Groups: strings.Join(claims.Groups, ","),
		}, nil
	}
	// Group membership in the token is authoritative.
	if len(claims.Groups) > 0 {
		user.Groups = strings.Join(claims.Groups, ",")
	}
	return user, nil
}
