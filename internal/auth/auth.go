// server/internal/auth/auth.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"lmis-mock-server/config"
	"lmis-mock-server/internal/apperror"
	"lmis-mock-server/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const TokenType = "bearer"

var (
	ErrBadCredentials = errors.New("bad credentials")
	ErrInvalidToken   = errors.New("invalid token")
)

// JWTClaims defines the payload for the access token.
type JWTClaims struct {
	Username            string `json:"user_name"`
	Role                string `json:"role"`
	ReferenceDataUserID string `json:"referenceDataUserId"`
	jwt.RegisteredClaims
}

// Identity is the caller resolved from a bearer token.
type Identity struct {
	UserID   string
	Username string
	Role     string
}

// Token is the OAuth2 password-grant response.
type Token struct {
	AccessToken         string `json:"access_token"`
	TokenType           string `json:"token_type"`
	ExpiresIn           int    `json:"expires_in"`
	RefreshToken        string `json:"refresh_token"`
	ReferenceDataUserID string `json:"referenceDataUserId"`
}

// Hashing
func HashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Service authenticates the seeded users and issues access tokens.
// The user set is fixed after construction.
type Service struct {
	users  []models.User
	hashes map[string]string
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService hashes every seeded password once, so plain fixture values are
// never compared directly.
func NewService(users []models.User, cfg config.AuthConfig) (*Service, error) {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	s := &Service{
		users:  make([]models.User, 0, len(users)),
		hashes: make(map[string]string, len(users)),
		secret: []byte(cfg.JWTSecret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, u := range users {
		hash, err := HashPassword(u.Password, cost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password for %s: %w", u.Username, err)
		}
		s.hashes[u.ID] = hash
		s.users = append(s.users, u.Public())
	}
	return s, nil
}

// Authenticate checks username and password against the seeded users.
func (s *Service) Authenticate(username, password string) (models.User, error) {
	for _, u := range s.users {
		if u.Username == username && CheckPasswordHash(password, s.hashes[u.ID]) {
			return u, nil
		}
	}
	return models.User{}, ErrBadCredentials
}

// Login authenticates and issues a token in one step.
func (s *Service) Login(username, password string) (Token, error) {
	user, err := s.Authenticate(username, password)
	if err != nil {
		return Token{}, err
	}
	return s.IssueToken(user)
}

func (s *Service) IssueToken(user models.User) (Token, error) {
	now := s.now()
	claims := &JWTClaims{
		Username:            user.Username,
		Role:                user.Role,
		ReferenceDataUserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Token{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return Token{
		AccessToken:         signed,
		TokenType:           TokenType,
		ExpiresIn:           int(s.ttl.Seconds()),
		RefreshToken:        uuid.New().String(),
		ReferenceDataUserID: user.ID,
	}, nil
}

// Resolve validates an access token and returns its identity.
func (s *Service) Resolve(tokenString string) (Identity, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	return Identity{
		UserID:   claims.ReferenceDataUserID,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}

// Users returns every user without credentials.
func (s *Service) Users() []models.User {
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

func (s *Service) User(id string) (models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, apperror.NotFound("User")
}
