package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrInvalidClaim = errors.New("invalid claims")
)

const (
	audienceSession = "session"
	audienceBlob    = "blob"
)

type Service struct {
	jwtSecret string
	now       func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now for both issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(jwtSecret string, opts ...Option) *Service {
	s := &Service{jwtSecret: jwtSecret, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// BlobClaims authorise a single payload download.
type BlobClaims struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

func (s *Service) GenerateJWT(userID, email string, expiresIn time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Audience:  jwt.ClaimStrings{audienceSession},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	}

	return s.sign(claims)
}

func (s *Service) ValidateToken(tokenStr string) (*Claims, error) {
	claims := new(Claims)
	if err := s.parse(tokenStr, claims, audienceSession); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, ErrInvalidClaim
	}
	return claims, nil
}

// GenerateBlobToken signs a download grant. A non-positive ttl yields a
// grant without expiry.
func (s *Service) GenerateBlobToken(key, name string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := BlobClaims{
		Key:  key,
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience: jwt.ClaimStrings{audienceBlob},
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	return s.sign(claims)
}

func (s *Service) ValidateBlobToken(tokenStr string) (*BlobClaims, error) {
	claims := new(BlobClaims)
	if err := s.parse(tokenStr, claims, audienceBlob); err != nil {
		return nil, err
	}
	if claims.Key == "" {
		return nil, ErrInvalidClaim
	}
	return claims, nil
}

func (s *Service) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *Service) parse(tokenStr string, claims jwt.Claims, audience string) error {
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpiredToken
		}
		return ErrInvalidToken
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
