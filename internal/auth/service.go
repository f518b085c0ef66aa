package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/coinboard/backend/internal/models"
	"github.com/coinboard/backend/internal/services"
)

// ErrDuplicateHandle is returned when registering a handle that is taken.
var ErrDuplicateHandle = services.ErrDuplicateHandle

// ErrInvalidCredentials is returned for unknown handles and wrong passwords.
var ErrInvalidCredentials = errors.New("invalid credentials")

type Service interface {
	Register(handle, password, displayName string) (models.Account, error)
	Login(handle, password string) (string, error)
	ValidateToken(token string) (uuid.UUID, error)
}

type service struct {
	engine      *services.Engine
	secret      []byte
	signupGrant int
}

// NewService wires identity on top of the marketplace engine. signupGrant is
// the starting balance every new account receives.
func NewService(engine *services.Engine, secret string, signupGrant int) *service {
	return &service{engine: engine, secret: []byte(secret), signupGrant: signupGrant}
}

var _ Service = (*service)(nil)

type claims struct {
	jwt.RegisteredClaims
}

// avatarRef derives a stable avatar reference from the handle.
func avatarRef(handle string) string {
	sum := sha256.Sum256([]byte(handle))
	return fmt.Sprintf("avatars/%s.png", hex.EncodeToString(sum[:6]))
}

func (s *service) Register(handle, password, displayName string) (models.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Account{}, err
	}
	return s.engine.CreateAccount(handle, displayName, string(hash), avatarRef(handle), s.signupGrant, false)
}

func (s *service) Login(handle, password string) (string, error) {
	acc, err := s.engine.GetAccountByHandle(handle)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.issueToken(acc.ID)
}

func (s *service) issueToken(accountID uuid.UUID) (string, error) {
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return tok.SignedString(s.secret)
}

func (s *service) ValidateToken(token string) (uuid.UUID, error) {
	tok, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	c, ok := tok.Claims.(*claims)
	if !ok || !tok.Valid {
		return uuid.Nil, errors.New("invalid token")
	}
	return uuid.Parse(c.Subject)
}
