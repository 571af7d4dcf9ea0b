package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"factoryfloor/internal/domain"
)

var ErrInvalidCredentials = domain.Unauthorizedf("Invalid Credentials.")

type Service struct {
	users UserRepository
	jwt   TokenIssuer
	log   *zap.Logger
}

type LoginResult struct {
	User  *domain.User
	Token string
}

func NewService(users UserRepository, jwt TokenIssuer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{users: users, jwt: jwt, log: log}
}

// Login checks the password and issues a session token. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Info("login failed", zap.String("username", username), zap.String("reason", "unknown user"))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Info("login failed", zap.String("username", username), zap.String("reason", "bad password"))
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.Username, string(user.Role))
	if err != nil {
		return nil, err
	}
	s.log.Info("login", zap.String("username", user.Username), zap.String("role", string(user.Role)))
	return &LoginResult{User: user, Token: token}, nil
}

// HashPassword returns the bcrypt hash stored for a password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
