// Package auth реализует регистрацию и вход пользователей платформы.
package auth

import (
	"context"

	"github.com/magabrotheeeer/venture-connect/internal/apperr"
	"github.com/magabrotheeeer/venture-connect/internal/lib/jwt"
	"github.com/magabrotheeeer/venture-connect/internal/lib/password"
	"github.com/magabrotheeeer/venture-connect/internal/models"
)

// UserRepository — интерфейс репозитория пользователей для авторизации.
type UserRepository interface {
	RegisterUser(ctx context.Context, user models.User) (string, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService реализует бизнес-логику авторизации и аутентификации.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

func New(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя выбранного типа с хэшированием
// пароля и возвращает его uid. Стартапы получают стартовую квоту наджей.
func (s *AuthService) Register(ctx context.Context, req models.DummyRegister) (string, error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}
	user := models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hashed,
		UserType:     req.UserType,
	}
	if req.UserType == models.UserTypeStartup {
		user.NudgeLimit = models.DefaultNudgeLimit
	}
	return s.users.RegisterUser(ctx, user)
}

// Login проверяет пароль и генерирует JWT с username, типом
// пользователя и uid.
func (s *AuthService) Login(ctx context.Context, req models.DummyLogin) (token, userType, userUID string, err error) {
	user, err := s.users.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return "", "", "", err
	}
	if user.PasswordHash == "" {
		return "", "", "", apperr.Forbidden("password login is not enabled for this account")
	}
	if err := password.CompareHash(user.PasswordHash, req.Password); err != nil {
		return "", "", "", apperr.Forbidden("invalid credentials")
	}
	token, err = s.jwtMaker.GenerateToken(user.Username, user.UserType, user.UID)
	if err != nil {
		return "", "", "", err
	}
	return token, user.UserType, user.UID, nil
}
