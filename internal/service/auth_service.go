package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"go-pos-ws/internal/model"
	"go-pos-ws/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService interface {
	Authenticate(username, password string) (*model.User, error)
	Login(username, password string) (*LoginResponse, error)
	ValidateToken(tokenString string) (*TokenValidationResponse, error)
}

// Credential is a plain-text directory entry; it is hashed on load.
type Credential struct {
	Username string
	Password string
	Name     string
	Role     model.Role
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token    string             `json:"token"`
	User     model.UserResponse `json:"user"`
	Redirect string             `json:"redirect"`
}

type TokenValidationResponse struct {
	User     model.UserResponse `json:"user"`
	Redirect string             `json:"redirect"`
}

// DefaultCredentials is the staff directory shipped with the register.
func DefaultCredentials() []Credential {
	return []Credential{
		{Username: "admin", Password: "admin123", Name: "Administrador", Role: model.RoleAdmin},
		{Username: "mozo", Password: "mozo123", Name: "Mozo Principal", Role: model.RoleWaiter},
		{Username: "chef", Password: "chef123", Name: "Chef Principal", Role: model.RoleChef},
		{Username: "cajero", Password: "cajero123", Name: "Cajero Principal", Role: model.RoleCashier},
	}
}

type authService struct {
	users map[string]*model.User
	byID  map[int]*model.User
}

func NewAuthService(credentials []Credential) (AuthService, error) {
	s := &authService{
		users: make(map[string]*model.User, len(credentials)),
		byID:  make(map[int]*model.User, len(credentials)),
	}
	for i, c := range credentials {
		key := strings.ToLower(c.Username)
		if _, dup := s.users[key]; dup {
			return nil, fmt.Errorf("duplicate username %q", c.Username)
		}
		u := &model.User{ID: i + 1, Username: c.Username, Name: c.Name, Role: c.Role}
		if err := u.SetPassword(c.Password); err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", c.Username, err)
		}
		s.users[key] = u
		s.byID[u.ID] = u
	}
	log.Printf("Loaded %d staff accounts", len(s.users))
	return s, nil
}

func (s *authService) Authenticate(username, password string) (*model.User, error) {
	user, ok := s.users[strings.ToLower(strings.TrimSpace(username))]
	if !ok || !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *authService) Login(username, password string) (*LoginResponse, error) {
	user, err := s.Authenticate(username, password)
	if err != nil {
		return nil, err
	}

	token, err := jwt.GenerateToken(user.ID, user.Username, user.Name, string(user.Role))
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token:    token,
		User:     user.ToResponse(),
		Redirect: user.Role.LandingPath(),
	}, nil
}

func (s *authService) ValidateToken(tokenString string) (*TokenValidationResponse, error) {
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, ok := s.byID[claims.UserID]
	if !ok || user.Username != claims.Username {
		return nil, ErrUserNotFound
	}

	return &TokenValidationResponse{
		User:     user.ToResponse(),
		Redirect: user.Role.LandingPath(),
	}, nil
}
