package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"milano/entity"
	"milano/pkg/apperr"
	"milano/pkg/logger"
	"milano/repository"
	"milano/utils"

	"golang.org/x/crypto/bcrypt"
)

// AuthService handles register, login and profile for customers and admins.
type AuthService struct {
	users     repository.UserStore
	jwtSecret string
	jwtTTL    time.Duration

	// bcrypt cost; tests lower it
	Cost int
	Now  func() time.Time
}

func NewAuthService(users repository.UserStore, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: secret,
		jwtTTL:    ttl,
		Cost:      bcrypt.DefaultCost,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

type RegisterReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterReq) (*entity.User, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || req.Password == "" || name == "" {
		return nil, apperr.Validation("email, password and name are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Validation("invalid email")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.Cost)
	if err != nil {
		return nil, errors.New("hash password failed")
	}

	user := &entity.User{
		Email:    email,
		Password: string(hashed),
		Name:     name,
		Phone:    strings.TrimSpace(req.Phone),
		Address:  strings.TrimSpace(req.Address),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("email already registered")
		}
		return nil, apperr.Unavailable(err, "could not create user")
	}
	logger.FromContext(ctx).WithField("user", user.ID).Info("user registered")
	return user, nil
}

// Login checks the credentials and issues a JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *entity.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, apperr.Validation("email and password are required")
	}
	user, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, apperr.Auth("invalid credentials")
	}
	if err != nil {
		return "", nil, apperr.Unavailable(err, "could not load user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, apperr.Auth("invalid credentials")
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role(), s.jwtSecret, s.jwtTTL)
	if err != nil {
		return "", nil, errors.New("cannot generate token")
	}
	return token, user, nil
}

func (s *AuthService) Profile(ctx context.Context, userID uint) (*entity.User, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("user %d not found", userID)
	}
	if err != nil {
		return nil, apperr.Unavailable(err, "could not load user")
	}
	return user, nil
}

type UpdateProfileReq struct {
	UserID  uint    `json:"userId"`
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

func (s *AuthService) UpdateProfile(ctx context.Context, req UpdateProfileReq) (*entity.User, error) {
	if req.UserID == 0 {
		return nil, apperr.Validation("userId is required")
	}
	upd := repository.UserUpdate{Phone: req.Phone, Address: req.Address}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.Validation("name must not be empty")
		}
		upd.Name = &name
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, apperr.Validation("invalid email")
		}
		upd.Email = &email
	}

	err := s.users.UpdateUser(ctx, req.UserID, upd, s.Now())
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, apperr.NotFound("user %d not found", req.UserID)
	case errors.Is(err, repository.ErrDuplicate):
		return nil, apperr.Conflict("email already registered")
	case err != nil:
		return nil, apperr.Unavailable(err, "could not update user")
	}
	return s.Profile(ctx, req.UserID)
}

// IsAdmin reports whether email belongs to an admin. Unknown emails are not.
func (s *AuthService) IsAdmin(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, apperr.Validation("email is required")
	}
	user, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperr.Unavailable(err, "could not load user")
	}
	return user.IsAdmin, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]entity.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, apperr.Unavailable(err, "could not list users")
	}
	return users, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
