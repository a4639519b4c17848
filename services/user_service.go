package services

import (
	"context"
	"errors"
	"time"

	"goaltracker/models"
	repository "goaltracker/repositories"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Claims are the JWT claims attached to issued tokens.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	// Login verifies credentials and returns a signed bearer token.
	Login(ctx context.Context, username, password string) (string, error)
	ListUsernames(ctx context.Context) ([]string, error)
	// ResolveTier looks the account up fresh so a tier change takes
	// effect on the caller's very next request.
	ResolveTier(ctx context.Context, username string) (string, error)
}

type userService struct {
	users     repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewUserService(users repository.UserRepository, jwtSecret string) UserService {
	return &userService{
		users:     users,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  24 * time.Hour,
	}
}

func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	count, err := s.users.CountByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	tier := req.Tier
	if tier == "" {
		tier = models.TierStandard
	}

	now := time.Now().UTC()
	user := &models.User{
		Username:  req.Username,
		Password:  string(hash),
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Tier:      tier,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	claims := &Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *userService) ListUsernames(ctx context.Context) ([]string, error) {
	return s.users.ListUsernames(ctx)
}

func (s *userService) ResolveTier(ctx context.Context, username string) (string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		// A token for a since-deleted account throttles as standard.
		return models.TierStandard, nil
	}
	if err != nil {
		return "", err
	}
	if user.Tier == models.TierPremium {
		return models.TierPremium, nil
	}

	return models.TierStandard, nil
}
