package user

import (
	"database/sql"
	"errors"
	"fmt"

	"blog_api/internal/auth"
	"blog_api/internal/observability"
	"blog_api/internal/utils"

	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

type UserService struct {
	repo    UserRepositoryInterface
	db      *sql.DB
	metrics *observability.Metrics
}

type UserServiceInterface interface {
	CreateUser(username, password string) (int, error)
	LoginUser(username, password, jwtSecret string) (string, error)
}

func NewUserService(repo UserRepositoryInterface, db *sql.DB, metrics *observability.Metrics) UserServiceInterface {
	return &UserService{
		repo:    repo,
		db:      db,
		metrics: metrics,
	}
}

// CreateUser stores a user with a bcrypt-hashed password. Used for
// operator seeding only; the HTTP surface has no registration route.
func (s *UserService) CreateUser(username, password string) (int, error) {
	hashedPassword, err := auth.GeneratePasswordHash(password)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		Username: username,
		Password: hashedPassword,
	}

	var id int
	err = utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		id, err = s.repo.Create(tx, user)
		return err
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

// LoginUser checks the credentials and returns a signed token.
// Returns ErrUserNotFound, ErrInvalidCredentials, ErrTokenGeneration or a
// storage error.
func (s *UserService) LoginUser(username, password, jwtSecret string) (string, error) {
	user, err := s.repo.GetByUsername(s.db, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.metrics.ObserveLogin("unknown_user")
		} else {
			s.metrics.ObserveLogin("error")
		}
		return "", err
	}

	if err := auth.ComparePasswordHash([]byte(user.Password), password); err != nil {
		s.metrics.ObserveLogin("bad_password")
		return "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Username, jwtSecret)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("Failed to generate token")
		s.metrics.ObserveLogin("error")
		return "", fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	s.metrics.ObserveLogin("success")
	return token, nil
}
