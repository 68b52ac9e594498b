package user

import (
	"database/sql"
	"errors"
	"time"

	"blog_api/internal/observability"

	"github.com/sirupsen/logrus"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	metrics *observability.Metrics
}

type UserRepositoryInterface interface {
	Create(tx *sql.Tx, user *User) (int, error)
	GetByUsername(db *sql.DB, username string) (*User, error)
}

func NewUserRepository(metrics *observability.Metrics) UserRepositoryInterface {
	return &UserRepository{metrics: metrics}
}

// Create inserts a user whose Password already holds a bcrypt hash
func (r *UserRepository) Create(
	tx *sql.Tx,
	user *User,
) (int, error) {
	defer r.metrics.ObserveQuery("users_insert", time.Now())

	query := `
		INSERT INTO users (username, password)
		VALUES ($1, $2)
		RETURNING id
	`

	var id int
	err := tx.QueryRow(
		query,
		user.Username,
		user.Password,
	).Scan(&id)

	if err != nil {
		logrus.WithError(err).WithField("username", user.Username).Error("Failed to create user")
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  id,
		"username": user.Username,
	}).Info("User created successfully")

	return id, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(db *sql.DB, username string) (*User, error) {
	defer r.metrics.ObserveQuery("users_by_username", time.Now())

	query := `
		SELECT id, username, password
		FROM users
		WHERE username = $1
	`

	user := &User{}
	err := db.QueryRow(query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Password,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logrus.WithField("username", username).Warn("User not found")
			return nil, ErrUserNotFound
		}
		logrus.WithError(err).Error("Failed to get user by username")
		return nil, err
	}

	return user, nil
}
