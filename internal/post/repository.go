package post

import (
	"database/sql"
	"time"

	"blog_api/internal/observability"

	"github.com/sirupsen/logrus"
)

type PostRepository struct {
	metrics *observability.Metrics
}

type PostRepositoryInterface interface {
	Create(db *sql.DB, post *Post) error
	GetAll(db *sql.DB) ([]*Post, error)
	GetByUsername(db *sql.DB, username string) ([]*Post, error)
}

func NewPostRepository(metrics *observability.Metrics) PostRepositoryInterface {
	return &PostRepository{metrics: metrics}
}

// Create inserts a post; created_at is assigned by the column default
func (r *PostRepository) Create(db *sql.DB, post *Post) error {
	defer r.metrics.ObserveQuery("posts_insert", time.Now())

	query := `
		INSERT INTO posts (username, title, content)
		VALUES ($1, $2, $3)
	`

	if _, err := db.Exec(query, post.Username, post.Title, post.Content); err != nil {
		logrus.WithError(err).WithField("username", post.Username).Error("Failed to create post")
		return err
	}

	logrus.WithField("username", post.Username).Info("Post created successfully")
	return nil
}

// GetAll returns every post, newest first
func (r *PostRepository) GetAll(db *sql.DB) ([]*Post, error) {
	defer r.metrics.ObserveQuery("posts_list", time.Now())

	query := `
		SELECT id, username, title, content, created_at
		FROM posts
		ORDER BY created_at DESC, id DESC
	`

	rows, err := db.Query(query)
	if err != nil {
		logrus.WithError(err).Error("Failed to list posts")
		return nil, err
	}
	defer rows.Close()

	return scanPosts(rows)
}

// GetByUsername returns the posts written by username, newest first
func (r *PostRepository) GetByUsername(db *sql.DB, username string) ([]*Post, error) {
	defer r.metrics.ObserveQuery("posts_by_username", time.Now())

	query := `
		SELECT id, username, title, content, created_at
		FROM posts
		WHERE username = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := db.Query(query, username)
	if err != nil {
		logrus.WithError(err).WithField("username", username).Error("Failed to list posts by username")
		return nil, err
	}
	defer rows.Close()

	return scanPosts(rows)
}

func scanPosts(rows *sql.Rows) ([]*Post, error) {
	posts := make([]*Post, 0)

	for rows.Next() {
		var p Post
		err := rows.Scan(
			&p.ID,
			&p.Username,
			&p.Title,
			&p.Content,
			&p.CreatedAt,
		)
		if err != nil {
			logrus.WithError(err).Error("Error scanning post row")
			return nil, err
		}
		posts = append(posts, &p)
	}

	if err := rows.Err(); err != nil {
		logrus.WithError(err).Error("Error iterating post rows")
		return nil, err
	}

	return posts, nil
}
