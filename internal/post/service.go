package post

import (
	"database/sql"

	"blog_api/internal/calendar"
	"blog_api/internal/observability"
)

type PostServiceInterface interface {
	CreatePost(username string, title, content *string) error
	GetPosts() ([]*Post, error)
	GetPostsByUser(username string) ([]*FormattedPost, error)
}

type PostService struct {
	repo      PostRepositoryInterface
	DB        *sql.DB
	formatter *calendar.Formatter
	metrics   *observability.Metrics
}

func NewPostService(repo PostRepositoryInterface, db *sql.DB, formatter *calendar.Formatter, metrics *observability.Metrics) PostServiceInterface {
	return &PostService{
		repo:      repo,
		DB:        db,
		formatter: formatter,
		metrics:   metrics,
	}
}

// CreatePost stores title and content as given; nil values become NULL.
func (s *PostService) CreatePost(username string, title, content *string) error {
	post := &Post{
		Username: username,
		Title:    title,
		Content:  content,
	}

	if err := s.repo.Create(s.DB, post); err != nil {
		return err
	}

	s.metrics.ObservePostCreated()
	return nil
}

func (s *PostService) GetPosts() ([]*Post, error) {
	return s.repo.GetAll(s.DB)
}

// GetPostsByUser returns username's posts with created_at in Jalali form.
func (s *PostService) GetPostsByUser(username string) ([]*FormattedPost, error) {
	posts, err := s.repo.GetByUsername(s.DB, username)
	if err != nil {
		return nil, err
	}

	formatted := make([]*FormattedPost, 0, len(posts))
	for _, p := range posts {
		formatted = append(formatted, &FormattedPost{
			ID:        p.ID,
			Username:  p.Username,
			Title:     p.Title,
			Content:   p.Content,
			CreatedAt: s.formatter.Format(p.CreatedAt),
		})
	}

	return formatted, nil
}
