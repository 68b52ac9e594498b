package post

import "time"

// Post.Username is a copy of the author's username, not a reference to users.id.
type Post struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Title     *string   `json:"title"`
	Content   *string   `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// FormattedPost is a Post whose created_at is rendered in the Jalali calendar.
type FormattedPost struct {
	ID        int     `json:"id"`
	Username  string  `json:"username"`
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	CreatedAt string  `json:"created_at"`
}

type CreatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}
