package post

import (
	"net/http"

	"blog_api/internal/auth"
	"blog_api/internal/utils"

	"github.com/gin-gonic/gin"
)

type PostController struct {
	service PostServiceInterface
}

func NewPostController(service PostServiceInterface) *PostController {
	return &PostController{
		service: service,
	}
}

// CreatePost stores a post authored by the authenticated user
func (pc *PostController) CreatePost(c *gin.Context) {
	claims, err := auth.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Access Denied"})
		return
	}

	var req CreatePostRequest
	if err := utils.BindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := pc.service.CreatePost(claims.Username, req.Title, req.Content); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Post created successfully!"})
}

// GetPosts lists every post, newest first
func (pc *PostController) GetPosts(c *gin.Context) {
	posts, err := pc.service.GetPosts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, posts)
}

// GetMyPosts lists the authenticated user's posts
func (pc *PostController) GetMyPosts(c *gin.Context) {
	claims, err := auth.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Access Denied"})
		return
	}

	posts, err := pc.service.GetPostsByUser(claims.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, posts)
}
