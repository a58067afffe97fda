package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"conference-management-api/models"
	"conference-management-api/utils"
)

var postCategories = map[string]bool{
	"news":            true,
	"call_for_papers": true,
	"event":           true,
	"general":         true,
}

type CreatePostRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Tags        string `json:"tags"`
	Featured    bool   `json:"featured"`
}

// CreatePost publishes an announcement/news item.
func CreatePost(c *gin.Context) {
	p, ok := principalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := req.Category
	if category == "" {
		category = "general"
	}
	if !postCategories[category] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}

	now := time.Now()
	post := models.Post{
		AuthorID:    p.UserID,
		Title:       utils.SanitizeInput(req.Title),
		Category:    category,
		Featured:    req.Featured,
		PublishedAt: &now,
		CreateAt:    now,
		UpdateAt:    now,
	}
	if req.Description != "" {
		description := utils.SanitizeInput(req.Description)
		post.Description = &description
	}
	if req.Tags != "" {
		tags := utils.SanitizeInput(req.Tags)
		post.Tags = &tags
	}

	if err := getDB().Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"post":    post,
	})
}

// GetPosts lists published posts, featured first.
func GetPosts(c *gin.Context) {
	query := getDB().Preload("Author").Where("published_at IS NOT NULL")
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var posts []models.Post
	if err := query.Order("featured DESC, published_at DESC").Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"posts":   posts,
		"total":   len(posts),
	})
}

// GetPost returns one post by id.
func GetPost(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil || postID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var post models.Post
	if err := getDB().Preload("Author").First(&post, "post_id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"post":    post,
	})
}
