package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"conference-management-api/services"
)

// GetAuthorDashboard returns status counts over the author's own papers.
func GetAuthorDashboard(c *gin.Context) {
	p, ok := principalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	stats, err := services.AuthorDashboard(getDB(), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}

// GetReviewerDashboard returns status counts over assigned papers.
func GetReviewerDashboard(c *gin.Context) {
	p, ok := principalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	stats, err := services.ReviewerDashboard(getDB(), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}

// GetAdminDashboard returns status counts over all papers plus the number of
// submitted reviews still awaiting a verdict.
func GetAdminDashboard(c *gin.Context) {
	stats, pendingReviews, err := services.AdminDashboard(getDB())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"stats":           stats,
		"pending_reviews": pendingReviews,
	})
}
