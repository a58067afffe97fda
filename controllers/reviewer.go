package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"conference-management-api/services"
)

// GetAssignedPapers lists the papers the authenticated reviewer is assigned to.
func GetAssignedPapers(c *gin.Context) {
	p, ok := principalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	papers, err := services.PapersAssignedTo(getDB(), p.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch papers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"papers":  papers,
		"total":   len(papers),
	})
}

// SubmitReview accepts the reviewer's evaluation of an assigned paper:
// comments, recommendation, score 1-5 and an optional PDF review file.
// Sent as multipart to allow the attachment; the file part may be omitted.
func SubmitReview(c *gin.Context) {
	p, ok := principalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	paperID, err := strconv.Atoi(c.PostForm("paper_id"))
	if err != nil || paperID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paper_id is required"})
		return
	}
	score, err := strconv.Atoi(c.PostForm("score"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "score is required"})
		return
	}

	in := services.SubmitReviewInput{
		PaperID:        paperID,
		Comments:       c.PostForm("comments"),
		Recommendation: c.PostForm("recommendation"),
		Score:          score,
	}

	if _, err := c.FormFile("file"); err == nil {
		file, err := savePDFUpload(c, "file", p.UserID, "reviews")
		if err != nil {
			respondError(c, err)
			return
		}
		in.File = file
	}

	review, err := services.SubmitReview(getDB(), p, in, time.Now())
	if err != nil {
		removeStoredFile(in.File)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"review":  review,
		"message": "Review submitted successfully",
	})
}
