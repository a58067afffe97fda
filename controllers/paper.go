package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"conference-management-api/models"
	"conference-management-api/services"
)

// SubmitPaper accepts a multipart submission: title, abstract, conference_id
// and a PDF file. The deadline is checked before the file touches disk; the
// stored file is removed again if the paper cannot be created.
func SubmitPaper(c *gin.Context) {
	p, ok := principalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	title := c.PostForm("title")
	abstract := c.PostForm("abstract")
	conferenceID, err := strconv.Atoi(c.PostForm("conference_id"))
	if title == "" || abstract == "" || err != nil || conferenceID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, abstract and conference_id are required"})
		return
	}

	now := time.Now()
	if _, err := services.GetOpenConference(getDB(), conferenceID, now); err != nil {
		respondError(c, err)
		return
	}

	file, err := savePDFUpload(c, "file", p.UserID, "papers")
	if err != nil {
		respondError(c, err)
		return
	}

	paper, err := services.SubmitPaper(getDB(), p, services.SubmitPaperInput{
		Title:        title,
		Abstract:     abstract,
		ConferenceID: conferenceID,
		File:         *file,
	}, now)
	if err != nil {
		removeStoredFile(file)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"paper_id": paper.PaperID,
		"paper":    paper,
		"message":  "Paper submitted successfully",
	})
}

// ResubmitPaper accepts a new PDF plus optional feedback for a paper that was
// sent back for resubmission.
func ResubmitPaper(c *gin.Context) {
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

	file, err := savePDFUpload(c, "file", p.UserID, "papers")
	if err != nil {
		respondError(c, err)
		return
	}

	paper, err := services.ResubmitPaper(getDB(), p, services.ResubmitPaperInput{
		PaperID:  paperID,
		Feedback: c.PostForm("feedback"),
		File:     *file,
	}, time.Now())
	if err != nil {
		removeStoredFile(file)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"paper":   paper,
		"message": "Paper resubmitted successfully",
	})
}

// GetMyPapers lists the authenticated author's papers with reviewers and
// reviews populated.
func GetMyPapers(c *gin.Context) {
	p, ok := principalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var papers []models.Paper
	err := getDB().Preload("Conference").Preload("Reviewers").Preload("Reviews").Preload("Versions").
		Where("author_id = ?", p.UserID).
		Order("submitted_at DESC").Find(&papers).Error
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

// GetPaper returns one paper. Authors only see their own; admins see all.
func GetPaper(c *gin.Context) {
	p, ok := principalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	paperID, err := strconv.Atoi(c.Param("id"))
	if err != nil || paperID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid paper ID"})
		return
	}

	var paper models.Paper
	err = getDB().Preload("Author").Preload("Conference").
		Preload("Reviewers").Preload("Reviews.Reviewer").Preload("Versions").
		First(&paper, "paper_id = ?", paperID).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Paper not found"})
		return
	}

	if !p.IsAdmin() && paper.AuthorID != p.UserID && !paper.HasReviewer(p.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this paper"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"paper":   paper,
	})
}

// AdminListPapers lists every paper, optionally filtered by status.
func AdminListPapers(c *gin.Context) {
	query := getDB().Preload("Author").Preload("Conference").Preload("Reviewers")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var papers []models.Paper
	if err := query.Order("submitted_at DESC").Find(&papers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch papers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"papers":  papers,
		"total":   len(papers),
	})
}

// ApplyPaperDecision drives the paper lifecycle (accept, reject,
// request_resubmit, under_review, final_submit, archive). Review verdicts are
// applied separately and never touch the paper.
func ApplyPaperDecision(c *gin.Context) {
	p, ok := principalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	paperID, err := strconv.Atoi(c.Param("id"))
	if err != nil || paperID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid paper ID"})
		return
	}

	var req struct {
		Decision string `json:"decision" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	paper, err := services.ApplyPaperDecision(getDB(), p, paperID, req.Decision, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"paper":   paper,
		"message": "Decision applied",
	})
}
