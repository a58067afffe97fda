package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"conference-management-api/models"
	"conference-management-api/utils"
)

type CreateConferenceRequest struct {
	ConferenceName     string    `json:"conference_name" binding:"required"`
	SubmissionDeadline time.Time `json:"submission_deadline" binding:"required"`
	Location           string    `json:"location" binding:"required"`
	Description        string    `json:"description"`
}

// CreateConference registers a new conference. Conferences are read-only
// after creation.
func CreateConference(c *gin.Context) {
	var req CreateConferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, ok := principalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conference := models.Conference{
		ConferenceName:     utils.SanitizeInput(req.ConferenceName),
		SubmissionDeadline: req.SubmissionDeadline,
		Location:           utils.SanitizeInput(req.Location),
		Description:        utils.SanitizeInput(req.Description),
		CreatedBy:          p.UserID,
		CreateAt:           time.Now(),
	}
	if err := getDB().Create(&conference).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create conference"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"conference": conference,
	})
}

type conferenceView struct {
	models.Conference
	DaysRemaining int  `json:"days_remaining"`
	Active        bool `json:"active"`
}

// GetConferences lists conferences split into active and expired, with the
// days remaining until each deadline computed per request.
func GetConferences(c *gin.Context) {
	var conferences []models.Conference
	if err := getDB().Order("submission_deadline").Find(&conferences).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conferences"})
		return
	}

	now := time.Now()
	active := make([]conferenceView, 0, len(conferences))
	expired := make([]conferenceView, 0)
	for _, conference := range conferences {
		view := conferenceView{
			Conference:    conference,
			DaysRemaining: conference.DaysRemaining(now),
			Active:        conference.AcceptsSubmissions(now),
		}
		if view.Active {
			active = append(active, view)
		} else {
			expired = append(expired, view)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"active":  active,
		"expired": expired,
	})
}

// GetConference returns one conference by id.
func GetConference(c *gin.Context) {
	conferenceID, err := strconv.Atoi(c.Param("id"))
	if err != nil || conferenceID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conference ID"})
		return
	}

	var conference models.Conference
	if err := getDB().First(&conference, "conference_id = ?", conferenceID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conference not found"})
		return
	}

	now := time.Now()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"conference": conferenceView{
			Conference:    conference,
			DaysRemaining: conference.DaysRemaining(now),
			Active:        conference.AcceptsSubmissions(now),
		},
	})
}
