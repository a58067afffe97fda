package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conference-management-api/models"
	"conference-management-api/queue"
)

func TestSubmitPaperCreatesPendingPaper(t *testing.T) {
	db := newTestDB(t)
	rec := captureEvents(t)

	author := seedUser(t, db, models.RoleAuthor, "author@example.org")
	admin := seedUser(t, db, models.RoleAdmin, "admin@example.org")
	conference := seedConference(t, db, time.Now().Add(48*time.Hour))

	p := Principal{UserID: author.UserID, Email: author.Email, RoleID: author.RoleID}
	paper, err := SubmitPaper(db, p, SubmitPaperInput{
		Title:        "Deadline-Safe Systems",
		Abstract:     "On deadlines.",
		ConferenceID: conference.ConferenceID,
		File:         testFile("paper.pdf"),
	}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, models.PaperStatusPending, paper.Status)
	assert.Equal(t, 1, paper.CurrentVersion)

	var stored models.Paper
	require.NoError(t, db.First(&stored, "paper_id = ?", paper.PaperID).Error)
	assert.Equal(t, author.UserID, stored.AuthorID)

	var uploads int64
	require.NoError(t, db.Model(&models.FileUpload{}).Count(&uploads).Error)
	assert.EqualValues(t, 1, uploads)

	// Author confirmation plus admin alert
	assert.Equal(t, 1, rec.sentTo(author.Email))
	assert.Equal(t, 1, rec.sentTo(admin.Email))

	var rows []models.Notification
	require.NoError(t, db.Find(&rows).Error)
	assert.Len(t, rows, 2)
}

func TestSubmitPaperAfterDeadlineCreatesNothing(t *testing.T) {
	db := newTestDB(t)
	captureEvents(t)

	author := seedUser(t, db, models.RoleAuthor, "author@example.org")
	conference := seedConference(t, db, time.Now().Add(-24*time.Hour)) // deadline yesterday

	p := Principal{UserID: author.UserID, RoleID: author.RoleID}
	_, err := SubmitPaper(db, p, SubmitPaperInput{
		Title:        "Too Late",
		Abstract:     "Missed it.",
		ConferenceID: conference.ConferenceID,
		File:         testFile("late.pdf"),
	}, time.Now())
	requireWorkflowStatus(t, err, http.StatusBadRequest)
	assert.Contains(t, err.Error(), "deadline has passed")

	var papers int64
	require.NoError(t, db.Model(&models.Paper{}).Count(&papers).Error)
	assert.EqualValues(t, 0, papers)
}

func TestSubmitPaperUnknownConference(t *testing.T) {
	db := newTestDB(t)
	captureEvents(t)

	author := seedUser(t, db, models.RoleAuthor, "author@example.org")
	p := Principal{UserID: author.UserID, RoleID: author.RoleID}

	_, err := SubmitPaper(db, p, SubmitPaperInput{
		Title:        "Orphan",
		Abstract:     "No home.",
		ConferenceID: 999,
		File:         testFile("orphan.pdf"),
	}, time.Now())
	requireWorkflowStatus(t, err, http.StatusNotFound)
}

func TestSubmitPaperRequiresAuthorRole(t *testing.T) {
	db := newTestDB(t)
	captureEvents(t)

	reviewer := seedUser(t, db, models.RoleReviewer, "reviewer@example.org")
	conference := seedConference(t, db, time.Now().Add(time.Hour))

	p := Principal{UserID: reviewer.UserID, RoleID: reviewer.RoleID}
	_, err := SubmitPaper(db, p, SubmitPaperInput{
		Title:        "Nope",
		Abstract:     "Nope.",
		ConferenceID: conference.ConferenceID,
		File:         testFile("nope.pdf"),
	}, time.Now())
	requireWorkflowStatus(t, err, http.StatusForbidden)
}

func TestResubmitPaperAppendsHistoryAndBumpsVersion(t *testing.T) {
	db := newTestDB(t)
	rec := captureEvents(t)

	author := seedUser(t, db, models.RoleAuthor, "author@example.org")
	conference := seedConference(t, db, time.Now().Add(time.Hour))
	paper := seedPaper(t, db, author.UserID, conference.ConferenceID, models.PaperStatusRequestResubmit)
	originalPath := paper.FilePath

	p := Principal{UserID: author.UserID, RoleID: author.RoleID}
	updated, err := ResubmitPaper(db, p, ResubmitPaperInput{
		PaperID:  paper.PaperID,
		Feedback: "Addressed all comments.",
		File:     testFile("v2.pdf"),
	}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, models.PaperStatusResubmitted, updated.Status)
	assert.Equal(t, 2, updated.CurrentVersion)
	assert.NotEqual(t, originalPath, updated.FilePath)

	var versions []models.PaperVersion
	require.NoError(t, db.Where("paper_id = ?", paper.PaperID).Find(&versions).Error)
	require.Len(t, versions, 1)
	assert.Equal(t, 1, versions[0].Version)
	assert.Equal(t, originalPath, versions[0].FilePath)
	assert.Equal(t, "Addressed all comments.", versions[0].Feedback)

	assert.Equal(t, 1, rec.sentTo(author.Email))
}

func TestResubmitPaperWrongStateIsNotFound(t *testing.T) {
	db := newTestDB(t)
	captureEvents(t)

	author := seedUser(t, db, models.RoleAuthor, "author@example.org")
	conference := seedConference(t, db, time.Now().Add(time.Hour))
	paper := seedPaper(t, db, author.UserID, conference.ConferenceID, models.PaperStatusPending)

	p := Principal{UserID: author.UserID, RoleID: author.RoleID}
	_, err := ResubmitPaper(db, p, ResubmitPaperInput{
		PaperID: paper.PaperID,
		File:    testFile("v2.pdf"),
	}, time.Now())
	requireWorkflowStatus(t, err, http.StatusNotFound)
}

func TestResubmitPaperNotOwnerIsNotFound(t *testing.T) {
	db := newTestDB(t)
	captureEvents(t)

	owner := seedUser(t, db, models.RoleAuthor, "owner@example.org")
	other := seedUser(t, db, models.RoleAuthor, "other@example.org")
	conference := seedConference(t, db, time.Now().Add(time.Hour))
	paper := seedPaper(t, db, owner.UserID, conference.ConferenceID, models.PaperStatusRequestResubmit)

	p := Principal{UserID: other.UserID, RoleID: other.RoleID}
	_, err := ResubmitPaper(db, p, ResubmitPaperInput{
		PaperID: paper.PaperID,
		File:    testFile("v2.pdf"),
	}, time.Now())
	// Ownership and state are checked together: same NotFound either way.
	requireWorkflowStatus(t, err, http.StatusNotFound)

	var versions int64
	require.NoError(t, db.Model(&models.PaperVersion{}).Count(&versions).Error)
	assert.EqualValues(t, 0, versions)
}

func TestApplyPaperDecisionAccept(t *testing.T) {
	db := newTestDB(t)
	rec := captureEvents(t)

	author := seedUser(t, db, models.RoleAuthor, "author@example.org")
	admin := seedUser(t, db, models.RoleAdmin, "admin@example.org")
	conference := seedConference(t, db, time.Now().Add(time.Hour))
	paper := seedPaper(t, db, author.UserID, conference.ConferenceID, models.PaperStatusUnderReview)

	p := Principal{UserID: admin.UserID, RoleID: admin.RoleID}
	updated, err := ApplyPaperDecision(db, p, paper.PaperID, "accept", time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.PaperStatusAccepted, updated.Status)

	var stored models.Paper
	require.NoError(t, db.First(&stored, "paper_id = ?", paper.PaperID).Error)
	assert.Equal(t, models.PaperStatusAccepted, stored.Status)

	events := rec.all()
	require.Len(t, events, 1)
	assert.Equal(t, queue.EventPaperDecision, events[0].Type)
	assert.Equal(t, 1, rec.sentTo(author.Email))
}

func TestApplyPaperDecisionWrongStateConflicts(t *testing.T) {
	db := newTestDB(t)
	captureEvents(t)

	author := seedUser(t, db, models.RoleAuthor, "author@example.org")
	admin := seedUser(t, db, models.RoleAdmin, "admin@example.org")
	conference := seedConference(t, db, time.Now().Add(time.Hour))
	paper := seedPaper(t, db, author.UserID, conference.ConferenceID, models.PaperStatusPending)

	p := Principal{UserID: admin.UserID, RoleID: admin.RoleID}
	_, err := ApplyPaperDecision(db, p, paper.PaperID, "accept", time.Now())
	requireWorkflowStatus(t, err, http.StatusConflict)

	var stored models.Paper
	require.NoError(t, db.First(&stored, "paper_id = ?", paper.PaperID).Error)
	assert.Equal(t, models.PaperStatusPending, stored.Status)
}

func TestApplyPaperDecisionUnknownDecision(t *testing.T) {
	db := newTestDB(t)
	captureEvents(t)

	admin := seedUser(t, db, models.RoleAdmin, "admin@example.org")
	p := Principal{UserID: admin.UserID, RoleID: admin.RoleID}

	_, err := ApplyPaperDecision(db, p, 1, "promote", time.Now())
	requireWorkflowStatus(t, err, http.StatusBadRequest)
}

func TestApplyPaperDecisionRequiresAdmin(t *testing.T) {
	db := newTestDB(t)
	captureEvents(t)

	author := seedUser(t, db, models.RoleAuthor, "author@example.org")
	p := Principal{UserID: author.UserID, RoleID: author.RoleID}

	_, err := ApplyPaperDecision(db, p, 1, "accept", time.Now())
	requireWorkflowStatus(t, err, http.StatusForbidden)
}
