package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conference-management-api/models"
)

func TestAuthorDashboardCountsOwnPapersByStatus(t *testing.T) {
	db := newTestDB(t)
	captureEvents(t)

	author := seedUser(t, db, models.RoleAuthor, "author@example.org")
	other := seedUser(t, db, models.RoleAuthor, "other@example.org")
	conference := seedConference(t, db, time.Now().Add(time.Hour))

	seedPaper(t, db, author.UserID, conference.ConferenceID, models.PaperStatusPending)
	seedPaper(t, db, author.UserID, conference.ConferenceID, models.PaperStatusAccepted)
	seedPaper(t, db, author.UserID, conference.ConferenceID, models.PaperStatusRequestResubmit)
	seedPaper(t, db, other.UserID, conference.ConferenceID, models.PaperStatusPending)

	stats, err := AuthorDashboard(db, Principal{UserID: author.UserID, RoleID: author.RoleID})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Accepted)
	assert.Equal(t, 1, stats.RevisionRequired)
	assert.Equal(t, 0, stats.UnderReview)
}

func TestReviewerDashboardOnlySeesAssignedPapers(t *testing.T) {
	db := newTestDB(t)
	captureEvents(t)

	author := seedUser(t, db, models.RoleAuthor, "author@example.org")
	reviewer := seedUser(t, db, models.RoleReviewer, "reviewer@example.org")
	admin := seedUser(t, db, models.RoleAdmin, "admin@example.org")
	conference := seedConference(t, db, time.Now().Add(time.Hour))

	assigned := seedPaper(t, db, author.UserID, conference.ConferenceID, models.PaperStatusPending)
	seedPaper(t, db, author.UserID, conference.ConferenceID, models.PaperStatusPending)
	assignForReview(t, db, admin, assigned.PaperID, reviewer.UserID)

	stats, err := ReviewerDashboard(db, Principal{UserID: reviewer.UserID, RoleID: reviewer.RoleID})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.UnderReview)
}

func TestAdminDashboardCountsReviewBacklog(t *testing.T) {
	db := newTestDB(t)
	captureEvents(t)

	author := seedUser(t, db, models.RoleAuthor, "author@example.org")
	reviewer := seedUser(t, db, models.RoleReviewer, "reviewer@example.org")
	second := seedUser(t, db, models.RoleReviewer, "reviewer2@example.org")
	admin := seedUser(t, db, models.RoleAdmin, "admin@example.org")
	conference := seedConference(t, db, time.Now().Add(time.Hour))

	paper := seedPaper(t, db, author.UserID, conference.ConferenceID, models.PaperStatusPending)
	assignForReview(t, db, admin, paper.PaperID, reviewer.UserID)
	assignForReview(t, db, admin, paper.PaperID, second.UserID)

	// Only one of the two assigned reviewers has actually submitted; the
	// other still holds an unfilled stub and must not count as backlog.
	p := Principal{UserID: reviewer.UserID, RoleID: reviewer.RoleID}
	_, err := SubmitReview(db, p, SubmitReviewInput{
		PaperID:        paper.PaperID,
		Comments:       "Fine work.",
		Recommendation: models.RecommendationAccept,
		Score:          4,
	}, time.Now())
	require.NoError(t, err)

	stats, pendingReviews, err := AdminDashboard(db)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.UnderReview)
	assert.EqualValues(t, 1, pendingReviews)
}
