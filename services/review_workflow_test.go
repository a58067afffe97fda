package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"conference-management-api/models"
	"conference-management-api/queue"
)

func assignForReview(t *testing.T, db *gorm.DB, admin models.User, paperID, reviewerID int) {
	t.Helper()
	p := Principal{UserID: admin.UserID, RoleID: admin.RoleID}
	_, err := AssignReviewer(db, p, paperID, reviewerID, time.Now())
	require.NoError(t, err)
}

func countRecipients(events []queue.NotificationEvent, email string) int {
	count := 0
	for _, ev := range events {
		for _, rcpt := range ev.Recipients {
			if rcpt.Email == email {
				count++
			}
		}
	}
	return count
}

func TestSubmitReviewFillsStub(t *testing.T) {
	db := newTestDB(t)
	rec := captureEvents(t)

	author := seedUser(t, db, models.RoleAuthor, "author@example.org")
	reviewer := seedUser(t, db, models.RoleReviewer, "reviewer@example.org")
	admin := seedUser(t, db, models.RoleAdmin, "admin@example.org")
	conference := seedConference(t, db, time.Now().Add(time.Hour))
	paper := seedPaper(t, db, author.UserID, conference.ConferenceID, models.PaperStatusPending)
	assignForReview(t, db, admin, paper.PaperID, reviewer.UserID)

	p := Principal{UserID: reviewer.UserID, RoleID: reviewer.RoleID}
	review, err := SubmitReview(db, p, SubmitReviewInput{
		PaperID:        paper.PaperID,
		Comments:       "Solid methodology, weak evaluation.",
		Recommendation: models.RecommendationMinorRevision,
		Score:          4,
	}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, models.ReviewStatusPendingApproval, review.Status)
	require.NotNil(t, review.Score)
	assert.Equal(t, 4, *review.Score)
	assert.True(t, review.IsSubmitted())

	// Still exactly one review for the pair: the stub was filled, not duplicated
	var count int64
	require.NoError(t, db.Model(&models.Review{}).
		Where("paper_id = ? AND reviewer_id = ?", paper.PaperID, reviewer.UserID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// Admins are notified of the pending approval
	assert.Equal(t, 1, rec.sentTo(admin.Email))
}

func TestSubmitReviewTwiceFails(t *testing.T) {
	db := newTestDB(t)
	captureEvents(t)

	author := seedUser(t, db, models.RoleAuthor, "author@example.org")
	reviewer := seedUser(t, db, models.RoleReviewer, "reviewer@example.org")
	admin := seedUser(t, db, models.RoleAdmin, "admin@example.org")
	conference := seedConference(t, db, time.Now().Add(time.Hour))
	paper := seedPaper(t, db, author.UserID, conference.ConferenceID, models.PaperStatusPending)
	assignForReview(t, db, admin, paper.PaperID, reviewer.UserID)

	p := Principal{UserID: reviewer.UserID, RoleID: reviewer.RoleID}
	in := SubmitReviewInput{
		PaperID:        paper.PaperID,
		Comments:       "Looks good.",
		Recommendation: models.RecommendationAccept,
		Score:          5,
	}
	_, err := SubmitReview(db, p, in, time.Now())
	require.NoError(t, err)

	_, err = SubmitReview(db, p, in, time.Now())
	requireWorkflowStatus(t, err, http.StatusBadRequest)

	var count int64
	require.NoError(t, db.Model(&models.Review{}).
		Where("paper_id = ? AND reviewer_id = ?", paper.PaperID, reviewer.UserID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSubmitReviewNotAssignedIsForbidden(t *testing.T) {
	db := newTestDB(t)
	captureEvents(t)

	author := seedUser(t, db, models.RoleAuthor, "author@example.org")
	reviewer := seedUser(t, db, models.RoleReviewer, "reviewer@example.org")
	conference := seedConference(t, db, time.Now().Add(time.Hour))
	paper := seedPaper(t, db, author.UserID, conference.ConferenceID, models.PaperStatusUnderReview)

	p := Principal{UserID: reviewer.UserID, RoleID: reviewer.RoleID}
	_, err := SubmitReview(db, p, SubmitReviewInput{
		PaperID:        paper.PaperID,
		Comments:       "Uninvited opinion.",
		Recommendation: models.RecommendationReject,
		Score:          1,
	}, time.Now())
	requireWorkflowStatus(t, err, http.StatusForbidden)
}

func TestSubmitReviewValidation(t *testing.T) {
	db := newTestDB(t)
	captureEvents(t)

	reviewer := seedUser(t, db, models.RoleReviewer, "reviewer@example.org")
	p := Principal{UserID: reviewer.UserID, RoleID: reviewer.RoleID}

	for _, in := range []SubmitReviewInput{
		{PaperID: 1, Comments: "", Recommendation: models.RecommendationAccept, Score: 3},
		{PaperID: 1, Comments: "ok", Recommendation: "coin_flip", Score: 3},
		{PaperID: 1, Comments: "ok", Recommendation: models.RecommendationAccept, Score: 0},
		{PaperID: 1, Comments: "ok", Recommendation: models.RecommendationAccept, Score: 6},
	} {
		_, err := SubmitReview(db, p, in, time.Now())
		requireWorkflowStatus(t, err, http.StatusBadRequest)
	}
}

func TestApplyVerdictApprovedNotifiesReviewerAndAuthor(t *testing.T) {
	db := newTestDB(t)
	rec := captureEvents(t)

	author := seedUser(t, db, models.RoleAuthor, "author@example.org")
	reviewer := seedUser(t, db, models.RoleReviewer, "reviewer@example.org")
	admin := seedUser(t, db, models.RoleAdmin, "admin@example.org")
	conference := seedConference(t, db, time.Now().Add(time.Hour))
	paper := seedPaper(t, db, author.UserID, conference.ConferenceID, models.PaperStatusPending)
	assignForReview(t, db, admin, paper.PaperID, reviewer.UserID)

	reviewerPrincipal := Principal{UserID: reviewer.UserID, RoleID: reviewer.RoleID}
	review, err := SubmitReview(db, reviewerPrincipal, SubmitReviewInput{
		PaperID:        paper.PaperID,
		Comments:       "Accept with pride.",
		Recommendation: models.RecommendationAccept,
		Score:          5,
	}, time.Now())
	require.NoError(t, err)

	before := rec.all()

	adminPrincipal := Principal{UserID: admin.UserID, RoleID: admin.RoleID}
	updated, err := ApplyVerdict(db, adminPrincipal, review.ReviewID, "approved", time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusApproved, updated.Status)

	verdictEvents := rec.all()[len(before):]
	require.Len(t, verdictEvents, 2)
	assert.Equal(t, 1, countRecipients(verdictEvents, reviewer.Email))
	assert.Equal(t, 1, countRecipients(verdictEvents, author.Email))

	// Verdicts never touch the parent paper
	var stored models.Paper
	require.NoError(t, db.First(&stored, "paper_id = ?", paper.PaperID).Error)
	assert.Equal(t, models.PaperStatusUnderReview, stored.Status)
}

func TestApplyVerdictRejectedNotifiesReviewerOnly(t *testing.T) {
	db := newTestDB(t)
	rec := captureEvents(t)

	author := seedUser(t, db, models.RoleAuthor, "author@example.org")
	reviewer := seedUser(t, db, models.RoleReviewer, "reviewer@example.org")
	admin := seedUser(t, db, models.RoleAdmin, "admin@example.org")
	conference := seedConference(t, db, time.Now().Add(time.Hour))
	paper := seedPaper(t, db, author.UserID, conference.ConferenceID, models.PaperStatusPending)
	assignForReview(t, db, admin, paper.PaperID, reviewer.UserID)

	var review models.Review
	require.NoError(t, db.Where("paper_id = ? AND reviewer_id = ?", paper.PaperID, reviewer.UserID).
		First(&review).Error)

	before := rec.all()

	p := Principal{UserID: admin.UserID, RoleID: admin.RoleID}
	updated, err := ApplyVerdict(db, p, review.ReviewID, "rejected", time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusRejected, updated.Status)

	verdictEvents := rec.all()[len(before):]
	require.Len(t, verdictEvents, 1)
	assert.Equal(t, 1, countRecipients(verdictEvents, reviewer.Email))
	assert.Equal(t, 0, countRecipients(verdictEvents, author.Email))
}

func TestApplyVerdictUnknownVerdict(t *testing.T) {
	db := newTestDB(t)
	captureEvents(t)

	admin := seedUser(t, db, models.RoleAdmin, "admin@example.org")
	p := Principal{UserID: admin.UserID, RoleID: admin.RoleID}

	_, err := ApplyVerdict(db, p, 1, "maybe", time.Now())
	requireWorkflowStatus(t, err, http.StatusBadRequest)
}

func TestApplyVerdictReviewNotFound(t *testing.T) {
	db := newTestDB(t)
	captureEvents(t)

	admin := seedUser(t, db, models.RoleAdmin, "admin@example.org")
	p := Principal{UserID: admin.UserID, RoleID: admin.RoleID}

	_, err := ApplyVerdict(db, p, 999, "approved", time.Now())
	requireWorkflowStatus(t, err, http.StatusNotFound)
}
