package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"conference-management-api/models"
)

type SubmitReviewInput struct {
	PaperID        int
	Comments       string
	Recommendation string
	Score          int
	File           *StoredFile // optional uploaded review file
}

var validRecommendations = map[string]bool{
	models.RecommendationAccept:        true,
	models.RecommendationReject:        true,
	models.RecommendationMinorRevision: true,
	models.RecommendationMajorRevision: true,
}

// SubmitReview fills in the review stub created at assignment time. A second
// submission for the same (paper, reviewer) pair is rejected; the unique index
// on the pair backs the in-transaction check.
func SubmitReview(db *gorm.DB, p Principal, in SubmitReviewInput, now time.Time) (*models.Review, error) {
	if !p.IsReviewer() {
		return nil, Forbidden("Only reviewers can submit reviews")
	}
	if strings.TrimSpace(in.Comments) == "" {
		return nil, Invalid("Comments are required")
	}
	if !validRecommendations[in.Recommendation] {
		return nil, Invalid("Unknown recommendation")
	}
	if in.Score < 1 || in.Score > 5 {
		return nil, Invalid("Score must be between 1 and 5")
	}

	var paper models.Paper
	if err := db.First(&paper, "paper_id = ?", in.PaperID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Paper not found")
		}
		return nil, err
	}

	var assignment models.PaperReviewer
	err := db.Where("paper_id = ? AND reviewer_id = ?", in.PaperID, p.UserID).
		First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Forbidden("You are not assigned to this paper")
		}
		return nil, err
	}

	comments := strings.TrimSpace(in.Comments)
	recommendation := in.Recommendation
	score := in.Score

	var review models.Review
	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("paper_id = ? AND reviewer_id = ?", in.PaperID, p.UserID).
			First(&review).Error
		switch {
		case err == nil:
			if review.IsSubmitted() {
				return Invalid("You have already submitted a review for this paper")
			}
			review.Comments = &comments
			review.Recommendation = &recommendation
			review.Score = &score
			review.SubmittedAt = &now
			review.UpdateAt = &now
			if in.File != nil {
				review.FilePath = &in.File.Path
				review.FileURL = &in.File.URL
			}
			return tx.Save(&review).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			review = models.Review{
				PaperID:        in.PaperID,
				ReviewerID:     p.UserID,
				Comments:       &comments,
				Recommendation: &recommendation,
				Score:          &score,
				Status:         models.ReviewStatusPendingApproval,
				SubmittedAt:    &now,
				CreateAt:       now,
			}
			if in.File != nil {
				review.FilePath = &in.File.Path
				review.FileURL = &in.File.URL
			}
			return tx.Create(&review).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	var reviewer models.User
	if err := db.First(&reviewer, "user_id = ?", p.UserID).Error; err == nil {
		notifyReviewSubmitted(db, &paper, reviewer)
	}
	return &review, nil
}

var verdictStatuses = map[string]string{
	"approved": models.ReviewStatusApproved,
	"rejected": models.ReviewStatusRejected,
	"revision": models.ReviewStatusRevision,
}

// ApplyVerdict records the admin's decision on a review. The reviewer is
// always notified; the author only learns about approved reviews. The parent
// paper's status is never touched here, see ApplyPaperDecision.
func ApplyVerdict(db *gorm.DB, p Principal, reviewID int, verdict string, now time.Time) (*models.Review, error) {
	if !p.IsAdmin() {
		return nil, Forbidden("Only admins can apply verdicts")
	}

	status, ok := verdictStatuses[strings.ToLower(strings.TrimSpace(verdict))]
	if !ok {
		return nil, Invalid("Verdict must be approved, rejected or revision")
	}

	var review models.Review
	err := db.Preload("Paper.Author").Preload("Paper.Conference").Preload("Reviewer").
		First(&review, "review_id = ?", reviewID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Review not found")
		}
		return nil, err
	}

	if err := db.Model(&models.Review{}).
		Where("review_id = ?", review.ReviewID).
		Updates(map[string]interface{}{
			"status":    status,
			"update_at": now,
		}).Error; err != nil {
		return nil, err
	}
	review.Status = status

	if review.Reviewer != nil && review.Paper != nil && review.Paper.Author != nil {
		notifyReviewVerdict(db, &review, *review.Reviewer, *review.Paper.Author, review.Paper)
	}
	return &review, nil
}

// ReviewsForPaper lists a paper's reviews for the admin detail view.
func ReviewsForPaper(db *gorm.DB, paperID int) ([]models.Review, error) {
	var reviews []models.Review
	if err := db.Preload("Reviewer").
		Where("paper_id = ?", paperID).
		Order("create_at").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}
