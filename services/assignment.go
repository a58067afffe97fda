package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"conference-management-api/models"
)

// AssignReviewer adds a reviewer to a paper. The assignment row, the status
// move to under_review and the review stub are written in one transaction.
func AssignReviewer(db *gorm.DB, p Principal, paperID, reviewerID int, now time.Time) (*models.Paper, error) {
	if !p.IsAdmin() {
		return nil, Forbidden("Only admins can assign reviewers")
	}

	var paper models.Paper
	err := db.Preload("Author").Preload("Conference").Preload("Reviewers").
		First(&paper, "paper_id = ?", paperID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Paper not found")
		}
		return nil, err
	}

	var reviewer models.User
	if err := db.First(&reviewer, "user_id = ?", reviewerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Reviewer not found")
		}
		return nil, err
	}
	if reviewer.RoleID != models.RoleReviewer {
		return nil, Invalid("User is not a reviewer")
	}

	if paper.HasReviewer(reviewerID) {
		return nil, Invalid("Reviewer is already assigned to this paper")
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		assignment := models.PaperReviewer{
			PaperID:    paper.PaperID,
			ReviewerID: reviewer.UserID,
			AssignedAt: now,
		}
		if err := tx.Create(&assignment).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Paper{}).
			Where("paper_id = ?", paper.PaperID).
			Updates(map[string]interface{}{
				"status":    models.PaperStatusUnderReview,
				"update_at": now,
			}).Error; err != nil {
			return err
		}

		// The review exists before its content: the reviewer fills the stub
		// in later via SubmitReview.
		stub := models.Review{
			PaperID:    paper.PaperID,
			ReviewerID: reviewer.UserID,
			Status:     models.ReviewStatusPendingApproval,
			CreateAt:   now,
		}
		return tx.Create(&stub).Error
	})
	if err != nil {
		return nil, err
	}

	paper.Status = models.PaperStatusUnderReview
	paper.Reviewers = append(paper.Reviewers, reviewer)

	if paper.Author != nil {
		notifyReviewerAssigned(db, &paper, reviewer, *paper.Author)
	}
	return &paper, nil
}

// RemoveReviewer withdraws an assignment and cascades the reviewer's review
// away, all in one transaction. The paper status is left untouched even when
// the last reviewer goes.
func RemoveReviewer(db *gorm.DB, p Principal, paperID, reviewerID int) error {
	if !p.IsAdmin() {
		return Forbidden("Only admins can remove reviewers")
	}

	var paper models.Paper
	err := db.Preload("Author").First(&paper, "paper_id = ?", paperID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound("Paper not found")
		}
		return err
	}

	var assignment models.PaperReviewer
	err = db.Where("paper_id = ? AND reviewer_id = ?", paperID, reviewerID).
		First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Invalid("Reviewer is not assigned to this paper")
		}
		return err
	}

	var reviewer models.User
	if err := db.First(&reviewer, "user_id = ?", reviewerID).Error; err != nil {
		return err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("paper_id = ? AND reviewer_id = ?", paperID, reviewerID).
			Delete(&models.PaperReviewer{}).Error; err != nil {
			return err
		}
		return tx.Where("paper_id = ? AND reviewer_id = ?", paperID, reviewerID).
			Delete(&models.Review{}).Error
	})
	if err != nil {
		return err
	}

	if paper.Author != nil {
		notifyReviewerRemoved(db, &paper, reviewer, *paper.Author)
	}
	return nil
}

// ListReviewers returns every user holding the reviewer role.
func ListReviewers(db *gorm.DB) ([]models.User, error) {
	var reviewers []models.User
	if err := db.Where("role_id = ?", models.RoleReviewer).
		Order("user_fname, user_lname").Find(&reviewers).Error; err != nil {
		return nil, err
	}
	return reviewers, nil
}
