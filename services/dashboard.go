package services

import (
	"gorm.io/gorm"

	"conference-management-api/models"
)

// DashboardStats aggregates paper counts by status. Recomputed per request
// from the full result set; there are no stored counters.
type DashboardStats struct {
	Total            int `json:"total"`
	Pending          int `json:"pending"`
	UnderReview      int `json:"under_review"`
	Accepted         int `json:"accepted"`
	Rejected         int `json:"rejected"`
	RevisionRequired int `json:"revision_required"`
	Resubmitted      int `json:"resubmitted"`
	FinalSubmitted   int `json:"final_submitted"`
}

func countByStatus(papers []models.Paper) DashboardStats {
	stats := DashboardStats{Total: len(papers)}
	for _, paper := range papers {
		switch paper.Status {
		case models.PaperStatusPending:
			stats.Pending++
		case models.PaperStatusUnderReview:
			stats.UnderReview++
		case models.PaperStatusAccepted:
			stats.Accepted++
		case models.PaperStatusRejected:
			stats.Rejected++
		case models.PaperStatusRequestResubmit:
			stats.RevisionRequired++
		case models.PaperStatusResubmitted:
			stats.Resubmitted++
		case models.PaperStatusFinalSubmitted:
			stats.FinalSubmitted++
		}
	}
	return stats
}

// AuthorDashboard summarises the principal's own papers.
func AuthorDashboard(db *gorm.DB, p Principal) (DashboardStats, error) {
	var papers []models.Paper
	if err := db.Where("author_id = ?", p.UserID).Find(&papers).Error; err != nil {
		return DashboardStats{}, err
	}
	return countByStatus(papers), nil
}

// ReviewerDashboard summarises the papers the principal is assigned to.
func ReviewerDashboard(db *gorm.DB, p Principal) (DashboardStats, error) {
	papers, err := PapersAssignedTo(db, p.UserID)
	if err != nil {
		return DashboardStats{}, err
	}
	return countByStatus(papers), nil
}

// AdminDashboard summarises every paper plus the review approval backlog.
func AdminDashboard(db *gorm.DB) (DashboardStats, int64, error) {
	var papers []models.Paper
	if err := db.Find(&papers).Error; err != nil {
		return DashboardStats{}, 0, err
	}

	var pendingReviews int64
	if err := db.Model(&models.Review{}).
		Where("status = ? AND submitted_at IS NOT NULL", models.ReviewStatusPendingApproval).
		Count(&pendingReviews).Error; err != nil {
		return DashboardStats{}, 0, err
	}
	return countByStatus(papers), pendingReviews, nil
}

// PapersAssignedTo loads the papers a reviewer is assigned to, with the
// author and conference populated.
func PapersAssignedTo(db *gorm.DB, reviewerID int) ([]models.Paper, error) {
	var papers []models.Paper
	err := db.Preload("Author").Preload("Conference").
		Joins("JOIN paper_reviewers pr ON pr.paper_id = papers.paper_id").
		Where("pr.reviewer_id = ?", reviewerID).
		Find(&papers).Error
	if err != nil {
		return nil, err
	}
	return papers, nil
}
