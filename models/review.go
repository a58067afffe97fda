package models

import "time"

// Review status values. A review is created as a stub when the reviewer is
// assigned, stays pending_admin_approval once the reviewer fills it in, and
// only the admin verdict moves it to one of the other three states.
const (
	ReviewStatusPendingApproval = "pending_admin_approval"
	ReviewStatusApproved        = "approved"
	ReviewStatusRejected        = "rejected"
	ReviewStatusRevision        = "revision"
)

// Recommendation values a reviewer may attach to a review.
const (
	RecommendationAccept        = "accept"
	RecommendationReject        = "reject"
	RecommendationMinorRevision = "minor_revision"
	RecommendationMajorRevision = "major_revision"
)

type Review struct {
	ReviewID       int        `gorm:"primaryKey;column:review_id" json:"review_id"`
	PaperID        int        `gorm:"column:paper_id;uniqueIndex:idx_paper_reviewer" json:"paper_id"`
	ReviewerID     int        `gorm:"column:reviewer_id;uniqueIndex:idx_paper_reviewer" json:"reviewer_id"`
	Comments       *string    `gorm:"column:comments" json:"comments"`
	Recommendation *string    `gorm:"column:recommendation" json:"recommendation"`
	Score          *int       `gorm:"column:score" json:"score"` // 1-5, nil until submitted
	Status         string     `gorm:"column:status" json:"status"`
	FilePath       *string    `gorm:"column:file_path" json:"file_path,omitempty"`
	FileURL        *string    `gorm:"column:file_url" json:"file_url,omitempty"`
	SubmittedAt    *time.Time `gorm:"column:submitted_at" json:"submitted_at"`
	CreateAt       time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Paper    *Paper `gorm:"foreignKey:PaperID" json:"paper,omitempty"`
	Reviewer *User  `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}

// IsSubmitted reports whether the reviewer has filled in the stub.
func (r Review) IsSubmitted() bool {
	return r.SubmittedAt != nil
}
