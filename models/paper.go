package models

import "time"

// Paper status values. The assignment workflow moves pending -> under_review;
// the admin decision endpoint drives the rest of the lifecycle.
const (
	PaperStatusPending         = "pending"
	PaperStatusUnderReview     = "under_review"
	PaperStatusAccepted        = "accepted"
	PaperStatusRejected        = "rejected"
	PaperStatusRequestResubmit = "request_resubmit"
	PaperStatusResubmitted     = "resubmitted"
	PaperStatusFinalSubmitted  = "final_submitted"
	PaperStatusArchived        = "archived"
)

type Paper struct {
	PaperID        int        `gorm:"primaryKey;column:paper_id" json:"paper_id"`
	Title          string     `gorm:"column:title" json:"title"`
	Abstract       string     `gorm:"column:abstract" json:"abstract"`
	FilePath       string     `gorm:"column:file_path" json:"file_path"`
	FileURL        string     `gorm:"column:file_url" json:"file_url"`
	AuthorID       int        `gorm:"column:author_id" json:"author_id"`
	ConferenceID   int        `gorm:"column:conference_id" json:"conference_id"`
	Status         string     `gorm:"column:status" json:"status"`
	CurrentVersion int        `gorm:"column:current_version" json:"current_version"`
	SubmittedAt    time.Time  `gorm:"column:submitted_at" json:"submitted_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Author     *User          `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Conference *Conference    `gorm:"foreignKey:ConferenceID" json:"conference,omitempty"`
	Reviewers  []User         `gorm:"many2many:paper_reviewers;foreignKey:PaperID;joinForeignKey:PaperID;references:UserID;joinReferences:ReviewerID" json:"reviewers,omitempty"`
	Reviews    []Review       `gorm:"foreignKey:PaperID" json:"reviews,omitempty"`
	Versions   []PaperVersion `gorm:"foreignKey:PaperID" json:"versions,omitempty"`
}

// PaperReviewer is the assignment join row. Declared explicitly so the
// workflow can mutate assignments inside the same transaction as the paper.
type PaperReviewer struct {
	PaperID    int       `gorm:"primaryKey;column:paper_id" json:"paper_id"`
	ReviewerID int       `gorm:"primaryKey;column:reviewer_id" json:"reviewer_id"`
	AssignedAt time.Time `gorm:"column:assigned_at" json:"assigned_at"`
}

// PaperVersion records one prior revision of a paper: the file reference that
// was replaced, when it had been submitted, and the author's feedback text.
type PaperVersion struct {
	VersionID   int       `gorm:"primaryKey;column:version_id" json:"version_id"`
	PaperID     int       `gorm:"column:paper_id;index" json:"paper_id"`
	Version     int       `gorm:"column:version" json:"version"`
	FilePath    string    `gorm:"column:file_path" json:"file_path"`
	FileURL     string    `gorm:"column:file_url" json:"file_url"`
	Feedback    string    `gorm:"column:feedback" json:"feedback"`
	SubmittedAt time.Time `gorm:"column:submitted_at" json:"submitted_at"`
	CreateAt    time.Time `gorm:"column:create_at" json:"create_at"`
}

// TableName overrides
func (Paper) TableName() string {
	return "papers"
}

func (PaperReviewer) TableName() string {
	return "paper_reviewers"
}

func (PaperVersion) TableName() string {
	return "paper_versions"
}

// HasReviewer reports whether the given user is among the loaded reviewers.
func (p Paper) HasReviewer(userID int) bool {
	for _, r := range p.Reviewers {
		if r.UserID == userID {
			return true
		}
	}
	return false
}
