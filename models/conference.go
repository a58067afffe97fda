package models

import "time"

// Conference is created by an admin and read-only afterwards. Submissions are
// accepted only while now <= SubmissionDeadline.
type Conference struct {
	ConferenceID       int       `gorm:"primaryKey;column:conference_id" json:"conference_id"`
	ConferenceName     string    `gorm:"column:conference_name" json:"conference_name"`
	SubmissionDeadline time.Time `gorm:"column:submission_deadline" json:"submission_deadline"`
	Location           string    `gorm:"column:location" json:"location"`
	Description        string    `gorm:"column:description" json:"description"`
	CreatedBy          int       `gorm:"column:created_by" json:"created_by"`
	CreateAt           time.Time `gorm:"column:create_at" json:"create_at"`

	Creator *User `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

func (Conference) TableName() string {
	return "conferences"
}

// AcceptsSubmissions reports whether the submission window is still open.
func (c Conference) AcceptsSubmissions(now time.Time) bool {
	return !now.After(c.SubmissionDeadline)
}

// DaysRemaining returns whole days until the deadline, never negative.
func (c Conference) DaysRemaining(now time.Time) int {
	if now.After(c.SubmissionDeadline) {
		return 0
	}
	return int(c.SubmissionDeadline.Sub(now).Hours() / 24)
}
