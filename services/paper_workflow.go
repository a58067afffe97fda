package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"conference-management-api/models"
)

// StoredFile describes an upload already written to the file store.
type StoredFile struct {
	Path         string
	URL          string
	OriginalName string
	Size         int64
	MimeType     string
}

type SubmitPaperInput struct {
	Title        string
	Abstract     string
	ConferenceID int
	File         StoredFile
}

type ResubmitPaperInput struct {
	PaperID  int
	Feedback string
	File     StoredFile
}

// GetOpenConference loads a conference and verifies its submission window is
// still open. Handlers call it before writing the upload to disk.
func GetOpenConference(db *gorm.DB, conferenceID int, now time.Time) (*models.Conference, error) {
	var conference models.Conference
	if err := db.First(&conference, "conference_id = ?", conferenceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Conference not found")
		}
		return nil, err
	}
	if !conference.AcceptsSubmissions(now) {
		return nil, Invalid("Submission deadline has passed")
	}
	return &conference, nil
}

// SubmitPaper creates a paper with status pending for an open conference.
// The file must already be stored; on error the caller removes it.
func SubmitPaper(db *gorm.DB, p Principal, in SubmitPaperInput, now time.Time) (*models.Paper, error) {
	if !p.IsAuthor() {
		return nil, Forbidden("Only authors can submit papers")
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Abstract) == "" {
		return nil, Invalid("Title and abstract are required")
	}
	if in.File.Path == "" {
		return nil, Invalid("Paper file is required")
	}

	conference, err := GetOpenConference(db, in.ConferenceID, now)
	if err != nil {
		return nil, err
	}

	var author models.User
	if err := db.First(&author, "user_id = ?", p.UserID).Error; err != nil {
		return nil, err
	}

	paper := models.Paper{
		Title:          strings.TrimSpace(in.Title),
		Abstract:       strings.TrimSpace(in.Abstract),
		FilePath:       in.File.Path,
		FileURL:        in.File.URL,
		AuthorID:       p.UserID,
		ConferenceID:   conference.ConferenceID,
		Status:         models.PaperStatusPending,
		CurrentVersion: 1,
		SubmittedAt:    now,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&paper).Error; err != nil {
			return err
		}
		upload := models.FileUpload{
			OriginalName: in.File.OriginalName,
			StoredPath:   in.File.Path,
			PublicURL:    in.File.URL,
			FileSize:     in.File.Size,
			MimeType:     in.File.MimeType,
			UploadedBy:   p.UserID,
			UploadedAt:   now,
			CreateAt:     now,
		}
		return tx.Create(&upload).Error
	})
	if err != nil {
		return nil, err
	}

	paper.Conference = conference
	notifyPaperSubmitted(db, &paper, author)
	return &paper, nil
}

// ResubmitPaper replaces the active file of a paper the admin sent back for
// resubmission. Ownership and state are checked together: callers get one
// NotFound whether the paper is someone else's or in the wrong state.
func ResubmitPaper(db *gorm.DB, p Principal, in ResubmitPaperInput, now time.Time) (*models.Paper, error) {
	if !p.IsAuthor() {
		return nil, Forbidden("Only authors can resubmit papers")
	}
	if in.File.Path == "" {
		return nil, Invalid("Paper file is required")
	}

	var paper models.Paper
	err := db.Where("paper_id = ? AND author_id = ? AND status = ?",
		in.PaperID, p.UserID, models.PaperStatusRequestResubmit).
		First(&paper).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Paper not found or not awaiting resubmission")
		}
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		version := models.PaperVersion{
			PaperID:     paper.PaperID,
			Version:     paper.CurrentVersion,
			FilePath:    paper.FilePath,
			FileURL:     paper.FileURL,
			Feedback:    strings.TrimSpace(in.Feedback),
			SubmittedAt: paper.SubmittedAt,
			CreateAt:    now,
		}
		if err := tx.Create(&version).Error; err != nil {
			return err
		}

		upload := models.FileUpload{
			OriginalName: in.File.OriginalName,
			StoredPath:   in.File.Path,
			PublicURL:    in.File.URL,
			FileSize:     in.File.Size,
			MimeType:     in.File.MimeType,
			UploadedBy:   p.UserID,
			UploadedAt:   now,
			CreateAt:     now,
		}
		if err := tx.Create(&upload).Error; err != nil {
			return err
		}

		return tx.Model(&models.Paper{}).
			Where("paper_id = ?", paper.PaperID).
			Updates(map[string]interface{}{
				"file_path":       in.File.Path,
				"file_url":        in.File.URL,
				"current_version": paper.CurrentVersion + 1,
				"status":          models.PaperStatusResubmitted,
				"submitted_at":    now,
				"update_at":       now,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	if err := db.First(&paper, "paper_id = ?", paper.PaperID).Error; err != nil {
		return nil, err
	}

	var author models.User
	if err := db.First(&author, "user_id = ?", p.UserID).Error; err == nil {
		notifyPaperResubmitted(db, &paper, author)
	}
	return &paper, nil
}

// paperDecisions maps an admin decision to the states it may be applied from
// and the state it produces. Review verdicts never drive these transitions;
// the admin invokes them explicitly.
var paperDecisions = map[string]struct {
	from []string
	to   string
}{
	"accept":           {from: []string{models.PaperStatusUnderReview, models.PaperStatusResubmitted}, to: models.PaperStatusAccepted},
	"reject":           {from: []string{models.PaperStatusUnderReview, models.PaperStatusResubmitted}, to: models.PaperStatusRejected},
	"request_resubmit": {from: []string{models.PaperStatusUnderReview, models.PaperStatusResubmitted}, to: models.PaperStatusRequestResubmit},
	"under_review":     {from: []string{models.PaperStatusResubmitted}, to: models.PaperStatusUnderReview},
	"final_submit":     {from: []string{models.PaperStatusAccepted, models.PaperStatusResubmitted}, to: models.PaperStatusFinalSubmitted},
	"archive":          {from: []string{models.PaperStatusFinalSubmitted, models.PaperStatusRejected}, to: models.PaperStatusArchived},
}

// ApplyPaperDecision drives the paper lifecycle. Separate from ApplyVerdict:
// approving a review does not change the paper, the admin must call both.
func ApplyPaperDecision(db *gorm.DB, p Principal, paperID int, decision string, now time.Time) (*models.Paper, error) {
	if !p.IsAdmin() {
		return nil, Forbidden("Only admins can decide on papers")
	}

	rule, ok := paperDecisions[strings.ToLower(strings.TrimSpace(decision))]
	if !ok {
		return nil, Invalid("Unknown decision")
	}

	var paper models.Paper
	if err := db.Preload("Author").First(&paper, "paper_id = ?", paperID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Paper not found")
		}
		return nil, err
	}

	allowed := false
	for _, s := range rule.from {
		if paper.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, Conflict("Paper status does not allow this decision")
	}

	if err := db.Model(&models.Paper{}).
		Where("paper_id = ?", paper.PaperID).
		Updates(map[string]interface{}{
			"status":    rule.to,
			"update_at": now,
		}).Error; err != nil {
		return nil, err
	}
	paper.Status = rule.to

	if paper.Author != nil {
		notifyPaperDecision(db, &paper, *paper.Author, decision)
	}
	return &paper, nil
}
