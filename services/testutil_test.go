package services

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"conference-management-api/models"
	"conference-management-api/queue"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.SetupJoinTable(&models.Paper{}, "Reviewers", &models.PaperReviewer{}))
	require.NoError(t, db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Conference{},
		&models.Paper{},
		&models.PaperReviewer{},
		&models.PaperVersion{},
		&models.Review{},
		&models.FileUpload{},
		&models.Notification{},
	))
	return db
}

// eventRecorder replaces the async queue dispatch so tests can assert on
// outbound notifications synchronously.
type eventRecorder struct {
	mu     sync.Mutex
	events []queue.NotificationEvent
}

func captureEvents(t *testing.T) *eventRecorder {
	t.Helper()
	rec := &eventRecorder{}
	old := dispatch
	dispatch = func(ev queue.NotificationEvent) {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.events = append(rec.events, ev)
	}
	t.Cleanup(func() { dispatch = old })
	return rec
}

func (r *eventRecorder) all() []queue.NotificationEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]queue.NotificationEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *eventRecorder) sentTo(email string) int {
	count := 0
	for _, ev := range r.all() {
		for _, rcpt := range ev.Recipients {
			if rcpt.Email == email {
				count++
			}
		}
	}
	return count
}

func seedUser(t *testing.T, db *gorm.DB, roleID int, email string) models.User {
	t.Helper()
	now := time.Now()
	hash := "x"
	user := models.User{
		UserFname: "Test",
		UserLname: email,
		Email:     email,
		Password:  &hash,
		RoleID:    roleID,
		CreateAt:  &now,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedConference(t *testing.T, db *gorm.DB, deadline time.Time) models.Conference {
	t.Helper()
	conference := models.Conference{
		ConferenceName:     "GopherConf",
		SubmissionDeadline: deadline,
		Location:           "Berlin",
		Description:        "Annual systems conference",
		CreateAt:           time.Now(),
	}
	require.NoError(t, db.Create(&conference).Error)
	return conference
}

func seedPaper(t *testing.T, db *gorm.DB, authorID, conferenceID int, status string) models.Paper {
	t.Helper()
	paper := models.Paper{
		Title:          "A Study of Things",
		Abstract:       "We study things.",
		FilePath:       "uploads/u1/papers/orig.pdf",
		FileURL:        "http://localhost:8080/uploads/u1/papers/orig.pdf",
		AuthorID:       authorID,
		ConferenceID:   conferenceID,
		Status:         status,
		CurrentVersion: 1,
		SubmittedAt:    time.Now(),
	}
	require.NoError(t, db.Create(&paper).Error)
	return paper
}

func requireWorkflowStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	wErr, ok := err.(*WorkflowError)
	require.True(t, ok, "expected WorkflowError, got %T: %v", err, err)
	require.Equal(t, status, wErr.Status, "unexpected status for %v", err)
}

func testFile(name string) StoredFile {
	return StoredFile{
		Path:         "uploads/u1/papers/" + name,
		URL:          "http://localhost:8080/uploads/u1/papers/" + name,
		OriginalName: name,
		Size:         1024,
		MimeType:     "application/pdf",
	}
}
