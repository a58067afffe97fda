package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"conference-management-api/models"
	"conference-management-api/queue"
)

// dispatch hands a notification event to the outbound queue. Swapped out in
// tests to capture events synchronously.
var dispatch = asyncDispatch

// asyncDispatch publishes after the triggering write has committed; a broker
// failure degrades to direct delivery and either way the caller never sees an
// error.
func asyncDispatch(ev queue.NotificationEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := queue.Publish(ctx, ev); err != nil {
			queue.Deliver(ev)
		}
	}()
}

func recipientOf(u models.User) queue.Recipient {
	return queue.Recipient{Name: u.FullName(), Email: u.Email}
}

// createInAppNotification writes one notification row. Failures are logged,
// never propagated: in-app notifications are best-effort like email.
func createInAppNotification(db *gorm.DB, userID int, title, message, typ string, paperID *int) {
	var related *uint
	if paperID != nil {
		v := uint(*paperID)
		related = &v
	}
	n := models.Notification{
		UserID:         uint(userID),
		Title:          title,
		Message:        message,
		Type:           typ,
		RelatedPaperID: related,
		IsRead:         false,
		CreateAt:       time.Now(),
	}
	if err := db.Create(&n).Error; err != nil {
		log.Printf("notification: failed to create in-app row for user %d: %v", userID, err)
	}
}

func adminUsers(db *gorm.DB) []models.User {
	var admins []models.User
	if err := db.Where("role_id = ?", models.RoleAdmin).Find(&admins).Error; err != nil {
		log.Printf("notification: failed to load admin users: %v", err)
	}
	return admins
}

func notifyPaperSubmitted(db *gorm.DB, paper *models.Paper, author models.User) {
	conferenceName := ""
	if paper.Conference != nil {
		conferenceName = paper.Conference.ConferenceName
	}

	title := "Paper submission received"
	body := fmt.Sprintf("Your paper %q has been submitted to %s and is awaiting reviewer assignment.",
		paper.Title, conferenceName)
	createInAppNotification(db, author.UserID, title, body, "success", &paper.PaperID)
	dispatch(queue.NotificationEvent{
		Type:       queue.EventPaperSubmitted,
		Recipients: []queue.Recipient{recipientOf(author)},
		Subject:    title,
		Body:       body,
		PaperID:    paper.PaperID,
		OccurredAt: time.Now(),
	})

	admins := adminUsers(db)
	adminBody := fmt.Sprintf("%s submitted the paper %q to %s.", author.FullName(), paper.Title, conferenceName)
	adminRecipients := make([]queue.Recipient, 0, len(admins))
	for _, a := range admins {
		createInAppNotification(db, a.UserID, "New paper submission", adminBody, "info", &paper.PaperID)
		adminRecipients = append(adminRecipients, recipientOf(a))
	}
	dispatch(queue.NotificationEvent{
		Type:       queue.EventPaperSubmitted,
		Recipients: adminRecipients,
		Subject:    "New paper submission",
		Body:       adminBody,
		PaperID:    paper.PaperID,
		OccurredAt: time.Now(),
	})
}

func notifyPaperResubmitted(db *gorm.DB, paper *models.Paper, author models.User) {
	title := "Paper resubmission received"
	body := fmt.Sprintf("Version %d of your paper %q has been received and is awaiting review.",
		paper.CurrentVersion, paper.Title)
	createInAppNotification(db, author.UserID, title, body, "success", &paper.PaperID)
	dispatch(queue.NotificationEvent{
		Type:       queue.EventPaperResubmitted,
		Recipients: []queue.Recipient{recipientOf(author)},
		Subject:    title,
		Body:       body,
		PaperID:    paper.PaperID,
		OccurredAt: time.Now(),
	})

	admins := adminUsers(db)
	adminBody := fmt.Sprintf("%s resubmitted the paper %q (version %d).",
		author.FullName(), paper.Title, paper.CurrentVersion)
	adminRecipients := make([]queue.Recipient, 0, len(admins))
	for _, a := range admins {
		createInAppNotification(db, a.UserID, "Paper resubmitted", adminBody, "info", &paper.PaperID)
		adminRecipients = append(adminRecipients, recipientOf(a))
	}
	dispatch(queue.NotificationEvent{
		Type:       queue.EventPaperResubmitted,
		Recipients: adminRecipients,
		Subject:    "Paper resubmitted",
		Body:       adminBody,
		PaperID:    paper.PaperID,
		OccurredAt: time.Now(),
	})
}

func notifyPaperDecision(db *gorm.DB, paper *models.Paper, author models.User, decision string) {
	title := "Decision on your paper"
	body := fmt.Sprintf("The status of your paper %q is now %q (decision: %s).",
		paper.Title, paper.Status, decision)
	createInAppNotification(db, author.UserID, title, body, "info", &paper.PaperID)
	dispatch(queue.NotificationEvent{
		Type:       queue.EventPaperDecision,
		Recipients: []queue.Recipient{recipientOf(author)},
		Subject:    title,
		Body:       body,
		PaperID:    paper.PaperID,
		OccurredAt: time.Now(),
	})
}

func notifyReviewerAssigned(db *gorm.DB, paper *models.Paper, reviewer, author models.User) {
	reviewerBody := fmt.Sprintf("You have been assigned to review the paper %q.", paper.Title)
	createInAppNotification(db, reviewer.UserID, "Review assignment", reviewerBody, "info", &paper.PaperID)
	dispatch(queue.NotificationEvent{
		Type:       queue.EventReviewerAssigned,
		Recipients: []queue.Recipient{recipientOf(reviewer)},
		Subject:    "Review assignment",
		Body:       reviewerBody,
		PaperID:    paper.PaperID,
		OccurredAt: time.Now(),
	})

	authorBody := fmt.Sprintf("Your paper %q is now under review.", paper.Title)
	createInAppNotification(db, author.UserID, "Paper under review", authorBody, "info", &paper.PaperID)
	dispatch(queue.NotificationEvent{
		Type:       queue.EventReviewerAssigned,
		Recipients: []queue.Recipient{recipientOf(author)},
		Subject:    "Paper under review",
		Body:       authorBody,
		PaperID:    paper.PaperID,
		OccurredAt: time.Now(),
	})
}

func notifyReviewerRemoved(db *gorm.DB, paper *models.Paper, reviewer, author models.User) {
	reviewerBody := fmt.Sprintf("You are no longer assigned to review the paper %q.", paper.Title)
	createInAppNotification(db, reviewer.UserID, "Review assignment removed", reviewerBody, "warning", &paper.PaperID)
	dispatch(queue.NotificationEvent{
		Type:       queue.EventReviewerRemoved,
		Recipients: []queue.Recipient{recipientOf(reviewer)},
		Subject:    "Review assignment removed",
		Body:       reviewerBody,
		PaperID:    paper.PaperID,
		OccurredAt: time.Now(),
	})

	authorBody := fmt.Sprintf("A reviewer assignment on your paper %q was withdrawn.", paper.Title)
	createInAppNotification(db, author.UserID, "Reviewer removed", authorBody, "info", &paper.PaperID)
	dispatch(queue.NotificationEvent{
		Type:       queue.EventReviewerRemoved,
		Recipients: []queue.Recipient{recipientOf(author)},
		Subject:    "Reviewer removed",
		Body:       authorBody,
		PaperID:    paper.PaperID,
		OccurredAt: time.Now(),
	})
}

func notifyReviewSubmitted(db *gorm.DB, paper *models.Paper, reviewer models.User) {
	admins := adminUsers(db)
	body := fmt.Sprintf("%s submitted a review for the paper %q. The review is awaiting your approval.",
		reviewer.FullName(), paper.Title)
	recipients := make([]queue.Recipient, 0, len(admins))
	for _, a := range admins {
		createInAppNotification(db, a.UserID, "Review awaiting approval", body, "info", &paper.PaperID)
		recipients = append(recipients, recipientOf(a))
	}
	dispatch(queue.NotificationEvent{
		Type:       queue.EventReviewSubmitted,
		Recipients: recipients,
		Subject:    "Review awaiting approval",
		Body:       body,
		PaperID:    paper.PaperID,
		OccurredAt: time.Now(),
	})
}

func notifyReviewVerdict(db *gorm.DB, review *models.Review, reviewer, author models.User, paper *models.Paper) {
	var reviewerBody string
	switch review.Status {
	case models.ReviewStatusApproved:
		reviewerBody = fmt.Sprintf("Your review of %q was approved and is now visible to the author.", paper.Title)
	case models.ReviewStatusRejected:
		reviewerBody = fmt.Sprintf("Your review of %q was rejected by the conference administrators.", paper.Title)
	case models.ReviewStatusRevision:
		reviewerBody = fmt.Sprintf("The administrators requested a revision of your review of %q.", paper.Title)
	}
	createInAppNotification(db, reviewer.UserID, "Review verdict", reviewerBody, "info", &paper.PaperID)
	dispatch(queue.NotificationEvent{
		Type:       queue.EventReviewVerdict,
		Recipients: []queue.Recipient{recipientOf(reviewer)},
		Subject:    "Review verdict",
		Body:       reviewerBody,
		PaperID:    paper.PaperID,
		OccurredAt: time.Now(),
	})

	if review.Status != models.ReviewStatusApproved {
		return
	}
	authorBody := fmt.Sprintf("A new review of your paper %q is available.", paper.Title)
	createInAppNotification(db, author.UserID, "New review available", authorBody, "info", &paper.PaperID)
	dispatch(queue.NotificationEvent{
		Type:       queue.EventReviewVerdict,
		Recipients: []queue.Recipient{recipientOf(author)},
		Subject:    "New review available",
		Body:       authorBody,
		PaperID:    paper.PaperID,
		OccurredAt: time.Now(),
	})
}

// NotifyWelcome greets a freshly registered account.
func NotifyWelcome(db *gorm.DB, user models.User) {
	body := "Welcome to the conference management system. You can now submit papers to open conferences."
	createInAppNotification(db, user.UserID, "Welcome", body, "success", nil)
	dispatch(queue.NotificationEvent{
		Type:       queue.EventUserWelcome,
		Recipients: []queue.Recipient{recipientOf(user)},
		Subject:    "Welcome",
		Body:       body,
		OccurredAt: time.Now(),
	})
}

// NotifyLoginAlert emails a sign-in alert. No in-app row; the user is already
// looking at the application.
func NotifyLoginAlert(user models.User, when time.Time) {
	body := fmt.Sprintf("Your account signed in on %s. If this was not you, change your password immediately.",
		when.Format("02 Jan 2006 15:04 MST"))
	dispatch(queue.NotificationEvent{
		Type:       queue.EventUserLogin,
		Recipients: []queue.Recipient{recipientOf(user)},
		Subject:    "New sign-in to your account",
		Body:       body,
		OccurredAt: when,
	})
}
