package services

import "conference-management-api/models"

// Principal is the authenticated actor a workflow operation runs on behalf of.
// The auth middleware resolves it once per request and handlers pass it down
// explicitly; nothing in this package reads ambient session state.
type Principal struct {
	UserID int
	Email  string
	RoleID int
}

func (p Principal) IsAuthor() bool   { return p.RoleID == models.RoleAuthor }
func (p Principal) IsReviewer() bool { return p.RoleID == models.RoleReviewer }
func (p Principal) IsAdmin() bool    { return p.RoleID == models.RoleAdmin }
