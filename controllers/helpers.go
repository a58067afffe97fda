package controllers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"conference-management-api/config"
	"conference-management-api/services"
	"conference-management-api/utils"
)

const maxUploadSize = 10 * 1024 * 1024 // 10MB

func getDB() *gorm.DB { return config.DB }

// principalFromContext builds the explicit Principal every workflow call
// takes, from the values the auth middleware put on the context.
func principalFromContext(c *gin.Context) (services.Principal, bool) {
	userID, okUser := c.Get("userID")
	roleID, okRole := c.Get("roleID")
	if !okUser || !okRole {
		return services.Principal{}, false
	}
	email, _ := c.Get("email")
	emailStr, _ := email.(string)
	return services.Principal{
		UserID: userID.(int),
		Email:  emailStr,
		RoleID: roleID.(int),
	}, true
}

// respondError maps workflow errors to their HTTP status; anything else is a
// datastore failure reported as a generic 500.
func respondError(c *gin.Context, err error) {
	var wErr *services.WorkflowError
	if errors.As(err, &wErr) {
		c.JSON(wErr.Status, gin.H{"error": wErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// savePDFUpload validates and stores the uploaded file from the given form
// field under the user's folder. Callers must remove the file when the
// follow-up write fails.
func savePDFUpload(c *gin.Context, field string, userID int, kind string) (*services.StoredFile, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return nil, services.Invalid("No file uploaded")
	}

	if file.Size > maxUploadSize {
		return nil, services.Invalid("File size exceeds 10MB limit")
	}

	if strings.ToLower(filepath.Ext(file.Filename)) != ".pdf" {
		return nil, services.Invalid("Only PDF files are allowed")
	}

	folder, err := utils.CreateUserFolderIfNotExists(userID, kind)
	if err != nil {
		return nil, err
	}

	storedName := utils.GenerateUniqueFilename(file.Filename)
	fullPath := filepath.Join(folder, storedName)

	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		return nil, err
	}

	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/pdf"
	}

	return &services.StoredFile{
		Path:         fullPath,
		URL:          utils.PublicFileURL(fullPath),
		OriginalName: file.Filename,
		Size:         file.Size,
		MimeType:     mimeType,
	}, nil
}

func removeStoredFile(f *services.StoredFile) {
	if f != nil && f.Path != "" {
		_ = os.Remove(f.Path)
	}
}
