package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UploadRoot returns the base directory for stored files (UPLOAD_PATH,
// default ./uploads).
func UploadRoot() string {
	root := os.Getenv("UPLOAD_PATH")
	if root == "" {
		root = "./uploads"
	}
	return root
}

// CreateUserFolderIfNotExists ensures the per-user folder and the requested
// subfolder ("papers" or "reviews") exist and returns the subfolder path.
func CreateUserFolderIfNotExists(userID int, kind string) (string, error) {
	dir := filepath.Join(UploadRoot(), fmt.Sprintf("u%d", userID), kind)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create upload folder %s: %w", dir, err)
	}
	return dir, nil
}

// GenerateUniqueFilename keeps the original extension but prefixes a random
// id so uploads with the same name never collide.
func GenerateUniqueFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, base)
	if base == "" {
		base = "file"
	}
	return fmt.Sprintf("%s-%s%s", uuid.NewString()[:8], base, ext)
}

// PublicFileURL maps a stored path under the upload root to the URL the file
// is served from.
func PublicFileURL(storedPath string) string {
	base := strings.TrimRight(os.Getenv("APP_BASE_URL"), "/")
	if base == "" {
		base = "http://localhost:8080"
	}
	rel, err := filepath.Rel(UploadRoot(), storedPath)
	if err != nil {
		rel = filepath.Base(storedPath)
	}
	return base + "/uploads/" + filepath.ToSlash(rel)
}
