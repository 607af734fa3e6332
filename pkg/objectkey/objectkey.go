package objectkey

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Object keys are namespaced so that every stored object can be traced back
// to its owning record, and a random component makes them unique even when
// two uploads carry the same filename.

// ForPropertyImage builds the key for a property image upload:
// properties/{ownerID}/{propertyID}/{uuid}{ext}
func ForPropertyImage(ownerID, propertyID uint, filename string) string {
	return fmt.Sprintf("properties/%d/%d/%s%s", ownerID, propertyID, uuid.New().String(), ext(filename))
}

// ForProfilePicture builds the key for a user profile picture:
// avatars/{userID}/{uuid}{ext}
func ForProfilePicture(userID uint, filename string) string {
	return fmt.Sprintf("avatars/%d/%s%s", userID, uuid.New().String(), ext(filename))
}

// ext extracts a safe lowercase extension from an uploaded filename.
// Anything suspicious is dropped rather than sanitized.
func ext(filename string) string {
	e := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(e) < 2 || len(e) > 8 {
		return ""
	}
	for _, r := range e[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return e
}
