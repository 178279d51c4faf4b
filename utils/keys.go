package utils

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// BannerKey builds the object key for a tournament banner, e.g.
// "tournaments/banners/friday-night-squad-<uuid>.png".
func BannerKey(title, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	name := slug.Make(title)
	if name == "" {
		name = "banner"
	}
	if len(name) > 48 {
		name = strings.Trim(name[:48], "-")
	}
	return "tournaments/banners/" + name + "-" + uuid.NewString() + ext
}
