package utils

import (
	"strings"
	"testing"
)

func TestBannerKey(t *testing.T) {
	key := BannerKey("Friday Night Squad!", "poster.PNG")
	if !strings.HasPrefix(key, "tournaments/banners/friday-night-squad-") {
		t.Fatalf("unexpected prefix: %s", key)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Fatalf("extension not normalized: %s", key)
	}
}

func TestBannerKeyDefaults(t *testing.T) {
	key := BannerKey("", "upload")
	if !strings.HasPrefix(key, "tournaments/banners/banner-") || !strings.HasSuffix(key, ".jpg") {
		t.Fatalf("unexpected key: %s", key)
	}
}
