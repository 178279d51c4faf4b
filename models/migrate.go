package models

import "gorm.io/gorm"

// AutoMigrate creates or updates every table the portal owns and seeds the
// singleton settings and marquee rows when they are missing.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&UserProfile{},
		&Tournament{},
		&PlayerRecord{},
		&Transaction{},
		&SupportMessage{},
		&Notice{},
		&AdminSettings{},
		&Marquee{},
		&LocalAccount{},
		&LocalSession{},
	); err != nil {
		return err
	}

	settings := DefaultSettings()
	if err := db.FirstOrCreate(&settings, AdminSettings{ID: SingletonID}).Error; err != nil {
		return err
	}
	marquee := Marquee{ID: SingletonID, Text: DefaultMarqueeText}
	return db.FirstOrCreate(&marquee, Marquee{ID: SingletonID}).Error
}
