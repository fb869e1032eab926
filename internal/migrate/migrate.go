package migrate

import (
	"gorm.io/gorm"

	"github.com/step2this/social-media-app-sub011/internal/counters"
	"github.com/step2this/social-media-app-sub011/internal/followers"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&counters.Post{},
		&followers.Follow{},
	)
}
