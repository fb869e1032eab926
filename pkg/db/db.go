package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/step2this/social-media-app-sub011/configs"
)

type Db struct {
	DB *gorm.DB
}

func NewDb(cfg *configs.Config) (*Db, error) {
	conn, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return &Db{DB: conn}, nil
}
