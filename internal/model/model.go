package model

import (
	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/pkg/db"
	"github.com/thep200/github-trending/pkg/log"
)

type Model struct {
	Config   *cfg.Config  `gorm:"-" json:"-"`
	Logger   log.Logger   `gorm:"-" json:"-"`
	Database *db.Database `gorm:"-" json:"-"`
}
