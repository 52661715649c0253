package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/thep200/github-trending/cfg"
	pkglog "github.com/thep200/github-trending/pkg/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverMysql  = "mysql"
	DriverSqlite = "sqlite"
)

type Database struct {
	Config  *cfg.Config
	once    sync.Once
	db      *gorm.DB
	initErr error
}

func NewDatabase(config *cfg.Config) (*Database, error) {
	switch config.Database.Driver {
	case DriverMysql, DriverSqlite:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}
	return &Database{
		Config: config,
	}, nil
}

func (d *Database) DSN() string {
	if d.Config.Database.Driver == DriverSqlite {
		return d.Config.Database.Path
	}

	config := mysqlDriver.Config{
		User:                 d.Config.Database.Username,
		Passwd:               d.Config.Database.Password,
		DBName:               d.Config.Database.Database,
		Addr:                 d.Config.Database.Host + ":" + d.Config.Database.Port,
		Net:                  "tcp",
		ParseTime:            true,
		AllowNativePasswords: true,
		Params:               map[string]string{"charset": "utf8mb4"},
	}
	return config.FormatDSN()
}

func (d *Database) dialector() (gorm.Dialector, error) {
	if d.Config.Database.Driver == DriverSqlite {
		if dir := filepath.Dir(d.Config.Database.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("ensure sqlite dir: %w", err)
			}
		}
		return sqlite.Open(d.DSN()), nil
	}
	return mysql.Open(d.DSN()), nil
}

// gormLogLevel keeps gorm quiet unless the pipeline logs at debug.
func (d *Database) gormLogLevel() logger.LogLevel {
	switch pkglog.ParseLevel(d.Config.Log.Level) {
	case pkglog.LevelDebug:
		return logger.Info
	case pkglog.LevelInfo, pkglog.LevelNotice, pkglog.LevelWarn:
		return logger.Warn
	default:
		return logger.Silent
	}
}

func (d *Database) Db() (*gorm.DB, error) {
	d.once.Do(func() {
		var dialector gorm.Dialector
		dialector, d.initErr = d.dialector()
		if d.initErr != nil {
			return
		}

		// Open connection
		var db *gorm.DB
		db, d.initErr = gorm.Open(dialector, &gorm.Config{
			Logger: logger.Default.LogMode(d.gormLogLevel()),
		})
		if d.initErr != nil {
			return
		}

		// Get sqlDB
		var sqlDB *sql.DB
		sqlDB, d.initErr = db.DB()
		if d.initErr != nil {
			return
		}

		// Setting connection pool
		sqlDB.SetMaxIdleConns(d.Config.Database.MaxIdleConnection)
		sqlDB.SetMaxOpenConns(d.Config.Database.MaxOpenConnection)
		sqlDB.SetConnMaxLifetime(time.Duration(d.Config.Database.MaxLifeTimeConnection) * time.Second)

		d.db = db
	})
	return d.db, d.initErr
}

func (d *Database) Ping() error {
	db, err := d.Db()
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (d *Database) Close() error {
	if d.db != nil {
		sqlDB, err := d.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

func (d *Database) Migrate(models ...interface{}) error {
	db, err := d.Db()
	if err != nil {
		return err
	}
	return db.AutoMigrate(models...)
}
