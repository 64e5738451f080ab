package model

import (
	"fmt"
	"time"

	"coinsreg/pkg/config"
	"coinsreg/pkg/model/xgorm"
	"coinsreg/pkg/xlog"

	"github.com/go-redis/redis/v8"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var (
	db     *gorm.DB
	rds    *redis.Client
	logger = xlog.GetLogger()
)

// DBInit opens the connections enabled in config.Shared
func DBInit() (err error) {
	if config.Shared.MySQL.Main.Enabled {
		db, err = OpenMySQL(config.Shared.MySQL.Main, config.Shared.IsDebug)
		if err != nil {
			return
		}
	}
	if config.Shared.Redis.Main.Enabled {
		rds = OpenRedis(config.Shared.Redis.Main)
	}
	return
}

// GormLogger routes gorm output to xlog, sql statements only in debug mode
func GormLogger(debug bool) xgorm.Interface {
	logMode := gormLogger.Info
	if !debug {
		logMode = gormLogger.Warn
	}
	return xgorm.New(
		nil,
		gormLogger.Config{
			SlowThreshold:             time.Second, // Slow SQL threshold
			LogLevel:                  logMode,     // Log level
			IgnoreRecordNotFoundError: true,        // Ignore ErrRecordNotFound error for logger
			Colorful:                  debug,
		},
	)
}

func OpenMySQL(cfg config.MySQLServer, debug bool) (*gorm.DB, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("empty mysql host")
	}

	logger.Infof("mysql connecting tcp(%s:%d)/%s", cfg.Host, cfg.Port, cfg.DB)

	url := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User, cfg.Pass, cfg.Host, cfg.Port, cfg.DB,
	)

	db, err := gorm.Open(mysql.Open(url), &gorm.Config{
		SkipDefaultTransaction: false,
		Logger:                 GormLogger(debug),
	})
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	sqlDB.SetConnMaxLifetime(10 * time.Hour)
	sqlDB.SetMaxIdleConns(20)

	logger.Infof("mysql connected tcp(%s:%d)/%s", cfg.Host, cfg.Port, cfg.DB)

	return db, nil
}

func OpenRedis(cfg config.RedisServer) *redis.Client {
	logger.Infof("redis connecting %s[%d]", cfg.Addr, cfg.DB)

	opts := redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Pass,
		DB:       cfg.DB,
	}
	if cfg.Timeout > 0 {
		opts.ReadTimeout = time.Duration(cfg.Timeout) * time.Second
		opts.WriteTimeout = opts.ReadTimeout
	}

	return redis.NewClient(&opts)
}

func GetRedis() *redis.Client {
	return rds
}

func GetMySQL() *gorm.DB {
	return db
}
