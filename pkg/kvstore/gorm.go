package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/oakline/storefront-backend/pkg/config"
	"github.com/oakline/storefront-backend/pkg/logger"
)

// document is the single relational table backing the store: one JSON body
// per logical key.
type document struct {
	Key       string `gorm:"column:key;primaryKey"`
	Body      []byte `gorm:"column:body"`
	UpdatedAt time.Time
}

func (document) TableName() string { return "kv_documents" }

// Gorm persists documents into SQLite or Postgres through GORM.
type Gorm struct {
	conn *gorm.DB
	logg *logger.Logger
}

// NewGorm opens the configured driver and ensures the document table exists.
func NewGorm(ctx context.Context, cfg config.KVConfig, logg *logger.Logger) (*Gorm, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case config.KVBackendSQLite:
		dialector = sqlite.Open(cfg.SQLitePath)
	case config.KVBackendPostgres:
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.PostgresDSN,
			PreferSimpleProtocol: true,
		})
	default:
		return nil, fmt.Errorf("gorm kv backend does not support %q", cfg.Backend)
	}

	silent := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 silent,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening kv connection: %w", err)
	}

	if err := conn.WithContext(ctx).AutoMigrate(&document{}); err != nil {
		return nil, fmt.Errorf("preparing kv_documents table: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "kv document store ready")
	}

	return &Gorm{conn: conn, logg: logg}, nil
}

func (g *Gorm) Load(ctx context.Context, key string, out any) bool {
	var doc document
	err := g.conn.WithContext(ctx).First(&doc, "key = ?", key).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			g.warn(ctx, key, "kv load failed", err)
		}
		return false
	}
	if err := json.Unmarshal(doc.Body, out); err != nil {
		g.warn(ctx, key, "kv document corrupt, using defaults", err)
		return false
	}
	return true
}

func (g *Gorm) Save(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		g.warn(ctx, key, "kv marshal failed, state not persisted", err)
		return
	}
	err = g.conn.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
		}).
		Create(&document{Key: key, Body: raw, UpdatedAt: time.Now().UTC()}).Error
	if err != nil {
		g.warn(ctx, key, "kv save failed, state not persisted", err)
	}
}

// Ping verifies the underlying connection is usable.
func (g *Gorm) Ping(ctx context.Context) error {
	sqlDB, err := g.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying sql connection pool.
func (g *Gorm) Close() error {
	sqlDB, err := g.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (g *Gorm) warn(ctx context.Context, key, msg string, err error) {
	if g.logg == nil {
		return
	}
	ctx = g.logg.WithStoreKey(ctx, key)
	ctx = g.logg.WithField(ctx, "error", err.Error())
	g.logg.Warn(ctx, msg)
}
