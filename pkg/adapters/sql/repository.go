// Package sql stores artifacts in a relational table through gorm.
// SQLite and PostgreSQL are supported; the dialect follows the DSN.
package sql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/introspection"
	"github.com/bmatcuk/doublestar/v4"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"

	"github.com/aretw0/studykit/pkg/core"
)

// artifactRow is one stored artifact.
type artifactRow struct {
	Key       string `gorm:"column:artifact_key;primaryKey;size:512"`
	Data      []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (artifactRow) TableName() string { return "studykit_artifacts" }

// Config holds the configuration for the SQL repository.
type Config struct {
	// DSN selects the database. postgres:// and postgresql:// URLs and
	// key=value strings containing host= open PostgreSQL; anything else is a
	// SQLite file path (":memory:" included).
	DSN      string
	ReadOnly bool
	Logger   *slog.Logger
}

// Repository implements core.Repository on a SQL table.
type Repository struct {
	db      *gorm.DB
	config  Config
	dialect string
}

// Open connects to the database named by the DSN.
func Open(config Config) (*Repository, error) {
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}

	dialect := Dialect(config.DSN)
	var dialector gorm.Dialector
	switch dialect {
	case "postgres":
		dialector = postgres.Open(config.DSN)
	default:
		dialector = sqlite.Open(config.DSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.New(slogWriter{config.Logger}, gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", dialect, err)
	}
	return &Repository{db: db, config: config, dialect: dialect}, nil
}

// Dialect reports which driver a DSN selects: "postgres" or "sqlite".
func Dialect(dsn string) string {
	d := strings.TrimSpace(dsn)
	if strings.HasPrefix(d, "postgres://") || strings.HasPrefix(d, "postgresql://") || strings.Contains(d, "host=") {
		return "postgres"
	}
	return "sqlite"
}

// Initialize creates the artifacts table when missing.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.ReadOnly {
		return nil
	}
	if err := r.db.WithContext(ctx).AutoMigrate(&artifactRow{}); err != nil {
		return fmt.Errorf("failed to migrate artifacts table: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Save inserts or replaces the artifact stored under key.
func (r *Repository) Save(ctx context.Context, key string, data []byte) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	row := artifactRow{Key: key, Data: data}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "artifact_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Get returns the data stored under key.
func (r *Repository) Get(ctx context.Context, key string) ([]byte, error) {
	var row artifactRow
	err := r.db.WithContext(ctx).Where("artifact_key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", core.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return row.Data, nil
}

// List returns the sorted keys matching a doublestar pattern.
func (r *Repository) List(ctx context.Context, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}
	var all []string
	if err := r.db.WithContext(ctx).Model(&artifactRow{}).Pluck("artifact_key", &all).Error; err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	keys := make([]string, 0, len(all))
	for _, k := range all {
		if match, _ := doublestar.Match(pattern, k); match {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *Repository) Delete(ctx context.Context, key string) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := r.db.WithContext(ctx).Where("artifact_key = ?", key).Delete(&artifactRow{}).Error; err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Dialect  string `json:"dialect"`
	ReadOnly bool   `json:"read_only"`
	Open     int    `json:"open_connections"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	state := RepositoryState{Dialect: r.dialect, ReadOnly: r.config.ReadOnly}
	if sqlDB, err := r.db.DB(); err == nil {
		state.Open = sqlDB.Stats().OpenConnections
	}
	return state
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "sql-repository"
}

// slogWriter routes gorm's printf-style logger into slog.
type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Printf(format string, args ...any) {
	w.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "gorm")
}

var (
	_ core.Repository              = (*Repository)(nil)
	_ introspection.Introspectable = (*Repository)(nil)
	_ introspection.Component      = (*Repository)(nil)
)
