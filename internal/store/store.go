package store

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/revisely/dkt/internal/config"
)

// Sentinel errors shared by the repos.
var (
	// ErrDuplicateInteraction means the interaction id was already ingested.
	// Callers treat it as an idempotent no-op, not a failure.
	ErrDuplicateInteraction = errors.New("duplicate interaction")

	// ErrWriteConflict means an optimistic-lock update lost the race.
	// Transient: callers retry with a fresh read.
	ErrWriteConflict = errors.New("write conflict")

	// ErrNotFound means the requested row does not exist.
	ErrNotFound = errors.New("not found")
)

// Store holds the gorm handle and provides access to repositories.
type Store struct {
	db *gorm.DB
}

// Open connects to the configured database, applies sqlite pragmas when
// applicable, and runs auto-migration.
func Open(cfg *config.Config) (*Store, error) {
	dsn, err := cfg.GetDatabaseDSN()
	if err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch cfg.Database.Type {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		if err := ensureDir(dsn); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if cfg.Database.Type == "sqlite" {
		if err := applyPragmas(db); err != nil {
			return nil, fmt.Errorf("apply pragmas: %w", err)
		}
	}

	if err := db.AutoMigrate(&Interaction{}, &SkillMastery{}, &InsightsSnapshot{}); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	log.Printf("store: connected (%s)", cfg.Database.Type)
	return &Store{db: db}, nil
}

// OpenInMemory opens a throwaway in-memory sqlite store for tests. Each
// call gets its own database; shared cache keeps it alive across the
// connection pool.
func OpenInMemory() (*Store, error) {
	dsn := fmt.Sprintf("file:mem%s?mode=memory&cache=shared", uuid.New().String()[:8])
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open in-memory database: %w", err)
	}
	if err := db.AutoMigrate(&Interaction{}, &SkillMastery{}, &InsightsSnapshot{}); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// DB returns the underlying gorm handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Interactions returns the interaction repository.
func (s *Store) Interactions() InteractionRepo {
	return &interactionRepo{db: s.db}
}

// Mastery returns the skill mastery repository.
func (s *Store) Mastery() MasteryRepo {
	return &masteryRepo{db: s.db}
}

// Snapshots returns the insights snapshot repository.
func (s *Store) Snapshots() SnapshotRepo {
	return &snapshotRepo{db: s.db}
}

// applyPragmas configures sqlite for concurrent request handling.
func applyPragmas(db *gorm.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if err := db.Exec(p).Error; err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// ensureDir creates the parent directory of path if it doesn't exist.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
