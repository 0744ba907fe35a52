package database

import (
	"fmt"

	"poll-service/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewPostgresConnection(dburi string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dburi), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		AllowGlobalUpdate:                        false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %v", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)

	if err := db.AutoMigrate(
		&models.Poll{},
		&models.Option{},
		&models.Vote{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %v", err)
	}

	if err := addIndexes(db); err != nil {
		return nil, fmt.Errorf("failed to add indexes: %v", err)
	}

	return db, nil
}

func addIndexes(db *gorm.DB) error {
	// The composite unique index is the synchronization point for duplicate
	// vote detection; make sure it exists even on databases migrated by older
	// schema versions.
	stmts := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_votes_user_poll ON votes (poll_id, user_id)",
		"CREATE INDEX IF NOT EXISTS idx_votes_option ON votes (option_id)",
		"CREATE INDEX IF NOT EXISTS idx_polls_active ON polls (is_active)",
		"CREATE INDEX IF NOT EXISTS idx_polls_created_at ON polls (created_at DESC)",
	}

	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}
