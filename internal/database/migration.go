package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blogapi/pkg/database"
	"blogapi/pkg/logger"
)

const migrationsCollection = "migrations"

type Migration struct {
	Name      string    `bson:"_id"`
	AppliedAt time.Time `bson:"appliedAt"`
}

type MigrationFunc func(ctx context.Context, cm *database.ConnectionManager) error

type MigrationService struct {
	cm     *database.ConnectionManager
	logger logger.Logger
}

func NewMigrationService(cm *database.ConnectionManager, logger logger.Logger) *MigrationService {
	return &MigrationService{
		cm:     cm,
		logger: logger,
	}
}

func (m *MigrationService) IsMigrationApplied(ctx context.Context, name string) (bool, error) {
	coll, err := m.cm.Collection(ctx, migrationsCollection)
	if err != nil {
		return false, err
	}

	count, err := coll.CountDocuments(ctx, bson.M{"_id": name})
	if err != nil {
		m.logger.Error("Migration state could not be checked", logger.Fields{"name": name, "error": err.Error()})
		return false, err
	}

	return count > 0, nil
}

func (m *MigrationService) RecordMigration(ctx context.Context, name string) error {
	coll, err := m.cm.Collection(ctx, migrationsCollection)
	if err != nil {
		return err
	}

	_, err = coll.InsertOne(ctx, Migration{Name: name, AppliedAt: time.Now().UTC()})
	if err != nil {
		m.logger.Error("Migration could not be recorded", logger.Fields{"name": name, "error": err.Error()})
		return err
	}

	return nil
}

// ApplyMigration runs fn unless a migration with the same name is already
// recorded. Migrations must be safe to re-run, since the run and the record
// are not atomic.
func (m *MigrationService) ApplyMigration(ctx context.Context, name string, fn MigrationFunc) error {
	applied, err := m.IsMigrationApplied(ctx, name)
	if err != nil {
		return err
	}

	if applied {
		m.logger.Debug("Migration already applied", logger.Fields{"name": name})
		return nil
	}

	m.logger.Info("Applying migration", logger.Fields{"name": name})

	if err := fn(ctx, m.cm); err != nil {
		m.logger.Error("Migration failed", logger.Fields{"name": name, "error": err.Error()})
		return err
	}

	if err := m.RecordMigration(ctx, name); err != nil {
		return err
	}

	m.logger.Info("Migration applied", logger.Fields{"name": name})
	return nil
}

func (m *MigrationService) RunMigrations(ctx context.Context) error {
	m.logger.Info("Running migrations", logger.Fields{})

	migrations := []struct {
		Name string
		Func MigrationFunc
	}{
		{"create_users_indexes", CreateUsersIndexes},
		{"create_categories_indexes", CreateCategoriesIndexes},
		{"create_blogs_indexes", CreateBlogsIndexes},
		{"create_audit_logs_indexes", CreateAuditLogsIndexes},
	}

	for _, migration := range migrations {
		if err := m.ApplyMigration(ctx, migration.Name, migration.Func); err != nil {
			return fmt.Errorf("migration %s failed: %w", migration.Name, err)
		}
	}

	return nil
}

func createIndexes(ctx context.Context, cm *database.ConnectionManager, collection string, models ...mongo.IndexModel) error {
	coll, err := cm.Collection(ctx, collection)
	if err != nil {
		return err
	}

	_, err = coll.Indexes().CreateMany(ctx, models)
	return err
}

func CreateUsersIndexes(ctx context.Context, cm *database.ConnectionManager) error {
	return createIndexes(ctx, cm, "users",
		mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		mongo.IndexModel{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	)
}

func CreateCategoriesIndexes(ctx context.Context, cm *database.ConnectionManager) error {
	return createIndexes(ctx, cm, "categories",
		mongo.IndexModel{Keys: bson.D{{Key: "user", Value: 1}}},
	)
}

func CreateBlogsIndexes(ctx context.Context, cm *database.ConnectionManager) error {
	return createIndexes(ctx, cm, "blogs",
		mongo.IndexModel{Keys: bson.D{
			{Key: "user", Value: 1},
			{Key: "category", Value: 1},
			{Key: "createdAt", Value: 1},
		}},
	)
}

func CreateAuditLogsIndexes(ctx context.Context, cm *database.ConnectionManager) error {
	return createIndexes(ctx, cm, "audit_logs",
		mongo.IndexModel{Keys: bson.D{
			{Key: "entityType", Value: 1},
			{Key: "entityId", Value: 1},
		}},
		mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	)
}
