package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/gripfinance/grip-backend/internal/database"
	"github.com/gripfinance/grip-backend/internal/model"
	"github.com/gripfinance/grip-backend/internal/version"
)

// sipTrackingSchemaVersion is the migration that added holding SIP columns.
const sipTrackingSchemaVersion = 2

// SystemService handles system-related operations
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{
		db: db,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth(ctx context.Context) error {
	return database.HealthCheck(ctx, s.db)
}

// CheckVersion reports the application version, the schema version and which
// features the schema supports.
func (s *SystemService) CheckVersion(ctx context.Context) (model.VersionInfo, error) {
	status, err := database.SchemaStatus(ctx, s.db)
	if err != nil {
		return model.VersionInfo{}, err
	}

	info := model.VersionInfo{
		AppVersion: version.Version,
		DbVersion:  strconv.FormatInt(status.Version, 10),
		Features: map[string]bool{
			model.FeatureStatementImport: status.Version >= 1,
			model.FeatureSIPDetection:    status.Version >= sipTrackingSchemaVersion,
		},
		MigrationNeeded: status.Pending,
	}
	if status.Pending {
		msg := fmt.Sprintf("database schema version %d is behind, run migrations", status.Version)
		info.MigrationMessage = &msg
	}

	return info, nil
}
