package model

// Feature flags reported in VersionInfo.Features. Each is true once the
// schema carries the tables and columns the feature needs.
const (
	FeatureStatementImport = "statement_import"
	FeatureSIPDetection    = "sip_detection"
)

// VersionInfo is returned by GET /api/system/version.
type VersionInfo struct {
	AppVersion string `json:"app_version"`
	// DbVersion is the goose version of the applied schema.
	DbVersion string          `json:"db_version"`
	Features  map[string]bool `json:"features"`
	// MigrationNeeded is set when embedded migrations are not yet applied.
	MigrationNeeded  bool    `json:"migration_needed"`
	MigrationMessage *string `json:"migration_message,omitempty"`
}
