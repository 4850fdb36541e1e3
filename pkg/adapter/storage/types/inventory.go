package types

import (
	"time"
)

// AssetInventory is the unified per-host inventory table. It is written by the
// ingestion pipeline; this service only reads it.
type AssetInventory struct {
	HostID string `gorm:"column:host_id;size:191;primaryKey"`
	FQDN   string `gorm:"column:fqdn;size:255"`

	Region               string `gorm:"column:region;size:100;index"`
	Country              string `gorm:"column:country;size:100"`
	BusinessUnit         string `gorm:"column:business_unit;size:150;index"`
	Executive            string `gorm:"column:executive;size:150"`
	SystemClassification string `gorm:"column:system_classification;size:50;index"`
	InfrastructureType   string `gorm:"column:infrastructure_type;size:100;index"`
	Domain               string `gorm:"column:domain;size:255;index"`
	AssetClass           string `gorm:"column:asset_class;size:100"`

	SplunkStatus      string `gorm:"column:splunk_status;size:50;default:'absent'"`
	ChronicleStatus   string `gorm:"column:chronicle_status;size:50;default:'absent'"`
	CrowdStrikeStatus string `gorm:"column:crowdstrike_status;size:50;default:'absent'"`
	TaniumStatus      string `gorm:"column:tanium_status;size:50;default:'absent'"`
	DLPStatus         string `gorm:"column:dlp_status;size:50;default:'absent'"`
	APMStatus         string `gorm:"column:apm_status;size:50;default:'absent'"`
	CMDBPresent       string `gorm:"column:cmdb_present;size:10;default:'absent'"`

	DataQualityScore float64   `gorm:"column:data_quality_score;type:decimal(5,2);default:0.00"`
	SourceCount      int       `gorm:"column:source_count;default:0"`
	SourceTables     string    `gorm:"column:source_tables;type:text"`
	LastUpdated      time.Time `gorm:"column:last_updated"`
}

func (AssetInventory) TableName() string {
	return "asset_inventory"
}
