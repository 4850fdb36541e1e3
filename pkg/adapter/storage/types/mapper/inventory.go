package mapper

import (
	"strings"

	inventoryDomain "gitlab.apk-group.net/siem/backend/asset-visibility/internal/inventory/domain"
	"gitlab.apk-group.net/siem/backend/asset-visibility/pkg/adapter/storage/types"
)

// sourceTablesSeparator joins the multi-value source_tables column
const sourceTablesSeparator = ", "

// AssetInventoryStorage2Domain maps an inventory row onto the domain record
// with standardized casing and absent sentinels
func AssetInventoryStorage2Domain(row types.AssetInventory) inventoryDomain.AssetRecord {
	return inventoryDomain.Normalize(inventoryDomain.AssetRecord{
		HostID:               row.HostID,
		FQDN:                 row.FQDN,
		Region:               row.Region,
		Country:              row.Country,
		BusinessUnit:         row.BusinessUnit,
		Executive:            row.Executive,
		SystemClassification: row.SystemClassification,
		InfrastructureType:   row.InfrastructureType,
		Domain:               row.Domain,
		AssetClass:           row.AssetClass,
		SplunkStatus:         row.SplunkStatus,
		ChronicleStatus:      row.ChronicleStatus,
		CrowdStrikeStatus:    row.CrowdStrikeStatus,
		TaniumStatus:         row.TaniumStatus,
		DLPStatus:            row.DLPStatus,
		APMStatus:            row.APMStatus,
		CMDBPresent:          row.CMDBPresent,
		DataQualityScore:     row.DataQualityScore,
		SourceCount:          row.SourceCount,
		SourceTables:         SplitSourceTables(row.SourceTables),
		LastUpdated:          row.LastUpdated,
	})
}

// AssetInventoryDomain2Storage is the inverse mapping, used by fixtures and the
// snapshot loader
func AssetInventoryDomain2Storage(record inventoryDomain.AssetRecord) types.AssetInventory {
	return types.AssetInventory{
		HostID:               record.HostID,
		FQDN:                 record.FQDN,
		Region:               record.Region,
		Country:              record.Country,
		BusinessUnit:         record.BusinessUnit,
		Executive:            record.Executive,
		SystemClassification: record.SystemClassification,
		InfrastructureType:   record.InfrastructureType,
		Domain:               record.Domain,
		AssetClass:           record.AssetClass,
		SplunkStatus:         record.SplunkStatus,
		ChronicleStatus:      record.ChronicleStatus,
		CrowdStrikeStatus:    record.CrowdStrikeStatus,
		TaniumStatus:         record.TaniumStatus,
		DLPStatus:            record.DLPStatus,
		APMStatus:            record.APMStatus,
		CMDBPresent:          record.CMDBPresent,
		DataQualityScore:     record.DataQualityScore,
		SourceCount:          record.SourceCount,
		SourceTables:         JoinSourceTables(record.SourceTables),
		LastUpdated:          record.LastUpdated,
	}
}

// SplitSourceTables splits the comma separated source_tables column
func SplitSourceTables(value string) []string {
	if strings.TrimSpace(value) == "" {
		return []string{}
	}

	parts := strings.Split(value, ",")
	tables := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, part := range parts {
		table := strings.TrimSpace(part)
		if table == "" || seen[table] {
			continue
		}
		seen[table] = true
		tables = append(tables, table)
	}
	return tables
}

func JoinSourceTables(tables []string) string {
	return strings.Join(SplitSourceTables(strings.Join(tables, ",")), sourceTablesSeparator)
}
