package domain

import (
	"fmt"
	"time"

	inventoryDomain "gitlab.apk-group.net/siem/backend/asset-visibility/internal/inventory/domain"
)

// FixtureTime is the last_updated base of every fixture record
var FixtureTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// NewTestAssetRecord creates a fully covered production host
func NewTestAssetRecord(hostID string) inventoryDomain.AssetRecord {
	return inventoryDomain.AssetRecord{
		HostID:               hostID,
		FQDN:                 hostID + ".corp.example.com",
		Region:               "EMEA",
		Country:              "DE",
		BusinessUnit:         "Retail",
		Executive:            "J. Doe",
		SystemClassification: string(inventoryDomain.ClassificationProduction),
		InfrastructureType:   "On-Premise",
		Domain:               "corp.example.com",
		AssetClass:           "Server",
		SplunkStatus:         string(inventoryDomain.SplunkForwarding),
		ChronicleStatus:      string(inventoryDomain.ChronicleEnabled),
		CrowdStrikeStatus:    string(inventoryDomain.CrowdStrikeProtected),
		TaniumStatus:         string(inventoryDomain.TaniumManaged),
		DLPStatus:            string(inventoryDomain.DLPCovered),
		APMStatus:            string(inventoryDomain.APMMonitored),
		CMDBPresent:          string(inventoryDomain.CMDBYes),
		DataQualityScore:     90,
		SourceCount:          4,
		SourceTables:         []string{"splunk", "crowdstrike", "tanium", "cmdb"},
		LastUpdated:          FixtureTime,
	}
}

// NewTestUncoveredRecord creates a host no control covers
func NewTestUncoveredRecord(hostID string) inventoryDomain.AssetRecord {
	r := NewTestAssetRecord(hostID)
	r.SplunkStatus = string(inventoryDomain.SplunkNotForwarding)
	r.ChronicleStatus = string(inventoryDomain.ChronicleDisabled)
	r.CrowdStrikeStatus = string(inventoryDomain.CrowdStrikeNotProtected)
	r.TaniumStatus = string(inventoryDomain.TaniumUnmanaged)
	r.DLPStatus = string(inventoryDomain.DLPNotCovered)
	r.APMStatus = string(inventoryDomain.APMNone)
	r.CMDBPresent = string(inventoryDomain.CMDBNo)
	r.DataQualityScore = 40
	r.SourceCount = 1
	r.SourceTables = []string{"cmdb"}
	return r
}

// NewTestInventory builds an estate of total hosts where the first visible ones
// forward logs and the rest do not; every other control stays covered
func NewTestInventory(total, visible int) []inventoryDomain.AssetRecord {
	records := make([]inventoryDomain.AssetRecord, 0, total)
	for i := 0; i < total; i++ {
		r := NewTestAssetRecord(fmt.Sprintf("host-%04d", i))
		if i >= visible {
			r.SplunkStatus = string(inventoryDomain.SplunkNotForwarding)
		}
		records = append(records, r)
	}
	return records
}
