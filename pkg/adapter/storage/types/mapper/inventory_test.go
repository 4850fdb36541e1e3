package mapper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gitlab.apk-group.net/siem/backend/asset-visibility/pkg/adapter/storage/types"
	"gitlab.apk-group.net/siem/backend/asset-visibility/pkg/adapter/storage/types/mapper"
	domainFixtures "gitlab.apk-group.net/siem/backend/asset-visibility/tests/fixtures/domain"
)

func TestSplitSourceTables(t *testing.T) {
	assert.Equal(t, []string{"splunk", "cmdb"}, mapper.SplitSourceTables(" splunk,cmdb , splunk,,"))
	assert.Equal(t, []string{}, mapper.SplitSourceTables("  "))
}

func TestJoinSourceTables(t *testing.T) {
	assert.Equal(t, "splunk, cmdb", mapper.JoinSourceTables([]string{"splunk", " cmdb", "splunk"}))
	assert.Equal(t, "", mapper.JoinSourceTables(nil))
}

func TestAssetInventoryMapping(t *testing.T) {
	record := domainFixtures.NewTestAssetRecord("host-1")

	row := mapper.AssetInventoryDomain2Storage(record)
	assert.Equal(t, "splunk, crowdstrike, tanium, cmdb", row.SourceTables)
	assert.Equal(t, "asset_inventory", types.AssetInventory{}.TableName())

	assert.Equal(t, record, mapper.AssetInventoryStorage2Domain(row))
}

func TestAssetInventoryStorage2Domain_Normalizes(t *testing.T) {
	record := mapper.AssetInventoryStorage2Domain(types.AssetInventory{
		HostID:               "h1",
		SystemClassification: "PRODUCTION",
		SplunkStatus:         "",
	})

	assert.Equal(t, "production", record.SystemClassification)
	assert.Equal(t, "absent", record.SplunkStatus)
	assert.Empty(t, record.SourceTables)
}
