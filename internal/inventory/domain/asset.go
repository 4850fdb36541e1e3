package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrDuplicateHostID = errors.New("duplicate host id in inventory")
	ErrMissingHostID   = errors.New("inventory record without host id")
)

// ComplianceLevel is the logging-standard compliance bucket of a host
type ComplianceLevel string

const (
	ComplianceFull    ComplianceLevel = "Full Compliance"
	CompliancePartial ComplianceLevel = "Partial Compliance"
	ComplianceNone    ComplianceLevel = "Non-Compliant"
)

// AssetRecord is one row of the unified asset inventory. It is owned by the
// ingestion pipeline and never modified here.
type AssetRecord struct {
	HostID string `json:"host_id"`
	FQDN   string `json:"fqdn"`

	Region               string `json:"region"`
	Country              string `json:"country"`
	BusinessUnit         string `json:"business_unit"`
	Executive            string `json:"executive"`
	SystemClassification string `json:"system_classification"`
	InfrastructureType   string `json:"infrastructure_type"`
	Domain               string `json:"domain"`
	AssetClass           string `json:"asset_class"`

	SplunkStatus      string `json:"splunk_status"`
	ChronicleStatus   string `json:"chronicle_status"`
	CrowdStrikeStatus string `json:"crowdstrike_status"`
	TaniumStatus      string `json:"tanium_status"`
	DLPStatus         string `json:"dlp_status"`
	APMStatus         string `json:"apm_status"`
	CMDBPresent       string `json:"cmdb_present"`

	DataQualityScore float64   `json:"data_quality_score"`
	SourceCount      int       `json:"source_count"`
	SourceTables     []string  `json:"source_tables"`
	LastUpdated      time.Time `json:"last_updated"`
}

// IsLogVisible reports whether the host forwards logs to the central platform
func (a AssetRecord) IsLogVisible() bool {
	return contains(ForwardingStatuses, a.SplunkStatus)
}

// IsEndpointProtected reports whether the endpoint agent covers the host
func (a AssetRecord) IsEndpointProtected() bool {
	return !contains(UnprotectedStatuses, a.CrowdStrikeStatus)
}

// IsRegistered reports whether the host is present in the configuration registry
func (a AssetRecord) IsRegistered() bool {
	return a.CMDBPresent == RegisteredValue
}

func (a AssetRecord) IsDeviceManaged() bool {
	return a.TaniumStatus == ManagedValue
}

func (a AssetRecord) IsDLPCovered() bool {
	return a.DLPStatus != NotCoveredDLPValue
}

func (a AssetRecord) IsAPMMonitored() bool {
	return !contains(UnmonitoredAPMStatuses, a.APMStatus)
}

func (a AssetRecord) IsSecondaryLogEnabled() bool {
	return a.ChronicleStatus == SecondaryLogEnabledValue
}

// Compliance classifies the host against the two logging controls
func (a AssetRecord) Compliance() ComplianceLevel {
	enabled := a.IsSecondaryLogEnabled()
	forwarding := a.IsLogVisible()
	switch {
	case enabled && forwarding:
		return ComplianceFull
	case enabled || forwarding:
		return CompliancePartial
	default:
		return ComplianceNone
	}
}

// IsCoverageGap reports whether a production or staging host misses logging,
// endpoint protection or registry presence.
func (a AssetRecord) IsCoverageGap() bool {
	if !contains(GapClassifications, strings.ToLower(a.SystemClassification)) {
		return false
	}
	return !a.IsLogVisible() || !a.IsEndpointProtected() || !a.IsRegistered()
}

// Normalize applies the standardized casing and absent sentinels to a record
func Normalize(a AssetRecord) AssetRecord {
	a.HostID = strings.TrimSpace(a.HostID)
	a.SystemClassification = strings.ToLower(strings.TrimSpace(a.SystemClassification))
	a.SplunkStatus = NormalizeStatus(a.SplunkStatus, string(SplunkAbsent))
	a.ChronicleStatus = NormalizeStatus(a.ChronicleStatus, string(ChronicleAbsent))
	a.CrowdStrikeStatus = NormalizeStatus(a.CrowdStrikeStatus, string(CrowdStrikeAbsent))
	a.TaniumStatus = NormalizeStatus(a.TaniumStatus, string(TaniumAbsent))
	a.DLPStatus = NormalizeStatus(a.DLPStatus, string(DLPAbsent))
	a.APMStatus = NormalizeStatus(a.APMStatus, string(APMAbsent))
	a.CMDBPresent = NormalizeStatus(a.CMDBPresent, string(CMDBAbsent))
	return a
}

// ValidateUnique checks the host id invariant over a whole inventory
func ValidateUnique(records []AssetRecord) error {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r.HostID == "" {
			return ErrMissingHostID
		}
		if _, ok := seen[r.HostID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateHostID, r.HostID)
		}
		seen[r.HostID] = struct{}{}
	}
	return nil
}
