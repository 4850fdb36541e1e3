package domain

import (
	"math"
	"time"

	inventoryDomain "gitlab.apk-group.net/siem/backend/asset-visibility/internal/inventory/domain"
)

// Shape contracts. Every dimension document implements exactly one of them;
// the normalizer picks the contract from its dimension table and asserts it.

// FlatDocument carries a single precomputed percentage with its counts
type FlatDocument interface {
	FlatCoverage() FlatCoverage
}

// BreakdownDocument is an array of per-key rows, each with its own percentage
type BreakdownDocument interface {
	ChildPercentages() []float64
}

// CategoryDocument is a category-to-summary map
type CategoryDocument interface {
	CategoryPercentages() map[string]float64
}

// StatusReporter is implemented by documents that may carry an explicit status
type StatusReporter interface {
	ReportedStatus() string
}

// FlatCoverage is the direct mapping input of a flat document
type FlatCoverage struct {
	Percentage float64
	Total      int
	Covered    int
}

// CoverageCounts holds raw per-control covered counts for one population
type CoverageCounts struct {
	Total               int
	LogVisible          int
	EndpointProtected   int
	Registered          int
	DeviceManaged       int
	DLPCovered          int
	APMMonitored        int
	SecondaryLogEnabled int
}

// GroupCounts holds the counts of one group; Keys follow the requested key order
type GroupCounts struct {
	Keys []string
	CoverageCounts
}

// ComplianceCounts holds the three compliance bucket sizes
type ComplianceCounts struct {
	Total        int
	Full         int
	Partial      int
	NonCompliant int
}

// Percentage returns round(covered * 100 / total, 2), or 0 for an empty population
func Percentage(covered, total int) float64 {
	if total <= 0 {
		return 0
	}
	return Round2(float64(covered) * 100 / float64(total))
}

// Round2 rounds to two decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// GlobalView is the whole-estate coverage document
type GlobalView struct {
	TotalAssets          int     `json:"total_assets"`
	SplunkVisible        int     `json:"splunk_visible"`
	SplunkCoverage       float64 `json:"splunk_coverage"`
	CrowdStrikeProtected int     `json:"crowdstrike_protected"`
	CrowdStrikeCoverage  float64 `json:"crowdstrike_coverage"`
	CMDBRegistered       int     `json:"cmdb_registered"`
	CMDBCoverage         float64 `json:"cmdb_coverage"`
	TaniumManaged        int     `json:"tanium_managed"`
	TaniumCoverage       float64 `json:"tanium_coverage"`
	DLPCovered           int     `json:"dlp_covered"`
	DLPCoverage          float64 `json:"dlp_coverage"`
	APMMonitored         int     `json:"apm_monitored"`
	APMCoverage          float64 `json:"apm_coverage"`
	ChronicleEnabled     int     `json:"chronicle_enabled"`
	ChronicleCoverage    float64 `json:"chronicle_coverage"`
	VisibilityPercentage float64 `json:"visibility_percentage"`
	Status               string  `json:"status,omitempty"`
}

func (g GlobalView) FlatCoverage() FlatCoverage {
	return FlatCoverage{Percentage: g.VisibilityPercentage, Total: g.TotalAssets, Covered: g.SplunkVisible}
}

func (g GlobalView) ReportedStatus() string { return g.Status }

// NewGlobalView derives every percentage of the global document from raw counts
func NewGlobalView(c CoverageCounts) GlobalView {
	return GlobalView{
		TotalAssets:          c.Total,
		SplunkVisible:        c.LogVisible,
		SplunkCoverage:       Percentage(c.LogVisible, c.Total),
		CrowdStrikeProtected: c.EndpointProtected,
		CrowdStrikeCoverage:  Percentage(c.EndpointProtected, c.Total),
		CMDBRegistered:       c.Registered,
		CMDBCoverage:         Percentage(c.Registered, c.Total),
		TaniumManaged:        c.DeviceManaged,
		TaniumCoverage:       Percentage(c.DeviceManaged, c.Total),
		DLPCovered:           c.DLPCovered,
		DLPCoverage:          Percentage(c.DLPCovered, c.Total),
		APMMonitored:         c.APMMonitored,
		APMCoverage:          Percentage(c.APMMonitored, c.Total),
		ChronicleEnabled:     c.SecondaryLogEnabled,
		ChronicleCoverage:    Percentage(c.SecondaryLogEnabled, c.Total),
		VisibilityPercentage: Percentage(c.LogVisible, c.Total),
	}
}

// CoverageRow is the per-group body shared by every breakdown
type CoverageRow struct {
	TotalAssets          int     `json:"total_assets"`
	SplunkVisible        int     `json:"splunk_visible"`
	CrowdStrikeProtected int     `json:"crowdstrike_protected"`
	CMDBRegistered       int     `json:"cmdb_registered"`
	VisibilityPercentage float64 `json:"visibility_percentage"`
	CrowdStrikeCoverage  float64 `json:"crowdstrike_coverage"`
	CMDBCoverage         float64 `json:"cmdb_coverage"`
}

// NewCoverageRow derives a breakdown row from raw counts
func NewCoverageRow(c CoverageCounts) CoverageRow {
	return CoverageRow{
		TotalAssets:          c.Total,
		SplunkVisible:        c.LogVisible,
		CrowdStrikeProtected: c.EndpointProtected,
		CMDBRegistered:       c.Registered,
		VisibilityPercentage: Percentage(c.LogVisible, c.Total),
		CrowdStrikeCoverage:  Percentage(c.EndpointProtected, c.Total),
		CMDBCoverage:         Percentage(c.Registered, c.Total),
	}
}

// GroupCoverage is a breakdown row over an arbitrary key set
type GroupCoverage struct {
	Keys map[string]string `json:"keys"`
	CoverageRow
}

type InfrastructureRow struct {
	InfrastructureType string `json:"infrastructure_type"`
	CoverageRow
}

type RegionRow struct {
	Region  string `json:"region"`
	Country string `json:"country"`
	CoverageRow
}

type BusinessUnitRow struct {
	BusinessUnit string `json:"business_unit"`
	Executive    string `json:"executive"`
	CoverageRow
}

type SystemClassificationRow struct {
	SystemClassification string `json:"system_classification"`
	CoverageRow
}

type DomainRow struct {
	Domain string `json:"domain"`
	CoverageRow
}

type InfrastructureBreakdown []InfrastructureRow
type RegionalBreakdown []RegionRow
type BusinessUnitBreakdown []BusinessUnitRow
type SystemClassificationBreakdown []SystemClassificationRow
type DomainBreakdown []DomainRow

func (b InfrastructureBreakdown) ChildPercentages() []float64 {
	out := make([]float64, len(b))
	for i, row := range b {
		out[i] = row.VisibilityPercentage
	}
	return out
}

func (b RegionalBreakdown) ChildPercentages() []float64 {
	out := make([]float64, len(b))
	for i, row := range b {
		out[i] = row.VisibilityPercentage
	}
	return out
}

func (b BusinessUnitBreakdown) ChildPercentages() []float64 {
	out := make([]float64, len(b))
	for i, row := range b {
		out[i] = row.VisibilityPercentage
	}
	return out
}

func (b SystemClassificationBreakdown) ChildPercentages() []float64 {
	out := make([]float64, len(b))
	for i, row := range b {
		out[i] = row.VisibilityPercentage
	}
	return out
}

func (b DomainBreakdown) ChildPercentages() []float64 {
	out := make([]float64, len(b))
	for i, row := range b {
		out[i] = row.VisibilityPercentage
	}
	return out
}

// Security control names used as category keys
const (
	ControlSplunk      = "splunk"
	ControlCrowdStrike = "crowdstrike"
	ControlCMDB        = "cmdb"
	ControlTanium      = "tanium"
	ControlDLP         = "dlp"
	ControlAPM         = "apm"
	ControlChronicle   = "chronicle"
)

// ControlSummary is the coverage of one security control
type ControlSummary struct {
	TotalAssets int     `json:"total_assets"`
	Covered     int     `json:"covered"`
	Percentage  float64 `json:"percentage"`
}

// SecurityControlCoverage maps each security control to its coverage summary
type SecurityControlCoverage struct {
	TotalAssets int                       `json:"total_assets"`
	Controls    map[string]ControlSummary `json:"controls"`
	Status      string                    `json:"status,omitempty"`
}

func (s SecurityControlCoverage) CategoryPercentages() map[string]float64 {
	out := make(map[string]float64, len(s.Controls))
	for name, summary := range s.Controls {
		out[name] = summary.Percentage
	}
	return out
}

func (s SecurityControlCoverage) ReportedStatus() string { return s.Status }

// NewSecurityControlCoverage builds the control map from raw counts
func NewSecurityControlCoverage(c CoverageCounts) SecurityControlCoverage {
	summary := func(covered int) ControlSummary {
		return ControlSummary{TotalAssets: c.Total, Covered: covered, Percentage: Percentage(covered, c.Total)}
	}
	return SecurityControlCoverage{
		TotalAssets: c.Total,
		Controls: map[string]ControlSummary{
			ControlSplunk:      summary(c.LogVisible),
			ControlCrowdStrike: summary(c.EndpointProtected),
			ControlCMDB:        summary(c.Registered),
			ControlTanium:      summary(c.DeviceManaged),
			ControlDLP:         summary(c.DLPCovered),
			ControlAPM:         summary(c.APMMonitored),
			ControlChronicle:   summary(c.SecondaryLogEnabled),
		},
	}
}

// ComplianceBucket is one row of the compliance matrix
type ComplianceBucket struct {
	ComplianceStatus string  `json:"compliance_status"`
	Count            int     `json:"count"`
	Percentage       float64 `json:"percentage"`
}

// ComplianceMatrix is the logging-standard compliance document
type ComplianceMatrix struct {
	TotalAssets int                `json:"total_assets"`
	Matrix      []ComplianceBucket `json:"matrix"`
	Status      string             `json:"status,omitempty"`
}

// FlatCoverage maps the matrix onto its full-compliance bucket
func (m ComplianceMatrix) FlatCoverage() FlatCoverage {
	for _, bucket := range m.Matrix {
		if bucket.ComplianceStatus == ComplianceFullLabel {
			return FlatCoverage{Percentage: bucket.Percentage, Total: m.TotalAssets, Covered: bucket.Count}
		}
	}
	return FlatCoverage{Total: m.TotalAssets}
}

func (m ComplianceMatrix) ReportedStatus() string { return m.Status }

// Compliance bucket labels
const (
	ComplianceFullLabel    = string(inventoryDomain.ComplianceFull)
	CompliancePartialLabel = string(inventoryDomain.CompliancePartial)
	ComplianceNoneLabel    = string(inventoryDomain.ComplianceNone)
)

// NewComplianceMatrix builds the three buckets in fixed order
func NewComplianceMatrix(c ComplianceCounts) ComplianceMatrix {
	return ComplianceMatrix{
		TotalAssets: c.Total,
		Matrix: []ComplianceBucket{
			{ComplianceStatus: ComplianceFullLabel, Count: c.Full, Percentage: Percentage(c.Full, c.Total)},
			{ComplianceStatus: CompliancePartialLabel, Count: c.Partial, Percentage: Percentage(c.Partial, c.Total)},
			{ComplianceStatus: ComplianceNoneLabel, Count: c.NonCompliant, Percentage: Percentage(c.NonCompliant, c.Total)},
		},
	}
}

// CoverageGap is a production or staging host missing a required control
type CoverageGap struct {
	HostID               string    `json:"host_id"`
	FQDN                 string    `json:"fqdn"`
	BusinessUnit         string    `json:"business_unit"`
	AssetClass           string    `json:"asset_class"`
	SystemClassification string    `json:"system_classification"`
	InfrastructureType   string    `json:"infrastructure_type"`
	SplunkStatus         string    `json:"splunk_status"`
	CrowdStrikeStatus    string    `json:"crowdstrike_status"`
	CMDBPresent          string    `json:"cmdb_present"`
	DataQualityScore     float64   `json:"data_quality_score"`
	LastUpdated          time.Time `json:"last_updated"`
}

// GapLimit caps the gap detector output. Rows past the cap are dropped, not sampled.
const GapLimit = 100

// NewCoverageGap projects an inventory record onto the gap report fields
func NewCoverageGap(a inventoryDomain.AssetRecord) CoverageGap {
	return CoverageGap{
		HostID:               a.HostID,
		FQDN:                 a.FQDN,
		BusinessUnit:         a.BusinessUnit,
		AssetClass:           a.AssetClass,
		SystemClassification: a.SystemClassification,
		InfrastructureType:   a.InfrastructureType,
		SplunkStatus:         a.SplunkStatus,
		CrowdStrikeStatus:    a.CrowdStrikeStatus,
		CMDBPresent:          a.CMDBPresent,
		DataQualityScore:     a.DataQualityScore,
		LastUpdated:          a.LastUpdated,
	}
}
