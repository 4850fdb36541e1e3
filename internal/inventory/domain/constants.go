package domain

import "strings"

// Coverage field standardized values. Every coverage column has a closed value
// set; "absent" means the host was never seen by that source, "unknown" means
// the source saw the host but could not report a state.

// SplunkStatus represents log forwarding state
type SplunkStatus string

const (
	SplunkForwarding         SplunkStatus = "forwarding"
	SplunkHeavyForwarder     SplunkStatus = "heavy_forwarder"
	SplunkUniversalForwarder SplunkStatus = "universal_forwarder"
	SplunkNotForwarding      SplunkStatus = "not_forwarding"
	SplunkNone               SplunkStatus = "none"
	SplunkUnknown            SplunkStatus = "unknown"
	SplunkAbsent             SplunkStatus = "absent"
)

// ChronicleStatus represents secondary log compliance state
type ChronicleStatus string

const (
	ChronicleEnabled  ChronicleStatus = "enabled"
	ChronicleDisabled ChronicleStatus = "disabled"
	ChronicleUnknown  ChronicleStatus = "unknown"
	ChronicleAbsent   ChronicleStatus = "absent"
)

// CrowdStrikeStatus represents endpoint protection state
type CrowdStrikeStatus string

const (
	CrowdStrikeProtected    CrowdStrikeStatus = "protected"
	CrowdStrikeRFM          CrowdStrikeStatus = "rfm"
	CrowdStrikeNotProtected CrowdStrikeStatus = "not_protected"
	CrowdStrikeUnprotected  CrowdStrikeStatus = "unprotected"
	CrowdStrikeUnknown      CrowdStrikeStatus = "unknown"
	CrowdStrikeAbsent       CrowdStrikeStatus = "absent"
)

// TaniumStatus represents device management state
type TaniumStatus string

const (
	TaniumManaged   TaniumStatus = "managed"
	TaniumUnmanaged TaniumStatus = "unmanaged"
	TaniumUnknown   TaniumStatus = "unknown"
	TaniumAbsent    TaniumStatus = "absent"
)

// DLPStatus represents data loss prevention coverage
type DLPStatus string

const (
	DLPCovered    DLPStatus = "covered"
	DLPNotCovered DLPStatus = "not_covered"
	DLPUnknown    DLPStatus = "unknown"
	DLPAbsent     DLPStatus = "absent"
)

// APMStatus represents application performance monitoring state
type APMStatus string

const (
	APMMonitored APMStatus = "monitored"
	APMNone      APMStatus = "none"
	APMUnknown   APMStatus = "unknown"
	APMAbsent    APMStatus = "absent"
)

// CMDBPresence represents configuration registry presence
type CMDBPresence string

const (
	CMDBYes    CMDBPresence = "yes"
	CMDBNo     CMDBPresence = "no"
	CMDBAbsent CMDBPresence = "absent"
)

// SystemClassification represents the environment tier of a host
type SystemClassification string

const (
	ClassificationProduction SystemClassification = "production"
	ClassificationStaging    SystemClassification = "staging"
)

// Predicate value lists. The storage layer builds its SQL from these so the
// in-memory predicates and the queries cannot drift apart.
var (
	ForwardingStatuses       = []string{string(SplunkForwarding), string(SplunkHeavyForwarder), string(SplunkUniversalForwarder)}
	UnprotectedStatuses      = []string{string(CrowdStrikeNotProtected), string(CrowdStrikeUnprotected)}
	UnmonitoredAPMStatuses   = []string{string(APMNone), string(APMUnknown)}
	GapClassifications       = []string{string(ClassificationProduction), string(ClassificationStaging)}
	RegisteredValue          = string(CMDBYes)
	ManagedValue             = string(TaniumManaged)
	NotCoveredDLPValue       = string(DLPNotCovered)
	SecondaryLogEnabledValue = string(ChronicleEnabled)
)

// GetValidSplunkStatuses returns all valid log forwarding states
func GetValidSplunkStatuses() []string {
	return []string{
		string(SplunkForwarding),
		string(SplunkHeavyForwarder),
		string(SplunkUniversalForwarder),
		string(SplunkNotForwarding),
		string(SplunkNone),
		string(SplunkUnknown),
		string(SplunkAbsent),
	}
}

// GetValidCrowdStrikeStatuses returns all valid endpoint protection states
func GetValidCrowdStrikeStatuses() []string {
	return []string{
		string(CrowdStrikeProtected),
		string(CrowdStrikeRFM),
		string(CrowdStrikeNotProtected),
		string(CrowdStrikeUnprotected),
		string(CrowdStrikeUnknown),
		string(CrowdStrikeAbsent),
	}
}

// IsValidSplunkStatus checks if the provided log forwarding state is valid
func IsValidSplunkStatus(status string) bool {
	return contains(GetValidSplunkStatuses(), status)
}

// IsValidCrowdStrikeStatus checks if the provided endpoint protection state is valid
func IsValidCrowdStrikeStatus(status string) bool {
	return contains(GetValidCrowdStrikeStatuses(), status)
}

// NormalizeStatus lowercases and trims a raw coverage value. Empty values map
// to the absent sentinel of the field.
func NormalizeStatus(raw, absent string) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return absent
	}
	return strings.ReplaceAll(v, " ", "_")
}

// ClassificationRank orders system classifications: production, staging, then
// everything else.
func ClassificationRank(classification string) int {
	switch SystemClassification(strings.ToLower(classification)) {
	case ClassificationProduction:
		return 0
	case ClassificationStaging:
		return 1
	default:
		return 2
	}
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
