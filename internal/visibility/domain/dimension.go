package domain

// Dimension is one independent grouping axis coverage is aggregated along
type Dimension string

const (
	DimensionGlobal               Dimension = "global"
	DimensionInfrastructure       Dimension = "infrastructure"
	DimensionRegional             Dimension = "regional"
	DimensionBusinessUnit         Dimension = "business_unit"
	DimensionSystemClassification Dimension = "system_classification"
	DimensionSecurityControls     Dimension = "security_controls"
	DimensionDomain               Dimension = "domain"
	DimensionCompliance           Dimension = "compliance"

	// DimensionOverall names the rollup in the threshold table; it is not fetched.
	DimensionOverall Dimension = "overall"
)

// AllDimensions returns the eight fetched dimensions in display order
func AllDimensions() []Dimension {
	return []Dimension{
		DimensionGlobal,
		DimensionInfrastructure,
		DimensionRegional,
		DimensionBusinessUnit,
		DimensionSystemClassification,
		DimensionSecurityControls,
		DimensionDomain,
		DimensionCompliance,
	}
}

// IsValidDimension checks if the name is one of the fetched dimensions or the rollup
func IsValidDimension(name string) bool {
	if Dimension(name) == DimensionOverall {
		return true
	}
	for _, d := range AllDimensions() {
		if string(d) == name {
			return true
		}
	}
	return false
}

// Shape is the structure a dimension's raw aggregate document takes
type Shape int

const (
	ShapeFlat Shape = iota + 1
	ShapeBreakdown
	ShapeCategories
)

func (s Shape) String() string {
	switch s {
	case ShapeFlat:
		return "flat"
	case ShapeBreakdown:
		return "breakdown"
	case ShapeCategories:
		return "categories"
	default:
		return "unknown"
	}
}

// GroupKey is an inventory column breakdowns may group on
type GroupKey string

const (
	GroupRegion               GroupKey = "region"
	GroupCountry              GroupKey = "country"
	GroupBusinessUnit         GroupKey = "business_unit"
	GroupExecutive            GroupKey = "executive"
	GroupSystemClassification GroupKey = "system_classification"
	GroupInfrastructureType   GroupKey = "infrastructure_type"
	GroupDomain               GroupKey = "domain"
	GroupAssetClass           GroupKey = "asset_class"
)

// GetValidGroupKeys returns every column a breakdown may group on
func GetValidGroupKeys() []GroupKey {
	return []GroupKey{
		GroupRegion,
		GroupCountry,
		GroupBusinessUnit,
		GroupExecutive,
		GroupSystemClassification,
		GroupInfrastructureType,
		GroupDomain,
		GroupAssetClass,
	}
}

// IsValidGroupKey checks a grouping column against the whitelist
func IsValidGroupKey(key GroupKey) bool {
	for _, valid := range GetValidGroupKeys() {
		if key == valid {
			return true
		}
	}
	return false
}
