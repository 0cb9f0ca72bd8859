package contracts

// Dimension is the closed set of leaderboard filters.
// The six attribute dimensions slice or group the population; All and Personal
// select whole-population views.
type Dimension int

const (
	DimensionUnknown Dimension = iota
	DimensionAll
	DimensionPersonal
	DimensionTeam
	DimensionRole
	DimensionDepartment
	DimensionLocation
	DimensionSegment
	DimensionJobFamily
)

// ValueAll asks a filter to use the viewer's own attribute value
const ValueAll = "all"

var dimensionNames = map[Dimension]string{
	DimensionAll:        "all",
	DimensionPersonal:   "personal",
	DimensionTeam:       "team",
	DimensionRole:       "role",
	DimensionDepartment: "department",
	DimensionLocation:   "location",
	DimensionSegment:    "segment",
	DimensionJobFamily:  "jobFamily",
}

// AttributeDimensions lists the dimensions backed by a UserRank attribute
var AttributeDimensions = []Dimension{
	DimensionTeam,
	DimensionRole,
	DimensionDepartment,
	DimensionLocation,
	DimensionSegment,
	DimensionJobFamily,
}

// ParseDimension maps a wire name to a Dimension. The empty string means All;
// anything unrecognised is DimensionUnknown.
func ParseDimension(s string) Dimension {
	if s == "" {
		return DimensionAll
	}
	for d, name := range dimensionNames {
		if name == s {
			return d
		}
	}
	return DimensionUnknown
}

// String returns the wire name
func (d Dimension) String() string {
	if name, ok := dimensionNames[d]; ok {
		return name
	}
	return "unknown"
}

// Label is the display form used in titles
func (d Dimension) Label() string {
	switch d {
	case DimensionTeam:
		return "Team"
	case DimensionRole:
		return "Role"
	case DimensionDepartment:
		return "Department"
	case DimensionLocation:
		return "Location"
	case DimensionSegment:
		return "Segment"
	case DimensionJobFamily:
		return "Job Family"
	default:
		return ""
	}
}

// IsAttribute reports whether d names a categorical UserRank attribute
func (d Dimension) IsAttribute() bool {
	switch d {
	case DimensionTeam, DimensionRole, DimensionDepartment,
		DimensionLocation, DimensionSegment, DimensionJobFamily:
		return true
	default:
		return false
	}
}

// Attribute returns u's value for d. ok is false for non-attribute dimensions.
func (d Dimension) Attribute(u UserRank) (value string, ok bool) {
	switch d {
	case DimensionTeam:
		return u.Team, true
	case DimensionRole:
		return u.Role, true
	case DimensionDepartment:
		return u.Department, true
	case DimensionLocation:
		return u.Location, true
	case DimensionSegment:
		return u.Segment, true
	case DimensionJobFamily:
		return u.JobFamily, true
	default:
		return "", false
	}
}

// Scope selects individuals or groups
type Scope string

const (
	ScopeIndividual Scope = "individual"
	ScopeTeam       Scope = "team"
)

// ParseScope defaults to individual
func ParseScope(s string) Scope {
	if Scope(s) == ScopeTeam {
		return ScopeTeam
	}
	return ScopeIndividual
}

// TeamScope selects a within-group or across-groups comparison
type TeamScope string

const (
	TeamScopeIntra TeamScope = "intra"
	TeamScopeInter TeamScope = "inter"
)

// ParseTeamScope defaults to intra
func ParseTeamScope(s string) TeamScope {
	if TeamScope(s) == TeamScopeInter {
		return TeamScopeInter
	}
	return TeamScopeIntra
}
