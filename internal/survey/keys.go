package survey

// Chart and series keys shared by the aggregation tables and the report's
// toggle controls. A trace is addressed by (chart, key), never by position.
const (
	ChartMap      = "map"
	ChartUsage    = "usage"
	ChartSeverity = "severity"
	ChartTrend    = "trend"

	KeyAnxiety    = "anxiety"
	KeyDepression = "depression"
	// KeyTotal is the respondent-total bar behind the platform bars.
	KeyTotal = "total"

	ViewCounts  = "counts"
	ViewPercent = "percent"
)

// SeverityKey names one of the four contingency views, e.g. "anxiety_percent".
func SeverityKey(measure, view string) string { return measure + "_" + view }

// PlatformKey names a platform bar in the usage chart.
func PlatformKey(platform string) string { return "platform:" + platform }
