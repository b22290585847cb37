package service

const (
	// History windows, in days before the scored day
	ScoringHistoryDays = 35 // chronic strain window plus a week of slack
	FeatureHistoryDays = 35 // days-since-rest can look back this far
	DeepStreakDays     = 14

	// Chart windows
	DashboardSparkDays = 14
	DefaultTrendDays   = 30

	// StressChartPoints is the default number of points in a stress chart
	StressChartPoints = 48
)

// Log keys shared by the services
const (
	logKeyDay     = "day"
	logKeyRemoved = "removed"
)
