package consts

import "time"

// Server configuration
const (
	DefaultPort       = "8080"
	ReadHeaderTimeout = 3 * time.Second
	RateLimitRequests = 10
	RateLimitWindow   = 1 * time.Minute
	MaxRequestBody    = 10 << 20 // bytes
)

// Cron schedules
const (
	CronGenerateChart = "5 0 * * *"  // Daily at 00:05 UTC
	CronCleanup       = "30 0 * * *" // Daily at 00:30 UTC
)

// Data retention
const (
	PurgeRetentionDays = 60
)

// File paths and directories
const (
	ChartDataDir   = "web/chartdata"
	WebIndexPath   = "web/index.html"
	ChartsJSONFile = "charts.json"
)

// File permissions
const (
	DirPermissions  = 0750
	FilePermissions = 0600
)

// Date formats
const (
	DateFormat     = "2006-01-02"
	DateTimeFormat = "2006-01-02 15:04:05"
)

// Chart configuration
const (
	ChartWidth           = "900px"
	ChartHeight          = "500px"
	TopPunctuationMarks  = 10
	TopFrequentTokens    = 20
	ComputedTokenEntries = 50 // entries kept per frequency list at computation time
)

// Chart colors and styling
const (
	ChartBackgroundColor = "#ffffff"
	ChartTextColor       = "#000000"
)

// ChartPalette is the base palette cycled over chart entries. Entry color is
// tied to rank position, not label identity.
var ChartPalette = []string{
	"#5470c6", "#91cc75", "#fac858", "#ee6666",
	"#73c0de", "#3ba272", "#fc8452", "#9a60b4",
}

// API configuration
const (
	AuthHeaderPrefix = "Bearer "
	APIKeyQueryParam = "api_key"
)
