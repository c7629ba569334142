// internal/config/constants.go
package config

import "time"

// Application info
const (
	AppName    = "Yegara LMS"
	AppVersion = "1.0.0"
)

// Defaults
const (
	DefaultServerPort          = ":8080"
	DefaultLogLevel            = "info"
	DefaultAuthEnabled         = true
	DefaultAccessTokenTTL      = 24 * time.Hour
	DefaultMailProvider        = "log"
	DefaultRedisChannel        = "lms.progress"
	DefaultReconcileSchedule   = "0 3 * * *"
	DefaultMaxAvatarSize       = 5 << 20
	DefaultEnrollmentTrendDays = 30
	DefaultPopularCoursesLimit = 5
	DefaultRecentActivityLimit = 10
	DefaultRecentCoursesLimit  = 5
)
