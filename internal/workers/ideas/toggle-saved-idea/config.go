package togglesavedidea

import "time"

type Config struct {
	Timeout time.Duration
	// SavedTTL bounds how long an idle session's saved set lives.
	SavedTTL time.Duration
}
