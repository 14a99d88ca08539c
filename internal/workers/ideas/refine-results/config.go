package refineresults

import "time"

type Config struct {
	Timeout time.Duration
}
