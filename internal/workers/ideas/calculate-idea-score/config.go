package calculateideascore

import "time"

type Config struct {
	Timeout time.Duration
}
