package generateideas

import "time"

type Config struct {
	Timeout  time.Duration
	CacheTTL time.Duration
}
