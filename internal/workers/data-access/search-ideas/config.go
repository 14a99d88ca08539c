package searchideas

import "time"

const (
	DefaultSize = 10
	MaxSize     = 50
)

type Config struct {
	Index       string
	Timeout     time.Duration
	DefaultSize int
}
