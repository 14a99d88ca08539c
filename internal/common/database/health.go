package database

import (
	"context"
	"sort"
	"sync"
)

// Pinger is implemented by every client in this package.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CheckAll pings every dependency concurrently and returns the failures by
// name. A nil map means everything answered.
func CheckAll(ctx context.Context, deps map[string]Pinger) map[string]error {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		failures map[string]error
	)
	for name, p := range deps {
		wg.Add(1)
		go func(name string, p Pinger) {
			defer wg.Done()
			if err := p.Ping(ctx); err != nil {
				mu.Lock()
				if failures == nil {
					failures = make(map[string]error)
				}
				failures[name] = err
				mu.Unlock()
			}
		}(name, p)
	}
	wg.Wait()
	return failures
}

// Names returns the sorted keys of a CheckAll result.
func Names(failures map[string]error) []string {
	out := make([]string, 0, len(failures))
	for name := range failures {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
