package session

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"adframes/internal/port"
)

// DefaultJanitorSchedule runs eviction every five minutes.
const DefaultJanitorSchedule = "@every 5m"

// Janitor periodically evicts expired sessions.
type Janitor struct {
	store port.SessionStore

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

// NewJanitor creates a janitor for store.
func NewJanitor(store port.SessionStore) *Janitor {
	return &Janitor{
		store: store,
		cron:  cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor))),
	}
}

// Start schedules eviction. An empty schedule uses DefaultJanitorSchedule.
func (j *Janitor) Start(schedule string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.isRunning {
		return nil
	}
	if schedule == "" {
		schedule = DefaultJanitorSchedule
	}
	if _, err := j.cron.AddFunc(schedule, j.Sweep); err != nil {
		return fmt.Errorf("invalid janitor schedule %q: %w", schedule, err)
	}
	j.cron.Start()
	j.isRunning = true
	log.Printf("session.Janitor: started with schedule %q", schedule)
	return nil
}

// Sweep evicts expired sessions once.
func (j *Janitor) Sweep() {
	if n := j.store.EvictExpired(time.Now()); n > 0 {
		log.Printf("session.Janitor: evicted %d expired sessions", n)
	}
}

// Stop waits for a running sweep and stops scheduling.
func (j *Janitor) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.isRunning {
		return
	}
	ctx := j.cron.Stop()
	<-ctx.Done()
	j.isRunning = false
	log.Printf("session.Janitor: stopped")
}
