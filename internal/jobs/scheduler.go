package jobs

import (
	"log"
	"sync"
	"time"

	"go-pos-ws/internal/repository"

	"github.com/go-co-op/gocron/v2"
)

// Pinger is the part of the websocket hub the keepalive job needs.
type Pinger interface {
	Ping()
}

// OverdueFinder reports kitchen items past their estimate.
type OverdueFinder interface {
	FindItemsOverdue(now time.Time) ([]repository.OverdueItem, error)
}

// JobScheduler runs the periodic upkeep of the service.
type JobScheduler struct {
	scheduler    gocron.Scheduler
	hub          Pinger
	orders       OverdueFinder
	pingInterval time.Duration
	jobs         map[string]gocron.Job
	mu           sync.RWMutex
}

func NewJobScheduler(hub Pinger, orders OverdueFinder, pingInterval time.Duration) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}

	js := &JobScheduler{
		scheduler:    scheduler,
		hub:          hub,
		orders:       orders,
		pingInterval: pingInterval,
		jobs:         make(map[string]gocron.Job),
	}
	js.registerJobs()
	return js, nil
}

func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	js.add("ws-keepalive", js.pingInterval, js.keepAlive)
	js.add("delayed-tickets", time.Minute, js.reportDelayedTickets)
	log.Printf("Registered %d background jobs", len(js.jobs))
}

func (js *JobScheduler) add(name string, interval time.Duration, task func()) {
	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create %s job: %v", name, err)
		return
	}
	js.mu.Lock()
	js.jobs[name] = job
	js.mu.Unlock()
}

func (js *JobScheduler) keepAlive() {
	js.hub.Ping()
}

// reportDelayedTickets logs every unfinished item whose estimate has run out.
func (js *JobScheduler) reportDelayedTickets() {
	items, err := js.orders.FindItemsOverdue(time.Now())
	if err != nil {
		log.Printf("Delayed ticket scan failed: %v", err)
		return
	}
	for _, it := range items {
		log.Printf("DELAYED: table %d %s (%s) open since %s, estimate %d min",
			it.TableNumber, it.ProductName, it.State, it.OpenedAt.Format("15:04"), it.EstimatedMinutes)
	}
}

// JobNames lists the registered jobs.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return names
}
