package scheduler

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
)

type Scheduler struct {
	instance gocron.Scheduler
	stopOnce sync.Once
}

func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &Scheduler{instance: s}, nil
}

// AddJob runs job every interval. A job already registered under tag is
// replaced.
func (s *Scheduler) AddJob(tag string, interval time.Duration, job func()) error {
	s.instance.RemoveByTags(tag)
	_, err := s.instance.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(job),
		gocron.WithTags(tag),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("could not add job %s: %w", tag, err)
	}
	return nil
}

func (s *Scheduler) RemoveJobByTag(tag string) {
	s.instance.RemoveByTags(tag)
}

func (s *Scheduler) JobCount() int {
	return len(s.instance.Jobs())
}

func (s *Scheduler) Start() {
	s.instance.Start()
	log.Println("Scheduler started")
}

// Stop shuts the scheduler down. Calls after the first are no-ops.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		if err := s.instance.Shutdown(); err != nil {
			log.Printf("Error shutting down scheduler: %v", err)
		}
	})
}
