package jobs

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Job is a unit of background work run on a fixed interval
type Job interface {
	Run()
}

// Scheduler runs each registered job on its own ticker until stopped
type Scheduler struct {
	entries []entry
	stop    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

type entry struct {
	name     string
	interval time.Duration
	job      Job
}

func NewScheduler() *Scheduler {
	return &Scheduler{stop: make(chan struct{})}
}

// Every registers a job. Non-positive intervals are ignored.
func (s *Scheduler) Every(name string, interval time.Duration, job Job) *Scheduler {
	if interval <= 0 {
		logrus.WithField("job", name).Warn("Job disabled: non-positive interval")
		return s
	}
	s.entries = append(s.entries, entry{name: name, interval: interval, job: job})
	return s
}

func (s *Scheduler) Start() {
	for _, e := range s.entries {
		s.wg.Add(1)
		go s.loop(e)
		logrus.Infof("Scheduled %s (runs every %v)", e.name, e.interval)
	}
}

func (s *Scheduler) loop(e entry) {
	defer s.wg.Done()
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.job.Run()
		case <-s.stop:
			return
		}
	}
}

// Stop halts all loops and waits for running jobs to return
func (s *Scheduler) Stop() {
	s.once.Do(func() { close(s.stop) })
	s.wg.Wait()
}
