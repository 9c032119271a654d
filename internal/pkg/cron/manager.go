package cron

import (
	log "log/slog"

	"github.com/robfig/cron/v3"

	"wiki-echo/internal/job"
)

type Manager struct {
	engine    *cron.Cron
	spec      string
	digestJob *job.DigestJob
}

func NewCronManager(spec string, digestJob *job.DigestJob) *Manager {
	return &Manager{
		engine:    cron.New(),
		spec:      spec,
		digestJob: digestJob,
	}
}

// RegisterJobs schedules the digest job on the configured spec.
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.spec, cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(s.digestJob)); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("cron engine started", "digest_spec", s.spec)
	s.engine.Start()
}

// Stop halts scheduling and waits for running jobs.
func (s *Manager) Stop() {
	log.Info("cron engine stopping")
	<-s.engine.Stop().Done()
}
