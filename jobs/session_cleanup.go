package jobs

import (
	"context"
	"time"

	"github.com/fenilmodi00/planillas-dashboard/services"
	"github.com/sirupsen/logrus"
)

type SessionCleanupJob struct {
	Sessions *services.SessionManager
}

func NewSessionCleanupJob(sessions *services.SessionManager) *SessionCleanupJob {
	return &SessionCleanupJob{Sessions: sessions}
}

func (j *SessionCleanupJob) Run() {
	startTime := time.Now()
	logrus.Debug("Starting Session Cleanup Job")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	removed, err := j.Sessions.Cleanup(ctx)
	if err != nil {
		logrus.Errorf("Session Cleanup Job failed: %v", err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"removed":  removed,
		"duration": time.Since(startTime),
	}).Info("Session Cleanup Job completed")
}
