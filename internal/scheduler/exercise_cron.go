package scheduler

import (
	"context"
	"time"

	"github.com/Dias221467/fitsocial/internal/jobs"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const refreshTimeout = 5 * time.Minute

// StartExerciseCron re-imports the exercise catalog from path on the given schedule.
// The returned cron is already running; Stop it on shutdown.
func StartExerciseCron(spec string, loader *jobs.ExerciseLoader, path string) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		if _, err := loader.Load(ctx, path, false); err != nil {
			logrus.WithError(err).Error("Scheduled exercise refresh failed")
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	logrus.WithField("schedule", spec).Info("Exercise refresh scheduled")
	return c, nil
}
