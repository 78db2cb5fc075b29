package scheduler

import (
	"context"
	"time"

	"github.com/escuela-dev/escuela/db"
	"github.com/escuela-dev/escuela/internal/auth"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var databaseUp = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "escuela_database_up",
	Help: "1 when the last scheduled database ping succeeded.",
})

func DatabasePingJob(interval time.Duration) Job {
	return Job{
		Name:     "database-ping",
		Interval: interval,
		Run: func(ctx context.Context) error {
			if err := db.Ping(ctx); err != nil {
				databaseUp.Set(0)
				return err
			}
			databaseUp.Set(1)
			return nil
		},
	}
}

func RevocationPruneJob(interval time.Duration) Job {
	return Job{
		Name:     "revocation-prune",
		Interval: interval,
		Run: func(context.Context) error {
			if n := auth.PruneRevoked(); n > 0 {
				zap.S().Debugw("pruned expired revocations", "count", n)
			}
			return nil
		},
	}
}

func DefaultJobs() []Job {
	return []Job{
		DatabasePingJob(30 * time.Second),
		RevocationPruneJob(10 * time.Minute),
	}
}
