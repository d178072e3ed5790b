package utils

import (
	"log"

	"skilltrack/services/progress"

	"github.com/robfig/cron/v3"
)

// InitializeReconcileScheduler sets up the nightly enrollment reconcile job.
// Stored enrollment progress is derived state; rebuilding it from telemetry
// every night keeps missed recomputes and catalog edits from accumulating
// into visible drift.
func InitializeReconcileScheduler(service *progress.Service) {
	log.Println("[RECONCILE] Initializing enrollment reconcile scheduler...")

	c := cron.New()

	// Run daily at 3 AM, off the traffic peak
	c.AddFunc("0 3 * * *", func() {
		log.Println("[RECONCILE] Running nightly enrollment reconcile...")
		service.ReconcileEnrollments()
	})

	c.Start()
	log.Println("[RECONCILE] Scheduler started - runs daily at 3 AM")
}
