package scheduler

import (
	"github.com/Lucid-Synth/fileflow/internal/database"
	"github.com/Lucid-Synth/fileflow/internal/storage"
	"github.com/Lucid-Synth/fileflow/internal/xkey"
	"github.com/mdouchement/logger"
	"github.com/robfig/cron/v3"
)

// A Controller is an Inversion Of Control pattern used to init the scheduler package.
type Controller struct {
	Logger        logger.Logger
	Database      database.Client
	Storage       storage.Backend
	Specification string
}

// Start launches the scheduler asynchronously.
func Start(c Controller) {
	cron := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))

	log := c.Logger.WithPrefix("[scheduler]")

	_, err := cron.AddFunc(c.Specification, func() {
		Sweep(c)
	})
	if err != nil {
		panic(err)
	}
	log.Info("Orphan reconciliation task registred")

	cron.Start()
	log.Info("Scheduler is running")
}

// Sweep retries the removal of orphaned blobs, the ones whose compensating
// delete failed after an aborted upload, then cleans the storage artifacts.
func Sweep(c Controller) {
	log := c.Logger.WithPrefix("[reconciliation]")

	orphans, err := c.Database.AllOrphans()
	if err != nil {
		log.Error(err)
		return
	}

	for _, orphan := range orphans {
		err = c.Storage.Remove(orphan.StorageKey)
		if err != nil {
			log.Error(err)
			continue
		}

		err = c.Database.DeleteOrphan(orphan.ID)
		if err != nil {
			log.Error(err)
			continue
		}

		log.Infof("Removed %s", orphan.StorageKey)
	}

	err = c.Storage.Cleanup()
	if err != nil {
		log.Error(err)
	}

	// Drift between blobs and records means a reconciliation slipped
	// through; it is reported, not repaired, since an in-flight upload
	// legitimately stores before it registers.
	keys, err := c.Storage.Keys(xkey.Prefix)
	if err != nil {
		log.Error(err)
		return
	}
	shares, err := c.Database.AllShares()
	if err != nil {
		log.Error(err)
		return
	}
	if len(keys) != len(shares) {
		log.Warnf("storage drift: %d blobs for %d shares", len(keys), len(shares))
	}
}
