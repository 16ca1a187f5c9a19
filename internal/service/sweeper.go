package service

import (
	"context"
	"strings"
	"time"

	"github.com/KareemHegazy123/WikiApp/internal/domain"
	"github.com/KareemHegazy123/WikiApp/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sweepRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blob_sweep_runs_total",
		Help: "Total number of completed sweep cycles",
	})
	sweepDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blob_sweep_deleted_total",
		Help: "Total number of orphaned blobs deleted",
	})
	sweepBytesReclaimed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blob_sweep_bytes_reclaimed_total",
		Help: "Total payload bytes reclaimed from orphaned blobs",
	})
)

// BlobSweeper deletes blobs that no page references anymore. Failed cascade
// deletes and saves that died between blob upload and record write both
// leave orphans behind; the sweeper reconciles them.
type BlobSweeper struct {
	pages           SweeperPageStorage
	blobs           SweeperBlobStorage
	safetyThreshold time.Duration
	lastStats       SweepStats
}

// SweepStats tracks metrics from the last sweep run.
type SweepStats struct {
	RunAt          time.Time
	BlobsScanned   int
	Orphans        int
	BlobsDeleted   int
	BytesReclaimed int64
	DurationMs     int64
	Errors         []string
}

type SweeperPageStorage interface {
	AllPages() ([]domain.Page, error)
}

type SweeperBlobStorage interface {
	AllBlobInfos() ([]domain.BlobInfo, error)
	DeleteBlob(fileId domain.FileId) (bool, error)
}

// NewBlobSweeper creates a sweeper. safetyThreshold is the minimum age a
// blob must have before it may be deleted, so an upload whose page save is
// still in flight is never collected.
func NewBlobSweeper(pages SweeperPageStorage, blobs SweeperBlobStorage, safetyThreshold time.Duration) *BlobSweeper {
	return &BlobSweeper{
		pages:           pages,
		blobs:           blobs,
		safetyThreshold: safetyThreshold,
	}
}

// StartBackgroundSweeps runs RunSweep on a ticker until ctx is cancelled.
func (s *BlobSweeper) StartBackgroundSweeps(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Log.Info("started blob sweeper", "interval", interval, "safety_threshold", s.safetyThreshold)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.RunSweep(); err != nil {
					logger.Log.Error("blob sweep failed", "error", err)
					continue
				}
				stats := s.LastStats()
				logger.Log.Info("blob sweep completed",
					"scanned", stats.BlobsScanned,
					"orphans", stats.Orphans,
					"deleted", stats.BlobsDeleted,
					"bytes_reclaimed", stats.BytesReclaimed,
					"duration_ms", stats.DurationMs,
					"errors", len(stats.Errors))
			case <-ctx.Done():
				logger.Log.Info("blob sweeper shutting down")
				return
			}
		}
	}()
}

// RunSweep executes a single sweep cycle. It can be called directly for
// maintenance.
func (s *BlobSweeper) RunSweep() error {
	start := time.Now()
	stats := SweepStats{RunAt: start, Errors: []string{}}

	pages, err := s.pages.AllPages()
	if err != nil {
		return err
	}
	referenced := make(map[domain.FileId]bool)
	for _, page := range pages {
		for _, att := range page.Attachments {
			referenced[strings.ToLower(att.FileId)] = true
		}
	}

	blobs, err := s.blobs.AllBlobInfos()
	if err != nil {
		return err
	}
	stats.BlobsScanned = len(blobs)

	for _, blob := range blobs {
		if referenced[strings.ToLower(blob.FileId)] {
			continue
		}
		if time.Since(blob.UploadedUtc) < s.safetyThreshold {
			// might belong to a save still in flight
			continue
		}

		stats.Orphans++
		found, err := s.blobs.DeleteBlob(blob.FileId)
		if err != nil {
			stats.Errors = append(stats.Errors, "delete error: "+blob.FileId+": "+err.Error())
			continue
		}
		if found {
			stats.BlobsDeleted++
			stats.BytesReclaimed += blob.SizeBytes
		}
	}

	stats.DurationMs = time.Since(start).Milliseconds()
	s.lastStats = stats

	sweepRunsTotal.Inc()
	sweepDeletedTotal.Add(float64(stats.BlobsDeleted))
	sweepBytesReclaimed.Add(float64(stats.BytesReclaimed))
	return nil
}

// LastStats returns statistics from the last sweep run.
func (s *BlobSweeper) LastStats() SweepStats {
	return s.lastStats
}
