// Package retention sweeps stored evaluation keys past a configured age.
// Uploaded keys otherwise live forever; deployments that treat uploads as
// abandoned after a while enable the sweeper with a cron schedule.
package retention

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"pirsvc/pkg/config"
	"pirsvc/pkg/keystore"
	"pirsvc/pkg/logger"
	"pirsvc/pkg/models"
	"pirsvc/pkg/store"
)

// Start starts the retention scheduler if enabled. Returns a cancel func.
func Start(ctx context.Context, cfg config.RetentionConfig, driver store.Driver) (context.CancelFunc, error) {
	if !cfg.Enabled {
		logger.Info("retention_disabled")
		return func() {}, nil
	}

	sc, ok := driver.(store.Scanner)
	if !ok {
		return nil, fmt.Errorf("retention enabled but store driver does not support scans")
	}
	if cfg.MaxAge.Duration() <= 0 {
		return nil, fmt.Errorf("retention enabled but max_age is unset")
	}

	// empty cron defaults to daily at 02:00
	cronExpr := cfg.Cron
	if cronExpr == "" {
		cronExpr = "0 2 * * *"
	}
	if !gronx.IsValid(cronExpr) {
		logger.Error("retention_invalid_cron", "cron", cfg.Cron)
		return nil, fmt.Errorf("invalid retention cron expression: %s", cfg.Cron)
	}

	logger.Info("retention_enabled", "cron", cronExpr, "max_age", cfg.MaxAge.Duration(), "dry_run", cfg.DryRun)
	ctx2, cancel := context.WithCancel(ctx)
	go runScheduler(ctx2, cfg, sc, cronExpr)
	return cancel, nil
}

// runScheduler computes the next cron tick with gronx and sleeps until
// then, so the schedule supports full cron syntax without polling.
func runScheduler(ctx context.Context, cfg config.RetentionConfig, sc store.Scanner, cronExpr string) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("retention_scheduler_stopping")
			return
		default:
		}

		now := time.Now().UTC()
		next, err := gronx.NextTickAfter(cronExpr, now, false)
		if err != nil {
			logger.Error("retention_nexttick_failed", "cron", cronExpr, "error", err)
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		select {
		case <-time.After(time.Until(next)):
			if err := RunOnce(ctx, cfg, sc); err != nil {
				logger.Error("retention_run_error", "error", err)
			}
		case <-ctx.Done():
			logger.Info("retention_scheduler_stopping")
			return
		}
	}
}

// RunOnce performs a single sweep over the evaluation-key namespace,
// deleting records whose upload timestamp is older than max_age. Records
// without a timestamp and records that no longer decode are left alone;
// undecodable records are surfaced to operators, not silently dropped.
func RunOnce(ctx context.Context, cfg config.RetentionConfig, sc store.Scanner) error {
	cutoff := time.Now().Add(-cfg.MaxAge.Duration()).Unix()
	var scanned, expired, deleted, undecodable int

	var victims [][]byte
	err := sc.Scan([]byte(keystore.KeyPrefix), func(key, value []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		scanned++
		var ek models.EvaluationKey
		if err := json.Unmarshal(value, &ek); err != nil {
			undecodable++
			logger.Warn("retention_undecodable_record", "error", err)
			return nil
		}
		if ek.Metadata.Timestamp == 0 || int64(ek.Metadata.Timestamp) >= cutoff {
			return nil
		}
		expired++
		victims = append(victims, append([]byte(nil), key...))
		return nil
	})
	if err != nil {
		return fmt.Errorf("retention scan failed: %w", err)
	}

	if !cfg.DryRun {
		for _, key := range victims {
			if err := sc.Delete(key); err != nil {
				logger.Error("retention_delete_failed", "error", err)
				continue
			}
			deleted++
		}
	}

	logger.Info("retention_run_complete",
		"scanned", scanned, "expired", expired, "deleted", deleted,
		"undecodable", undecodable, "dry_run", cfg.DryRun)
	if logger.Audit != nil {
		logger.Audit.Info("retention_sweep", "scanned", scanned, "expired", expired, "deleted", deleted)
	}
	return nil
}
