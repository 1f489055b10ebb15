package workers

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"pingpong-bot/models"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

const defaultMatchTTL = 168 * time.Hour // one week

// MatchCleanupWorker sweeps pending matches that were never accepted,
// declined, or scored. Their buttons report "Match not found or expired"
// afterwards, which the lifecycle already treats as a normal outcome, so the
// sweep can race live interactions safely.
type MatchCleanupWorker struct {
	DB  *gorm.DB
	TTL time.Duration
}

func NewMatchCleanupWorker(db *gorm.DB) *MatchCleanupWorker {
	ttl := defaultMatchTTL
	if raw := os.Getenv("MATCH_TTL_HOURS"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			log.Printf("⚠️  [CLEANUP] invalid MATCH_TTL_HOURS %q, using default %v", raw, defaultMatchTTL)
		} else {
			ttl = time.Duration(hours) * time.Hour
		}
	}
	return &MatchCleanupWorker{DB: db, TTL: ttl}
}

// Start runs the hourly sweep until ctx is cancelled.
func (w *MatchCleanupWorker) Start(ctx context.Context) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("❌ [CLEANUP] scheduler init failed: %v", err)
		return
	}

	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(w.sweep),
	)
	if err != nil {
		log.Printf("❌ [CLEANUP] job registration failed: %v", err)
		return
	}

	sched.Start()
	log.Printf("🧹 [CLEANUP] sweeping matches older than %v, every hour", w.TTL)

	<-ctx.Done()
	if err := sched.Shutdown(); err != nil {
		log.Printf("⚠️  [CLEANUP] scheduler shutdown: %v", err)
	}
}

func (w *MatchCleanupWorker) sweep() {
	cutoff := time.Now().Add(-w.TTL).Unix()
	res := w.DB.Where("created_at < ?", cutoff).Delete(&models.Match{})
	if res.Error != nil {
		log.Printf("❌ [CLEANUP] sweep failed: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("🧹 [CLEANUP] expired %d stale match(es)", res.RowsAffected)
	}
}
