package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/benchview/benchview/internal/domain/repository"
	"github.com/benchview/benchview/internal/logging"
)

const (
	// historyQueueSize bounds the async recording queue. A full queue
	// drops new records with a warning instead of blocking the caller.
	historyQueueSize = 64

	// historyRetention is how long navigation entries are kept; older
	// rows are pruned when the worker starts.
	historyRetention = 90 * 24 * time.Hour
)

type navRecord struct {
	url string
	at  time.Time
}

// RecordNavigationUseCase appends panel navigations to history without
// blocking the caller. Writes happen on a background worker so SQLite I/O
// never runs on the GTK main thread.
type RecordNavigationUseCase struct {
	repo repository.NavHistoryRepository

	queue chan navRecord
	done  chan struct{}
	wg    sync.WaitGroup

	mu      sync.Mutex
	lastURL string
}

// NewRecordNavigationUseCase creates the recorder and starts its worker.
func NewRecordNavigationUseCase(repo repository.NavHistoryRepository) *RecordNavigationUseCase {
	uc := &RecordNavigationUseCase{
		repo:  repo,
		queue: make(chan navRecord, historyQueueSize),
		done:  make(chan struct{}),
	}

	uc.wg.Add(1)
	go uc.worker()

	return uc
}

// Record queues rawURL for persistence. Blank input and consecutive
// duplicates are skipped. Non-blocking.
func (uc *RecordNavigationUseCase) Record(ctx context.Context, rawURL string) {
	url := strings.TrimSpace(rawURL)
	if url == "" {
		return
	}

	uc.mu.Lock()
	if uc.lastURL == url {
		uc.mu.Unlock()
		return
	}
	uc.lastURL = url
	uc.mu.Unlock()

	select {
	case uc.queue <- navRecord{url: url, at: time.Now()}:
	default:
		ctx = logging.WithURL(ctx, logging.TruncateURL(url, 120))
		logging.FromContext(ctx).Warn().Msg("history queue full, dropping record")
	}
}

// Close drains pending records and stops the worker.
func (uc *RecordNavigationUseCase) Close() {
	close(uc.done)
	uc.wg.Wait()
}

func (uc *RecordNavigationUseCase) worker() {
	defer uc.wg.Done()

	ctx := context.Background()
	log := logging.FromContext(ctx).With().
		Str("component", "history-worker").
		Logger()

	if err := uc.repo.DeleteOlderThan(ctx, time.Now().Add(-historyRetention)); err != nil {
		log.Warn().Err(err).Msg("history prune failed")
	}

	persist := func(rec navRecord) {
		if err := uc.repo.Append(ctx, rec.url, rec.at); err != nil {
			log.Warn().Err(err).Str("url", rec.url).Msg("failed to record navigation")
		}
	}

	for {
		select {
		case rec := <-uc.queue:
			persist(rec)
		case <-uc.done:
			for {
				select {
				case rec := <-uc.queue:
					persist(rec)
				default:
					log.Debug().Msg("history worker shutdown complete")
					return
				}
			}
		}
	}
}
