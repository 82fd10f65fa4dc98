package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/tokenized/brc20index/json"
	"github.com/tokenized/brc20index/logger"
	"github.com/tokenized/brc20index/scheduler"
	"github.com/tokenized/brc20index/storage"

	"github.com/pkg/errors"
)

// StorageSink is a Sink backed by a storage.Storage document store. Documents are JSON-encoded
// and written under "<collection>/<key>". A write that fails is not retried synchronously;
// instead it is handed to a scheduler.Task that retries with the backoff parameters from the
// storage config, so that a transient storage failure does not block the indexer loop.
type StorageSink struct {
	store     storage.Storage
	scheduler *scheduler.Scheduler
	options   storage.Options
	config    storage.Config
}

// NewStorageSink wraps store for use as an indexer Sink, retrying failed writes on sched using
// config's MaxRetries/RetryDelay.
func NewStorageSink(store storage.Storage, sched *scheduler.Scheduler, config storage.Config) *StorageSink {
	return &StorageSink{
		store:     store,
		scheduler: sched,
		options:   storage.NewOptions(),
		config:    config,
	}
}

// Insert writes document as JSON to "<collection>/<key>". On failure it schedules a
// retryWriteTask rather than blocking or failing the indexer loop.
func (s *StorageSink) Insert(ctx context.Context, collection string, key string, document Document) error {
	path := fmt.Sprintf("%s/%s", collection, key)

	data, err := json.Marshal(document)
	if err != nil {
		return errors.Wrap(err, "marshal document")
	}

	if err := s.store.Write(ctx, path, data, &s.options); err != nil {
		logger.Error(ctx, "StorageSink write failed for %s, scheduling retry : %s", path, err)

		if s.scheduler == nil {
			return errors.Wrap(err, path)
		}

		task := &retryWriteTask{
			sink: s,
			path: path,
			data: data,
			// attemptsLeft mirrors storage.Config's own MaxRetries, since the first attempt
			// above already consumed one try.
			attemptsLeft: s.config.MaxRetries,
			retryDelay:   time.Duration(s.config.RetryDelay) * time.Millisecond,
			nextAttempt:  time.Now().Add(time.Duration(s.config.RetryDelay) * time.Millisecond),
		}

		if scheduleErr := s.scheduler.ScheduleJob(ctx, task); scheduleErr != nil {
			return errors.Wrap(err, path)
		}

		return nil
	}

	return nil
}

// retryWriteTask is a scheduler.Task that retries a single failed StorageSink write with
// backoff, matching the design note that the indexer retries sink writes rather than re-emit on
// restart.
type retryWriteTask struct {
	sink         *StorageSink
	path         string
	data         []byte
	attemptsLeft int
	retryDelay   time.Duration
	nextAttempt  time.Time
	done         bool
}

// IsReady implements scheduler.Task.
func (t *retryWriteTask) IsReady(ctx context.Context) bool {
	return !t.done && time.Now().After(t.nextAttempt)
}

// Run implements scheduler.Task.
func (t *retryWriteTask) Run(ctx context.Context) {
	err := t.sink.store.Write(ctx, t.path, t.data, &t.sink.options)
	if err == nil {
		t.done = true
		return
	}

	t.attemptsLeft--
	if t.attemptsLeft <= 0 {
		logger.Error(ctx, "StorageSink retry exhausted for %s : %s", t.path, err)
		t.done = true
		return
	}

	logger.Error(ctx, "StorageSink retry failed for %s, %d attempts left : %s", t.path, t.attemptsLeft, err)
	t.nextAttempt = time.Now().Add(t.retryDelay)
}

// IsComplete implements scheduler.Task.
func (t *retryWriteTask) IsComplete(ctx context.Context) bool {
	return t.done
}

// Equal implements scheduler.Task.
func (t *retryWriteTask) Equal(other scheduler.Task) bool {
	o, ok := other.(*retryWriteTask)
	if !ok {
		return false
	}
	return o.path == t.path
}
