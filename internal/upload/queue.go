// Package upload queues sighted player names and sends them to the detector
// in batches.
package upload

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/botdetector/internal/detector"
	"github.com/Veraticus/botdetector/internal/model"
	"github.com/Veraticus/botdetector/internal/rsn"
)

// Queue holds sightings waiting for upload. Names are validated and
// deduplicated case-insensitively while pending. Safe for concurrent use.
type Queue struct {
	now       func() time.Time
	seen      map[string]struct{}
	pending   []model.Sighting
	validator rsn.Validator
	mu        sync.Mutex
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{
		now:       time.Now,
		seen:      make(map[string]struct{}),
		validator: rsn.NewValidator(nil),
	}
}

// Add queues each valid, not yet pending name and returns how many were added.
func (q *Queue) Add(names ...string) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	added := 0
	for _, raw := range names {
		name, err := q.validator.Validate(raw)
		if err != nil {
			continue
		}
		key := strings.ToLower(name.String())
		if _, dup := q.seen[key]; dup {
			continue
		}
		q.seen[key] = struct{}{}
		q.pending = append(q.pending, model.Sighting{Name: name.String(), SeenAt: q.now()})
		added++
	}
	return added
}

// Len returns the number of pending sightings.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Drain removes and returns up to limit sightings. A limit <= 0 drains all.
func (q *Queue) Drain(limit int) []model.Sighting {
	q.mu.Lock()
	defer q.mu.Unlock()

	if limit <= 0 || limit > len(q.pending) {
		limit = len(q.pending)
	}
	batch := make([]model.Sighting, limit)
	copy(batch, q.pending[:limit])
	q.pending = q.pending[limit:]
	for _, s := range batch {
		delete(q.seen, strings.ToLower(s.Name))
	}
	return batch
}

// Requeue puts sightings back at the front of the queue.
func (q *Queue) Requeue(sightings []model.Sighting) {
	q.mu.Lock()
	defer q.mu.Unlock()

	front := make([]model.Sighting, 0, len(sightings)+len(q.pending))
	for _, s := range sightings {
		key := strings.ToLower(s.Name)
		if _, dup := q.seen[key]; dup {
			continue
		}
		q.seen[key] = struct{}{}
		front = append(front, s)
	}
	q.pending = append(front, q.pending...)
}

// ReadNames reads one name per line, skipping blank lines and # comments.
func ReadNames(r io.Reader) ([]string, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read names: %w", err)
	}
	return names, nil
}

// Reporter returns the reporter name for uploads; anonymous uploads carry none.
func Reporter(anonymous bool, player string) string {
	if anonymous {
		return ""
	}
	return player
}

// Flush uploads the queue in batches of batchSize. Each batch, retries
// included, runs under its own batchTimeout deadline when batchTimeout is
// positive; ctx bounds the whole flush. onBatch, when set, is called with the
// accepted count of every successful batch. On failure the failed batch is
// requeued and the error returned with the count uploaded so far.
func Flush(ctx context.Context, up detector.Uploader, q *Queue, reporter string, batchSize int, batchTimeout time.Duration, onBatch func(int)) (int, error) {
	total := 0
	for q.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		batch := q.Drain(batchSize)
		accepted, err := sendBatch(ctx, up, reporter, batch, batchTimeout)
		if err != nil {
			q.Requeue(batch)
			return total, fmt.Errorf("failed to upload %d names: %w", len(batch), err)
		}
		total += accepted
		if onBatch != nil {
			onBatch(accepted)
		}
	}
	return total, nil
}

func sendBatch(ctx context.Context, up detector.Uploader, reporter string, batch []model.Sighting, timeout time.Duration) (int, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return up.UploadNames(ctx, reporter, batch)
}
