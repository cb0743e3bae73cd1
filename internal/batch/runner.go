package batch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/certwatch/internal/domain"
	"github.com/hamed0406/certwatch/internal/probe"
)

// ProgressFunc is called once per completed probe, under the runner's lock:
// completed rises by exactly one per call and equals total on the last call.
type ProgressFunc func(completed, total int)

// ErrNoHosts is returned when the host list is empty after trimming.
var ErrNoHosts = errors.New("no hosts to check")

// Runner fans one probe per host out over a bounded worker pool and
// classifies the results against the warn threshold. It holds no state
// between runs; the pool lives for one Run call and is drained before it
// returns. Memoization, if wanted, belongs to the caller (internal/cache).
type Runner struct {
	Logger   *zap.Logger
	Prober   probe.Prober
	WarnDays int
	Workers  int

	// Now supplies the clock for days-left computation; defaults to
	// time.Now in UTC. Tests pin it for deterministic classification.
	Now func() time.Time

	OnProgress ProgressFunc
}

func NewRunner(logger *zap.Logger, p probe.Prober, warnDays, workers int) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if warnDays < 0 {
		warnDays = 0
	}
	if workers < 1 {
		workers = 1
	}
	return &Runner{Logger: logger, Prober: p, WarnDays: warnDays, Workers: workers}
}

// Run probes every host on the shared port and returns the classified batch.
// Hosts are trimmed, blanks dropped and duplicates collapsed before dispatch.
// Probes finish in arbitrary order; outcomes are slotted back into input
// order, so the returned collection is stable for a fixed input.
// A failed host never aborts the batch: every target yields exactly one
// outcome.
func (r *Runner) Run(ctx context.Context, hosts []string, port int) (*domain.BatchResult, error) {
	targets := normalizeHosts(hosts)
	if len(targets) == 0 {
		return nil, ErrNoHosts
	}

	now := time.Now().UTC()
	if r.Now != nil {
		now = r.Now()
	}

	total := len(targets)
	outcomes := make([]domain.Outcome, total)

	var (
		mu        sync.Mutex
		completed int
		wg        sync.WaitGroup
	)
	sem := make(chan struct{}, r.Workers)

	for i, host := range targets {
		i, host := i, host
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() { <-sem }()
			defer wg.Done()

			out := r.checkOne(ctx, host, port, now)

			mu.Lock()
			outcomes[i] = out
			completed++
			if r.OnProgress != nil {
				r.OnProgress(completed, total)
			}
			mu.Unlock()

			r.Logger.Debug("host_checked",
				zap.String("host", host),
				zap.Int("port", port),
				zap.String("status", string(out.Status)),
				zap.String("error", out.Error),
			)
		}()
	}
	wg.Wait()

	res := &domain.BatchResult{
		Outcomes:  outcomes,
		Summary:   summarize(outcomes),
		Buckets:   bucketize(outcomes),
		CheckedAt: now,
	}
	return res, nil
}

func (r *Runner) checkOne(ctx context.Context, host string, port int, now time.Time) domain.Outcome {
	expiry, err := r.Prober.Probe(ctx, host, port)
	if err != nil {
		return domain.Outcome{
			Host:   host,
			Port:   port,
			Status: domain.StatusError,
			Error:  err.Error(),
		}
	}

	days := domain.DaysUntil(now, expiry)
	status := domain.StatusOK
	if days <= r.WarnDays {
		// covers negative days-left: an already-expired certificate is
		// always at least a WARNING, never OK
		status = domain.StatusWarning
	}

	e := expiry.UTC()
	return domain.Outcome{
		Host:     host,
		Port:     port,
		Expiry:   &e,
		DaysLeft: &days,
		Status:   status,
	}
}

// normalizeHosts trims entries, drops blanks and collapses duplicates while
// preserving first-seen order.
func normalizeHosts(hosts []string) []string {
	seen := make(map[string]struct{}, len(hosts))
	out := make([]string, 0, len(hosts))
	for _, h := range hosts {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	return out
}

func summarize(outcomes []domain.Outcome) domain.Summary {
	s := domain.Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		switch o.Status {
		case domain.StatusOK:
			s.OK++
		case domain.StatusWarning:
			s.Warning++
		case domain.StatusError:
			s.Error++
		}
	}
	return s
}

// bucketize counts outcomes per expiry bucket. ERROR outcomes carry no
// days-left and are excluded rather than lumped in with "Expired"; the
// summary already reports them separately.
func bucketize(outcomes []domain.Outcome) []domain.BucketCount {
	counts := make(map[string]int, len(domain.BucketLabels))
	for _, o := range outcomes {
		if o.DaysLeft == nil {
			continue
		}
		counts[domain.BucketFor(*o.DaysLeft)]++
	}
	out := make([]domain.BucketCount, 0, len(domain.BucketLabels))
	for _, label := range domain.BucketLabels {
		out = append(out, domain.BucketCount{Label: label, Count: counts[label]})
	}
	return out
}
