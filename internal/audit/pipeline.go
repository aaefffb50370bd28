package audit

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"pageaudit/internal/config"
	"pageaudit/internal/domain"
	"pageaudit/internal/fetcher"
	"pageaudit/internal/llm"
	"pageaudit/internal/monitoring"
	"pageaudit/internal/prompt"
	"pageaudit/internal/scoring"
	"pageaudit/internal/signals"
	"pageaudit/internal/storage"

	"go.uber.org/zap"
)

// Task is one audit to run through the pipeline.
type Task struct {
	AuditID  string
	URL      string
	Business *domain.BusinessContext
}

// Pipeline runs audits on a bounded worker pool. Each task is a single
// forward pass: fetch -> extract -> compose -> score -> reconcile -> persist.
// No state is shared between tasks.
type Pipeline struct {
	config     *config.Config
	fetcher    *fetcher.Client
	scorer     *llm.Client
	pgStore    *storage.PostgresStore
	redisStore *storage.RedisStore
	metrics    *monitoring.Metrics
	logger     *zap.Logger
	taskQueue  chan Task
	stopChan   chan struct{}
	wg         sync.WaitGroup
}

func NewPipeline(cfg *config.Config, fc *fetcher.Client, sc *llm.Client, ps *storage.PostgresStore, rs *storage.RedisStore, m *monitoring.Metrics, l *zap.Logger) *Pipeline {
	return &Pipeline{
		config:     cfg,
		fetcher:    fc,
		scorer:     sc,
		pgStore:    ps,
		redisStore: rs,
		metrics:    m,
		logger:     l,
		taskQueue:  make(chan Task, cfg.AuditWorkers*2),
		stopChan:   make(chan struct{}),
	}
}

func (p *Pipeline) Start() {
	for i := 0; i < p.config.AuditWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pipeline) Stop() {
	close(p.stopChan)
	close(p.taskQueue)
	p.wg.Wait()
}

func (p *Pipeline) Submit(task Task) {
	p.taskQueue <- task
}

func (p *Pipeline) worker() {
	defer p.wg.Done()
	for {
		select {
		case task, ok := <-p.taskQueue:
			if !ok {
				return // Channel closed
			}
			p.process(task)
		case <-p.stopChan:
			return
		}
	}
}

func (p *Pipeline) process(task Task) {
	start := time.Now()
	timeout := time.Duration(p.config.ScrapeTimeout+p.config.ScoreTimeout+10) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	defer func() {
		p.metrics.IncAuditsTotal()
		p.metrics.ObserveAuditDuration(time.Since(start))
	}()

	scrape, err := p.scrapePage(ctx, task.URL)
	if err != nil {
		p.fail(ctx, task, "fetch_failed", err)
		return
	}

	sig := signals.Extract(scrape.Markdown, scrape.HTML, scrape.Metadata)
	sig.ScreenshotURL = scrape.Screenshot

	if err := p.pgStore.SaveScrapeData(ctx, task.AuditID, sig); err != nil {
		p.fail(ctx, task, "db_save_failed", err)
		return
	}

	entries, err := p.pgStore.ListKnowledgeBase(ctx)
	if err != nil {
		p.fail(ctx, task, "rubric_load_failed", err)
		return
	}

	req := prompt.Compose(task.URL, sig, entries, task.Business)

	raw, err := p.scorer.Score(ctx, req)
	if err != nil {
		p.fail(ctx, task, scoringErrorType(err), err)
		return
	}

	result := scoring.Reconcile(raw)

	rawResponse, err := json.Marshal(result)
	if err != nil {
		p.fail(ctx, task, "encode_failed", err)
		return
	}

	if err := p.pgStore.SaveResults(ctx, task.AuditID, result, string(rawResponse)); err != nil {
		p.fail(ctx, task, "db_save_failed", err)
		return
	}

	p.logger.Info("audit completed",
		zap.String("audit_id", task.AuditID),
		zap.String("url", task.URL),
		zap.Int("overall_score", result.OverallScore),
		zap.Duration("took", time.Since(start)))
}

// scrapePage checks the cache before calling the scrape API, and caches
// fresh results on success.
func (p *Pipeline) scrapePage(ctx context.Context, url string) (*domain.ScrapeResult, error) {
	cached, err := p.redisStore.GetScrape(ctx, url)
	if err != nil {
		p.logger.Error("failed to check scrape cache", zap.String("url", url), zap.Error(err))
	}
	if cached != nil {
		p.logger.Info("using cached scrape", zap.String("url", url))
		return cached, nil
	}

	result, err := p.fetcher.Scrape(ctx, url)
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(p.config.ScrapeCacheHours) * time.Hour
	if err := p.redisStore.CacheScrape(ctx, url, result, ttl); err != nil {
		p.logger.Error("failed to cache scrape", zap.String("url", url), zap.Error(err))
	}
	return result, nil
}

// fail records the failure without advancing the audit status, so a failed
// audit never reads as completed.
func (p *Pipeline) fail(ctx context.Context, task Task, errorType string, cause error) {
	p.logger.Warn("audit failed",
		zap.String("audit_id", task.AuditID),
		zap.String("url", task.URL),
		zap.String("type", errorType),
		zap.Error(cause))
	p.metrics.IncErrorsTotal(errorType)

	if err := p.pgStore.MarkFailed(ctx, task.AuditID, cause.Error()); err != nil {
		p.logger.Error("failed to mark audit as failed", zap.String("audit_id", task.AuditID), zap.Error(err))
	}
}

func scoringErrorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		return "scoring_rate_limited"
	case errors.Is(err, domain.ErrQuotaExhausted):
		return "scoring_quota_exhausted"
	case errors.Is(err, domain.ErrNoToolCall):
		return "scoring_no_tool_call"
	case errors.Is(err, domain.ErrMalformedPayload):
		return "scoring_malformed_payload"
	default:
		return "scoring_failed"
	}
}
