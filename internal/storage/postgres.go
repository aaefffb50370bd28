package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"pageaudit/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists audit records and reads the knowledge base.
// The knowledge base is externally owned; this store never writes to it.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) Close() {
	s.db.Close()
}

// InitSchema creates the tables this service needs if they do not exist.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS audits (
			id UUID PRIMARY KEY,
			url TEXT NOT NULL,
			page_title TEXT NOT NULL DEFAULT '',
			headers JSONB NOT NULL DEFAULT '[]',
			body_text TEXT NOT NULL DEFAULT '',
			cta_texts JSONB NOT NULL DEFAULT '[]',
			screenshot_url TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			overall_score INT,
			scores JSONB,
			quick_wins JSONB,
			breakdown JSONB,
			raw_ai_response TEXT NOT NULL DEFAULT '',
			fail_reason TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS knowledge_base (
			id SERIAL PRIMARY KEY,
			category TEXT NOT NULL,
			criterion TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			weight INT NOT NULL DEFAULT 1
		);`)
	return err
}

// CreateAudit inserts a new audit record in the scraping state.
func (s *PostgresStore) CreateAudit(ctx context.Context, url string) (*domain.Audit, error) {
	audit := &domain.Audit{
		ID:     uuid.NewString(),
		URL:    url,
		Status: domain.StatusScraping,
	}
	err := s.db.QueryRow(ctx,
		`INSERT INTO audits (id, url, status) VALUES ($1, $2, $3)
		 RETURNING created_at, updated_at`,
		audit.ID, audit.URL, audit.Status,
	).Scan(&audit.CreatedAt, &audit.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert audit: %w", err)
	}
	return audit, nil
}

// SaveScrapeData records the extracted page signals and advances the audit
// to the scoring state.
func (s *PostgresStore) SaveScrapeData(ctx context.Context, id string, sig domain.PageSignals) error {
	headers, err := json.Marshal(sig.Headers)
	if err != nil {
		return err
	}
	ctaTexts, err := json.Marshal(sig.CTACandidates)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx,
		`UPDATE audits SET
			page_title = $2, headers = $3, body_text = $4, cta_texts = $5,
			screenshot_url = $6, status = $7, updated_at = NOW()
		 WHERE id = $1`,
		id, sig.Title, headers, sig.BodyTextExcerpt, ctaTexts,
		sig.ScreenshotURL, domain.StatusScoring)
	if err != nil {
		return fmt.Errorf("save scrape data: %w", err)
	}
	return nil
}

// SaveResults stores the reconciled result and completes the audit.
// rawResponse is the serialized reconciled payload kept for debugging.
func (s *PostgresStore) SaveResults(ctx context.Context, id string, result domain.AuditResult, rawResponse string) error {
	scores, err := json.Marshal(result.Scores)
	if err != nil {
		return err
	}
	quickWins, err := json.Marshal(result.QuickWins)
	if err != nil {
		return err
	}
	breakdown, err := json.Marshal(result.Breakdown)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx,
		`UPDATE audits SET
			overall_score = $2, scores = $3, quick_wins = $4, breakdown = $5,
			raw_ai_response = $6, status = $7, updated_at = NOW()
		 WHERE id = $1`,
		id, result.OverallScore, scores, quickWins, breakdown,
		rawResponse, domain.StatusCompleted)
	if err != nil {
		return fmt.Errorf("save audit results: %w", err)
	}
	return nil
}

// MarkFailed records the failure reason without advancing the status, so a
// failed audit never appears completed.
func (s *PostgresStore) MarkFailed(ctx context.Context, id, reason string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE audits SET fail_reason = $2, updated_at = NOW() WHERE id = $1`,
		id, reason)
	if err != nil {
		return fmt.Errorf("mark audit failed: %w", err)
	}
	return nil
}

// GetAudit retrieves one audit record by ID.
func (s *PostgresStore) GetAudit(ctx context.Context, id string) (*domain.Audit, error) {
	var (
		audit        domain.Audit
		headers      []byte
		ctaTexts     []byte
		overallScore *int
		scores       []byte
		quickWins    []byte
		breakdown    []byte
	)
	err := s.db.QueryRow(ctx,
		`SELECT id, url, page_title, headers, body_text, cta_texts, screenshot_url,
			status, overall_score, scores, quick_wins, breakdown,
			raw_ai_response, fail_reason, created_at, updated_at
		 FROM audits WHERE id = $1`, id,
	).Scan(&audit.ID, &audit.URL, &audit.PageTitle, &headers, &audit.BodyText,
		&ctaTexts, &audit.ScreenshotURL, &audit.Status, &overallScore, &scores,
		&quickWins, &breakdown, &audit.RawAIResponse, &audit.FailReason,
		&audit.CreatedAt, &audit.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAuditNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select audit: %w", err)
	}

	audit.OverallScore = overallScore
	if err := unmarshalColumn(headers, &audit.Headers); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(ctaTexts, &audit.CTATexts); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(scores, &audit.Scores); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(quickWins, &audit.QuickWins); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(breakdown, &audit.Breakdown); err != nil {
		return nil, err
	}
	return &audit, nil
}

// ListKnowledgeBase reads the full rubric. Read-only by design.
func (s *PostgresStore) ListKnowledgeBase(ctx context.Context) ([]domain.KnowledgeBaseEntry, error) {
	rows, err := s.db.Query(ctx,
		`SELECT category, criterion, description, weight FROM knowledge_base ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select knowledge base: %w", err)
	}
	defer rows.Close()

	var entries []domain.KnowledgeBaseEntry
	for rows.Next() {
		var e domain.KnowledgeBaseEntry
		if err := rows.Scan(&e.Category, &e.Criterion, &e.Description, &e.Weight); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func unmarshalColumn(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
