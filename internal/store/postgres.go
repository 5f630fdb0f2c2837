// Package store holds the Postgres-backed persistence layer and the Redis
// seen-cache used by deduplication.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobradar/jobradar/internal/jobs"
)

// NewPostgresPool creates and verifies a pgxpool connection pool.
func NewPostgresPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return pool, nil
}

// JobStore persists postings. Lookup methods return (nil, nil) when nothing
// matches, so callers can distinguish absence from outage.
type JobStore struct {
	pool *pgxpool.Pool
}

func NewJobStore(pool *pgxpool.Pool) *JobStore {
	return &JobStore{pool: pool}
}

const jobColumns = `id, external_id, title, company, location, is_remote,
	salary_min, salary_max, currency, description, posting_url,
	source_platform, posted_at, discovered_at, technologies`

func (s *JobStore) Create(ctx context.Context, p *jobs.JobPosting) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO job_postings (`+jobColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		p.ID, p.ExternalID, p.Title, p.Company, p.Location, p.IsRemote,
		p.SalaryMin, p.SalaryMax, p.SalaryCurrency, p.Description, p.PostingURL,
		p.SourcePlatform, p.PostedAt, p.DiscoveredAt, p.Technologies,
	)
	if err != nil {
		return fmt.Errorf("insert job posting: %w", err)
	}
	return nil
}

func (s *JobStore) GetByExternalID(ctx context.Context, platform, externalID string) (*jobs.JobPosting, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+jobColumns+`
		FROM job_postings
		WHERE source_platform = $1 AND external_id = $2`,
		platform, externalID,
	)
	return scanPosting(row)
}

func (s *JobStore) GetByTitleCompany(ctx context.Context, title, company string) (*jobs.JobPosting, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+jobColumns+`
		FROM job_postings
		WHERE title = $1 AND company = $2
		LIMIT 1`,
		title, company,
	)
	return scanPosting(row)
}

func (s *JobStore) GetByID(ctx context.Context, id string) (*jobs.JobPosting, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+jobColumns+`
		FROM job_postings
		WHERE id = $1`,
		id,
	)
	return scanPosting(row)
}

// List returns the most recently discovered postings, newest first.
func (s *JobStore) List(ctx context.Context, limit int) ([]*jobs.JobPosting, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+jobColumns+`
		FROM job_postings
		ORDER BY discovered_at DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list job postings: %w", err)
	}
	defer rows.Close()

	var postings []*jobs.JobPosting
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, err
		}
		postings = append(postings, p)
	}
	return postings, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPosting(row rowScanner) (*jobs.JobPosting, error) {
	var p jobs.JobPosting
	err := row.Scan(
		&p.ID, &p.ExternalID, &p.Title, &p.Company, &p.Location, &p.IsRemote,
		&p.SalaryMin, &p.SalaryMax, &p.SalaryCurrency, &p.Description, &p.PostingURL,
		&p.SourcePlatform, &p.PostedAt, &p.DiscoveredAt, &p.Technologies,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan job posting: %w", err)
	}
	return &p, nil
}

// ResumeStore persists analyzed resume digests. Only the latest digest per
// candidate matters for matching, so saves upsert by id.
type ResumeStore struct {
	pool *pgxpool.Pool
}

func NewResumeStore(pool *pgxpool.Pool) *ResumeStore {
	return &ResumeStore{pool: pool}
}

func (s *ResumeStore) SaveDigest(ctx context.Context, d *jobs.ResumeDigest) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO resume_digests
			(id, summary, years_of_experience, technical_skills, soft_skills,
			 certifications, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			summary = EXCLUDED.summary,
			years_of_experience = EXCLUDED.years_of_experience,
			technical_skills = EXCLUDED.technical_skills,
			soft_skills = EXCLUDED.soft_skills,
			certifications = EXCLUDED.certifications,
			updated_at = EXCLUDED.updated_at`,
		d.ID, d.Summary, d.YearsOfExperience, d.TechnicalSkills, d.SoftSkills,
		d.Certifications, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save resume digest: %w", err)
	}
	return nil
}

// LatestDigest returns the most recently updated digest, or (nil, nil) when
// no resume has been analyzed yet.
func (s *ResumeStore) LatestDigest(ctx context.Context) (*jobs.ResumeDigest, error) {
	var d jobs.ResumeDigest
	err := s.pool.QueryRow(ctx, `
		SELECT id, summary, years_of_experience, technical_skills, soft_skills,
		       certifications, updated_at
		FROM resume_digests
		ORDER BY updated_at DESC
		LIMIT 1`,
	).Scan(
		&d.ID, &d.Summary, &d.YearsOfExperience, &d.TechnicalSkills,
		&d.SoftSkills, &d.Certifications, &d.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load latest resume digest: %w", err)
	}
	return &d, nil
}

// Schema is the DDL the store expects. EnsureSchema applies it so a fresh
// database works without a separate migration step.
const Schema = `
CREATE TABLE IF NOT EXISTS job_postings (
	id              TEXT PRIMARY KEY,
	external_id     TEXT NOT NULL,
	title           TEXT NOT NULL,
	company         TEXT NOT NULL,
	location        TEXT NOT NULL DEFAULT '',
	is_remote       BOOLEAN NOT NULL DEFAULT FALSE,
	salary_min      INTEGER NOT NULL DEFAULT 0,
	salary_max      INTEGER NOT NULL DEFAULT 0,
	currency        TEXT NOT NULL DEFAULT '',
	description     TEXT NOT NULL DEFAULT '',
	posting_url     TEXT NOT NULL DEFAULT '',
	source_platform TEXT NOT NULL,
	posted_at       TIMESTAMPTZ,
	discovered_at   TIMESTAMPTZ NOT NULL,
	technologies    TEXT[] NOT NULL DEFAULT '{}',
	UNIQUE (source_platform, external_id)
);
CREATE INDEX IF NOT EXISTS job_postings_title_company
	ON job_postings (title, company);

CREATE TABLE IF NOT EXISTS resume_digests (
	id                  TEXT PRIMARY KEY,
	summary             TEXT NOT NULL DEFAULT '',
	years_of_experience INTEGER NOT NULL DEFAULT 0,
	technical_skills    TEXT[] NOT NULL DEFAULT '{}',
	soft_skills         TEXT[] NOT NULL DEFAULT '{}',
	certifications      TEXT[] NOT NULL DEFAULT '{}',
	updated_at          TIMESTAMPTZ NOT NULL
);
`

func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
