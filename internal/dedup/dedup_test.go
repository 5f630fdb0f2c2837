package dedup

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/jobs"
)

type stubStore struct {
	byIdentity map[string]*jobs.JobPosting
	byPair     map[string]*jobs.JobPosting
	created    []*jobs.JobPosting
	createErr  error
}

func newStubStore() *stubStore {
	return &stubStore{
		byIdentity: make(map[string]*jobs.JobPosting),
		byPair:     make(map[string]*jobs.JobPosting),
	}
}

func (s *stubStore) GetByExternalID(_ context.Context, platform, externalID string) (*jobs.JobPosting, error) {
	return s.byIdentity[platform+"|"+externalID], nil
}

func (s *stubStore) GetByTitleCompany(_ context.Context, title, company string) (*jobs.JobPosting, error) {
	return s.byPair[title+"|"+company], nil
}

func (s *stubStore) Create(_ context.Context, p *jobs.JobPosting) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.byIdentity[p.SourcePlatform+"|"+p.ExternalID] = p
	s.byPair[p.Title+"|"+p.Company] = p
	s.created = append(s.created, p)
	return nil
}

type stubCache struct {
	seen    map[string]bool
	seenErr error
}

func (c *stubCache) Seen(_ context.Context, key string) (bool, error) {
	if c.seenErr != nil {
		return false, c.seenErr
	}
	return c.seen[key], nil
}

func (c *stubCache) MarkSeen(_ context.Context, key string) error {
	if c.seen == nil {
		c.seen = make(map[string]bool)
	}
	c.seen[key] = true
	return nil
}

func TestPersistCrossSourceDuplicateDropped(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	d := New(store, nil, zap.NewNop())

	scraped := []jobs.ScrapedJob{
		{ExternalID: "a1", Title: "Backend Developer", Company: "Acme", SourcePlatform: "adapter-a"},
		{ExternalID: "b1", Title: "Backend Developer", Company: "Acme", SourcePlatform: "adapter-b"},
	}

	accepted, err := d.Persist(context.Background(), scraped)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(accepted) != 1 {
		t.Fatalf("expected exactly one accepted posting, got %d", len(accepted))
	}
	if accepted[0].ExternalID != "a1" {
		t.Fatalf("expected the first writer to win, got %q", accepted[0].ExternalID)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected one create, got %d", len(store.created))
	}
}

func TestPersistIsIdempotent(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	d := New(store, nil, zap.NewNop())

	scraped := []jobs.ScrapedJob{
		{ExternalID: "a1", Title: "Backend Developer", Company: "Acme", SourcePlatform: "adapter-a"},
		{ExternalID: "a2", Title: "SRE", Company: "Globex", SourcePlatform: "adapter-a"},
	}

	first, err := d.Persist(context.Background(), scraped)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 accepted on first run, got %d", len(first))
	}

	second, err := d.Persist(context.Background(), scraped)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second) != 0 {
		t.Fatalf("expected 0 accepted on identical re-run, got %d", len(second))
	}
	if len(store.created) != 2 {
		t.Fatalf("expected the store to hold 2 postings, got %d", len(store.created))
	}
}

func TestPersistInBatchDuplicateDropped(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	d := New(store, nil, zap.NewNop())

	scraped := []jobs.ScrapedJob{
		{ExternalID: "a1", Title: "Backend Developer", Company: "Acme", SourcePlatform: "adapter-a"},
		{ExternalID: "a1", Title: "Backend Developer", Company: "Acme", SourcePlatform: "adapter-a"},
	}

	accepted, err := d.Persist(context.Background(), scraped)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accepted) != 1 {
		t.Fatalf("expected in-batch duplicate to be dropped, got %d accepted", len(accepted))
	}
}

func TestPersistCacheFastPath(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	cache := &stubCache{seen: map[string]bool{"adapter-a\x00a1": true}}
	d := New(store, cache, zap.NewNop())

	accepted, err := d.Persist(context.Background(), []jobs.ScrapedJob{
		{ExternalID: "a1", Title: "Backend Developer", Company: "Acme", SourcePlatform: "adapter-a"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accepted) != 0 {
		t.Fatalf("expected cached identity to be dropped, got %d accepted", len(accepted))
	}
	if len(store.created) != 0 {
		t.Fatal("expected no store writes for a cached duplicate")
	}
}

func TestPersistCacheErrorDegradesToStore(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	cache := &stubCache{seenErr: errors.New("redis down")}
	d := New(store, cache, zap.NewNop())

	accepted, err := d.Persist(context.Background(), []jobs.ScrapedJob{
		{ExternalID: "a1", Title: "Backend Developer", Company: "Acme", SourcePlatform: "adapter-a"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accepted) != 1 {
		t.Fatalf("expected the posting to persist despite the cache outage, got %d", len(accepted))
	}
}

func TestPersistCreateFailureSkipsPosting(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	store.createErr = errors.New("constraint violation")
	d := New(store, nil, zap.NewNop())

	accepted, err := d.Persist(context.Background(), []jobs.ScrapedJob{
		{ExternalID: "a1", Title: "Backend Developer", Company: "Acme", SourcePlatform: "adapter-a"},
	})
	if err != nil {
		t.Fatalf("expected create failures to be swallowed, got %v", err)
	}
	if len(accepted) != 0 {
		t.Fatalf("expected no accepted postings, got %d", len(accepted))
	}
}
