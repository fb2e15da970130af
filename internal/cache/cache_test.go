package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"launch_notifier/internal/domain"
)

type memoryStore struct {
	data    []byte
	loadErr error
	saveErr error
	loads   int
	saves   int
}

func (m *memoryStore) Load(_ context.Context) ([]byte, error) {
	m.loads++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.data == nil {
		return nil, ErrNoBaseline
	}
	return m.data, nil
}

func (m *memoryStore) Save(_ context.Context, data []byte) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data = append([]byte(nil), data...)
	return nil
}

func ptr[T any](v T) *T {
	return &v
}

func launch(id, status string) domain.Launch {
	return domain.Launch{
		ID:          id,
		Name:        "Launch " + id,
		Status:      &domain.Status{ID: 1, Name: ptr(status)},
		WindowStart: ptr("2024-07-02T04:03:00Z"),
		WindowEnd:   ptr("2024-07-02T04:33:00Z"),
		Net:         ptr("2024-07-02T04:03:00Z"),
		InfoURLs: []domain.LinkURL{
			{URL: "https://example.com/a"},
			{URL: "https://example.com/b"},
		},
		VidURLs: []domain.LinkURL{
			{URL: "https://video.example.com/1"},
		},
		Mission: &domain.Mission{Name: "Mission " + id, Description: "original"},
	}
}

func collection(launches ...domain.Launch) *domain.LaunchCollection {
	return &domain.LaunchCollection{Count: len(launches), Results: launches}
}

type CacheTestSuite struct {
	suite.Suite
	ctx    context.Context
	store  *memoryStore
	logger *slog.Logger
}

func (s *CacheTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = &memoryStore{}
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCacheTestSuite(t *testing.T) {
	suite.Run(t, new(CacheTestSuite))
}

// primed returns a cache whose baseline is c.
func (s *CacheTestSuite) primed(c *domain.LaunchCollection) *Cache {
	cache := New(s.ctx, s.store, true, s.logger)
	cache.FilterChanged(s.ctx, c)
	return cache
}

func (s *CacheTestSuite) TestFilterChanged_ColdStartReturnsEverything() {
	cache := New(s.ctx, s.store, true, s.logger)
	in := collection(launch("a", "Go for Launch"), launch("b", "TBD"))

	out := cache.FilterChanged(s.ctx, in)

	s.Same(in, out)
	s.Equal(1, s.store.saves)
	s.NotEmpty(s.store.data)
}

func (s *CacheTestSuite) TestFilterChanged_UnchangedInputIsEmpty() {
	in := collection(launch("a", "Go for Launch"), launch("b", "TBD"))
	cache := s.primed(in)

	out := cache.FilterChanged(s.ctx, collection(launch("a", "Go for Launch"), launch("b", "TBD")))

	s.Equal(0, out.Count)
	s.Empty(out.Results)
}

func (s *CacheTestSuite) TestFilterChanged_NewLaunchOnly() {
	cache := s.primed(collection(launch("a", "Go for Launch")))

	out := cache.FilterChanged(s.ctx, collection(launch("a", "Go for Launch"), launch("new", "TBD")))

	s.Equal(1, out.Count)
	s.Require().Len(out.Results, 1)
	s.Equal("new", out.Results[0].ID)
}

func (s *CacheTestSuite) TestFilterChanged_MonitoredFieldChanges() {
	mutations := map[string]func(l *domain.Launch){
		"status":       func(l *domain.Launch) { l.Status = &domain.Status{Name: ptr("Launch Successful")} },
		"window_start": func(l *domain.Launch) { l.WindowStart = ptr("2024-07-03T04:03:00Z") },
		"info_urls": func(l *domain.Launch) {
			l.InfoURLs = append(l.InfoURLs, domain.LinkURL{URL: "https://example.com/c"})
		},
		"vid_urls": func(l *domain.Launch) {
			l.VidURLs = append(l.VidURLs, domain.LinkURL{URL: "https://video.example.com/2"})
		},
		"net": func(l *domain.Launch) { l.Net = ptr("2024-07-02T05:00:00Z") },
	}

	for field, mutate := range mutations {
		s.Run(field, func() {
			s.store = &memoryStore{}
			cache := s.primed(collection(launch("a", "Go for Launch"), launch("b", "Go for Launch")))

			changed := launch("a", "Go for Launch")
			mutate(&changed)
			out := cache.FilterChanged(s.ctx, collection(changed, launch("b", "Go for Launch")))

			s.Equal(1, out.Count)
			s.Require().Len(out.Results, 1)
			s.Equal("a", out.Results[0].ID)
		})
	}
}

func (s *CacheTestSuite) TestFilterChanged_UnmonitoredFieldIgnored() {
	cache := s.primed(collection(launch("a", "Go for Launch")))

	changed := launch("a", "Go for Launch")
	changed.Mission.Description = "rewritten mission description"
	changed.Name = "Renamed"
	changed.WindowEnd = ptr("2024-07-02T06:00:00Z")
	out := cache.FilterChanged(s.ctx, collection(changed))

	s.Equal(0, out.Count)
}

func (s *CacheTestSuite) TestFilterChanged_URLOrderDoesNotMatter() {
	cache := s.primed(collection(launch("a", "Go for Launch")))

	reordered := launch("a", "Go for Launch")
	reordered.InfoURLs = []domain.LinkURL{{URL: "https://example.com/b"}, {URL: "https://example.com/a"}}
	out := cache.FilterChanged(s.ctx, collection(reordered))
	s.Equal(0, out.Count)

	removed := launch("a", "Go for Launch")
	removed.InfoURLs = []domain.LinkURL{{URL: "https://example.com/b"}}
	out = cache.FilterChanged(s.ctx, collection(removed))
	s.Equal(1, out.Count)
}

func (s *CacheTestSuite) TestFilterChanged_RemovedLaunchNotReported() {
	cache := s.primed(collection(launch("a", "Go for Launch"), launch("b", "TBD")))

	out := cache.FilterChanged(s.ctx, collection(launch("a", "Go for Launch")))

	s.Equal(0, out.Count)
	s.Empty(out.Results)
}

func (s *CacheTestSuite) TestFilterChanged_KeepsInputOrderAndCursors() {
	cache := s.primed(collection(launch("a", "TBD"), launch("b", "TBD"), launch("c", "TBD")))

	in := collection(launch("c", "Go for Launch"), launch("d", "TBD"), launch("a", "Go for Launch"), launch("b", "TBD"))
	in.Next = ptr("https://ll.thespacedevs.com/2.2.0/launch/upcoming/?offset=10")
	out := cache.FilterChanged(s.ctx, in)

	s.Equal(3, out.Count)
	s.Require().Len(out.Results, 3)
	s.Equal([]string{"c", "d", "a"}, []string{out.Results[0].ID, out.Results[1].ID, out.Results[2].ID})
	s.Equal(in.Next, out.Next)
	s.Nil(out.Previous)
}

func (s *CacheTestSuite) TestFilterChanged_BaselineIsUnfilteredInput() {
	cache := s.primed(collection(launch("a", "TBD")))

	second := collection(launch("a", "Go for Launch"), launch("b", "TBD"))
	cache.FilterChanged(s.ctx, second)

	persisted, err := domain.DecodeCollection(s.store.data)
	s.Require().NoError(err)
	s.Equal(2, persisted.Count)
	s.Len(persisted.Results, 2)

	out := cache.FilterChanged(s.ctx, collection(launch("a", "Go for Launch"), launch("b", "TBD")))
	s.Equal(0, out.Count)
}

func (s *CacheTestSuite) TestFilterChanged_DisabledIsPassThrough() {
	cache := New(s.ctx, s.store, false, s.logger)
	in := collection(launch("a", "Go for Launch"))

	for i := 0; i < 3; i++ {
		s.Same(in, cache.FilterChanged(s.ctx, in))
	}
	s.Equal(0, s.store.loads)
	s.Equal(0, s.store.saves)
}

func (s *CacheTestSuite) TestFilterChanged_DisabledAllowsNilStore() {
	cache := New(s.ctx, nil, false, s.logger)
	in := collection(launch("a", "Go for Launch"))
	s.Same(in, cache.FilterChanged(s.ctx, in))
	s.False(cache.Enabled())
}

func (s *CacheTestSuite) TestNew_CorruptBaselineStartsCold() {
	s.store.data = []byte(`{"count": 1, "results": [`)
	cache := New(s.ctx, s.store, true, s.logger)

	in := collection(launch("a", "Go for Launch"))
	s.Same(in, cache.FilterChanged(s.ctx, in))
}

func (s *CacheTestSuite) TestNew_LoadErrorStartsCold() {
	s.store.loadErr = errors.New("permission denied")
	cache := New(s.ctx, s.store, true, s.logger)

	in := collection(launch("a", "Go for Launch"))
	s.Same(in, cache.FilterChanged(s.ctx, in))
}

func (s *CacheTestSuite) TestNew_LoadsPersistedBaseline() {
	first := New(s.ctx, s.store, true, s.logger)
	first.FilterChanged(s.ctx, collection(launch("a", "Go for Launch")))

	restarted := New(s.ctx, s.store, true, s.logger)
	out := restarted.FilterChanged(s.ctx, collection(launch("a", "Launch Successful")))

	s.Equal(1, out.Count)
}

func (s *CacheTestSuite) TestFilterChanged_SaveFailureKeepsInMemoryBaseline() {
	s.store.saveErr = errors.New("disk full")
	cache := New(s.ctx, s.store, true, s.logger)

	cache.FilterChanged(s.ctx, collection(launch("a", "Go for Launch")))
	out := cache.FilterChanged(s.ctx, collection(launch("a", "Go for Launch")))

	s.Equal(0, out.Count)
	s.Equal(2, s.store.saves)
}

func (s *CacheTestSuite) TestFileStore_RoundTripAndCorruptFile() {
	dir := filepath.Join(s.T().TempDir(), "nested", "cache")
	store, err := NewFileStore(dir)
	s.Require().NoError(err)
	s.DirExists(dir)

	_, err = store.Load(s.ctx)
	s.ErrorIs(err, ErrNoBaseline)

	cache := New(s.ctx, store, true, s.logger)
	cache.FilterChanged(s.ctx, collection(launch("a", "Go for Launch")))

	data, err := os.ReadFile(store.Path())
	s.Require().NoError(err)
	var doc map[string]json.RawMessage
	s.Require().NoError(json.Unmarshal(data, &doc))
	s.Contains(doc, "count")
	s.Contains(doc, "results")

	s.Require().NoError(os.WriteFile(store.Path(), []byte("not json"), 0o644))
	cold := New(s.ctx, store, true, s.logger)
	in := collection(launch("a", "Go for Launch"))
	s.Same(in, cold.FilterChanged(s.ctx, in))
}

func (s *CacheTestSuite) TestBoltStore_RoundTrip() {
	store, err := NewBoltStore(s.T().TempDir())
	s.Require().NoError(err)
	defer store.Close()

	_, err = store.Load(s.ctx)
	s.ErrorIs(err, ErrNoBaseline)

	s.Require().NoError(store.Save(s.ctx, []byte(`{"count":0,"results":[]}`)))
	data, err := store.Load(s.ctx)
	s.Require().NoError(err)
	s.JSONEq(`{"count":0,"results":[]}`, string(data))
}
