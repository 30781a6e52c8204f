package service

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"lectern/internal/modkit/repokit"
	perr "lectern/internal/platform/errors"
	"lectern/internal/services/library/domain"
	"lectern/internal/services/library/repo"

	"github.com/google/uuid"
)

// fakeStorage keeps items in a map and records calls
type fakeStorage struct {
	items map[string]domain.ContentItem
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{items: map[string]domain.ContentItem{}}
}

func (f *fakeStorage) List(_ context.Context, fl domain.ListFilter) ([]domain.ContentItem, error) {
	var out []domain.ContentItem
	for _, it := range f.items {
		if fl.Category == "" || it.Category == fl.Category {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeStorage) Get(_ context.Context, id string) (domain.ContentItem, error) {
	it, ok := f.items[id]
	if !ok {
		return domain.ContentItem{}, perr.NotFoundf("content %q not found", id)
	}
	return it, nil
}

func (f *fakeStorage) Insert(_ context.Context, it domain.ContentItem) error {
	f.items[it.ID] = it
	return nil
}

func (f *fakeStorage) Update(_ context.Context, it domain.ContentItem) error {
	if _, ok := f.items[it.ID]; !ok {
		return perr.NotFoundf("content %q not found", it.ID)
	}
	f.items[it.ID] = it
	return nil
}

func (f *fakeStorage) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return perr.NotFoundf("content %q not found", id)
	}
	delete(f.items, id)
	return nil
}

func (f *fakeStorage) ReplaceTags(_ context.Context, id string, tags []string) error {
	it, ok := f.items[id]
	if !ok {
		return perr.NotFoundf("content %q not found", id)
	}
	it.Tags = tags
	f.items[id] = it
	return nil
}

func (f *fakeStorage) SetProcessing(_ context.Context, id, status string) error {
	it, ok := f.items[id]
	if !ok {
		return perr.NotFoundf("content %q not found", id)
	}
	it.ProcessingStatus = status
	f.items[id] = it
	return nil
}

func newTestService(fs *fakeStorage) *Service {
	s := New(nil, repokit.BindFunc[repo.Storage](func(repokit.Queryer) repo.Storage { return fs }), nil, Config{})
	s.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestCreateQueuesAnalysisForSubstantialBody(t *testing.T) {
	fs := newFakeStorage()
	s := newTestService(fs)

	long := strings.Repeat("word ", 30) // 150 chars
	it, err := s.Create(context.Background(), domain.CreateInput{
		Title: "Sunday Sermon", Category: "sermons", Body: long,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if it.ProcessingStatus != "pending" {
		t.Fatalf("substantial body should queue analysis, got %q", it.ProcessingStatus)
	}
	if it.WordCount != 30 {
		t.Fatalf("word count = %d, want 30", it.WordCount)
	}
	if _, err := uuid.Parse(it.ID); err != nil {
		t.Fatalf("id is not a uuid: %q", it.ID)
	}
}

func TestCreateShortBodySkipsAnalysis(t *testing.T) {
	s := newTestService(newFakeStorage())
	it, err := s.Create(context.Background(), domain.CreateInput{
		Title: "Note", Category: "study-notes", Body: "short",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if it.ProcessingStatus != "completed" {
		t.Fatalf("short body should not queue analysis, got %q", it.ProcessingStatus)
	}
}

func TestCreateValidation(t *testing.T) {
	s := newTestService(newFakeStorage())
	if _, err := s.Create(context.Background(), domain.CreateInput{Title: "  ", Category: "sermons"}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("blank title: %v", err)
	}
	if _, err := s.Create(context.Background(), domain.CreateInput{Title: "x", Category: "nope"}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("bad category: %v", err)
	}
}

func TestUpdateBodyChangeRequeuesAnalysis(t *testing.T) {
	fs := newFakeStorage()
	s := newTestService(fs)

	it, _ := s.Create(context.Background(), domain.CreateInput{
		Title: "Sermon", Category: "sermons", Body: "short",
	})
	// simulate finished analysis on the stored row
	stored := fs.items[it.ID]
	stored.ProcessingStatus = "completed"
	stored.KeyThemes = []string{"grace"}
	stored.ThoughtQuestions = []string{"why?"}
	fs.items[it.ID] = stored

	long := strings.Repeat("new words here ", 10)
	got, err := s.Update(context.Background(), it.ID, domain.UpdateInput{Body: &long})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.ProcessingStatus != "pending" {
		t.Fatalf("substantial body change should requeue, got %q", got.ProcessingStatus)
	}
	if len(got.KeyThemes) != 0 || len(got.ThoughtQuestions) != 0 {
		t.Fatalf("stale derived fields must be cleared: %+v", got)
	}
	if got.WordCount != len(strings.Fields(long)) {
		t.Fatalf("word count not recomputed: %d", got.WordCount)
	}
}

func TestUpdateSameBodyDoesNotRequeue(t *testing.T) {
	fs := newFakeStorage()
	s := newTestService(fs)

	long := strings.Repeat("word ", 30)
	it, _ := s.Create(context.Background(), domain.CreateInput{
		Title: "Sermon", Category: "sermons", Body: long,
	})
	stored := fs.items[it.ID]
	stored.ProcessingStatus = "completed"
	stored.KeyThemes = []string{"grace"}
	fs.items[it.ID] = stored

	title := "Renamed"
	got, err := s.Update(context.Background(), it.ID, domain.UpdateInput{Title: &title, Body: &long})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.ProcessingStatus != "completed" || len(got.KeyThemes) != 1 {
		t.Fatalf("unchanged body must not requeue: %+v", got)
	}
	if got.Title != "Renamed" {
		t.Fatalf("title not applied")
	}
}

func TestEditSlotRewritesFlatList(t *testing.T) {
	fs := newFakeStorage()
	s := newTestService(fs)

	it, _ := s.Create(context.Background(), domain.CreateInput{
		Title: "Sermon", Category: "sermons",
		Tags: []string{"Prayer & Worship", "CustomFoo"},
	})

	got, err := s.EditSlot(context.Background(), it.ID, domain.SlotEdit{
		Category: "area_of_focus", Ordinal: 1, Tag: "Faith & Trust",
	})
	if err != nil {
		t.Fatalf("edit slot: %v", err)
	}
	want := []string{"Prayer & Worship", "Faith & Trust", "CustomFoo"}
	if !reflect.DeepEqual(got.Tags, want) {
		t.Fatalf("tags = %v, want %v", got.Tags, want)
	}

	// clearing
	got, err = s.EditSlot(context.Background(), it.ID, domain.SlotEdit{
		Category: "custom", Ordinal: 0, Tag: "",
	})
	if err != nil {
		t.Fatalf("clear slot: %v", err)
	}
	want = []string{"Prayer & Worship", "Faith & Trust"}
	if !reflect.DeepEqual(got.Tags, want) {
		t.Fatalf("tags after clear = %v, want %v", got.Tags, want)
	}
}

func TestEditSlotValidation(t *testing.T) {
	s := newTestService(newFakeStorage())
	if _, err := s.EditSlot(context.Background(), uuid.NewString(), domain.SlotEdit{Category: "bogus"}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("bad category: %v", err)
	}
	if _, err := s.EditSlot(context.Background(), uuid.NewString(), domain.SlotEdit{Category: "tone_style", Ordinal: 5}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("bad ordinal: %v", err)
	}
}

func TestReplaceTagsCapsAndCleans(t *testing.T) {
	fs := newFakeStorage()
	s := newTestService(fs)

	it, _ := s.Create(context.Background(), domain.CreateInput{
		Title: "Sermon", Category: "sermons",
	})
	got, err := s.ReplaceTags(context.Background(), it.ID,
		[]string{"a", "", "b", "  ", "c", "d", "e", "f"})
	if err != nil {
		t.Fatalf("replace tags: %v", err)
	}
	want := []string{"a", "b", "c", "d", "e"}
	if !reflect.DeepEqual(got.Tags, want) {
		t.Fatalf("tags = %v, want %v", got.Tags, want)
	}
}

func TestGetRejectsMalformedID(t *testing.T) {
	s := newTestService(newFakeStorage())
	if _, err := s.Get(context.Background(), "not-a-uuid"); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("malformed id: %v", err)
	}
}
