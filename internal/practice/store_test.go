package practice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/methodo/internal/catalog"
	"github.com/abhisek/methodo/internal/store"
)

var fixedNow = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *store.MemoryKV) {
	t.Helper()
	kv := store.NewMemoryKV()
	s := NewStore(kv, nil)
	s.Now = func() time.Time { return fixedNow }
	return s, kv
}

func rec(ts time.Time, key catalog.Key) Record {
	return Record{
		Timestamp:           ts.UTC().Format(time.RFC3339Nano),
		Methodology:         key,
		MethodologyName:     string(key) + " name",
		MethodologyCategory: "cat-" + string(key),
		MethodologyTags:     []string{"t"},
		Context:             "ctx",
		QuestionAnswers:     []QuestionAnswer{{QuestionNumber: 1, Question: "q", Answer: "a"}},
	}
}

func TestSave_PrependsAndRoundTrips(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	first := rec(fixedNow.Add(-time.Hour), "5W2H")
	second := rec(fixedNow, "STAR")
	require.NoError(t, s.Save(ctx, first))
	require.NoError(t, s.Save(ctx, second))

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second, all[0])
	assert.Equal(t, first, all[1])
}

func TestSave_NoDedup(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	r := rec(fixedNow, "5W2H")
	require.NoError(t, s.Save(ctx, r))
	require.NoError(t, s.Save(ctx, r))

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetAll_EmptyAndCorrupt(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	require.NoError(t, kv.Set(ctx, store.KeyPracticeHistory, "{not json"))
	all, err = s.GetAll(ctx)
	require.NoError(t, err, "corrupt history degrades to empty")
	assert.Empty(t, all)

	require.NoError(t, kv.Set(ctx, store.KeyPracticeHistory, "null"))
	all, err = s.GetAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
}

func TestGetByMethodologyAndRecent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		key := catalog.Key("5W2H")
		if i%3 == 0 {
			key = "MECE"
		}
		require.NoError(t, s.Save(ctx, rec(fixedNow.Add(time.Duration(i)*time.Minute), key)))
	}

	mece, err := s.GetByMethodology(ctx, "MECE")
	require.NoError(t, err)
	assert.Len(t, mece, 4)
	for _, r := range mece {
		assert.Equal(t, catalog.Key("MECE"), r.Methodology)
	}

	none, err := s.GetByMethodology(ctx, "nope")
	require.NoError(t, err)
	assert.Empty(t, none)

	tests := []struct {
		limit int
		want  int
	}{
		{0, DefaultRecentLimit},
		{-3, DefaultRecentLimit},
		{3, 3},
		{50, 12},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("limit=%d", tt.limit), func(t *testing.T) {
			got, err := s.GetRecent(ctx, tt.limit)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}

	recent, err := s.GetRecent(ctx, 1)
	require.NoError(t, err)
	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, all[0], recent[0])
}

func TestDeleteAndClear(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	a := rec(fixedNow.Add(-time.Minute), "5W2H")
	b := rec(fixedNow, "STAR")
	require.NoError(t, s.Save(ctx, a))
	require.NoError(t, s.Save(ctx, b))

	require.NoError(t, s.Delete(ctx, "not-a-timestamp"))
	all, _ := s.GetAll(ctx)
	assert.Len(t, all, 2)

	require.NoError(t, s.Delete(ctx, a.Timestamp))
	all, _ = s.GetAll(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, b.Timestamp, all[0].Timestamp)

	got, ok, err := s.Get(ctx, b.Timestamp)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, b, got)

	require.NoError(t, s.Clear(ctx))
	all, _ = s.GetAll(ctx)
	assert.Empty(t, all)
}

func TestImport_IdempotentAndImportedWins(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	existing := rec(fixedNow, "5W2H")
	require.NoError(t, s.Save(ctx, existing))

	override := existing
	override.Context = "from import"
	other := rec(fixedNow.Add(-48*time.Hour), "MECE")
	payload, err := json.Marshal([]Record{override, other})
	require.NoError(t, err)

	require.NoError(t, s.ImportAll(ctx, string(payload)))
	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "from import", all[0].Context)

	require.NoError(t, s.ImportAll(ctx, string(payload)))
	again, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, again, len(all), "second import leaves length unchanged")
}

func TestImport_RejectsNonList(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, rec(fixedNow, "5W2H")))

	for _, payload := range []string{`{"timestamp":"x"}`, `"text"`, `42`, `not json`, `[1, 2]`, ``} {
		t.Run(payload, func(t *testing.T) {
			err := s.ImportAll(ctx, payload)
			assert.ErrorIs(t, err, ErrImport)
		})
	}

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "failed imports leave history untouched")
}

func TestImport_SkipsMistypedEntries(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	payload := `[
		{"timestamp":"2026-03-14T09:00:00Z","methodology":"STAR","context":"ok",
		 "questionAnswers":[{"questionNumber":1,"question":"S?","answer":"a"}]},
		{"timestamp":"2026-03-14T08:00:00Z","methodology":"STAR","context":"bad",
		 "questionAnswers":[{"questionNumber":"1","question":"S?","answer":"a"}]}
	]`
	require.NoError(t, s.ImportAll(ctx, payload))

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "ok", all[0].Context)
}

func TestImport_KeepsContextTitle(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	payload := `[{"timestamp":"2026-03-14T09:00:00Z","methodology":"STAR","contextTitle":"季度复盘","context":"c","questionAnswers":[]}]`
	require.NoError(t, s.ImportAll(ctx, payload))

	exported, err := s.ExportAll(ctx)
	require.NoError(t, err)
	assert.Contains(t, exported, `"contextTitle": "季度复盘"`)
}

func TestExportImport_RoundTrip(t *testing.T) {
	src, _ := newTestStore(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, src.Save(ctx, rec(fixedNow.Add(-time.Duration(i)*time.Hour), "5Why")))
	}
	exported, err := src.ExportAll(ctx)
	require.NoError(t, err)
	assert.Contains(t, exported, "\n  ", "export is indented")

	dst, _ := newTestStore(t)
	require.NoError(t, dst.ImportAll(ctx, exported))

	want, _ := src.GetAll(ctx)
	got, _ := dst.GetAll(ctx)
	assert.ElementsMatch(t, want, got)
}

func TestSave_StorageError(t *testing.T) {
	s, kv := newTestStore(t)
	kv.FailSet = errors.New("quota exceeded")

	err := s.Save(context.Background(), rec(fixedNow, "5W2H"))
	var se *store.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, store.KeyPracticeHistory, se.Key)
}

func TestStore_SQLiteBacked(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "practice.db"))
	require.NoError(t, err)
	defer db.Close()

	s := NewStore(db.KV(), nil)
	ctx := context.Background()
	r := rec(fixedNow, "SCQA")
	require.NoError(t, s.Save(ctx, r))

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, r, all[0])
}
