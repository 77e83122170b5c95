package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/example/flashdeck/pkg/models"
)

// connectTest points the package at a throwaway sqlite file.
func connectTest(t *testing.T) {
	t.Helper()
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "flashdeck_test.db"))
	if err := Connect(); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() {
		if err := Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
}

func TestCardRepositoryRoundTrip(t *testing.T) {
	connectTest(t)
	repo := NewCardRepository()

	card := &models.Card{
		ID:         "card-1",
		Deck:       "js",
		Prompt:     "What is a closure?",
		Answer:     "A function together with its lexical environment",
		Topic:      "functions",
		Difficulty: 3,
		Position:   1,
	}
	if err := repo.Create(card); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if card.CreatedAt.IsZero() {
		t.Error("CreatedAt not populated on create")
	}

	got, err := repo.GetByID("card-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Prompt != card.Prompt || got.Deck != "js" {
		t.Errorf("got %+v", got)
	}

	found, err := repo.FindByPrompt("js", "What is a closure?")
	if err != nil {
		t.Fatalf("FindByPrompt: %v", err)
	}
	if found == nil || found.ID != "card-1" {
		t.Errorf("FindByPrompt = %+v", found)
	}

	missing, err := repo.FindByPrompt("js", "no such prompt")
	if err != nil {
		t.Fatalf("FindByPrompt(missing): %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing prompt, got %+v", missing)
	}

	decks, err := repo.GetDecks()
	if err != nil {
		t.Fatalf("GetDecks: %v", err)
	}
	if len(decks) != 1 || decks[0] != "js" {
		t.Errorf("GetDecks = %v", decks)
	}

	count, err := repo.CountByDeck("js")
	if err != nil {
		t.Fatalf("CountByDeck: %v", err)
	}
	if count != 1 {
		t.Errorf("CountByDeck = %d, want 1", count)
	}
}

func TestScheduleRepositoryCreateOrUpdate(t *testing.T) {
	connectTest(t)

	cards := NewCardRepository()
	if err := cards.Create(&models.Card{ID: "card-1", Deck: "js", Prompt: "p", Answer: "a"}); err != nil {
		t.Fatalf("Create card: %v", err)
	}

	repo := NewScheduleRepository()

	missing, err := repo.GetByDeckAndCard("js", "card-1")
	if err != nil {
		t.Fatalf("GetByDeckAndCard: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil before first rating, got %+v", missing)
	}

	now := time.Now().UTC().Truncate(time.Second)
	schedule := models.NewCardSchedule("js", "card-1")
	schedule.EaseFactor = 2.5
	schedule.Interval = 1
	schedule.Repetitions = 1
	schedule.NextReviewAt = now.AddDate(0, 0, 1)
	schedule.LastReviewAt = &now
	schedule.LastRating = 2

	if err := repo.CreateOrUpdate(&schedule); err != nil {
		t.Fatalf("CreateOrUpdate(create): %v", err)
	}
	if schedule.ID == 0 {
		t.Error("ID not populated on create")
	}

	schedule.Interval = 6
	schedule.Repetitions = 2
	if err := repo.CreateOrUpdate(&schedule); err != nil {
		t.Fatalf("CreateOrUpdate(update): %v", err)
	}

	got, err := repo.GetByDeckAndCard("js", "card-1")
	if err != nil {
		t.Fatalf("GetByDeckAndCard: %v", err)
	}
	if got == nil {
		t.Fatal("schedule missing after upsert")
	}
	if got.Interval != 6 || got.Repetitions != 2 {
		t.Errorf("got interval %d reps %d, want 6 and 2", got.Interval, got.Repetitions)
	}
	if got.LastReviewAt == nil {
		t.Error("LastReviewAt lost in round trip")
	}

	all, err := repo.GetAll()
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("GetAll returned %d rows, want 1 (upsert must not duplicate)", len(all))
	}
}

func TestStatsRepositoryRoundTrip(t *testing.T) {
	connectTest(t)
	repo := NewStatsRepository()

	// Fresh database: zero values, no error
	progress, err := repo.GetDeckProgress("js")
	if err != nil {
		t.Fatalf("GetDeckProgress: %v", err)
	}
	if progress.Studied != 0 {
		t.Errorf("fresh Studied = %d, want 0", progress.Studied)
	}

	if err := repo.SaveDeckProgress(models.DeckProgress{Deck: "js", Studied: 3}); err != nil {
		t.Fatalf("SaveDeckProgress: %v", err)
	}
	if err := repo.SaveDeckProgress(models.DeckProgress{Deck: "js", Studied: 5}); err != nil {
		t.Fatalf("SaveDeckProgress(update): %v", err)
	}

	progress, err = repo.GetDeckProgress("js")
	if err != nil {
		t.Fatalf("GetDeckProgress: %v", err)
	}
	if progress.Studied != 5 {
		t.Errorf("Studied = %d, want 5", progress.Studied)
	}

	stats, err := repo.GetGlobalStats()
	if err != nil {
		t.Fatalf("GetGlobalStats: %v", err)
	}
	if stats.TotalStudied != 0 || stats.CurrentStreak != 0 {
		t.Errorf("fresh stats = %+v", stats)
	}

	want := models.GlobalStats{TotalStudied: 12, CurrentStreak: 4, LastStudyDate: "2025-04-10"}
	if err := repo.SaveGlobalStats(want); err != nil {
		t.Fatalf("SaveGlobalStats: %v", err)
	}
	got, err := repo.GetGlobalStats()
	if err != nil {
		t.Fatalf("GetGlobalStats: %v", err)
	}
	if *got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}
}

func TestStoreRepositoryLoadSave(t *testing.T) {
	connectTest(t)

	cards := NewCardRepository()
	if err := cards.Create(&models.Card{ID: "card-1", Deck: "js", Prompt: "p", Answer: "a"}); err != nil {
		t.Fatalf("Create card: %v", err)
	}

	repo := NewStoreRepository()

	store := repo.Load()
	if len(store.Schedules) != 0 {
		t.Errorf("fresh store has %d schedules", len(store.Schedules))
	}

	now := time.Now().UTC().Truncate(time.Second)
	schedule := models.NewCardSchedule("js", "card-1")
	schedule.Interval = 1
	schedule.Repetitions = 1
	schedule.NextReviewAt = now.AddDate(0, 0, 1)
	schedule.LastReviewAt = &now
	store.Schedules[models.ScheduleKey("js", "card-1")] = schedule
	store.Decks["js"] = models.DeckProgress{Deck: "js", Studied: 1}
	store.Stats = models.GlobalStats{TotalStudied: 1, CurrentStreak: 1, LastStudyDate: "2025-04-10"}

	if err := repo.SaveRating(store, "js", "card-1"); err != nil {
		t.Fatalf("SaveRating: %v", err)
	}

	reloaded := repo.Load()
	if len(reloaded.Schedules) != 1 {
		t.Fatalf("reloaded %d schedules, want 1", len(reloaded.Schedules))
	}
	got := reloaded.Schedules[models.ScheduleKey("js", "card-1")]
	if got.Repetitions != 1 || got.Interval != 1 {
		t.Errorf("reloaded schedule = %+v", got)
	}
	if reloaded.Decks["js"].Studied != 1 {
		t.Errorf("reloaded deck studied = %d, want 1", reloaded.Decks["js"].Studied)
	}
	if reloaded.Stats != store.Stats {
		t.Errorf("reloaded stats = %+v, want %+v", reloaded.Stats, store.Stats)
	}
}
