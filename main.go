package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/example/flashdeck/internal/database"
	"github.com/example/flashdeck/internal/excel"
	"github.com/example/flashdeck/internal/scheduler"
	"github.com/example/flashdeck/internal/session"
	"github.com/example/flashdeck/internal/spaced_repetition"
	"github.com/example/flashdeck/internal/study"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; environment variables win either way
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	var err error
	switch os.Args[1] {
	case "import":
		err = runImport(os.Args[2:])
	case "study":
		err = runStudy(os.Args[2:])
	case "due":
		err = runDue()
	case "stats":
		err = runStats()
	case "remind":
		err = runRemind(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: flashdeck <command>

Commands:
  import -file <path>   import cards from an .xlsx or .csv file
  study  -deck <name>   run a review session over a deck
  due                   show due-card counts per deck
  stats                 show deck and global progress
  remind [-deck <name>] run the periodic due-card reminder, or check one deck now`)
}

// runImport loads cards from a spreadsheet into the database
func runImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	file := fs.String("file", "", "path to .xlsx or .csv file")
	sheet := fs.String("sheet", "Sheet1", "sheet name for Excel files")
	deck := fs.String("deck", "default", "deck for rows without a deck column value")
	fs.Parse(args)

	if *file == "" {
		return fmt.Errorf("import: -file is required")
	}

	config := excel.DefaultImportConfig()
	config.FilePath = *file
	config.SheetName = *sheet
	config.DefaultDeck = *deck

	result, err := excel.ImportCards(config)
	if err != nil {
		return err
	}

	fmt.Printf("Processed %d rows: %d created, %d updated, %d skipped\n",
		result.TotalProcessed, result.Created, result.Updated, result.Skipped)
	for _, e := range result.Errors {
		fmt.Printf("  %s\n", e)
	}
	return nil
}

// runStudy drives an interactive review session in the terminal
func runStudy(args []string) error {
	fs := flag.NewFlagSet("study", flag.ExitOnError)
	deck := fs.String("deck", "", "deck to study")
	fs.Parse(args)

	if *deck == "" {
		return fmt.Errorf("study: -deck is required")
	}

	engine := study.New(database.NewCardRepository(), database.NewStoreRepository())

	sess, err := engine.StartSession(*deck)
	if err != nil {
		if errors.Is(err, study.ErrEmptyDeck) {
			return fmt.Errorf("deck %q has no cards, run import first", *deck)
		}
		return err
	}

	if sess.Current() == nil {
		fmt.Printf("Nothing due in %q right now.\n", *deck)
		return nil
	}

	fmt.Printf("Studying %q: %d cards due. Ratings: a=Again h=Hard g=Good e=Easy, q=quit\n\n",
		*deck, len(sess.Queue))

	reader := bufio.NewReader(os.Stdin)
	for card := sess.Current(); card != nil; card = sess.Current() {
		fmt.Printf("Q: %s\n", card.Prompt)
		fmt.Print("   (press Enter to reveal) ")
		if _, err := reader.ReadString('\n'); err != nil {
			break
		}
		fmt.Printf("A: %s\n", card.Answer)

		rating, quit := readRating(reader)
		if quit {
			break
		}

		snap, err := engine.Rate(sess, rating)
		if err != nil {
			if snap == nil {
				// Rejected input, nothing was applied
				log.Printf("Warning: %v", err)
				continue
			}
			// Save failures are recoverable: the rating itself is applied
			log.Printf("Warning: %v (will retry)", err)
			if err := engine.RetrySave(sess); err != nil {
				log.Printf("Retry failed, latest rating may not be persisted: %v", err)
			}
		}
		fmt.Printf("   %d/%d done (%d%%), streak %d days\n\n",
			snap.Position, snap.Total, snap.ProgressPercent, snap.Streak)
	}

	summary := engine.End(sess)
	fmt.Printf("Session over: %d studied, %d%% accuracy.\n", summary.Studied, summary.Accuracy)
	return nil
}

// readRating prompts until the user enters a recognized rating or quits
func readRating(reader *bufio.Reader) (spaced_repetition.Rating, bool) {
	for {
		fmt.Print("   rating [a/h/g/e/q]: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return 0, true
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "a":
			return spaced_repetition.Again, false
		case "h":
			return spaced_repetition.Hard, false
		case "g":
			return spaced_repetition.Good, false
		case "e":
			return spaced_repetition.Easy, false
		case "q":
			return 0, true
		}
		fmt.Println("   unrecognized rating, try again")
	}
}

// runDue prints due-card counts for every deck
func runDue() error {
	cardRepo := database.NewCardRepository()
	scheduleRepo := database.NewScheduleRepository()

	decks, err := cardRepo.GetDecks()
	if err != nil {
		return err
	}
	if len(decks) == 0 {
		fmt.Println("No decks. Run import first.")
		return nil
	}

	for _, deck := range decks {
		total, err := cardRepo.CountByDeck(deck)
		if err != nil {
			return err
		}
		due, err := scheduleRepo.GetDueByDeck(deck)
		if err != nil {
			return err
		}
		rated, err := scheduleRepo.GetByDeck(deck)
		if err != nil {
			return err
		}
		// Cards never rated are always due
		never := total - len(rated)
		fmt.Printf("%-24s %d due (%d new) of %d cards\n", deck, len(due)+never, never, total)
	}
	return nil
}

// runStats prints per-deck progress and the global counters
func runStats() error {
	sm := spaced_repetition.NewSM2()
	store := database.NewStoreRepository().Load()
	statsRepo := database.NewStatsRepository()

	decks, err := statsRepo.GetAllDeckProgress()
	if err != nil {
		return err
	}

	scheduleRepo := database.NewScheduleRepository()
	for _, d := range decks {
		mastered := session.MasteredCountForDeck(sm, store.Schedules, d.Deck)
		fmt.Printf("%-24s studied %d, mastered %d\n", d.Deck, d.Studied, mastered)

		deckStats, err := scheduleRepo.GetDeckStatistics(d.Deck)
		if err != nil {
			return err
		}
		fmt.Printf("%-24s %d in progress, %d due now, avg ease %.2f\n", "",
			deckStats["cards_in_progress"], deckStats["due_now"], deckStats["avg_ease_factor"])
	}

	fmt.Printf("\nTotal studied: %d\n", store.Stats.TotalStudied)
	fmt.Printf("Current streak: %d days\n", store.Stats.CurrentStreak)
	if store.Stats.LastStudyDate != "" {
		fmt.Printf("Last studied: %s\n", store.Stats.LastStudyDate)
	}
	fmt.Printf("Mastered overall: %d\n", session.MasteredCount(sm, store.Schedules))
	return nil
}

// stdoutNotifier prints reminders to the terminal
type stdoutNotifier struct{}

func (stdoutNotifier) RemindDue(deck string, count int) error {
	fmt.Printf("Deck %q has %d cards due for review\n", deck, count)
	return nil
}

// runRemind runs the reminder loop until interrupted, or performs a one-shot
// check for a single deck
func runRemind(args []string) error {
	fs := flag.NewFlagSet("remind", flag.ExitOnError)
	deck := fs.String("deck", "", "check one deck now and exit")
	fs.Parse(args)

	s := scheduler.New(stdoutNotifier{})

	if *deck != "" {
		return s.RunManualCheck(*deck)
	}

	s.Start()
	defer s.Stop()

	log.Println("Reminder scheduler started. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("Received signal: %v, shutting down", sig)
	return nil
}
