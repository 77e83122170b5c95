package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/example/flashdeck/internal/database"
	"github.com/go-co-op/gocron"
)

// Default quiet-hours window for reminders
const (
	DefaultReminderStartHour = 8
	DefaultReminderEndHour   = 22
)

// Scheduler manages the periodic due-card check
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
}

// Notifier receives due-card reminders. The CLI supplies a stdout
// implementation; anything that can render a line will do.
type Notifier interface {
	RemindDue(deck string, count int) error
}

// New creates a new scheduler instance
func New(notifier Notifier) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		notifier:  notifier,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	// Hourly check for decks with cards due
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminders)

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// reminderWindow resolves the active hours from the environment, falling back
// to the defaults
func reminderWindow() (int, int) {
	startHour := DefaultReminderStartHour
	endHour := DefaultReminderEndHour

	if startHourStr := os.Getenv("REMINDER_START_HOUR"); startHourStr != "" {
		if h, err := strconv.Atoi(startHourStr); err == nil && h >= 0 && h <= 23 {
			startHour = h
		}
	}
	if endHourStr := os.Getenv("REMINDER_END_HOUR"); endHourStr != "" {
		if h, err := strconv.Atoi(endHourStr); err == nil && h >= 0 && h <= 23 {
			endHour = h
		}
	}

	return startHour, endHour
}

// checkAndSendReminders counts due cards per deck and notifies for each deck
// that has work waiting
func (s *Scheduler) checkAndSendReminders() {
	currentHour := time.Now().Hour()
	startHour, endHour := reminderWindow()

	if currentHour < startHour || currentHour > endHour {
		log.Printf("Current hour %d is outside reminder hours (%d-%d), skipping reminders",
			currentHour, startHour, endHour)
		return
	}

	cardRepo := database.NewCardRepository()
	scheduleRepo := database.NewScheduleRepository()

	decks, err := cardRepo.GetDecks()
	if err != nil {
		log.Printf("Error getting decks for reminders: %v", err)
		return
	}

	for _, deck := range decks {
		due, err := scheduleRepo.GetDueByDeck(deck)
		if err != nil {
			log.Printf("Error getting due cards for deck %s: %v", deck, err)
			continue
		}

		if len(due) > 0 {
			if err := s.notifier.RemindDue(deck, len(due)); err != nil {
				log.Printf("Error sending reminder for deck %s: %v", deck, err)
			}
		}
	}
}

// RunManualCheck forces a due-card check for a specific deck
func (s *Scheduler) RunManualCheck(deck string) error {
	scheduleRepo := database.NewScheduleRepository()

	due, err := scheduleRepo.GetDueByDeck(deck)
	if err != nil {
		return err
	}

	if len(due) > 0 {
		return s.notifier.RemindDue(deck, len(due))
	}

	return nil
}
