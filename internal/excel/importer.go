package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/flashdeck/internal/database"
	"github.com/example/flashdeck/pkg/models"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath         string // Path to the Excel or CSV file
	DeckColumn       string // Column with the deck name
	PromptColumn     string // Column with the card prompt
	AnswerColumn     string // Column with the reference answer
	TopicColumn      string // Column with the topic tag
	DifficultyColumn string // Column with the difficulty
	SheetName        string // Name of the sheet to import
	StartRow         int    // The row to start importing from (1-based index)
	DefaultDeck      string // Deck used when the deck column is empty
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		DeckColumn:       "A",
		PromptColumn:     "B",
		AnswerColumn:     "C",
		TopicColumn:      "D",
		DifficultyColumn: "E",
		SheetName:        "Sheet1",
		StartRow:         2, // By default, start from the second row (skip header)
		DefaultDeck:      "default",
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Updated        int
	Skipped        int
	Errors         []string
}

// ImportCards imports flashcards from an Excel or CSV file
func ImportCards(config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))

	if ext == ".csv" {
		return importFromCSV(config)
	}

	return importFromExcel(config)
}

// importFromExcel imports cards from an Excel file
func importFromExcel(config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	cardRepo := database.NewCardRepository()
	result := &ImportResult{
		Errors: make([]string, 0),
	}

	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}

		result.TotalProcessed++

		if err := processRow(row, config, cardRepo, result, i+1); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}

	return result, nil
}

// importFromCSV imports cards from a CSV file
func importFromCSV(config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	cardRepo := database.NewCardRepository()
	result := &ImportResult{
		Errors: make([]string, 0),
	}

	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %v", err)
		}

		rowNum++

		// Skip header rows
		if rowNum < config.StartRow {
			continue
		}

		result.TotalProcessed++

		if err := processRow(row, config, cardRepo, result, rowNum); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}

	return result, nil
}

// processRow handles one row from either source
func processRow(row []string, config ImportConfig, cardRepo *database.CardRepository,
	result *ImportResult, rowNum int) error {
	var deck, prompt, answer, topic, difficulty string

	if colIdx := columnToIndex(config.DeckColumn); colIdx < len(row) {
		deck = strings.TrimSpace(row[colIdx])
	}
	if colIdx := columnToIndex(config.PromptColumn); colIdx < len(row) {
		prompt = strings.TrimSpace(row[colIdx])
	}
	if colIdx := columnToIndex(config.AnswerColumn); colIdx < len(row) {
		answer = strings.TrimSpace(row[colIdx])
	}
	if colIdx := columnToIndex(config.TopicColumn); colIdx < len(row) {
		topic = strings.TrimSpace(row[colIdx])
	}
	if colIdx := columnToIndex(config.DifficultyColumn); colIdx < len(row) {
		difficulty = strings.TrimSpace(row[colIdx])
	}

	if deck == "" {
		deck = config.DefaultDeck
	}
	if prompt == "" {
		result.Skipped++
		return fmt.Errorf("prompt cannot be empty")
	}
	if answer == "" {
		result.Skipped++
		return fmt.Errorf("answer cannot be empty")
	}

	difficultyVal := parseIntOrDefault(difficulty, 1, 5, 3)

	// Prompts are unique within a deck: re-importing updates in place
	existing, err := cardRepo.FindByPrompt(deck, prompt)
	if err != nil {
		return fmt.Errorf("failed to look up existing card: %v", err)
	}

	if existing != nil {
		existing.Answer = answer
		existing.Topic = topic
		existing.Difficulty = difficultyVal
		if err := cardRepo.Update(existing); err != nil {
			return fmt.Errorf("failed to update card: %v", err)
		}
		result.Updated++
		return nil
	}

	card := &models.Card{
		ID:         uuid.NewString(),
		Deck:       deck,
		Prompt:     prompt,
		Answer:     answer,
		Topic:      topic,
		Difficulty: difficultyVal,
		Position:   rowNum,
	}
	if err := cardRepo.Create(card); err != nil {
		return fmt.Errorf("failed to create card: %v", err)
	}
	result.Created++
	return nil
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}

// Helper function to parse integer within a range
func parseIntInRange(s string, min, max int) (int, error) {
	var val int
	if _, err := fmt.Sscanf(s, "%d", &val); err != nil {
		return min, err
	}
	if val < min {
		return min, nil
	}
	if val > max {
		return max, nil
	}
	return val, nil
}

// Helper function to parse integer with default value
func parseIntOrDefault(s string, min, max, defaultVal int) int {
	if val, err := parseIntInRange(s, min, max); err == nil {
		return val
	}
	return defaultVal
}
