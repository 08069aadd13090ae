package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	circulationModel "classlib-backend/internal/domains/circulation/model"
	"classlib-backend/internal/domains/importer/model"
	"classlib-backend/pkg/container"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	seedBooksFile    string
	seedStudentsFile string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo catalog and roster",
	Long: `Seed loads a students map ({"name": "classId"}) and a books list, then
checks out the books flagged isCheckedOut to their studentName. Books that
are already checked out are left as they are, so seeding twice is harmless.

Example:
  classlib seed --books data/books.json --students data/students.json`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&seedBooksFile, "books", "", "Path of books.json")
	seedCmd.Flags().StringVar(&seedStudentsFile, "students", "", "Path of students.json")
}

// seedBook is one entry of books.json.
type seedBook struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Author       string  `json:"author"`
	ISBN         *string `json:"isbn"`
	Genre        *string `json:"genre"`
	IsCheckedOut bool    `json:"isCheckedOut"`
	StudentName  *string `json:"studentName"`
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if seedBooksFile == "" && seedStudentsFile == "" {
		return fmt.Errorf("nothing to seed: pass --books and/or --students")
	}

	var students map[string]*string
	if seedStudentsFile != "" {
		if err := readJSON(seedStudentsFile, &students); err != nil {
			return err
		}
	}

	var books []seedBook
	if seedBooksFile != "" {
		if err := readJSON(seedBooksFile, &books); err != nil {
			return err
		}
	}

	c, err := container.NewContainer(ctx)
	if err != nil {
		return err
	}
	defer c.Cleanup()

	// ========================================
	// 1. STUDENTS
	// ========================================
	if len(students) > 0 {
		result, err := c.Reconciler.ImportBorrowers(ctx, studentRows(students))
		if err != nil {
			return err
		}
		logSeedResult("students", result)
	}

	// ========================================
	// 2. BOOKS
	// ========================================
	if len(books) > 0 {
		result, err := c.Reconciler.ImportItems(ctx, bookRows(books))
		if err != nil {
			return err
		}
		logSeedResult("books", result)
	}

	// ========================================
	// 3. LOANS (through the engine, never by writing state)
	// ========================================
	checkedOut := 0
	for _, b := range books {
		if !b.IsCheckedOut || b.StudentName == nil {
			continue
		}

		req := circulationModel.CheckoutRequest{BorrowerName: *b.StudentName}
		if class, ok := students[*b.StudentName]; ok {
			req.Classification = class
		}

		err := c.CirculationService.CheckOut(ctx, b.ID, req)
		switch {
		case err == nil:
			checkedOut++
		case errors.Is(err, circulationModel.ErrItemAlreadyCheckedOut):
			log.Debug().Int64("item_id", b.ID).Msg("Already checked out, skipped")
		default:
			return fmt.Errorf("failed to check out book %d: %w", b.ID, err)
		}
	}

	log.Info().Int("checked_out", checkedOut).Msg("✅ Seed complete")
	return nil
}

func readJSON(path string, dest interface{}) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// studentRows orders the map by name so row numbers are stable.
func studentRows(students map[string]*string) []model.BorrowerRow {
	names := make([]string, 0, len(students))
	for name := range students {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]model.BorrowerRow, 0, len(names))
	for i, name := range names {
		rows = append(rows, model.BorrowerRow{
			Row:            i + 1,
			Name:           name,
			Classification: students[name],
		})
	}
	return rows
}

func bookRows(books []seedBook) []model.ItemRow {
	rows := make([]model.ItemRow, 0, len(books))
	for i, b := range books {
		var id *string
		if b.ID > 0 {
			s := strconv.FormatInt(b.ID, 10)
			id = &s
		}

		row := model.ItemRow{
			Row:    i + 1,
			ID:     id,
			Title:  b.Title,
			Author: b.Author,
			ISBN:   b.ISBN,
			Genre:  b.Genre,
		}
		if b.IsCheckedOut {
			row.Borrower = b.StudentName
		}
		rows = append(rows, row)
	}
	return rows
}

func logSeedResult(what string, result *model.ImportResult) {
	log.Info().
		Int("inserted", result.InsertedCount).
		Int("updated", result.UpdatedCount).
		Int("row_errors", len(result.Errors)).
		Msgf("Seeded %s", what)

	for _, rowErr := range result.Errors {
		log.Warn().Int("row", rowErr.Row).Msgf("%s: %s", what, rowErr.Message)
	}
}
