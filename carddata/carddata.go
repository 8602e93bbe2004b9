// Package carddata reads tab-delimited card rows.
package carddata

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Columns is the expected column order.
var Columns = []string{
	"Name", "Deck", "Type", "Cost", "Strength",
	"Ability", "ActivateCost", "ActivateAbility", "GainsAction", "TopRightElement",
}

// maxLine bounds a single card row.
const maxLine = 1 << 20

// ErrMalformedRow reports a row with the wrong number of columns.
var ErrMalformedRow = errors.New("carddata: malformed row")

// Card is one row of card data. Empty fields are not drawn.
type Card struct {
	Name            string
	Deck            string
	Type            string
	Cost            string
	Strength        string
	Ability         string
	ActivateCost    string
	ActivateAbility string
	GainsAction     string
	TopRightElement string
}

// RowError records a skipped row; Line is 1-based.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e RowError) Unwrap() error { return e.Err }

// Read parses every row of r. Cells are split on tabs only; quotes are
// ordinary text. Malformed rows are skipped and reported; the header row
// (first cell "Name") and blank lines are ignored. An error is returned only
// when r itself fails.
func Read(r io.Reader) ([]Card, []RowError, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	var (
		cards []Card
		bad   []RowError
	)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSuffix(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		rec := strings.Split(text, "\t")
		if strings.EqualFold(strings.TrimSpace(rec[0]), "Name") {
			continue
		}
		if len(rec) != len(Columns) {
			bad = append(bad, RowError{
				Line: line,
				Err:  fmt.Errorf("%w: %d columns, want %d", ErrMalformedRow, len(rec), len(Columns)),
			})
			continue
		}
		cards = append(cards, fromRecord(rec))
	}
	if err := sc.Err(); err != nil {
		return cards, bad, fmt.Errorf("carddata: line %d: %w", line+1, err)
	}
	return cards, bad, nil
}

func fromRecord(rec []string) Card {
	f := func(i int) string { return strings.TrimSpace(rec[i]) }
	return Card{
		Name:            f(0),
		Deck:            f(1),
		Type:            f(2),
		Cost:            f(3),
		Strength:        f(4),
		Ability:         f(5),
		ActivateCost:    f(6),
		ActivateAbility: f(7),
		GainsAction:     f(8),
		TopRightElement: f(9),
	}
}
