// Package ledger records completed purchases and answers sales queries.
package ledger

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/vending/internal/database"
	"github.com/aristath/vending/internal/machine"
	"github.com/aristath/vending/internal/money"
	"github.com/aristath/vending/internal/utils"
)

//go:embed schema.sql
var Schema string

// DefaultListLimit is used when List is called with a non-positive limit
const DefaultListLimit = 50

const salesColumns = `id, completed_at, amount, change_total, products, tendered, change_cash`

// Entry is a stored sale
type Entry struct {
	ID          string              `json:"id"`
	CompletedAt time.Time           `json:"completed_at"`
	Products    map[string]int      `json:"products"`
	Amount      decimal.Decimal     `json:"amount"`
	Tendered    []machine.CashCount `json:"tendered"`
	Change      []machine.CashCount `json:"change"`
	ChangeTotal decimal.Decimal     `json:"change_total"`
}

// Summary aggregates every stored sale
type Summary struct {
	Sales       int             `json:"sales"`
	Units       int             `json:"units"`
	Revenue     decimal.Decimal `json:"revenue"`
	ChangeGiven decimal.Decimal `json:"change_given"`
}

// cashLine is the msgpack form of a machine.CashCount
type cashLine struct {
	Cash  string `msgpack:"cash"`
	Count int    `msgpack:"count"`
}

// Repository stores sales in the ledger database
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository migrates the ledger schema and returns a repository
func NewRepository(db *database.DB, log zerolog.Logger) (*Repository, error) {
	if err := db.Migrate(Schema); err != nil {
		return nil, fmt.Errorf("failed to prepare ledger: %w", err)
	}

	return &Repository{
		db:  db.Conn(),
		log: log.With().Str("repo", "sales").Logger(),
	}, nil
}

// RecordSale stores a completed purchase. Implements machine.SaleRecorder.
func (r *Repository) RecordSale(sale machine.Sale) error {
	products, err := msgpack.Marshal(sale.Products)
	if err != nil {
		return fmt.Errorf("failed to encode products: %w", err)
	}
	tendered, err := encodeCash(sale.Tendered.Held())
	if err != nil {
		return fmt.Errorf("failed to encode tendered cash: %w", err)
	}
	change, err := encodeCash(sale.Change.Held())
	if err != nil {
		return fmt.Errorf("failed to encode change: %w", err)
	}

	done := utils.MeasureDBQuery("record_sale", r.log)
	query := `
		INSERT INTO sales (` + salesColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query,
		sale.ID,
		sale.CompletedAt.UTC().UnixNano(),
		sale.Amount.String(),
		sale.Change.Total.String(),
		products,
		tendered,
		change,
	)
	if err != nil {
		return fmt.Errorf("failed to record sale: %w", err)
	}
	done(1)

	r.log.Debug().
		Str("sale_id", sale.ID).
		Str("amount", sale.Amount.String()).
		Msg("Sale recorded")

	return nil
}

// List returns up to limit sales, newest first
func (r *Repository) List(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	done := utils.MeasureDBQuery("list_sales", r.log)
	query := "SELECT " + salesColumns + " FROM sales ORDER BY completed_at DESC, rowid DESC LIMIT ?"
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sales: %w", err)
	}
	done(int64(len(entries)))

	return entries, nil
}

// Summary totals every stored sale. Sums are exact to the cent.
func (r *Repository) Summary() (Summary, error) {
	done := utils.MeasureDBQuery("summarize_sales", r.log)
	rows, err := r.db.Query("SELECT amount, change_total, products FROM sales")
	if err != nil {
		return Summary{}, fmt.Errorf("failed to summarize sales: %w", err)
	}
	defer rows.Close()

	summary := Summary{Revenue: decimal.Zero, ChangeGiven: decimal.Zero}
	for rows.Next() {
		var amount, change string
		var productsBlob []byte
		if err := rows.Scan(&amount, &change, &productsBlob); err != nil {
			return Summary{}, fmt.Errorf("failed to scan sale: %w", err)
		}

		sold, err := money.Parse(amount)
		if err != nil {
			return Summary{}, fmt.Errorf("failed to parse sale amount: %w", err)
		}
		given, err := money.Parse(change)
		if err != nil {
			return Summary{}, fmt.Errorf("failed to parse sale change: %w", err)
		}
		var products map[string]int
		if err := msgpack.Unmarshal(productsBlob, &products); err != nil {
			return Summary{}, fmt.Errorf("failed to decode products: %w", err)
		}

		summary.Sales++
		summary.Revenue = money.Add(summary.Revenue, sold)
		summary.ChangeGiven = money.Add(summary.ChangeGiven, given)
		for _, quantity := range products {
			summary.Units += quantity
		}
	}
	if err := rows.Err(); err != nil {
		return Summary{}, fmt.Errorf("failed to iterate sales: %w", err)
	}
	done(int64(summary.Sales))

	return summary, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		entry                    Entry
		completedAt              int64
		amount, changeTotal      string
		products, tendered, chng []byte
	)

	if err := rows.Scan(&entry.ID, &completedAt, &amount, &changeTotal, &products, &tendered, &chng); err != nil {
		return Entry{}, fmt.Errorf("failed to scan sale: %w", err)
	}

	var err error
	entry.CompletedAt = time.Unix(0, completedAt).UTC()
	if entry.Amount, err = money.Parse(amount); err != nil {
		return Entry{}, fmt.Errorf("failed to parse sale amount: %w", err)
	}
	if entry.ChangeTotal, err = money.Parse(changeTotal); err != nil {
		return Entry{}, fmt.Errorf("failed to parse sale change: %w", err)
	}
	if err := msgpack.Unmarshal(products, &entry.Products); err != nil {
		return Entry{}, fmt.Errorf("failed to decode products: %w", err)
	}
	if entry.Tendered, err = decodeCash(tendered); err != nil {
		return Entry{}, fmt.Errorf("failed to decode tendered cash: %w", err)
	}
	if entry.Change, err = decodeCash(chng); err != nil {
		return Entry{}, fmt.Errorf("failed to decode change: %w", err)
	}

	return entry, nil
}

func encodeCash(counts []machine.CashCount) ([]byte, error) {
	lines := make([]cashLine, len(counts))
	for i, c := range counts {
		lines[i] = cashLine{Cash: c.Cash.String(), Count: c.Count}
	}
	return msgpack.Marshal(lines)
}

func decodeCash(data []byte) ([]machine.CashCount, error) {
	var lines []cashLine
	if err := msgpack.Unmarshal(data, &lines); err != nil {
		return nil, err
	}

	counts := make([]machine.CashCount, len(lines))
	for i, line := range lines {
		cash, err := money.Parse(line.Cash)
		if err != nil {
			return nil, err
		}
		counts[i] = machine.CashCount{Cash: cash, Count: line.Count}
	}
	return counts, nil
}
