// Package portfolio provides the current-capital source for the gap engine.
package portfolio

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// Position represents a single portfolio holding
type Position struct {
	Symbol       string  `json:"symbol"`
	Quantity     float64 `json:"quantity"`
	AvgPrice     float64 `json:"avg_price"`
	CurrentPrice float64 `json:"current_price"`
	MarketValue  float64 `json:"market_value"`
	Currency     string  `json:"currency"`
}

// PositionRepository handles position database operations
type PositionRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewPositionRepository creates a new position repository
func NewPositionRepository(db *sql.DB, log zerolog.Logger) *PositionRepository {
	return &PositionRepository{
		db:  db,
		log: log.With().Str("repo", "positions").Logger(),
	}
}

// GetAll returns all positions
func (r *PositionRepository) GetAll() ([]Position, error) {
	rows, err := r.db.Query(`SELECT symbol, quantity, avg_price, current_price,
		market_value, currency FROM positions`)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	var positions []Position
	for rows.Next() {
		var pos Position
		if err := rows.Scan(&pos.Symbol, &pos.Quantity, &pos.AvgPrice,
			&pos.CurrentPrice, &pos.MarketValue, &pos.Currency); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, pos)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions: %w", err)
	}

	return positions, nil
}

// TotalMarketValue returns the summed market value of all positions
func (r *PositionRepository) TotalMarketValue() (float64, error) {
	var total sql.NullFloat64
	err := r.db.QueryRow(`SELECT SUM(market_value) FROM positions`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum position values: %w", err)
	}
	return total.Float64, nil
}

// Upsert inserts or replaces a position (used by tests and data loaders)
func (r *PositionRepository) Upsert(pos Position) error {
	_, err := r.db.Exec(`INSERT INTO positions
		(symbol, quantity, avg_price, current_price, market_value, currency, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(symbol) DO UPDATE SET
			quantity = excluded.quantity,
			avg_price = excluded.avg_price,
			current_price = excluded.current_price,
			market_value = excluded.market_value,
			currency = excluded.currency,
			last_updated = excluded.last_updated`,
		pos.Symbol, pos.Quantity, pos.AvgPrice, pos.CurrentPrice, pos.MarketValue, pos.Currency)
	if err != nil {
		return fmt.Errorf("failed to upsert position %s: %w", pos.Symbol, err)
	}
	return nil
}
