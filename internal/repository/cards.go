package repository

import (
	"context"
	"fmt"

	"github.com/principality/principality-server-go/internal/game/cards"
	"go.uber.org/zap"
)

// ImportBatchSize is the number of cards inserted per transaction.
const ImportBatchSize = 16

// CardRepository mirrors the card catalog into the cards table.
type CardRepository struct {
	db *DB
}

func NewCardRepository(db *DB) *CardRepository {
	return &CardRepository{db: db}
}

// Count returns the number of imported cards.
func (r *CardRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.pool.QueryRow(ctx, "SELECT COUNT(*) FROM cards").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return n, nil
}

// Clear removes every imported card.
func (r *CardRepository) Clear(ctx context.Context) error {
	if _, err := r.db.pool.Exec(ctx, "TRUNCATE cards"); err != nil {
		return fmt.Errorf("failed to clear cards: %w", err)
	}
	return nil
}

// Import upserts catalog in batches, keyed by catalog position. It returns
// the number of cards written.
func (r *CardRepository) Import(ctx context.Context, catalog []cards.Card) (int, error) {
	imported := 0
	for i := 0; i < len(catalog); i += ImportBatchSize {
		end := i + ImportBatchSize
		if end > len(catalog) {
			end = len(catalog)
		}

		tx, err := r.db.pool.Begin(ctx)
		if err != nil {
			return imported, fmt.Errorf("failed to begin transaction: %w", err)
		}
		for pos := i; pos < end; pos++ {
			c := catalog[pos]
			_, err := tx.Exec(ctx, `
				INSERT INTO cards (
					position, name, card_type, cost, coins, plus_cards,
					plus_actions, plus_buys, vp, description, kingdom
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
				ON CONFLICT (position) DO UPDATE SET
					name = EXCLUDED.name,
					card_type = EXCLUDED.card_type,
					cost = EXCLUDED.cost,
					coins = EXCLUDED.coins,
					plus_cards = EXCLUDED.plus_cards,
					plus_actions = EXCLUDED.plus_actions,
					plus_buys = EXCLUDED.plus_buys,
					vp = EXCLUDED.vp,
					description = EXCLUDED.description,
					kingdom = EXCLUDED.kingdom
			`,
				pos,
				c.Name,
				c.Types.String(),
				c.Cost,
				c.Coins,
				c.Cards,
				c.Actions,
				c.Buys,
				c.VP,
				c.Description,
				c.IsKingdom(),
			)
			if err != nil {
				tx.Rollback(ctx)
				return imported, fmt.Errorf("failed to insert card %s: %w", c.Name, err)
			}
		}
		if err := tx.Commit(ctx); err != nil {
			return imported, fmt.Errorf("failed to commit batch: %w", err)
		}
		imported += end - i

		r.db.logger.Debug("imported card batch",
			zap.Int("from", i),
			zap.Int("to", end),
		)
	}
	return imported, nil
}

// Names returns the imported card names in catalog order.
func (r *CardRepository) Names(ctx context.Context) ([]string, error) {
	rows, err := r.db.pool.Query(ctx, "SELECT name FROM cards ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
