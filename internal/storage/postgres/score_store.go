package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/storage"
)

// ScoreStore implements storage.ScoreStore using PostgreSQL.
type ScoreStore struct {
	pool *Pool
}

// NewScoreStore creates a new ScoreStore.
func NewScoreStore(pool *Pool) *ScoreStore {
	return &ScoreStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ScoreStore = (*ScoreStore)(nil)

const insertScoreQuery = `
	INSERT INTO wallet_scores (wallet_id, base_score, credit_score)
	VALUES ($1, $2, $3)
`

// InsertBulk adds score records atomically. Returns ErrDuplicateKey if any
// wallet_id already has a record; the entire batch fails.
func (s *ScoreStore) InsertBulk(ctx context.Context, records []*domain.ScoreRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range records {
		if r == nil || r.WalletID == "" {
			return storage.ErrInvalidInput
		}
		if _, err := tx.Exec(ctx, insertScoreQuery, r.WalletID, r.BaseScore, r.CreditScore); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert score in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetAll retrieves all records, ordered by wallet_id ASC.
func (s *ScoreStore) GetAll(ctx context.Context) ([]*domain.ScoreRecord, error) {
	query := `
		SELECT wallet_id, base_score, credit_score
		FROM wallet_scores
		ORDER BY wallet_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all scores: %w", err)
	}
	defer rows.Close()

	return scanScores(rows)
}

// GetByWallet retrieves one wallet's record. Returns ErrNotFound if not exists.
func (s *ScoreStore) GetByWallet(ctx context.Context, walletID string) (*domain.ScoreRecord, error) {
	query := `
		SELECT wallet_id, base_score, credit_score
		FROM wallet_scores
		WHERE wallet_id = $1
	`

	var r domain.ScoreRecord
	err := s.pool.QueryRow(ctx, query, walletID).Scan(&r.WalletID, &r.BaseScore, &r.CreditScore)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get score by wallet: %w", err)
	}
	return &r, nil
}

func scanScores(rows pgx.Rows) ([]*domain.ScoreRecord, error) {
	var records []*domain.ScoreRecord
	for rows.Next() {
		var r domain.ScoreRecord
		if err := rows.Scan(&r.WalletID, &r.BaseScore, &r.CreditScore); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scores: %w", err)
	}
	return records, nil
}
