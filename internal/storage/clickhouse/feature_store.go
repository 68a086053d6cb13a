package clickhouse

import (
	"context"
	"fmt"

	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/storage"
)

// FeatureStore implements storage.FeatureStore using ClickHouse.
type FeatureStore struct {
	conn *Conn
}

// NewFeatureStore creates a new FeatureStore.
func NewFeatureStore(conn *Conn) *FeatureStore {
	return &FeatureStore{conn: conn}
}

// Compile-time interface check.
var _ storage.FeatureStore = (*FeatureStore)(nil)

const featureColumnsSQL = `
	wallet_id,
	tx_count, unique_assets, days_active, tx_frequency_std,
	deposit_ratio, borrow_ratio, repay_ratio, redeem_ratio, liquidation_ratio, other_ratio,
	liquidation_count, avg_tx_value, value_std, total_value,
	night_tx_ratio, workhour_tx_ratio, bot_likelihood
`

// InsertBulk adds feature vectors. MergeTree does not enforce uniqueness, so
// duplicates are detected with an explicit existence check per batch.
func (s *FeatureStore) InsertBulk(ctx context.Context, vectors []*domain.WalletFeatureVector) error {
	if len(vectors) == 0 {
		return nil
	}

	batchKeys := make(map[string]struct{}, len(vectors))
	for _, f := range vectors {
		if f == nil || f.WalletID == "" {
			return storage.ErrInvalidInput
		}
		if _, seen := batchKeys[f.WalletID]; seen {
			return storage.ErrDuplicateKey
		}
		batchKeys[f.WalletID] = struct{}{}

		exists, err := s.exists(ctx, f.WalletID)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, "INSERT INTO wallet_features ("+featureColumnsSQL+")")
	if err != nil {
		return fmt.Errorf("prepare feature batch: %w", err)
	}
	for _, f := range vectors {
		if err := batch.Append(
			f.WalletID,
			int64(f.TxCount), int64(f.UniqueAssets), f.DaysActive, f.TxFrequencyStd,
			f.DepositRatio, f.BorrowRatio, f.RepayRatio, f.RedeemRatio, f.LiquidationRatio, f.OtherRatio,
			int64(f.LiquidationCount), f.AvgTxValue, f.ValueStd, f.TotalValue,
			f.NightTxRatio, f.WorkhourTxRatio, int64(f.BotLikelihood),
		); err != nil {
			return fmt.Errorf("append feature row: %w", err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("send feature batch: %w", err)
	}
	return nil
}

// GetAll retrieves all vectors, ordered by wallet_id ASC.
func (s *FeatureStore) GetAll(ctx context.Context) ([]*domain.WalletFeatureVector, error) {
	query := "SELECT " + featureColumnsSQL + " FROM wallet_features ORDER BY wallet_id ASC"

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all features: %w", err)
	}
	defer rows.Close()

	var vectors []*domain.WalletFeatureVector
	for rows.Next() {
		f, err := scanFeature(rows)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate features: %w", err)
	}
	return vectors, nil
}

// GetByWallet retrieves one wallet's vector. Returns ErrNotFound if not exists.
func (s *FeatureStore) GetByWallet(ctx context.Context, walletID string) (*domain.WalletFeatureVector, error) {
	query := "SELECT " + featureColumnsSQL + " FROM wallet_features WHERE wallet_id = ? LIMIT 1"

	rows, err := s.conn.Query(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("get feature by wallet: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("get feature by wallet: %w", err)
		}
		return nil, storage.ErrNotFound
	}
	return scanFeature(rows)
}

func (s *FeatureStore) exists(ctx context.Context, walletID string) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx,
		"SELECT count() FROM wallet_features WHERE wallet_id = ?", walletID,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// rowScanner matches both driver.Rows and driver.Row scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFeature(row rowScanner) (*domain.WalletFeatureVector, error) {
	var f domain.WalletFeatureVector
	var txCount, uniqueAssets, liquidationCount, bot int64
	err := row.Scan(
		&f.WalletID,
		&txCount, &uniqueAssets, &f.DaysActive, &f.TxFrequencyStd,
		&f.DepositRatio, &f.BorrowRatio, &f.RepayRatio, &f.RedeemRatio, &f.LiquidationRatio, &f.OtherRatio,
		&liquidationCount, &f.AvgTxValue, &f.ValueStd, &f.TotalValue,
		&f.NightTxRatio, &f.WorkhourTxRatio, &bot,
	)
	if err != nil {
		return nil, fmt.Errorf("scan feature: %w", err)
	}
	f.TxCount = int(txCount)
	f.UniqueAssets = int(uniqueAssets)
	f.LiquidationCount = int(liquidationCount)
	f.BotLikelihood = int(bot)
	return &f, nil
}
