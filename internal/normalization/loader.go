package normalization

import (
	"encoding/json"
	"fmt"
	"os"

	"wallet-credit-lab/internal/domain"
)

// LoadFile reads a raw ledger snapshot (a JSON array of records) and returns
// the normalized event table.
func LoadFile(path string) ([]*domain.LedgerEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}

	var records []RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}

	return Normalize(records)
}
