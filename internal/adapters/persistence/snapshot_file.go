package persistence

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"

	"github.com/hxuan190/liquidity-router/internal/domain"
)

// LoadSnapshotFile reads a JSON array of StoredPool records. Unlike
// LoadAllPools a single bad record fails the whole file.
func LoadSnapshotFile(path string) ([]*domain.Pool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var stored []StoredPool
	if err := sonic.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot file %s: %w", path, err)
	}

	pools := make([]*domain.Pool, 0, len(stored))
	for i := range stored {
		pool, err := storedToPool(&stored[i])
		if err != nil {
			return nil, fmt.Errorf("snapshot record %d: %w", i, err)
		}
		pools = append(pools, pool)
	}
	return pools, nil
}

// WriteSnapshotFile writes pools in the format LoadSnapshotFile reads.
func WriteSnapshotFile(path string, pools []*domain.Pool) error {
	stored := make([]*StoredPool, len(pools))
	for i, pool := range pools {
		stored[i] = poolToStored(pool)
	}
	data, err := sonic.ConfigStd.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
