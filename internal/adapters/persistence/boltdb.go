package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/boltdb/bolt"
	"github.com/bytedance/sonic"
	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"

	"github.com/hxuan190/liquidity-router/internal/domain"
)

const (
	PoolsBucket = "pools"
	MetaBucket  = "meta"

	DefaultDBPath = "./data/liquidity-router.db"

	openTimeout = time.Second
)

var metaVersionKey = []byte("snapshot_version")

// StoredPool is the on-disk form of a pool. Keys and amounts are strings so
// the records stay readable with any bolt browser.
type StoredPool struct {
	Address   string `json:"address"`
	Kind      string `json:"kind"`
	ProgramID string `json:"programId,omitempty"`
	Source    string `json:"source"`
	TokenA    string `json:"tokenA"`
	TokenB    string `json:"tokenB"`
	ReserveA  string `json:"reserveA"`
	ReserveB  string `json:"reserveB"`
	FeeRate   uint16 `json:"feeRate"`
	BestBid   string `json:"bestBid,omitempty"`
	BestAsk   string `json:"bestAsk,omitempty"`
}

type Storage struct {
	db     *bolt.DB
	dbPath string
}

func NewStorage(dbPath string) (*Storage, error) {
	if dbPath == "" {
		dbPath = DefaultDBPath
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database dir: %w", err)
	}

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", dbPath, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{PoolsBucket, MetaBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("[poolStorage] opened database")

	return &Storage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Storage) Path() string {
	return s.dbPath
}

func (s *Storage) SavePool(pool *domain.Pool) error {
	data, err := sonic.Marshal(poolToStored(pool))
	if err != nil {
		return fmt.Errorf("failed to marshal pool: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(PoolsBucket)).Put([]byte(pool.Address.String()), data)
	})
}

// SavePoolBatch writes all pools in one transaction and records version as
// the snapshot version they belong to.
func (s *Storage) SavePoolBatch(pools []*domain.Pool, version uint64) error {
	if len(pools) == 0 {
		return nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(PoolsBucket))
		for _, pool := range pools {
			data, err := sonic.Marshal(poolToStored(pool))
			if err != nil {
				return fmt.Errorf("failed to marshal pool %s: %w", pool.Address.String(), err)
			}
			if err := bucket.Put([]byte(pool.Address.String()), data); err != nil {
				return fmt.Errorf("failed to put pool %s: %w", pool.Address.String(), err)
			}
		}
		return tx.Bucket([]byte(MetaBucket)).Put(metaVersionKey, []byte(strconv.FormatUint(version, 10)))
	})
	if err != nil {
		log.Error().Err(err).Int("count", len(pools)).Msg("[poolStorage] FAILED to save batch")
		return err
	}

	log.Info().Int("count", len(pools)).Uint64("version", version).Msg("[poolStorage] saved pool batch")
	return nil
}

func (s *Storage) DeletePool(address solana.PublicKey) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(PoolsBucket)).Delete([]byte(address.String()))
	})
}

// LoadAllPools returns every stored pool. Records that fail to decode are
// logged and skipped.
func (s *Storage) LoadAllPools() ([]*domain.Pool, error) {
	var (
		pools            []*domain.Pool
		total            int
		unmarshalFailed  int
		conversionFailed int
	)

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(PoolsBucket)).ForEach(func(k, v []byte) error {
			total++
			var stored StoredPool
			if err := sonic.Unmarshal(v, &stored); err != nil {
				log.Error().Str("address", string(k)).Err(err).Msg("[poolStorage] failed to unmarshal pool, skipping")
				unmarshalFailed++
				return nil
			}
			pool, err := storedToPool(&stored)
			if err != nil {
				log.Error().Str("address", string(k)).Err(err).Msg("[poolStorage] failed to convert stored pool, skipping")
				conversionFailed++
				return nil
			}
			pools = append(pools, pool)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pools: %w", err)
	}

	if unmarshalFailed > 0 || conversionFailed > 0 {
		log.Error().
			Int("total_in_db", total).
			Int("loaded", len(pools)).
			Int("unmarshal_failed", unmarshalFailed).
			Int("conversion_failed", conversionFailed).
			Msg("[poolStorage] pool loading completed with errors")
	} else {
		log.Info().
			Int("total_in_db", total).
			Int("loaded", len(pools)).
			Msg("[poolStorage] pool loading completed successfully")
	}

	return pools, nil
}

func (s *Storage) GetPoolCount() (int, error) {
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket([]byte(PoolsBucket)).Stats().KeyN
		return nil
	})
	return count, err
}

// SnapshotVersion returns the version recorded by the last SavePoolBatch,
// or 0 if none was recorded.
func (s *Storage) SnapshotVersion() (uint64, error) {
	var version uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(MetaBucket)).Get(metaVersionKey)
		if raw == nil {
			return nil
		}
		v, err := strconv.ParseUint(string(raw), 10, 64)
		if err != nil {
			return fmt.Errorf("corrupt snapshot version %q: %w", raw, err)
		}
		version = v
		return nil
	})
	return version, err
}

func poolToStored(pool *domain.Pool) *StoredPool {
	stored := &StoredPool{
		Address:  pool.Address.String(),
		Kind:     pool.Kind.String(),
		Source:   pool.Source,
		TokenA:   pool.TokenA.String(),
		TokenB:   pool.TokenB.String(),
		ReserveA: strconv.FormatUint(pool.ReserveA, 10),
		ReserveB: strconv.FormatUint(pool.ReserveB, 10),
		FeeRate:  pool.FeeRate,
	}
	if !pool.ProgramID.IsZero() {
		stored.ProgramID = pool.ProgramID.String()
	}
	if pool.Kind == domain.PoolKindOrderBook {
		stored.BestBid = strconv.FormatUint(pool.BestBid, 10)
		stored.BestAsk = strconv.FormatUint(pool.BestAsk, 10)
	}
	return stored
}

// NewStoredPool converts a pool to its serialised form.
func NewStoredPool(pool *domain.Pool) *StoredPool {
	return poolToStored(pool)
}

// ToPool parses the record back into a pool.
func (s *StoredPool) ToPool() (*domain.Pool, error) {
	return storedToPool(s)
}

func storedToPool(stored *StoredPool) (*domain.Pool, error) {
	kind, ok := domain.ParsePoolKind(stored.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPoolKind, stored.Kind)
	}

	address, err := solana.PublicKeyFromBase58(stored.Address)
	if err != nil {
		return nil, fmt.Errorf("invalid address: %w", err)
	}
	tokenA, err := solana.PublicKeyFromBase58(stored.TokenA)
	if err != nil {
		return nil, fmt.Errorf("invalid tokenA: %w", err)
	}
	tokenB, err := solana.PublicKeyFromBase58(stored.TokenB)
	if err != nil {
		return nil, fmt.Errorf("invalid tokenB: %w", err)
	}

	var programID solana.PublicKey
	if stored.ProgramID != "" {
		programID, err = solana.PublicKeyFromBase58(stored.ProgramID)
		if err != nil {
			return nil, fmt.Errorf("invalid programId: %w", err)
		}
	}

	pool := &domain.Pool{
		Kind:      kind,
		Address:   address,
		ProgramID: programID,
		Source:    stored.Source,
		TokenA:    tokenA,
		TokenB:    tokenB,
		FeeRate:   stored.FeeRate,
	}

	amounts := []struct {
		name string
		raw  string
		dst  *uint64
	}{
		{"reserveA", stored.ReserveA, &pool.ReserveA},
		{"reserveB", stored.ReserveB, &pool.ReserveB},
		{"bestBid", stored.BestBid, &pool.BestBid},
		{"bestAsk", stored.BestAsk, &pool.BestAsk},
	}
	for _, a := range amounts {
		if a.raw == "" {
			continue
		}
		v, err := strconv.ParseUint(a.raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", a.name, err)
		}
		*a.dst = v
	}

	return pool, nil
}
