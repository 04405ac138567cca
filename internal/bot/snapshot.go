package bot

import (
	"sync"

	"hedgebot/internal/models"
)

// Константы FNV-1a для 32-битного хэша
const (
	fnvOffset32 = uint32(2166136261)
	fnvPrime32  = uint32(16777619)
)

// fnvHash вычисляет FNV-1a hash строки без аллокаций
func fnvHash(s string) uint32 {
	h := fnvOffset32
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime32
	}
	return h
}

// SnapshotTracker - шардированное хранилище последних риск-снимков по активам
//
// Шардирование по активу: обновления разных активов не блокируют
// друг друга. Снимки хранятся по значению, поэтому читатель всегда
// получает целый снимок - "рваных" чтений нет.
type SnapshotTracker struct {
	shards    []*snapshotShard
	numShards uint32
}

// snapshotShard - один шард с собственным мьютексом
type snapshotShard struct {
	snapshots map[string]models.RiskSnapshot
	mu        sync.RWMutex
}

// NewSnapshotTracker создает шардированный трекер
func NewSnapshotTracker(numShards int) *SnapshotTracker {
	if numShards <= 0 {
		numShards = 8 // дефолт
	}

	st := &SnapshotTracker{
		shards:    make([]*snapshotShard, numShards),
		numShards: uint32(numShards),
	}
	for i := 0; i < numShards; i++ {
		st.shards[i] = &snapshotShard{
			snapshots: make(map[string]models.RiskSnapshot),
		}
	}
	return st
}

// getShard возвращает шард для актива (детерминированно)
func (st *SnapshotTracker) getShard(asset string) *snapshotShard {
	return st.shards[fnvHash(asset)%st.numShards]
}

// Update сохраняет последний снимок для актива
// Lock: только на шарде этого актива
func (st *SnapshotTracker) Update(snap models.RiskSnapshot) {
	shard := st.getShard(snap.Asset)

	shard.mu.Lock()
	shard.snapshots[snap.Asset] = snap
	shard.mu.Unlock()
}

// Get возвращает последний снимок для актива.
// Второе значение false если снимка еще нет.
func (st *SnapshotTracker) Get(asset string) (models.RiskSnapshot, bool) {
	shard := st.getShard(asset)

	shard.mu.RLock()
	snap, ok := shard.snapshots[asset]
	shard.mu.RUnlock()

	return snap, ok
}

// Assets возвращает список активов, по которым есть снимки
func (st *SnapshotTracker) Assets() []string {
	var assets []string
	for _, shard := range st.shards {
		shard.mu.RLock()
		for asset := range shard.snapshots {
			assets = append(assets, asset)
		}
		shard.mu.RUnlock()
	}
	return assets
}
