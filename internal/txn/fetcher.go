package txn

import (
	"sync"

	coreerr "github.com/karpathy/cryptos-go/pkg/errors"
)

// MemoryFetcher is an in-memory, concurrency-safe PrevTxFetcher keyed by
// hex txid, adapted from a balance-cache map pattern: Get/Set/Delete/Size
// guarded by a single RWMutex, repurposed here from balance entries to
// full transactions.
type MemoryFetcher struct {
	mu  sync.RWMutex
	txs map[string]Transaction
}

// NewMemoryFetcher returns an empty MemoryFetcher.
func NewMemoryFetcher() *MemoryFetcher {
	return &MemoryFetcher{txs: make(map[string]Transaction)}
}

// Fetch implements PrevTxFetcher, returning ErrNotFound for an unknown
// txid rather than reaching out over the network.
func (f *MemoryFetcher) Fetch(txidHex string) (Transaction, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	tx, ok := f.txs[txidHex]
	if !ok {
		return Transaction{}, coreerr.ErrNotFound
	}
	return tx, nil
}

// Set stores tx under its own txid, so later Fetch calls by other
// transactions' PrevTx can resolve it as a funding transaction.
func (f *MemoryFetcher) Set(tx Transaction) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.txs[tx.ID()] = tx
}

// Delete removes a cached transaction.
func (f *MemoryFetcher) Delete(txidHex string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.txs, txidHex)
}

// Size returns the number of cached transactions.
func (f *MemoryFetcher) Size() int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return len(f.txs)
}
