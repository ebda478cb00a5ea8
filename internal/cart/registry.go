package cart

import "sync"

// Registry hands out one Store per account. Accounts are opaque address
// strings; the registry never inspects them.
type Registry struct {
	mu     sync.Mutex
	stores map[string]*Store
}

func NewRegistry() *Registry {
	return &Registry{stores: make(map[string]*Store)}
}

// ForAccount returns the account's cart, creating it on first use.
func (r *Registry) ForAccount(account string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, ok := r.stores[account]
	if !ok {
		store = NewStore()
		r.stores[account] = store
	}
	return store
}
