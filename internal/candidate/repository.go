package candidate

import "sync"

// Repository is the process-wide interning table: the only place that owns
// Candidate memory. Everyone else holds borrows (plain *Candidate
// pointers); there is no reference counting because Candidates live for the
// lifetime of the process once interned.
//
// Insertion takes the write lock; lookups that don't need to create a new
// entry only need the read lock, satisfying the reader/writer discipline
// SPEC_FULL §4.C calls for.
type Repository struct {
	mu    sync.RWMutex
	byTxt map[string]*Candidate
}

// NewRepository returns an empty repository.
func NewRepository() *Repository {
	return &Repository{byTxt: make(map[string]*Candidate)}
}

// Get interns text if necessary and returns the shared Candidate.
func (r *Repository) Get(text string) *Candidate {
	r.mu.RLock()
	c, ok := r.byTxt[text]
	r.mu.RUnlock()
	if ok {
		return c
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byTxt[text]; ok {
		// Another writer won the race while we waited for the lock.
		return c
	}
	c = New(text)
	r.byTxt[text] = c
	return c
}

// GetElements interns every string in strs and returns the corresponding
// Candidates in input order, constructing any missing entries.
func (r *Repository) GetElements(strs []string) []*Candidate {
	out := make([]*Candidate, len(strs))
	for i, s := range strs {
		out[i] = r.Get(s)
	}
	return out
}

// Len reports how many unique strings have been interned (test/debug use).
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byTxt)
}
