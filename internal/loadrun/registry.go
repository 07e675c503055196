package loadrun

import "sync"

// registry tracks live runs by instance key. The compare-and-insert under
// the lock is the sole enforcement of the one-live-run-per-key invariant, so
// every mutation goes through these methods.
type registry struct {
	mu   sync.Mutex
	runs map[string]*Run
}

func newRegistry() *registry {
	return &registry{runs: make(map[string]*Run)}
}

// insert registers run unless a live entry already exists for its key.
func (r *registry) insert(run *Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.runs[run.Key]; exists {
		return ErrAlreadyRunning
	}
	r.runs[run.Key] = run
	return nil
}

// update applies fn to the live run for key under the lock.
func (r *registry) update(key string, fn func(*Run)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.runs[key]
	if !ok {
		return false
	}
	fn(run)
	return true
}

// worker returns the live run's worker handle, if any.
func (r *registry) worker(key string) (Worker, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.runs[key]
	if !ok || run.worker == nil {
		return nil, false
	}
	return run.worker, true
}

// remove deletes the entry for key, making the key available again.
func (r *registry) remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.runs, key)
}

// live reports whether a live entry exists for key.
func (r *registry) live(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.runs[key]
	return ok
}
