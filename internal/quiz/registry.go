package quiz

import (
	"sync"

	"github.com/dmzaytsev/forum-quiz-bot/internal/domain/entities"
)

// Registry owns all live sessions, at most one per user. Slots are
// independently addressable and destructible; deleting one user's session
// never touches another's.
type Registry struct {
	mu       sync.RWMutex
	sessions map[int64]*entities.Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[int64]*entities.Session),
	}
}

// Get returns the user's session, if any.
func (r *Registry) Get(userID int64) (*entities.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[userID]
	return s, ok
}

// Set installs a session for the user, replacing any previous one.
func (r *Registry) Set(userID int64, s *entities.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[userID] = s
}

// Delete removes the user's session slot.
func (r *Registry) Delete(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
