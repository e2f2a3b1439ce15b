package auth

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// User is someone who has talked to the companion bot.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastSeen  time.Time `json:"last_seen"`
}

type Repository interface {
	LoadAll() ([]User, error)
	Upsert(user User) error
	Remove(userID int64) error
}

// Service decides who may talk to the bot and remembers who did, so the
// daily check-in can reach them after a restart.
type Service struct {
	mu      sync.RWMutex
	repo    Repository
	allowed map[int64]bool
	known   map[int64]User
}

// NewWithRepo builds the service. An empty allowlist admits everyone.
func NewWithRepo(repo Repository, allowedIDs []int64) (*Service, error) {
	s := &Service{
		repo:    repo,
		allowed: make(map[int64]bool, len(allowedIDs)),
		known:   make(map[int64]User),
	}
	for _, id := range allowedIDs {
		s.allowed[id] = true
	}
	if repo != nil {
		users, err := repo.LoadAll()
		if err != nil {
			return nil, fmt.Errorf("load users: %w", err)
		}
		for _, u := range users {
			s.known[u.ID] = u
		}
	}
	return s, nil
}

func (s *Service) IsAllowed(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.allowed) == 0 || s.allowed[userID]
}

// Remember records user as seen now. The repository is only written for a
// new user, a changed name or the first visit of a day.
func (s *Service) Remember(user User) error {
	if user.LastSeen.IsZero() {
		user.LastSeen = time.Now().UTC()
	}
	s.mu.Lock()
	prev, ok := s.known[user.ID]
	if ok && prev.Username == user.Username && prev.FirstName == user.FirstName && sameDay(prev.LastSeen, user.LastSeen) {
		s.mu.Unlock()
		return nil
	}
	s.known[user.ID] = user
	s.mu.Unlock()
	if s.repo != nil {
		return s.repo.Upsert(user)
	}
	return nil
}

func (s *Service) Forget(userID int64) error {
	s.mu.Lock()
	delete(s.known, userID)
	s.mu.Unlock()
	if s.repo != nil {
		return s.repo.Remove(userID)
	}
	return nil
}

// Known lists remembered users that are still allowed, ordered by ID.
func (s *Service) Known() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]User, 0, len(s.known))
	for _, u := range s.known {
		if len(s.allowed) == 0 || s.allowed[u.ID] {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
