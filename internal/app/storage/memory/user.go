package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"bankoffice/internal/app/apperr"
	"bankoffice/internal/app/model"
	"bankoffice/internal/app/storage"
)

// storage.UserRepository interface implementation
var _ storage.UserRepository = (*UserStore)(nil)

// UserStore keeps users separately from the ledger state; identity
// records never take part in money movement.
type UserStore struct {
	mu     sync.RWMutex
	users  map[string]*model.User
	hashes map[string][]byte
}

func NewUserStore() *UserStore {
	return &UserStore{
		users:  make(map[string]*model.User),
		hashes: make(map[string][]byte),
	}
}

// Create implementation of interface storage.UserRepository
func (s *UserStore) Create(_ context.Context, m *model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[m.Name]; ok {
		return nil, apperr.ErrConflict
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(m.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("password hash: %w", err)
	}

	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.Password = ""

	cp := *m
	s.users[m.Name] = &cp
	s.hashes[m.Name] = hash

	return m, nil
}

// Read implementation of interface storage.UserRepository
func (s *UserStore) Read(_ context.Context, id uuid.UUID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.users {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}

	return nil, apperr.ErrNotFound
}

// ReadByName implementation of interface storage.UserRepository
func (s *UserStore) ReadByName(_ context.Context, name string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.users[name]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *m

	return &cp, nil
}

// ReadByNameAndPassword implementation of interface storage.UserRepository
func (s *UserStore) ReadByNameAndPassword(_ context.Context, name string, password string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.users[name]
	if !ok {
		return nil, apperr.ErrNotFound
	}

	if err := bcrypt.CompareHashAndPassword(s.hashes[name], []byte(password)); err != nil {
		return nil, apperr.ErrNotFound
	}
	cp := *m

	return &cp, nil
}

// AllByRole implementation of interface storage.UserRepository
func (s *UserStore) AllByRole(_ context.Context, role model.Role) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]*model.User, 0)
	for _, m := range s.users {
		if m.Role == role {
			cp := *m
			res = append(res, &cp)
		}
	}

	return res, nil
}

// SetActive implementation of interface storage.UserRepository
func (s *UserStore) SetActive(_ context.Context, name string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.users[name]
	if !ok {
		return apperr.ErrNotFound
	}
	m.Active = active

	return nil
}

// Exists implementation of interface storage.UserRepository
func (s *UserStore) Exists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.users[name]

	return ok, nil
}
