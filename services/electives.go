package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vnkhanh/grade-explorer/models"
	"gorm.io/gorm"
)

// ElectiveStore persists per-client elective shortlists.
type ElectiveStore interface {
	List(ctx context.Context, clientID uuid.UUID) ([]models.Elective, error)
	Add(ctx context.Context, e models.Elective) error
	Remove(ctx context.Context, clientID uuid.UUID, code string) error
}

type GormElectiveStore struct {
	db *gorm.DB
}

func NewGormElectiveStore(db *gorm.DB) *GormElectiveStore {
	return &GormElectiveStore{db: db}
}

func (s *GormElectiveStore) List(ctx context.Context, clientID uuid.UUID) ([]models.Elective, error) {
	var items []models.Elective
	if err := s.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list electives: %w", err)
	}
	return items, nil
}

func (s *GormElectiveStore) Add(ctx context.Context, e models.Elective) error {
	db := s.db.WithContext(ctx)

	var existing models.Elective
	err := db.Where("client_id = ? AND code = ?", e.ClientID, e.Code).First(&existing).Error
	if err == nil {
		return ErrElectiveExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check elective: %w", err)
	}

	if err := db.Create(&e).Error; err != nil {
		return fmt.Errorf("save elective: %w", err)
	}
	return nil
}

func (s *GormElectiveStore) Remove(ctx context.Context, clientID uuid.UUID, code string) error {
	res := s.db.WithContext(ctx).
		Where("client_id = ? AND code = ?", clientID, code).
		Delete(&models.Elective{})
	if res.Error != nil {
		return fmt.Errorf("remove elective: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrElectiveNotFound
	}
	return nil
}

// MemoryElectiveStore keeps shortlists in process memory. It is used when no
// database is configured.
type MemoryElectiveStore struct {
	mu    sync.Mutex
	items map[uuid.UUID][]models.Elective
}

func NewMemoryElectiveStore() *MemoryElectiveStore {
	return &MemoryElectiveStore{items: make(map[uuid.UUID][]models.Elective)}
}

func (s *MemoryElectiveStore) List(_ context.Context, clientID uuid.UUID) ([]models.Elective, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := slices.Clone(s.items[clientID])
	if out == nil {
		out = []models.Elective{}
	}
	return out, nil
}

func (s *MemoryElectiveStore) Add(_ context.Context, e models.Elective) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, cur := range s.items[e.ClientID] {
		if cur.Code == e.Code {
			return ErrElectiveExists
		}
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	s.items[e.ClientID] = append(s.items[e.ClientID], e)
	return nil
}

func (s *MemoryElectiveStore) Remove(_ context.Context, clientID uuid.UUID, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.items[clientID]
	i := slices.IndexFunc(list, func(e models.Elective) bool { return e.Code == code })
	if i < 0 {
		return ErrElectiveNotFound
	}
	s.items[clientID] = slices.Delete(list, i, i+1)
	return nil
}

// Electives ties the shortlist store to the catalog records it snapshots.
type Electives struct {
	store   ElectiveStore
	catalog *Catalog
}

func NewElectives(store ElectiveStore, catalog *Catalog) *Electives {
	return &Electives{store: store, catalog: catalog}
}

func (s *Electives) List(ctx context.Context, clientID uuid.UUID) ([]models.Elective, error) {
	return s.store.List(ctx, clientID)
}

// Add snapshots the record dataset/code into the client's shortlist.
func (s *Electives) Add(ctx context.Context, clientID uuid.UUID, dataset, code string) (models.Elective, error) {
	subject, err := s.catalog.Subject(dataset, code)
	if err != nil {
		return models.Elective{}, err
	}
	snapshot, err := json.Marshal(subject)
	if err != nil {
		return models.Elective{}, fmt.Errorf("encode elective: %w", err)
	}

	e := models.Elective{
		ClientID:  clientID,
		Code:      subject.Code,
		Dataset:   dataset,
		Title:     subject.Title,
		Snapshot:  string(snapshot),
		CreatedAt: time.Now(),
	}
	if err := s.store.Add(ctx, e); err != nil {
		return models.Elective{}, err
	}
	return e, nil
}

func (s *Electives) Remove(ctx context.Context, clientID uuid.UUID, code string) error {
	return s.store.Remove(ctx, clientID, code)
}
