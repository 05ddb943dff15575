// Package memory provides an in-process implementation of the storage
// ports with the same transactional semantics as the Postgres adapter:
// mutations stay invisible until the unit-of-work scope returns nil, and
// outbox records appear exactly when the scope commits. It backs unit
// tests and local experimentation without a database.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/planbound/projects-service/internal/domain"
	"github.com/planbound/projects-service/internal/ports"
)

// Store holds committed state. SaveHook, when set, runs before each Save
// is staged; returning an error makes the save fail, which lets tests
// force storage failures mid-scope.
type Store struct {
	mu       sync.Mutex
	projects map[domain.ProjectID]*domain.Project
	outbox   []ports.OutboxRecord

	SaveHook func(project *domain.Project) error
}

func NewStore() *Store {
	return &Store{projects: make(map[domain.ProjectID]*domain.Project)}
}

// OutboxRecords returns a snapshot of the committed outbox.
func (s *Store) OutboxRecords() []ports.OutboxRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ports.OutboxRecord, len(s.outbox))
	copy(out, s.outbox)
	return out
}

// SeedOutbox appends pre-committed outbox rows, for relay tests.
func (s *Store) SeedOutbox(records ...ports.OutboxRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbox = append(s.outbox, records...)
}

// ListUnpublished implements the relay-side outbox port.
func (s *Store) ListUnpublished(_ context.Context, limit int) ([]ports.OutboxRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []ports.OutboxRecord
	for _, rec := range s.outbox {
		if rec.Published {
			continue
		}
		out = append(out, rec)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *Store) MarkPublished(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.outbox {
		if s.outbox[i].ID == id {
			s.outbox[i].Published = true
			return nil
		}
	}
	return fmt.Errorf("outbox record %s not found", id)
}

// Do implements ports.UnitOfWork. The scope works against staged copies;
// committed state and the outbox change only when fn returns nil.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, scope ports.UnitOfWorkScope) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	scope := &memoryScope{
		repo:      &memoryProjectRepository{store: s, staged: make(map[domain.ProjectID]*domain.Project)},
		publisher: domain.NewEventPublisher(),
	}
	if err := fn(ctx, scope); err != nil {
		return err
	}

	for id, project := range scope.repo.staged {
		s.projects[id] = cloneProject(project)
	}
	for _, id := range scope.repo.deleted {
		delete(s.projects, id)
	}
	for _, event := range scope.publisher.Events() {
		payload, err := event.Payload()
		if err != nil {
			return err
		}
		s.outbox = append(s.outbox, ports.OutboxRecord{
			ID:          event.EventID(),
			AggregateID: event.AggregateID(),
			EventType:   event.EventType(),
			Payload:     payload,
			Published:   false,
			CreatedAt:   event.OccurredAt(),
		})
	}
	return nil
}

type memoryScope struct {
	repo      *memoryProjectRepository
	publisher *domain.EventPublisher
}

func (s *memoryScope) Projects() ports.ProjectRepository { return s.repo }
func (s *memoryScope) Events() *domain.EventPublisher    { return s.publisher }

type memoryProjectRepository struct {
	store   *Store
	staged  map[domain.ProjectID]*domain.Project
	deleted []domain.ProjectID
}

func (r *memoryProjectRepository) FindByID(_ context.Context, id domain.ProjectID) (*domain.Project, error) {
	if p, ok := r.staged[id]; ok {
		return p, nil
	}
	p, ok := r.store.projects[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProjectNotFound, id)
	}
	// Hand out a copy so mutations in a rolled-back scope never leak
	// into committed state.
	return cloneProject(p), nil
}

func (r *memoryProjectRepository) FindAll(_ context.Context, limit int) ([]*domain.Project, error) {
	seen := make(map[domain.ProjectID]bool)
	var out []*domain.Project
	for id, p := range r.staged {
		seen[id] = true
		out = append(out, p)
	}
	for id, p := range r.store.projects {
		if !seen[id] {
			out = append(out, cloneProject(p))
		}
	}
	sortProjects(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryProjectRepository) Save(_ context.Context, project *domain.Project) error {
	if r.store.SaveHook != nil {
		if err := r.store.SaveHook(project); err != nil {
			return err
		}
	}
	r.staged[project.ID()] = project
	return nil
}

func (r *memoryProjectRepository) Delete(_ context.Context, id domain.ProjectID) error {
	if _, ok := r.staged[id]; !ok {
		if _, ok := r.store.projects[id]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrProjectNotFound, id)
		}
	}
	delete(r.staged, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func sortProjects(projects []*domain.Project) {
	// Newest first, matching the Postgres repository's ordering.
	for i := 1; i < len(projects); i++ {
		for j := i; j > 0 && projects[j].CreatedAt().After(projects[j-1].CreatedAt()); j-- {
			projects[j], projects[j-1] = projects[j-1], projects[j]
		}
	}
}

func cloneProject(p *domain.Project) *domain.Project {
	todos := make([]*domain.Todo, 0, len(p.Todos()))
	for _, t := range p.Todos() {
		todos = append(todos, cloneTodo(t))
	}
	return domain.RestoreProject(
		p.ID(), p.Name(), p.Description(), todos,
		p.CreatedAt(), p.UpdatedAt(), domain.SystemClock,
	)
}

func cloneTodo(t *domain.Todo) *domain.Todo {
	return domain.RestoreTodo(
		t.ID(), t.ProjectID(), t.Title(), t.Description(), t.Status(),
		t.Dependencies(), t.CreatedAt(), t.UpdatedAt(), t.CompletedAt(),
		domain.SystemClock,
	)
}
