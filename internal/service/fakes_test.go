package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"symptom-checker-be/internal/entity"
	"symptom-checker-be/internal/repository/contract"
	"symptom-checker-be/internal/repository/specification"
	"symptom-checker-be/internal/repository/unitofwork"
	"symptom-checker-be/pkg/events"

	"github.com/google/uuid"
)

var errDBDown = errors.New("connection refused")

// fakeDB backs the fake repositories. Specifications are interpreted
// directly instead of being turned into SQL.
type fakeDB struct {
	mu        sync.Mutex
	users     []*entity.User
	diagnoses []*entity.DiagnosisRecord
	fail      bool
	// runs before a diagnosis row is written
	beforeCreate func()
}

type fakeFactory struct{ db *fakeDB }

func (f fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUoW{db: f.db}
}

type fakeUoW struct{ db *fakeDB }

func (u *fakeUoW) Transaction(fn func(tx unitofwork.UnitOfWork) error) error {
	return fn(u)
}

func (u *fakeUoW) UserRepository() contract.UserRepository {
	return &fakeUserRepo{db: u.db}
}
func (u *fakeUoW) DiagnosisRepository() contract.DiagnosisRepository {
	return &fakeDiagnosisRepo{db: u.db}
}

type fakeUserRepo struct{ db *fakeDB }

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.fail {
		return errDBDown
	}
	cp := *user
	r.db.users = append(r.db.users, &cp)
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.fail {
		return nil, errDBDown
	}
	for _, u := range r.db.users {
		if userMatches(u, specs) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Exists(ctx context.Context, specs ...specification.Specification) (bool, error) {
	u, err := r.FindOne(ctx, specs...)
	return u != nil, err
}

func userMatches(u *entity.User, specs []specification.Specification) bool {
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByEmail:
			if !strings.EqualFold(u.Email, strings.TrimSpace(spec.Email)) {
				return false
			}
		case specification.ByID:
			if u.Id != spec.ID {
				return false
			}
		}
	}
	return true
}

type fakeDiagnosisRepo struct{ db *fakeDB }

func (r *fakeDiagnosisRepo) Create(ctx context.Context, record *entity.DiagnosisRecord) error {
	if r.db.beforeCreate != nil {
		r.db.beforeCreate()
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.fail {
		return errDBDown
	}
	cp := *record
	r.db.diagnoses = append(r.db.diagnoses, &cp)
	return nil
}

func (r *fakeDiagnosisRepo) Delete(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.fail {
		return 0, errDBDown
	}
	kept := r.db.diagnoses[:0]
	var removed int64
	for _, d := range r.db.diagnoses {
		if diagnosisMatches(d, specs) {
			removed++
			continue
		}
		kept = append(kept, d)
	}
	r.db.diagnoses = kept
	return removed, nil
}

func (r *fakeDiagnosisRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DiagnosisRecord, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *fakeDiagnosisRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DiagnosisRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.fail {
		return nil, errDBDown
	}
	var out []*entity.DiagnosisRecord
	for _, d := range r.db.diagnoses {
		if diagnosisMatches(d, specs) {
			cp := *d
			out = append(out, &cp)
		}
	}
	for _, s := range specs {
		if _, ok := s.(specification.NewestFirst); ok {
			sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
		}
	}
	return out, nil
}

func (r *fakeDiagnosisRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

func diagnosisMatches(d *entity.DiagnosisRecord, specs []specification.Specification) bool {
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByID:
			if d.Id != spec.ID {
				return false
			}
		case specification.UserOwnedBy:
			if d.UserId != spec.UserID {
				return false
			}
		case specification.BySeverity:
			if d.Severity != spec.Severity {
				return false
			}
		}
	}
	return true
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type fakeAuthPublisher struct {
	mu    sync.Mutex
	calls []struct {
		UserID   uuid.UUID
		DeviceID string
	}
}

func (p *fakeAuthPublisher) PublishPrincipalAuthenticated(ctx context.Context, userID uuid.UUID, deviceID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, struct {
		UserID   uuid.UUID
		DeviceID string
	}{userID, deviceID})
	return nil
}
