package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pbaille/jobtrack/internal/domain"
	"github.com/pbaille/jobtrack/internal/logger"
	"github.com/pbaille/jobtrack/internal/store"
)

// ErrInvalid marks a record or patch rejected before anything was saved
var ErrInvalid = errors.New("invalid record")

// Clock returns the current time
type Clock func() time.Time

// Validator checks a record before it is saved. It receives a pointer to
// the record.
type Validator func(rec interface{}) error

// IDGenerator returns a fresh identifier for a record of the given kind
type IDGenerator func(domain.Kind) string

// NewID returns <prefix>-<random uuid>, e.g. app-6f1c2a9e-...
func NewID(kind domain.Kind) string {
	return kind.Prefix() + "-" + uuid.NewString()
}

// SystemClock is wall-clock time at the millisecond precision the stored
// timestamps keep.
func SystemClock() time.Time {
	return time.Now().Truncate(time.Millisecond)
}

// core is shared by all repositories of a Tracker. mu serializes every
// load-mutate-save cycle so there is a single writer per process.
type core struct {
	mu       sync.Mutex
	store    *store.Store
	now      Clock
	newID    IDGenerator
	validate Validator
	log      logger.Logger
}

func (c *core) check(rec interface{}) error {
	if c.validate == nil {
		return nil
	}
	if err := c.validate(rec); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Option configures a Tracker
type Option func(*core)

func WithClock(c Clock) Option {
	return func(cr *core) { cr.now = c }
}

func WithIDGenerator(g IDGenerator) Option {
	return func(cr *core) { cr.newID = g }
}

// WithValidator checks every added or updated record with v. Without it
// records are stored as given.
func WithValidator(v Validator) Option {
	return func(cr *core) { cr.validate = v }
}

func WithLogger(l logger.Logger) Option {
	return func(cr *core) { cr.log = l }
}

// Tracker exposes the collection operations for all six entity kinds
type Tracker struct {
	core *core

	Leads        *Repository[domain.Lead, *domain.Lead]
	Applications *Repository[domain.Application, *domain.Application]
	Interviews   *Repository[domain.Interview, *domain.Interview]
	Contacts     *Repository[domain.Contact, *domain.Contact]
	Tasks        *TaskRepository
	Offers       *Repository[domain.Offer, *domain.Offer]
}

// New creates a Tracker persisting through s
func New(s *store.Store, opts ...Option) *Tracker {
	c := &core{
		store: s,
		now:   SystemClock,
		newID: NewID,
		log:   logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return &Tracker{
		core: c,
		Leads: newRepository[domain.Lead, *domain.Lead](c, func(d *domain.Document) *[]domain.Lead {
			return &d.Leads
		}),
		Applications: newRepository[domain.Application, *domain.Application](c, func(d *domain.Document) *[]domain.Application {
			return &d.Applications
		}),
		Interviews: newRepository[domain.Interview, *domain.Interview](c, func(d *domain.Document) *[]domain.Interview {
			return &d.Interviews
		}),
		Contacts: newRepository[domain.Contact, *domain.Contact](c, func(d *domain.Document) *[]domain.Contact {
			return &d.Contacts
		}),
		Tasks: &TaskRepository{newRepository[domain.Task, *domain.Task](c, func(d *domain.Document) *[]domain.Task {
			return &d.Tasks
		})},
		Offers: newRepository[domain.Offer, *domain.Offer](c, func(d *domain.Document) *[]domain.Offer {
			return &d.Offers
		}),
	}
}

// Now returns the tracker clock's current time
func (t *Tracker) Now() time.Time {
	return t.core.now()
}

// Snapshot loads the whole document
func (t *Tracker) Snapshot(ctx context.Context) *domain.Document {
	t.core.mu.Lock()
	defer t.core.mu.Unlock()
	return t.core.store.Load(ctx)
}

// InterviewsByApplication returns the interviews whose applicationId is
// exactly applicationID, in stored order.
func (t *Tracker) InterviewsByApplication(ctx context.Context, applicationID string) []domain.Interview {
	out := []domain.Interview{}
	for _, iv := range t.Interviews.All(ctx) {
		if iv.ApplicationID == applicationID {
			out = append(out, iv)
		}
	}
	return out
}

// Resolve looks up the record a weak reference points at. A dangling
// reference yields (nil, false).
func (t *Tracker) Resolve(ctx context.Context, ref domain.Ref) (interface{}, bool) {
	doc := t.Snapshot(ctx)
	switch ref.Kind {
	case domain.KindLead:
		return find(doc.Leads, ref.ID)
	case domain.KindApplication:
		return find(doc.Applications, ref.ID)
	case domain.KindInterview:
		return find(doc.Interviews, ref.ID)
	case domain.KindContact:
		return find(doc.Contacts, ref.ID)
	case domain.KindTask:
		return find(doc.Tasks, ref.ID)
	case domain.KindOffer:
		return find(doc.Offers, ref.ID)
	}
	return nil, false
}

func find[T any, P record[T]](recs []T, id string) (interface{}, bool) {
	if i := indexOf[T, P](recs, id); i >= 0 {
		return recs[i], true
	}
	return nil, false
}
