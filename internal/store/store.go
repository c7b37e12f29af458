package store

import (
	"context"
	"sync"
	"time"

	"github.com/medghazouan/bidayalab/internal/models"
)

// Store groups the typed collections behind one lazily opened connection.
type Store struct {
	acc  *Accessor
	defs []Definition

	clockMu sync.RWMutex
	now     func() time.Time

	Admins       *Collection[models.Admin, *models.Admin]
	Contacts     *Collection[models.Contact, *models.Contact]
	Orders       *Collection[models.Order, *models.Order]
	Settings     *Collection[models.Settings, *models.Settings]
	Blogs        *Collection[models.Blog, *models.Blog]
	Pricing      *Collection[models.Pricing, *models.Pricing]
	Testimonials *Collection[models.Testimonial, *models.Testimonial]
	Projects     *Collection[models.Project, *models.Project]
}

// NewStore prepares a store. No connection is made until the first
// operation needs one.
func NewStore(open Opener) *Store {
	s := &Store{now: time.Now}
	s.Admins = newCollection[models.Admin](s, Definition{Name: "admins", Unique: []string{"email"}})
	s.Contacts = newCollection[models.Contact](s, Definition{Name: "contacts"})
	s.Orders = newCollection[models.Order](s, Definition{Name: "orders", Unique: []string{"orderNumber"}})
	s.Settings = newCollection[models.Settings](s, Definition{Name: "settings"})
	s.Blogs = newCollection[models.Blog](s, Definition{Name: "blogs", Unique: []string{"slug"}})
	s.Pricing = newCollection[models.Pricing](s, Definition{Name: "pricing"})
	s.Testimonials = newCollection[models.Testimonial](s, Definition{Name: "testimonials"})
	s.Projects = newCollection[models.Project](s, Definition{Name: "projects", Unique: []string{"slug"}})
	s.acc = NewAccessor(open, s.Migrate)
	return s
}

// SetClock replaces the time source used for document timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	s.now = now
}

// timestamp is truncated to milliseconds, the precision MongoDB keeps.
func (s *Store) timestamp() time.Time {
	s.clockMu.RLock()
	defer s.clockMu.RUnlock()
	return s.now().UTC().Truncate(time.Millisecond)
}

// Ping connects if needed.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.acc.Driver(ctx)
	return err
}

func (s *Store) Close(ctx context.Context) error {
	return s.acc.Close(ctx)
}
