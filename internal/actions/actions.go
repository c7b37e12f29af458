// Package actions holds the operations the site's forms and pages invoke.
// Every mutation persists through the store and then revalidates the
// cached pages that show the changed data.
package actions

import (
	"github.com/medghazouan/bidayalab/internal/auth"
	"github.com/medghazouan/bidayalab/internal/store"
)

// Revalidator drops cached renderings so the next request sees fresh data.
type Revalidator interface {
	Revalidate(paths ...string)
	RevalidateAll()
}

type noopRevalidator struct{}

func (noopRevalidator) Revalidate(...string) {}
func (noopRevalidator) RevalidateAll()       {}

// Options tunes validation shared by several resources.
type Options struct {
	// ImageDomains lists the hosts remote image URLs may point at.
	ImageDomains []string
}

type Actions struct {
	Admins       *Admins
	Messages     *Messages
	Orders       *Orders
	Settings     *Settings
	Blogs        *Blogs
	Pricing      *Pricing
	Testimonials *Testimonials
	Projects     *Projects
	Dashboard    *Dashboard
}

func New(db *store.Store, cache Revalidator, opts Options) *Actions {
	if cache == nil {
		cache = noopRevalidator{}
	}
	images := imagePolicy{domains: opts.ImageDomains}
	return &Actions{
		Admins:       &Admins{db: db, cache: cache},
		Messages:     &Messages{db: db, cache: cache},
		Orders:       &Orders{db: db, cache: cache},
		Settings:     &Settings{db: db, cache: cache},
		Blogs:        &Blogs{db: db, cache: cache, images: images},
		Pricing:      &Pricing{db: db, cache: cache},
		Testimonials: &Testimonials{db: db, cache: cache, images: images},
		Projects:     &Projects{db: db, cache: cache, images: images},
		Dashboard:    &Dashboard{db: db},
	}
}

// Public and admin paths whose rendering depends on stored data.
const (
	PathHome  = "/"
	PathBlogs = "/blogs"
	PathWorks = "/works"
)

func studioPath(resource string) string {
	return auth.StudioPath + "/" + resource
}
