package handlers

import (
	"net/http"

	"github.com/medghazouan/bidayalab/internal/actions"
	"github.com/medghazouan/bidayalab/internal/models"
)

// HomeHandler serves the public, cacheable pages. None of them read a
// session, so a rendering can be shared between visitors.
type HomeHandler struct {
	base
}

const homeLatestPosts = 3

func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projects, err := h.Actions.Projects.List(ctx)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	plans, err := h.Actions.Pricing.List(ctx)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	testimonials, err := h.Actions.Testimonials.List(ctx)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	posts, err := h.Actions.Blogs.ListPublished(ctx)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if len(posts) > homeLatestPosts {
		posts = posts[:homeLatestPosts]
	}

	h.render(w, r, "home.html", map[string]any{
		"Projects":     featuredFirst(projects),
		"Plans":        plans,
		"Testimonials": testimonials,
		"Posts":        posts,
	})
}

// featuredFirst keeps the newest-first order within featured and other projects.
func featuredFirst(projects []models.Project) []models.Project {
	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if p.Featured {
			out = append(out, p)
		}
	}
	for _, p := range projects {
		if !p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// RedirectHome permanently sends the legacy /home path to the site root.
func (h *HomeHandler) RedirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, actions.PathHome, http.StatusPermanentRedirect)
}

func (h *HomeHandler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Actions.Blogs.ListPublished(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "blogs.html", map[string]any{"Title": "Blog", "Posts": posts})
}

func (h *HomeHandler) ShowBlog(w http.ResponseWriter, r *http.Request) {
	post, err := h.Actions.Blogs.GetPublished(r.Context(), r.PathValue("slug"))
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if post == nil {
		http.NotFound(w, r)
		return
	}
	h.render(w, r, "blog.html", map[string]any{"Title": post.Title, "Post": post})
}

func (h *HomeHandler) ListWorks(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Actions.Projects.List(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "works.html", map[string]any{"Title": "Works", "Projects": featuredFirst(projects)})
}

func (h *HomeHandler) ShowWork(w http.ResponseWriter, r *http.Request) {
	project, err := h.Actions.Projects.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if project == nil {
		http.NotFound(w, r)
		return
	}
	h.render(w, r, "work.html", map[string]any{"Title": project.Title, "Project": project})
}
