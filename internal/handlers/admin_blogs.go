package handlers

import (
	"net/http"

	"github.com/medghazouan/bidayalab/internal/actions"
	"github.com/medghazouan/bidayalab/internal/models"
)

const blogsPath = "/studio-admin/blogs"

func (h *AdminHandler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.Actions.Blogs.List(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "admin_blogs.html", map[string]any{
		"Title":   "Blog posts",
		"Blogs":   blogs,
		"Flashes": h.flashes(w, r, adminSession),
	})
}

func (h *AdminHandler) NewBlogForm(w http.ResponseWriter, r *http.Request) {
	h.blogForm(w, r, nil)
}

func (h *AdminHandler) EditBlogForm(w http.ResponseWriter, r *http.Request) {
	blog, err := h.Actions.Blogs.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if blog == nil {
		http.NotFound(w, r)
		return
	}
	h.blogForm(w, r, blog)
}

func (h *AdminHandler) blogForm(w http.ResponseWriter, r *http.Request, blog *models.Blog) {
	title, action := "New blog post", blogsPath
	if blog != nil {
		title, action = "Edit "+blog.Title, blogsPath+"/"+blog.ID
	}
	h.render(w, r, "admin_blog_form.html", map[string]any{
		"Title":   title,
		"Action":  action,
		"Blog":    blog,
		"Flashes": h.flashes(w, r, adminSession),
	})
}

func (h *AdminHandler) CreateBlog(w http.ResponseWriter, r *http.Request) {
	back := blogsPath + "/new"
	if err := parseForm(r); err != nil {
		h.fail(w, r, adminSession, err, back)
		return
	}
	cover, err := h.Uploads.imageField(r, "cover_image")
	if err != nil {
		h.fail(w, r, adminSession, err, back)
		return
	}

	_, err = h.Actions.Blogs.Create(r.Context(), actions.BlogInput{
		Title:      formString(r, "title"),
		Slug:       formString(r, "slug"),
		Excerpt:    formString(r, "excerpt"),
		Content:    r.FormValue("content"),
		CoverImage: cover,
		Author:     formString(r, "author"),
		Tags:       formCommaList(r, "tags"),
		Published:  formBool(r, "published"),
	})
	if err != nil {
		h.fail(w, r, adminSession, err, back)
		return
	}
	h.succeed(w, r, adminSession, "Blog post created!", blogsPath)
}

func (h *AdminHandler) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	back := blogsPath + "/" + id + "/edit"
	if err := parseForm(r); err != nil {
		h.fail(w, r, adminSession, err, back)
		return
	}
	cover, err := h.Uploads.imageField(r, "cover_image")
	if err != nil {
		h.fail(w, r, adminSession, err, back)
		return
	}

	title := formString(r, "title")
	slug := formString(r, "slug")
	if slug == "" {
		slug = actions.Slugify(title)
	}
	_, err = h.Actions.Blogs.Update(r.Context(), id, actions.UpdateBlogInput{
		Title:      &title,
		Slug:       &slug,
		Excerpt:    ptr(formString(r, "excerpt")),
		Content:    ptr(r.FormValue("content")),
		CoverImage: &cover,
		Author:     ptr(formString(r, "author")),
		Tags:       ptr(formCommaList(r, "tags")),
		Published:  ptr(formBool(r, "published")),
	})
	if err != nil {
		h.fail(w, r, adminSession, err, back)
		return
	}
	h.succeed(w, r, adminSession, "Blog post updated!", blogsPath)
}

func (h *AdminHandler) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	if err := h.Actions.Blogs.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, adminSession, err, blogsPath)
		return
	}
	h.succeed(w, r, adminSession, "Blog post deleted.", blogsPath)
}
