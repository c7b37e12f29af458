package handlers

import (
	"net/http"

	"github.com/medghazouan/bidayalab/internal/actions"
	"github.com/medghazouan/bidayalab/internal/models"
)

const testimonialsPath = "/studio-admin/testimonials"

func (h *AdminHandler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	testimonials, err := h.Actions.Testimonials.List(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "admin_testimonials.html", map[string]any{
		"Title":        "Testimonials",
		"Testimonials": testimonials,
		"Flashes":      h.flashes(w, r, adminSession),
	})
}

func (h *AdminHandler) NewTestimonialForm(w http.ResponseWriter, r *http.Request) {
	h.testimonialForm(w, r, nil)
}

func (h *AdminHandler) EditTestimonialForm(w http.ResponseWriter, r *http.Request) {
	tm, err := h.Actions.Testimonials.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if tm == nil {
		http.NotFound(w, r)
		return
	}
	h.testimonialForm(w, r, tm)
}

func (h *AdminHandler) testimonialForm(w http.ResponseWriter, r *http.Request, tm *models.Testimonial) {
	title, action := "New testimonial", testimonialsPath
	if tm != nil {
		title, action = "Edit testimonial from "+tm.Name, testimonialsPath+"/"+tm.ID
	}
	h.render(w, r, "admin_testimonial_form.html", map[string]any{
		"Title":       title,
		"Action":      action,
		"Testimonial": tm,
		"Flashes":     h.flashes(w, r, adminSession),
	})
}

func (h *AdminHandler) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	back := testimonialsPath + "/new"
	if err := parseForm(r); err != nil {
		h.fail(w, r, adminSession, err, back)
		return
	}
	avatar, err := h.Uploads.imageField(r, "avatar")
	if err != nil {
		h.fail(w, r, adminSession, err, back)
		return
	}
	_, err = h.Actions.Testimonials.Create(r.Context(), actions.TestimonialInput{
		Name:    formString(r, "name"),
		Role:    formString(r, "role"),
		Company: formString(r, "company"),
		Quote:   formString(r, "quote"),
		Avatar:  avatar,
		Rating:  formInt(r, "rating", 0),
	})
	if err != nil {
		h.fail(w, r, adminSession, err, back)
		return
	}
	h.succeed(w, r, adminSession, "Testimonial created!", testimonialsPath)
}

func (h *AdminHandler) UpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	back := testimonialsPath + "/" + id + "/edit"
	if err := parseForm(r); err != nil {
		h.fail(w, r, adminSession, err, back)
		return
	}
	avatar, err := h.Uploads.imageField(r, "avatar")
	if err != nil {
		h.fail(w, r, adminSession, err, back)
		return
	}
	_, err = h.Actions.Testimonials.Update(r.Context(), id, actions.UpdateTestimonialInput{
		Name:    ptr(formString(r, "name")),
		Role:    ptr(formString(r, "role")),
		Company: ptr(formString(r, "company")),
		Quote:   ptr(formString(r, "quote")),
		Avatar:  &avatar,
		Rating:  ptr(formInt(r, "rating", 0)),
	})
	if err != nil {
		h.fail(w, r, adminSession, err, back)
		return
	}
	h.succeed(w, r, adminSession, "Testimonial updated!", testimonialsPath)
}

func (h *AdminHandler) DeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	if err := h.Actions.Testimonials.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, adminSession, err, testimonialsPath)
		return
	}
	h.succeed(w, r, adminSession, "Testimonial deleted.", testimonialsPath)
}
