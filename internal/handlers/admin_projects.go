package handlers

import (
	"net/http"

	"github.com/medghazouan/bidayalab/internal/actions"
	"github.com/medghazouan/bidayalab/internal/models"
)

const projectsPath = "/studio-admin/projects"

func (h *AdminHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Actions.Projects.List(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "admin_projects.html", map[string]any{
		"Title":    "Projects",
		"Projects": projects,
		"Flashes":  h.flashes(w, r, adminSession),
	})
}

func (h *AdminHandler) NewProjectForm(w http.ResponseWriter, r *http.Request) {
	h.projectForm(w, r, nil)
}

func (h *AdminHandler) EditProjectForm(w http.ResponseWriter, r *http.Request) {
	project, err := h.Actions.Projects.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if project == nil {
		http.NotFound(w, r)
		return
	}
	h.projectForm(w, r, project)
}

func (h *AdminHandler) projectForm(w http.ResponseWriter, r *http.Request, project *models.Project) {
	title, action := "New project", projectsPath
	if project != nil {
		title, action = "Edit "+project.Title, projectsPath+"/"+project.ID
	}
	h.render(w, r, "admin_project_form.html", map[string]any{
		"Title":   title,
		"Action":  action,
		"Project": project,
		"Flashes": h.flashes(w, r, adminSession),
	})
}

func (h *AdminHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	back := projectsPath + "/new"
	if err := parseForm(r); err != nil {
		h.fail(w, r, adminSession, err, back)
		return
	}
	image, err := h.Uploads.imageField(r, "image")
	if err != nil {
		h.fail(w, r, adminSession, err, back)
		return
	}

	_, err = h.Actions.Projects.Create(r.Context(), actions.ProjectInput{
		Title:        formString(r, "title"),
		Slug:         formString(r, "slug"),
		Category:     formString(r, "category"),
		Description:  formString(r, "description"),
		Image:        image,
		Link:         formString(r, "link"),
		Technologies: formCommaList(r, "technologies"),
		Featured:     formBool(r, "featured"),
	})
	if err != nil {
		h.fail(w, r, adminSession, err, back)
		return
	}
	h.succeed(w, r, adminSession, "Project created!", projectsPath)
}

func (h *AdminHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	back := projectsPath + "/" + id + "/edit"
	if err := parseForm(r); err != nil {
		h.fail(w, r, adminSession, err, back)
		return
	}
	image, err := h.Uploads.imageField(r, "image")
	if err != nil {
		h.fail(w, r, adminSession, err, back)
		return
	}

	title := formString(r, "title")
	slug := formString(r, "slug")
	if slug == "" {
		slug = actions.Slugify(title)
	}
	_, err = h.Actions.Projects.Update(r.Context(), id, actions.UpdateProjectInput{
		Title:        &title,
		Slug:         &slug,
		Category:     ptr(formString(r, "category")),
		Description:  ptr(formString(r, "description")),
		Image:        &image,
		Link:         ptr(formString(r, "link")),
		Technologies: ptr(formCommaList(r, "technologies")),
		Featured:     ptr(formBool(r, "featured")),
	})
	if err != nil {
		h.fail(w, r, adminSession, err, back)
		return
	}
	h.succeed(w, r, adminSession, "Project updated!", projectsPath)
}

func (h *AdminHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.Actions.Projects.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, adminSession, err, projectsPath)
		return
	}
	h.succeed(w, r, adminSession, "Project deleted.", projectsPath)
}
