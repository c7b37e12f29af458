package actions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/medghazouan/bidayalab/internal/models"
	"github.com/medghazouan/bidayalab/internal/store"
)

// Projects manages the portfolio shown under /works.
type Projects struct {
	db     *store.Store
	cache  Revalidator
	images imagePolicy
}

type ProjectInput struct {
	Title        string
	Slug         string
	Category     string
	Description  string
	Image        string
	Link         string
	Technologies []string
	Featured     bool
}

type UpdateProjectInput struct {
	Title        *string
	Slug         *string
	Category     *string
	Description  *string
	Image        *string
	Link         *string
	Technologies *[]string
	Featured     *bool
}

func (p *Projects) validate(project *models.Project) error {
	var errs fieldErrors
	errs.required("title", project.Title)
	if errs.required("slug", project.Slug) && !slugRegex.MatchString(project.Slug) {
		errs.add("slug", "may only contain lowercase letters, digits and dashes")
	}
	errs.required("description", project.Description)
	p.images.check(&errs, "image", project.Image)
	if project.Link != "" && !isValidURL(project.Link) {
		errs.add("link", "must be an http(s) URL")
	}
	return errs.err()
}

func (p *Projects) Create(ctx context.Context, in ProjectInput) (*models.Project, error) {
	project := &models.Project{
		Title:        strings.TrimSpace(in.Title),
		Slug:         strings.TrimSpace(in.Slug),
		Category:     strings.TrimSpace(in.Category),
		Description:  strings.TrimSpace(in.Description),
		Image:        strings.TrimSpace(in.Image),
		Link:         strings.TrimSpace(in.Link),
		Technologies: cleanList(in.Technologies),
		Featured:     in.Featured,
	}
	if project.Slug == "" {
		project.Slug = Slugify(project.Title)
	}
	if err := p.validate(project); err != nil {
		return nil, err
	}
	if err := p.ensureSlugFree(ctx, project.Slug, ""); err != nil {
		return nil, err
	}

	if err := p.db.Projects.Insert(ctx, project); err != nil {
		return nil, p.writeError(err, project.Slug, "create project")
	}
	slog.Info("Project created", "project_id", project.ID, "slug", project.Slug)
	p.revalidate(project.Slug)
	return project, nil
}

func (p *Projects) Update(ctx context.Context, id string, in UpdateProjectInput) (*models.Project, error) {
	project, err := p.db.Projects.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, models.ErrNotFound
	}
	oldSlug := project.Slug

	if in.Title != nil {
		project.Title = strings.TrimSpace(*in.Title)
	}
	if in.Slug != nil {
		project.Slug = strings.TrimSpace(*in.Slug)
	}
	if in.Category != nil {
		project.Category = strings.TrimSpace(*in.Category)
	}
	if in.Description != nil {
		project.Description = strings.TrimSpace(*in.Description)
	}
	if in.Image != nil {
		project.Image = strings.TrimSpace(*in.Image)
	}
	if in.Link != nil {
		project.Link = strings.TrimSpace(*in.Link)
	}
	if in.Technologies != nil {
		project.Technologies = cleanList(*in.Technologies)
	}
	if in.Featured != nil {
		project.Featured = *in.Featured
	}
	if err := p.validate(project); err != nil {
		return nil, err
	}
	if project.Slug != oldSlug {
		if err := p.ensureSlugFree(ctx, project.Slug, project.ID); err != nil {
			return nil, err
		}
	}

	if err := p.db.Projects.Replace(ctx, project); err != nil {
		return nil, p.writeError(err, project.Slug, "update project")
	}
	slog.Info("Project updated", "project_id", project.ID)
	p.revalidate(oldSlug, project.Slug)
	return project, nil
}

func (p *Projects) List(ctx context.Context) ([]models.Project, error) {
	return p.db.Projects.List(ctx)
}

func (p *Projects) Get(ctx context.Context, id string) (*models.Project, error) {
	return p.db.Projects.Get(ctx, id)
}

func (p *Projects) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	return p.db.Projects.FindOne(ctx, "slug", slug)
}

func (p *Projects) Delete(ctx context.Context, id string) error {
	project, err := p.db.Projects.Get(ctx, id)
	if err != nil {
		return err
	}
	if project == nil {
		return nil
	}
	if err := p.db.Projects.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	slog.Info("Project deleted", "project_id", id)
	p.revalidate(project.Slug)
	return nil
}

func (p *Projects) ensureSlugFree(ctx context.Context, slug, selfID string) error {
	other, err := p.db.Projects.FindOne(ctx, "slug", slug)
	if err != nil {
		return err
	}
	if other != nil && other.ID != selfID {
		return &models.ConflictError{Field: "slug", Value: slug}
	}
	return nil
}

func (p *Projects) writeError(err error, slug, op string) error {
	if errors.Is(err, store.ErrDuplicate) {
		return &models.ConflictError{Field: "slug", Value: slug}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (p *Projects) revalidate(slugs ...string) {
	paths := []string{PathHome, PathWorks, studioPath("projects")}
	for _, s := range slugs {
		paths = append(paths, PathWorks+"/"+s)
	}
	p.cache.Revalidate(paths...)
}
