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

type Blogs struct {
	db     *store.Store
	cache  Revalidator
	images imagePolicy
}

// BlogInput holds the fields of a new post. An empty Slug is derived from Title.
type BlogInput struct {
	Title      string
	Slug       string
	Excerpt    string
	Content    string
	CoverImage string
	Author     string
	Tags       []string
	Published  bool
}

// UpdateBlogInput holds the changed fields of a post; nil means unchanged.
type UpdateBlogInput struct {
	Title      *string
	Slug       *string
	Excerpt    *string
	Content    *string
	CoverImage *string
	Author     *string
	Tags       *[]string
	Published  *bool
}

func (b *Blogs) validate(blog *models.Blog) error {
	var errs fieldErrors
	errs.required("title", blog.Title)
	if errs.required("slug", blog.Slug) && !slugRegex.MatchString(blog.Slug) {
		errs.add("slug", "may only contain lowercase letters, digits and dashes")
	}
	errs.required("content", blog.Content)
	b.images.check(&errs, "coverImage", blog.CoverImage)
	return errs.err()
}

func (b *Blogs) Create(ctx context.Context, in BlogInput) (*models.Blog, error) {
	blog := &models.Blog{
		Title:      strings.TrimSpace(in.Title),
		Slug:       strings.TrimSpace(in.Slug),
		Excerpt:    strings.TrimSpace(in.Excerpt),
		Content:    in.Content,
		CoverImage: strings.TrimSpace(in.CoverImage),
		Author:     strings.TrimSpace(in.Author),
		Tags:       cleanList(in.Tags),
		Published:  in.Published,
	}
	if blog.Slug == "" {
		blog.Slug = Slugify(blog.Title)
	}
	if err := b.validate(blog); err != nil {
		return nil, err
	}
	if err := b.ensureSlugFree(ctx, blog.Slug, ""); err != nil {
		return nil, err
	}

	if err := b.db.Blogs.Insert(ctx, blog); err != nil {
		return nil, b.writeError(err, blog.Slug, "create blog")
	}
	slog.Info("Blog created", "blog_id", blog.ID, "slug", blog.Slug)
	b.revalidate(blog.Slug)
	return blog, nil
}

func (b *Blogs) Update(ctx context.Context, id string, in UpdateBlogInput) (*models.Blog, error) {
	blog, err := b.db.Blogs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if blog == nil {
		return nil, models.ErrNotFound
	}
	oldSlug := blog.Slug

	if in.Title != nil {
		blog.Title = strings.TrimSpace(*in.Title)
	}
	if in.Slug != nil {
		blog.Slug = strings.TrimSpace(*in.Slug)
	}
	if in.Excerpt != nil {
		blog.Excerpt = strings.TrimSpace(*in.Excerpt)
	}
	if in.Content != nil {
		blog.Content = *in.Content
	}
	if in.CoverImage != nil {
		blog.CoverImage = strings.TrimSpace(*in.CoverImage)
	}
	if in.Author != nil {
		blog.Author = strings.TrimSpace(*in.Author)
	}
	if in.Tags != nil {
		blog.Tags = cleanList(*in.Tags)
	}
	if in.Published != nil {
		blog.Published = *in.Published
	}
	if err := b.validate(blog); err != nil {
		return nil, err
	}
	if blog.Slug != oldSlug {
		if err := b.ensureSlugFree(ctx, blog.Slug, blog.ID); err != nil {
			return nil, err
		}
	}

	if err := b.db.Blogs.Replace(ctx, blog); err != nil {
		return nil, b.writeError(err, blog.Slug, "update blog")
	}
	slog.Info("Blog updated", "blog_id", blog.ID)
	b.revalidate(oldSlug, blog.Slug)
	return blog, nil
}

func (b *Blogs) List(ctx context.Context) ([]models.Blog, error) {
	return b.db.Blogs.List(ctx)
}

// ListPublished returns the posts visible on the public blog, newest first.
func (b *Blogs) ListPublished(ctx context.Context) ([]models.Blog, error) {
	all, err := b.db.Blogs.List(ctx)
	if err != nil {
		return nil, err
	}
	published := make([]models.Blog, 0, len(all))
	for _, blog := range all {
		if blog.Published {
			published = append(published, blog)
		}
	}
	return published, nil
}

func (b *Blogs) Get(ctx context.Context, id string) (*models.Blog, error) {
	return b.db.Blogs.Get(ctx, id)
}

// GetPublished returns the published post with the given slug, or nil.
func (b *Blogs) GetPublished(ctx context.Context, slug string) (*models.Blog, error) {
	blog, err := b.db.Blogs.FindOne(ctx, "slug", slug)
	if err != nil || blog == nil || !blog.Published {
		return nil, err
	}
	return blog, nil
}

func (b *Blogs) Delete(ctx context.Context, id string) error {
	blog, err := b.db.Blogs.Get(ctx, id)
	if err != nil {
		return err
	}
	if blog == nil {
		return nil
	}
	if err := b.db.Blogs.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	slog.Info("Blog deleted", "blog_id", id)
	b.revalidate(blog.Slug)
	return nil
}

func (b *Blogs) ensureSlugFree(ctx context.Context, slug, selfID string) error {
	other, err := b.db.Blogs.FindOne(ctx, "slug", slug)
	if err != nil {
		return err
	}
	if other != nil && other.ID != selfID {
		return &models.ConflictError{Field: "slug", Value: slug}
	}
	return nil
}

func (b *Blogs) writeError(err error, slug, op string) error {
	if errors.Is(err, store.ErrDuplicate) {
		return &models.ConflictError{Field: "slug", Value: slug}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (b *Blogs) revalidate(slugs ...string) {
	paths := []string{PathHome, PathBlogs, studioPath("blogs")}
	for _, s := range slugs {
		paths = append(paths, PathBlogs+"/"+s)
	}
	b.cache.Revalidate(paths...)
}
