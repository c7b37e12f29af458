package handlers

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"maps"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/medghazouan/bidayalab/internal/actions"
	"github.com/medghazouan/bidayalab/internal/models"
	"github.com/medghazouan/bidayalab/internal/pagecache"
	"github.com/medghazouan/bidayalab/internal/store"
	"github.com/medghazouan/bidayalab/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db      *store.Store
	acts    *actions.Actions
	cache   *pagecache.Cache
	uploads *Uploader
	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, _ := storetest.New(t)
	cache, err := pagecache.New(32)
	require.NoError(t, err)
	acts := actions.New(db, cache, actions.Options{ImageDomains: []string{"images.unsplash.com"}})

	templates := NewTemplateCache()
	require.NoError(t, templates.Load())
	uploads, err := NewUploader(t.TempDir())
	require.NoError(t, err)

	return &testEnv{
		db:      db,
		acts:    acts,
		cache:   cache,
		uploads: uploads,
		handler: NewRouter(RouterConfig{
			Actions:      acts,
			Templates:    templates,
			SessionStore: sessions.NewCookieStore([]byte(strings.Repeat("s", 32))),
			Cache:        cache,
			Uploads:      uploads,
		}),
	}
}

// client keeps cookies between requests like a browser would.
type client struct {
	t       *testing.T
	env     *testEnv
	cookies map[string]*http.Cookie
}

func (e *testEnv) client(t *testing.T) *client {
	return &client{t: t, env: e, cookies: map[string]*http.Cookie{}}
}

func (c *client) send(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.env.handler.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return rec
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.send(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.send(req)
}

func (c *client) signIn(email, password string) {
	c.t.Helper()
	rec := c.post("/portal-access", url.Values{"email": {email}, "password": {password}})
	require.Equal(c.t, http.StatusSeeOther, rec.Code)
	require.Equal(c.t, "/dashboard", rec.Header().Get("Location"))
}

func (e *testEnv) createAdmin(t *testing.T, email string, role models.Role) {
	t.Helper()
	_, err := e.acts.Admins.Create(context.Background(), actions.CreateAdminInput{
		Name: "Test " + string(role), Email: email, Password: "s3cret-pass", Role: role,
	})
	require.NoError(t, err)
}

func (e *testEnv) signedIn(t *testing.T) *client {
	t.Helper()
	e.createAdmin(t, "owner@example.com", models.RoleAdmin)
	c := e.client(t)
	c.signIn("owner@example.com", "s3cret-pass")
	return c
}

func TestGate(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)

	for _, path := range []string{"/dashboard", "/studio-admin", "/studio-admin/blogs", "/studio-admin/orders/123"} {
		rec := c.get(path)
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/portal-access", rec.Header().Get("Location"), path)
	}

	// Look-alike paths are not protected.
	assert.Equal(t, http.StatusNotFound, c.get("/dashboards").Code)

	rec := c.get("/portal-access")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "You must be logged in")
}

func TestLoginLogout(t *testing.T) {
	env := newTestEnv(t)
	env.createAdmin(t, "owner@example.com", models.RoleAdmin)
	c := env.client(t)

	rec := c.post("/portal-access", url.Values{"email": {"owner@example.com"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/portal-access", rec.Header().Get("Location"))
	assert.Contains(t, c.get("/portal-access").Body.String(), "Invalid email or password")

	c.signIn("OWNER@example.com", "s3cret-pass")

	rec = c.get("/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome, Test admin!")

	rec = c.get("/portal-access")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	rec = c.post("/logout", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/portal-access", rec.Header().Get("Location"))

	rec = c.get("/dashboard")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestHomeRedirect(t *testing.T) {
	env := newTestEnv(t)
	rec := env.client(t).get("/home")
	assert.Equal(t, http.StatusPermanentRedirect, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestContactForm(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)

	rec := c.post("/contact", url.Values{"email": {"not-an-email"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	body := c.get("/contact").Body.String()
	assert.Contains(t, body, "Name is required.")
	assert.Contains(t, body, "Message is required.")

	rec = c.post("/contact", url.Values{
		"name":    {"Omar"},
		"email":   {"omar@example.com"},
		"message": {"Hello there"},
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, c.get("/contact").Body.String(), "Thanks for reaching out!")

	messages, err := env.acts.Messages.List(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, models.ContactStatusNew, messages[0].Status)
}

func TestOrderFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	plan, err := env.acts.Pricing.Create(ctx, actions.PricingInput{Name: "Growth", Price: 1499.5, Period: models.PeriodMonthly})
	require.NoError(t, err)
	c := env.client(t)

	rec := c.get("/pricing/" + plan.ID + "/order")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "1,499.50 USD")

	assert.Equal(t, http.StatusNotFound, c.get("/pricing/missing/order").Code)

	rec = c.post("/pricing/"+plan.ID+"/order", url.Values{
		"name":  {"Salma"},
		"email": {"salma@example.com"},
		"phone": {"+212 600 000 000"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	location := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/order/thanks/"), location)
	number := strings.TrimPrefix(location, "/order/thanks/")
	assert.Contains(t, c.get(location).Body.String(), number)

	rec = c.post("/order-status", url.Values{"order_number": {strings.ToLower(number)}, "email": {"SALMA@example.com"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "status-pending")

	rec = c.post("/order-status", url.Values{"order_number": {number}, "email": {"other@example.com"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No order matches")
}

func TestPublicPagesCachedUntilRevalidated(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.acts.Blogs.Create(context.Background(), actions.BlogInput{Title: "First post", Content: "Hi", Published: true})
	require.NoError(t, err)
	visitor := env.client(t)

	rec := visitor.get("/blogs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	rec = visitor.get("/blogs")
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), "First post")

	admin := env.signedIn(t)
	rec = admin.post("/studio-admin/blogs", url.Values{
		"title":     {"Second post"},
		"content":   {"More news"},
		"published": {"on"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/studio-admin/blogs", rec.Header().Get("Location"))

	rec = visitor.get("/blogs")
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), "Second post")

	rec = visitor.get("/blogs/second-post")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "More news")
}

func TestAdminBlogCRUD(t *testing.T) {
	env := newTestEnv(t)
	c := env.signedIn(t)
	ctx := context.Background()

	rec := c.post("/studio-admin/blogs", url.Values{"title": {"Draft"}, "content": {"x"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	blog, err := env.db.Blogs.FindOne(ctx, "slug", "draft")
	require.NoError(t, err)
	require.NotNil(t, blog)

	rec = c.get("/studio-admin/blogs/" + blog.ID + "/edit")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Draft"`)

	// A taken slug sends the editor back to the form.
	_, err = env.acts.Blogs.Create(ctx, actions.BlogInput{Title: "Taken", Content: "y"})
	require.NoError(t, err)
	rec = c.post("/studio-admin/blogs/"+blog.ID, url.Values{"title": {"Draft"}, "slug": {"taken"}, "content": {"x"}})
	assert.Equal(t, "/studio-admin/blogs/"+blog.ID+"/edit", rec.Header().Get("Location"))
	assert.Contains(t, c.get("/studio-admin/blogs/"+blog.ID+"/edit").Body.String(), "already taken")

	rec = c.post("/studio-admin/blogs/"+blog.ID, url.Values{"title": {"Final"}, "content": {"done"}, "published": {"on"}})
	assert.Equal(t, "/studio-admin/blogs", rec.Header().Get("Location"))
	updated, err := env.acts.Blogs.Get(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Slug)
	assert.True(t, updated.Published)

	rec = c.post("/studio-admin/blogs/"+blog.ID+"/delete", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	gone, err := env.acts.Blogs.Get(ctx, blog.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	assert.Equal(t, http.StatusNotFound, c.get("/studio-admin/blogs/"+blog.ID+"/edit").Code)
}

func TestAdminPages(t *testing.T) {
	env := newTestEnv(t)
	c := env.signedIn(t)
	ctx := context.Background()

	plan, err := env.acts.Pricing.Create(ctx, actions.PricingInput{Name: "Starter", Price: 99, Period: models.PeriodOneTime, Features: []string{"One page"}})
	require.NoError(t, err)
	order, err := env.acts.Orders.Create(ctx, actions.CreateOrderInput{Name: "Ali", Email: "ali@example.com", Phone: "1", PlanID: plan.ID})
	require.NoError(t, err)
	tm, err := env.acts.Testimonials.Create(ctx, actions.TestimonialInput{Name: "Lina", Quote: "Great"})
	require.NoError(t, err)
	project, err := env.acts.Projects.Create(ctx, actions.ProjectInput{Title: "Shop", Description: "A shop"})
	require.NoError(t, err)

	for _, path := range []string{
		"/dashboard",
		"/studio-admin",
		"/studio-admin/blogs/new",
		"/studio-admin/pricing",
		"/studio-admin/pricing/new",
		"/studio-admin/pricing/" + plan.ID + "/edit",
		"/studio-admin/testimonials",
		"/studio-admin/testimonials/new",
		"/studio-admin/testimonials/" + tm.ID + "/edit",
		"/studio-admin/projects",
		"/studio-admin/projects/new",
		"/studio-admin/projects/" + project.ID + "/edit",
		"/studio-admin/messages",
		"/studio-admin/orders",
		"/studio-admin/orders/" + order.ID,
		"/studio-admin/admins",
		"/studio-admin/admins/new",
		"/studio-admin/settings",
	} {
		rec := c.get(path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	for _, path := range []string{"/", "/works", "/works/shop", "/blogs", "/contact", "/order-status"} {
		rec := c.get(path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
	assert.Equal(t, http.StatusNotFound, c.get("/works/missing").Code)
}

func TestAdminOrderStatus(t *testing.T) {
	env := newTestEnv(t)
	c := env.signedIn(t)
	ctx := context.Background()
	plan, err := env.acts.Pricing.Create(ctx, actions.PricingInput{Name: "Starter", Price: 99, Period: models.PeriodOneTime})
	require.NoError(t, err)
	order, err := env.acts.Orders.Create(ctx, actions.CreateOrderInput{Name: "Ali", Email: "ali@example.com", Phone: "1", PlanID: plan.ID})
	require.NoError(t, err)

	rec := c.post("/studio-admin/orders/"+order.ID+"/status", url.Values{"status": {"confirmed"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	got, err := env.acts.Orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, got.Status)

	c.post("/studio-admin/orders/"+order.ID+"/status", url.Values{"status": {"shipped"}})
	assert.Contains(t, c.get("/studio-admin/orders/"+order.ID).Body.String(), "Status must be pending")
}

func TestShowMessageMarksRead(t *testing.T) {
	env := newTestEnv(t)
	c := env.signedIn(t)
	msg, err := env.acts.Messages.Create(context.Background(), actions.CreateMessageInput{Name: "Omar", Email: "omar@example.com", Message: "Hi"})
	require.NoError(t, err)

	rec := c.get("/studio-admin/messages/" + msg.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	got, err := env.acts.Messages.Get(context.Background(), msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusRead, got.Status)

	assert.Equal(t, http.StatusNotFound, c.get("/studio-admin/messages/missing").Code)
}

func TestAdminsRequireAdminRole(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signedIn(t)
	env.createAdmin(t, "editor@example.com", models.RoleEditor)
	editor := env.client(t)
	editor.signIn("editor@example.com", "s3cret-pass")

	assert.Equal(t, http.StatusForbidden, editor.get("/studio-admin/admins").Code)
	assert.Equal(t, http.StatusForbidden, editor.post("/studio-admin/admins", url.Values{"name": {"x"}}).Code)
	assert.Equal(t, http.StatusOK, editor.get("/studio-admin/blogs").Code)
	assert.Equal(t, http.StatusOK, owner.get("/studio-admin/admins").Code)
}

func TestDeletedAccountIsSignedOut(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.signedIn(t)
	env.createAdmin(t, "editor@example.com", models.RoleEditor)
	editor := env.client(t)
	editor.signIn("editor@example.com", "s3cret-pass")
	require.Equal(t, http.StatusOK, editor.get("/studio-admin/blogs").Code)

	account, err := env.db.GetAdminByEmail(ctx, "editor@example.com")
	require.NoError(t, err)
	require.NotNil(t, account)
	rec := owner.post("/studio-admin/admins/"+account.ID+"/delete", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	gone, err := env.acts.Admins.Get(ctx, account.ID)
	require.NoError(t, err)
	require.Nil(t, gone)

	// Replay the cookie issued before the deletion.
	stale := maps.Clone(editor.cookies)

	rec = editor.post("/studio-admin/blogs", url.Values{"title": {"Ghost post"}, "content": {"x"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/portal-access", rec.Header().Get("Location"))
	blogs, err := env.acts.Blogs.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, blogs)

	replay := env.client(t)
	replay.cookies = stale
	rec = replay.get("/dashboard")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/portal-access", rec.Header().Get("Location"))

	// The sign-in page is shown rather than bouncing to the dashboard.
	replay.cookies = maps.Clone(stale)
	assert.Equal(t, http.StatusOK, replay.get("/portal-access").Code)

	// The owner's session is unaffected.
	assert.Equal(t, http.StatusOK, owner.get("/studio-admin/blogs").Code)
}

func TestSettingsShowInFooter(t *testing.T) {
	env := newTestEnv(t)
	c := env.signedIn(t)

	// Cache the home page before the change.
	c.get("/")
	rec := c.post("/studio-admin/settings", url.Values{"instagram": {"https://instagram.com/bidayalab"}, "linkedin": {""}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = c.get("/")
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), "https://instagram.com/bidayalab")
}

func pngUpload(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := range width {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProjectImageUpload(t *testing.T) {
	env := newTestEnv(t)
	c := env.signedIn(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", "Big banner"))
	require.NoError(t, mw.WriteField("description", "Wide image"))
	fw, err := mw.CreateFormFile("image_file", "banner.png")
	require.NoError(t, err)
	_, err = fw.Write(pngUpload(t, 1600, 40))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/studio-admin/projects", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := c.send(req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/studio-admin/projects", rec.Header().Get("Location"))

	project, err := env.acts.Projects.GetBySlug(context.Background(), "big-banner")
	require.NoError(t, err)
	require.NotNil(t, project)
	require.True(t, strings.HasPrefix(project.Image, "/uploads/"), project.Image)

	f, err := os.Open(filepath.Join(env.uploads.Dir, strings.TrimPrefix(project.Image, "/uploads/")))
	require.NoError(t, err)
	defer f.Close()
	saved, err := jpeg.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 1200, saved.Width)
	assert.Equal(t, 30, saved.Height)

	assert.Equal(t, http.StatusOK, c.get(project.Image).Code)
}

func TestProjectUploadRejectsNonImages(t *testing.T) {
	env := newTestEnv(t)
	c := env.signedIn(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", "Bad upload"))
	require.NoError(t, mw.WriteField("description", "x"))
	fw, err := mw.CreateFormFile("image_file", "notes.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("not an image"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/studio-admin/projects", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := c.send(req)
	assert.Equal(t, "/studio-admin/projects/new", rec.Header().Get("Location"))

	project, err := env.acts.Projects.GetBySlug(context.Background(), "bad-upload")
	require.NoError(t, err)
	assert.Nil(t, project)
}

func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	rl := NewRateLimiter(ctx, time.Minute)
	h := rl.Middleware(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/contact", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusNoContent, send("192.0.2.1:1000"))
	// A new connection from the same client is still limited.
	assert.Equal(t, http.StatusTooManyRequests, send("192.0.2.1:2000"))
	assert.Equal(t, http.StatusNoContent, send("192.0.2.2:1000"))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "499 USD", formatPrice(499, "USD"))
	assert.Equal(t, "1,499.50 EUR", formatPrice(1499.5, "EUR"))
}

func TestParagraphs(t *testing.T) {
	assert.Equal(t, []string{"one\nline", "two"}, paragraphs("one\nline\r\n\r\n\n\ntwo\n"))
	assert.Empty(t, paragraphs("  "))
}
