package handlers

import (
	"io/fs"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/medghazouan/bidayalab/internal/actions"
	"github.com/medghazouan/bidayalab/internal/auth"
	"github.com/medghazouan/bidayalab/internal/models"
	"github.com/medghazouan/bidayalab/internal/pagecache"
)

// RouterConfig wires the handlers to their collaborators. Cache and
// RateLimiter are optional.
type RouterConfig struct {
	Actions      *actions.Actions
	Templates    *TemplateCache
	SessionStore sessions.Store
	Cache        *pagecache.Cache
	RateLimiter  *RateLimiter
	Uploads      *Uploader
}

// NewRouter registers every route behind the admin gate. Logging, security
// headers and CSRF protection are added by the caller.
func NewRouter(cfg RouterConfig) http.Handler {
	b := base{Actions: cfg.Actions, Templates: cfg.Templates, SessionStore: cfg.SessionStore}
	home := &HomeHandler{base: b}
	orders := &OrderHandler{base: b}
	admin := &AdminHandler{base: b, Uploads: cfg.Uploads}

	cached := func(h http.HandlerFunc) http.HandlerFunc {
		if cfg.Cache == nil {
			return h
		}
		return cfg.Cache.Middleware(h)
	}
	limited := func(h http.HandlerFunc) http.HandlerFunc {
		if cfg.RateLimiter == nil {
			return h
		}
		return cfg.RateLimiter.Middleware(h)
	}

	mux := http.NewServeMux()

	// Static Files
	static, _ := fs.Sub(staticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static", http.FileServerFS(static)))
	if cfg.Uploads != nil {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads", http.FileServer(http.Dir(cfg.Uploads.Dir))))
	}

	// Public Routes
	mux.HandleFunc("GET /{$}", cached(home.Index))
	mux.HandleFunc("GET /home", home.RedirectHome)
	mux.HandleFunc("GET /blogs", cached(home.ListBlogs))
	mux.HandleFunc("GET /blogs/{slug}", cached(home.ShowBlog))
	mux.HandleFunc("GET /works", cached(home.ListWorks))
	mux.HandleFunc("GET /works/{slug}", cached(home.ShowWork))

	mux.HandleFunc("GET /contact", orders.ContactForm)
	mux.HandleFunc("POST /contact", limited(orders.SubmitContact))
	mux.HandleFunc("GET /pricing/{id}/order", orders.OrderForm)
	mux.HandleFunc("POST /pricing/{id}/order", limited(orders.SubmitOrder))
	mux.HandleFunc("GET /order/thanks/{orderNumber}", orders.Thanks)
	mux.HandleFunc("GET /order-status", orders.StatusForm)
	mux.HandleFunc("POST /order-status", limited(orders.StatusLookup))

	// Sign-in
	mux.HandleFunc("GET "+auth.SignInPath, admin.LoginGet)
	mux.HandleFunc("POST "+auth.SignInPath, admin.LoginPost)
	mux.HandleFunc("POST /logout", admin.Logout)

	// Protected Routes; GateMiddleware keeps signed-out visitors away.
	mux.HandleFunc("GET "+auth.DashboardPath, admin.Dashboard)
	mux.HandleFunc("GET "+auth.StudioPath, admin.StudioIndex)

	crud := []struct {
		path                                string
		list, newForm, create, edit, update http.HandlerFunc
		delete                              http.HandlerFunc
	}{
		{blogsPath, admin.ListBlogs, admin.NewBlogForm, admin.CreateBlog, admin.EditBlogForm, admin.UpdateBlog, admin.DeleteBlog},
		{pricingPath, admin.ListPricing, admin.NewPricingForm, admin.CreatePricing, admin.EditPricingForm, admin.UpdatePricing, admin.DeletePricing},
		{testimonialsPath, admin.ListTestimonials, admin.NewTestimonialForm, admin.CreateTestimonial, admin.EditTestimonialForm, admin.UpdateTestimonial, admin.DeleteTestimonial},
		{projectsPath, admin.ListProjects, admin.NewProjectForm, admin.CreateProject, admin.EditProjectForm, admin.UpdateProject, admin.DeleteProject},
	}
	for _, c := range crud {
		mux.HandleFunc("GET "+c.path, c.list)
		mux.HandleFunc("GET "+c.path+"/new", c.newForm)
		mux.HandleFunc("POST "+c.path, c.create)
		mux.HandleFunc("GET "+c.path+"/{id}/edit", c.edit)
		mux.HandleFunc("POST "+c.path+"/{id}", c.update)
		mux.HandleFunc("POST "+c.path+"/{id}/delete", c.delete)
	}

	mux.HandleFunc("GET "+messagesPath, admin.ListMessages)
	mux.HandleFunc("GET "+messagesPath+"/{id}", admin.ShowMessage)
	mux.HandleFunc("POST "+messagesPath+"/{id}/replied", admin.MarkMessageReplied)
	mux.HandleFunc("POST "+messagesPath+"/{id}/delete", admin.DeleteMessage)

	mux.HandleFunc("GET "+ordersPath, admin.ListOrders)
	mux.HandleFunc("GET "+ordersPath+"/{id}", admin.ShowOrder)
	mux.HandleFunc("POST "+ordersPath+"/{id}/status", admin.UpdateOrderStatus)
	mux.HandleFunc("POST "+ordersPath+"/{id}/delete", admin.DeleteOrder)

	onlyAdmins := func(h http.HandlerFunc) http.HandlerFunc { return admin.RequireRole(models.RoleAdmin, h) }
	mux.HandleFunc("GET "+adminsPath, onlyAdmins(admin.ListAdmins))
	mux.HandleFunc("GET "+adminsPath+"/new", onlyAdmins(admin.NewAdminForm))
	mux.HandleFunc("POST "+adminsPath, onlyAdmins(admin.CreateAdmin))
	mux.HandleFunc("POST "+adminsPath+"/{id}/delete", onlyAdmins(admin.DeleteAdmin))

	mux.HandleFunc("GET "+settingsPath, admin.SettingsForm)
	mux.HandleFunc("POST "+settingsPath, admin.UpdateSettings)

	return GateMiddleware(cfg.SessionStore, cfg.Actions.Admins, mux)
}
