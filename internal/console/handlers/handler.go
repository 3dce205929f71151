package handlers

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/gartstein/guardroster/internal/console/auth"
	"github.com/gartstein/guardroster/internal/console/controller"
	"github.com/gartstein/guardroster/internal/console/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Session is the operator session the console runs under.
type Session interface {
	auth.Gate
	Login(ctx context.Context, email, password string) (bool, error)
	Logout(ctx context.Context)
	User() *models.User
	Restored() bool
}

// Lookups are the scoped registry queries exposed as JSON.
type Lookups interface {
	GuardsByCompany(ctx context.Context, companyID string) ([]models.Guard, error)
	GuardsByStatus(ctx context.Context, status models.GuardStatus) ([]models.Guard, error)
	FirearmsByGuard(ctx context.Context, guardID string) ([]models.FireArm, error)
	FirearmsByCompany(ctx context.Context, companyID string) ([]models.FireArm, error)
	UpdateTaxClearance(ctx context.Context, id, document string) error
}

// Metrics instruments the router. It may be nil.
type Metrics interface {
	Middleware() gin.HandlerFunc
	Handler() http.Handler
}

type Config struct {
	Secret      string
	SessionTTL  time.Duration
	CORSOrigins []string
}

// Handler builds the console routes.
type Handler struct {
	session   Session
	pages     *controller.Pages
	lookups   Lookups
	metrics   Metrics
	cfg       Config
	templates *template.Template
	logger    *zap.Logger
}

// NewHandler parses the page templates; a template error is returned.
func NewHandler(session Session, pages *controller.Pages, lookups Lookups, metrics Metrics, cfg Config, logger *zap.Logger) (*Handler, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = auth.DefaultTTL
	}
	return &Handler{
		session:   session,
		pages:     pages,
		lookups:   lookups,
		metrics:   metrics,
		cfg:       cfg,
		templates: tmpl,
		logger:    logger.Named("console_handler"),
	}, nil
}

// Router wires every console route.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger())
	if h.metrics != nil {
		r.Use(h.metrics.Middleware())
	}
	if len(h.cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     h.cfg.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.SetHTMLTemplate(h.templates)

	r.GET("/healthz", h.health)
	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}
	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/dashboard") })
	r.GET(auth.LoginPath, h.loginPage)
	r.POST(auth.LoginPath, h.login)
	r.POST("/logout", h.logout)

	dash := r.Group("/dashboard", auth.RequireSession(h.session, h.cfg.Secret))
	dash.GET("", h.overview)
	dash.GET("/profile", h.profile)
	h.registerLookups(dash.Group("/api"))
	for _, page := range h.pages.All() {
		h.registerPage(dash.Group("/"+page.Name()), page)
	}
	return r
}

func (h *Handler) health(c *gin.Context) {
	state := "loading"
	switch {
	case h.session.Authenticated():
		state = "authenticated"
	case h.session.Ready():
		state = "anonymous"
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "session": state})
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

type navItem struct {
	Name  string
	Title string
	Path  string
}

func (h *Handler) nav() []navItem {
	items := make([]navItem, 0, len(h.pages.All()))
	for _, p := range h.pages.All() {
		items = append(items, navItem{Name: p.Name(), Title: p.Title(), Path: pagePath(p)})
	}
	return items
}

func pagePath(p controller.Page) string {
	return "/dashboard/" + p.Name()
}

func wantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

type overviewCard struct {
	Title string
	Path  string
	Stats []controller.Stat
	Error string
}

func (h *Handler) overview(c *gin.Context) {
	cards := make([]overviewCard, 0, len(h.pages.All()))
	for _, p := range h.pages.All() {
		card := overviewCard{Title: p.Title(), Path: pagePath(p)}
		stats, err := p.Stats(c.Request.Context())
		if err != nil {
			card.Error = "Failed to load statistics. Please try again later."
		}
		card.Stats = stats
		cards = append(cards, card)
	}
	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"cards": cards})
		return
	}
	c.HTML(http.StatusOK, "overview", gin.H{
		"Title":    "Overview",
		"Active":   "overview",
		"Nav":      h.nav(),
		"Cards":    cards,
		"Restored": h.session.Restored(),
	})
}

func (h *Handler) profile(c *gin.Context) {
	user := h.session.User()
	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"user": user, "restored": h.session.Restored()})
		return
	}
	c.HTML(http.StatusOK, "profile", gin.H{
		"Title":  "Profile",
		"Active": "profile",
		"Nav":    h.nav(),
		"User":   user,
	})
}
