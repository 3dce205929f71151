// Package devbackend is an in-memory stand-in for the registry REST API. It
// serves the same paths as the real backend so the console can be run and
// tested without it. Login hands out a signed bearer token that every data
// route requires.
package devbackend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gartstein/guardroster/internal/console/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Collections held by the backend.
const (
	Companies          = "companies"
	Guards             = "guards"
	Firearms           = "firearms"
	CompanyInformation = "company_information"
	GuardInformation   = "guard_information"
)

type Config struct {
	Email    string
	Password string
	Secret   string
	TTL      time.Duration
}

// Call is one request the backend received.
type Call struct {
	Method string
	Path   string
	Body   map[string]any
}

type record map[string]any

func (r record) id() string {
	id, _ := r["_id"].(string)
	return id
}

// references lists, per collection, the fields holding the id of a record in
// another collection. Lists send them populated.
var references = map[string]map[string]string{
	Guards:             {"security_company": Companies},
	Firearms:           {"security_company": Companies, "security_guard": Guards},
	CompanyInformation: {"security_company": Companies},
	GuardInformation:   {"security_guard": Guards},
}

var singular = map[string]string{
	Companies:          "Company",
	Guards:             "Guard",
	Firearms:           "Firearm",
	CompanyInformation: "Company information",
	GuardInformation:   "Guard information",
}

type Backend struct {
	cfg    Config
	logger *zap.Logger
	routes []route

	mu    sync.Mutex
	data  map[string][]record
	calls []Call
}

func New(cfg Config, logger *zap.Logger) *Backend {
	if cfg.TTL <= 0 {
		cfg.TTL = auth.DefaultTTL
	}
	b := &Backend{
		cfg:    cfg,
		logger: logger.Named("dev_registry"),
		data:   make(map[string][]record),
	}
	b.routes = b.table()
	return b
}

// Put stores rows in a collection. Rows are anything that encodes to a JSON
// object; a row without "_id" gets a fresh one.
func (b *Backend) Put(collection string, rows ...any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, row := range rows {
		raw, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("encode %s row: %w", collection, err)
		}
		rec := record{}
		if err := json.Unmarshal(raw, &rec); err != nil {
			return fmt.Errorf("decode %s row: %w", collection, err)
		}
		if rec.id() == "" {
			rec["_id"] = uuid.NewString()
		}
		b.data[collection] = append(b.data[collection], rec)
	}
	return nil
}

// Calls returns every request received so far.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// Find returns the latest request with method and path.
func (b *Backend) Find(method, path string) (Call, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.calls) - 1; i >= 0; i-- {
		if b.calls[i].Method == method && b.calls[i].Path == path {
			return b.calls[i], true
		}
	}
	return Call{}, false
}

// Router serves the backend.
func (b *Backend) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.NoRoute(b.dispatch)
	return r
}

func (b *Backend) dispatch(c *gin.Context) {
	var body map[string]any
	raw, _ := io.ReadAll(c.Request.Body)
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid JSON body"})
			return
		}
	}

	b.mu.Lock()
	b.calls = append(b.calls, Call{Method: c.Request.Method, Path: c.Request.URL.Path, Body: body})
	b.mu.Unlock()
	b.logger.Debug("request", zap.String("method", c.Request.Method), zap.String("path", c.Request.URL.Path))

	rt, params, ok := match(b.routes, c.Request.Method, c.Request.URL.Path)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Route not found"})
		return
	}
	if !rt.public && !b.authorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	rt.handle(c, request{params: params, body: body})
}

func (b *Backend) authorized(c *gin.Context) bool {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || token == "" {
		return false
	}
	_, err := auth.ValidateToken(token, b.cfg.Secret)
	return err == nil
}

func (b *Backend) subject(c *gin.Context) string {
	token, _ := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	claims, err := auth.ValidateToken(token, b.cfg.Secret)
	if err != nil {
		return ""
	}
	sub, _ := claims["sub"].(string)
	return sub
}

func (b *Backend) login(c *gin.Context, req request) {
	email, _ := req.body["email"].(string)
	password, _ := req.body["password"].(string)
	if email != b.cfg.Email || password != b.cfg.Password {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}
	token, err := auth.GenerateToken(email, b.cfg.Secret, b.cfg.TTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "role": "admin", "message": "Login successful", "token": token})
}

func (b *Backend) verify(c *gin.Context, _ request) {
	sub := b.subject(c)
	if sub == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": gin.H{"email": sub, "role": "admin"}})
}

func (b *Backend) list(collection string) handler {
	return func(c *gin.Context, _ request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		out := make([]record, 0, len(b.data[collection]))
		for _, rec := range b.data[collection] {
			out = append(out, b.populate(collection, rec))
		}
		c.JSON(http.StatusOK, out)
	}
}

// where lists the records whose field equals the route parameter.
func (b *Backend) where(collection, field, param string) handler {
	return func(c *gin.Context, req request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		out := []record{}
		for _, rec := range b.data[collection] {
			if fmt.Sprint(rec[field]) == req.params[param] {
				out = append(out, b.populate(collection, rec))
			}
		}
		c.JSON(http.StatusOK, out)
	}
}

func (b *Backend) get(collection string) handler {
	return func(c *gin.Context, req request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		i := b.index(collection, req.params["id"])
		if i < 0 {
			b.notFound(c, collection)
			return
		}
		c.JSON(http.StatusOK, b.populate(collection, b.data[collection][i]))
	}
}

func (b *Backend) create(collection string) handler {
	return func(c *gin.Context, req request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if collection == Companies {
			for _, rec := range b.data[Companies] {
				if rec["name"] == req.body["name"] {
					c.JSON(http.StatusBadRequest, gin.H{"message": "Company already exists"})
					return
				}
			}
		}
		rec := record{}
		for k, v := range req.body {
			rec[k] = v
		}
		rec["_id"] = uuid.NewString()
		b.data[collection] = append(b.data[collection], rec)
		c.JSON(http.StatusCreated, b.populate(collection, rec))
	}
}

// merge updates the fields sent in the body. It serves both full updates and
// status updates.
func (b *Backend) merge(collection string) handler {
	return func(c *gin.Context, req request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		i := b.index(collection, req.params["id"])
		if i < 0 {
			b.notFound(c, collection)
			return
		}
		rec := b.data[collection][i]
		for k, v := range req.body {
			if k != "_id" {
				rec[k] = v
			}
		}
		c.JSON(http.StatusOK, b.populate(collection, rec))
	}
}

func (b *Backend) remove(collection string) handler {
	return func(c *gin.Context, req request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		i := b.index(collection, req.params["id"])
		if i < 0 {
			b.notFound(c, collection)
			return
		}
		rows := b.data[collection]
		b.data[collection] = append(rows[:i:i], rows[i+1:]...)
		c.JSON(http.StatusOK, gin.H{"message": singular[collection] + " deleted"})
	}
}

func (b *Backend) index(collection, id string) int {
	for i, rec := range b.data[collection] {
		if rec.id() == id {
			return i
		}
	}
	return -1
}

func (b *Backend) notFound(c *gin.Context, collection string) {
	c.JSON(http.StatusNotFound, gin.H{"message": singular[collection] + " not found"})
}

// populate copies rec with its references replaced by the referenced record.
// Unknown ids are left as they are. Callers hold mu.
func (b *Backend) populate(collection string, rec record) record {
	out := make(record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	for field, target := range references[collection] {
		id, ok := rec[field].(string)
		if !ok || id == "" {
			continue
		}
		if i := b.index(target, id); i >= 0 {
			out[field] = b.data[target][i]
		}
	}
	return out
}
