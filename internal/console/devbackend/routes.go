package devbackend

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type request struct {
	params map[string]string
	body   map[string]any
}

type handler func(c *gin.Context, req request)

type route struct {
	method   string
	segments []string
	public   bool
	handle   handler
}

func newRoute(method, pattern string, h handler) route {
	return route{method: method, segments: split(pattern), handle: h}
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// match finds the first route for method and path. Pattern segments starting
// with ':' capture one path segment.
func match(routes []route, method, path string) (route, map[string]string, bool) {
	segments := split(path)
	for _, rt := range routes {
		if rt.method != method || len(rt.segments) != len(segments) {
			continue
		}
		params := map[string]string{}
		ok := true
		for i, s := range rt.segments {
			if name, isParam := strings.CutPrefix(s, ":"); isParam {
				params[name] = segments[i]
				continue
			}
			if s != segments[i] {
				ok = false
				break
			}
		}
		if ok {
			return rt, params, true
		}
	}
	return route{}, nil, false
}

// table mirrors the registry API paths.
func (b *Backend) table() []route {
	login := newRoute(http.MethodPost, "/login", b.login)
	login.public = true
	verify := newRoute(http.MethodGet, "/verify", b.verify)
	verify.public = true
	logout := newRoute(http.MethodPost, "/logout", func(c *gin.Context, _ request) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	logout.public = true

	return []route{
		login, verify, logout,

		newRoute(http.MethodGet, "/companies", b.list(Companies)),
		newRoute(http.MethodGet, "/companies/:id", b.get(Companies)),
		newRoute(http.MethodPost, "/add-company", b.create(Companies)),
		newRoute(http.MethodPut, "/companies/update-status/:id", b.merge(Companies)),
		newRoute(http.MethodPut, "/companies/:id", b.merge(Companies)),
		newRoute(http.MethodDelete, "/companies/:id", b.remove(Companies)),

		newRoute(http.MethodGet, "/guards", b.list(Guards)),
		newRoute(http.MethodGet, "/guards/company/:id", b.where(Guards, "security_company", "id")),
		newRoute(http.MethodGet, "/guards/:id", b.get(Guards)),
		newRoute(http.MethodGet, "/guards-status/:status", b.where(Guards, "status", "status")),
		newRoute(http.MethodPost, "/add-guard", b.create(Guards)),
		newRoute(http.MethodPut, "/update-guard/:id", b.merge(Guards)),
		newRoute(http.MethodPut, "/guards/update-status/:id", b.merge(Guards)),
		newRoute(http.MethodDelete, "/delete-guard/:id", b.remove(Guards)),

		newRoute(http.MethodGet, "/firearms", b.list(Firearms)),
		newRoute(http.MethodGet, "/firearms/guard/:id", b.where(Firearms, "security_guard", "id")),
		newRoute(http.MethodGet, "/firearms/company/:id", b.where(Firearms, "security_company", "id")),
		newRoute(http.MethodGet, "/firearms/:id", b.get(Firearms)),
		newRoute(http.MethodPost, "/add-firearm", b.create(Firearms)),
		newRoute(http.MethodPut, "/update-firearms/:id", b.merge(Firearms)),
		newRoute(http.MethodPut, "/firearms/update-status/:id", b.merge(Firearms)),
		newRoute(http.MethodDelete, "/firearms/:id", b.remove(Firearms)),

		newRoute(http.MethodGet, "/company-information", b.list(CompanyInformation)),
		newRoute(http.MethodPost, "/company-information", b.create(CompanyInformation)),
		newRoute(http.MethodPut, "/company-information/update-status/:id", b.merge(CompanyInformation)),
		newRoute(http.MethodPut, "/company-information/update-tax-clearance/:id", b.merge(CompanyInformation)),
		newRoute(http.MethodPut, "/company-information/:id", b.merge(CompanyInformation)),
		newRoute(http.MethodDelete, "/company-information/:id", b.remove(CompanyInformation)),

		newRoute(http.MethodGet, "/guard-information-information", b.list(GuardInformation)),
		newRoute(http.MethodPost, "/guard-information-information", b.create(GuardInformation)),
		newRoute(http.MethodPut, "/guard-information-information/update-status/:id", b.merge(GuardInformation)),
		newRoute(http.MethodPut, "/guard-information-information/:id", b.merge(GuardInformation)),
		newRoute(http.MethodDelete, "/guard-information-information/:id", b.remove(GuardInformation)),
	}
}
