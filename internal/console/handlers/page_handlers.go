package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gartstein/guardroster/internal/console/controller"
	e "github.com/gartstein/guardroster/internal/console/errors"
	"github.com/gartstein/guardroster/internal/console/export"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// registerPage mounts the routes of one entity page. State changes are
// POSTed and answered with a redirect back to the page.
func (h *Handler) registerPage(g *gin.RouterGroup, page controller.Page) {
	g.GET("", func(c *gin.Context) { h.render(c, page) })
	g.GET("/export.xlsx", func(c *gin.Context) { h.export(c, page) })
	g.POST("/refresh", func(c *gin.Context) {
		h.respond(c, page, page.Refresh(c.Request.Context()))
	})

	g.POST("/filters", func(c *gin.Context) { h.respond(c, page, applyFilters(c, page)) })
	g.POST("/sort/:key", func(c *gin.Context) {
		h.respond(c, page, page.RequestSort(c.Param("key")))
	})
	g.POST("/page/:n", func(c *gin.Context) {
		n, err := strconv.Atoi(c.Param("n"))
		if err != nil {
			h.respond(c, page, fmt.Errorf("page %q: %w", c.Param("n"), e.ErrInvalidInput))
			return
		}
		page.SetPage(n)
		h.respond(c, page, nil)
	})

	g.GET("/new", func(c *gin.Context) {
		h.respond(c, page, page.OpenScoped(c.Request.Context(), c.Query("scope")))
	})
	g.GET("/records/:id/edit", func(c *gin.Context) {
		h.respond(c, page, page.OpenEdit(c.Request.Context(), c.Param("id")))
	})
	g.POST("/form", func(c *gin.Context) { h.submitForm(c, page) })
	g.POST("/form/cancel", func(c *gin.Context) {
		page.CloseForm()
		h.respond(c, page, nil)
	})

	g.POST("/records/:id/delete", func(c *gin.Context) {
		h.respond(c, page, page.RequestDelete(c.Param("id")))
	})
	g.POST("/delete/confirm", func(c *gin.Context) {
		h.respond(c, page, page.ConfirmDelete(c.Request.Context()))
	})
	g.POST("/delete/cancel", func(c *gin.Context) {
		page.CancelDelete()
		h.respond(c, page, nil)
	})

	g.POST("/records/:id/status", func(c *gin.Context) {
		h.respond(c, page, page.OpenStatus(c.Param("id")))
	})
	g.POST("/status/save", func(c *gin.Context) {
		h.respond(c, page, page.SaveStatus(c.Request.Context(), c.PostForm("value")))
	})
	g.POST("/status/cancel", func(c *gin.Context) {
		page.CancelStatus()
		h.respond(c, page, nil)
	})
}

func (h *Handler) render(c *gin.Context, page controller.Page) {
	view := page.View(c.Request.Context())
	if wantsJSON(c) {
		c.JSON(http.StatusOK, view)
		return
	}
	c.HTML(http.StatusOK, "page", gin.H{
		"Title":  view.Title,
		"Active": page.Name(),
		"Nav":    h.nav(),
		"View":   view,
	})
}

// respond finishes a state change. Browsers are redirected to the page,
// which shows any banner or form error; errors the page cannot show are
// answered directly.
func (h *Handler) respond(c *gin.Context, page controller.Page, err error) {
	if err != nil {
		h.logger.Debug("page action failed",
			zap.String("page", page.Name()),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	if wantsJSON(c) {
		body := gin.H{"page": page.View(c.Request.Context())}
		if err != nil {
			body["error"] = err.Error()
		}
		c.JSON(statusFor(err), body)
		return
	}
	if err != nil && !surfaced(err) {
		c.String(statusFor(err), err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, pagePath(page))
}

func applyFilters(c *gin.Context, page controller.Page) error {
	if err := c.Request.ParseForm(); err != nil {
		return fmt.Errorf("filters: %v: %w", err, e.ErrInvalidInput)
	}
	if c.Request.PostForm.Get("clear") != "" {
		page.ClearFilters()
		return nil
	}
	for key, values := range c.Request.PostForm {
		if len(values) == 0 {
			continue
		}
		if err := page.SetFilter(key, values[0]); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) submitForm(c *gin.Context, page controller.Page) {
	if err := c.Request.ParseForm(); err != nil {
		h.respond(c, page, fmt.Errorf("form: %v: %w", err, e.ErrInvalidInput))
		return
	}
	values := c.Request.PostForm
	if values.Get("_action") == "refresh" {
		h.respond(c, page, page.ChangeForm(c.Request.Context(), values))
		return
	}
	h.respond(c, page, page.SubmitForm(c.Request.Context(), values))
}

func (h *Handler) export(c *gin.Context, page controller.Page) {
	var buf bytes.Buffer
	if err := page.Export(c.Request.Context(), &buf); err != nil {
		h.logger.Error("export failed", zap.String("page", page.Name()), zap.Error(err))
		c.String(statusFor(err), "Export failed. Please try again.")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename(page.Name())))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
