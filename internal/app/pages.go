package app

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"factoryfloor/internal/middleware"
	"factoryfloor/internal/pkg/utils"
)

// pages serves the HTML front ends, their assets and uploaded photos from
// the application root.
type pages struct {
	root    string
	uploads string
}

func newPages(root, uploads string) *pages {
	return &pages{root: root, uploads: uploads}
}

func (p *pages) register(r *gin.Engine) {
	r.GET("/", p.file("mobile_app.html"))
	r.GET("/planning", p.file("planning.html"))
	r.GET("/admin", middleware.AdminOnly(), p.file("admin.html"))
	r.GET("/parts/:id", p.parts)
	r.Static("/css", filepath.Join(p.root, "css"))
	r.Static("/js", filepath.Join(p.root, "js"))
	r.GET("/uploads/:project/:file", middleware.RequireLogin(), p.upload)
}

func (p *pages) file(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p.serve(c, filepath.Join(p.root, name))
	}
}

func (p *pages) serve(c *gin.Context, path string) {
	if st, err := os.Stat(path); err != nil || st.IsDir() {
		c.String(http.StatusNotFound, "Not found")
		return
	}
	c.File(path)
}

// parts serves one page for every project; the page fetches its own data.
func (p *pages) parts(c *gin.Context) {
	if !utils.SafePageID(c.Param("id")) {
		c.String(http.StatusNotFound, "Not found")
		return
	}
	p.serve(c, filepath.Join(p.root, "parts.html"))
}

func (p *pages) upload(c *gin.Context) {
	projectID := utils.BaseName(c.Param("project"))
	name := utils.BaseName(c.Param("file"))
	if projectID == "" || name == "" {
		c.String(http.StatusNotFound, "Not found")
		return
	}
	dir := filepath.Join(p.uploads, projectID)
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		c.String(http.StatusNotFound, "Project upload folder not found")
		return
	}
	p.serve(c, filepath.Join(dir, name))
}

// image serves a background image stored next to the HTML pages.
func (p *pages) image(c *gin.Context) {
	name := utils.BaseName(c.Query("path"))
	if name == "" {
		c.String(http.StatusBadRequest, "Missing path parameter")
		return
	}
	path := filepath.Join(p.root, name)
	if _, err := os.Stat(path); err != nil {
		c.String(http.StatusNotFound, "Image not found")
		return
	}
	c.File(path)
}
