package rest

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"file-uploader/internal/application/authctx"
	"file-uploader/web"
)

const (
	viewSignup    = "signup.html"
	viewLogin     = "login.html"
	viewDashboard = "dashboard.html"
	viewFolder    = "folder.html"
	viewError     = "error.html"
)

func LoadTemplates(r *gin.Engine) error {
	t, err := template.ParseFS(web.Templates, "templates/*.html")
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(t)
	return nil
}

// render adds the fields the shared layout expects.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if p, ok := authctx.FromContext(c.Request.Context()); ok {
		data["email"] = p.Email
	}
	c.HTML(status, name, data)
}

func renderError(c *gin.Context, status int, message string) {
	render(c, status, viewError, gin.H{
		"title":   http.StatusText(status),
		"message": message,
	})
}
