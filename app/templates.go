package main

import (
	"bytes"
	"crypto/md5"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/sushihentaime/cleanblog/internal/blogservice"
	"github.com/sushihentaime/cleanblog/internal/userservice"
)

//go:embed templates
var templateFS embed.FS

type templateData struct {
	CurrentYear int
	User        *userservice.User
	Flash       string
	Form        map[string]string
	Errors      map[string]string
	FormAction  string
	Posts       []blogservice.Post
	Post        *blogservice.Post
	Comments    []blogservice.Comment
	Status      int
	Message     string
}

// gravatarURL returns a 100px, g rated avatar with the retro fallback.
func gravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=100&r=g&d=retro", sum)
}

// rich marks stored HTML as safe. Post bodies and comments are stripped of script
// elements before storage.
func rich(s string) template.HTML {
	return template.HTML(s)
}

func newTemplateCache(avatar func(email string) string) (map[string]*template.Template, error) {
	cache := map[string]*template.Template{}

	pages, err := fs.Glob(templateFS, "templates/pages/*.tmpl")
	if err != nil {
		return nil, err
	}

	for _, page := range pages {
		name := filepath.Base(page)

		ts, err := template.New(name).Funcs(template.FuncMap{
			"avatar": avatar,
			"rich":   rich,
		}).ParseFS(templateFS, "templates/base.tmpl", page)
		if err != nil {
			return nil, err
		}

		cache[name] = ts
	}

	return cache, nil
}

func (app *application) newTemplateData(w http.ResponseWriter, r *http.Request) *templateData {
	return &templateData{
		CurrentYear: time.Now().Year(),
		User:        app.getUserContext(r),
		Flash:       app.popFlash(w, r),
		Form:        map[string]string{},
		Errors:      map[string]string{},
	}
}

// render executes the page into a buffer first so a template error never produces a
// half written response.
func (app *application) render(w http.ResponseWriter, status int, page string, data *templateData) error {
	ts, ok := app.templateCache[page]
	if !ok {
		return fmt.Errorf("the template %s does not exist", page)
	}

	buf := new(bytes.Buffer)
	err := ts.ExecuteTemplate(buf, "base", data)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)

	return nil
}
