package server

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"github.com/pdpkitchen/dashboard/students"
)

//go:embed templates/*
var templateFiles embed.FS

// pageTemplates are rendered inside layout.html
var pageTemplates = []string{
	"sign_in.html",
	"overview.html",
	"no_eating.html",
	"students.html",
	"student_form.html",
	"profile.html",
	"error.html",
}

var templateFuncs = template.FuncMap{
	"studentTypeLabel": func(t any) string {
		return students.StudentType(fmt.Sprint(t)).Label()
	},
	"yesNo": func(b bool) string {
		if b {
			return "Ha"
		}
		return "Yo'q"
	},
	"deref": func(v any) any {
		switch p := v.(type) {
		case *int:
			if p == nil {
				return "-"
			}
			return *p
		case *string:
			if p == nil || *p == "" {
				return "-"
			}
			return *p
		default:
			return v
		}
	},
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
	"signed": func(n int) string {
		if n >= 0 {
			return fmt.Sprintf("+%d%%", n)
		}
		return fmt.Sprintf("%d%%", n)
	},
	"lower": strings.ToLower,
}

func TemplateFilesFS() fs.FS {
	// Create the sub filesystem once
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

// ParseTemplate parses a page together with the layout it renders into
func ParseTemplate(name string) (*template.Template, error) {
	return template.New("layout.html").Funcs(templateFuncs).ParseFS(TemplateFilesFS(), "layout.html", name)
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageTemplates))
	for _, name := range pageTemplates {
		tmpl, err := ParseTemplate(name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}
