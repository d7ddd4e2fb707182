package http

import (
	"fmt"
	"html/template"

	"cafehub/internal/model"
	"cafehub/web"
)

var templateFuncs = template.FuncMap{
	"yesno": func(v bool) string {
		if v {
			return "Yes"
		}
		return "No"
	},
	"rating": func(avg float64) string {
		return fmt.Sprintf("%.1f", avg)
	},
	"ratings": func() []int {
		out := make([]int, 0, model.MaxRating-model.MinRating+1)
		for r := model.MaxRating; r >= model.MinRating; r-- {
			out = append(out, r)
		}
		return out
	},
}

// LoadTemplates parses the embedded page templates.
func LoadTemplates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(web.Templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates failed: %w", err)
	}
	return tmpl, nil
}
