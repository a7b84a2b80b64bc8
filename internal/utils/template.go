package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"text/template"
)

// LoadPostTemplate reads and parses a post body template. Templates get
// a json func that marshals any value into a JSON string literal, which
// keeps item titles and descriptions from breaking the rendered
// structure.
func LoadPostTemplate(path string) (*template.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("post template %s: %w", path, err)
	}

	tmpl, err := template.New("post").Funcs(template.FuncMap{"json": ToJSON}).Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("post template %s: %w", path, err)
	}

	return tmpl, nil
}

// ToJSON marshals v for embedding in template output. Unmarshalable
// values render as an empty JSON string rather than corrupting the post
// body.
func ToJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return `""`
	}
	return string(b)
}
