package extract

import (
	"bytes"
	_ "embed"
	"text/template"
)

//go:embed user.tmpl
var userPromptTmpl string

var userTemplate = template.Must(template.New("user").Parse(userPromptTmpl))

// UserPrompt builds the extraction prompt embedding the resume text and
// the full target JSON shape.
func UserPrompt(resumeText string) string {
	var buf bytes.Buffer
	data := struct{ ResumeText string }{ResumeText: resumeText}
	if err := userTemplate.Execute(&buf, data); err != nil {
		return userPromptTmpl
	}
	return buf.String()
}
