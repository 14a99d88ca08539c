package sendideareport

import (
	"bytes"
	htmltemplate "html/template"
	"math"
	"strconv"
	"strings"
	"text/template"

	"business-idea-workers/internal/models"
)

var funcs = template.FuncMap{
	"percent": percent,
	"inc":     func(i int) int { return i + 1 },
}

var textReport = template.Must(template.New("text").Funcs(funcs).Parse(
	`Hi{{if .Name}} {{.Name}}{{end}},

{{if .Ideas}}Here are the business ideas that best match your profile:
{{range $i, $idea := .Ideas}}
{{inc $i}}. {{$idea.Title}} ({{percent $idea.MatchScore}}% match)
   Budget: ${{printf "%.0f" $idea.MinBudget}}-${{printf "%.0f" $idea.MaxBudget}}, revenue: {{$idea.Revenue}}, difficulty: {{$idea.Difficulty}}
{{range $idea.PersonalizedNotes}}   - {{.}}
{{end}}{{end}}{{else}}No ideas matched your profile this time. Try widening your budget or adding interests.
{{end}}`))

var htmlReport = htmltemplate.Must(htmltemplate.New("html").Funcs(htmltemplate.FuncMap(funcs)).Parse(
	`<p>Hi{{if .Name}} {{.Name}}{{end}},</p>
{{if .Ideas}}<p>Here are the business ideas that best match your profile:</p>
<ol>{{range .Ideas}}
<li><strong>{{.Title}}</strong> ({{percent .MatchScore}}% match)<br>Budget: ${{printf "%.0f" .MinBudget}}-${{printf "%.0f" .MaxBudget}}, revenue: {{.Revenue}}, difficulty: {{.Difficulty}}{{if .PersonalizedNotes}}
<ul>{{range .PersonalizedNotes}}<li>{{.}}</li>{{end}}</ul>{{end}}</li>{{end}}
</ol>{{else}}<p>No ideas matched your profile this time. Try widening your budget or adding interests.</p>{{end}}
`))

type reportData struct {
	Name  string
	Ideas []models.MatchResult
}

func renderEmail(name string, ideas []models.MatchResult) (text, html string, err error) {
	data := reportData{Name: name, Ideas: ideas}

	var tb bytes.Buffer
	if err := textReport.Execute(&tb, data); err != nil {
		return "", "", err
	}
	var hb bytes.Buffer
	if err := htmlReport.Execute(&hb, data); err != nil {
		return "", "", err
	}
	return tb.String(), hb.String(), nil
}

func renderSMS(ideas []models.MatchResult) string {
	if len(ideas) == 0 {
		return "No business ideas matched your profile this time."
	}
	if len(ideas) > smsIdeaLimit {
		ideas = ideas[:smsIdeaLimit]
	}

	parts := make([]string, len(ideas))
	for i, idea := range ideas {
		parts[i] = idea.Title + " (" + strconv.Itoa(percent(idea.MatchScore)) + "%)"
	}
	return "Your top business ideas: " + strings.Join(parts, ", ")
}

func percent(score float64) int {
	return int(math.Round(score * 100))
}
