// Package export renders a form's responses as downloadable documents.
// CSV is the only supported format.
package export

import (
	"sort"
	"strings"
	"time"

	"github.com/formloop/formloop/model"
)

// CSV renders one row per response, ordered as supplied by the caller.
// The header is "Submission Date" followed by each question's text in
// the form's question order. Every data field, the submission date
// included, is double-quoted with internal quotes doubled; list answers
// are joined with "; " and a missing answer renders as an empty quoted
// field.
func CSV(form model.Form, responses []model.Response) []byte {
	questions := make([]model.Question, len(form.Questions))
	copy(questions, form.Questions)
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].Order < questions[j].Order
	})

	var b strings.Builder

	b.WriteString("Submission Date")
	for _, q := range questions {
		b.WriteByte(',')
		b.WriteString(q.Text)
	}

	for _, r := range responses {
		b.WriteByte('\n')
		b.WriteString(quote(r.SubmittedAt.UTC().Format(time.RFC3339)))

		for _, q := range questions {
			b.WriteByte(',')
			value, ok := r.AnswerTo(q.ID)
			if !ok {
				b.WriteString(`""`)
				continue
			}
			b.WriteString(quote(value.String()))
		}
	}

	return []byte(b.String())
}

// Filename names the download after the export date.
func Filename(now time.Time) string {
	return "responses-" + now.UTC().Format("2006-01-02") + ".csv"
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
