// Package analytics computes the read-side aggregation over a form's
// responses: per-question distributions and a daily submission trend.
// Summarize is a pure transformation over already-fetched records; it
// never touches the store and can be recomputed at any time.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/formloop/formloop/model"
)

// TextAnswersCap limits how many verbatim free-text answers a question
// summary carries. The non-empty answer count is not capped.
const TextAnswersCap = 10

// TrendDaysCap limits the daily trend to the most recent buckets.
const TrendDaysCap = 30

type Summary struct {
	TotalResponses        int        `json:"totalResponses"`
	CompletionRate        string     `json:"completionRate"`
	AverageCompletionTime string     `json:"averageCompletionTime"`
	LastResponseAt        *time.Time `json:"lastResponseAt"`
}

type OptionCount struct {
	Count      int    `json:"count"`
	Percentage string `json:"percentage"`
}

// QuestionAnalytics is a tagged variant keyed by the question's type
// family: free-text questions carry verbatim answers, choice questions
// carry a per-option tally.
type QuestionAnalytics struct {
	QuestionID     string                 `json:"questionId"`
	QuestionText   string                 `json:"questionText"`
	Type           model.QuestionType     `json:"type"`
	TotalResponses int                    `json:"totalResponses"`
	Answers        []string               `json:"answers,omitempty"`
	Options        map[string]OptionCount `json:"options,omitempty"`
}

type TrendPoint struct {
	Date          string `json:"date"`
	ResponseCount int    `json:"responseCount"`
}

type Analytics struct {
	Summary   Summary             `json:"summary"`
	Questions []QuestionAnalytics `json:"questionAnalytics"`
	Daily     []TrendPoint        `json:"daily"`
}

// Summarize aggregates all of a form's responses. Responses are scanned
// in the order supplied by the caller, typically newest-first.
func Summarize(form model.Form, responses []model.Response) Analytics {
	total := len(responses)

	questions := make([]QuestionAnalytics, len(form.Questions))
	for i, q := range form.Questions {
		questions[i] = summarizeQuestion(q, responses, total)
	}

	return Analytics{
		Summary: Summary{
			TotalResponses:        total,
			CompletionRate:        completionRate(form, responses),
			AverageCompletionTime: averageCompletionTime(responses),
			LastResponseAt:        lastResponseAt(responses),
		},
		Questions: questions,
		Daily:     dailyTrend(responses),
	}
}

func summarizeQuestion(q model.Question, responses []model.Response, totalForForm int) QuestionAnalytics {
	qa := QuestionAnalytics{
		QuestionID:   q.ID,
		QuestionText: q.Text,
		Type:         q.Type,
	}

	if q.Type.Choice() {
		counts := map[string]int{}
		for _, r := range responses {
			value, ok := r.AnswerTo(q.ID)
			if !ok || value.Empty() {
				continue
			}
			qa.TotalResponses++

			// checkbox answers are flattened: every selected option
			// increments its own tally
			if value.IsList {
				for _, opt := range value.List {
					counts[opt]++
				}
			} else {
				counts[value.Scalar]++
			}
		}

		qa.Options = make(map[string]OptionCount, len(counts))
		for opt, count := range counts {
			qa.Options[opt] = OptionCount{
				Count:      count,
				Percentage: percentage(count, totalForForm),
			}
		}
		return qa
	}

	for _, r := range responses {
		value, ok := r.AnswerTo(q.ID)
		if !ok || value.Empty() {
			continue
		}
		qa.TotalResponses++
		if len(qa.Answers) < TextAnswersCap {
			qa.Answers = append(qa.Answers, value.String())
		}
	}
	return qa
}

func percentage(count, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(count)/float64(total)*100)
}

// completionRate is the share of responses that answered every question
// of the form's current schema with a non-empty value.
func completionRate(form model.Form, responses []model.Response) string {
	if len(responses) == 0 {
		return "0%"
	}

	complete := 0
	for _, r := range responses {
		all := true
		for _, q := range form.Questions {
			value, ok := r.AnswerTo(q.ID)
			if !ok || value.Empty() {
				all = false
				break
			}
		}
		if all {
			complete++
		}
	}
	return percentage(complete, len(responses))
}

// averageCompletionTime is computed from the recorded submission
// durations. Responses without a recorded duration are left out; when
// none carry one the metric is reported as not available.
func averageCompletionTime(responses []model.Response) string {
	var sum int64
	n := 0
	for _, r := range responses {
		if r.Metadata.SubmissionDurationMs > 0 {
			sum += r.Metadata.SubmissionDurationMs
			n++
		}
	}
	if n == 0 {
		return "n/a"
	}

	avg := time.Duration(sum/int64(n)) * time.Millisecond
	minutes := int(avg.Minutes())
	seconds := int(avg.Seconds()) % 60
	if minutes == 0 {
		return fmt.Sprintf("%ds", seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}

func lastResponseAt(responses []model.Response) *time.Time {
	var last *time.Time
	for i := range responses {
		t := responses[i].SubmittedAt
		if last == nil || t.After(*last) {
			last = &t
		}
	}
	return last
}

// dailyTrend groups responses by UTC calendar day, sorted ascending and
// capped to the most recent TrendDaysCap buckets.
func dailyTrend(responses []model.Response) []TrendPoint {
	byDay := map[string]int{}
	for _, r := range responses {
		byDay[r.SubmittedAt.UTC().Format("2006-01-02")]++
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	if len(days) > TrendDaysCap {
		days = days[len(days)-TrendDaysCap:]
	}

	trend := make([]TrendPoint, len(days))
	for i, day := range days {
		trend[i] = TrendPoint{Date: day, ResponseCount: byDay[day]}
	}
	return trend
}
