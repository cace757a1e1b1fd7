package analytics

import (
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formloop/formloop/model"
)

func analyticsForm() model.Form {
	return model.Form{
		ID: "form-1",
		Questions: []model.Question{
			{ID: "q1", Text: "Comments", Type: model.QuestionText},
			{ID: "q2", Text: "Rating", Type: model.QuestionRadio, Options: []string{"Good", "Bad"}},
			{ID: "q3", Text: "Topics", Type: model.QuestionCheckbox, Options: []string{"A", "B", "C"}},
		},
	}
}

func responseAt(t time.Time, answers ...model.Answer) model.Response {
	return model.Response{FormID: "form-1", Answers: answers, SubmittedAt: t}
}

func TestSummarize(t *testing.T) {
	day := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	t.Run("empty form reports zeroes", func(t *testing.T) {
		a := Summarize(analyticsForm(), nil)

		assert.Equal(t, 0, a.Summary.TotalResponses)
		assert.Equal(t, "0%", a.Summary.CompletionRate)
		assert.Equal(t, "n/a", a.Summary.AverageCompletionTime)
		assert.Nil(t, a.Summary.LastResponseAt)
		assert.Empty(t, a.Daily)
		require.Len(t, a.Questions, 3)
		for _, q := range a.Questions {
			assert.Zero(t, q.TotalResponses)
		}
	})

	t.Run("radio percentages sum to 100", func(t *testing.T) {
		responses := []model.Response{
			responseAt(day, model.Answer{QuestionID: "q2", Answer: model.ScalarAnswer("Good")}),
			responseAt(day, model.Answer{QuestionID: "q2", Answer: model.ScalarAnswer("Good")}),
			responseAt(day, model.Answer{QuestionID: "q2", Answer: model.ScalarAnswer("Bad")}),
		}

		a := Summarize(analyticsForm(), responses)
		rating := a.Questions[1]
		require.Equal(t, 3, rating.TotalResponses)
		assert.Equal(t, 2, rating.Options["Good"].Count)
		assert.Equal(t, "66.7%", rating.Options["Good"].Percentage)
		assert.Equal(t, "33.3%", rating.Options["Bad"].Percentage)

		sum := 0.0
		for _, oc := range rating.Options {
			v, err := strconv.ParseFloat(strings.TrimSuffix(oc.Percentage, "%"), 64)
			require.NoError(t, err)
			sum += v
		}
		assert.InDelta(t, 100.0, sum, 0.11)
	})

	t.Run("checkbox answers are flattened into per-option tallies", func(t *testing.T) {
		responses := []model.Response{
			responseAt(day, model.Answer{QuestionID: "q3", Answer: model.ListAnswer("A", "B")}),
			responseAt(day, model.Answer{QuestionID: "q3", Answer: model.ListAnswer("A")}),
		}

		a := Summarize(analyticsForm(), responses)
		topics := a.Questions[2]
		assert.Equal(t, 2, topics.TotalResponses)
		assert.Equal(t, 2, topics.Options["A"].Count)
		assert.Equal(t, 1, topics.Options["B"].Count)
		assert.Equal(t, "100.0%", topics.Options["A"].Percentage)
		assert.Equal(t, "50.0%", topics.Options["B"].Percentage)
	})

	t.Run("text answers are capped at ten but counted fully", func(t *testing.T) {
		responses := make([]model.Response, 0, 13)
		for i := 0; i < 12; i++ {
			responses = append(responses, responseAt(day,
				model.Answer{QuestionID: "q1", Answer: model.ScalarAnswer(fmt.Sprintf("comment %d", i))},
			))
		}
		// empty answers are not counted
		responses = append(responses, responseAt(day,
			model.Answer{QuestionID: "q1", Answer: model.ScalarAnswer("")},
		))

		a := Summarize(analyticsForm(), responses)
		comments := a.Questions[0]
		assert.Equal(t, 12, comments.TotalResponses)
		require.Len(t, comments.Answers, TextAnswersCap)
		assert.Equal(t, "comment 0", comments.Answers[0])
	})

	t.Run("daily trend groups by UTC day ascending", func(t *testing.T) {
		responses := []model.Response{
			responseAt(day.AddDate(0, 0, 2)),
			responseAt(day),
			responseAt(day.Add(2*time.Hour)),
		}

		a := Summarize(analyticsForm(), responses)
		require.Len(t, a.Daily, 2)
		assert.Equal(t, TrendPoint{Date: "2026-08-01", ResponseCount: 2}, a.Daily[0])
		assert.Equal(t, TrendPoint{Date: "2026-08-03", ResponseCount: 1}, a.Daily[1])
	})

	t.Run("daily trend keeps only the most recent thirty days", func(t *testing.T) {
		responses := make([]model.Response, 0, 40)
		for i := 0; i < 40; i++ {
			responses = append(responses, responseAt(day.AddDate(0, 0, i)))
		}

		a := Summarize(analyticsForm(), responses)
		require.Len(t, a.Daily, TrendDaysCap)
		assert.Equal(t, "2026-08-11", a.Daily[0].Date)
		assert.Equal(t, "2026-09-09", a.Daily[len(a.Daily)-1].Date)
	})

	t.Run("last response timestamp is the newest", func(t *testing.T) {
		newest := day.AddDate(0, 0, 5)
		responses := []model.Response{
			responseAt(newest),
			responseAt(day),
		}

		a := Summarize(analyticsForm(), responses)
		require.NotNil(t, a.Summary.LastResponseAt)
		assert.Equal(t, newest, *a.Summary.LastResponseAt)
	})

	t.Run("completion rate counts fully answered responses", func(t *testing.T) {
		full := responseAt(day,
			model.Answer{QuestionID: "q1", Answer: model.ScalarAnswer("nice")},
			model.Answer{QuestionID: "q2", Answer: model.ScalarAnswer("Good")},
			model.Answer{QuestionID: "q3", Answer: model.ListAnswer("A")},
		)
		partial := responseAt(day,
			model.Answer{QuestionID: "q2", Answer: model.ScalarAnswer("Bad")},
		)

		a := Summarize(analyticsForm(), []model.Response{full, partial})
		assert.Equal(t, "50.0%", a.Summary.CompletionRate)
	})

	t.Run("average completion time from recorded durations", func(t *testing.T) {
		withDuration := func(ms int64) model.Response {
			r := responseAt(day)
			r.Metadata.SubmissionDurationMs = ms
			return r
		}

		a := Summarize(analyticsForm(), []model.Response{
			withDuration(120_000),
			withDuration(180_000),
			responseAt(day), // no duration recorded, left out
		})
		assert.Equal(t, "2m 30s", a.Summary.AverageCompletionTime)

		a = Summarize(analyticsForm(), []model.Response{withDuration(45_000)})
		assert.Equal(t, "45s", a.Summary.AverageCompletionTime)
	})
}
