package model

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

type QuestionType string

const (
	QuestionText     QuestionType = "text"
	QuestionTextarea QuestionType = "textarea"
	QuestionRadio    QuestionType = "radio"
	QuestionCheckbox QuestionType = "checkbox"
)

// Known reports whether t is one of the four supported question kinds.
func (t QuestionType) Known() bool {
	switch t {
	case QuestionText, QuestionTextarea, QuestionRadio, QuestionCheckbox:
		return true
	}
	return false
}

// Choice reports whether t carries a fixed option list.
func (t QuestionType) Choice() bool {
	return t == QuestionRadio || t == QuestionCheckbox
}

type Question struct {
	ID       string       `json:"id,omitempty"`
	Text     string       `json:"text"`
	Type     QuestionType `json:"type"`
	Options  []string     `json:"options,omitempty"`
	Required bool         `json:"required"`
	Order    int          `json:"order,omitempty"`
}

// HasOption reports whether value is one of the question's options.
func (q Question) HasOption(value string) bool {
	for _, opt := range q.Options {
		if opt == value {
			return true
		}
	}
	return false
}

type Form struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"-"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Questions   []Question `json:"questions"`
	PublicSlug  string     `json:"publicSlug"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// QuestionByID resolves a question against the form's current schema.
func (f Form) QuestionByID(id string) (Question, bool) {
	for _, q := range f.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// AnswerValue is either a single string or a list of selected options,
// depending on the answered question's type family.
type AnswerValue struct {
	Scalar string
	List   []string
	IsList bool
}

func ScalarAnswer(s string) AnswerValue {
	return AnswerValue{Scalar: s}
}

func ListAnswer(opts ...string) AnswerValue {
	return AnswerValue{List: opts, IsList: true}
}

// Empty reports whether the value carries no content: an empty string,
// or an empty option list.
func (v AnswerValue) Empty() bool {
	if v.IsList {
		return len(v.List) == 0
	}
	return v.Scalar == ""
}

// String renders the value for display and export. List values are
// joined with "; ".
func (v AnswerValue) String() string {
	if v.IsList {
		return strings.Join(v.List, "; ")
	}
	return v.Scalar
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	if v.IsList {
		return json.Marshal(v.List)
	}
	return json.Marshal(v.Scalar)
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		v.IsList = true
		v.Scalar = ""
		return json.Unmarshal(data, &v.List)
	}
	v.IsList = false
	v.List = nil
	return json.Unmarshal(data, &v.Scalar)
}

type Answer struct {
	QuestionID string      `json:"questionId"`
	Answer     AnswerValue `json:"answer"`
}

type ResponseMetadata struct {
	UserAgent            string `json:"userAgent,omitempty"`
	SourceAddress        string `json:"sourceAddress,omitempty"`
	SubmissionDurationMs int64  `json:"submissionDurationMs,omitempty"`
}

type Response struct {
	ID          string           `json:"id"`
	FormID      string           `json:"formId"`
	Answers     []Answer         `json:"answers"`
	Metadata    ResponseMetadata `json:"metadata"`
	SubmittedAt time.Time        `json:"submittedAt"`
}

// AnswerTo finds the response's answer matching a question, if any.
func (r Response) AnswerTo(questionID string) (AnswerValue, bool) {
	for _, a := range r.Answers {
		if a.QuestionID == questionID {
			return a.Answer, true
		}
	}
	return AnswerValue{}, false
}

// FieldError is a single field-level validation problem. One request can
// report several at once.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	BusinessName string    `json:"businessName"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"createdAt"`
}
