package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxBatchQuantity bounds how many questions a single batch request may ask for.
const MaxBatchQuantity = 100

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError names the field and the constraint it violated.
type ValidationError struct {
	Field      string
	Constraint string
	Message    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Field, e.Message, e.Constraint)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Theme is the subject used to generate questions.
type Theme struct {
	Theme string `json:"theme" validate:"min=1,max=20"`
}

// QuestionBatch asks for several questions on one theme.
type QuestionBatch struct {
	Theme    string `json:"theme" validate:"min=1,max=20"`
	Quantity int    `json:"quantity" validate:"gt=1,maxbatch"`
}

// Question is a single generated or user-supplied question.
type Question struct {
	Question string `json:"question" validate:"min=5"`
}

// Answer is the user's free-text reply to a question.
type Answer struct {
	Answer string `json:"answer" validate:"min=1"`
}

// Assessment is the provider's grade of an answer.
type Assessment struct {
	Feedback string `json:"feedback"`
	Score    string `json:"score"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("maxbatch", func(fl validator.FieldLevel) bool {
		return fl.Field().Int() <= MaxBatchQuantity
	})
	return v
}

// NewTheme trims raw and validates it as a theme.
func NewTheme(raw string) (Theme, error) {
	t := Theme{Theme: strings.TrimSpace(raw)}
	if err := check(t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// NewQuestionBatch trims the theme and validates theme and quantity.
func NewQuestionBatch(theme string, quantity int) (QuestionBatch, error) {
	b := QuestionBatch{Theme: strings.TrimSpace(theme), Quantity: quantity}
	if err := check(b); err != nil {
		return QuestionBatch{}, err
	}
	return b, nil
}

// NewQuestion trims raw and requires at least 5 characters.
func NewQuestion(raw string) (Question, error) {
	q := Question{Question: strings.TrimSpace(raw)}
	if err := check(q); err != nil {
		return Question{}, err
	}
	return q, nil
}

// NewAnswer trims raw and requires it to be non-empty.
func NewAnswer(raw string) (Answer, error) {
	a := Answer{Answer: strings.TrimSpace(raw)}
	if err := check(a); err != nil {
		return Answer{}, err
	}
	return a, nil
}

// NewAssessment trims both fields. It has no length constraints.
func NewAssessment(feedback, score string) Assessment {
	return Assessment{
		Feedback: strings.TrimSpace(feedback),
		Score:    strings.TrimSpace(score),
	}
}

func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Field: "body", Constraint: "invalid", Message: err.Error()}
	}
	fe := fieldErrs[0]
	return &ValidationError{
		Field:      fe.Field(),
		Constraint: constraint(fe),
		Message:    message(fe),
	}
}

func constraint(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

func message(fe validator.FieldError) string {
	switch fe.Field() {
	case "theme":
		if fe.Tag() == "max" {
			return "O tema deve ter no máximo " + fe.Param() + " caracteres."
		}
		return "O tema não pode ser vazio."
	case "quantity":
		if fe.Tag() == "maxbatch" {
			return "A quantidade deve ser no máximo " + strconv.Itoa(MaxBatchQuantity) + "."
		}
		return "A quantidade deve ser maior que 1."
	case "question":
		if strings.TrimSpace(fmt.Sprint(fe.Value())) == "" {
			return "A questão não pode ser vazia."
		}
		return "A questão deve ter ao menos " + fe.Param() + " caracteres."
	case "answer":
		return "A resposta não pode ser vazia."
	default:
		return fe.Error()
	}
}
