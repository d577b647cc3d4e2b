// Package validate checks form input locally before any request is sent.
package validate

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"taskdeck/internal/service"
)

// Messages shown for failed fields.
const (
	TitleMessage         = "Please enter at least 5 characters long title"
	DescriptionMessage   = "Please enter at least 10 characters long description"
	TypeMessage          = "Please select a valid type"
	DueDateMessage       = "Please select a valid due date"
	PasswordMessage      = "Please enter at least 8 characters long password"
	PasswordMatchMessage = "The confirmed password doesn't match the chosen password."
	FirstNameMessage     = "Please specify your first name"
	LastNameMessage      = "Please specify your last name"
	EmailMessage         = "Please enter a valid email"
	PhoneMessage         = "Please enter a valid phone number"
	OTPMessage           = "Please enter the 4 digit code"
	CommentMessage       = "Please enter a comment"
	IDMessage            = "Please specify an id"
	TokenMessage         = "Please specify the reset token"
)

// messages maps the `message` tag of a form field to its text.
var messages = map[string]string{
	"title":         TitleMessage,
	"description":   DescriptionMessage,
	"type":          TypeMessage,
	"duedate":       DueDateMessage,
	"password":      PasswordMessage,
	"passwordmatch": PasswordMatchMessage,
	"firstname":     FirstNameMessage,
	"lastname":      LastNameMessage,
	"email":         EmailMessage,
	"phone":         PhoneMessage,
	"otp":           OTPMessage,
	"comment":       CommentMessage,
	"id":            IDMessage,
	"token":         TokenMessage,
}

// Error is the first failed field of a form.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsValidation reports whether err came from a form check.
func IsValidation(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

var (
	countryCodeRe = regexp.MustCompile(`^\+[0-9]{1,4}$`)
	phoneRe       = regexp.MustCompile(`^[0-9]{7,15}$`)

	// now is replaced in tests.
	now = time.Now

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("duedate", func(fl validator.FieldLevel) bool {
		d, err := service.ParseDate(fl.Field().String())
		if err != nil {
			return false
		}
		y, m, day := now().Date()
		today := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
		return !d.Before(today)
	})
	_ = v.RegisterValidation("countrycode", func(fl validator.FieldLevel) bool {
		return countryCodeRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	return v
}

// Struct validates form and returns an *Error for the first failed field.
// Each field's `message` tag names its entry in messages.
func Struct(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}
	fe := errs[0]
	return &Error{Field: strings.ToLower(fe.Field()), Message: message(form, fe)}
}

func message(form any, fe validator.FieldError) string {
	t := reflect.TypeOf(form)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if f, ok := t.FieldByName(fe.StructField()); ok {
		if msg, ok := messages[f.Tag.Get("message")]; ok {
			return msg
		}
	}
	return fe.Error()
}
