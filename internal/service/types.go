// Package service defines the backend-agnostic types and interfaces for
// account, auth, task, todo and comment operations.
package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"taskdeck/internal/session"
)

// Kind classifies tasks and todos.
type Kind string

// Kinds accepted by the API.
const (
	KindOfficial Kind = "Official"
	KindPersonal Kind = "Personal"
	KindHobby    Kind = "Hobby"
)

// Kinds lists the accepted kinds in display order.
var Kinds = []Kind{KindOfficial, KindPersonal, KindHobby}

// TodoStatus is the todo completion state.
type TodoStatus string

// Todo statuses.
const (
	StatusToDo TodoStatus = "To Do"
	StatusDone TodoStatus = "Done"
)

// DateLayout is the wire layout for due dates.
const DateLayout = "2006-01-02"

// Date is a calendar day. It accepts both "2006-01-02" and full timestamps on
// the wire and always writes the day form.
type Date struct {
	time.Time
}

// ParseDate parses a "2006-01-02" day.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date: %s", s)
	}
	return Date{t}, nil
}

// String returns the day form, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// MarshalYAML implements yaml.Marshaler.
func (d Date) MarshalYAML() (any, error) {
	return d.String(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		if string(data) == "null" {
			*d = Date{}
			return nil
		}
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*d = Date{}
		return nil
	}
	for _, layout := range []string{DateLayout, time.RFC3339, "2006-01-02T15:04:05.999999", "Mon, 02 Jan 2006 15:04:05 GMT"} {
		if t, err := time.Parse(layout, s); err == nil {
			*d = Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
			return nil
		}
	}
	return fmt.Errorf("invalid date: %s", s)
}

// AccessToken is the login response; it becomes the session credential.
type AccessToken = session.Credential

// PhoneNumber is a phone number split into country code and number.
type PhoneNumber struct {
	CountryCode string `json:"country_code" yaml:"country_code"`
	PhoneNumber string `json:"phone_number" yaml:"phone_number"`
}

// String returns the display form, "+1 5551234567".
func (p PhoneNumber) String() string {
	return p.CountryCode + " " + p.PhoneNumber
}

// Account is the authenticated user.
type Account struct {
	ID          string       `json:"id" yaml:"id"`
	FirstName   string       `json:"first_name" yaml:"first_name"`
	LastName    string       `json:"last_name" yaml:"last_name"`
	Username    string       `json:"username" yaml:"username"`
	PhoneNumber *PhoneNumber `json:"phone_number,omitempty" yaml:"phone_number,omitempty"`
}

// DisplayName returns "First Last", falling back to the username or phone.
func (a Account) DisplayName() string {
	name := strings.TrimSpace(a.FirstName + " " + a.LastName)
	if name != "" {
		return name
	}
	if a.Username != "" {
		return a.Username
	}
	if a.PhoneNumber != nil {
		return a.PhoneNumber.String()
	}
	return a.ID
}

// Todo is a todo record.
type Todo struct {
	ID          string     `json:"id" yaml:"id"`
	AccountID   string     `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Type        Kind       `json:"type" yaml:"type"`
	DueDate     Date       `json:"due_date" yaml:"due_date"`
	Status      TodoStatus `json:"status" yaml:"status"`
	CreatedAt   *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// Done reports whether the todo is completed.
func (t Todo) Done() bool {
	return t.Status == StatusDone
}

// TodoInput is the create payload.
type TodoInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        Kind   `json:"type"`
	DueDate     Date   `json:"due_date"`
}

// TodoUpdate is the partial update payload; nil fields are left unchanged.
type TodoUpdate struct {
	ID          string      `json:"-"`
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Type        *Kind       `json:"type,omitempty"`
	DueDate     *Date       `json:"due_date,omitempty"`
	Status      *TodoStatus `json:"status,omitempty"`
}

// TodoFilter narrows GetTodos.
type TodoFilter struct {
	Status  TodoStatus
	Overdue bool
	Limit   int
}

// Task is a task record.
type Task struct {
	ID          string `json:"id" yaml:"id"`
	AccountID   string `json:"account_id,omitempty" yaml:"account_id,omitempty"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Type        Kind   `json:"type,omitempty" yaml:"type,omitempty"`
	DueDate     Date   `json:"due_date,omitempty" yaml:"due_date,omitempty"`
}

// TaskInput is the add/edit payload. ID is only used by edit.
type TaskInput struct {
	ID          string `json:"-"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        Kind   `json:"type,omitempty"`
	DueDate     Date   `json:"due_date,omitempty"`
}

// Comment is a comment on a task.
type Comment struct {
	ID        string `json:"id" yaml:"id"`
	TaskID    string `json:"task_id" yaml:"task_id"`
	AccountID string `json:"account_id,omitempty" yaml:"account_id,omitempty"`
	Comment   string `json:"comment" yaml:"comment"`
}

// CommentInput is the create payload.
type CommentInput struct {
	TaskID  string `json:"task_id"`
	Comment string `json:"comment"`
}

// SignupInput is the email/password signup payload.
type SignupInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

// Credentials is the email/password login payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// OTPVerification is the phone login payload.
type OTPVerification struct {
	PhoneNumber PhoneNumber `json:"phone_number"`
	OTPCode     string      `json:"otp_code"`
}

// PasswordReset is the reset-password payload.
type PasswordReset struct {
	AccountID   string `json:"-"`
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// PasswordResetToken is returned when a reset link is requested.
type PasswordResetToken struct {
	ID        string `json:"id"`
	Account   string `json:"account"`
	ExpiresAt string `json:"expires_at"`
	IsExpired bool   `json:"is_expired"`
	IsUsed    bool   `json:"is_used"`
}
