package validate

import (
	"reflect"
	"testing"
	"time"

	"taskdeck/internal/service"
)

func fixNow(t *testing.T, day string) {
	t.Helper()
	fixed, err := time.Parse("2006-01-02", day)
	if err != nil {
		t.Fatal(err)
	}
	old := now
	now = func() time.Time { return fixed.Add(15 * time.Hour) }
	t.Cleanup(func() { now = old })
}

func TestTodoForm(t *testing.T) {
	fixNow(t, "2030-06-15")

	valid := TodoForm{
		Title:       "Buy groceries",
		Description: "Milk, eggs and bread",
		Type:        "Personal",
		DueDate:     "2030-06-15",
	}

	tests := []struct {
		name    string
		mutate  func(*TodoForm)
		message string
	}{
		{"valid", func(*TodoForm) {}, ""},
		{"short title", func(f *TodoForm) { f.Title = "ab" }, TitleMessage},
		{"short description", func(f *TodoForm) { f.Description = "too short" }, DescriptionMessage},
		{"bad type", func(f *TodoForm) { f.Type = "Work" }, TypeMessage},
		{"missing due date", func(f *TodoForm) { f.DueDate = "" }, DueDateMessage},
		{"past due date", func(f *TodoForm) { f.DueDate = "2030-06-14" }, DueDateMessage},
		{"garbled due date", func(f *TodoForm) { f.DueDate = "tomorrow" }, DueDateMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			tt.mutate(&form)
			in, err := form.Input()
			if tt.message == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if in.Type != service.KindPersonal || in.DueDate.String() != form.DueDate {
					t.Errorf("unexpected input: %+v", in)
				}
				return
			}
			if !IsValidation(err) {
				t.Fatalf("expected a validation error, got %v", err)
			}
			if err.Error() != tt.message {
				t.Errorf("expected %q, got %q", tt.message, err.Error())
			}
		})
	}
}

func TestTodoUpdateForm(t *testing.T) {
	fixNow(t, "2030-06-15")

	short := "ab"
	if _, err := (TodoUpdateForm{ID: "1", Title: &short}).Update(); err == nil || err.Error() != TitleMessage {
		t.Errorf("expected %q, got %v", TitleMessage, err)
	}

	done := true
	up, err := TodoUpdateForm{ID: "1", Done: &done}.Update()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if up.Status == nil || *up.Status != service.StatusDone {
		t.Errorf("expected status Done, got %v", up.Status)
	}
	if up.Title != nil || up.Type != nil || up.DueDate != nil {
		t.Errorf("expected untouched fields to stay nil, got %+v", up)
	}

	if _, err := (TodoUpdateForm{}).Update(); err == nil || err.Error() != IDMessage {
		t.Errorf("expected %q, got %v", IDMessage, err)
	}
}

func TestTaskForm_OptionalFields(t *testing.T) {
	in, err := TaskForm{Title: "Write report", Description: "Quarterly numbers"}.Input()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Type != "" || !in.DueDate.IsZero() {
		t.Errorf("expected no type or due date, got %+v", in)
	}

	if _, err := (TaskForm{Title: "ab", Description: "Quarterly numbers"}).Input(); err == nil || err.Error() != TitleMessage {
		t.Errorf("expected %q, got %v", TitleMessage, err)
	}
}

func TestSignupForm(t *testing.T) {
	valid := SignupForm{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Username:        "ada@example.com",
		Password:        "password1",
		ConfirmPassword: "password1",
	}
	if _, err := valid.Input(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*SignupForm)
		message string
	}{
		{"no first name", func(f *SignupForm) { f.FirstName = "" }, FirstNameMessage},
		{"no last name", func(f *SignupForm) { f.LastName = "" }, LastNameMessage},
		{"bad email", func(f *SignupForm) { f.Username = "ada" }, EmailMessage},
		{"short password", func(f *SignupForm) { f.Password, f.ConfirmPassword = "short", "short" }, PasswordMessage},
		{"mismatch", func(f *SignupForm) { f.ConfirmPassword = "password2" }, PasswordMatchMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			tt.mutate(&form)
			_, err := form.Input()
			if err == nil || err.Error() != tt.message {
				t.Errorf("expected %q, got %v", tt.message, err)
			}
		})
	}
}

func TestPhoneAndOTPForms(t *testing.T) {
	if _, err := (PhoneForm{CountryCode: "+1", PhoneNumber: "5551234567"}).Phone(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, f := range []PhoneForm{
		{CountryCode: "1", PhoneNumber: "5551234567"},
		{CountryCode: "+1", PhoneNumber: "555-1234"},
		{CountryCode: "+1", PhoneNumber: "123"},
	} {
		if _, err := f.Phone(); err == nil || err.Error() != PhoneMessage {
			t.Errorf("%+v: expected %q, got %v", f, PhoneMessage, err)
		}
	}

	phone := PhoneForm{CountryCode: "+91", PhoneNumber: "9876543210"}
	v, err := OTPForm{PhoneForm: phone, Code: "1234"}.Verification()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.OTPCode != "1234" || v.PhoneNumber.CountryCode != "+91" {
		t.Errorf("unexpected verification: %+v", v)
	}
	for _, code := range []string{"123", "12345", "12a4"} {
		if _, err := (OTPForm{PhoneForm: phone, Code: code}).Verification(); err == nil || err.Error() != OTPMessage {
			t.Errorf("%q: expected %q, got %v", code, OTPMessage, err)
		}
	}
}

func TestResetPasswordForm(t *testing.T) {
	form := ResetPasswordForm{AccountID: "acc-1", Token: "tok", Password: "password1", ConfirmPassword: "password1"}
	in, err := form.Input()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.NewPassword != "password1" || in.AccountID != "acc-1" {
		t.Errorf("unexpected payload: %+v", in)
	}

	form.ConfirmPassword = "password2"
	if _, err := form.Input(); err == nil || err.Error() != PasswordMatchMessage {
		t.Errorf("expected %q, got %v", PasswordMatchMessage, err)
	}
}

func TestMessageTagsAreKnown(t *testing.T) {
	forms := []any{
		TodoForm{}, TodoUpdateForm{}, TaskForm{}, CommentForm{}, LoginForm{},
		SignupForm{}, PhoneForm{}, OTPForm{}, ForgotPasswordForm{}, ResetPasswordForm{},
	}
	for _, form := range forms {
		typ := reflect.TypeOf(form)
		for i := 0; i < typ.NumField(); i++ {
			f := typ.Field(i)
			if f.Tag.Get("validate") == "" {
				continue
			}
			if _, ok := messages[f.Tag.Get("message")]; !ok {
				t.Errorf("%s.%s: unknown message tag %q", typ.Name(), f.Name, f.Tag.Get("message"))
			}
		}
	}
}

func TestCommentAndResetMessages(t *testing.T) {
	if _, err := (CommentForm{TaskID: "task-1"}).Input(); err == nil || err.Error() != CommentMessage {
		t.Errorf("expected %q, got %v", CommentMessage, err)
	}
	form := ResetPasswordForm{AccountID: "acc-1", Password: "password1", ConfirmPassword: "password1"}
	if _, err := form.Input(); err == nil || err.Error() != TokenMessage {
		t.Errorf("expected %q, got %v", TokenMessage, err)
	}
}
