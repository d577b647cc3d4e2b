package validate

import (
	"taskdeck/internal/service"
)

// TodoForm is the create-todo form.
type TodoForm struct {
	Title       string `validate:"min=5" message:"title"`
	Description string `validate:"min=10" message:"description"`
	Type        string `validate:"oneof=Official Personal Hobby" message:"type"`
	DueDate     string `validate:"required,duedate" message:"duedate"`
}

// Input validates the form and converts it to a create payload.
func (f TodoForm) Input() (service.TodoInput, error) {
	if err := Struct(f); err != nil {
		return service.TodoInput{}, err
	}
	due, err := service.ParseDate(f.DueDate)
	if err != nil {
		return service.TodoInput{}, &Error{Field: "duedate", Message: DueDateMessage}
	}
	return service.TodoInput{
		Title:       f.Title,
		Description: f.Description,
		Type:        service.Kind(f.Type),
		DueDate:     due,
	}, nil
}

// TodoUpdateForm is the update-todo form. Nil fields are left unchanged.
type TodoUpdateForm struct {
	ID          string  `validate:"required" message:"id"`
	Title       *string `validate:"omitempty,min=5" message:"title"`
	Description *string `validate:"omitempty,min=10" message:"description"`
	Type        *string `validate:"omitempty,oneof=Official Personal Hobby" message:"type"`
	DueDate     *string `validate:"omitempty,duedate" message:"duedate"`
	Done        *bool
}

// Update validates the form and converts it to an update payload.
func (f TodoUpdateForm) Update() (service.TodoUpdate, error) {
	if err := Struct(f); err != nil {
		return service.TodoUpdate{}, err
	}
	up := service.TodoUpdate{ID: f.ID, Title: f.Title, Description: f.Description}
	if f.Type != nil {
		kind := service.Kind(*f.Type)
		up.Type = &kind
	}
	if f.DueDate != nil {
		due, err := service.ParseDate(*f.DueDate)
		if err != nil {
			return service.TodoUpdate{}, &Error{Field: "duedate", Message: DueDateMessage}
		}
		up.DueDate = &due
	}
	if f.Done != nil {
		status := service.StatusToDo
		if *f.Done {
			status = service.StatusDone
		}
		up.Status = &status
	}
	return up, nil
}

// TaskForm is the add/edit-task form. Type and due date are optional.
type TaskForm struct {
	ID          string
	Title       string `validate:"min=5" message:"title"`
	Description string `validate:"min=10" message:"description"`
	Type        string `validate:"omitempty,oneof=Official Personal Hobby" message:"type"`
	DueDate     string `validate:"omitempty,duedate" message:"duedate"`
}

// Input validates the form and converts it to a task payload.
func (f TaskForm) Input() (service.TaskInput, error) {
	if err := Struct(f); err != nil {
		return service.TaskInput{}, err
	}
	in := service.TaskInput{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		Type:        service.Kind(f.Type),
	}
	if f.DueDate != "" {
		due, err := service.ParseDate(f.DueDate)
		if err != nil {
			return service.TaskInput{}, &Error{Field: "duedate", Message: DueDateMessage}
		}
		in.DueDate = due
	}
	return in, nil
}

// CommentForm is the add-comment form.
type CommentForm struct {
	TaskID  string `validate:"required" message:"id"`
	Comment string `validate:"required" message:"comment"`
}

// Input validates the form and converts it to a comment payload.
func (f CommentForm) Input() (service.CommentInput, error) {
	if err := Struct(f); err != nil {
		return service.CommentInput{}, err
	}
	return service.CommentInput{TaskID: f.TaskID, Comment: f.Comment}, nil
}

// LoginForm is the email/password login form.
type LoginForm struct {
	Username string `validate:"required,email" message:"email"`
	Password string `validate:"min=8" message:"password"`
}

// Credentials validates the form and converts it to a login payload.
func (f LoginForm) Credentials() (service.Credentials, error) {
	if err := Struct(f); err != nil {
		return service.Credentials{}, err
	}
	return service.Credentials{Username: f.Username, Password: f.Password}, nil
}

// SignupForm is the email signup form.
type SignupForm struct {
	FirstName       string `validate:"min=1" message:"firstname"`
	LastName        string `validate:"min=1" message:"lastname"`
	Username        string `validate:"required,email" message:"email"`
	Password        string `validate:"min=8" message:"password"`
	ConfirmPassword string `validate:"eqfield=Password" message:"passwordmatch"`
}

// Input validates the form and converts it to a signup payload.
func (f SignupForm) Input() (service.SignupInput, error) {
	if err := Struct(f); err != nil {
		return service.SignupInput{}, err
	}
	return service.SignupInput{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Username:  f.Username,
		Password:  f.Password,
	}, nil
}

// PhoneForm is the phone-login form.
type PhoneForm struct {
	CountryCode string `validate:"countrycode" message:"phone"`
	PhoneNumber string `validate:"phone" message:"phone"`
}

// Phone validates the form and converts it to a phone number.
func (f PhoneForm) Phone() (service.PhoneNumber, error) {
	if err := Struct(f); err != nil {
		return service.PhoneNumber{}, err
	}
	return service.PhoneNumber{CountryCode: f.CountryCode, PhoneNumber: f.PhoneNumber}, nil
}

// OTPForm is the one-time code form.
type OTPForm struct {
	PhoneForm
	Code string `validate:"len=4,numeric" message:"otp"`
}

// Verification validates the form and converts it to a verify payload.
func (f OTPForm) Verification() (service.OTPVerification, error) {
	if err := Struct(f); err != nil {
		return service.OTPVerification{}, err
	}
	return service.OTPVerification{
		PhoneNumber: service.PhoneNumber{CountryCode: f.CountryCode, PhoneNumber: f.PhoneNumber},
		OTPCode:     f.Code,
	}, nil
}

// ForgotPasswordForm is the request-reset form.
type ForgotPasswordForm struct {
	Username string `validate:"required,email" message:"email"`
}

// Email validates the form and returns the username to send the link to.
func (f ForgotPasswordForm) Email() (string, error) {
	if err := Struct(f); err != nil {
		return "", err
	}
	return f.Username, nil
}

// ResetPasswordForm is the choose-new-password form.
type ResetPasswordForm struct {
	AccountID       string `validate:"required" message:"id"`
	Token           string `validate:"required" message:"token"`
	Password        string `validate:"min=8" message:"password"`
	ConfirmPassword string `validate:"eqfield=Password" message:"passwordmatch"`
}

// Input validates the form and converts it to a reset payload.
func (f ResetPasswordForm) Input() (service.PasswordReset, error) {
	if err := Struct(f); err != nil {
		return service.PasswordReset{}, err
	}
	return service.PasswordReset{AccountID: f.AccountID, Token: f.Token, NewPassword: f.Password}, nil
}
