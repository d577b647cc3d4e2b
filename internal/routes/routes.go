// Package routes selects the reachable pages from the session state.
//
// There are two tables. The public table holds the sign-in pages and sends
// everything else to /login. The protected table holds the dashboard and
// record pages, sends /login and /signup back to /, and reports anything
// else as not found. Only the selected table is consulted; pages reachable in
// both states are listed in both.
package routes

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"taskdeck/internal/config"
)

// Page identifies a screen.
type Page string

// Pages.
const (
	Login          Page = "login"
	PhoneLogin     Page = "phone-login"
	VerifyOTP      Page = "verify-otp"
	Signup         Page = "signup"
	ForgotPassword Page = "forgot-password"
	ResetPassword  Page = "reset-password"
	About          Page = "about"
	Dashboard      Page = "dashboard"
	Todos          Page = "todos"
	TodoCreate     Page = "todo-create"
	TodoUpdate     Page = "todo-update"
	TodoDelete     Page = "todo-delete"
	Tasks          Page = "tasks"
	TaskAdd        Page = "task-add"
	TaskEdit       Page = "task-edit"
	TaskDelete     Page = "task-delete"
	TaskComments   Page = "task-comments"
	Settings       Page = "settings"
)

// Paths.
const (
	LoginPath  = "/login"
	SignupPath = "/signup"
	HomePath   = "/"
)

// AuthModeOTP is the auth_mode query value that selects phone login.
const AuthModeOTP = "otp"

// Kind is the outcome of resolving a path.
type Kind int

// Kinds.
const (
	KindPage Kind = iota
	KindRedirect
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindPage:
		return "page"
	case KindRedirect:
		return "redirect"
	case KindNotFound:
		return "not found"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Match is a resolved path.
type Match struct {
	Kind Kind

	// Page is set for KindPage.
	Page Page

	// RedirectTo is set for KindRedirect.
	RedirectTo string

	// Params holds the path variables, such as "id".
	Params map[string]string

	// Protected reports that the page needs a mounted session: it was matched
	// in the protected table and is not also a public page.
	Protected bool
}

// Selector holds both route tables for one authentication mechanism.
type Selector struct {
	mechanism string
	public    *mux.Router
	protected *mux.Router
}

// NewSelector builds the tables for mechanism, one of
// config.EmailBasedAuthentication or config.PhoneNumberBasedAuthentication.
func NewSelector(mechanism string) *Selector {
	if mechanism == "" {
		mechanism = config.EmailBasedAuthentication
	}
	return &Selector{
		mechanism: mechanism,
		public:    publicTable(mechanism),
		protected: protectedTable(),
	}
}

func publicTable(mechanism string) *mux.Router {
	r := mux.NewRouter()
	if mechanism == config.PhoneNumberBasedAuthentication {
		r.Path(LoginPath).Name(string(PhoneLogin))
		r.Path("/verify-otp").Name(string(VerifyOTP))
	} else {
		r.Path(LoginPath).Queries("auth_mode", AuthModeOTP).Name(string(PhoneLogin))
		r.Path(LoginPath).Name(string(Login))
		r.Path(SignupPath).Name(string(Signup))
	}
	r.Path("/forgot-password").Name(string(ForgotPassword))
	r.Path("/account/{accountId}/reset_password").Name(string(ResetPassword))
	r.Path("/about").Name(string(About))
	return r
}

func protectedTable() *mux.Router {
	r := mux.NewRouter()
	r.Path(HomePath).Name(string(Dashboard))
	r.Path("/todos").Name(string(Todos))
	r.Path("/todos/create").Name(string(TodoCreate))
	r.Path("/todos/{id}/update").Name(string(TodoUpdate))
	r.Path("/todos/{id}/delete").Name(string(TodoDelete))
	r.Path("/tasks").Name(string(Tasks))
	r.Path("/tasks/add").Name(string(TaskAdd))
	r.Path("/tasks/{id}/edit").Name(string(TaskEdit))
	r.Path("/tasks/{id}/delete").Name(string(TaskDelete))
	r.Path("/tasks/{id}/comments").Name(string(TaskComments))
	r.Path("/settings").Name(string(Settings))
	r.Path("/about").Name(string(About))
	return r
}

// Mechanism returns the configured authentication mechanism.
func (s *Selector) Mechanism() string {
	return s.mechanism
}

// Resolve matches target, a path with an optional query, against the table
// selected by authenticated.
func (s *Selector) Resolve(authenticated bool, target string) Match {
	u, err := url.Parse(target)
	if err != nil || u.Path == "" {
		u = &url.URL{Path: HomePath}
	}

	if authenticated {
		if u.Path == LoginPath || u.Path == SignupPath {
			return Match{Kind: KindRedirect, RedirectTo: HomePath, Protected: true}
		}
		if page, vars, ok := match(s.protected, u); ok {
			shared := s.public.Get(string(page)) != nil
			return Match{Kind: KindPage, Page: page, Params: vars, Protected: !shared}
		}
		return Match{Kind: KindNotFound, Protected: true}
	}

	if page, vars, ok := match(s.public, u); ok {
		return Match{Kind: KindPage, Page: page, Params: vars}
	}
	return Match{Kind: KindRedirect, RedirectTo: LoginPath}
}

// Reachable reports whether page can be reached in the given state.
func (s *Selector) Reachable(authenticated bool, page Page) bool {
	table := s.public
	if authenticated {
		table = s.protected
	}
	return table.Get(string(page)) != nil
}

// URL builds the path of page from key/value pairs, for example
// URL(TodoUpdate, "id", "42") returns "/todos/42/update".
func (s *Selector) URL(page Page, pairs ...string) (string, error) {
	for _, table := range []*mux.Router{s.protected, s.public} {
		route := table.Get(string(page))
		if route == nil {
			continue
		}
		u, err := route.URLPath(pairs...)
		if err != nil {
			return "", err
		}
		return u.Path, nil
	}
	return "", fmt.Errorf("unknown page: %s", page)
}

func match(table *mux.Router, u *url.URL) (Page, map[string]string, bool) {
	req := &http.Request{Method: http.MethodGet, URL: u}
	var rm mux.RouteMatch
	if !table.Match(req, &rm) || rm.MatchErr != nil || rm.Route == nil {
		return "", nil, false
	}
	return Page(rm.Route.GetName()), rm.Vars, true
}
