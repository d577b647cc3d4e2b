package cli_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"taskdeck/internal/apiclient"
	"taskdeck/internal/app"
	"taskdeck/internal/cli"
	"taskdeck/internal/commands"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
	"taskdeck/internal/session"
	"taskdeck/internal/testutil"
	"taskdeck/internal/validate"
)

type harness struct {
	dispatcher *cli.Dispatcher
	store      *session.Store
	dir        string
}

// newHarness creates a dispatcher whose apps share one in-memory session
// store and the given FakeService.
func newHarness(t *testing.T, svc *testutil.FakeService) *harness {
	t.Helper()
	store := session.NewStore(session.NewMemoryStorage(), config.SessionKey, nil)
	factory := func(ctx context.Context, cfg *config.Config) (*app.App, error) {
		return app.NewWithServices(cfg, store, svc.Services()), nil
	}
	return &harness{
		dispatcher: cli.NewDispatcher(commands.DefaultRegistry, factory),
		store:      store,
		dir:        t.TempDir(),
	}
}

// run dispatches name with --config pointing at the harness directory.
func (h *harness) run(name string, args ...string) (stdout, stderr string, code int) {
	var outBuf, errBuf bytes.Buffer
	argv := append([]string{name, "--config", h.dir}, args...)
	code = h.dispatcher.Run(context.Background(), argv, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	if _, stderr, code := h.run("login", "--username", "ada@example.com", "--password", "password1"); code != exitcode.Success {
		t.Fatalf("login failed with %d: %s", code, stderr)
	}
}

func seededService() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.AddAccount(service.Account{FirstName: "Ada", LastName: "Lovelace", Username: "ada@example.com"})
	return svc
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"unknowncmd"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"--quiet"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	h := newHarness(t, testutil.NewFakeService())

	stdout, stderr, code := h.run("help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	h := newHarness(t, testutil.NewFakeService())

	stdout, stderr, code := h.run("version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "taskdeck 0.1.0\n" {
		t.Errorf("expected 'taskdeck 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	h := newHarness(t, testutil.NewFakeService())

	_, stderr, code := h.run("help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_NoArgsNotLoggedIn(t *testing.T) {
	svc := testutil.NewFakeService()
	h := newHarness(t, svc)

	var stdout, stderr bytes.Buffer
	code := h.dispatcher.Run(context.Background(), nil, &stdout, &stderr)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	expected := "error: not logged in (run: taskdeck login)\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
	if svc.Calls != 0 {
		t.Errorf("expected no service calls, got %d", svc.Calls)
	}
}

func TestDispatcher_LoginThenTodos(t *testing.T) {
	svc := seededService()
	svc.AddTodo(service.Todo{ID: "todo-a", Title: "Buy groceries", Type: service.KindPersonal, Status: service.StatusToDo})
	h := newHarness(t, svc)

	stdout, stderr, code := h.run("login", "--username", "ada@example.com", "--password", "password1")
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected %q, got %q", "ok\n", stdout)
	}
	if !h.store.IsAuthenticated(context.Background()) {
		t.Fatal("expected the access token to be stored")
	}

	stdout, stderr, code = h.run("todos")
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	expected := "Todos\n   1  [ ] Buy groceries  Personal  (todo-a)\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestDispatcher_LoginWhenLoggedIn(t *testing.T) {
	svc := seededService()
	h := newHarness(t, svc)
	h.login(t)
	calls := svc.Calls

	stdout, _, code := h.run("login", "--username", "ada@example.com", "--password", "password1")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "already logged in\n" {
		t.Errorf("expected %q, got %q", "already logged in\n", stdout)
	}
	if svc.Calls != calls {
		t.Errorf("expected no service calls, got %d", svc.Calls-calls)
	}
}

func TestDispatcher_PublicPageWhenLoggedIn(t *testing.T) {
	h := newHarness(t, seededService())
	h.login(t)

	_, stderr, code := h.run("forgot-password", "ada@example.com")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: forgot-password is not available while logged in (run: taskdeck logout)\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_SlashInID(t *testing.T) {
	h := newHarness(t, seededService())
	h.login(t)

	_, stderr, code := h.run("task-edit", "--title", "Write the report", "a/b")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid id: a/b\n" {
		t.Errorf("expected %q, got %q", "error: invalid id: a/b\n", stderr)
	}
}

func TestDispatcher_AboutInBothStates(t *testing.T) {
	h := newHarness(t, seededService())

	if _, stderr, code := h.run("about"); code != exitcode.Success {
		t.Errorf("expected about before login, got %d (%s)", code, stderr)
	}
	h.login(t)
	if _, stderr, code := h.run("about"); code != exitcode.Success {
		t.Errorf("expected about after login, got %d (%s)", code, stderr)
	}
}

func TestDispatcher_AboutSkipsAccountFetch(t *testing.T) {
	svc := seededService()
	h := newHarness(t, svc)
	h.login(t)

	svc.GetAccountErr = errors.New("connection refused")
	calls := svc.Calls
	stdout, stderr, code := h.run("about")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if !strings.HasPrefix(stdout, "taskdeck ") {
		t.Errorf("expected about output, got %q", stdout)
	}
	if svc.Calls != calls {
		t.Errorf("expected no service calls, got %d", svc.Calls-calls)
	}
	if !h.store.IsAuthenticated(context.Background()) {
		t.Error("expected the session to be kept")
	}
}

func TestDispatcher_MountFailureLogsOut(t *testing.T) {
	svc := seededService()
	h := newHarness(t, svc)
	h.login(t)

	svc.GetAccountErr = &apiclient.APIError{Status: 401, Code: "ACCESS_TOKEN_ERR_02", Message: "Access token has expired."}
	stdout, stderr, code := h.run("tasks")

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	expected := "error: session ended: Access token has expired.\nlogged out (run: taskdeck login)\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
	if h.store.IsAuthenticated(context.Background()) {
		t.Error("expected the session to be removed")
	}
}

func TestDispatcher_ValidationSendsNothing(t *testing.T) {
	svc := seededService()
	h := newHarness(t, svc)
	h.login(t)

	_, stderr, code := h.run("todo-add", "--description", "Milk, eggs and bread", "--type", "Personal", "--due", "2999-01-01", "ab")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: "+validate.TitleMessage+"\n" {
		t.Errorf("expected the title message, got %q", stderr)
	}
	if len(svc.Todos()) != 0 {
		t.Errorf("expected no todo to be created, got %d", len(svc.Todos()))
	}
}

func TestDispatcher_PhoneMechanism(t *testing.T) {
	t.Setenv("TASKDECK_AUTH_MECHANISM", config.PhoneNumberBasedAuthentication)
	h := newHarness(t, testutil.NewFakeService())

	_, stderr, code := h.run("signup", "--first-name", "Ada", "--last-name", "Lovelace", "--username", "ada@example.com", "--password", "password1")
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: signup is not available with " + config.PhoneNumberBasedAuthentication + " (run: taskdeck login)\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}

	stdout, stderr, code := h.run("login", "--country-code", "+1", "--phone", "5551234567")
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if !strings.Contains(stdout, "OTP has been sent successfully.") || !strings.Contains(stdout, "taskdeck verify-otp") {
		t.Errorf("unexpected output: %q", stdout)
	}

	if _, stderr, code := h.run("verify-otp", "--country-code", "+1", "--phone", "5551234567", "--code", "0000"); code != exitcode.BackendError {
		t.Errorf("expected a wrong code to fail with %d, got %d (%s)", exitcode.BackendError, code, stderr)
	}

	if _, stderr, code := h.run("verify-otp", "--country-code", "+1", "--phone", "5551234567", "--code", testutil.OTPCode); code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}

	stdout, stderr, code = h.run("whoami")
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if !strings.Contains(stdout, "phone:    +1 5551234567") {
		t.Errorf("unexpected output: %q", stdout)
	}
}

func TestDispatcher_OTPModeWithEmailMechanism(t *testing.T) {
	h := newHarness(t, testutil.NewFakeService())

	stdout, stderr, code := h.run("login", "--otp", "--country-code", "+1", "--phone", "5551234567")
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if !strings.Contains(stdout, "taskdeck login --otp") {
		t.Errorf("expected the hint to reuse login --otp, got %q", stdout)
	}

	_, stderr, code = h.run("login", "--otp", "--country-code", "+1", "--phone", "5551234567", "--code", testutil.OTPCode)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if !h.store.IsAuthenticated(context.Background()) {
		t.Error("expected the access token to be stored")
	}
}

func TestDispatcher_Quiet(t *testing.T) {
	h := newHarness(t, seededService())

	stdout, _, code := h.run("login", "--quiet", "--username", "ada@example.com", "--password", "password1")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
}
