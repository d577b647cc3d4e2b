package commands

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"taskdeck/internal/apiclient"
	"taskdeck/internal/app"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/output"
	"taskdeck/internal/session"
	"taskdeck/internal/validate"
)

// idPlaceholder stands in for a missing positional id so the route still
// matches and the form reports the missing value.
const idPlaceholder = "_"

// fail prints err and maps it to an exit code. Validation failures and
// rejected requests are user errors. A refused credential or a failed mount
// is an auth error. Anything else is a backend error.
func fail(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: %s\n", err)

	if validate.IsValidation(err) {
		return exitcode.UserError
	}
	var mountErr *app.MountError
	if errors.As(err, &mountErr) || errors.Is(err, session.ErrNoSession) || apiclient.IsUnauthorized(err) {
		return exitcode.AuthError
	}
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
		return exitcode.UserError
	}
	return exitcode.BackendError
}

// done prints an informational line unless --quiet is set.
func done(cfg *config.Config, out io.Writer, message string) int {
	if !cfg.Quiet {
		fmt.Fprintln(out, message)
	}
	return exitcode.Success
}

// newPrinter parses --format and returns a printer for out.
func newPrinter(out, errOut io.Writer, format string) (*output.Printer, int) {
	f, err := output.ParseFormat(format)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return nil, exitcode.UserError
	}
	return output.NewPrinter(out, f), exitcode.Success
}

// withID fills the single %s of pattern with the first positional argument.
// An id that checkID rejects routes as the placeholder so the command can
// report it.
func withID(pattern string, args []string) string {
	id := idPlaceholder
	if len(args) > 0 && args[0] != "" && checkID(args[0]) == nil {
		id = url.PathEscape(args[0])
	}
	return fmt.Sprintf(pattern, id)
}

// checkID rejects ids that cannot be a single path segment.
func checkID(id string) error {
	if strings.Contains(id, "/") {
		return &validate.Error{Field: "id", Message: "invalid id: " + id}
	}
	return nil
}

// firstArg returns args[0] or "".
func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
