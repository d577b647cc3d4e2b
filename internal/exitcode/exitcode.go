// Package exitcode defines exit codes for the CLI.
package exitcode

// Exit codes returned by the CLI.
const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, invalid form, rejected request).
	UserError = 1

	// AuthError indicates a missing, refused or expired session.
	AuthError = 2

	// BackendError indicates a backend/API/network error.
	BackendError = 3
)
