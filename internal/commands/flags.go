package commands

import (
	"strconv"
	"strings"

	"taskdeck/internal/service"
)

// optString is a string flag that records whether it was given.
type optString struct {
	value string
	set   bool
}

func (o *optString) String() string { return o.value }

func (o *optString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

// ptr returns nil when the flag was not given.
func (o *optString) ptr() *string {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}

// or returns the flag value when given, otherwise fallback.
func (o *optString) or(fallback string) string {
	if !o.set {
		return fallback
	}
	return o.value
}

// optBool is a boolean flag that records whether it was given.
type optBool struct {
	value bool
	set   bool
}

func (o *optBool) String() string   { return strconv.FormatBool(o.value) }
func (o *optBool) IsBoolFlag() bool { return true }

func (o *optBool) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	o.value = v
	o.set = true
	return nil
}

func (o *optBool) ptr() *bool {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}

// parseStatus accepts "todo", "to do", "open" and "done" in any case.
func parseStatus(s string) (service.TodoStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", true
	case "todo", "to do", "open":
		return service.StatusToDo, true
	case "done":
		return service.StatusDone, true
	}
	return "", false
}
