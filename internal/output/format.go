// Package output provides formatters for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"taskdeck/internal/service"
)

// Format selects how records are printed.
type Format string

// Formats.
const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat parses a --format value. Empty means Text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", Text:
		return Text, nil
	case JSON, YAML:
		return f, nil
	}
	return "", fmt.Errorf("invalid format: %s (want text, json or yaml)", s)
}

// Printer writes records to w in one format. Text styling is only emitted
// when w is a terminal.
type Printer struct {
	w      io.Writer
	format Format
	header lipgloss.Style
	faint  lipgloss.Style
}

// NewPrinter creates a Printer.
func NewPrinter(w io.Writer, format Format) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:      w,
		format: format,
		header: r.NewStyle().Bold(true),
		faint:  r.NewStyle().Faint(true),
	}
}

// Todos prints a todo list.
func (p *Printer) Todos(todos []service.Todo) error {
	if p.format != Text {
		return p.encode(nonNil(todos))
	}
	if len(todos) == 0 {
		fmt.Fprintln(p.w, "no todos")
		return nil
	}
	p.Header("Todos")
	for i, t := range todos {
		FormatTodo(p.w, i+1, t)
	}
	return nil
}

// Todo prints a single todo.
func (p *Printer) Todo(todo service.Todo) error {
	if p.format != Text {
		return p.encode(todo)
	}
	FormatTodo(p.w, 1, todo)
	return nil
}

// Tasks prints a task list.
func (p *Printer) Tasks(tasks []service.Task) error {
	if p.format != Text {
		return p.encode(nonNil(tasks))
	}
	if len(tasks) == 0 {
		fmt.Fprintln(p.w, "no tasks")
		return nil
	}
	p.Header("Tasks")
	for i, t := range tasks {
		FormatTask(p.w, i+1, t)
	}
	return nil
}

// Comments prints the comments of a task.
func (p *Printer) Comments(comments []service.Comment) error {
	if p.format != Text {
		return p.encode(nonNil(comments))
	}
	if len(comments) == 0 {
		fmt.Fprintln(p.w, "no comments")
		return nil
	}
	for _, c := range comments {
		fmt.Fprintf(p.w, "- %s\n", normalizeText(c.Comment))
	}
	return nil
}

// Account prints account details.
func (p *Printer) Account(a service.Account) error {
	if p.format != Text {
		return p.encode(a)
	}
	p.Header(a.DisplayName())
	if a.Username != "" {
		fmt.Fprintf(p.w, "username: %s\n", a.Username)
	}
	if a.PhoneNumber != nil {
		fmt.Fprintf(p.w, "phone:    %s\n", a.PhoneNumber)
	}
	fmt.Fprintf(p.w, "id:       %s\n", a.ID)
	return nil
}

// Header prints a section header.
func (p *Printer) Header(title string) {
	fmt.Fprintln(p.w, p.header.Render(normalizeTitle(title)))
}

// Faint prints a de-emphasized line.
func (p *Printer) Faint(line string) {
	fmt.Fprintln(p.w, p.faint.Render(line))
}

func (p *Printer) encode(v any) error {
	switch p.format {
	case JSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case YAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("invalid format: %s", p.format)
}

// FormatTodo formats a todo line.
// Format: "{N:>4}  [x] {TITLE}  {TYPE}  due {DATE}  ({ID})\n"
func FormatTodo(w io.Writer, num int, todo service.Todo) {
	mark := " "
	if todo.Done() {
		mark = "x"
	}
	fmt.Fprintf(w, "%4d  [%s] %s%s  (%s)\n", num, mark, normalizeTitle(todo.Title), details(todo.Type, todo.DueDate), todo.ID)
}

// FormatTask formats a task line.
// Format: "{N:>4}  {TITLE}  {TYPE}  due {DATE}  ({ID})\n"
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s%s  (%s)\n", num, normalizeTitle(task.Title), details(task.Type, task.DueDate), task.ID)
}

func details(kind service.Kind, due service.Date) string {
	var b strings.Builder
	if kind != "" {
		b.WriteString("  ")
		b.WriteString(string(kind))
	}
	if !due.IsZero() {
		b.WriteString("  due ")
		b.WriteString(due.String())
	}
	return b.String()
}

// normalizeTitle normalizes a title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = normalizeText(title)
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
