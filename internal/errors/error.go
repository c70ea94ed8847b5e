package errors

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/vango-dev/nanohtml/pkg/nano"
)

// Category represents the type of error.
type Category string

const (
	CategoryEncode  Category = "encode"
	CategoryDecode  Category = "decode"
	CategorySource  Category = "source"
	CategoryConfig  Category = "config"
	CategoryPublish Category = "publish"
	CategoryServer  Category = "server"
	CategoryCLI     Category = "cli"
)

// Location represents a position in a source file.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// NanoError is a structured error with a code, source location and hint.
type NanoError struct {
	// Code is a unique error identifier (e.g., "N001").
	Code string

	// Category is the error type (encode, source, config, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the source location where the error occurred.
	Location *Location

	// Context contains surrounding source lines.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example shows the correct approach.
	Example string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *NanoError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *NanoError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds a source location to the error.
func (e *NanoError) WithLocation(file string, line, column int) *NanoError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// WithLocationFromError takes the location from a nano syntax error found
// in file. Other errors leave e unchanged.
func (e *NanoError) WithLocationFromError(file string, err error) *NanoError {
	var se *nano.SyntaxError
	if file == "" || !stderrors.As(err, &se) {
		return e
	}
	return e.WithLocation(file, se.Line, se.Column)
}

// WithSuggestion adds a fix suggestion to the error.
func (e *NanoError) WithSuggestion(s string) *NanoError {
	e.Suggestion = s
	return e
}

// WithExample adds an example to the error.
func (e *NanoError) WithExample(ex string) *NanoError {
	e.Example = ex
	return e
}

// WithDetail replaces the detailed explanation of the error.
func (e *NanoError) WithDetail(d string) *NanoError {
	e.Detail = d
	return e
}

// WithContext adds custom context lines to the error.
func (e *NanoError) WithContext(lines []string) *NanoError {
	e.Context = lines
	return e
}

// Wrap wraps another error.
func (e *NanoError) Wrap(err error) *NanoError {
	e.Wrapped = err
	return e
}

// readContextLines reads lines around the specified line number from a file.
func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates a NanoError from a registered error code.
func New(code string) *NanoError {
	template, ok := registry[code]
	if !ok {
		return &NanoError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &NanoError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new NanoError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *NanoError {
	return &NanoError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a NanoError.
// Errors that already are NanoErrors are returned unchanged.
func FromError(err error, code string) *NanoError {
	if err == nil {
		return nil
	}
	var ne *NanoError
	if stderrors.As(err, &ne) {
		return ne
	}
	return New(code).Wrap(err)
}

// Is reports whether err is a NanoError with the given code.
func Is(err error, code string) bool {
	var ne *NanoError
	return stderrors.As(err, &ne) && ne.Code == code
}
