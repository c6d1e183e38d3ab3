package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/finreport/internal/validation"
)

// prompter reads free-text answers for values not given as flags.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{
		in:  bufio.NewReader(cmd.InOrStdin()),
		out: cmd.OutOrStdout(),
	}
}

// value returns the flag value when the flag was set, otherwise the answer
// to question. A closed input yields an empty answer.
func (p *prompter) value(cmd *cobra.Command, flag, question string) (string, error) {
	if cmd.Flags().Changed(flag) {
		v, err := cmd.Flags().GetString(flag)
		return strings.TrimSpace(v), err
	}

	fmt.Fprint(p.out, question+" ")
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read %s: %w", flag, err)
	}
	return strings.TrimSpace(line), nil
}

// =============================================================================
// BOUNDARY VALIDATION
// =============================================================================

// inputErrors collects the problems found in user input.
type inputErrors []*validation.ValidationError

func (e *inputErrors) add(verr *validation.ValidationError) {
	if verr != nil {
		*e = append(*e, verr)
	}
}

func (e inputErrors) err() error {
	if len(e) == 0 {
		return nil
	}
	return errors.New(strings.TrimSpace(validation.FormatErrors(e)))
}

// text requires a non-empty value.
func (e *inputErrors) text(field, value string) string {
	v, verr := validation.RequireText(field, value)
	e.add(verr)
	return v
}

// date requires a calendar date.
func (e *inputErrors) date(field, value string) civil.Date {
	d, verr := validation.ParseDate(field, value)
	e.add(verr)
	return d
}

// optionalDate accepts an empty value as the zero date.
func (e *inputErrors) optionalDate(field, value string) civil.Date {
	if value == "" {
		return civil.Date{}
	}
	return e.date(field, value)
}

// optionalTimestamp accepts an empty value as the zero time.
func (e *inputErrors) optionalTimestamp(field, value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, verr := validation.ParseTimestamp(field, value, time.Local)
	e.add(verr)
	return t
}
