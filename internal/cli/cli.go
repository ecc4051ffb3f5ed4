// Package cli implements the interactive numbered menu.
//
// Every malformed answer prints a message and returns to the menu.
// Canceling the session context ends it even while it waits at a prompt.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tejusbharadwaj/ppistats/internal/models"
	"github.com/tejusbharadwaj/ppistats/internal/query"
	"github.com/tejusbharadwaj/ppistats/internal/selector"
	"github.com/tejusbharadwaj/ppistats/internal/store"
)

const (
	choiceSelect = iota + 1
	choiceAverage
	choiceExtremes
	choiceFilter
	choiceLatest
	choiceExit
)

const menu = `
1. Select series
2. Average value in a date range
3. Maximum and minimum values
4. Filter observations by value range
5. Latest N observations
6. Exit
`

// Selector loads a series by menu number
type Selector interface {
	Select(ctx context.Context, choice int) (models.LoadReport, error)
}

// Engine answers queries over the loaded series
type Engine interface {
	SeriesID() (string, error)
	AverageInRange(start, end string) (query.Average, error)
	FindExtremes() (query.Extremes, error)
	FilterByRange(minValue, maxValue float64) (iter.Seq[models.Observation], error)
	LatestEntries(n int) ([]models.Observation, error)
}

type CLI struct {
	in       *bufio.Scanner
	lines    chan string
	out      *errWriter
	selector Selector
	engine   Engine
	logger   logrus.FieldLogger
}

func New(in io.Reader, out io.Writer, sel Selector, engine Engine, logger logrus.FieldLogger) *CLI {
	return &CLI{
		in:       bufio.NewScanner(in),
		out:      &errWriter{w: out},
		selector: sel,
		engine:   engine,
		logger:   logger,
	}
}

// Run shows the menu until the user exits or input ends
func (c *CLI) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	c.lines = make(chan string)
	go c.readLines(done)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.printf("%s", menu)
		line, ok := c.prompt(ctx, "Enter choice: ")
		if !ok {
			if err := ctx.Err(); err != nil {
				return err
			}
			return c.finish()
		}

		choice, err := strconv.Atoi(line)
		if err != nil {
			c.println("Please enter a number between 1 and 6.")
			continue
		}

		switch choice {
		case choiceSelect:
			c.selectSeries(ctx)
		case choiceAverage:
			c.average(ctx)
		case choiceExtremes:
			c.extremes()
		case choiceFilter:
			c.filter(ctx)
		case choiceLatest:
			c.latest(ctx)
		case choiceExit:
			c.println("Goodbye.")
			return c.out.err
		default:
			c.println("Please enter a number between 1 and 6.")
		}

		if c.out.err != nil {
			return c.out.err
		}
	}
}

func (c *CLI) selectSeries(ctx context.Context) {
	c.println("Available series:")
	for _, o := range selector.Options() {
		c.printf("  %d. %s (%s)\n", o.Choice, o.Title, o.SeriesID)
	}

	line, ok := c.prompt(ctx, "Enter series number: ")
	if !ok {
		return
	}
	choice, err := strconv.Atoi(line)
	if err != nil {
		c.println("Invalid selection.")
		return
	}

	c.println("Fetching data...")
	report, err := c.selector.Select(ctx, choice)
	if err != nil {
		c.report(err)
		return
	}

	c.printf("Loaded %s: %d observations (%d missing, %d malformed skipped)\n",
		report.SeriesID, report.Observations, report.Missing, report.Malformed)
}

func (c *CLI) average(ctx context.Context) {
	start, ok := c.promptDate(ctx, "Enter start date (YYYY-MM-DD): ")
	if !ok {
		return
	}
	end, ok := c.promptDate(ctx, "Enter end date (YYYY-MM-DD): ")
	if !ok {
		return
	}

	avg, err := c.engine.AverageInRange(start, end)
	if errors.Is(err, query.ErrNoDataInRange) {
		c.println("No valid data in range.")
		return
	}
	if err != nil {
		c.report(err)
		return
	}

	c.printf("Average value from %s to %s: %.2f (%d observations)\n", start, end, avg.Value, avg.Count)
}

func (c *CLI) extremes() {
	ext, err := c.engine.FindExtremes()
	if errors.Is(err, query.ErrNoDataAvailable) {
		c.println("No data available.")
		return
	}
	if err != nil {
		c.report(err)
		return
	}

	c.printf("Maximum value: %.2f on %s\n", ext.Max.Value, ext.Max.Date)
	c.printf("Minimum value: %.2f on %s\n", ext.Min.Value, ext.Min.Date)
}

func (c *CLI) filter(ctx context.Context) {
	minValue, ok := c.promptFloat(ctx, "Enter minimum value: ")
	if !ok {
		return
	}
	maxValue, ok := c.promptFloat(ctx, "Enter maximum value: ")
	if !ok {
		return
	}

	seq, err := c.engine.FilterByRange(minValue, maxValue)
	if err != nil {
		c.report(err)
		return
	}

	count := 0
	for o := range seq {
		c.printObservation(o)
		count++
	}
	if count == 0 {
		c.println("No observations in range.")
		return
	}
	c.printf("%d observations\n", count)
}

func (c *CLI) latest(ctx context.Context) {
	line, ok := c.prompt(ctx, "Enter number of entries: ")
	if !ok {
		return
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		c.println("Invalid number.")
		return
	}

	observations, err := c.engine.LatestEntries(n)
	if err != nil {
		c.report(err)
		return
	}
	if len(observations) == 0 {
		c.println("No observations.")
		return
	}
	for _, o := range observations {
		c.printObservation(o)
	}
}

// report renders an error that ends an action
func (c *CLI) report(err error) {
	var fetchErr *selector.FetchFailedError
	switch {
	case errors.Is(err, store.ErrNoDataLoaded):
		c.println("No series loaded. Select a series first (option 1).")
	case errors.Is(err, selector.ErrInvalidSelection):
		c.println("Invalid selection.")
	case errors.As(err, &fetchErr):
		c.printf("Could not fetch %s: %v\n", fetchErr.SeriesID, fetchErr.Reason)
	default:
		c.logger.WithError(err).Error("Menu action failed")
		c.printf("Error: %v\n", err)
	}
}

func (c *CLI) printObservation(o models.Observation) {
	if v, ok := o.Value.Get(); ok {
		c.printf("%s  %.2f\n", o.Date, v)
		return
	}
	c.printf("%s  missing\n", o.Date)
}

// readLines feeds input lines to prompt until input ends or the session
// is over. It closes c.lines once scanning stops.
func (c *CLI) readLines(done <-chan struct{}) {
	defer close(c.lines)
	for c.in.Scan() {
		select {
		case c.lines <- c.in.Text():
		case <-done:
			return
		}
	}
}

// prompt writes label and reads one trimmed line. It reports false at end
// of input or when ctx is canceled.
func (c *CLI) prompt(ctx context.Context, label string) (string, bool) {
	c.printf("%s", label)
	select {
	case line, ok := <-c.lines:
		if !ok {
			return "", false
		}
		return strings.TrimSpace(line), true
	case <-ctx.Done():
		return "", false
	}
}

func (c *CLI) promptDate(ctx context.Context, label string) (string, bool) {
	line, ok := c.prompt(ctx, label)
	if !ok {
		return "", false
	}
	if err := query.ValidateDate(line); err != nil {
		c.printf("Invalid date %q, expected YYYY-MM-DD.\n", line)
		return "", false
	}
	return line, true
}

func (c *CLI) promptFloat(ctx context.Context, label string) (float64, bool) {
	line, ok := c.prompt(ctx, label)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(line, 64)
	if err != nil {
		c.printf("Invalid number %q.\n", line)
		return 0, false
	}
	return v, true
}

// finish reports the first input or output failure of the session. It is
// only called once c.lines is closed, so the scanner is no longer in use.
func (c *CLI) finish() error {
	if err := c.in.Err(); err != nil {
		return err
	}
	return c.out.err
}

func (c *CLI) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *CLI) println(s string) {
	fmt.Fprintln(c.out, s)
}

// errWriter remembers the first write error and drops later writes
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
