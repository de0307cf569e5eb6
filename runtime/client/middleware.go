package client

import (
	"context"
	"time"

	"github.com/satishbabariya/pgcrud/internal/debug"
)

// QueryEvent describes one statement execution as seen by middleware.
type QueryEvent struct {
	SQL      string
	Args     []interface{}
	Duration time.Duration
	Error    error
	Start    time.Time
	End      time.Time
}

// Middleware intercepts statement execution. It must call next exactly once
// to run the statement (or the rest of the chain) and may inspect the event
// before and after.
type Middleware func(ctx context.Context, event *QueryEvent, next func() error) error

// Use appends a middleware to the driver's chain. Not safe to call
// concurrently with running operations.
func (d *Driver) Use(middleware Middleware) {
	d.middlewares = append(d.middlewares, middleware)
}

// runWithMiddleware executes exec through the middleware chain, filling in
// the event's timing and error fields around the innermost call.
func (d *Driver) runWithMiddleware(ctx context.Context, sqlText string, args []interface{}, exec func() error) error {
	event := &QueryEvent{
		SQL:   sqlText,
		Args:  args,
		Start: time.Now(),
	}

	run := func() error {
		err := exec()
		event.End = time.Now()
		event.Duration = event.End.Sub(event.Start)
		event.Error = err
		return err
	}

	if len(d.middlewares) == 0 {
		return run()
	}

	var next func() error
	index := 0
	next = func() error {
		if index >= len(d.middlewares) {
			return run()
		}
		mw := d.middlewares[index]
		index++
		return mw(ctx, event, next)
	}

	return next()
}

// LoggingMiddleware logs every statement through the debug logger.
func LoggingMiddleware() Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		debug.Query(event.SQL, len(event.Args), event.Duration, err)
		return err
	}
}
