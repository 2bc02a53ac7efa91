// Package trigger builds recurring run triggers from command line style options.
package trigger

import (
	"fmt"
	"time"

	"github.com/gkcalat/pipelines/internal/models"
)

type Options struct {
	// Cron is a six-field expression, seconds first.
	Cron string
	// Interval is a Go duration such as "1h30m".
	Interval string
	// Start and End are RFC3339 timestamps bounding the schedule.
	Start string
	End   string
}

func (o Options) Build() (*models.Trigger, error) {
	if o.Cron == "" && o.Interval == "" {
		return nil, models.MissingArgument("cron or interval")
	}
	if o.Cron != "" && o.Interval != "" {
		return nil, fmt.Errorf("%w: cron and interval are mutually exclusive", models.ErrMalformedArgument)
	}

	start, err := parseTime("start", o.Start)
	if err != nil {
		return nil, err
	}
	end, err := parseTime("end", o.End)
	if err != nil {
		return nil, err
	}

	var trigger models.Trigger
	if o.Cron != "" {
		trigger.CronSchedule = &models.CronSchedule{Cron: o.Cron, StartTime: start, EndTime: end}
	} else {
		seconds, err := intervalSeconds(o.Interval)
		if err != nil {
			return nil, err
		}
		trigger.PeriodicSchedule = &models.PeriodicSchedule{IntervalSecond: seconds, StartTime: start, EndTime: end}
	}

	if err := trigger.Validate(); err != nil {
		return nil, err
	}
	return &trigger, nil
}

func intervalSeconds(s string) (int64, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, models.InvalidValue("interval", s)
	}
	if d <= 0 || d%time.Second != 0 {
		return 0, fmt.Errorf("%w: interval must be a positive whole number of seconds: %s", models.ErrMalformedValue, s)
	}
	return int64(d / time.Second), nil
}

func parseTime(name, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, models.InvalidValue(name+" time", s)
	}
	t = t.UTC()
	return &t, nil
}

// Next returns up to n fire times of trigger after from, stopping at the end time.
func Next(trigger *models.Trigger, from time.Time, n int) ([]time.Time, error) {
	if err := trigger.Validate(); err != nil {
		return nil, err
	}

	var (
		next       func(time.Time) time.Time
		start, end *time.Time
	)
	if c := trigger.CronSchedule; c != nil {
		schedule, err := models.ParseCron(c.Cron)
		if err != nil {
			return nil, err
		}
		next = schedule.Next
		start, end = c.StartTime, c.EndTime
	} else {
		p := trigger.PeriodicSchedule
		anchor := from
		if p.StartTime != nil {
			anchor = *p.StartTime
		}
		next = func(t time.Time) time.Time {
			return nextPeriodic(anchor, p.IntervalSecond, t)
		}
		start, end = p.StartTime, p.EndTime
	}

	t := from
	if start != nil && start.After(t) {
		// Fire times at the start instant are allowed.
		t = start.Add(-time.Nanosecond)
	}

	var times []time.Time
	for len(times) < n {
		t = next(t)
		if t.IsZero() || (end != nil && t.After(*end)) {
			break
		}
		times = append(times, t)
	}
	return times, nil
}

// nextPeriodic returns the first time after t of the form anchor + k*seconds. The elapsed
// intervals are counted in whole seconds so distant times do not overflow a time.Duration.
func nextPeriodic(anchor time.Time, seconds int64, t time.Time) time.Time {
	if t.Before(anchor) {
		return anchor
	}
	k := (t.Unix() - anchor.Unix()) / seconds
	fire := time.Unix(anchor.Unix()+k*seconds, int64(anchor.Nanosecond())).In(anchor.Location())
	for !fire.After(t) {
		fire = fire.Add(time.Duration(seconds) * time.Second)
	}
	return fire
}
