// Package timegroup buckets items into the sidebar's relative date groups.
package timegroup

import (
	"fmt"
	"time"
)

const OverAYearAgo = "Over a year ago"

// Group is one labelled bucket, in display order.
type Group[T any] struct {
	Label string
	Items []T
}

type bucket struct {
	label string
	start time.Time
	end   time.Time // exclusive; zero means open
}

// Buckets computes the ordered bucket boundaries relative to now:
// Today, Yesterday, Past Week, This Month, each of the previous 11 months.
// Anything older falls into "Over a year ago".
func buckets(now time.Time) []bucket {
	loc := now.Location()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	yesterdayStart := todayStart.AddDate(0, 0, -1)
	weekStart := todayStart.AddDate(0, 0, -7)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)

	out := []bucket{
		{label: fmt.Sprintf("Today (%s)", todayStart.Format("01/02/2006")), start: todayStart},
		{label: fmt.Sprintf("Yesterday (%s)", yesterdayStart.Format("01/02/2006")), start: yesterdayStart, end: todayStart},
		{label: fmt.Sprintf("Past Week (%s - %s)", weekStart.Format("01/02"), yesterdayStart.Format("01/02/2006")), start: weekStart, end: yesterdayStart},
		{label: fmt.Sprintf("This Month (%s)", monthStart.Format("January 2006")), start: monthStart, end: todayStart},
	}

	for i := 1; i < 12; i++ {
		start := monthStart.AddDate(0, -i, 0)
		end := monthStart.AddDate(0, -i+1, 0)
		out = append(out, bucket{label: start.Format("January 2006"), start: start, end: end})
	}
	return out
}

// GroupByDate assigns each item to the first bucket containing at(item).
// Empty groups are omitted and item order within a group is preserved.
func GroupByDate[T any](items []T, at func(T) time.Time, now time.Time) []Group[T] {
	bs := buckets(now)
	grouped := make([][]T, len(bs))
	var older []T

	for _, item := range items {
		t := at(item).In(now.Location())
		placed := false
		for i, b := range bs {
			if !t.Before(b.start) && (b.end.IsZero() || t.Before(b.end)) {
				grouped[i] = append(grouped[i], item)
				placed = true
				break
			}
		}
		if !placed {
			older = append(older, item)
		}
	}

	var out []Group[T]
	for i, b := range bs {
		if len(grouped[i]) > 0 {
			out = append(out, Group[T]{Label: b.label, Items: grouped[i]})
		}
	}
	if len(older) > 0 {
		out = append(out, Group[T]{Label: OverAYearAgo, Items: older})
	}
	return out
}
