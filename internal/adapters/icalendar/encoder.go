package icalendar

import (
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"eventsearch/internal/domain"
)

type encoder struct {
	siteName   string
	siteDomain string
	now        func() time.Time
}

// NewEncoder returns a CalendarEncoder producing one all-day VEVENT per event. UIDs and
// links are built from siteDomain.
func NewEncoder(siteName, siteDomain string) domain.CalendarEncoder {
	return &encoder{siteName: siteName, siteDomain: siteDomain, now: time.Now}
}

// Encode renders events in the given order. Events without a start date are left out.
func (e *encoder) Encode(name string, events []*domain.Event) []byte {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//" + e.siteName + "//Event Search//EN")
	if name != "" {
		cal.SetXWRCalName(name)
	}
	stamp := e.now().UTC()
	for _, ev := range events {
		start, ok := ev.Start()
		if !ok {
			continue
		}
		end, ok := ev.End()
		if !ok || end.Before(start) {
			end = start
		}
		vev := cal.AddEvent(strconv.FormatInt(ev.ID, 10) + "@" + e.siteDomain)
		vev.SetDtStampTime(stamp)
		vev.SetAllDayStartAt(start)
		// DTEND of an all-day event is exclusive
		vev.SetAllDayEndAt(end.AddDate(0, 0, 1))
		vev.SetSummary(ev.Title)
		if loc := location(ev); loc != "" {
			vev.SetLocation(loc)
		}
		if ev.Description != "" {
			vev.SetDescription(ev.Description)
		}
		if len(ev.Tags) > 0 {
			vev.SetProperty(ical.ComponentPropertyCategories, strings.Join(ev.Tags, ","))
		}
		vev.SetURL(ev.ShowURL(e.siteDomain))
	}
	return []byte(cal.Serialize())
}

func location(ev *domain.Event) string {
	var parts []string
	for _, p := range []string{ev.Address, ev.City, ev.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
