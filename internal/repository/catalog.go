package repository

import (
	"strconv"
	"strings"
	"unicode"
)

// Catalog describes one family of capacity-bounded events: where its events
// and reservations are stored, how the capacity of an event is computed and
// which name seeds its seat labels.  Every reservation query is written once
// against a Catalog.
//
// The table and expression fields are compile-time constants and are
// interpolated into SQL; they must never come from user input.
type Catalog struct {
	Kind             string // "sport" or "general"
	EventTable       string
	ReservationTable string

	venueJoin    string // joined after "FROM <EventTable> e"
	capacityExpr string
	labelExpr    string
}

// SportCatalog reads capacity from the stadium hosting the event and labels
// seats after the stadium.
var SportCatalog = Catalog{
	Kind:             "sport",
	EventTable:       "events",
	ReservationTable: "reservations",
	venueJoin:        " JOIN stadiums v ON v.id = e.stadium_id",
	capacityExpr:     "v.capacity",
	labelExpr:        "v.name",
}

// GeneralCatalog reads capacity from the event row itself and labels seats
// after the event.
var GeneralCatalog = Catalog{
	Kind:             "general",
	EventTable:       "general_events",
	ReservationTable: "general_reservations",
	capacityExpr:     "e.capacity",
	labelExpr:        "e.name",
}

// seatBase is the first numeric suffix issued for an event.
const seatBase = 100

// SeatLabel builds the seat label of the seq-th reservation (zero based) of
// an event: the first two letters or digits of source, upper-cased, followed
// by seatBase+seq.  Since seq only grows per event the label never repeats
// inside an event.
func SeatLabel(source string, seq int) string {
	var b strings.Builder
	n := 0
	for _, r := range source {
		if n == 2 {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
			n++
		}
	}
	for ; n < 2; n++ {
		b.WriteByte('X')
	}
	b.WriteString(strconv.Itoa(seatBase + seq))
	return b.String()
}
