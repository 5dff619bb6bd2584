package efa

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// wireString is an upstream scalar. EFA sends the same field as a JSON string
// in one deployment and as a number in another, so both decode to text.
// null and absent both decode to "".
type wireString string

func (w *wireString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*w = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*w = wireString(s)
	case '{', '[':
		return fmt.Errorf("expected scalar, got %s", string(data[:1]))
	default:
		// numbers and booleans keep their literal text
		*w = wireString(data)
	}

	return nil
}

func (w wireString) String() string {
	return string(w)
}

// Int parses the value as a whole number, nil when absent or not numeric
func (w wireString) Int() *int {
	if w == "" {
		return nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(string(w)))
	if err != nil {
		// EFA sometimes sends numbers as "5.0"
		f, ferr := strconv.ParseFloat(strings.TrimSpace(string(w)), 64)
		if ferr != nil {
			return nil
		}
		n = int(f)
	}

	return &n
}

// firstNonEmpty returns the first value that is set, or ""
func firstNonEmpty(values ...wireString) string {
	for _, value := range values {
		if value != "" {
			return string(value)
		}
	}

	return ""
}

type wireMessage struct {
	Content wireString `json:"content"`
}

func messageContents(messages []wireMessage) []string {
	contents := make([]string, 0, len(messages))

	for _, message := range messages {
		contents = append(contents, message.Content.String())
	}

	return contents
}

type wireDateTime struct {
	Year    wireString `json:"year"`
	Month   wireString `json:"month"`
	Day     wireString `json:"day"`
	Weekday wireString `json:"weekday"`
	Hour    wireString `json:"hour"`
	Minute  wireString `json:"minute"`
	Time    wireString `json:"time"`
}

// clock renders HH:MM, or "" when either part is missing
func (d *wireDateTime) clock() string {
	if d == nil || d.Hour == "" || d.Minute == "" {
		return ""
	}

	return padTwo(d.Hour.String()) + ":" + padTwo(d.Minute.String())
}

func padTwo(s string) string {
	if len(s) >= 2 {
		return s
	}

	return strings.Repeat("0", 2-len(s)) + s
}

type wireServingLine struct {
	Key           wireString `json:"key"`
	Code          wireString `json:"code"`
	Number        wireString `json:"number"`
	Symbol        wireString `json:"symbol"`
	MotType       wireString `json:"motType"`
	Realtime      wireString `json:"realtime"`
	Direction     wireString `json:"direction"`
	DirectionFrom wireString `json:"directionFrom"`
	Name          wireString `json:"name"`
	Delay         wireString `json:"delay"`
	Via           wireString `json:"via"`
	Message       wireString `json:"message"`
}

type wireDeparture struct {
	StopID             wireString       `json:"stopID"`
	StopName           wireString       `json:"stopName"`
	Platform           wireString       `json:"platform"`
	PlatformName       wireString       `json:"platformName"`
	Countdown          wireString       `json:"countdown"`
	RealtimeTripStatus wireString       `json:"realtimeTripStatus"`
	DateTime           *wireDateTime    `json:"dateTime"`
	RealDateTime       *wireDateTime    `json:"realDateTime"`
	ServingLine        *wireServingLine `json:"servingLine"`
}

// DepartureMonitorResponse is the XSLT_DM_REQUEST payload. DepartureList is
// nil when the upstream omitted it.
type DepartureMonitorResponse struct {
	StopName        wireString       `json:"stopName"`
	DepartureList   *[]wireDeparture `json:"departureList"`
	GeneralMessages []wireMessage    `json:"generalMessages"`
	StopMessages    []wireMessage    `json:"stopMessages"`
	LineMessages    []wireMessage    `json:"lineMessages"`
}

type wireStationRef struct {
	ID      wireString `json:"id"`
	GID     wireString `json:"gid"`
	OMC     wireString `json:"omc"`
	PlaceID wireString `json:"placeID"`
	Place   wireString `json:"place"`
}

type wireStationPoint struct {
	Usage     wireString      `json:"usage"`
	Type      wireString      `json:"type"`
	Name      wireString      `json:"name"`
	Stateless wireString      `json:"stateless"`
	Ref       *wireStationRef `json:"ref"`
}

type wireStopFinder struct {
	// Points stays raw: EFA sends an object instead of an array for some
	// single-hit answers
	Points json.RawMessage `json:"points"`
}

// StationSearchResponse is the XML_STOPFINDER_REQUEST payload
type StationSearchResponse struct {
	StopFinder *wireStopFinder `json:"stopFinder"`
}
