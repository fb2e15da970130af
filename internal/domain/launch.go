package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// WireTimeFormat is the timestamp layout used by the launch API.
const WireTimeFormat = "2006-01-02T15:04:05Z"

// Launch is a single upcoming launch as returned by the launch API.
// Only id, name, status.name, window_start, net and the link urls must
// have the expected JSON types. The descriptive fields are filled on a
// best-effort basis for rendering. A launch decoded from JSON re-encodes
// to its original document.
type Launch struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	Status                *Status   `json:"status"`
	WindowStart           *string   `json:"window_start"`
	WindowEnd             *string   `json:"window_end"`
	Net                   *string   `json:"net"`
	InfoURLs              []LinkURL `json:"infoURLs"`
	VidURLs               []LinkURL `json:"vidURLs"`
	LaunchServiceProvider *Agency   `json:"launch_service_provider"`
	Rocket                *Rocket   `json:"rocket"`
	Mission               *Mission  `json:"mission"`
	Pad                   *Pad      `json:"pad"`
	Image                 *string   `json:"image"`

	raw json.RawMessage
}

type Status struct {
	ID          int     `json:"id"`
	Name        *string `json:"name"`
	Abbrev      string `json:"abbrev"`
	Description string `json:"description"`
}

// LinkURL is an entry of infoURLs or vidURLs.
type LinkURL struct {
	Priority    int    `json:"priority"`
	Source      string `json:"source"`
	Publisher   string `json:"publisher"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

type Agency struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type Rocket struct {
	ID            int                  `json:"id"`
	Configuration *RocketConfiguration `json:"configuration"`
}

type RocketConfiguration struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

type Mission struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Orbit       *Orbit `json:"orbit"`
}

type Orbit struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Abbrev string `json:"abbrev"`
}

type Pad struct {
	ID       int          `json:"id"`
	Name     string       `json:"name"`
	MapURL   *string      `json:"map_url"`
	Location *PadLocation `json:"location"`
}

type PadLocation struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	CountryCode  string `json:"country_code"`
	TimezoneName string `json:"timezone_name"`
}

type launchFields Launch

type linkCore struct {
	URL string `json:"url"`
}

// launchCore holds the fields change detection reads.
type launchCore struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status *struct {
		Name *string `json:"name"`
	} `json:"status"`
	WindowStart *string    `json:"window_start"`
	Net         *string    `json:"net"`
	InfoURLs    []linkCore `json:"infoURLs"`
	VidURLs     []linkCore `json:"vidURLs"`
}

func (l *Launch) UnmarshalJSON(data []byte) error {
	var core launchCore
	if err := json.Unmarshal(data, &core); err != nil {
		return err
	}

	// json.Unmarshal keeps going past type mismatches, so a descriptive
	// field of an unexpected type is left zero instead of failing the launch.
	var f launchFields
	var typeErr *json.UnmarshalTypeError
	if err := json.Unmarshal(data, &f); err != nil && !errors.As(err, &typeErr) {
		return err
	}
	*l = Launch(f)

	l.ID = core.ID
	l.Name = core.Name
	l.WindowStart = core.WindowStart
	l.Net = core.Net
	if core.Status == nil {
		l.Status = nil
	} else {
		if l.Status == nil {
			l.Status = &Status{}
		}
		l.Status.Name = core.Status.Name
	}
	l.InfoURLs = mergeLinks(l.InfoURLs, core.InfoURLs)
	l.VidURLs = mergeLinks(l.VidURLs, core.VidURLs)

	l.raw = append(json.RawMessage(nil), data...)
	return nil
}

func mergeLinks(decoded []LinkURL, core []linkCore) []LinkURL {
	if core == nil {
		return nil
	}
	out := make([]LinkURL, len(core))
	for i, c := range core {
		if i < len(decoded) {
			out[i] = decoded[i]
		}
		out[i].URL = c.URL
	}
	return out
}

func (l Launch) MarshalJSON() ([]byte, error) {
	if len(l.raw) > 0 {
		return l.raw, nil
	}
	return json.Marshal(launchFields(l))
}

// StatusName returns the status label, or nil when the launch carries no
// status or the status has no name.
func (l Launch) StatusName() *string {
	if l.Status == nil || l.Status.Name == nil {
		return nil
	}
	name := *l.Status.Name
	return &name
}

// LaunchCollection is one page of the upcoming launch listing.
type LaunchCollection struct {
	Count    int      `json:"count"`
	Next     *string  `json:"next"`
	Previous *string  `json:"previous"`
	Results  []Launch `json:"results"`

	extra map[string]json.RawMessage
}

type collectionFields LaunchCollection

var collectionKeys = map[string]struct{}{
	"count":    {},
	"next":     {},
	"previous": {},
	"results":  {},
}

func (c *LaunchCollection) UnmarshalJSON(data []byte) error {
	var f collectionFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*c = LaunchCollection(f)
	for k, v := range fields {
		if _, known := collectionKeys[k]; known {
			continue
		}
		if c.extra == nil {
			c.extra = make(map[string]json.RawMessage)
		}
		c.extra[k] = v
	}
	return nil
}

func (c LaunchCollection) MarshalJSON() ([]byte, error) {
	results := c.Results
	if results == nil {
		results = []Launch{}
	}
	doc := make(map[string]any, len(c.extra)+4)
	for k, v := range c.extra {
		doc[k] = v
	}
	doc["count"] = c.Count
	doc["next"] = c.Next
	doc["previous"] = c.Previous
	doc["results"] = results
	return json.Marshal(doc)
}

// DecodeCollection parses a launch listing and checks that it is a JSON
// object carrying both "count" and "results".
func DecodeCollection(data []byte) (*LaunchCollection, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}
	if fields == nil {
		return nil, fmt.Errorf("decode collection: not an object")
	}
	for _, key := range []string{"count", "results"} {
		if _, ok := fields[key]; !ok {
			return nil, fmt.Errorf("decode collection: missing %q", key)
		}
	}
	if bytes.Equal(bytes.TrimSpace(fields["results"]), []byte("null")) {
		return nil, fmt.Errorf("decode collection: results is null")
	}

	var c LaunchCollection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}
	return &c, nil
}
