// Package profile is the typed form of kind-0 metadata. The protocol layers only
// ever see the content as an opaque string; decoding happens here.
package profile

import (
	"fmt"

	"fiatjaf.com/nostrnode"
)

var json = nostrnode.JSON()

type Location struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

type Profile struct {
	Name        string    `json:"name,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	About       string    `json:"about,omitempty"`
	Picture     string    `json:"picture,omitempty"`
	Banner      string    `json:"banner,omitempty"`
	Website     string    `json:"website,omitempty"`
	NIP05       string    `json:"nip05,omitempty"`
	LUD16       string    `json:"lud16,omitempty"`
	Location    *Location `json:"location,omitempty"`

	// Extra holds fields this struct doesn't know about, so they survive an update.
	Extra map[string]any `json:"-"`
}

// profileFields lets the custom codec reuse the struct tags without recursing.
type profileFields Profile

func (p Profile) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(profileFields(p))
	if err != nil {
		return nil, err
	}
	if len(p.Extra) == 0 {
		return known, nil
	}

	merged := make(map[string]any, len(p.Extra)+9)
	for k, v := range p.Extra {
		merged[k] = v
	}
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	return json.Marshal(merged)
}

func (p *Profile) UnmarshalJSON(data []byte) error {
	var fields profileFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range []string{"name", "display_name", "about", "picture", "banner", "website", "nip05", "lud16", "location"} {
		delete(all, k)
	}
	if len(all) > 0 {
		fields.Extra = all
	} else {
		fields.Extra = nil
	}

	*p = Profile(fields)
	return nil
}

// WithLocation returns a copy of p with the given location.
func (p Profile) WithLocation(latitude, longitude string) Profile {
	p.Location = &Location{Latitude: latitude, Longitude: longitude}
	return p
}

// Template builds the unsigned kind-0 event for this profile.
func (p Profile) Template(createdAt nostrnode.Timestamp) (nostrnode.EventTemplate, error) {
	content, err := p.MarshalJSON()
	if err != nil {
		return nostrnode.EventTemplate{}, fmt.Errorf("failed to encode profile: %w", err)
	}
	return nostrnode.BuildEvent(nostrnode.KindProfileMetadata, nostrnode.Tags{}, content, createdAt)
}

// ParseMetadata decodes the content of a kind-0 event. It doesn't verify the event.
func ParseMetadata(evt nostrnode.Event) (Profile, error) {
	var p Profile
	if evt.Kind != nostrnode.KindProfileMetadata {
		return p, fmt.Errorf("event kind is %d, not %d", evt.Kind, nostrnode.KindProfileMetadata)
	}
	if err := p.UnmarshalJSON([]byte(evt.Content)); err != nil {
		return p, fmt.Errorf("failed to parse metadata from event %s: %w", evt.ID.Hex(), err)
	}
	return p, nil
}
