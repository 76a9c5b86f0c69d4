package subscriber

import (
	"encoding/json"

	"github.com/89500204828slopi-cloud/surh-scope-bot/internal/domain/horoscope"
)

// Subscriber holds one user's horoscope preferences and the delivery
// marker. A record exists from the first interaction on and is never
// deleted; unset fields stay empty until the user picks them.
type Subscriber struct {
	Sign              horoscope.Sign
	Style             horoscope.Style
	LastDeliveredDate string // "YYYY-MM-DD", empty until the first daily delivery
}

// Complete reports whether the subscriber picked both a sign and a style,
// which is the precondition for any daily delivery.
func (s *Subscriber) Complete() bool {
	return s.Sign != "" && s.Style != ""
}

// DeliveredOn reports whether the subscriber already received the daily
// horoscope for the given date.
func (s *Subscriber) DeliveredOn(date string) bool {
	return s.LastDeliveredDate == date
}

// record is the persisted JSON shape. Unset fields are stored as explicit
// nulls so every record always carries all three keys.
type record struct {
	Category          *string `json:"category"`
	Variant           *string `json:"variant"`
	LastDeliveredDate *string `json:"lastDeliveredDate"`
}

func (s Subscriber) MarshalJSON() ([]byte, error) {
	return json.Marshal(record{
		Category:          optional(string(s.Sign)),
		Variant:           optional(string(s.Style)),
		LastDeliveredDate: optional(s.LastDeliveredDate),
	})
}

func (s *Subscriber) UnmarshalJSON(data []byte) error {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	s.Sign = horoscope.Sign(stringValue(r.Category))
	s.Style = horoscope.Style(stringValue(r.Variant))
	s.LastDeliveredDate = stringValue(r.LastDeliveredDate)
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Patch is a partial update: only non-nil fields are applied.
type Patch struct {
	Sign              *horoscope.Sign
	Style             *horoscope.Style
	LastDeliveredDate *string
}

// Apply merges the patch into the record.
func (p Patch) Apply(s *Subscriber) {
	if p.Sign != nil {
		s.Sign = *p.Sign
	}
	if p.Style != nil {
		s.Style = *p.Style
	}
	if p.LastDeliveredDate != nil {
		s.LastDeliveredDate = *p.LastDeliveredDate
	}
}

// SignPatch builds a patch that sets only the zodiac sign.
func SignPatch(sign horoscope.Sign) Patch {
	return Patch{Sign: &sign}
}

// StylePatch builds a patch that sets only the style.
func StylePatch(style horoscope.Style) Patch {
	return Patch{Style: &style}
}

// DeliveredPatch builds a patch that sets only the delivery marker.
func DeliveredPatch(date string) Patch {
	return Patch{LastDeliveredDate: &date}
}
