package horoscope

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for catalog keys and the
// per-subscriber delivery marker.
const DateLayout = "2006-01-02"

// DateKey formats t as a catalog date key.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// genericTextKey is the shared-text fallback key content authors may use
// inside a per-style object instead of a real style name.
const genericTextKey = "text"

// Catalog is the date-indexed store of deliverable horoscopes:
// date -> sign -> entry.
type Catalog map[string]Day

// Day holds the horoscopes for a single date, keyed by sign.
type Day map[string]Entry

// Entry is the content stored for one sign on one day. Content authors
// either supply a single shared text or an object keyed by style, so the
// shape is fixed when the catalog is decoded.
type Entry struct {
	plain    string
	isPlain  bool
	variants []variantText // object shape, in stored order
}

type variantText struct {
	Key  string
	Text string
}

// PlainEntry builds a variant-agnostic entry.
func PlainEntry(text string) Entry {
	return Entry{plain: text, isPlain: true}
}

// StyledEntry builds an entry from style/text pairs. Pairs keep the order
// they are given in, which drives the last-resort resolution fallback.
func StyledEntry(pairs ...[2]string) Entry {
	e := Entry{}
	for _, p := range pairs {
		e.variants = append(e.variants, variantText{Key: p[0], Text: p[1]})
	}
	return e
}

// UnmarshalJSON accepts either a bare string or an object of style-keyed
// texts. Object keys are kept in stored order; non-string values are
// dropped as unusable. Any other shape (array, number, bool, null)
// decodes to an empty entry: one unusable value must not void the whole
// catalog.
func (e *Entry) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || (trimmed[0] != '"' && trimmed[0] != '{') {
		*e = Entry{}
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*e = Entry{plain: s, isPlain: true}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if _, err := dec.Token(); err != nil { // consume '{'
		return fmt.Errorf("horoscope entry: %w", err)
	}

	var vs []variantText
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("horoscope entry: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("horoscope entry: non-string key %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("horoscope entry: %w", err)
		}
		var text string
		if json.Unmarshal(raw, &text) == nil {
			vs = append(vs, variantText{Key: key, Text: text})
		}
	}
	*e = Entry{variants: vs}
	return nil
}

// MarshalJSON writes the entry back in the shape it was stored in,
// preserving key order for the object shape.
func (e Entry) MarshalJSON() ([]byte, error) {
	if e.isPlain {
		return json.Marshal(e.plain)
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, v := range e.variants {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(v.Key)
		if err != nil {
			return nil, err
		}
		t, err := json.Marshal(v.Text)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(t)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Text resolves the entry for a style. Resolution order: the plain text if
// the entry has no style split, the requested style, the generic "text"
// key, then the first non-empty text in stored order. Texts that are empty
// or whitespace-only never resolve.
func (e Entry) Text(style Style) (string, bool) {
	if e.isPlain {
		return nonEmpty(e.plain)
	}
	if t, ok := e.lookup(string(style)); ok {
		return t, true
	}
	if t, ok := e.lookup(genericTextKey); ok {
		return t, true
	}
	for _, v := range e.variants {
		if t, ok := nonEmpty(v.Text); ok {
			return t, true
		}
	}
	return "", false
}

func (e Entry) lookup(key string) (string, bool) {
	for _, v := range e.variants {
		if v.Key == key {
			return nonEmpty(v.Text)
		}
	}
	return "", false
}

func nonEmpty(s string) (string, bool) {
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// Resolve returns the horoscope text for a date, sign and style, or false
// when nothing usable is stored. Partial author data degrades through the
// entry fallback chain instead of failing.
func (c Catalog) Resolve(date string, sign Sign, style Style) (string, bool) {
	day, ok := c[date]
	if !ok {
		return "", false
	}
	entry, ok := day[string(sign)]
	if !ok {
		return "", false
	}
	return entry.Text(style)
}

// Prune returns a catalog holding only today's and future dates. Keys that
// do not parse as calendar dates are dropped: they can never be delivered.
func (c Catalog) Prune(today time.Time) Catalog {
	cutoff := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	kept := make(Catalog, len(c))
	for key, day := range c {
		d, err := time.Parse(DateLayout, key)
		if err != nil {
			continue
		}
		if d.Before(cutoff) {
			continue
		}
		kept[key] = day
	}
	return kept
}
