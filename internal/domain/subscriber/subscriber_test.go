package subscriber

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/89500204828slopi-cloud/surh-scope-bot/internal/domain/horoscope"
)

func TestMarshalDefaultRecordUsesNulls(t *testing.T) {
	out, err := json.Marshal(Subscriber{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"category":null,"variant":null,"lastDeliveredDate":null}`, string(out))
}

func TestUnmarshalNullsAsUnset(t *testing.T) {
	var s Subscriber
	require.NoError(t, json.Unmarshal(
		[]byte(`{"category":null,"variant":null,"lastDeliveredDate":null}`), &s))

	assert.Empty(t, s.Sign)
	assert.Empty(t, s.Style)
	assert.Empty(t, s.LastDeliveredDate)
	assert.False(t, s.Complete())
}

func TestRoundTrip(t *testing.T) {
	orig := Subscriber{
		Sign:              horoscope.SignLeo,
		Style:             horoscope.StyleUncensored,
		LastDeliveredDate: "2025-01-02",
	}

	out, err := json.Marshal(orig)
	require.NoError(t, err)

	var back Subscriber
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, orig, back)
	assert.True(t, back.Complete())
	assert.True(t, back.DeliveredOn("2025-01-02"))
	assert.False(t, back.DeliveredOn("2025-01-03"))
}

func TestPatchAppliesOnlySetFields(t *testing.T) {
	s := Subscriber{
		Sign:              horoscope.SignAries,
		Style:             horoscope.StyleClassic,
		LastDeliveredDate: "2025-01-01",
	}

	SignPatch(horoscope.SignVirgo).Apply(&s)
	assert.Equal(t, horoscope.SignVirgo, s.Sign)
	assert.Equal(t, horoscope.StyleClassic, s.Style)
	assert.Equal(t, "2025-01-01", s.LastDeliveredDate)

	StylePatch(horoscope.StyleUncensored).Apply(&s)
	assert.Equal(t, horoscope.StyleUncensored, s.Style)

	DeliveredPatch("2025-01-02").Apply(&s)
	assert.Equal(t, "2025-01-02", s.LastDeliveredDate)
	assert.Equal(t, horoscope.SignVirgo, s.Sign)
}

func TestCompleteRequiresBothPreferences(t *testing.T) {
	s := Subscriber{Sign: horoscope.SignLeo}
	assert.False(t, s.Complete())

	s.Style = horoscope.StyleClassic
	assert.True(t, s.Complete())
}
