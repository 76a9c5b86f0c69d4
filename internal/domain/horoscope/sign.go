package horoscope

// Sign is a zodiac sign as stored in the catalog and in subscriber records.
// The empty string means the subscriber has not picked one yet.
type Sign string

const (
	SignAries       Sign = "aries"
	SignTaurus      Sign = "taurus"
	SignGemini      Sign = "gemini"
	SignCancer      Sign = "cancer"
	SignLeo         Sign = "leo"
	SignVirgo       Sign = "virgo"
	SignLibra       Sign = "libra"
	SignScorpio     Sign = "scorpio"
	SignSagittarius Sign = "sagittarius"
	SignCapricorn   Sign = "capricorn"
	SignAquarius    Sign = "aquarius"
	SignPisces      Sign = "pisces"
)

// Signs lists all zodiac signs in the canonical order used for keyboards
// and stats output.
var Signs = []Sign{
	SignAries,
	SignTaurus,
	SignGemini,
	SignCancer,
	SignLeo,
	SignVirgo,
	SignLibra,
	SignScorpio,
	SignSagittarius,
	SignCapricorn,
	SignAquarius,
	SignPisces,
}

// Valid reports whether s is one of the twelve known signs.
func (s Sign) Valid() bool {
	for _, known := range Signs {
		if s == known {
			return true
		}
	}
	return false
}

// Style is the flavor of horoscope a subscriber reads.
// The empty string means the subscriber has not picked one yet.
type Style string

const (
	StyleClassic    Style = "classic"
	StyleUncensored Style = "uncensored"
)

// Valid reports whether s is a known style.
func (s Style) Valid() bool {
	return s == StyleClassic || s == StyleUncensored
}
