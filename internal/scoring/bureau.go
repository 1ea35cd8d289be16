package scoring

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Bureau identifies a (simulated) credit bureau.
type Bureau string

const (
	Experian   Bureau = "Experian"
	Equifax    Bureau = "Equifax"
	TransUnion Bureau = "TransUnion"
	CRIF       Bureau = "CRIF"
)

// AllBureaus lists the bureaus every lookup expects, in display order.
var AllBureaus = []Bureau{Experian, Equifax, TransUnion, CRIF}

// ParseBureau resolves a bureau name case-insensitively. "CIBIL" is accepted
// as an alias for TransUnion.
func ParseBureau(raw string) (Bureau, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "experian":
		return Experian, true
	case "equifax":
		return Equifax, true
	case "transunion", "cibil", "transunion cibil":
		return TransUnion, true
	case "crif", "crif high mark":
		return CRIF, true
	default:
		return "", false
	}
}

// Range is an inclusive score interval. It encodes to JSON as [min,max].
type Range struct {
	Min int
	Max int
}

// DefaultRange is the nominal range of every bureau score.
var DefaultRange = Range{Min: 300, Max: 900}

// Span returns Max-Min.
func (r Range) Span() int { return r.Max - r.Min }

// Valid reports whether the range is non-degenerate.
func (r Range) Valid() bool { return r.Max > r.Min }

// Contains reports whether v lies within the range.
func (r Range) Contains(v int) bool { return v >= r.Min && v <= r.Max }

func (r Range) String() string { return fmt.Sprintf("[%d,%d]", r.Min, r.Max) }

func (r Range) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{r.Min, r.Max})
}

func (r *Range) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	r.Min, r.Max = pair[0], pair[1]
	return nil
}

// Status is the availability of a bureau for a lookup.
type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

// BureauScore is one raw score as reported by a bureau.
type BureauScore struct {
	Bureau     Bureau `json:"bureauName"`
	RawScore   int    `json:"rawScore"`
	ValidRange Range  `json:"validRange"`
	Status     Status `json:"status"`
	Source     string `json:"source,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Online reports whether the score can take part in aggregation.
func (s BureauScore) Online() bool { return s.Status != StatusOffline }

// RawMap collects online scores keyed by bureau.
func RawMap(scores []BureauScore) map[Bureau]int {
	out := make(map[Bureau]int, len(scores))
	for _, s := range scores {
		if s.Online() {
			out[s.Bureau] = s.RawScore
		}
	}
	return out
}
