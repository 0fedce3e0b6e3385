package market

import (
	"sort"
)

// QualityReport counts what Clean removed or reordered.
type QualityReport struct {
	Input      int
	Output     int
	Invalid    int
	Duplicates int
	Reordered  bool
}

func (r QualityReport) Clean() bool {
	return r.Invalid == 0 && r.Duplicates == 0 && !r.Reordered
}

// Clean returns candles sorted by time with invalid rows dropped and
// duplicate timestamps collapsed to the last occurrence.
// The input slice is not modified.
func Clean(in []Candle) ([]Candle, QualityReport) {
	rep := QualityReport{Input: len(in)}
	if len(in) == 0 {
		return nil, rep
	}

	tmp := make([]Candle, 0, len(in))
	for _, c := range in {
		if !c.Valid() {
			rep.Invalid++
			continue
		}
		tmp = append(tmp, c)
	}

	if !sort.SliceIsSorted(tmp, func(i, j int) bool { return tmp[i].Time.Before(tmp[j].Time) }) {
		rep.Reordered = true
		sort.SliceStable(tmp, func(i, j int) bool { return tmp[i].Time.Before(tmp[j].Time) })
	}

	out := tmp[:0]
	for _, c := range tmp {
		if n := len(out); n > 0 && out[n-1].Time.Equal(c.Time) {
			out[n-1] = c
			rep.Duplicates++
			continue
		}
		out = append(out, c)
	}

	rep.Output = len(out)
	return out, rep
}
