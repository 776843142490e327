package domain

import (
	"math"
	"time"
)

// Tune shifts each present event by its offset in minutes, truncated to
// the millisecond. Absent events stay absent whatever the offset.
func Tune(raw Times, offsets TuneOffsets) Times {
	out := raw
	for _, p := range Prayers {
		t := raw.Get(p)
		o := offsets.Offset(p)
		if t == nil || o == nil || math.IsNaN(*o) || math.IsInf(*o, 0) {
			continue
		}
		shifted := t.Add(time.Duration(int64(*o*60.0*1000.0)) * time.Millisecond)
		out.Set(p, &shifted)
	}
	return out
}
