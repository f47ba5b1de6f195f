package usage

import "time"

// Classify maps a project's declared configuration and most recent build time
// to a Status. Pure function: no I/O, no hidden state.
//
// Rules:
//   - no build history and nothing declared -> EMPTY
//   - no build history but a declared source/environment -> UNUSED
//     (configured but never run is idle, not empty)
//   - last build within thresholdDays, boundary inclusive -> USED
//   - otherwise -> UNUSED
//
// Age is whole elapsed days between now and the build time, both in UTC, so
// every project in a run is judged against the same instant.
func Classify(source SourceInfo, lastBuild *time.Time, now time.Time, thresholdDays int) Status {
	if lastBuild == nil {
		if source.Declared() {
			return StatusUnused
		}
		return StatusEmpty
	}

	age := int(now.UTC().Sub(lastBuild.UTC()).Hours() / 24)
	if age <= thresholdDays {
		return StatusUsed
	}
	return StatusUnused
}
