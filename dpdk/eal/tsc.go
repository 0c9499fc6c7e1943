package eal

/*
#include "../../csrc/core/common.h"
#include <rte_cycles.h>
*/
import "C"
import "time"

// TscTime is a time point on the TSC clock.
type TscTime uint64

// TscNow reads the current TSC counter.
func TscNow() TscTime { return TscTime(C.rte_get_tsc_cycles()) }

// Add advances t by a duration.
func (t TscTime) Add(d time.Duration) TscTime { return t + TscTime(ToTscDuration(d)) }

// Sub computes the duration elapsed from t0 to t.
func (t TscTime) Sub(t0 TscTime) time.Duration { return FromTscDuration(int64(t - t0)) }

// ToTime converts t to wall clock time.
func (t TscTime) ToTime() time.Time {
	before := TscNow()
	wall := time.Now()
	after := TscNow()

	ref := TscTime(uint64(before)/2 + uint64(after)/2)
	return wall.Add(t.Sub(ref))
}

// TscHz returns the TSC frequency in hertz.
func TscHz() uint64 {
	return uint64(C.rte_get_tsc_hz())
}

var nanosInTscUnit float64

// InitTscUnit caches the duration of a TSC time unit.
// This is called by package ealinit; the frequency estimate is unstable before then.
func InitTscUnit() {
	nanosInTscUnit = float64(time.Second) / float64(TscHz())
}

// GetNanosInTscUnit returns the number of nanoseconds in a TSC time unit.
func GetNanosInTscUnit() float64 {
	if nanosInTscUnit == 0 {
		InitTscUnit()
	}
	return nanosInTscUnit
}

// GetTscUnit returns the TSC time unit as time.Duration.
func GetTscUnit() time.Duration { return time.Duration(GetNanosInTscUnit()) }

// FromTscDuration converts a duration in TSC units to time.Duration.
func FromTscDuration(d int64) time.Duration {
	return time.Duration(float64(d) * GetNanosInTscUnit())
}

// ToTscDuration converts time.Duration to a duration in TSC units.
func ToTscDuration(d time.Duration) int64 { return int64(float64(d) / GetNanosInTscUnit()) }

// Delay spins for at least the given duration without yielding the thread.
func Delay(d time.Duration) {
	C.rte_delay_us_block(C.uint(d / time.Microsecond))
}
