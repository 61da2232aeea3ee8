package a

import (
	"time"

	clock "time"
)

type history struct {
	date time.Time
}

func bad() history {
	return history{date: time.Now()} // want "time.Now\\(\\) should be followed by .UTC\\(\\) for timezone consistency"
}

func good() history {
	return history{date: time.Now().UTC()}
}

func parenthesized() time.Time {
	return (time.Now()).UTC()
}

func renamedImport() time.Time {
	return clock.Now() // want "time.Now\\(\\) should be followed by .UTC\\(\\) for timezone consistency"
}

func chainingGood() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func clockFunc() func() time.Time {
	// A method value is not a call.
	return time.Now
}

type fakeClock struct{}

func (fakeClock) Now() time.Time { return time.Time{} }

func otherNow() time.Time {
	return fakeClock{}.Now()
}

func nolintGeneral() {
	//nolint
	_ = time.Now()
}

func nolintSpecific() time.Duration {
	start := time.Now() //nolint:timeutc // monotonic reading for durations
	return time.Since(start)
}

func nolintList() {
	_ = time.Now() //nolint:errcheck,timeutc
}

func nolintOtherLinter() {
	_ = time.Now() //nolint:otherlinter // want "time.Now\\(\\) should be followed by .UTC\\(\\) for timezone consistency"
}
