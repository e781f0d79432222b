package testutil

import "testing"

// Given, When and Then name nested subtests after a scenario step so that
// `go test -run` output reads as the scenario:
//
//	TestNurseUpdatesQuantityOnly/When_the_nurse_tries_to_rename/Then_403_is_returned
func Given(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	step(t, "Given", desc, fn)
}

func When(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	step(t, "When", desc, fn)
}

func Then(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	step(t, "Then", desc, fn)
}

// step fails the parent when the nested step fails, so a broken Given stops
// the scenario instead of running its When blocks against bad state.
func step(t *testing.T, keyword, desc string, fn func(t *testing.T)) {
	t.Helper()
	if !t.Run(keyword+" "+desc, fn) {
		t.FailNow()
	}
}
