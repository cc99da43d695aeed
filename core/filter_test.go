package core

import (
	"testing"

	"github.com/signalsfoundry/leo-catalog/model"
)

func TestFilter_NameSubstringCaseInsensitive(t *testing.T) {
	records := []model.ElementRecord{issRecord()}

	cases := []struct {
		name    string
		matches int
	}{
		{"", 1},
		{"zarya", 1},
		{"ZARYA", 1},
		{"iss (", 1},
		{"hubble", 0},
	}
	for _, tc := range cases {
		result := Filter(records, 2000, tc.name)
		if result.Matches() != tc.matches {
			t.Errorf("Filter(name=%q) matched %d, want %d", tc.name, result.Matches(), tc.matches)
		}
	}
}

func TestFilter_ThresholdBoundaryInclusive(t *testing.T) {
	rec := issRecord()
	cls, err := Classify(rec, 1e9, "")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	alt := cls.PerigeeAltitudeKm

	// Exactly at the computed altitude the record passes; one km below the
	// altitude (i.e. the record sits one km above the bound) it does not.
	if got := Filter([]model.ElementRecord{rec}, alt, "").Matches(); got != 1 {
		t.Errorf("threshold == altitude: matched %d, want 1 (inclusive bound)", got)
	}
	if got := Filter([]model.ElementRecord{rec}, alt-1, "").Matches(); got != 0 {
		t.Errorf("threshold below altitude: matched %d, want 0", got)
	}
}

func TestFilter_ISSThresholds(t *testing.T) {
	records := []model.ElementRecord{issRecord()}

	if got := Filter(records, 2000, "").Matches(); got != 1 {
		t.Errorf("ISS under 2000 km threshold: matched %d, want 1", got)
	}
	if got := Filter(records, 100, "").Matches(); got != 0 {
		t.Errorf("ISS under 100 km threshold: matched %d, want 0", got)
	}
}

func TestFilter_PreservesInputOrder(t *testing.T) {
	records := []model.ElementRecord{
		{Name: "B-SAT", Line1: hubbleLine1, Line2: hubbleLine2},
		{Name: "A-SAT", Line1: issLine1, Line2: issLine2},
	}

	result := Filter(records, 2000, "")
	if result.Matches() != 2 {
		t.Fatalf("matched %d, want 2", result.Matches())
	}
	if result.Matched[0].Name != "B-SAT" || result.Matched[1].Name != "A-SAT" {
		t.Errorf("filter re-ordered records: got [%s, %s]", result.Matched[0].Name, result.Matched[1].Name)
	}
}

func TestFilter_BadRecordIsIsolated(t *testing.T) {
	// The middle record has a non-numeric mean-motion field. It must be
	// excluded without surfacing an error or affecting its neighbours.
	broken := model.ElementRecord{
		Name:  "BROKEN",
		Line1: issLine1,
		Line2: issLine2[:52] + "XX.XXXXXXXX" + issLine2[63:],
	}
	records := []model.ElementRecord{issRecord(), broken, {Name: hubbleName, Line1: hubbleLine1, Line2: hubbleLine2}}

	result := Filter(records, 2000, "")
	if result.Total != 3 {
		t.Errorf("Total = %d, want 3", result.Total)
	}
	if result.Matches() != 2 {
		t.Fatalf("matched %d, want 2 (broken record excluded, neighbours kept)", result.Matches())
	}
	if result.ExcludedMalformed != 1 {
		t.Errorf("ExcludedMalformed = %d, want 1", result.ExcludedMalformed)
	}
	for _, rec := range result.Matched {
		if rec.Name == "BROKEN" {
			t.Errorf("broken record leaked into the filtered set")
		}
	}
}

func TestFilter_InvalidOrbitCounted(t *testing.T) {
	// Zero mean motion decodes fine but describes no orbit.
	zeroMotion := model.ElementRecord{
		Name:  "DEAD",
		Line1: issLine1,
		Line2: issLine2[:52] + " 0.00000000" + issLine2[63:],
	}

	result := Filter([]model.ElementRecord{zeroMotion}, 2000, "")
	if result.Matches() != 0 {
		t.Fatalf("matched %d, want 0", result.Matches())
	}
	if result.ExcludedInvalid != 1 {
		t.Errorf("ExcludedInvalid = %d, want 1", result.ExcludedInvalid)
	}
	if result.Excluded() != 1 {
		t.Errorf("Excluded() = %d, want 1", result.Excluded())
	}
}

func TestFilter_EmptyNameMatchesUnnamedRecords(t *testing.T) {
	rec := issRecord()
	rec.Name = ""
	if got := Filter([]model.ElementRecord{rec}, 2000, "").Matches(); got != 1 {
		t.Errorf("empty filter on unnamed record: matched %d, want 1", got)
	}
	if got := Filter([]model.ElementRecord{rec}, 2000, "iss").Matches(); got != 0 {
		t.Errorf("substring filter on unnamed record: matched %d, want 0", got)
	}
}

func TestClassify_ReportsAltitude(t *testing.T) {
	cls, err := Classify(issRecord(), 2000, "")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if !cls.Passes {
		t.Errorf("ISS should pass a 2000 km threshold")
	}
	if cls.PerigeeAltitudeKm < 300 || cls.PerigeeAltitudeKm > 500 {
		t.Errorf("ISS perigee altitude = %.1f km, want a LEO-plausible value", cls.PerigeeAltitudeKm)
	}
}
