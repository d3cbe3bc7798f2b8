package screenshot

import (
	"errors"
	"strings"
	"testing"

	"github.com/devicelab-dev/screenpull/pkg/core"
)

func TestDecode_Valid(t *testing.T) {
	name := "Run_20240115_143022__Test_testLogin__Step_01__143025_123__initial.png"

	r, err := Decode(name)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if r.Session != "20240115_143022" {
		t.Errorf("Session = %q, want %q", r.Session, "20240115_143022")
	}
	if r.TestName != "testLogin" {
		t.Errorf("TestName = %q, want %q", r.TestName, "testLogin")
	}
	if r.Step != 1 {
		t.Errorf("Step = %d, want 1", r.Step)
	}
	if r.Timestamp != "143025_123" {
		t.Errorf("Timestamp = %q, want %q", r.Timestamp, "143025_123")
	}
	if r.Description != "initial" {
		t.Errorf("Description = %q, want %q", r.Description, "initial")
	}
}

func TestDecode_StripsLeadingPath(t *testing.T) {
	r, err := Decode("/sdcard/Pictures/screenshots/Run_s1__Test_t1__Step_02__100000_000__cart.png")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if r.TestName != "t1" || r.Step != 2 {
		t.Errorf("got %+v, want t1 step 2", r)
	}
}

func TestDecode_EmbeddedUnderscores(t *testing.T) {
	// Single underscores inside fields are legal; only the "__"
	// delimiter splits fields.
	r, err := Decode("Run_run_a__Test_foo_bar__Step_10__12_34__tap_submit.png")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if r.Session != "run_a" {
		t.Errorf("Session = %q, want run_a", r.Session)
	}
	if r.TestName != "foo_bar" {
		t.Errorf("TestName = %q, want foo_bar", r.TestName)
	}
	if r.Description != "tap_submit" {
		t.Errorf("Description = %q, want tap_submit", r.Description)
	}
}

func TestDecode_Malformed(t *testing.T) {
	cases := []struct {
		name     string
		filename string
	}{
		{"not a screenshot", "not_a_screenshot.png"},
		{"wrong extension case", "Run_s__Test_t__Step_01__ts__d.PNG"},
		{"missing extension", "Run_s__Test_t__Step_01__ts__d"},
		{"too few segments", "Run_s__Test_t__Step_01__d.png"},
		{"too many segments", "Run_s__Test_t__Step_01__ts__d__extra.png"},
		{"missing Run prefix", "Ron_s__Test_t__Step_01__ts__d.png"},
		{"missing Test prefix", "Run_s__Best_t__Step_01__ts__d.png"},
		{"missing Step prefix", "Run_s__Test_t__Stop_01__ts__d.png"},
		{"non-numeric step", "Run_s__Test_t__Step_xx__ts__d.png"},
		{"negative step", "Run_s__Test_t__Step_-1__ts__d.png"},
		{"signed step", "Run_s__Test_t__Step_+1__ts__d.png"},
		{"empty step", "Run_s__Test_t__Step___ts__d.png"},
		{"empty", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.filename)
			if err == nil {
				t.Fatalf("Decode(%q) succeeded, want malformed_name", tc.filename)
			}
			if !errors.Is(err, core.ErrMalformedName) {
				t.Errorf("Decode(%q) error = %v, want malformed_name", tc.filename, err)
			}
		})
	}
}

func TestDecode_PartialMatchRejected(t *testing.T) {
	// A valid name embedded in extra text must not match.
	_, err := Decode("prefix Run_s__Test_t__Step_01__ts__d.png")
	if err == nil {
		t.Error("expected error for name containing whitespace")
	}
}

func TestEncode_Padding(t *testing.T) {
	cases := []struct {
		step int
		want string
	}{
		{1, "Step_01"},
		{9, "Step_09"},
		{42, "Step_42"},
		{100, "Step_100"},
		{1234, "Step_1234"},
	}

	for _, tc := range cases {
		name := Encode(Record{Session: "s", TestName: "t", Step: tc.step, Timestamp: "ts", Description: "d"})
		if !strings.Contains(name, tc.want+"__") {
			t.Errorf("Encode(step=%d) = %q, want segment %q", tc.step, name, tc.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	records := []Record{
		{Session: "20240115_143022", TestName: "testLogin", Step: 1, Timestamp: "143025_123", Description: "initial"},
		{Session: "s", TestName: "t", Step: 0, Timestamp: "0", Description: "d"},
		{Session: "run_a", TestName: "foo_bar", Step: 99, Timestamp: "12_34", Description: "tap_submit"},
		{Session: "x", TestName: "deep.link", Step: 150, Timestamp: "235959_999", Description: "done-ok"},
	}

	for _, r := range records {
		got, err := Decode(Encode(r))
		if err != nil {
			t.Errorf("Decode(Encode(%+v)) failed: %v", r, err)
			continue
		}
		if got != r {
			t.Errorf("round trip: got %+v, want %+v", got, r)
		}
	}
}

func TestDerivePaths(t *testing.T) {
	r := Record{Session: "20240115_143022", TestName: "testLogin", Step: 2, Timestamp: "x", Description: "submitted"}

	runDir, testDir, stepFile := DerivePaths(r)

	if runDir != "Run_20240115_143022" {
		t.Errorf("runDir = %q", runDir)
	}
	if testDir != "Test_testLogin" {
		t.Errorf("testDir = %q", testDir)
	}
	if stepFile != "Step_02_submitted.png" {
		t.Errorf("stepFile = %q", stepFile)
	}
}

func TestDerivePaths_WideStep(t *testing.T) {
	_, _, stepFile := DerivePaths(Record{Session: "s", TestName: "t", Step: 123, Description: "d"})
	if stepFile != "Step_123_d.png" {
		t.Errorf("stepFile = %q, want Step_123_d.png", stepFile)
	}
}
