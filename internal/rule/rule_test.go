package rule

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestApplyStem(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		rule Rule
		stem string
		ctx  Context
		want string
	}{
		{"prefix", Prefix("IMG_"), "beach", Context{}, "IMG_beach"},
		{"suffix", Suffix("_v2"), "report", Context{}, "report_v2"},
		{"replace_all_occurrences", FindReplace("foo", "bar", false), "foofoo", Context{}, "barbar"},
		{"replace_no_match", FindReplace("xyz", "abc", false), "photo", Context{}, "photo"},
		{"replace_empty_result", FindReplace("photo", "", false), "photo", Context{}, ""},
		{"case_upper", Case(CaseUpper), "notes", Context{}, "NOTES"},
		{"case_lower", Case(CaseLower), "README", Context{}, "readme"},
		{"case_title", Case(CaseTitle), "my vacation photos", Context{}, "My Vacation Photos"},
		{"case_title_separators", Case(CaseTitle), "my_trip-log.final", Context{}, "My_Trip-Log.Final"},
		{"number_suffix", Numbering(1, 1, 3, PositionSuffix), "a", Context{Index: 0, Count: 3}, "a_001"},
		{"number_suffix_third", Numbering(1, 1, 3, PositionSuffix), "c", Context{Index: 2, Count: 3}, "c_003"},
		{"number_prefix", Numbering(10, 5, 2, PositionPrefix), "x", Context{Index: 1, Count: 2}, "15_x"},
		{"number_width_expands", Numbering(1, 1, 1, PositionSuffix), "f", Context{Index: 11, Count: 12}, "f_12"},
		{"date_prefix", DateStamp("2006-01-02", PositionPrefix), "log", Context{Now: now}, "2024-03-15_log"},
		{"date_suffix", DateStamp("20060102", PositionSuffix), "log", Context{Now: now}, "log_20240315"},
		{"extension_passthrough", Extension(ExtLower, ""), "Name", Context{}, "Name"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.rule.ApplyStem(tc.stem, tc.ctx)
			if got != tc.want {
				t.Errorf("ApplyStem(%q) = %q, want %q", tc.stem, got, tc.want)
			}
		})
	}
}

func TestApplyStemRegex(t *testing.T) {
	r := FindReplace(`(\d+)`, "[$1]", true)
	ctx := Context{Regex: regexp.MustCompile(r.Find)}
	got := r.ApplyStem("track12", ctx)
	if got != "track[12]" {
		t.Errorf("ApplyStem regex = %q, want %q", got, "track[12]")
	}
}

func TestApplyExt(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		ext  string
		want string
	}{
		{"lower", Extension(ExtLower, ""), ".JPG", ".jpg"},
		{"upper", Extension(ExtUpper, ""), ".txt", ".TXT"},
		{"replace", Extension(ExtReplace, "jpeg"), ".jpg", ".jpeg"},
		{"replace_empty_strips", Extension(ExtReplace, ""), ".jpg", ""},
		{"non_extension_rule", Prefix("x"), ".jpg", ".jpg"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.rule.ApplyExt(tc.ext)
			if got != tc.want {
				t.Errorf("ApplyExt(%q) = %q, want %q", tc.ext, got, tc.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		wantErr bool
	}{
		{"prefix_ok", Prefix("x"), false},
		{"prefix_empty_ok", Prefix(""), false},
		{"find_empty", FindReplace("", "y", false), true},
		{"regex_ok", FindReplace(`\d+`, "", true), false},
		{"regex_invalid", FindReplace("[unclosed", "", true), true},
		{"numbering_ok", Numbering(1, 1, 3, PositionSuffix), false},
		{"numbering_zero_step", Numbering(1, 0, 3, PositionSuffix), true},
		{"numbering_negative_width", Numbering(1, 1, -1, PositionSuffix), true},
		{"numbering_bad_position", Numbering(1, 1, 3, Position("middle")), true},
		{"case_ok", Case(CaseTitle), false},
		{"case_unknown", Case(CaseMode("sponge")), true},
		{"date_ok", DateStamp("2006", PositionPrefix), false},
		{"date_empty_format", DateStamp("", PositionPrefix), true},
		{"date_bad_position", DateStamp("2006", Position("inline")), true},
		{"ext_ok", Extension(ExtLower, ""), false},
		{"ext_replace_ok", Extension(ExtReplace, "md"), false},
		{"ext_replace_invalid_chars", Extension(ExtReplace, "m/d"), true},
		{"ext_replace_embedded_dot", Extension(ExtReplace, "tar.gz"), true},
		{"ext_unknown_mode", Extension(ExtMode("strip"), ""), true},
		{"unknown_kind", Rule{Kind: Kind("bogus")}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.rule.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestNumberWidthExpansion(t *testing.T) {
	// A two digit width cannot hold the 150th counter value; the padding
	// widens so the batch never produces colliding numbers.
	r := Numbering(1, 1, 2, PositionSuffix)
	tests := []struct {
		index int
		count int
		want  string
	}{
		{0, 150, "s_001"},
		{99, 150, "s_100"},
		{149, 150, "s_150"},
	}
	for _, tc := range tests {
		got := r.ApplyStem("s", Context{Index: tc.index, Count: tc.count})
		if got != tc.want {
			t.Errorf("ApplyStem index %d of %d = %q, want %q", tc.index, tc.count, got, tc.want)
		}
	}
}

func TestNumberingNegativeValues(t *testing.T) {
	r := Numbering(5, -5, 2, PositionSuffix)
	got := r.ApplyStem("s", Context{Index: 2, Count: 3})
	if got != "s_-05" {
		t.Errorf("ApplyStem = %q, want %q", got, "s_-05")
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		rule Rule
		want string
	}{
		{Prefix("IMG_"), `prefix "IMG_"`},
		{FindReplace("a", "b", false), `replace "a" with "b"`},
		{FindReplace(`\d`, "n", true), `replace /\d/ with "n"`},
		{Numbering(1, 1, 3, PositionSuffix), "number from 1 step 1 width 3 (suffix)"},
		{Extension(ExtReplace, "md"), "extension -> .md"},
	}
	for _, tc := range tests {
		if got := tc.rule.Describe(); got != tc.want {
			t.Errorf("Describe() = %q, want %q", got, tc.want)
		}
	}
}

func TestRuleRoundTripThroughContext(t *testing.T) {
	// A pipeline should be reproducible: the same rules, order and context
	// produce the same names.
	rules := []Rule{
		FindReplace(" ", "_", false),
		Case(CaseLower),
		Prefix("2024_"),
	}
	apply := func(stem string) string {
		for _, r := range rules {
			stem = r.ApplyStem(stem, Context{})
		}
		return stem
	}
	first := apply("My Holiday Snaps")
	second := apply("My Holiday Snaps")
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("pipeline not deterministic (-first +second):\n%s", diff)
	}
	if first != "2024_my_holiday_snaps" {
		t.Errorf("pipeline = %q, want %q", first, "2024_my_holiday_snaps")
	}
}
