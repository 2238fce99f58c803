package cmd

import (
	"strings"
	"testing"
	"time"

	"simplerename/internal/rule"

	"github.com/google/go-cmp/cmp"
)

func resetFlags() {
	applyNow = false
	overwrite = false
	include = ""
	prefixText = ""
	suffixText = ""
	findText = ""
	replaceText = ""
	useRegex = false
	caseMode = ""
	dateFormat = ""
	datePosition = "prefix"
	extPolicy = ""
	presetName = ""
	numberFiles = false
	numberStart = 1
	numberStep = 1
	numberWidth = 3
	numberPosition = "suffix"
}

func TestBuildRulesEmpty(t *testing.T) {
	resetFlags()
	rules, err := buildRules()
	if err != nil {
		t.Fatalf("buildRules() = %v", err)
	}
	if len(rules) != 0 {
		t.Errorf("rules = %v, want none", rules)
	}
}

func TestBuildRulesFixedOrder(t *testing.T) {
	resetFlags()
	findText = "old"
	replaceText = "new"
	caseMode = "lower"
	prefixText = "pre_"
	suffixText = "_post"
	numberFiles = true
	dateFormat = "2006"
	extPolicy = "lower"

	rules, err := buildRules()
	if err != nil {
		t.Fatalf("buildRules() = %v", err)
	}
	want := []rule.Kind{
		rule.KindFindReplace,
		rule.KindCase,
		rule.KindPrefix,
		rule.KindSuffix,
		rule.KindNumbering,
		rule.KindDateStamp,
		rule.KindExtension,
	}
	got := make([]rule.Kind, len(rules))
	for i, r := range rules {
		got[i] = r.Kind
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rule order mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildRulesExtensionPolicies(t *testing.T) {
	tests := []struct {
		policy string
		want   rule.Rule
	}{
		{"lower", rule.Extension(rule.ExtLower, "")},
		{"upper", rule.Extension(rule.ExtUpper, "")},
		{"jpeg", rule.Extension(rule.ExtReplace, "jpeg")},
		{".jpeg", rule.Extension(rule.ExtReplace, "jpeg")},
	}
	for _, tc := range tests {
		resetFlags()
		extPolicy = tc.policy
		rules, err := buildRules()
		if err != nil {
			t.Fatalf("buildRules(%q) = %v", tc.policy, err)
		}
		if len(rules) != 1 || rules[0] != tc.want {
			t.Errorf("buildRules(%q) = %v, want [%v]", tc.policy, rules, tc.want)
		}
	}
}

func TestBuildRulesInvalidRule(t *testing.T) {
	resetFlags()
	findText = "[unclosed"
	useRegex = true
	_, err := buildRules()
	if err == nil {
		t.Fatal("buildRules() accepted an invalid regex")
	}
	if !strings.Contains(err.Error(), "rule 1") {
		t.Errorf("error = %v, want rule index in message", err)
	}
}

func TestBuildRulesUnknownPreset(t *testing.T) {
	resetFlags()
	presetName = "no-such-preset"
	_, err := buildRules()
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("buildRules() = %v, want preset-not-found error", err)
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		age  time.Duration
		want string
	}{
		{30 * time.Second, "moments ago"},
		{90 * time.Second, "moments ago"},
		{5 * time.Minute, "5m ago"},
		{59 * time.Minute, "59m ago"},
		{3 * time.Hour, "3h ago"},
		{36 * time.Hour, "36h ago"},
		{3 * 24 * time.Hour, "3d ago"},
		{13 * 24 * time.Hour, "13d ago"},
	}
	for _, tc := range tests {
		if got := formatAge(time.Now().Add(-tc.age)); got != tc.want {
			t.Errorf("formatAge(-%v) = %q, want %q", tc.age, got, tc.want)
		}
	}
	old := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	if got := formatAge(old); got != "2020-01-02" {
		t.Errorf("formatAge(old) = %q, want %q", got, "2020-01-02")
	}
}
