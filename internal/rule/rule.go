// Package rule defines the ordered renaming rules applied to file names.
// A rule set is pure data: every variant transforms a working name without
// touching the file system, so rule pipelines can be tested in isolation.
package rule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind discriminates the rule variants. The set is closed; the engine
// switches over it rather than dispatching through an open interface.
type Kind string

const (
	KindPrefix      Kind = "prefix"
	KindSuffix      Kind = "suffix"
	KindFindReplace Kind = "find_replace"
	KindNumbering   Kind = "numbering"
	KindCase        Kind = "case"
	KindDateStamp   Kind = "date_stamp"
	KindExtension   Kind = "extension"
)

// Position selects where positional rules (numbering, date stamps) insert
// their text relative to the working name.
type Position string

const (
	PositionPrefix Position = "prefix"
	PositionSuffix Position = "suffix"
)

// CaseMode enumerates the supported case transforms.
type CaseMode string

const (
	CaseUpper CaseMode = "upper"
	CaseLower CaseMode = "lower"
	CaseTitle CaseMode = "title"
)

// ExtMode enumerates the extension policies. Extension rules are the only
// variant allowed to modify a file's extension.
type ExtMode string

const (
	ExtLower   ExtMode = "lower"
	ExtUpper   ExtMode = "upper"
	ExtReplace ExtMode = "replace"
)

// Rule is one step of a rename pipeline. Only the fields relevant to Kind
// are meaningful; the zero values of the rest are ignored.
type Rule struct {
	Kind Kind `yaml:"kind" json:"kind"`

	// Prefix / Suffix / Extension(replace)
	Text string `yaml:"text,omitempty" json:"text,omitempty"`

	// FindReplace
	Find    string `yaml:"find,omitempty" json:"find,omitempty"`
	Replace string `yaml:"replace,omitempty" json:"replace,omitempty"`
	IsRegex bool   `yaml:"is_regex,omitempty" json:"is_regex,omitempty"`

	// Numbering
	Start int `yaml:"start,omitempty" json:"start,omitempty"`
	Step  int `yaml:"step,omitempty" json:"step,omitempty"`
	Width int `yaml:"width,omitempty" json:"width,omitempty"`

	// Numbering / DateStamp placement
	Position Position `yaml:"position,omitempty" json:"position,omitempty"`

	// Case
	Case CaseMode `yaml:"case,omitempty" json:"case,omitempty"`

	// DateStamp, in Go reference-time layout
	Format string `yaml:"format,omitempty" json:"format,omitempty"`

	// Extension
	Ext ExtMode `yaml:"ext,omitempty" json:"ext,omitempty"`
}

// Prefix returns a rule prepending text to the working name.
func Prefix(text string) Rule { return Rule{Kind: KindPrefix, Text: text} }

// Suffix returns a rule appending text to the working name.
func Suffix(text string) Rule { return Rule{Kind: KindSuffix, Text: text} }

// FindReplace returns a substitution rule. Literal mode replaces all
// non-overlapping occurrences; regex mode compiles the pattern once per
// preview and uses regexp replacement semantics (including $1 references).
func FindReplace(find, replace string, isRegex bool) Rule {
	return Rule{Kind: KindFindReplace, Find: find, Replace: replace, IsRegex: isRegex}
}

// Numbering returns a counter rule producing start, start+step, ... in the
// current visible order, zero padded to width digits.
func Numbering(start, step, width int, pos Position) Rule {
	return Rule{Kind: KindNumbering, Start: start, Step: step, Width: width, Position: pos}
}

// Case returns a case transform rule.
func Case(mode CaseMode) Rule { return Rule{Kind: KindCase, Case: mode} }

// DateStamp returns a rule inserting a formatted timestamp. The timestamp
// itself is supplied by the engine so previews stay deterministic.
func DateStamp(format string, pos Position) Rule {
	return Rule{Kind: KindDateStamp, Format: format, Position: pos}
}

// Extension returns an extension policy rule. For ExtReplace, text is the
// replacement extension without the leading dot.
func Extension(mode ExtMode, text string) Rule {
	return Rule{Kind: KindExtension, Ext: mode, Text: text}
}

// Context carries per-entry state into a rule application.
type Context struct {
	Index int       // position of the entry in the current visible ordering
	Count int       // total entries in the preview, for padding width
	Now   time.Time // timestamp shared by every entry of one preview
	Regex *regexp.Regexp
}

// TargetsExtension reports whether the rule modifies the extension instead
// of the name stem.
func (r Rule) TargetsExtension() bool { return r.Kind == KindExtension }

// Validate checks the rule's parameters without applying it. Regex patterns
// are compiled here so a bad pattern fails the whole preview before any
// name is produced.
func (r Rule) Validate() error {
	switch r.Kind {
	case KindPrefix, KindSuffix:
		return nil
	case KindFindReplace:
		if r.Find == "" {
			return fmt.Errorf("find pattern is empty")
		}
		if r.IsRegex {
			if _, err := regexp.Compile(r.Find); err != nil {
				return fmt.Errorf("invalid regex %q: %w", r.Find, err)
			}
		}
		return nil
	case KindNumbering:
		if r.Step == 0 {
			return fmt.Errorf("numbering step must be non-zero")
		}
		if r.Width < 0 {
			return fmt.Errorf("numbering width must not be negative")
		}
		if r.Position != PositionPrefix && r.Position != PositionSuffix {
			return fmt.Errorf("numbering position must be prefix or suffix")
		}
		return nil
	case KindCase:
		switch r.Case {
		case CaseUpper, CaseLower, CaseTitle:
			return nil
		}
		return fmt.Errorf("unknown case mode %q", r.Case)
	case KindDateStamp:
		if r.Format == "" {
			return fmt.Errorf("date format is empty")
		}
		if r.Position != PositionPrefix && r.Position != PositionSuffix {
			return fmt.Errorf("date position must be prefix or suffix")
		}
		return nil
	case KindExtension:
		switch r.Ext {
		case ExtLower, ExtUpper:
			return nil
		case ExtReplace:
			if strings.ContainsAny(r.Text, `<>:"/\|?*.`) {
				return fmt.Errorf("replacement extension %q contains invalid characters", r.Text)
			}
			return nil
		}
		return fmt.Errorf("unknown extension mode %q", r.Ext)
	}
	return fmt.Errorf("unknown rule kind %q", r.Kind)
}

// ApplyStem transforms the name stem. Extension rules pass the stem through
// untouched; use ApplyExt for those.
func (r Rule) ApplyStem(stem string, ctx Context) string {
	switch r.Kind {
	case KindPrefix:
		return r.Text + stem
	case KindSuffix:
		return stem + r.Text
	case KindFindReplace:
		if r.IsRegex && ctx.Regex != nil {
			return ctx.Regex.ReplaceAllString(stem, r.Replace)
		}
		return strings.ReplaceAll(stem, r.Find, r.Replace)
	case KindNumbering:
		n := r.Start + ctx.Index*r.Step
		num := pad(n, r.numberWidth(ctx.Count))
		if r.Position == PositionPrefix {
			return num + "_" + stem
		}
		return stem + "_" + num
	case KindCase:
		switch r.Case {
		case CaseUpper:
			return strings.ToUpper(stem)
		case CaseLower:
			return strings.ToLower(stem)
		case CaseTitle:
			return titleCase(stem)
		}
	case KindDateStamp:
		stamp := ctx.Now.Format(r.Format)
		if r.Position == PositionPrefix {
			return stamp + "_" + stem
		}
		return stem + "_" + stamp
	}
	return stem
}

// ApplyExt transforms the extension (including the leading dot) for
// extension rules. Non-extension rules return ext unchanged.
func (r Rule) ApplyExt(ext string) string {
	if r.Kind != KindExtension {
		return ext
	}
	switch r.Ext {
	case ExtLower:
		return strings.ToLower(ext)
	case ExtUpper:
		return strings.ToUpper(ext)
	case ExtReplace:
		if r.Text == "" {
			return ""
		}
		return "." + r.Text
	}
	return ext
}

// numberWidth widens the configured padding when it cannot hold the largest
// counter value, so long batches never produce colliding numbers.
func (r Rule) numberWidth(count int) int {
	width := r.Width
	if count > 0 {
		last := r.Start + (count-1)*r.Step
		if w := digits(last); w > width {
			width = w
		}
	}
	if w := digits(r.Start); w > width {
		width = w
	}
	return width
}

func digits(n int) int {
	if n < 0 {
		return len(strconv.Itoa(-n)) + 1
	}
	return len(strconv.Itoa(n))
}

func pad(n, width int) string {
	s := strconv.Itoa(n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	for len(s) < width {
		s = "0" + s
	}
	if neg {
		return "-" + s
	}
	return s
}

// titleCase upper-cases the first letter of each space or separator
// delimited word and lower-cases the rest.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	boundary := true
	for _, c := range s {
		switch {
		case c == ' ' || c == '_' || c == '-' || c == '.':
			boundary = true
			b.WriteRune(c)
		case boundary:
			b.WriteString(strings.ToUpper(string(c)))
			boundary = false
		default:
			b.WriteString(strings.ToLower(string(c)))
		}
	}
	return b.String()
}

// Describe returns a short human readable summary used in error messages
// and the history listing.
func (r Rule) Describe() string {
	switch r.Kind {
	case KindPrefix:
		return fmt.Sprintf("prefix %q", r.Text)
	case KindSuffix:
		return fmt.Sprintf("suffix %q", r.Text)
	case KindFindReplace:
		if r.IsRegex {
			return fmt.Sprintf("replace /%s/ with %q", r.Find, r.Replace)
		}
		return fmt.Sprintf("replace %q with %q", r.Find, r.Replace)
	case KindNumbering:
		return fmt.Sprintf("number from %d step %d width %d (%s)", r.Start, r.Step, r.Width, r.Position)
	case KindCase:
		return fmt.Sprintf("case %s", r.Case)
	case KindDateStamp:
		return fmt.Sprintf("date %q (%s)", r.Format, r.Position)
	case KindExtension:
		if r.Ext == ExtReplace {
			return fmt.Sprintf("extension -> .%s", r.Text)
		}
		return fmt.Sprintf("extension %s", r.Ext)
	}
	return string(r.Kind)
}
