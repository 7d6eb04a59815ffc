package question

import (
	"fmt"
	"math"
	"strings"

	"github.com/tidwall/gjson"
)

// Basis selects how raw correctIndex values are interpreted.
type Basis string

const (
	// BasisAuto infers the basis from the whole batch.
	BasisAuto Basis = "auto"
	// BasisZero treats raw indices as 0-based.
	BasisZero Basis = "zero"
	// BasisOne treats raw indices as 1-based.
	BasisOne Basis = "one"
)

// ParseBasis converts a configuration string to a Basis.
// The empty string maps to BasisAuto.
func ParseBasis(s string) (Basis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return BasisAuto, nil
	case "zero", "0":
		return BasisZero, nil
	case "one", "1":
		return BasisOne, nil
	}
	return "", fmt.Errorf("unknown index basis %q (want auto, zero or one)", s)
}

// Options tunes normalization.
type Options struct {
	// Basis overrides index-basis detection. Zero value means BasisAuto.
	Basis Basis
}

// Report describes what normalization did to a batch.
type Report struct {
	// Requested is the basis asked for (auto, zero or one).
	Requested Basis
	// Applied is the basis actually used: BasisZero or BasisOne.
	Applied Basis
	// Input is the number of raw records.
	Input int
	// Kept is the number of questions produced.
	Kept int
	// Dropped is the number of records excluded as unusable.
	Dropped int
	// Repaired counts kept questions whose index equalled len(options).
	Repaired int
	// Clamped counts kept questions whose index was forced into range.
	Clamped int
}

// Detected reports whether the applied basis was inferred rather than forced.
func (r Report) Detected() bool {
	return r.Requested == BasisAuto || r.Requested == ""
}

func (r Report) String() string {
	how := "forced"
	if r.Detected() {
		how = "detected"
	}
	return fmt.Sprintf("basis=%s (%s) input=%d kept=%d dropped=%d repaired=%d clamped=%d",
		r.Applied, how, r.Input, r.Kept, r.Dropped, r.Repaired, r.Clamped)
}

// rawRecord is a raw record coerced into loose Go types.
type rawRecord struct {
	text        string
	options     []string
	index       int
	indexValid  bool
	explanation string
	category    string
	subcategory string
}

// Normalize converts loosely-typed records into valid questions using
// automatic basis detection. Unusable records are silently dropped.
func Normalize(records []gjson.Result) []Question {
	qs, _ := NormalizeWithReport(records, Options{})
	return qs
}

// NormalizeWithReport converts loosely-typed records into valid questions
// and reports the decisions taken. It never fails; the worst case for a
// record is exclusion.
//
// With BasisAuto the whole batch is treated as 1-based when no record has a
// raw index of 0 and every raw index lies in [1, len(options)]. Mixed-basis
// batches are not supported. A legitimately 0-based batch in which no answer
// happens to be the first option is misread as 1-based; use BasisZero for
// such sources.
func NormalizeWithReport(records []gjson.Result, opts Options) ([]Question, Report) {
	requested := opts.Basis
	if requested == "" {
		requested = BasisAuto
	}
	report := Report{Requested: requested, Input: len(records)}

	prelim := make([]rawRecord, len(records))
	for i, r := range records {
		prelim[i] = coerce(r)
	}

	report.Applied = applyBasis(requested, prelim)
	shift := report.Applied == BasisOne

	out := make([]Question, 0, len(prelim))
	for _, p := range prelim {
		idx, repaired, clamped := resolveIndex(p, shift)
		if p.text == "" || len(p.options) == 0 || idx < 0 || idx >= len(p.options) {
			report.Dropped++
			continue
		}
		if repaired {
			report.Repaired++
		}
		if clamped {
			report.Clamped++
		}
		out = append(out, Question{
			Text:         p.text,
			Options:      p.options,
			CorrectIndex: idx,
			Explanation:  p.explanation,
			Category:     p.category,
			Subcategory:  p.subcategory,
		})
	}
	report.Kept = len(out)
	return out, report
}

// DetectBasis runs only the dataset-wide basis heuristic.
func DetectBasis(records []gjson.Result) Basis {
	prelim := make([]rawRecord, len(records))
	for i, r := range records {
		prelim[i] = coerce(r)
	}
	return applyBasis(BasisAuto, prelim)
}

func applyBasis(requested Basis, prelim []rawRecord) Basis {
	switch requested {
	case BasisZero:
		return BasisZero
	case BasisOne:
		return BasisOne
	}
	if len(prelim) == 0 {
		return BasisZero
	}
	for _, p := range prelim {
		if p.indexValid && p.index == 0 {
			return BasisZero
		}
	}
	for _, p := range prelim {
		if !p.indexValid || p.index < 1 || p.index > len(p.options) {
			return BasisZero
		}
	}
	return BasisOne
}

// resolveIndex applies the basis shift, the one-past-the-end repair and
// clamping to a single record.
func resolveIndex(p rawRecord, shift bool) (idx int, repaired, clamped bool) {
	n := len(p.options)
	if !p.indexValid {
		return 0, false, true
	}

	idx = p.index
	if shift {
		idx--
	}

	if n > 0 && idx == n {
		return n - 1, true, false
	}

	switch {
	case idx < 0:
		return 0, false, true
	case idx > n-1:
		return max(0, n-1), false, true
	}
	return idx, false, false
}

func coerce(r gjson.Result) rawRecord {
	rec := rawRecord{
		text:        stringField(r.Get("question")),
		options:     optionsField(r.Get("options")),
		explanation: firstString(r, "correctexplation", "correctExplanation", "explanation"),
		category:    stringField(r.Get("category")),
		subcategory: stringField(r.Get("subcategory")),
	}
	rec.index, rec.indexValid = indexField(r.Get("correctIndex"))
	return rec
}

func stringField(v gjson.Result) string {
	if !v.Exists() || v.Type == gjson.Null {
		return ""
	}
	return v.String()
}

func firstString(r gjson.Result, keys ...string) string {
	for _, k := range keys {
		v := r.Get(k)
		if v.Exists() && v.Type != gjson.Null {
			return v.String()
		}
	}
	return ""
}

func optionsField(v gjson.Result) []string {
	if !v.IsArray() {
		return nil
	}
	elems := v.Array()
	out := make([]string, len(elems))
	for i, e := range elems {
		out[i] = stringField(e)
	}
	return out
}

// indexField accepts integral JSON numbers and strings with a leading
// decimal integer. Out-of-int32 magnitudes saturate so they still clamp to
// the nearest end of the option range.
func indexField(v gjson.Result) (int, bool) {
	switch v.Type {
	case gjson.Number:
		f := v.Num
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return 0, false
		}
		return saturate(f), true
	case gjson.String:
		return parseLeadingInt(v.Str)
	}
	return 0, false
}

func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	var f float64
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		f = f*10 + float64(s[digits]-'0')
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		f = -f
	}
	return saturate(f), true
}

func saturate(f float64) int {
	switch {
	case f > math.MaxInt32:
		return math.MaxInt32
	case f < math.MinInt32:
		return math.MinInt32
	}
	return int(f)
}
