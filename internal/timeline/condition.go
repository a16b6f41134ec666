package timeline

import (
	"fmt"
	"regexp"
	"strconv"

	"golang.org/x/text/unicode/norm"

	"github.com/trialmesh/usdm-timeline/internal/diag"
)

// compareOp is a day-count comparison extracted from condition text.
type compareOp byte

const (
	opNone compareOp = iota
	opLess
	opGreater
	opEquals
)

// eval applies the comparison.
func (o compareOp) eval(a, b int64) bool {
	switch o {
	case opLess:
		return a < b
	case opGreater:
		return a > b
	case opEquals:
		return a == b
	default:
		return false
	}
}

// The match may sit anywhere in the text: "If days > 5 then stop"
// yields (opGreater, 5).
var daysConditionRE = regexp.MustCompile(`(?i)days?\s*([<>=])\s*(\d+)`)

// daysCondition parses free condition text as a day-count comparison.
// Text is NFC-normalized before matching; narrative fields arrive from
// authoring tools with mixed Unicode forms. Returns (opNone, 0, false)
// when the text holds no recognizable comparison; parse failures on the
// matched integer are reported to the sink and treated the same way.
func daysCondition(text string, sink diag.Sink) (compareOp, int64, bool) {
	m := daysConditionRE.FindStringSubmatch(norm.NFC.String(text))
	if m == nil {
		return opNone, 0, false
	}
	n, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		sink.Exception(fmt.Sprintf("Cannot parse day condition %q", text), err, diag.Loc("timeline", "daysCondition"))
		return opNone, 0, false
	}
	switch m[1] {
	case "<":
		return opLess, n, true
	case ">":
		return opGreater, n, true
	case "=":
		return opEquals, n, true
	}
	return opNone, 0, false
}
