package summarizer

import (
	"fmt"
	"strings"
)

type Length string

const (
	LengthShort    Length = "short"
	LengthMedium   Length = "medium"
	LengthDetailed Length = "detailed"
)

// Scope says whether a request covers one source or the whole batch.
type Scope int

const (
	ScopeSingle Scope = iota
	ScopeOverall
)

func ParseLength(s string) (Length, error) {
	switch l := Length(strings.ToLower(strings.TrimSpace(s))); l {
	case LengthShort, LengthMedium, LengthDetailed:
		return l, nil
	default:
		return "", fmt.Errorf("unknown summary length %q (want short, medium or detailed)", s)
	}
}

func (l Length) Phrase() string {
	switch l {
	case LengthShort:
		return "2–3 sentences"
	case LengthMedium:
		return "1–2 paragraphs"
	case LengthDetailed:
		return "a detailed summary"
	default:
		return LengthMedium.Phrase()
	}
}

// Instruction builds the instruction line placed before the text body.
func Instruction(l Length, scope Scope) string {
	if scope == ScopeOverall {
		return fmt.Sprintf(
			"Summarize the following documents together as one overall summary in %s. "+
				"Each document starts with its number and filename.",
			l.Phrase(),
		)
	}

	return fmt.Sprintf("Summarize this text in %s.", l.Phrase())
}
