package runner

import "fmt"

// Kind classifies the result of comparing captured output with the
// expectation.
type Kind int

const (
	Pass Kind = iota
	Extraneous
	Missing
	Mismatch
)

func (k Kind) String() string {
	switch k {
	case Pass:
		return "pass"
	case Extraneous:
		return "extraneous"
	case Missing:
		return "missing"
	case Mismatch:
		return "mismatch"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is the verdict for one test case. Index, Expected and Got are
// only set for Mismatch.
type Outcome struct {
	Kind     Kind
	Index    int
	Expected string
	Got      string
}

func (o Outcome) Error() string {
	switch o.Kind {
	case Extraneous:
		return "Extraneous keys."
	case Missing:
		return "Missing keys."
	case Mismatch:
		return fmt.Sprintf("mismatch at position %d: expected %s got %s", o.Index, o.Expected, o.Got)
	default:
		return ""
	}
}

// Compare checks got against expected. A length difference is reported
// as such and never as a content mismatch.
func Compare(expected, got []string) Outcome {
	if len(got) > len(expected) {
		return Outcome{Kind: Extraneous}
	}
	if len(got) < len(expected) {
		return Outcome{Kind: Missing}
	}
	for i := range expected {
		if got[i] != expected[i] {
			return Outcome{Kind: Mismatch, Index: i, Expected: expected[i], Got: got[i]}
		}
	}
	return Outcome{Kind: Pass}
}
