// Package titleparse extracts the money amount, check number, and
// keyword text from a scheduled transaction's title, e.g.
// "Rent $-950 #104 [split with roommate]".
package titleparse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Title is the parsed form of a scheduled transaction title.
type Title struct {
	Amount      int64 // cents; meaningful only when HasAmount
	HasAmount   bool
	CheckNumber int // 0 = none
	Stuff       string // title text minus amounts, check numbers, and comments
	Comments    []string
}

var (
	commentRx = regexp.MustCompile(`\[[^\]]*\]`)
	amountRx  = regexp.MustCompile(`^\$?[-+]?[0-9][0-9,]*(\.[0-9]+)?$`)
	checkRx   = regexp.MustCompile(`^#[0-9]+$`)
	wordRx    = regexp.MustCompile(`[^a-z0-9]+`)
)

// Parse tokenizes a title. Bracketed comments are stripped first, then
// each whitespace-separated token is classified as an amount, a check
// number, or plain text. Dollar-signed amounts win over bare numbers;
// among equals the first occurrence wins. Only the first check number
// counts; later "#N" tokens are treated as plain text.
func Parse(s string) Title {
	var t Title

	s = commentRx.ReplaceAllStringFunc(s, func(m string) string {
		t.Comments = append(t.Comments, strings.TrimSpace(m[1:len(m)-1]))
		return " "
	})

	var stuff []string
	var bareAmount int64
	var haveBare, haveDollar bool

	for _, tok := range strings.Fields(s) {
		switch {
		case amountRx.MatchString(tok):
			dollar := strings.HasPrefix(tok, "$")
			cents, ok := toCents(strings.TrimPrefix(tok, "$"))
			if !ok {
				stuff = append(stuff, tok)
				continue
			}
			if dollar && !haveDollar {
				t.Amount, t.HasAmount = cents, true
				haveDollar = true
			} else if !dollar && !haveBare {
				bareAmount, haveBare = cents, true
			}
		case checkRx.MatchString(tok):
			if t.CheckNumber == 0 {
				n, err := strconv.Atoi(tok[1:])
				if err == nil && n > 0 {
					t.CheckNumber = n
					continue
				}
			}
			stuff = append(stuff, tok)
		default:
			stuff = append(stuff, tok)
		}
	}

	if !haveDollar && haveBare {
		t.Amount, t.HasAmount = bareAmount, true
	}
	t.Stuff = strings.Join(stuff, " ")
	return t
}

// Keywords returns the normalized words of the title's plain text,
// suitable for containment checks against a bank memo.
func (t Title) Keywords() []string {
	return SplitWords(t.Stuff)
}

// SplitWords lowercases s, collapses punctuation to spaces, and splits.
func SplitWords(s string) []string {
	s = strings.ToLower(s)
	return strings.Fields(wordRx.ReplaceAllString(s, " "))
}

// toCents converts a decimal dollar string to whole cents, truncating
// sub-cent precision.
func toCents(s string) (int64, bool) {
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	return d.Mul(decimal.NewFromInt(100)).IntPart(), true
}
