// Package qualifiers classifies TRTH qualifier strings into boolean flag
// sets. A qualifier string is a semicolon-separated list of tokens, each a
// code followed by a bracketed tag, e.g. "R [PRC_QL_CD]" or "ODT[IRGCOND]".
//
// Matching rules are declarative table entries consumed by one evaluator.
// Trade rules test substring containment of the code in the token prefix;
// quote rules require exact equality of the stripped prefix. The asymmetry
// is deliberate and preserved from the historical classification.
package qualifiers

import "strings"

// MatchKind selects how a rule's code is compared against a token prefix.
type MatchKind int

const (
	// MatchContains matches when the prefix contains the code anywhere.
	MatchContains MatchKind = iota
	// MatchEquals matches when the whitespace-stripped prefix equals the code.
	MatchEquals
)

// TagSuffix pairs a recognized bracketed tag ending with the number of
// trailing characters to strip from the token to obtain the code prefix.
// The strip width is not always the suffix length: trade feeds emit several
// tags ending in "_TEXT]" that share a ten character tail.
type TagSuffix struct {
	Suffix string
	Strip  int
}

// Rule describes one flag's matching rule. A token matches when, under the
// first TagSuffix whose suffix it carries, the derived prefix matches Code
// per Kind, or when the token equals one of the Tokens literals exactly.
type Rule struct {
	Name   string
	Kind   MatchKind
	Code   string
	Tags   []TagSuffix
	Tokens []string
}

// Match reports whether any token of the qualifier string satisfies the rule.
func (r Rule) Match(qualifier string) bool {
	for _, raw := range strings.Split(qualifier, ";") {
		token := strings.TrimSpace(raw)
		if r.matchToken(token) {
			return true
		}
	}
	return false
}

func (r Rule) matchToken(token string) bool {
	for _, tag := range r.Tags {
		if !strings.HasSuffix(token, tag.Suffix) {
			continue
		}
		if len(token) < tag.Strip {
			return false
		}
		prefix := token[:len(token)-tag.Strip]
		switch r.Kind {
		case MatchContains:
			return strings.Contains(prefix, r.Code)
		case MatchEquals:
			return strings.TrimSpace(prefix) == r.Code
		}
		return false
	}
	for _, lit := range r.Tokens {
		if token == lit {
			return true
		}
	}
	return false
}

// Trade feeds tag codes with "..._TEXT]" (strip 10) or "[LSTSALCOND]"
// (strip 12); quote feeds tag with "[PRC_QL_CD]" (strip 11) or "[PRC_QL3]"
// (strip 9).
var (
	tradeTags = []TagSuffix{{Suffix: "_TEXT]", Strip: 10}, {Suffix: "[LSTSALCOND]", Strip: 12}}
	quoteTags = []TagSuffix{{Suffix: "[PRC_QL_CD]", Strip: 11}, {Suffix: "[PRC_QL3]", Strip: 9}}
)

func tradeRule(name, code string, tokens ...string) Rule {
	return Rule{Name: name, Kind: MatchContains, Code: code, Tags: tradeTags, Tokens: tokens}
}

func quoteRule(name, code string) Rule {
	return Rule{Name: name, Kind: MatchEquals, Code: code, Tags: quoteTags}
}

// TradeRules is the trade qualifier rule table, in output column order.
var TradeRules = []Rule{
	tradeRule("FormT", "T"),
	tradeRule("Opening", "O", "O [CTS_QUAL]"),
	tradeRule("Closing", "6"),
	tradeRule("Cross", "X"),
	tradeRule("Sweep", "F"),
	tradeRule("NextDay", "N"),
	tradeRule("Bunched", "B"),
	tradeRule("PriorRefPrice", "P"),
	tradeRule("ExtendedHoursSOoS", "U"),
	tradeRule("DerivativelyPriced", "4"),
	tradeRule("AverageTradePrice", "W"),
	tradeRule("CashSale", "C"),
	tradeRule("SoldOutOfSequence", "Z"),
	{Name: "OddLot", Tokens: []string{"ODT[IRGCOND]", "ODD[IRGCOND]"}},
}

// QuoteRules is the quote qualifier rule table, in output column order.
var QuoteRules = []Rule{
	quoteRule("Regular", "R"),
	quoteRule("Opening", "OQ"),
	quoteRule("Closing", "CQ"),
	quoteRule("NoQuote", "NQ"),
}
