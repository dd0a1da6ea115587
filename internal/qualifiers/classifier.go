package qualifiers

import "trthcli/pkg/contracts/domain"

// TradeClassifier evaluates the trade rule table with per-string
// memoization. The distinct qualifier strings in a batch are few relative
// to rows, so each string is classified once and the flags reused. A
// classifier is scoped to one batch and is not safe for concurrent use.
type TradeClassifier struct {
	memo map[string]domain.TradeFlags
}

// NewTradeClassifier creates a classifier with an empty memo table.
func NewTradeClassifier() *TradeClassifier {
	return &TradeClassifier{memo: make(map[string]domain.TradeFlags)}
}

// Classify returns the trade flags for a qualifier string. Empty or
// unrecognized strings yield all-false flags.
func (c *TradeClassifier) Classify(qualifier string) domain.TradeFlags {
	if flags, ok := c.memo[qualifier]; ok {
		return flags
	}
	flags := ClassifyTrade(qualifier)
	c.memo[qualifier] = flags
	return flags
}

// ClassifyTrade evaluates the trade rule table without memoization.
func ClassifyTrade(qualifier string) domain.TradeFlags {
	var flags domain.TradeFlags
	for i, rule := range TradeRules {
		if rule.Match(qualifier) {
			*tradeFlagFields(&flags)[i] = true
		}
	}
	return flags
}

// tradeFlagFields maps rule table positions onto flag struct fields.
func tradeFlagFields(f *domain.TradeFlags) []*bool {
	return []*bool{
		&f.FormT, &f.Opening, &f.Closing, &f.Cross, &f.Sweep, &f.NextDay,
		&f.Bunched, &f.PriorRefPrice, &f.ExtendedHoursSOoS,
		&f.DerivativelyPriced, &f.AverageTradePrice, &f.CashSale,
		&f.SoldOutOfSequence, &f.OddLot,
	}
}

// QuoteClassifier evaluates the quote rule table with per-string
// memoization. Same batch scoping as TradeClassifier.
type QuoteClassifier struct {
	memo map[string]domain.QuoteFlags
}

// NewQuoteClassifier creates a classifier with an empty memo table.
func NewQuoteClassifier() *QuoteClassifier {
	return &QuoteClassifier{memo: make(map[string]domain.QuoteFlags)}
}

// Classify returns the quote flags for a qualifier string.
func (c *QuoteClassifier) Classify(qualifier string) domain.QuoteFlags {
	if flags, ok := c.memo[qualifier]; ok {
		return flags
	}
	flags := ClassifyQuote(qualifier)
	c.memo[qualifier] = flags
	return flags
}

// ClassifyQuote evaluates the quote rule table without memoization.
func ClassifyQuote(qualifier string) domain.QuoteFlags {
	var flags domain.QuoteFlags
	for i, rule := range QuoteRules {
		if rule.Match(qualifier) {
			*quoteFlagFields(&flags)[i] = true
		}
	}
	return flags
}

func quoteFlagFields(f *domain.QuoteFlags) []*bool {
	return []*bool{&f.Regular, &f.Opening, &f.Closing, &f.NoQuote}
}
