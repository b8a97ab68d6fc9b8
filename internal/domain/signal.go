package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Side string

const (
	Side_Long    Side = "LONG"
	Side_Short   Side = "SHORT"
	Side_Neutral Side = "NEUTRAL"
)

// SignalPoint is the ranking outcome for one symbol on one date. Rank is
// 1-based over ascending factor value; Percentile is Rank/n.
type SignalPoint struct {
	Date       time.Time
	Symbol     string
	Side       Side
	Rank       int
	Percentile float64
	Value      float64
}

// Direction decides which extreme of the ranking is bought.
type Direction string

const (
	Direction_LowLong  Direction = "LOW_LONG"
	Direction_HighLong Direction = "HIGH_LONG"
)

func NewDirection(s string) (Direction, error) {
	for _, d := range []Direction{Direction_LowLong, Direction_HighLong} {
		if strings.EqualFold(normalizeEnum(string(d)), normalizeEnum(s)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("could not convert '%s' to known strategy direction", s)
}

type BucketRuleKind string

const (
	BucketRule_Quantile   BucketRuleKind = "QUANTILE"
	BucketRule_TopBottom  BucketRuleKind = "TOP_BOTTOM"
	BucketRule_Percentile BucketRuleKind = "PERCENTILE"
)

// BucketRule is quantile(Q), top_bottom(N) or percentile(p). Param holds
// Q, N or p respectively.
type BucketRule struct {
	Kind  BucketRuleKind
	Param float64
}

func (b BucketRule) String() string {
	return fmt.Sprintf("%s:%s", strings.ToLower(string(b.Kind)), strconv.FormatFloat(b.Param, 'f', -1, 64))
}

// NewBucketRule parses "quantile:5", "top_bottom(3)" or "percentile=20".
func NewBucketRule(s string) (BucketRule, error) {
	cleaned := strings.NewReplacer("(", ":", ")", "", "=", ":", " ", "").Replace(s)
	parts := strings.SplitN(cleaned, ":", 2)
	if len(parts) != 2 {
		return BucketRule{}, fmt.Errorf("could not parse bucket rule '%s': expected kind:param", s)
	}
	param, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return BucketRule{}, fmt.Errorf("could not parse bucket rule param '%s': %w", parts[1], err)
	}
	for _, k := range []BucketRuleKind{BucketRule_Quantile, BucketRule_TopBottom, BucketRule_Percentile} {
		if strings.EqualFold(normalizeEnum(string(k)), normalizeEnum(parts[0])) {
			rule := BucketRule{Kind: k, Param: param}
			return rule, rule.Valid()
		}
	}
	return BucketRule{}, fmt.Errorf("could not convert '%s' to known bucket rule", parts[0])
}

func (b BucketRule) Valid() error {
	prefix := fmt.Sprintf("bucket rule is %s", b.Kind)
	switch b.Kind {
	case BucketRule_Quantile:
		if b.Param < 2 || b.Param != float64(int(b.Param)) {
			return ParamsError{Field: "bucket_rule", Reason: prefix + " and Q must be an integer >= 2"}
		}
	case BucketRule_TopBottom:
		if b.Param < 1 || b.Param != float64(int(b.Param)) {
			return ParamsError{Field: "bucket_rule", Reason: prefix + " and N must be an integer >= 1"}
		}
	case BucketRule_Percentile:
		if b.Param <= 0 || b.Param > 50 {
			return ParamsError{Field: "bucket_rule", Reason: prefix + " and p must be in (0, 50]"}
		}
	default:
		return ParamsError{Field: "bucket_rule", Reason: fmt.Sprintf("kind '%s' is not supported", b.Kind)}
	}
	return nil
}

// Concentration flags a side that ended up with fewer positions than the
// configuration asked for.
type Concentration struct {
	Date     time.Time `json:"date"`
	Side     Side      `json:"side"`
	Count    int       `json:"count"`
	Expected int       `json:"expected"`
	Stage    string    `json:"stage"`
}
