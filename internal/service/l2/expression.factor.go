package l2_service

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"cryptofactor/internal/domain"
	l1_service "cryptofactor/internal/service/l1"

	"github.com/maja42/goval"
)

// expressionFactor combines the other factor families with arithmetic,
// e.g. "momentum(30) / vol(30)" or "-log(marketCap())".
type expressionFactor struct {
	expression string
	opts       domain.FactorOptions
	subs       *subFactors
}

type subFactorKey struct {
	factorType domain.FactorType
	window     int
}

// subFactors holds the resolved variant for each (type, window) the
// expression calls. Cross sections are computed concurrently.
type subFactors struct {
	mu      sync.RWMutex
	factors map[subFactorKey]Factor
}

func (s *subFactors) get(key subFactorKey, opts domain.FactorOptions) (Factor, error) {
	s.mu.RLock()
	factor, ok := s.factors[key]
	s.mu.RUnlock()
	if ok {
		return factor, nil
	}

	// only reached for calls the dry run skipped, e.g. an untaken branch
	factor, err := NewFactor(opts)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.factors[key]; ok {
		return existing, nil
	}
	s.factors[key] = factor
	return factor, nil
}

func (s *subFactors) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.factors)
}

func newExpressionFactor(opts domain.FactorOptions) (Factor, error) {
	f := expressionFactor{
		expression: opts.Expression,
		opts:       opts,
		subs:       &subFactors{factors: map[subFactorKey]Factor{}},
	}

	// dry run against constant inputs resolves every sub factor and rejects
	// bad syntax and unknown functions before any data is touched
	_, err := f.evaluate(func(key subFactorKey, opts domain.FactorOptions) (float64, error) {
		if _, err := f.subs.get(key, opts); err != nil {
			return 0, err
		}
		return 1, nil
	})
	if err != nil && !IsMissing(err) {
		return nil, domain.ParamsError{Field: "expression", Reason: err.Error()}
	}
	return f, nil
}

func (f expressionFactor) Name() string {
	return f.expression
}

func (f expressionFactor) Compute(h l1_service.History) (float64, error) {
	if err := requirePrice(h); err != nil {
		return 0, err
	}
	return f.evaluate(func(key subFactorKey, opts domain.FactorOptions) (float64, error) {
		factor, err := f.subs.get(key, opts)
		if err != nil {
			return 0, err
		}
		return factor.Compute(h)
	})
}

func (f expressionFactor) evaluate(compute func(subFactorKey, domain.FactorOptions) (float64, error)) (float64, error) {
	// goval does not promise to keep the error chain of a failed function
	// call, so a missing input is remembered here
	var missing error
	sub := func(factorType domain.FactorType, window int) (float64, error) {
		opts := f.opts
		opts.Type = factorType
		opts.Window = window
		opts.Expression = ""
		if opts.MinHistory > window {
			opts.MinHistory = window
		}
		v, err := compute(subFactorKey{factorType: factorType, window: window}, opts)
		if IsMissing(err) {
			missing = err
		}
		return v, err
	}

	eval := goval.NewEvaluator()
	result, err := eval.Evaluate(f.expression, nil, f.functions(sub))
	if missing != nil {
		return 0, missing
	}
	if err != nil {
		return 0, fmt.Errorf("failed to evaluate factor expression: %w", err)
	}

	var r float64
	switch v := result.(type) {
	case float64:
		r = v
	case int:
		r = float64(v)
	default:
		return 0, fmt.Errorf("factor expression returned %T, not a number", result)
	}
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, domain.ErrInsufficientHistory
	}
	return r, nil
}

type subFactor func(factorType domain.FactorType, window int) (float64, error)

func (f expressionFactor) functions(sub subFactor) map[string]goval.ExpressionFunction {
	windowed := func(name string, factorType domain.FactorType) goval.ExpressionFunction {
		return func(args ...interface{}) (interface{}, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("%s needs 1 arg, got %d", name, len(args))
			}
			window, err := intArg(name, args[0])
			if err != nil {
				return nil, err
			}
			return sub(factorType, window)
		}
	}
	unary := func(name string, fn func(float64) float64) goval.ExpressionFunction {
		return func(args ...interface{}) (interface{}, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("%s needs 1 arg, got %d", name, len(args))
			}
			x, err := floatArg(name, args[0])
			if err != nil {
				return nil, err
			}
			return fn(x), nil
		}
	}

	return map[string]goval.ExpressionFunction{
		"vol":      windowed("vol", domain.FactorType_Volatility),
		"beta":     windowed("beta", domain.FactorType_Beta),
		"funding":  windowed("funding", domain.FactorType_Funding),
		"kurtosis": windowed("kurtosis", domain.FactorType_Kurtosis),
		"skew":     windowed("skew", domain.FactorType_Skew),
		"turnover": windowed("turnover", domain.FactorType_Turnover),
		"dilution": windowed("dilution", domain.FactorType_Dilution),
		"momentum": windowed("momentum", domain.FactorType_Momentum),
		"marketCap": func(args ...interface{}) (interface{}, error) {
			if len(args) != 0 {
				return nil, fmt.Errorf("marketCap takes no args, got %d", len(args))
			}
			return sub(domain.FactorType_MarketCap, 0)
		},

		"abs":  unary("abs", math.Abs),
		"log":  unary("log", math.Log),
		"sqrt": unary("sqrt", math.Sqrt),
	}
}

func intArg(name string, arg interface{}) (int, error) {
	switch v := arg.(type) {
	case int:
		if v > 0 {
			return v, nil
		}
	case float64:
		if v > 0 && v == math.Trunc(v) {
			return int(v), nil
		}
	}
	return 0, fmt.Errorf("%s window must be a positive integer, got %v", name, arg)
}

func floatArg(name string, arg interface{}) (float64, error) {
	switch v := arg.(type) {
	case int:
		return float64(v), nil
	case float64:
		return v, nil
	}
	return 0, fmt.Errorf("%s needs a number, got %T", name, arg)
}

// ExpressionFunctions lists the functions an expression factor may call.
func ExpressionFunctions() []string {
	fns := expressionFactor{}.functions(nil)
	names := make([]string, 0, len(fns))
	for name := range fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
