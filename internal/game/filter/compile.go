package filter

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	programs sync.Map // "<env type>:<source>" -> *vm.Program
	logger   zerolog.Logger
	initLog  sync.Once
)

func filterLogger() *zerolog.Logger {
	initLog.Do(func() {
		logger = log.With().Str("component", "filter").Logger()
	})
	return &logger
}

// compile turns a boolean expression into bytecode, reusing earlier compilations
func compile(src string, env any) (*vm.Program, error) {
	key := fmt.Sprintf("%T:%s", env, src)
	if p, ok := programs.Load(key); ok {
		return p.(*vm.Program), nil
	}
	prog, err := expr.Compile(src, expr.Env(env), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidExpression, src, err)
	}
	programs.Store(key, prog)
	return prog, nil
}

// run evaluates a compiled program; runtime errors count as a non-match
func run(prog *vm.Program, env any, src string) bool {
	result, err := vm.Run(prog, env)
	if err != nil {
		filterLogger().Warn().Err(err).Str("expr", src).Msg("Filter expression failed")
		return false
	}
	match, ok := result.(bool)
	return ok && match
}

// splitList splits a comma separated attribute, dropping blanks
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// intRange is an inclusive [lo, hi] interval
type intRange struct {
	lo, hi int
}

func (r intRange) contains(n int) bool { return n >= r.lo && n <= r.hi }

// parseRanges parses "1-3,5,7-8"
func parseRanges(s string) ([]intRange, error) {
	var out []intRange
	for _, part := range splitList(s) {
		lo, hi, isRange := strings.Cut(part, "-")
		a, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("bad range %q: %w", part, err)
		}
		b := a
		if isRange {
			if b, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil {
				return nil, fmt.Errorf("bad range %q: %w", part, err)
			}
		}
		if b < a {
			a, b = b, a
		}
		out = append(out, intRange{lo: a, hi: b})
	}
	return out, nil
}
