// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/staranto/reposearch/internal/attrs"
)

// filterRegex splits an expression into key, operand and target. The operand
// is one of = ^ ~ < > @ or /, optionally negated with a leading !.
var filterRegex = regexp.MustCompile(`^(.*?)(!?[=^~<>@/])(.*)$`)

// DelimEnv overrides the "," between filter expressions.
const DelimEnv = "REPOSEARCH_FILTER_DELIM"

// Filter is a single parsed --filter expression. Key names an output key of
// the attr list, not a JSON key.
type Filter struct {
	Key     string
	Negate  bool
	Operand string
	Target  string
}

// want folds the negation into a comparison result.
func (f Filter) want(b bool) bool {
	return b != f.Negate
}

// boundFilter is a Filter resolved against an attr list.
type boundFilter struct {
	Filter
	path string
}

// BuildFilters parses a --filter value. Malformed expressions are logged and
// dropped.
func BuildFilters(spec string) []Filter {
	if spec == "" {
		return nil
	}

	delim := ","
	if d, ok := os.LookupEnv(DelimEnv); ok && d != "" {
		delim = d
	}

	var filters []Filter //nolint:prealloc
	for _, expr := range strings.Split(spec, delim) {
		parts := filterRegex.FindStringSubmatch(expr)
		if parts == nil {
			log.Error("invalid filter: " + expr)
			continue
		}

		operand, negate := strings.CutPrefix(parts[2], "!")
		filters = append(filters, Filter{
			Key:     parts[1],
			Negate:  negate,
			Operand: operand,
			Target:  parts[3],
		})
	}
	return filters
}

// FilterDataset keeps the rows of candidates that pass every filter and
// projects each onto the output keys of al. Values are left untransformed.
func FilterDataset(candidates gjson.Result, al attrs.AttrList, spec string) []map[string]interface{} {
	bound := bind(al, BuildFilters(spec))

	var rows []map[string]interface{} //nolint:prealloc
	for _, candidate := range candidates.Array() {
		if !matches(candidate, bound) {
			continue
		}
		row := make(map[string]interface{}, len(al))
		for _, a := range al {
			row[a.OutputKey] = candidate.Get(a.Key).Value()
		}
		rows = append(rows, row)
	}
	return rows
}

// applyFilters reports whether candidate passes every filter.
func applyFilters(candidate gjson.Result, al attrs.AttrList, filters []Filter) bool {
	return matches(candidate, bind(al, filters))
}

// bind maps each filter key to the JSON key of its attr. Filters naming an
// unknown output key are reported and skipped.
func bind(al attrs.AttrList, filters []Filter) []boundFilter {
	bound := make([]boundFilter, 0, len(filters))
	for _, f := range filters {
		path := ""
		for _, a := range al {
			if a.OutputKey == f.Key {
				path = a.Key
				break
			}
		}
		if path == "" {
			msg := fmt.Sprintf("filter key not found: %s", f.Key)
			log.Error(msg)
			fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
			continue
		}
		bound = append(bound, boundFilter{Filter: f, path: path})
	}
	return bound
}

func matches(candidate gjson.Result, bound []boundFilter) bool {
	for _, f := range bound {
		value := candidate.Get(f.path).Value()
		if value == nil {
			return false
		}

		ok := true
		switch v := value.(type) {
		case string:
			ok = checkStringOperand(v, f.Filter)
		case bool:
			ok = checkStringOperand(strconv.FormatBool(v), f.Filter)
		default:
			if num, isNum := toFloat64(v); isNum {
				ok = checkNumericOperand(num, f.Filter)
			} else if f.Operand == "@" {
				ok = checkContainsOperand(v, f.Filter)
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// checkContainsOperand tests membership in an array or key presence in an
// object.
func checkContainsOperand(value interface{}, f Filter) bool {
	switch v := value.(type) {
	case []any:
		for _, item := range v {
			if item == f.Target {
				return f.want(true)
			}
		}
		return f.want(false)
	case map[string]any:
		_, found := v[f.Target]
		return f.want(found)
	default:
		log.Errorf("unsupported type for contains filtering: %T", value)
		return false
	}
}

func checkNumericOperand(value float64, f Filter) bool {
	target, err := strconv.ParseFloat(strings.TrimSpace(f.Target), 64)
	if err != nil {
		log.Error("invalid numeric target: " + f.Target)
		return false
	}

	switch f.Operand {
	case "=":
		return f.want(value == target)
	case ">":
		return f.want(value > target)
	case "<":
		return f.want(value < target)
	}
	log.Error("unsupported numeric operand: " + f.Operand)
	return false
}

var stringOperands = map[string]func(value, target string) (bool, error){
	"=": func(v, t string) (bool, error) { return v == t, nil },
	"~": func(v, t string) (bool, error) { return strings.EqualFold(v, t), nil },
	"^": func(v, t string) (bool, error) { return strings.HasPrefix(v, t), nil },
	">": func(v, t string) (bool, error) { return v > t, nil },
	"<": func(v, t string) (bool, error) { return v < t, nil },
	"@": func(v, t string) (bool, error) { return strings.Contains(v, t), nil },
	"/": func(v, t string) (bool, error) { return regexp.MatchString(t, v) },
}

func checkStringOperand(value string, f Filter) bool {
	op, ok := stringOperands[f.Operand]
	if !ok {
		log.Error("unsupported filtering operand: " + f.Operand)
		return false
	}
	matched, err := op(value, f.Target)
	if err != nil {
		log.Error("invalid regex: " + f.Target)
		return false
	}
	return f.want(matched)
}

// toFloat64 normalizes any Go number to float64.
func toFloat64(v interface{}) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
