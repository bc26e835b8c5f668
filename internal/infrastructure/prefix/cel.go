// Package prefix builds serial prefix resolvers from configuration.
package prefix

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	"serialseq/internal/core/apperror"
	"serialseq/internal/core/serial"
)

// seriesOf is implemented by serial-bearing records.
type seriesOf interface {
	SerialSeries() string
}

// NewCELResolver compiles expr into a PrefixResolver.
//
// The expression sees two variables: series (string), the record's series,
// and record (dyn), the record as its JSON form, e.g.
//
//	record.status == "draft" ? "DRAFT" : ""
//	series == "INV" ? "HQ" : ""
//
// An empty expression yields a nil resolver (no prefix).
func NewCELResolver(expr string) (serial.PrefixResolver, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}

	env, err := cel.NewEnv(
		cel.Variable("series", cel.StringType),
		cel.Variable("record", cel.DynType),
	)
	if err != nil {
		return nil, err
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("compile prefix expression: %w", iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.StringType) && !ast.OutputType().IsExactType(cel.DynType) {
		return nil, fmt.Errorf("prefix expression must return a string, got %s", ast.OutputType())
	}
	prog, err := env.Program(ast)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, record any) (string, error) {
		vars, err := activation(record)
		if err != nil {
			return "", err
		}

		out, _, err := prog.ContextEval(ctx, vars)
		if err != nil {
			return "", apperror.NewValidation("prefix expression failed").WithCause(err)
		}
		s, ok := out.Value().(string)
		if !ok {
			return "", apperror.NewValidation(fmt.Sprintf("prefix expression returned %T, want string", out.Value()))
		}
		return s, nil
	}, nil
}

func activation(record any) (map[string]any, error) {
	var series string
	if r, ok := record.(seriesOf); ok {
		series = r.SerialSeries()
	}

	// Round-trip through JSON so the expression addresses fields by their API names.
	fields := map[string]any{}
	if record != nil {
		raw, err := json.Marshal(record)
		if err != nil {
			return nil, fmt.Errorf("encode record for prefix expression: %w", err)
		}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("decode record for prefix expression: %w", err)
		}
	}

	return map[string]any{
		"series": series,
		"record": fields,
	}, nil
}
