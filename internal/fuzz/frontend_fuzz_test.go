package fuzztests

import (
	"context"
	"errors"
	"testing"
	"time"

	"lumen/internal/driver"
	"lumen/internal/frontend"
	"lumen/internal/ir"
	"lumen/internal/testkit"
)

const maxFuzzInput = 1 << 16 // 64 KiB

// compileTimeout bounds a single unit; exceeding it points at a loop in the
// frontend or a pass.
const compileTimeout = 5 * time.Second

func FuzzCompileDocument(f *testing.F) {
	addDocumentSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) > maxFuzzInput {
			input = input[:maxFuzzInput]
		}
		input = append([]byte(nil), input...)

		ctx, cancel := context.WithTimeout(context.Background(), compileTimeout)
		defer cancel()

		res, err := driver.CompileSource(ctx, "fuzz.lumen.toml", input, driver.Options{MaxDiagnostics: 128})
		if errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("compile did not finish within %s", compileTimeout)
		}
		if err != nil {
			t.Fatalf("fatal error on user input: %v", err)
		}
		if !res.Lowered {
			return
		}
		if err := testkit.CheckTreeInvariants(res.Doc, nil); err != nil {
			t.Fatalf("lowered tree is broken: %v", err)
		}
	})
}

func FuzzParseExpr(f *testing.F) {
	for _, s := range exprSeeds {
		f.Add(s)
	}
	resolve := func(path []string) (ir.NamedReference, error) {
		if len(path) > 3 {
			return ir.NamedReference{}, errors.New("path too long")
		}
		return ir.NamedReference{}, nil
	}
	f.Fuzz(func(t *testing.T, src string) {
		if len(src) > maxFuzzInput {
			src = src[:maxFuzzInput]
		}
		expr, err := frontend.ParseExpr(src, resolve, nil)
		if err == nil && expr == nil {
			t.Fatalf("ParseExpr(%q) returned neither expression nor error", src)
		}
		if err != nil && expr != nil {
			t.Fatalf("ParseExpr(%q) returned both expression and error", src)
		}
	})
}
