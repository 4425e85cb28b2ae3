// Package repair composes the orchestrator, the schema validators, and the
// improvement prompt into the invoke -> parse -> validate -> repair state
// machine. Exactly one repair attempt is permitted per generation: this
// bounds cost and latency and is a policy choice, not a resource limit.
package repair

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkorytov/groundgen/internal/call"
	"github.com/pkorytov/groundgen/internal/llm"
	"github.com/pkorytov/groundgen/internal/schema"
)

const (
	// maxEmbeddedErrors caps how many validation messages go into the
	// corrective instruction; past that a model stops reading anyway
	maxEmbeddedErrors = 5

	// repairRetryBudget is deliberately smaller than the initial attempt's
	repairRetryBudget = 2

	// The corrective attempt samples colder to favor determinism, but not
	// all the way to zero
	temperatureStep  = 0.1
	temperatureFloor = 0.2
)

// PromptFunc builds the base prompt for a generation
type PromptFunc func() []llm.Message

// ValidateFunc validates a parsed response body against an expected shape
type ValidateFunc[T any] func(raw []byte) schema.Result[T]

// ModelConfig carries per-call model parameters plus the retry budget for
// the initial invocation.
type ModelConfig struct {
	Model       string
	MaxTokens   int
	Temperature float32
	Retry       call.Config
}

// Outcome is the terminal result of a repair-loop run. ValidationErrors is
// non-empty when residual problems remain after the repair attempt; the
// caller decides whether that blocks display or is a soft warning.
type Outcome[T any] struct {
	Data             T
	ValidationErrors []string
	RepairAttempted  bool
	Model            string
	TokensUsed       int
}

// CallWithAutoRepair invokes the model, validates the response, and on
// validation failure retries once with a corrective instruction.
//
// Failure modes, in order:
//   - orchestrator failure on the initial call returns that failure as-is
//     (a failed network call is not a validation problem, so no repair);
//   - malformed JSON is fatal (PARSE_ERROR) - re-asking with the same
//     ambiguity does not fix malformed framing;
//   - validation failure triggers the single repair attempt, after which the
//     result is returned as success regardless, with ValidationErrors
//     populated when problems remain.
func CallWithAutoRepair[T any](
	ctx context.Context,
	promptFn PromptFunc,
	validateFn ValidateFunc[T],
	cfg ModelConfig,
	provider llm.Provider,
	label string,
) call.Result[Outcome[T]] {
	messages := promptFn()

	res := invoke(ctx, provider, messages, cfg, cfg.Temperature, cfg.Retry, label)
	if !res.Success {
		return call.Result[Outcome[T]]{Err: res.Err}
	}

	raw := []byte(res.Data.Text)
	if !json.Valid(raw) {
		return call.Result[Outcome[T]]{Err: &call.Error{
			Code:    call.CodeParse,
			Message: fmt.Sprintf("%s: response is not valid JSON", label),
		}}
	}

	vres := validateFn(raw)
	if vres.OK {
		return success(Outcome[T]{
			Data:       vres.Data,
			Model:      res.Data.Model,
			TokensUsed: res.Data.TokensUsed,
		})
	}

	// Single repair attempt: embed the concrete errors, sample colder, and
	// spend a smaller retry budget than the initial call.
	repairMessages := append(append([]llm.Message{}, messages...), llm.Message{
		Role:    llm.RoleUser,
		Content: buildRepairInstruction(vres.Errors),
	})
	repairCfg := cfg.Retry
	if repairCfg.MaxRetries == 0 || repairCfg.MaxRetries > repairRetryBudget {
		repairCfg.MaxRetries = repairRetryBudget
	}
	repairTemp := lowerTemperature(cfg.Temperature)

	res2 := invoke(ctx, provider, repairMessages, cfg, repairTemp, repairCfg, label+"_repair")
	if !res2.Success {
		// The corrective call failed at the transport level; return the
		// original best-effort data with its errors attached.
		return success(Outcome[T]{
			Data:             vres.Data,
			ValidationErrors: vres.Errors,
			RepairAttempted:  true,
			Model:            res.Data.Model,
			TokensUsed:       res.Data.TokensUsed,
		})
	}

	tokens := res.Data.TokensUsed + res2.Data.TokensUsed
	raw2 := []byte(res2.Data.Text)
	if !json.Valid(raw2) {
		return success(Outcome[T]{
			Data:             vres.Data,
			ValidationErrors: append(vres.Errors, "repaired response was not valid JSON"),
			RepairAttempted:  true,
			Model:            res2.Data.Model,
			TokensUsed:       tokens,
		})
	}

	vres2 := validateFn(raw2)
	out := Outcome[T]{
		Data:            vres2.Data,
		RepairAttempted: true,
		Model:           res2.Data.Model,
		TokensUsed:      tokens,
	}
	if !vres2.OK {
		out.ValidationErrors = vres2.Errors
	}
	return success(out)
}

func success[T any](out Outcome[T]) call.Result[Outcome[T]] {
	return call.Result[Outcome[T]]{Success: true, Data: out}
}

func invoke(
	ctx context.Context,
	provider llm.Provider,
	messages []llm.Message,
	cfg ModelConfig,
	temperature float32,
	retryCfg call.Config,
	label string,
) call.Result[*llm.InvokeResponse] {
	op := func(ctx context.Context) (*llm.InvokeResponse, error) {
		return provider.Invoke(ctx, llm.InvokeRequest{
			Messages:    messages,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: temperature,
		})
	}
	return call.Execute(ctx, op, retryCfg, label)
}

func lowerTemperature(t float32) float32 {
	lowered := t - temperatureStep
	if lowered < temperatureFloor {
		return temperatureFloor
	}
	return lowered
}

func buildRepairInstruction(errs []string) string {
	shown := errs
	truncated := 0
	if len(shown) > maxEmbeddedErrors {
		truncated = len(shown) - maxEmbeddedErrors
		shown = shown[:maxEmbeddedErrors]
	}

	var b strings.Builder
	b.WriteString("Your previous response failed validation. Fix these problems and resend the complete output:\n")
	for _, e := range shown {
		b.WriteString("- " + e + "\n")
	}
	if truncated > 0 {
		fmt.Fprintf(&b, "... and %d more problems of the same kind\n", truncated)
	}
	b.WriteString("\nRespond with the corrected JSON only. Every item must keep its sourceFactIds citations.")
	return b.String()
}
