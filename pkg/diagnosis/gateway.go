package diagnosis

import (
	"context"
	"fmt"

	"symptom-checker-be/pkg/llm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("symptom-checker-be/pkg/diagnosis")

// Gateway sends inference requests to a completion backend through the
// fixed diagnosis tool. It never retries.
type Gateway struct {
	caller  llm.ToolCaller
	options []llm.Option
}

func NewGateway(caller llm.ToolCaller, options ...llm.Option) *Gateway {
	return &Gateway{caller: caller, options: options}
}

func (g *Gateway) Infer(ctx context.Context, req InferenceRequest) (RawCompletion, error) {
	if len(req.Symptoms) == 0 {
		return RawCompletion{}, ErrNoSymptoms
	}

	ctx, span := tracer.Start(ctx, "diagnosis.Gateway.Infer")
	defer span.End()
	span.SetAttributes(
		attribute.String("request_id", req.RequestID.String()),
		attribute.Int("symptoms", len(req.Symptoms)),
		attribute.String("severity", string(req.Severity)),
	)

	res, err := g.caller.CallTool(ctx, Messages(req), DiagnosisTool(), g.options...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(llm.KindOf(err)))
		return RawCompletion{}, err
	}

	if res.Name != "" && res.Name != ToolName {
		err := &llm.GatewayError{Kind: llm.KindMalformedResponse, Message: fmt.Sprintf("unexpected function %q", res.Name)}
		span.SetStatus(codes.Error, string(err.Kind))
		return RawCompletion{}, err
	}

	return RawCompletion{Arguments: res.Arguments, Model: res.Model}, nil
}
