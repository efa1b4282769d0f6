package logging

import (
	"context"

	"go.uber.org/zap"

	ycontext "github.com/Ramsey-B/yarrow/pkg/context"
)

// contextFields pulls the correlation values out of the context. Missing
// values are simply omitted.
func contextFields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}

	var fields []zap.Field
	if v := ycontext.GetRequestID(ctx); v != "" {
		fields = append(fields, zap.String("request_id", v))
	}
	if v := ycontext.GetRunID(ctx); v != "" {
		fields = append(fields, zap.String("run_id", v))
	}
	if v := ycontext.GetDataset(ctx); v != "" {
		fields = append(fields, zap.String("dataset", v))
	}
	if v := ycontext.GetMethod(ctx); v != "" {
		fields = append(fields, zap.String("method", v))
	}
	if v := ycontext.GetRoute(ctx); v != "" {
		fields = append(fields, zap.String("route", v))
	}
	return fields
}
