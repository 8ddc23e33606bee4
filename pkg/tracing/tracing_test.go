package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracerWithoutHostIsNoop(t *testing.T) {
	tracer, closeFn, err := InitTracer(Config{})
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, opentracing.NoopTracer{}, tracer)
}

func TestFinishTagsErrors(t *testing.T) {
	mt := mocktracer.New()
	opentracing.SetGlobalTracer(mt)
	defer opentracing.SetGlobalTracer(opentracing.NoopTracer{})

	span, _ := StartSpan(context.Background(), "fetch")
	Finish(span, errors.New("boom"))

	finished := mt.FinishedSpans()
	require.Len(t, finished, 1)
	assert.Equal(t, true, finished[0].Tag("error"))
	assert.Equal(t, "boom", finished[0].Tag("error.message"))
}
