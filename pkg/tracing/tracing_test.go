package tracing

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"go.opentelemetry.io/otel/attribute"
)

func TestSetup(t *testing.T) {
	Convey("Given tracing setup", t, func() {
		ctx := context.Background()

		Convey("When the endpoint is empty", func() {
			shutdown, err := Setup(ctx, "loggraph-test", "")

			Convey("Then a no-op shutdown is returned", func() {
				So(err, ShouldBeNil)
				So(shutdown, ShouldNotBeNil)
				So(shutdown(ctx), ShouldBeNil)
			})
		})

		Convey("When a span is started without a provider", func() {
			spanCtx, span := Start(ctx, "graph")
			span.SetAttributes(attribute.String("player", "[U:1:1]"))
			span.End()

			Convey("Then a usable context comes back", func() {
				So(spanCtx, ShouldNotBeNil)
				So(span, ShouldNotBeNil)
			})
		})
	})
}
