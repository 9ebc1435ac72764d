package status_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/htcore/status"
)

type fakeComponent struct {
	name string
	err  error
}

func (f fakeComponent) Name() string                     { return f.name }
func (f fakeComponent) Release() (string, string)        { return "v1.0.0", "abcdef" }
func (f fakeComponent) Health(_ context.Context) error    { return f.err }

var _ = Describe("registry", func() {
	It("reports healthy when no component fails", func() {
		r := status.New()
		r.ComponentNew("a", fakeComponent{name: "a"})
		r.ComponentNew("b", fakeComponent{name: "b"})

		Expect(r.Global(context.Background())).To(BeNil())
	})

	It("aggregates errors from unhealthy components", func() {
		r := status.New()
		r.ComponentNew("a", fakeComponent{name: "a"})
		r.ComponentNew("b", fakeComponent{name: "b", err: errors.New("boom")})

		err := r.Global(context.Background())
		Expect(err).ToNot(BeNil())
		Expect(err.Error()).To(ContainSubstring("boom"))
	})

	It("removes components on ComponentDelete", func() {
		r := status.New()
		r.ComponentNew("a", fakeComponent{name: "a", err: errors.New("boom")})
		r.ComponentDelete("a")

		Expect(r.Global(context.Background())).To(BeNil())
	})

	It("walks components in sorted key order", func() {
		r := status.New()
		r.ComponentNew("z", fakeComponent{name: "z"})
		r.ComponentNew("a", fakeComponent{name: "a"})

		var order []string
		r.Walk(func(key string, c status.Component) {
			order = append(order, key)
		})

		Expect(order).To(Equal([]string{"a", "z"}))
	})

	It("renders a JSON status page via Handler", func() {
		r := status.New()
		r.ComponentNew("a", fakeComponent{name: "a", err: errors.New("down")})

		req := httptest.NewRequest(http.MethodGet, "/status", nil)
		rec := httptest.NewRecorder()

		status.Handler(r, nil)(rec, req)

		Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
		Expect(rec.Body.String()).To(ContainSubstring("\"down\""))
	})
})
