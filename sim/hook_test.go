package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type countingHook struct {
	positions []*HookPos
}

func (h *countingHook) Func(ctx HookCtx) {
	h.positions = append(h.positions, ctx.Pos)
}

var _ = Describe("HookableBase", func() {
	var (
		hookable *HookableBase
		pos      = &HookPos{Name: "Test"}
	)

	BeforeEach(func() {
		hookable = &HookableBase{}
	})

	It("should invoke all hooks in registration order", func() {
		h1 := &countingHook{}
		h2 := &countingHook{}
		hookable.AcceptHook(h1)
		hookable.AcceptHook(h2)

		hookable.InvokeHook(HookCtx{Domain: hookable, Pos: pos})

		Expect(hookable.NumHooks()).To(Equal(2))
		Expect(h1.positions).To(ConsistOf(pos))
		Expect(h2.positions).To(ConsistOf(pos))
	})

	It("should panic when the same hook is registered twice", func() {
		h := &countingHook{}
		hookable.AcceptHook(h)

		Expect(func() { hookable.AcceptHook(h) }).To(Panic())
	})
})
