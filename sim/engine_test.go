package sim

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type recordingHandler struct {
	engine  *SerialEngine
	handled []string
	times   []VTimeInSec
	failOn  string
}

type namedEvent struct {
	*EventBase
	name string
}

func (h *recordingHandler) Handle(e Event) error {
	evt := e.(namedEvent)
	if evt.name == h.failOn {
		return errors.New("failed")
	}

	h.handled = append(h.handled, evt.name)
	h.times = append(h.times, h.engine.CurrentTime())

	return nil
}

func (h *recordingHandler) schedule(name string, t VTimeInSec) {
	h.engine.Schedule(namedEvent{EventBase: NewEventBase(t, h), name: name})
}

var _ = Describe("SerialEngine", func() {
	var (
		engine  *SerialEngine
		handler *recordingHandler
	)

	BeforeEach(func() {
		engine = NewSerialEngine()
		handler = &recordingHandler{engine: engine}
	})

	It("should run events in time order", func() {
		handler.schedule("c", 3)
		handler.schedule("a", 1)
		handler.schedule("b", 2)

		Expect(engine.Run()).To(Succeed())

		Expect(handler.handled).To(Equal([]string{"a", "b", "c"}))
		Expect(handler.times).To(Equal([]VTimeInSec{1, 2, 3}))
		Expect(engine.CurrentTime()).To(Equal(VTimeInSec(3)))
	})

	It("should keep the scheduling order of same-time events", func() {
		for _, n := range []string{"x", "y", "z", "w"} {
			handler.schedule(n, 5)
		}

		Expect(engine.Run()).To(Succeed())

		Expect(handler.handled).To(Equal([]string{"x", "y", "z", "w"}))
	})

	It("should invoke hooks around events", func() {
		hook := &countingHook{}
		engine.AcceptHook(hook)
		handler.schedule("a", 1)

		Expect(engine.Run()).To(Succeed())

		Expect(hook.positions).To(Equal(
			[]*HookPos{HookPosBeforeEvent, HookPosAfterEvent}))
	})

	It("should stop at the first failing event", func() {
		handler.failOn = "b"
		handler.schedule("a", 1)
		handler.schedule("b", 2)
		handler.schedule("c", 3)

		err := engine.Run()

		Expect(err).To(MatchError(ContainSubstring("failed")))
		Expect(handler.handled).To(Equal([]string{"a"}))
	})

	It("should refuse events in the past", func() {
		handler.schedule("a", 2)
		Expect(engine.Run()).To(Succeed())

		Expect(func() { handler.schedule("b", 1) }).To(Panic())
	})

	It("should pause and continue", func() {
		handler.schedule("a", 1)
		engine.Pause()
		engine.Pause()

		done := make(chan error)
		go func() { done <- engine.Run() }()

		Consistently(done, 50*time.Millisecond).ShouldNot(Receive())

		engine.Continue()
		engine.Continue()

		Eventually(done).Should(Receive(BeNil()))
		Expect(handler.handled).To(Equal([]string{"a"}))
	})
})
