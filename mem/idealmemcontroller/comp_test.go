package idealmemcontroller

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/spmcache/mem"
	"github.com/sarchlab/spmcache/sim"
)

var _ = Describe("Ideal Memory Controller", func() {
	var c *Comp

	BeforeEach(func() {
		c = MakeBuilder().
			WithLatency(10).
			WithFreq(1 * sim.GHz).
			Build("MemCtrl")
	})

	It("should respond after a fixed latency", func() {
		req := mem.MakeAccessReqBuilder().WithAddress(0x40).Build()

		done := c.Access(req, 1e-6)

		Expect(done).To(BeNumerically("~", 1.01e-6, 1e-15))
	})

	It("should align to the clock", func() {
		req := mem.MakeAccessReqBuilder().WithAddress(0x40).Build()

		done := c.Access(req, 1.0005e-6)

		Expect(done).To(BeNumerically("~", 1.011e-6, 1e-15))
	})

	It("should count reads and writes", func() {
		read := mem.MakeAccessReqBuilder().Build()
		write := mem.MakeAccessReqBuilder().WithType(mem.AccessTypeWrite).Build()

		c.Access(read, 0)
		c.Access(write, 0)
		c.Access(write, 0)

		Expect(c.NumReads()).To(Equal(uint64(1)))
		Expect(c.NumWrites()).To(Equal(uint64(2)))
		Expect(c.Name()).To(Equal("MemCtrl"))
	})

	It("should reject negative latency", func() {
		Expect(func() { MakeBuilder().WithLatency(-1).Build("M") }).To(Panic())
	})
})
