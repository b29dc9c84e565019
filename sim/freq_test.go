package sim

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Freq", func() {
	It("should get period", func() {
		var f = 1 * GHz
		Expect(f.Period()).To(BeNumerically("==", 1e-9))
	})

	It("should panic on zero frequency", func() {
		var f Freq
		Expect(func() { f.Period() }).To(Panic())
	})

	It("should count cycles", func() {
		var f = 2 * GHz
		Expect(f.Cycle(10e-9)).To(Equal(uint64(20)))
	})

	It("should get this tick", func() {
		var f = 1 * Hz
		Expect(f.ThisTick(1)).To(BeNumerically("~", 1, 1e-12))
	})

	It("should round up to this tick when not on a tick", func() {
		var f = 1 * GHz
		Expect(f.ThisTick(102.0000000011)).
			To(BeNumerically("~", 102.000000002, 1e-12))
	})

	It("should get the next tick", func() {
		var f = 1 * GHz
		Expect(f.NextTick(102.000000001)).
			To(BeNumerically("~", 102.000000002, 1e-12))
	})

	It("should get the next tick from time 0", func() {
		var f = 1 * GHz
		Expect(f.NextTick(0)).To(BeNumerically("~", 1e-9, 1e-15))
	})

	It("should get the n cycles later", func() {
		var f = 1 * GHz
		Expect(f.NCyclesLater(12, 102.000000001)).
			To(BeNumerically("~", 102.000000013, 1e-12))
	})

	It("should get the n cycles later, if current time is not on a tick", func() {
		var f = 1 * GHz
		Expect(f.NCyclesLater(12, 102.0000000011)).
			To(BeNumerically("~", 102.000000014, 1e-12))
	})

	It("should reject NaN and negative time", func() {
		var f = 1 * GHz
		Expect(func() { f.ThisTick(VTimeInSec(math.NaN())) }).To(Panic())
		Expect(func() { f.NextTick(-1) }).To(Panic())
	})
})
