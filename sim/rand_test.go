package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RandSource", func() {
	It("should be reproducible for the same seed", func() {
		a := NewRandSource(42)
		b := NewRandSource(42)

		for range 100 {
			Expect(a.IntN(100)).To(Equal(b.IntN(100)))
		}
	})

	It("should stay in range", func() {
		r := NewRandSource(7)

		for range 1000 {
			v := r.IntN(100)
			Expect(v).To(BeNumerically(">=", 0))
			Expect(v).To(BeNumerically("<", 100))
		}
	})
})

var _ = Describe("IDGenerator", func() {
	It("should generate distinct IDs", func() {
		g := GetIDGenerator()

		Expect(g.Generate()).NotTo(Equal(g.Generate()))
	})

	It("should return the same generator every time", func() {
		Expect(GetIDGenerator()).To(BeIdenticalTo(GetIDGenerator()))
	})
})
