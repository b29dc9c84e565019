package replacement

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SatCounter", func() {
	It("should start at 0", func() {
		c := NewSatCounter(2)

		Expect(c.Value()).To(Equal(uint8(0)))
		Expect(c.Max()).To(Equal(uint8(3)))
	})

	It("should saturate when incrementing", func() {
		c := NewSatCounter(2)

		for range 10 {
			c.Increment()
		}

		Expect(c.Value()).To(Equal(uint8(3)))
		Expect(c.IsSaturated()).To(BeTrue())
	})

	It("should stop at 0 when decrementing", func() {
		c := NewSatCounter(3)
		c.Increment()
		c.Decrement()
		c.Decrement()

		Expect(c.Value()).To(Equal(uint8(0)))
	})

	It("should support 8-bit counters", func() {
		c := NewSatCounter(8)
		c.Saturate()

		Expect(c.Value()).To(Equal(uint8(255)))

		c.Increment()
		Expect(c.Value()).To(Equal(uint8(255)))
	})

	It("should reset and saturate", func() {
		c := NewSatCounter(4)
		c.Saturate()
		Expect(c.Value()).To(Equal(uint8(15)))

		c.Reset()
		Expect(c.Value()).To(Equal(uint8(0)))
	})

	It("should reject values above max", func() {
		c := NewSatCounter(2)

		Expect(func() { c.Set(4) }).To(Panic())

		c.Set(3)
		Expect(c.Value()).To(Equal(uint8(3)))
	})

	It("should add without wrapping", func() {
		c := NewSatCounter(3)

		c.Add(5)
		Expect(c.Value()).To(Equal(uint8(5)))

		c.Add(200)
		Expect(c.Value()).To(Equal(uint8(7)))
	})

	It("should add to 8-bit counters without overflow", func() {
		c := NewSatCounter(8)
		c.Set(250)

		c.Add(10)

		Expect(c.Value()).To(Equal(uint8(255)))
	})

	It("should reject invalid widths", func() {
		Expect(func() { NewSatCounter(0) }).To(Panic())
		Expect(func() { NewSatCounter(9) }).To(Panic())
	})
})
