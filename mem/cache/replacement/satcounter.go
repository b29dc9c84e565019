package replacement

import "log"

// MaxCounterBits is the widest counter that a SatCounter can hold.
const MaxCounterBits = 8

// A SatCounter is an unsigned counter that saturates at both ends instead of
// wrapping around.
type SatCounter struct {
	value uint8
	max   uint8
}

// NewSatCounter creates a counter of numBits bits that starts at 0.
func NewSatCounter(numBits int) SatCounter {
	if numBits < 1 || numBits > MaxCounterBits {
		log.Panicf("counter width must be in [1, %d], got %d",
			MaxCounterBits, numBits)
	}

	return SatCounter{max: uint8(1<<numBits - 1)}
}

// Value returns the current value.
func (c SatCounter) Value() uint8 {
	return c.value
}

// Max returns the largest value the counter can hold.
func (c SatCounter) Max() uint8 {
	return c.max
}

// IsSaturated returns true if the counter holds its largest value.
func (c SatCounter) IsSaturated() bool {
	return c.value == c.max
}

// Increment adds one unless the counter is saturated.
func (c *SatCounter) Increment() {
	if c.value < c.max {
		c.value++
	}
}

// Decrement subtracts one unless the counter is at 0.
func (c *SatCounter) Decrement() {
	if c.value > 0 {
		c.value--
	}
}

// Reset sets the counter to 0.
func (c *SatCounter) Reset() {
	c.value = 0
}

// Saturate sets the counter to its largest value.
func (c *SatCounter) Saturate() {
	c.value = c.max
}

// Set assigns a value directly. Values above Max are rejected.
func (c *SatCounter) Set(v uint8) {
	if v > c.max {
		log.Panicf("value %d exceeds counter max %d", v, c.max)
	}

	c.value = v
}

// Add adds n, stopping at Max.
func (c *SatCounter) Add(n uint8) {
	if n >= c.max-c.value {
		c.value = c.max
		return
	}

	c.value += n
}
