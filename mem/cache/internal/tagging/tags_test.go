package tagging

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/spmcache/mem"
	"github.com/sarchlab/spmcache/mem/cache/replacement"
)

var _ = Describe("Tags", func() {
	var (
		policy *replacement.BRRIPSPM
		tags   TagArray
	)

	BeforeEach(func() {
		policy = replacement.MakeBuilder().Build()
		tags = NewTagArray(1024, 4, 64, policy)
	})

	It("should be able to get total size", func() {
		Expect(tags.TotalSize()).To(Equal(uint64(262144)))
	})

	It("should map addresses to sets by line", func() {
		Expect(tags.GetSetID(0x0)).To(Equal(0))
		Expect(tags.GetSetID(0x3f)).To(Equal(0))
		Expect(tags.GetSetID(0x40)).To(Equal(1))
		Expect(tags.GetSetID(1024 * 64)).To(Equal(0))
	})

	It("should lookup", func() {
		block := tags.Block(4, 2)
		block.PID = 1
		block.Tag = 0x100
		block.IsValid = true
		tags.Update(block)

		found, ok := tags.Lookup(1, 0x104)

		Expect(ok).To(BeTrue())
		Expect(found).To(Equal(block))
	})

	It("should miss when lookup cannot find block", func() {
		block, ok := tags.Lookup(1, 0x100)

		Expect(ok).To(BeFalse())
		Expect(block).To(BeZero())
	})

	It("should miss if block is invalid", func() {
		block := tags.Block(4, 0)
		block.PID = 1
		block.Tag = 0x100
		tags.Update(block)

		_, ok := tags.Lookup(1, 0x100)

		Expect(ok).To(BeFalse())
	})

	It("should miss if PID does not match", func() {
		block := tags.Block(4, 0)
		block.PID = 2
		block.Tag = 0x100
		block.IsValid = true
		tags.Update(block)

		_, ok := tags.Lookup(1, 0x100)

		Expect(ok).To(BeFalse())
	})

	It("should hand out candidates that alias the line states", func() {
		candidates := tags.Candidates(7)
		Expect(candidates).To(HaveLen(4))

		candidates[3].Valid = true
		candidates[3].RRPV.Set(2)

		Expect(tags.State(7, 3).Valid).To(BeTrue())
		Expect(tags.State(7, 3).RRPV.Value()).To(Equal(uint8(2)))
		Expect(tags.State(8, 3).Valid).To(BeFalse())
	})

	It("should give each line its position", func() {
		Expect(tags.Block(1, 3).SetID).To(Equal(1))
		Expect(tags.Block(1, 3).WayID).To(Equal(3))
	})

	It("should reset blocks and states", func() {
		block := tags.Block(1, 1)
		block.IsValid = true
		tags.Update(block)
		policy.Reset(tags.State(1, 1))

		tags.Reset()

		Expect(tags.Block(1, 1).IsValid).To(BeFalse())
		Expect(tags.State(1, 1).Valid).To(BeFalse())
		Expect(tags.State(1, 1).RRPV.Value()).To(Equal(uint8(0)))
	})
})

var _ = Describe("PolicyVictimFinder", func() {
	var (
		policy replacement.Policy
		tags   TagArray
		finder *PolicyVictimFinder
	)

	BeforeEach(func() {
		policy = replacement.MakeBuilder().BuildLRU()
		tags = NewTagArray(4, 4, 64, policy)
		finder = NewPolicyVictimFinder(policy)
	})

	It("should choose the first invalid way", func() {
		policy.Reset(tags.State(1, 0))

		victim := finder.FindVictim(tags, 0x40)

		Expect(victim.SetID).To(Equal(1))
		Expect(victim.WayID).To(Equal(1))
	})

	It("should follow the policy once the set is full", func() {
		for way := 0; way < 4; way++ {
			policy.Reset(tags.State(2, way))
		}
		policy.Touch(tags.State(2, 0), mem.AccessTypeRead)

		victim := finder.FindVictim(tags, 0x80)

		Expect(victim.SetID).To(Equal(2))
		Expect(victim.WayID).To(Equal(1))
	})
})
