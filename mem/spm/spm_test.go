package spm

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/spmcache/mem"
	"github.com/sarchlab/spmcache/sim"
)

func access(t mem.AccessType, size uint64) mem.AccessReq {
	return mem.MakeAccessReqBuilder().
		WithAddress(0x1000).
		WithByteSize(size).
		WithType(t).
		Build()
}

var _ = Describe("Scratchpad", func() {
	var (
		mockCtrl *gomock.Controller
		rand     *MockRandSource
		spm      *Comp
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		rand = NewMockRandSource(mockCtrl)
		spm = MakeBuilder().WithRandSource(rand).Build("SPM")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should serve reads after the transfer and the read latency", func() {
		done := spm.Access(access(mem.AccessTypeRead, 64), 0)

		Expect(done).To(BeNumerically("~", 3e-9, 1e-15))
	})

	It("should serve writes with the write latency", func() {
		done := spm.Access(access(mem.AccessTypeWrite, 64), 1e-6)

		Expect(done).To(BeNumerically("~", 1.011e-6, 1e-15))
	})

	It("should queue requests behind the bandwidth limit", func() {
		spm.Access(access(mem.AccessTypeRead, 64), 0)
		done := spm.Access(access(mem.AccessTypeWrite, 64), 0)

		Expect(done).To(BeNumerically("~", 12e-9, 1e-15))
	})

	It("should not queue requests that arrive after the scratchpad is idle",
		func() {
			spm.Access(access(mem.AccessTypeRead, 64), 0)
			done := spm.Access(access(mem.AccessTypeRead, 64), 5e-9)

			Expect(done).To(BeNumerically("~", 8e-9, 1e-15))
		})

	It("should add the latency variance to reads and writes", func() {
		spm = MakeBuilder().
			WithRandSource(rand).
			WithLatencyVariance(5e-12).
			Build("SPM")
		rand.EXPECT().IntN(6).Return(3)
		rand.EXPECT().IntN(6).Return(5)

		read := spm.Access(access(mem.AccessTypeRead, 64), 0)
		write := spm.Access(access(mem.AccessTypeWrite, 64), 1e-6)

		Expect(read).To(BeNumerically("~", 3.003e-9, 1e-16))
		Expect(write).To(BeNumerically("~", 1.011005e-6, 1e-16))
	})

	It("should count accesses and compute energy", func() {
		spm.Access(access(mem.AccessTypeRead, 4), 0)
		spm.Access(access(mem.AccessTypeRead, 4), 0)
		spm.Access(access(mem.AccessTypeWrite, 8), 0)
		spm.Access(access(mem.AccessTypeUnknown, 4), 0)

		s := spm.Stats()

		Expect(s.NumReads).To(Equal(uint64(2)))
		Expect(s.NumWrites).To(Equal(uint64(1)))
		Expect(s.NumOthers).To(Equal(uint64(1)))
		Expect(s.BytesTransferred).To(Equal(uint64(20)))
		Expect(s.ReadEnergy).To(Equal(200.0))
		Expect(s.WriteEnergy).To(Equal(600.0))
		Expect(s.OverheadEnergy).To(Equal(100.0))
		Expect(s.TotalEnergy).To(Equal(900.0))
		Expect(s.AverageEnergy).To(Equal(300.0))
	})

	It("should average over two terms without overhead energy", func() {
		spm = MakeBuilder().
			WithRandSource(rand).
			WithOverheadEnergy(0).
			WithReadEnergy(50).
			WithWriteEnergy(150).
			Build("SPM")

		spm.Access(access(mem.AccessTypeRead, 4), 0)
		spm.Access(access(mem.AccessTypeWrite, 4), 0)
		spm.Access(access(mem.AccessTypeUnknown, 4), 0)

		s := spm.Stats()

		Expect(s.TotalEnergy).To(Equal(200.0))
		Expect(s.AverageEnergy).To(Equal(100.0))
	})

	It("should use configured latencies and bandwidth", func() {
		spm = MakeBuilder().
			WithRandSource(rand).
			WithReadLatency(1e-9).
			WithWriteLatency(4e-9).
			WithBandwidth(1e9).
			Build("SPM")

		read := spm.Access(access(mem.AccessTypeRead, 2), 0)
		write := spm.Access(access(mem.AccessTypeWrite, 2), 0)

		Expect(read).To(BeNumerically("~", 3e-9, 1e-15))
		Expect(write).To(BeNumerically("~", 8e-9, 1e-15))
		Expect(spm.Name()).To(Equal("SPM"))
	})

	It("should reject invalid configurations", func() {
		Expect(func() { MakeBuilder().WithBandwidth(0).Build("SPM") }).
			To(Panic())
		Expect(func() {
			MakeBuilder().WithReadLatency(-1 * sim.VTimeInSec(1e-9)).Build("SPM")
		}).To(Panic())
	})
})
