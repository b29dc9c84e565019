package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/fatih/structs"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/sarchlab/spmcache/datarecording"
	"github.com/sarchlab/spmcache/mem"
	"github.com/sarchlab/spmcache/mem/cache"
	"github.com/sarchlab/spmcache/mem/cache/replacement"
	"github.com/sarchlab/spmcache/mem/idealmemcontroller"
	"github.com/sarchlab/spmcache/mem/spm"
	"github.com/sarchlab/spmcache/mem/trace"
	"github.com/sarchlab/spmcache/monitoring"
	"github.com/sarchlab/spmcache/sim"
)

// runOptions are the settings of a replay. They are also recorded into the
// sim_config table when a database is requested.
type runOptions struct {
	Trace string

	Policy      string
	RRPVBits    int
	HitPriority bool
	BTP         int
	Seed        uint64

	FreqMHz       int
	ByteSize      uint64
	Ways          int
	Log2BlockSize int
	HitLatency    int
	MemLatency    int

	NoSPM             bool
	SPMReadLatencyNs  float64
	SPMWriteLatencyNs float64
	SPMVarianceNs     float64
	SPMReadEnergy     float64
	SPMWriteEnergy    float64
	SPMOverheadEnergy float64
	SPMBandwidthGBps  float64

	Flush       bool
	DB          string
	LogTrace    string
	Monitor     bool
	MonitorPort int
	OpenBrowser bool
}

var opts runOptions

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay a trace.",
	Long: "`run --trace FILE` replays the accesses of FILE and prints the " +
		"cache and scratchpad statistics.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runTrace(opts, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.StringVar(&opts.Trace, "trace", "", "The trace file to replay")
	f.StringVar(&opts.Policy, "policy", replacement.NameBRRIPSPM,
		"Replacement policy, one of "+
			strings.Join(replacement.PolicyNames, ", "))
	f.IntVar(&opts.RRPVBits, "rrpv-bits", 2, "Width of the RRPV counters")
	f.BoolVar(&opts.HitPriority, "hit-priority", false,
		"Promote lines to RRPV 0 on hits instead of decrementing")
	f.IntVar(&opts.BTP, "btp", 3,
		"Percentage of insertions that are not placed at the distant position")
	f.Uint64Var(&opts.Seed, "seed", 0, "Seed of the random sources")

	f.IntVar(&opts.FreqMHz, "freq-mhz", 1000, "Frequency of the cache")
	f.Uint64Var(&opts.ByteSize, "cache-size", 16*mem.KB, "Cache size in bytes")
	f.IntVar(&opts.Ways, "ways", 4, "Way associativity")
	f.IntVar(&opts.Log2BlockSize, "log2-block-size", 6,
		"Log2 of the cache line size")
	f.IntVar(&opts.HitLatency, "hit-latency", 2, "Cache hit latency in cycles")
	f.IntVar(&opts.MemLatency, "mem-latency", 100,
		"Backing memory latency in cycles")

	f.BoolVar(&opts.NoSPM, "no-spm", false,
		"Do not attach a scratchpad to the cache")
	f.Float64Var(&opts.SPMReadLatencyNs, "spm-read-latency", 2,
		"Scratchpad read latency in ns")
	f.Float64Var(&opts.SPMWriteLatencyNs, "spm-write-latency", 10,
		"Scratchpad write latency in ns")
	f.Float64Var(&opts.SPMVarianceNs, "spm-latency-var", 0,
		"Upper bound of the random scratchpad latency in ns")
	f.Float64Var(&opts.SPMReadEnergy, "spm-read-energy", 100,
		"Scratchpad read energy in pJ")
	f.Float64Var(&opts.SPMWriteEnergy, "spm-write-energy", 600,
		"Scratchpad write energy in pJ")
	f.Float64Var(&opts.SPMOverheadEnergy, "spm-overhead-energy", 100,
		"Scratchpad overhead energy in pJ")
	f.Float64Var(&opts.SPMBandwidthGBps, "spm-bandwidth", 64,
		"Scratchpad bandwidth in GB/s")

	f.BoolVar(&opts.Flush, "flush", false,
		"Write back all dirty lines after the replay")
	f.StringVar(&opts.DB, "db", "",
		"Record accesses and evictions into DB.sqlite3")
	f.StringVar(&opts.LogTrace, "log-trace", "",
		"Print accesses and evictions into a file, - for stdout")
	f.BoolVar(&opts.Monitor, "monitor", false, "Start the monitoring server")
	f.IntVar(&opts.MonitorPort, "monitor-port", 0,
		"Port of the monitoring server")
	f.BoolVar(&opts.OpenBrowser, "open-browser", false,
		"Open the monitoring page in a browser")

	_ = runCmd.MarkFlagRequired("trace")
}

type platform struct {
	engine  *sim.SerialEngine
	dram    *idealmemcontroller.Comp
	spm     *spm.Comp
	cache   *cache.Comp
	cleanup []func()
}

func (p *platform) close() {
	for i := len(p.cleanup) - 1; i >= 0; i-- {
		p.cleanup[i]()
	}
}

func buildPlatform(o runOptions) *platform {
	p := &platform{engine: sim.NewSerialEngine()}
	freq := sim.Freq(o.FreqMHz) * sim.MHz

	p.dram = idealmemcontroller.MakeBuilder().
		WithFreq(freq).
		WithLatency(o.MemLatency).
		Build("DRAM")

	policy := replacement.MakeBuilder().
		WithNumRRPVBits(o.RRPVBits).
		WithHitPriority(o.HitPriority).
		WithBTP(o.BTP).
		WithRandSource(sim.NewRandSource(o.Seed)).
		BuildByName(o.Policy)

	builder := cache.MakeBuilder().
		WithFreq(freq).
		WithByteSize(o.ByteSize).
		WithWayAssociativity(o.Ways).
		WithLog2BlockSize(o.Log2BlockSize).
		WithHitLatency(o.HitLatency).
		WithPolicy(policy).
		WithLowModule(p.dram)

	if !o.NoSPM {
		p.spm = spm.MakeBuilder().
			WithReadLatency(sim.VTimeInSec(o.SPMReadLatencyNs * 1e-9)).
			WithWriteLatency(sim.VTimeInSec(o.SPMWriteLatencyNs * 1e-9)).
			WithLatencyVariance(sim.VTimeInSec(o.SPMVarianceNs * 1e-9)).
			WithReadEnergy(o.SPMReadEnergy).
			WithWriteEnergy(o.SPMWriteEnergy).
			WithOverheadEnergy(o.SPMOverheadEnergy).
			WithBandwidth(o.SPMBandwidthGBps * 1e9).
			WithRandSource(sim.NewRandSource(o.Seed + 1)).
			Build("SPM")
		builder = builder.WithScratchpad(p.spm)
	}

	p.cache = builder.Build("L1")

	return p
}

// errDBExists is returned when the recording database is already there.
var errDBExists = errors.New("database already exists")

func (p *platform) attachRecorder(o runOptions) error {
	if o.DB == "" {
		return nil
	}

	filename := o.DB + ".sqlite3"
	if _, err := os.Stat(filename); err == nil {
		return fmt.Errorf("%w: %s", errDBExists, filename)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", filename, err)
	}

	recorder := datarecording.New(o.DB)
	p.cleanup = append(p.cleanup, func() {
		if err := recorder.Close(); err != nil {
			log.Printf("closing %s: %v", o.DB, err)
		}
	})

	recorder.CreateTable("sim_config", datarecording.ExecInfo{})
	for k, v := range structs.Map(o) {
		recorder.InsertData("sim_config",
			datarecording.ExecInfo{Property: k, Value: fmt.Sprint(v)})
	}

	p.cache.AcceptHook(trace.NewDBTracer(recorder))

	return nil
}

func (p *platform) attachLogTracer(o runOptions, stdout io.Writer) error {
	switch o.LogTrace {
	case "":
		return nil
	case "-":
		p.cache.AcceptHook(trace.NewLogTracer(log.New(stdout, "", 0)))
		return nil
	}

	f, err := os.Create(o.LogTrace)
	if err != nil {
		return fmt.Errorf("creating log trace: %w", err)
	}

	p.cleanup = append(p.cleanup, func() { f.Close() })
	p.cache.AcceptHook(trace.NewLogTracer(log.New(f, "", 0)))

	return nil
}

func (p *platform) startMonitor(o runOptions, total int) *monitoring.ProgressBar {
	if !o.Monitor {
		return nil
	}

	m := monitoring.NewMonitor().WithPortNumber(o.MonitorPort)
	m.RegisterEngine(p.engine)
	m.RegisterComponent(p.cache)
	m.RegisterComponent(p.dram)

	if p.spm != nil {
		m.RegisterComponent(p.spm)
	}

	url := m.StartServer()

	if o.OpenBrowser {
		if err := browser.OpenURL(url); err != nil {
			log.Printf("cannot open browser: %v", err)
		}
	}

	bar := m.CreateProgressBar("Trace", uint64(total))
	p.cleanup = append(p.cleanup, func() { m.CompleteProgressBar(bar) })

	return bar
}

// errUnsortedTrace is returned when the timestamps of a trace decrease.
var errUnsortedTrace = errors.New("trace is not sorted by time")

func runTrace(o runOptions, stdout io.Writer) error {
	if !replacement.IsKnownPolicy(o.Policy) {
		return fmt.Errorf("unknown policy %q", o.Policy)
	}

	f, err := os.Open(o.Trace)
	if err != nil {
		return fmt.Errorf("opening trace: %w", err)
	}
	defer f.Close()

	records, err := trace.NewReader(f).ReadAll()
	if err != nil {
		return fmt.Errorf("reading %s: %w", o.Trace, err)
	}

	p := buildPlatform(o)
	defer p.close()

	if err := p.attachRecorder(o); err != nil {
		return err
	}

	if err := p.attachLogTracer(o, stdout); err != nil {
		return err
	}

	bar := p.startMonitor(o, len(records))

	end, err := p.replay(records, bar)
	if err != nil {
		return err
	}

	if o.Flush {
		end = max(end, p.cache.Flush(end))
	}

	printSummary(stdout, p, len(records), end)

	return nil
}

func (p *platform) replay(
	records []trace.Record,
	bar *monitoring.ProgressBar,
) (sim.VTimeInSec, error) {
	r := &replayer{
		engine:  p.engine,
		cache:   p.cache,
		records: records,
		bar:     bar,
	}

	if len(records) > 0 {
		r.schedule(0)
	}

	err := p.engine.Run()

	return r.end, err
}

type accessEvent struct {
	*sim.EventBase
	index int
}

// A replayer feeds the records of a trace to a cache, one event per record.
// Each event schedules the next record so that the queue stays short.
type replayer struct {
	engine  sim.Engine
	cache   *cache.Comp
	records []trace.Record
	bar     *monitoring.ProgressBar
	end     sim.VTimeInSec
}

func (r *replayer) schedule(i int) {
	r.engine.Schedule(accessEvent{
		EventBase: sim.NewEventBase(r.records[i].Time, r),
		index:     i,
	})
}

func (r *replayer) Handle(e sim.Event) error {
	evt := e.(accessEvent)
	rec := r.records[evt.index]

	result := r.cache.Access(rec.Req, evt.Time())
	r.end = max(r.end, result.CompleteTime)

	if r.bar != nil {
		r.bar.IncrementFinished(1)
	}

	next := evt.index + 1
	if next == len(r.records) {
		return nil
	}

	if r.records[next].Time < rec.Time {
		return fmt.Errorf("%w: record %d at %g",
			errUnsortedTrace, next, float64(r.records[next].Time))
	}

	r.schedule(next)

	return nil
}

func printSummary(
	w io.Writer,
	p *platform,
	numRecords int,
	end sim.VTimeInSec,
) {
	s := p.cache.Stats()

	fmt.Fprintf(w, "cache size: %d bytes, %d ways\n",
		p.cache.TotalSize(), p.cache.NumWays())
	fmt.Fprintf(w, "records: %d\n", numRecords)
	fmt.Fprintf(w, "finish time: %.9f s\n", float64(end))
	fmt.Fprintf(w, "cache line accesses: %d\n", s.Accesses())
	fmt.Fprintf(w, "cache hit rate: %.4f\n", s.HitRate())
	fmt.Fprintf(w, "read hits/misses: %d/%d\n", s.ReadHits, s.ReadMisses)
	fmt.Fprintf(w, "write hits/misses: %d/%d\n", s.WriteHits, s.WriteMisses)
	fmt.Fprintf(w, "evictions: %d\n", s.Evictions)
	fmt.Fprintf(w, "write-backs: %d\n", s.WriteBacks)
	fmt.Fprintf(w, "migrations: %d\n", s.Migrations)
	fmt.Fprintf(w, "memory reads/writes: %d/%d\n",
		p.dram.NumReads(), p.dram.NumWrites())

	if p.spm == nil {
		return
	}

	e := p.spm.Stats()
	fmt.Fprintf(w, "spm reads/writes/others: %d/%d/%d\n",
		e.NumReads, e.NumWrites, e.NumOthers)
	fmt.Fprintf(w, "spm energy total/average: %.1f/%.1f pJ\n",
		e.TotalEnergy, e.AverageEnergy)
}
