// Command run drives the chbench harness over every channel
// implementation and prints a comparison table.
//
// Typical invocation on a multi-core machine:
//
//	run -messages 5000000 -capacity 1024 -writer-cpu 1 -reader-cpu 2
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/valyala/fastrand"

	"github.com/novomation/waitfree-sync/bench/chbench"
)

var (
	messages  = flag.Int("messages", 5_000_000, "writes issued per implementation")
	capacity  = flag.Uint64("capacity", 1024, "channel capacity (power of two >= 2)")
	writerCPU = flag.Int("writer-cpu", -1, "logical CPU to pin the writer to (-1: unpinned)")
	readerCPU = flag.Int("reader-cpu", -1, "logical CPU to pin the reader to (-1: unpinned)")
	only      = flag.String("only", "", "comma separated implementation names to run (default: all)")
)

func main() {
	flag.Parse()

	if *messages <= 0 {
		log.Fatalf("messages must be positive, got %d", *messages)
	}
	if *capacity < 2 || *capacity&(*capacity-1) != 0 {
		log.Fatalf("capacity must be a power of two >= 2, got %d", *capacity)
	}

	cfg := chbench.Cfg{
		Messages:  *messages,
		Capacity:  *capacity,
		WriterCPU: *writerCPU,
		ReaderCPU: *readerCPU,
	}

	factories := []chbench.Factory[uint64]{
		chbench.SPSC[uint64]{},
		chbench.TripleBuffer[uint64]{},
		chbench.GoChan[uint64]{},
		chbench.MutexQueue[uint64]{},
		chbench.VyukovMPMC[uint64]{},
	}

	var runSet map[string]bool
	if *only != "" {
		runSet = make(map[string]bool)
		for _, name := range strings.Split(*only, ",") {
			runSet[strings.TrimSpace(name)] = true
		}
	}

	// Payloads carry a random high half so the channels move real data,
	// not a constant the compiler could fold away.
	gen := func(i int) uint64 { return uint64(fastrand.Uint32())<<32 | uint64(i) }

	fmt.Printf("%-24s %12s %12s %12s %12s %14s %8s\n",
		"impl", "writes", "rejected", "reads", "misses", "writes/sec", "pinned")
	for _, f := range factories {
		if runSet != nil && !runSet[f.Name()] {
			continue
		}
		res := chbench.Bench[uint64](f, cfg, gen)
		fmt.Printf("%-24s %12d %12d %12d %12d %14.0f %8s\n",
			res.Name, res.Writes, res.WriteRejects, res.Reads, res.ReadMisses,
			res.WritesPerSec, pinLabel(res))
	}
}

func pinLabel(res chbench.Results) string {
	switch {
	case res.WriterPinned && res.ReaderPinned:
		return "w+r"
	case res.WriterPinned:
		return "w"
	case res.ReaderPinned:
		return "r"
	default:
		return "none"
	}
}
