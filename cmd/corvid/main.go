package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/corvidchess/corvid/pkg/engine"
	"github.com/corvidchess/corvid/pkg/engine/console"
	"github.com/corvidchess/corvid/pkg/engine/uci"
	"github.com/seekerror/logw"
)

var (
	depth   = flag.Uint("depth", 0, "Search depth limit (zero for no limit)")
	hash    = flag.Uint("hash", 64, "Transposition table size in MB")
	noise   = flag.Uint("noise", 0, "Evaluation noise in millipawns (zero if deterministic)")
	threads = flag.Int("threads", 1, "Number of parallel search workers (lazy-SMP)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: corvid [options]

corvid is a UCI chess engine.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	e := engine.New(ctx, "corvid", "corvidchess", engine.WithOptions(engine.Options{
		Depth:   *depth,
		Hash:    *hash,
		Noise:   *noise,
		Threads: *threads,
	}))

	in := engine.ReadStdinLines(ctx)
	switch <-in {
	case uci.ProtocolName:
		// Use UCI protocol.

		driver, out := uci.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	case console.ProtocolName:
		driver, out := console.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}
