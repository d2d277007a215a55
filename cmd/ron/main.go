package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/drpcorg/ron/oplog"
	"github.com/drpcorg/ron/protocol"
	"github.com/drpcorg/ron/ron"
	"github.com/drpcorg/ron/utils"
	"github.com/google/uuid"
)

const usage = `usage: ron [-config file.toml] <command>

commands:
  repl    interactive op console (default)
  serve   HTTP frame ingestion
  dump    print every stored chunk
`

func main() {
	flags := flag.NewFlagSet("ron", flag.ExitOnError)
	cfgPath := flags.String("config", "", "TOML config file")
	flags.Usage = func() { _, _ = fmt.Fprint(os.Stderr, usage) }
	_ = flags.Parse(os.Args[1:])

	if err := run(*cfgPath, flags.Arg(0)); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run(cfgPath, cmd string) error {
	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		return err
	}
	level, err := utils.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := utils.NewDefaultLogger(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = utils.WithDefaultArgs(ctx, "session", uuid.Must(uuid.NewV7()).String())

	if cmd == "help" {
		_, _ = fmt.Fprint(os.Stdout, usage)
		return nil
	}
	if cmd != "" && cmd != "repl" && cmd != "serve" && cmd != "dump" {
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}

	store, err := oplog.Open(cfg.DB, oplog.Options{Logger: logger, Sync: cfg.Sync})
	if err != nil {
		return err
	}
	defer store.Close()
	parser, err := ron.NewParser(cfg.CacheSize)
	if err != nil {
		return err
	}

	switch cmd {
	case "serve":
		return NewServer(store, parser, logger).ListenAndServe(ctx, cfg.Listen)
	case "dump":
		return Dump(ctx, store, os.Stdout)
	default:
		repl := NewREPL(store, parser, os.Stdout)
		if err = repl.Open(cfg.History); err != nil {
			return err
		}
		defer repl.Close()
		return repl.Loop(ctx)
	}
}

// textDrainer prints op records as frame text.
type textDrainer struct {
	out io.Writer
}

func (d textDrainer) Drain(ctx context.Context, recs protocol.Records) error {
	frame, err := ron.FrameFromRecords(recs)
	if err != nil {
		return err
	}
	_, err = d.out.Write(frame.AppendText(nil))
	return err
}

func Dump(ctx context.Context, store *oplog.Store, out io.Writer) error {
	feeder, err := store.NewFeeder(oplog.DefaultFeedBatch)
	if err != nil {
		return err
	}
	defer feeder.Close()
	return protocol.Pump(ctx, feeder, textDrainer{out: out})
}
