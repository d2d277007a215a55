package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/drpcorg/ron/oplog"
	"github.com/drpcorg/ron/rdx"
	"github.com/drpcorg/ron/ron"
	"github.com/ergochat/readline"
)

// REPL collects ops typed one per line into a pending frame, then
// commits the frame to the store.
type REPL struct {
	store   *oplog.Store
	parser  *ron.Parser
	rl      *readline.Instance
	out     io.Writer
	pending ron.Frame
}

var (
	ErrUnknownCommand = errors.New("unknown command, try help")
	ErrNothingPending = errors.New("no pending ops")
	HelpGet           = errors.New("get <event> <object>")
)

const replHelp = `*type#object@event:location atoms;   add an op to the pending frame
frame                                print the pending frame
chunks                               print the pending frame's chunks
commit                               store the pending frame
clear                                drop the pending frame
list                                 print stored chunks
get <event> <object>                 print one stored chunk
stats                                parse cache stats
exit, quit
`

var completer = readline.NewPrefixCompleter(
	readline.PcItem("help"),

	readline.PcItem("frame"),
	readline.PcItem("chunks"),
	readline.PcItem("commit"),
	readline.PcItem("clear"),

	readline.PcItem("list"),
	readline.PcItem("get"),
	readline.PcItem("stats"),

	readline.PcItem("exit"),
	readline.PcItem("quit"),
)

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func NewREPL(store *oplog.Store, parser *ron.Parser, out io.Writer) *REPL {
	return &REPL{store: store, parser: parser, out: out}
}

func (repl *REPL) Open(history string) (err error) {
	repl.rl, err = readline.NewEx(&readline.Config{
		Prompt:          "ron ",
		HistoryFile:     history,
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return
	}
	repl.rl.CaptureExitSignal()
	return
}

func (repl *REPL) Close() error {
	if repl.rl != nil {
		_ = repl.rl.Close()
		repl.rl = nil
	}
	return nil
}

func (repl *REPL) Loop(ctx context.Context) (err error) {
	for ctx.Err() == nil {
		var line string
		line, err = repl.rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return nil
			}
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		err = repl.Execute(ctx, line)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			repl.printf("%s\n", err.Error())
		}
	}
	return nil
}

func (repl *REPL) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(repl.out, format, args...)
}

// Execute runs one input line. io.EOF means the user asked to leave.
func (repl *REPL) Execute(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if len(line) == 0 {
		return nil
	}
	if line[0] == '*' {
		op, err := repl.parser.Parse(line)
		if err != nil {
			return err
		}
		repl.pending = append(repl.pending, op)
		return nil
	}
	args := strings.Fields(line)
	switch args[0] {
	case "help":
		repl.printf("%s", replHelp)
	case "frame":
		repl.printf("%s", repl.pending.String())
	case "chunks":
		return repl.CommandChunks()
	case "commit":
		return repl.CommandCommit(ctx)
	case "clear":
		repl.pending = nil
	case "list":
		return repl.CommandList(ctx)
	case "get":
		return repl.CommandGet(args[1:])
	case "stats":
		st := repl.parser.Stats()
		repl.printf("cache: %d ops, %d hits, %d misses\n", st.Len, st.Hits, st.Misses)
	case "exit", "quit":
		return io.EOF
	default:
		return ErrUnknownCommand
	}
	return nil
}

func (repl *REPL) CommandChunks() error {
	chunks, err := ron.Chunks(repl.pending)
	if err != nil {
		return err
	}
	for i, chunk := range chunks {
		repl.printf("chunk %d %s\n%s", i, chunk.Directive(), chunk.Frame().String())
	}
	return nil
}

func (repl *REPL) CommandCommit(ctx context.Context) error {
	if len(repl.pending) == 0 {
		return ErrNothingPending
	}
	n, err := repl.store.AppendFrame(ctx, repl.pending)
	if err != nil {
		return err
	}
	repl.printf("stored %d ops in %d chunks\n", len(repl.pending), n)
	repl.pending = nil
	return nil
}

func (repl *REPL) CommandList(ctx context.Context) error {
	return repl.store.Scan(ctx, func(chunk ron.Chunk) error {
		repl.printf("%s", chunk.Frame().String())
		return nil
	})
}

func (repl *REPL) CommandGet(args []string) error {
	if len(args) != 2 {
		return HelpGet
	}
	event, err := rdx.ParseID(args[0])
	if err != nil {
		return err
	}
	object, err := rdx.ParseID(args[1])
	if err != nil {
		return err
	}
	chunk, err := repl.store.Get(event, object)
	if err != nil {
		return err
	}
	repl.printf("%s", chunk.Frame().String())
	return nil
}
