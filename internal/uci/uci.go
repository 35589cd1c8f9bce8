// Package uci implements the Universal Chess Interface text protocol: one
// goroutine reads stdin and dispatches each line while a search, once
// started, runs in its own goroutine and is cancelled cooperatively via
// the engine's halt flag.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"chessplaycore/internal/board"
	"chessplaycore/internal/config"
	"chessplaycore/internal/engine"
	"chessplaycore/internal/game"
)

const (
	engineName   = "chessplaycore"
	engineAuthor = "chessplaycore contributors"
)

// UCI drives the engine from a Universal Chess Interface command stream.
type UCI struct {
	out *bufio.Writer
	log *log.Logger

	eng     *engine.Engine
	store   *config.Store
	options config.Options

	position *board.Position
	history  *game.History

	searching  bool
	searchDone chan struct{}
}

// New builds a UCI handler writing protocol output to out and diagnostics
// to errOut. store may be nil, in which case setoption changes are not
// persisted across restarts.
func New(out io.Writer, errOut io.Writer, store *config.Store) *UCI {
	board.Init()

	options := config.DefaultOptions()
	if store != nil {
		if loaded, err := store.Load(); err == nil {
			options = loaded
		}
	}

	u := &UCI{
		out:      bufio.NewWriter(out),
		log:      log.New(errOut, "", log.LstdFlags),
		store:    store,
		options:  options,
		position: board.NewPosition(),
	}
	u.eng = engine.NewEngineWithWorkers(options.HashMB, options.Threads)
	u.history = game.NewHistory(u.position.Hash)
	return u
}

// Run reads UCI commands from in until EOF or "quit".
func (u *UCI) Run(in io.Reader) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			board.Init()
			u.println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleStop()
			return
		case "setoption":
			u.handleSetOption(args)
		case "d":
			u.println(u.position.ToFEN())
		case "perft":
			u.handlePerft(args)
		default:
			// Unknown commands are ignored, per the UCI convention that a
			// GUI may send commands this engine doesn't implement.
		}
	}
}

func (u *UCI) println(s string) {
	fmt.Fprintln(u.out, s)
	u.out.Flush()
}

func (u *UCI) handleUCI() {
	u.println("id name " + engineName)
	u.println("id author " + engineAuthor)
	u.println("")
	u.println(fmt.Sprintf("option name Hash type spin default %d min 1 max 4096", config.DefaultOptions().HashMB))
	u.println(fmt.Sprintf("option name Threads type spin default %d min 1 max 128", config.DefaultOptions().Threads))
	u.println("option name Debug type check default false")
	u.println("uciok")
}

func (u *UCI) handleNewGame() {
	u.eng.Clear()
	u.position = board.NewPosition()
	u.history = game.NewHistory(u.position.Hash)
}

// handlePosition parses "position [startpos|fen <fen>] [moves ...]".
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var moveStart int
	switch args[0] {
	case "startpos":
		u.position = board.NewPosition()
		moveStart = 1
	case "fen":
		end := len(args)
		for i := 1; i < len(args); i++ {
			if args[i] == "moves" {
				end = i
				break
			}
		}
		pos, err := board.ParseFEN(strings.Join(args[1:end], " "))
		if err != nil {
			u.logString("invalid FEN: %v", err)
			return
		}
		u.position = pos
		moveStart = end
	default:
		return
	}

	u.history = game.NewHistory(u.position.Hash)

	if moveStart < len(args) && args[moveStart] == "moves" {
		for _, s := range args[moveStart+1:] {
			move, err := board.ParseUCIMove(s, u.position)
			if err != nil {
				u.logString("invalid move %q: %v", s, err)
				return
			}
			var legal board.MoveList
			board.GenerateLegalMoves(u.position, &legal)
			if !legal.Contains(move) {
				u.logString("illegal move %q in position command", s)
				return
			}
			var undo board.UndoRecord
			u.position.MakeMove(move, &undo)
			u.history.Push(u.position.Hash)
		}
	}
}

func (u *UCI) handleGo(args []string) {
	var limits engine.UCILimits
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			i++
			limits.Depth = atoiArg(args, i)
		case "nodes":
			i++
			n, _ := strconv.ParseUint(argAt(args, i), 10, 64)
			limits.Nodes = n
		case "movetime":
			i++
			limits.MoveTime = time.Duration(atoiArg(args, i)) * time.Millisecond
		case "infinite":
			limits.Infinite = true
		case "wtime":
			i++
			limits.Time[board.White] = time.Duration(atoiArg(args, i)) * time.Millisecond
		case "btime":
			i++
			limits.Time[board.Black] = time.Duration(atoiArg(args, i)) * time.Millisecond
		case "winc":
			i++
			limits.Inc[board.White] = time.Duration(atoiArg(args, i)) * time.Millisecond
		case "binc":
			i++
			limits.Inc[board.Black] = time.Duration(atoiArg(args, i)) * time.Millisecond
		case "movestogo":
			i++
			limits.MovesToGo = atoiArg(args, i)
		}
	}

	u.eng.OnInfo = func(info engine.SearchInfo) { u.sendInfo(info) }

	pos := u.position.Clone()
	hist := u.history
	ply := hist.Len() - 1

	u.searching = true
	u.searchDone = make(chan struct{})
	go func() {
		defer close(u.searchDone)
		best := u.eng.Search(pos, limits, hist, ply)
		u.searching = false

		var legal board.MoveList
		board.GenerateLegalMoves(u.position, &legal)
		if best == board.NoMove || !legal.Contains(best) {
			if legal.Len() > 0 {
				best = legal.Get(0)
			} else {
				u.println("bestmove 0000")
				return
			}
		}
		u.println("bestmove " + best.String())
	}()
}

func atoiArg(args []string, i int) int {
	n, _ := strconv.Atoi(argAt(args, i))
	return n
}

func argAt(args []string, i int) string {
	if i < 0 || i >= len(args) {
		return ""
	}
	return args[i]
}

func (u *UCI) sendInfo(info engine.SearchInfo) {
	var b strings.Builder
	fmt.Fprintf(&b, "depth %d seldepth %d multipv 1", info.Depth, info.SelDepth)

	switch {
	case info.Score > engine.MateScore-engine.MaxPly:
		fmt.Fprintf(&b, " score mate %d", (engine.MateScore-info.Score+1)/2)
	case info.Score < -engine.MateScore+engine.MaxPly:
		fmt.Fprintf(&b, " score mate %d", -(engine.MateScore+info.Score+1)/2)
	default:
		fmt.Fprintf(&b, " score cp %d", info.Score)
	}

	fmt.Fprintf(&b, " nodes %d time %d", info.Nodes, info.Time.Milliseconds())
	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		fmt.Fprintf(&b, " nps %d", nps)
	}
	if info.HashFull > 0 {
		fmt.Fprintf(&b, " hashfull %d", info.HashFull)
	}
	if len(info.PV) > 0 {
		moves := make([]string, len(info.PV))
		for i, m := range info.PV {
			moves[i] = m.String()
		}
		fmt.Fprintf(&b, " pv %s", strings.Join(moves, " "))
	}

	u.println("info " + b.String())
}

func (u *UCI) handleStop() {
	if u.searching {
		u.eng.Stop()
		<-u.searchDone
	}
}

func (u *UCI) handleSetOption(args []string) {
	var name, value string
	var readingValue bool
	for _, a := range args {
		switch a {
		case "name":
			readingValue = false
		case "value":
			readingValue = true
		default:
			if readingValue {
				value = appendToken(value, a)
			} else {
				name = appendToken(name, a)
			}
		}
	}

	switch strings.ToLower(name) {
	case "hash":
		if mb, err := strconv.Atoi(value); err == nil && mb >= 1 {
			u.options.HashMB = mb
			u.eng = engine.NewEngineWithWorkers(u.options.HashMB, u.options.Threads)
			u.persistOptions()
			u.logString("Hash resized to %s", humanize.Bytes(uint64(mb)*1024*1024))
		}
	case "threads":
		if n, err := strconv.Atoi(value); err == nil && n >= 1 {
			u.options.Threads = n
			u.eng = engine.NewEngineWithWorkers(u.options.HashMB, u.options.Threads)
			u.persistOptions()
		}
	case "debug":
		u.options.DebugLog = strings.EqualFold(value, "true")
		u.persistOptions()
	}
}

func appendToken(s, tok string) string {
	if s == "" {
		return tok
	}
	return s + " " + tok
}

func (u *UCI) persistOptions() {
	if u.store == nil {
		return
	}
	if err := u.store.Save(u.options); err != nil {
		u.logString("failed to persist options: %v", err)
	}
}

func (u *UCI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil {
			depth = d
		}
	}
	start := time.Now()
	nodes := u.eng.Perft(u.position, depth)
	elapsed := time.Since(start)
	u.println(fmt.Sprintf("Nodes: %d", nodes))
	u.println(fmt.Sprintf("Time: %s", elapsed))
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		u.println(fmt.Sprintf("NPS: %s", humanize.Comma(int64(nps))))
	}
}

func (u *UCI) logString(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	u.println("info string " + msg)
	if u.options.DebugLog {
		u.log.Print(msg)
	}
}
