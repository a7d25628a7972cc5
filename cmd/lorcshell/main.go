// lorcshell is an interactive REPL over a [lorc.Cache] backed by an
// in-process [memstore.Store], for poking at the range cache by hand.
//
// Commands:
//
//	put <key> <value>            Write a key to the backing store
//	del <key>                    Delete a key from the backing store
//	scan <start> <end> [maxlen]  Scan [start,end) through the cache
//	get <key>                    Point lookup against the cache only
//	divide <start> <end>         Show the cache's tiling of [start,end)
//	stats                        Show hit-rate statistics
//	info                         Show capacity/size/sequence
//	help                         Show this help
//	exit / quit / q              Exit
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/jerry-gk/lorckv/internal/config"
	"github.com/jerry-gk/lorckv/internal/memstore"
	"github.com/jerry-gk/lorckv/pkg/lorc"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	cfg, _, err := config.Load(cwd, "", config.Config{}, os.Environ())
	if err != nil {
		return err
	}

	shell := &shell{
		store: memstore.New(),
		cache: lorc.New(cfg.Options()),
	}
	defer func() { _ = shell.cache.Close() }()

	return shell.run()
}

type shell struct {
	store *memstore.Store
	cache *lorc.Cache
	line  *liner.State
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".lorcshell_history")
}

func (s *shell) run() error {
	s.line = liner.NewLiner()
	defer s.line.Close()

	s.line.SetCtrlCAborts(true)

	if f, err := os.Open(historyFile()); err == nil {
		_, _ = s.line.ReadHistory(f)
		_ = f.Close()
	}

	fmt.Println("lorcshell - range cache REPL")
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		line, err := s.line.Prompt("lorc> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println("\nBye!")

				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		s.line.AppendHistory(line)

		fields := strings.Fields(line)
		cmd, args := strings.ToLower(fields[0]), fields[1:]

		switch cmd {
		case "exit", "quit", "q":
			s.saveHistory()

			return nil
		case "help", "?":
			s.printHelp()
		case "put":
			s.cmdPut(args)
		case "del", "delete":
			s.cmdDelete(args)
		case "scan":
			s.cmdScan(args)
		case "get":
			s.cmdGet(args)
		case "divide":
			s.cmdDivide(args)
		case "stats":
			s.cmdStats()
		case "info":
			s.cmdInfo()
		default:
			fmt.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	s.saveHistory()

	return nil
}

func (s *shell) saveHistory() {
	path := historyFile()
	if path == "" {
		return
	}

	if f, err := os.Create(path); err == nil {
		_, _ = s.line.WriteHistory(f)
		_ = f.Close()
	}
}

func (s *shell) printHelp() {
	fmt.Println(`Commands:
  put <key> <value>            Write a key to the backing store
  del <key>                    Delete a key from the backing store
  scan <start> <end> [maxlen]  Scan [start,end) through the cache
  get <key>                    Point lookup against the cache only
  divide <start> <end>         Show the cache's tiling of [start,end)
  stats                        Show hit-rate statistics
  info                         Show capacity/size/sequence
  help                         Show this help
  exit / quit / q              Exit`)
}

func (s *shell) cmdPut(args []string) {
	if len(args) != 2 {
		fmt.Println("usage: put <key> <value>")

		return
	}

	seq := s.store.Put([]byte(args[0]), []byte(args[1]), lorc.KeyTypeValue)
	ik := lorc.NewInternalKey([]byte(args[0]), seq, lorc.KeyTypeValue)
	s.cache.UpdateEntry(ik, []byte(args[1]))
	fmt.Printf("ok (seq=%d)\n", seq)
}

func (s *shell) cmdDelete(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: del <key>")

		return
	}

	seq := s.store.Delete([]byte(args[0]))
	fmt.Printf("ok (seq=%d)\n", seq)
}

func (s *shell) cmdScan(args []string) {
	if len(args) < 2 {
		fmt.Println("usage: scan <start> <end> [maxlen]")

		return
	}

	maxLen := 0

	if len(args) > 2 {
		n, err := strconv.Atoi(args[2])
		if err != nil {
			fmt.Println("invalid maxlen:", err)

			return
		}

		maxLen = n
	}

	result, err := s.cache.Scan(s.store, []byte(args[0]), maxLen, []byte(args[1]))
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	for i, k := range result.UserKeys {
		fmt.Printf("%s = %s\n", k, result.Values[i])
	}

	fmt.Printf("(%d entries)\n", len(result.UserKeys))
}

func (s *shell) cmdGet(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: get <key>")

		return
	}

	ik := lorc.NewInternalKey([]byte(args[0]), uint64(s.store.GetSnapshot()), lorc.KeyTypeValue)

	value, ok := s.cache.Get(ik)
	if !ok {
		fmt.Println("(not cached)")

		return
	}

	fmt.Printf("%s\n", value)
}

func (s *shell) cmdDivide(args []string) {
	if len(args) != 2 {
		fmt.Println("usage: divide <start> <end>")

		return
	}

	segments, err := s.cache.Divide([]byte(args[0]), 0, []byte(args[1]))
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	for _, seg := range segments {
		fmt.Printf("[%s, %s) cached=%v length_hint=%d\n", seg.StartUserKey, seg.EndUserKey, seg.InRangeCache, seg.LengthHint)
	}
}

func (s *shell) cmdStats() {
	snap := s.cache.Stats().Snapshot()
	fmt.Printf("full_hit_rate=%.3f hit_byte_rate=%.3f\n", snap.FullHitRate, snap.HitByteRate)
	fmt.Printf("avg_put_us=%.1f avg_get_us=%.1f\n", snap.AvgPutMicros, snap.AvgGetMicros)
	fmt.Printf("scan_count=%d put_count=%d get_count=%d\n", snap.ScanCount, snap.PutCount, snap.GetCount)
}

func (s *shell) cmdInfo() {
	fmt.Printf("capacity=%d current_size=%d total_range_length=%d sequence=%d\n",
		s.cache.Capacity(), s.cache.CurrentSize(), s.cache.TotalRangeLength(), s.cache.Sequence())
}
