// lorcctl is a one-shot command-line harness for exercising a [lorc.Cache]
// against an in-memory backing store: seed synthetic data, run a scan
// through the cache, and print the resulting hit statistics.
//
// Usage:
//
//	lorcctl [flags] <command> [args]
//
// Commands:
//
//	seed-scan <count> <start> <end>   Seed count keys, scan [start,end), print stats
//	print-config                      Print the effective configuration as JSON
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strconv"

	flag "github.com/spf13/pflag"

	"github.com/jerry-gk/lorckv/internal/config"
	"github.com/jerry-gk/lorckv/internal/lorccli"
	"github.com/jerry-gk/lorckv/internal/memstore"
	"github.com/jerry-gk/lorckv/pkg/lorc"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, out, errOut *os.File) int {
	globalFlags := flag.NewFlagSet("lorcctl", flag.ContinueOnError)
	globalFlags.SetInterspersed(false)
	flagConfig := globalFlags.StringP("config", "c", "", "Use specified config `file`")
	flagCapacity := globalFlags.Int64P("capacity", "b", 0, "Override cache capacity in bytes")
	flagLayout := globalFlags.String("layout", "", "Override layout: vec|continuous")

	if err := globalFlags.Parse(args[1:]); err != nil {
		fmt.Fprintln(errOut, "error:", err)

		return 1
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)

		return 1
	}

	override := config.Config{CapacityBytes: *flagCapacity, Layout: *flagLayout}

	cfg, _, err := config.Load(cwd, *flagConfig, override, os.Environ())
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)

		return 1
	}

	commands := allCommands(cfg)

	commandMap := make(map[string]*lorccli.Command, len(commands))
	for _, cmd := range commands {
		commandMap[cmd.Name()] = cmd
	}

	rest := globalFlags.Args()
	if len(rest) == 0 {
		printUsage(errOut, commands)

		return 1
	}

	cmd, ok := commandMap[rest[0]]
	if !ok {
		fmt.Fprintln(errOut, "error: unknown command:", rest[0])
		printUsage(errOut, commands)

		return 1
	}

	io := lorccli.NewIO(out, errOut)

	return cmd.Run(context.Background(), io, rest[1:])
}

func printUsage(w *os.File, commands []*lorccli.Command) {
	fmt.Fprintln(w, "lorcctl - range cache harness")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: lorcctl [flags] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")

	for _, cmd := range commands {
		fmt.Fprintln(w, cmd.HelpLine())
	}
}

func allCommands(cfg config.Config) []*lorccli.Command {
	return []*lorccli.Command{
		seedScanCmd(cfg),
		printConfigCmd(cfg),
	}
}

func printConfigCmd(cfg config.Config) *lorccli.Command {
	fs := flag.NewFlagSet("print-config", flag.ContinueOnError)

	return &lorccli.Command{
		Flags: fs,
		Usage: "print-config",
		Short: "Print the effective configuration as JSON",
		Exec: func(_ context.Context, o *lorccli.IO, _ []string) error {
			formatted, err := config.Format(cfg)
			if err != nil {
				return err
			}

			o.Println(formatted)

			return nil
		},
	}
}

func seedScanCmd(cfg config.Config) *lorccli.Command {
	fs := flag.NewFlagSet("seed-scan", flag.ContinueOnError)

	return &lorccli.Command{
		Flags: fs,
		Usage: "seed-scan <count> <start> <end>",
		Short: "Seed count random keys, scan [start,end), print hit statistics",
		Exec: func(_ context.Context, o *lorccli.IO, args []string) error {
			if len(args) != 3 {
				return errors.New("seed-scan requires exactly 3 arguments: count start end")
			}

			count, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid count: %w", err)
			}

			return execSeedScan(o, cfg, count, args[1], args[2])
		},
	}
}

func execSeedScan(o *lorccli.IO, cfg config.Config, count int, start, end string) error {
	store := memstore.New()
	for i := range count {
		store.Put(randomKey(), []byte(fmt.Sprintf("value-%d", i)), lorc.KeyTypeValue)
	}

	cache := lorc.New(cfg.Options())
	defer func() { _ = cache.Close() }()

	result, err := cache.Scan(store, []byte(start), 0, []byte(end))
	if err != nil {
		return err
	}

	o.Printf("entries: %d\n", len(result.UserKeys))

	// A second scan over the same span should now hit the cache.
	if _, err := cache.Scan(store, []byte(start), 0, []byte(end)); err != nil {
		return err
	}

	formatted, err := config.Format(cfg)
	if err != nil {
		return err
	}

	o.Printf("config: %s\n", formatted)

	snap := cache.Stats().Snapshot()
	o.Printf(
		"full_hit_rate=%.3f hit_byte_rate=%.3f scan_count=%d\n",
		snap.FullHitRate, snap.HitByteRate, snap.ScanCount,
	)

	return nil
}

func randomKey() []byte {
	const alphabetSize = 26

	buf := make([]byte, 0, 8)

	for range 8 {
		n, _ := rand.Int(rand.Reader, big.NewInt(alphabetSize))
		buf = append(buf, byte('a')+byte(n.Int64()))
	}

	return buf
}
