// Command go6502 drives the CORE against a ROM image from the command line:
// either a plain retired-instruction run, a log-compatible trace dump, or
// the interactive inspector.
package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"

	"gopkg.in/urfave/cli.v2"

	"github.com/go6502/core/cart"
	"github.com/go6502/core/cpu"
	"github.com/go6502/core/trace"
)

func main() {
	app := &cli.App{
		Name:    "go6502",
		Usage:   "run a 6502 program image against the CORE",
		Version: "v0.0.1",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "nestest",
				Usage: "force PC to $C000 and offset the displayed cycle count by +7, matching the reference trace's reset timing",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "emit a log-compatible trace line per instruction to stdout",
			},
			&cli.BoolFlag{
				Name:  "flat",
				Usage: "treat the ROM argument as a raw 16/32 KiB PRG image instead of an iNES file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "inspect",
				Usage: "run the ROM under the interactive TUI inspector",
				Action: func(c *cli.Context) error {
					return runInspect(c.Args().First(), c.Bool("flat"))
				},
			},
		},
		Action: func(c *cli.Context) error {
			romPath := c.Args().First()
			if romPath == "" {
				cli.ShowAppHelp(c)
				return cli.Exit("missing ROM path", 1)
			}
			return run(romPath, c.Bool("flat"), c.Bool("nestest"), c.Bool("trace"))
		},
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadROM(path string, flat bool) (*cart.ROM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("reading %s: %v", path, err), 2)
	}
	if flat {
		return cart.LoadFlat(data)
	}
	return cart.Load(data)
}

// run powers on the CORE against the loaded ROM and steps it to completion,
// optionally emitting one trace line per instruction. It exits 0 on a
// BRK-terminated run and non-zero on anything else.
func run(romPath string, flat, nestest, wantTrace bool) error {
	rom, err := loadROM(romPath, flat)
	if err != nil {
		return err
	}

	chip := cpu.NewChip(rom.Bus, nestest)
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	for {
		if wantTrace {
			fmt.Fprintln(out, trace.Line(chip, rom.Bus))
		}
		_, err := chip.Step()
		if err == nil {
			continue
		}
		if err == cpu.ErrBreak {
			return nil
		}
		if _, ok := err.(cpu.DecodeMiss); ok {
			continue
		}
		return cli.Exit(err.Error(), 3)
	}
}
