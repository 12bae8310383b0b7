package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/go6502/core/cpu"
	"github.com/go6502/core/memory"
	"github.com/go6502/core/trace"
)

// model is the inspector's TUI state: the chip under inspection, the bus it
// reads through, the last 20 trace lines, an optional chip dump, and the last
// error if Step ever stopped.
type model struct {
	chip   *cpu.Chip
	mem    memory.Bank
	lines  []string
	dump   string
	err    error
	done   bool
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "d":
			m.dump = spew.Sdump(*m.chip)
		case " ", "n":
			if m.done {
				return m, nil
			}
			line := trace.Line(m.chip, m.mem)
			_, err := m.chip.Step()
			m.lines = append(m.lines, line)
			if len(m.lines) > 20 {
				m.lines = m.lines[len(m.lines)-20:]
			}
			if err != nil {
				if err == cpu.ErrBreak {
					m.done = true
				} else if _, ok := err.(cpu.DecodeMiss); !ok {
					m.err = err
					m.done = true
				}
			}
		}
	}
	return m, nil
}

func (m model) registers() string {
	return fmt.Sprintf(
		"PC:%04X A:%02X X:%02X Y:%02X SP:%02X P:%02X CYC:%d DB:%02X",
		m.chip.PC, m.chip.A, m.chip.X, m.chip.Y, m.chip.SP, m.chip.P, m.chip.DisplayCycle(),
		memory.LatestDatabusVal(m.mem),
	)
}

func (m model) View() string {
	status := m.registers()
	if m.err != nil {
		status += fmt.Sprintf("\nerror: %v", m.err)
	} else if m.done {
		status += "\nBRK reached; press q to quit"
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		strings.Join(m.lines, "\n"),
		"",
		status,
		m.dump,
		"",
		"space/n: step one instruction    d: dump chip state    q: quit",
	)
}

// runInspect loads romPath and starts the interactive stepping inspector.
func runInspect(romPath string, flat bool) error {
	rom, err := loadROM(romPath, flat)
	if err != nil {
		return err
	}
	chip := cpu.NewChip(rom.Bus, true)
	_, err = tea.NewProgram(model{chip: chip, mem: rom.Bus}).Run()
	return err
}
