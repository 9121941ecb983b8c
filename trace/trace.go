// Package trace implements an interactive, single-instruction-stepping
// debugger. It is the bubbletea rebuild of the teacher's text BIOS
// REPL, grounded on hejops-gone/cpu/debugger.go's tea.Model shape:
// the CPU registers and run state render as a lipgloss panel, and
// go-spew dumps the PPU's register, OAM and palette state into a
// second panel on demand.
package trace

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/kestrelnes/gintendo/bus"
	"github.com/kestrelnes/gintendo/mos6502"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	haltedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// Model is the TUI debugger's bubbletea model. It owns nothing: the
// CPU and Bus it steps belong to the caller, who constructs them with
// Reset already called.
type Model struct {
	cpu *mos6502.CPU
	bus *bus.Bus

	steps    int
	lastErr  error
	quitting bool
	showPPU  bool
}

// New returns a debugger model stepping cpu, which must already be
// wired to bus and reset.
func New(cpu *mos6502.CPU, b *bus.Bus) Model {
	return Model{cpu: cpu, bus: b}
}

// Run starts the interactive stepper and blocks until the user quits.
func Run(cpu *mos6502.CPU, b *bus.Bus) error {
	_, err := tea.NewProgram(New(cpu, b)).Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case " ", "j", "n":
		m.step()
	case "p":
		m.showPPU = !m.showPPU
	}
	if m.cpu.State() == mos6502.Halted {
		return m, nil
	}
	return m, nil
}

// step advances the CPU by one fetch/execute iteration, recovering
// from a contract-violation panic (e.g. a PRG-ROM write) so the
// debugger can show it rather than crashing the TUI.
func (m *Model) step() {
	defer func() {
		if r := recover(); r != nil {
			m.lastErr = fmt.Errorf("%v", r)
		}
	}()
	m.cpu.Step(nil)
	m.steps++
}

func (m Model) registerPanel() string {
	return panelStyle.Render(fmt.Sprintf(
		"step %d\n%s\nstate: %s",
		m.steps, m.cpu.String(), m.cpu.State(),
	))
}

func (m Model) ppuPanel() string {
	if !m.showPPU {
		return panelStyle.Render("press 'p' to show PPU state")
	}
	frame := m.bus.Snapshot()
	oam := frame.OAM()
	var oamHead [16]uint8
	copy(oamHead[:], oam[:16])

	dump := spew.Sdump(struct {
		Ctrl    interface{}
		Mask    interface{}
		Status  interface{}
		OAMHead [16]uint8
		Palette interface{}
	}{
		Ctrl:    frame.Ctrl(),
		Mask:    frame.Mask(),
		Status:  frame.Status(),
		OAMHead: oamHead,
		Palette: frame.Palette(),
	})
	return panelStyle.Render(dump)
}

func (m Model) View() string {
	if m.quitting {
		return "bye.\n"
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.registerPanel(), m.ppuPanel())
	help := "space/j/n: step  p: toggle PPU dump  q: quit"
	if m.lastErr != nil {
		help = haltedStyle.Render("error: "+m.lastErr.Error()) + "\n" + help
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, "", help) + "\n"
}

func (m Model) String() string {
	var b strings.Builder
	fmt.Fprintln(&b, m.View())
	return b.String()
}
