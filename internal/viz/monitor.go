package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/graphsim/internal/forcegraph"
	"github.com/san-kum/graphsim/internal/generate"
	"github.com/san-kum/graphsim/internal/metrics"
	"github.com/san-kum/graphsim/internal/vector"
)

const (
	historyCapacity = 300
	growBy          = 50
	lockFraction    = 0.5
	frameRate       = 30
)

type TickMsg time.Time

// Monitor ticks a world on every frame and shows its statistics. It also
// exposes the graph edits a developer uses to poke a live layout.
type Monitor struct {
	title   string
	world   *forcegraph.World
	groups  []*forcegraph.Group
	src     *vector.Source
	energy  *metrics.KineticEnergy
	speed   *metrics.MaxSpeed
	running bool

	tick          int
	ticksPerFrame int
	lastTick      time.Duration
	energyHistory []float64
	message       string
	err           error
}

// NewMonitor returns a monitor over w. groups are the groups the G key
// assigns nodes to; seed drives every random edit.
func NewMonitor(title string, w *forcegraph.World, groups []*forcegraph.Group, seed int64) Monitor {
	return Monitor{
		title:         title,
		world:         w,
		groups:        groups,
		src:           vector.NewSource(seed),
		energy:        metrics.NewKineticEnergy(w),
		speed:         metrics.NewMaxSpeed(w),
		running:       true,
		ticksPerFrame: 1,
		energyHistory: make([]float64, 0, historyCapacity),
	}
}

// SetTicksPerFrame sets how many ticks run between redraws.
func (m *Monitor) SetTicksPerFrame(n int) {
	if n > 0 {
		m.ticksPerFrame = n
	}
}

func (m Monitor) Init() tea.Cmd {
	return nextFrame()
}

func nextFrame() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "s":
			if !m.running {
				m.step()
			}
		case "a":
			if err := generate.Grow(m.world, growBy, m.src); err != nil {
				m.err = err
			} else {
				m.message = fmt.Sprintf("added %d nodes", growBy)
			}
		case "g":
			n := generate.AssignGroups(m.world, m.groups, m.src)
			m.message = fmt.Sprintf("grouped %d nodes", n)
		case "h":
			generate.Ungroup(m.world)
			m.message = "ungrouped all nodes"
		case "l":
			n := generate.LockRandom(m.world, lockFraction, m.src)
			m.message = fmt.Sprintf("locked %d nodes", n)
		case "k":
			generate.UnlockAll(m.world)
			m.message = "unlocked all nodes"
		case "t":
			NextTheme()
		}
	case TickMsg:
		if m.running {
			for i := 0; i < m.ticksPerFrame; i++ {
				m.step()
			}
		}
		return m, nextFrame()
	}
	return m, nil
}

func (m *Monitor) step() {
	start := time.Now()
	m.world.Update()
	m.lastTick = time.Since(start)
	m.tick++

	m.energy.Observe(m.tick)
	m.speed.Observe(m.tick)
	if len(m.energyHistory) == historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
	m.energyHistory = append(m.energyHistory, m.energy.Value())
}

// Tick is the number of ticks run so far.
func (m Monitor) Tick() int { return m.tick }

// Running reports whether the monitor advances on each frame.
func (m Monitor) Running() bool { return m.running }

func (m Monitor) View() string {
	var s strings.Builder
	s.WriteString(headerStyle().Render(strings.ToUpper(m.title)) + "\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(statusStyle(m.running).Render(status) + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(6), asciigraph.Width(50), asciigraph.Caption("kinetic energy"))
		s.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Render(chart) + "\n\n")
	}

	stats := Panel("world", []Row{
		{"Tick", fmt.Sprintf("%d", m.tick)},
		{"Nodes", fmt.Sprintf("%d", m.world.NodeCount())},
		{"Edges", fmt.Sprintf("%d", m.world.EdgeCount())},
		{"Radius", fmt.Sprintf("%.2f", m.world.Radius())},
		{"Energy", fmt.Sprintf("%.4g", m.energy.Value())},
		{"Max speed", fmt.Sprintf("%.4g", m.speed.Value())},
		{"Tick time", m.lastTick.Round(time.Microsecond).String()},
	})
	s.WriteString(stats + "\n")

	if m.err != nil {
		s.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render(m.err.Error()) + "\n")
	} else if m.message != "" {
		s.WriteString(Subtle.Render(m.message) + "\n")
	}

	s.WriteString(KeyHint.Render("\nSP:Pause S:Step A:Grow G/H:Group/Ungroup L/K:Lock/Unlock T:Theme Q:Quit"))
	return s.String()
}
