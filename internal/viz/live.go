package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/rodsim/internal/metrics"
	"github.com/san-kum/rodsim/internal/rod"
	"github.com/san-kum/rodsim/internal/sim"
)

const (
	canvasWidth     = 60
	canvasHeight    = 24
	historyCapacity = 600
	frameRate       = 30
	// targetFrames is roughly how many frames a full run should take.
	targetFrames = 300
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model steps a simulator on every frame and draws the rod.
type Model struct {
	name          string
	sim           *sim.Simulator
	cfg           sim.Config
	stepsPerFrame int
	canvas        *Canvas
	camera        *Camera
	twist         *metrics.EndTwist
	history       []float64
	running       bool
	done          bool
	err           error
}

// NewModel wraps s, which is run for cfg.Duration in steps of cfg.Dt.
func NewModel(name string, s *sim.Simulator, cfg sim.Config) Model {
	twist := metrics.NewEndTwist()
	s.AddMetric(twist)

	total := int(math.Round(cfg.Duration / cfg.Dt))
	perFrame := total / targetFrames
	if perFrame < 1 {
		perFrame = 1
	}

	a, _ := s.Rod().Start()
	b, _ := s.Rod().End()

	return Model{
		name:          name,
		sim:           s,
		cfg:           cfg,
		stepsPerFrame: perFrame,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		camera:        NewCamera(a, b),
		twist:         twist,
		history:       make([]float64, 0, historyCapacity),
		running:       true,
	}
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "x":
			m.camera.RotatePitch(0.1)
		case "X":
			m.camera.RotatePitch(-0.1)
		case "y":
			m.camera.RotateYaw(0.1)
		case "Y":
			m.camera.RotateYaw(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		}
	case TickMsg:
		if m.running && !m.done {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

// advance runs one frame worth of steps.
func (m *Model) advance() {
	steps := int(math.Round(m.cfg.Duration / m.cfg.Dt))
	for i := 0; i < m.stepsPerFrame; i++ {
		if m.sim.Steps() >= steps {
			m.done = true
			break
		}
		m.sim.Step(m.cfg.Dt)
		if !m.sim.Rod().IsValid() {
			m.err = &sim.StepError{Step: m.sim.Steps(), Time: m.sim.Time(), Wrapped: rod.ErrInvalidState}
			m.done = true
			break
		}
	}

	m.history = append(m.history, m.sim.Rod().EndToEnd())
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	w, h := m.canvas.Dots()
	r := m.sim.Rod()

	px, py, _ := m.camera.Project(r.Position[0], w, h)
	for _, p := range r.Position[1:] {
		x, y, _ := m.camera.Project(p, w, h)
		m.canvas.DrawLine(px, py, x, y)
		px, py = x, y
	}

	arm := 0.08 * m.camera.Extent
	sp, sd := r.Start()
	ep, ed := r.End()
	for _, end := range []struct {
		p mgl64.Vec3
		d mgl64.Mat3
	}{{sp, sd}, {ep, ed}} {
		x0, y0, _ := m.camera.Project(end.p, w, h)
		x1, y1, _ := m.camera.Project(end.p.Add(end.d.Row(0).Mul(arm)), w, h)
		m.canvas.Dot(x0, y0, 1)
		m.canvas.DrawLine(x0, y0, x1, y1)
	}
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return errorStyle.Render("FAILED")
	case m.done:
		return "DONE"
	case !m.running:
		return "PAUSED"
	default:
		return "RUNNING"
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("end-to-end"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	phase := m.sim.Phase()
	if phase == "" {
		phase = "-"
	}
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2f / %.2f", m.sim.Time(), m.cfg.Duration)) + "\n")
	s.WriteString(labelStyle.Render("Phase") + phaseStyle(phase).Render(phase) + "\n")
	s.WriteString(labelStyle.Render("End-to-end") + valueStyle.Render(fmt.Sprintf("%.4f", m.sim.Rod().EndToEnd())) + "\n")
	s.WriteString(labelStyle.Render("Twist") + valueStyle.Render(fmt.Sprintf("%.3f turns", m.twist.Value())) + "\n")
	s.WriteString(labelStyle.Render("Steps") + valueStyle.Render(fmt.Sprintf("%d", m.sim.Steps())) + "\n")
	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause Q:Quit\nx/y:Rotate +/-:Zoom"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

// Err returns the failure that stopped the run, if any.
func (m Model) Err() error { return m.err }

// Done reports whether the configured duration has been covered.
func (m Model) Done() bool { return m.done }

// Run shows a Model full screen until the user quits.
func Run(name string, s *sim.Simulator, cfg sim.Config) error {
	final, err := tea.NewProgram(NewModel(name, s, cfg), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok {
		return m.Err()
	}
	return nil
}
