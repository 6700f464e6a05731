package ui

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/linuxmatters/jivecut/internal/audio"
	"github.com/linuxmatters/jivecut/internal/cli"
	"github.com/linuxmatters/jivecut/internal/config"
	"github.com/linuxmatters/jivecut/internal/effect"
	"github.com/linuxmatters/jivecut/internal/waveform"
)

// tickMsg advances the transport while playing
type tickMsg time.Time

// Model is the interactive waveform viewer. Edits are applied to a clone of
// the current buffer and published through the SharedBuffer; a published
// buffer is never mutated.
type Model struct {
	shared   *audio.SharedBuffer
	cursor   *audio.Cursor
	viewport *waveform.Viewport
	position progress.Model
	profile  *audio.Profile

	title  string
	status string

	gainDB       float64
	showWaveform bool
	showSpectrum bool
	playing      bool

	// Transport scratch, one tick of interleaved samples
	scratch []float32

	width  int
	height int
}

// NewModel creates a viewer over shared. title is shown in the header,
// usually the source file name.
func NewModel(shared *audio.SharedBuffer, title string) *Model {
	m := &Model{
		shared:   shared,
		cursor:   audio.NewCursor(shared),
		viewport: waveform.NewViewport(80),
		position: progress.New(
			progress.WithGradient(string(cli.FireCrimson), string(cli.FireYellow)),
			progress.WithWidth(40),
			progress.WithoutPercentage(),
		),
		title:        title,
		showWaveform: true,
		width:        84,
		height:       config.ViewerHeight,
	}
	m.refresh()
	return m
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.SetWidth(max(msg.Width-6, 1))
		m.position.Width = min(max(msg.Width-30, 10), 60)
		return m, nil

	case tickMsg:
		if !m.playing {
			return m, nil
		}
		return m, m.advance()

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.playing = false
		return tea.Quit

	case "+", "=":
		m.applyGain(config.GainStepDB)
	case "-", "_":
		m.applyGain(-config.GainStepDB)
	case "n":
		if m.applyEffect(effect.NewNormalize()) {
			m.status = "Normalised to full scale"
		}

	case "w":
		m.showWaveform = !m.showWaveform
	case "s":
		m.showSpectrum = !m.showSpectrum

	case "left", "h":
		m.viewport.Scroll(-m.scrollStep())
	case "right", "l":
		m.scrollRight()
	case "up", "k":
		m.viewport.SetZoom(min(m.viewport.Zoom()*config.ZoomStep, config.MaxZoom))
	case "down", "j":
		m.viewport.SetZoom(m.viewport.Zoom() / config.ZoomStep)

	case " ":
		if m.shared.Load() == nil {
			m.status = "No audio loaded"
			return nil
		}
		m.playing = !m.playing
		if m.playing {
			return tick()
		}
	case "home", "0":
		m.cursor.Reset()
	}
	return nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/config.TickRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// advance pulls one tick of audio through the cursor, as a playback device
// would, and schedules the next tick
func (m *Model) advance() tea.Cmd {
	buf := m.shared.Load()
	if buf == nil {
		m.playing = false
		return nil
	}

	need := max(buf.SampleRate()/config.TickRate, 1) * buf.Channels()
	if cap(m.scratch) < need {
		m.scratch = make([]float32, need)
	}

	_, err := m.cursor.Read(m.scratch[:need])
	if errors.Is(err, io.EOF) {
		m.playing = false
		m.cursor.Reset()
		m.status = "End of audio"
		return nil
	}
	if err != nil {
		m.playing = false
		m.status = err.Error()
		return nil
	}
	return tick()
}

func (m *Model) applyGain(stepDB float64) {
	gain := effect.NewGain(float32(math.Pow(10, stepDB/20)))
	if m.applyEffect(gain) {
		m.gainDB += stepDB
		m.status = fmt.Sprintf("Gain %+.1f dB", m.gainDB)
	}
}

// applyEffect processes a clone of the current buffer and publishes it
func (m *Model) applyEffect(e effect.Effect) bool {
	if m.shared.Apply(e.Process) == nil {
		m.status = "No audio loaded"
		return false
	}
	m.refresh()
	return true
}

// refresh points the viewport and level readout at the published buffer
func (m *Model) refresh() {
	buf := m.shared.Load()
	if buf == nil {
		m.viewport.SetView(nil)
		m.profile = nil
		return
	}
	m.viewport.SetView(buf)
	m.profile = audio.Analyze(buf)
}

func (m *Model) scrollStep() int {
	return config.ScrollColumn * max(m.viewport.FramesPerColumn(), 1)
}

func (m *Model) scrollRight() {
	buf := m.shared.Load()
	if buf == nil {
		return
	}
	if next := m.viewport.Offset() + m.scrollStep(); next < buf.Frames() {
		m.viewport.SetOffset(next)
	}
}

// GainDB returns the gain applied in this session
func (m *Model) GainDB() float64 { return m.gainDB }

// Playing reports whether the transport is running
func (m *Model) Playing() bool { return m.playing }

// ShowWaveform reports whether the waveform panel is visible
func (m *Model) ShowWaveform() bool { return m.showWaveform }

// Viewport exposes the waveform display settings
func (m *Model) Viewport() *waveform.Viewport { return m.viewport }

// Cursor exposes the transport position
func (m *Model) Cursor() *audio.Cursor { return m.cursor }

// View renders the UI
func (m *Model) View() string {
	var s strings.Builder

	s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(cli.FireYellow).Render("Jivecut ✂"))
	if m.title != "" {
		s.WriteString("  ")
		s.WriteString(lipgloss.NewStyle().Foreground(cli.FireOrange).Render(m.title))
	}
	s.WriteString("\n\n")

	buf := m.shared.Load()
	if buf == nil {
		s.WriteString(lipgloss.NewStyle().Faint(true).Italic(true).Render("No audio loaded"))
		s.WriteString("\n")
	} else {
		if m.showWaveform {
			s.WriteString(m.renderWaveform())
			s.WriteString("\n")
		}
		m.renderTransport(&s, buf)
		m.renderLevels(&s)
		if m.showSpectrum {
			m.renderSpectrumPanel(&s, buf)
		}
	}

	if m.status != "" {
		s.WriteString("\n")
		s.WriteString(lipgloss.NewStyle().Foreground(cli.WarmGray).Render(m.status))
	}
	s.WriteString("\n\n")
	s.WriteString(lipgloss.NewStyle().Faint(true).Render(
		"space play  ←/→ scroll  ↑/↓ zoom  +/- gain  n normalise  w waveform  s spectrum  q quit"))

	border := cli.FireRed
	if m.playing {
		border = cli.FireOrange
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2).
		Render(s.String())
}

func (m *Model) renderWaveform() string {
	rows := waveformRows(m.viewport.Points(), max(m.height-12, 4))

	// Column under the transport position, -1 when off screen
	playhead := -1
	if fpc := m.viewport.FramesPerColumn(); fpc > 0 && m.cursor.Frame() >= m.viewport.Offset() {
		playhead = (m.cursor.Frame() - m.viewport.Offset()) / fpc
	}

	waveStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X",
		config.BarColorR, config.BarColorG, config.BarColorB)))
	headStyle := lipgloss.NewStyle().Foreground(cli.FireYellow)

	var s strings.Builder
	for i, row := range rows {
		cells := []rune(row)
		if playhead >= 0 && playhead < len(cells) {
			head := cells[playhead]
			if head == ' ' {
				head = '│'
			}
			s.WriteString(waveStyle.Render(string(cells[:playhead])))
			s.WriteString(headStyle.Render(string(head)))
			s.WriteString(waveStyle.Render(string(cells[playhead+1:])))
		} else {
			s.WriteString(waveStyle.Render(row))
		}
		if i < len(rows)-1 {
			s.WriteString("\n")
		}
	}
	return s.String()
}

func (m *Model) renderTransport(s *strings.Builder, buf *audio.Buffer) {
	state := "Paused"
	if m.playing {
		state = "Playing"
	}

	elapsed := time.Duration(float64(buf.Duration()) * m.cursor.Position())
	s.WriteString(m.position.ViewAs(m.cursor.Position()))
	s.WriteString(fmt.Sprintf("  %s / %s  ", formatDuration(elapsed), formatDuration(buf.Duration())))
	s.WriteString(lipgloss.NewStyle().Faint(true).Italic(true).Render(state))
	s.WriteString("\n")
}

func (m *Model) renderLevels(s *strings.Builder) {
	labelStyle := lipgloss.NewStyle().Faint(true)
	headerStyle := lipgloss.NewStyle().Faint(true).Bold(true)

	s.WriteString(headerStyle.Render("Audio"))
	s.WriteString(" │ ")
	if m.profile != nil {
		s.WriteString(fmt.Sprintf("%d Hz  %d ch  ", m.profile.SampleRate, m.profile.Channels))
		s.WriteString(labelStyle.Render("Peak:"))
		s.WriteString(fmt.Sprintf(" %.1f dB  ", m.profile.PeakDB))
		s.WriteString(labelStyle.Render("RMS:"))
		s.WriteString(fmt.Sprintf(" %.1f dB  ", m.profile.RMSDB))
	}
	s.WriteString(labelStyle.Render("Gain:"))
	s.WriteString(fmt.Sprintf(" %+.1f dB  ", m.gainDB))
	s.WriteString(labelStyle.Render("Zoom:"))
	s.WriteString(fmt.Sprintf(" ×%.2f", m.viewport.Zoom()))
	s.WriteString("\n")
}

func (m *Model) renderSpectrumPanel(s *strings.Builder, buf *audio.Buffer) {
	bands := min(max(m.width-10, 8), config.SpectrumBands)
	heights, err := audio.Spectrum(buf, m.cursor.Frame(), config.FFTSize, bands)
	if err != nil {
		return
	}
	s.WriteString("\n")
	s.WriteString(lipgloss.NewStyle().Foreground(cli.FireOrange).Render("Spectrum:"))
	s.WriteString("\n")
	s.WriteString(renderSpectrum(heights, bands))
	s.WriteString("\n")
}
