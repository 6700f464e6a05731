package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/linuxmatters/jivecut/internal/audio"
	"github.com/linuxmatters/jivecut/internal/cli"
	"github.com/linuxmatters/jivecut/internal/config"
	"github.com/linuxmatters/jivecut/internal/effect"
	"github.com/linuxmatters/jivecut/internal/encoder"
	"github.com/linuxmatters/jivecut/internal/renderer"
	"github.com/linuxmatters/jivecut/internal/ui"
	"github.com/linuxmatters/jivecut/internal/waveform"
	"golang.org/x/image/font"
)

// version is set via ldflags at build time
// Local dev builds: "dev"
// Release builds: git tag (e.g. "v0.1.0")
var version = "dev"

var CLI struct {
	Info struct {
		Input  string `arg:"" name:"input" help:"Audio file (wav, mp3, flac, ogg, aiff)" type:"existingfile"`
		Chunks bool   `help:"List the RIFF chunks of a WAV file"`
	} `cmd:"" help:"Show format and level statistics for an audio file"`

	Waveform struct {
		Input      string  `arg:"" name:"input" help:"Audio file" type:"existingfile"`
		Output     string  `arg:"" name:"output" help:"Output PNG file"`
		Width      int     `help:"Image width in pixels" default:"${width}"`
		Height     int     `help:"Image height in pixels" default:"${height}"`
		Zoom       float32 `help:"Amplitude zoom, at least 0.1" default:"1"`
		Offset     int     `help:"First frame to draw" default:"0"`
		Title      string  `help:"Title drawn in the top left corner"`
		BarColor   string  `help:"Waveform colour" placeholder:"RRGGBB"`
		TextColor  string  `help:"Title and centre line colour" placeholder:"RRGGBB"`
		Background string  `help:"Background image, scaled to fit" type:"existingfile"`
		Font       string  `help:"TrueType font for the title" type:"existingfile"`
		Preview    bool    `help:"Show the rendered image in the terminal"`
	} `cmd:"" help:"Draw a waveform image"`

	Apply struct {
		Input    string   `arg:"" name:"input" help:"Audio file" type:"existingfile"`
		Output   string   `arg:"" name:"output" help:"Output WAV file"`
		Effect   []string `short:"e" help:"Effect to apply, in order (gain=-3dB, normalize, fadein=2s, fadeout=1.5s)" placeholder:"NAME=PARAM"`
		BitDepth int      `help:"Output bit depth: 16, 24 or 32" default:"${bitdepth}"`
	} `cmd:"" help:"Apply effects and write a WAV file"`

	Generate struct {
		Output    string        `arg:"" name:"output" help:"Output WAV file"`
		Rate      int           `help:"Sample rate in Hz" default:"${rate}"`
		Channels  int           `help:"Channel count" default:"${channels}"`
		Duration  time.Duration `help:"Tone length" default:"1s"`
		Frequency float64       `help:"Fundamental frequency in Hz" default:"440"`
		Amplitude float64       `help:"Peak amplitude of the fundamental" default:"0.3"`
		Pure      bool          `help:"Omit the 2nd and 3rd harmonics"`
		BitDepth  int           `help:"Output bit depth: 16, 24 or 32" default:"${bitdepth}"`
	} `cmd:"" help:"Write a test tone"`

	Spectrum struct {
		Input string        `arg:"" name:"input" help:"Audio file" type:"existingfile"`
		At    time.Duration `help:"Position of the analysis window" default:"0s"`
		Bands int           `help:"Number of frequency bands" default:"${bands}"`
	} `cmd:"" help:"Print the frequency spectrum at a position"`

	View struct {
		Input string `arg:"" name:"input" help:"Audio file; a test tone is used when omitted" optional:"" type:"existingfile"`
		Save  string `help:"Write the edited audio to this WAV file on exit" placeholder:"PATH"`
	} `cmd:"" help:"Open the interactive waveform viewer"`

	Version struct{} `cmd:"" help:"Show version information"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("jivecut"),
		kong.Description(cli.Tagline),
		kong.Vars{
			"version":  version,
			"width":    fmt.Sprint(config.Width),
			"height":   fmt.Sprint(config.Height),
			"rate":     fmt.Sprint(config.SampleRate),
			"channels": fmt.Sprint(config.Channels),
			"bands":    fmt.Sprint(config.SpectrumBands),
			"bitdepth": fmt.Sprint(config.ExportBitDepth),
		},
		kong.UsageOnError(),
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	var err error
	switch ctx.Command() {
	case "info <input>":
		err = runInfo()
	case "waveform <input> <output>":
		err = runWaveform()
	case "apply <input> <output>":
		err = runApply()
	case "generate <output>":
		err = runGenerate()
	case "spectrum <input>":
		err = runSpectrum()
	case "view", "view <input>":
		err = runView()
	case "version":
		cli.PrintVersion(version)
	default:
		err = fmt.Errorf("unknown command: %s", ctx.Command())
	}

	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}

func runInfo() error {
	input := CLI.Info.Input
	start := time.Now()

	buf, err := audio.Load(input)
	if err != nil {
		return err
	}
	profile := audio.Analyze(buf)

	cli.PrintSection(filepath.Base(input))
	cli.PrintInfo("Format", strings.ToUpper(audio.FormatKey(input)))
	cli.PrintInfo("Sample rate", fmt.Sprintf("%d Hz", profile.SampleRate))
	cli.PrintInfo("Channels", fmt.Sprint(profile.Channels))
	cli.PrintInfo("Frames", fmt.Sprint(profile.Frames))
	cli.PrintInfo("Duration", cli.FormatDuration(profile.Duration))
	cli.PrintInfo("Peak", fmt.Sprintf("%.1f dBFS", profile.PeakDB))
	cli.PrintInfo("RMS", fmt.Sprintf("%.1f dBFS", profile.RMSDB))
	cli.PrintInfo("Dynamic range", fmt.Sprintf("%.1f dB", profile.DynamicRange))
	for ch, stats := range profile.PerChannel {
		cli.PrintInfo(fmt.Sprintf("  Channel %d", ch+1), fmt.Sprintf("peak %.1f dBFS, RMS %.1f dBFS",
			audio.ToDB(stats.Peak), audio.ToDB(stats.RMS)))
	}
	cli.PrintInfo("Analysis time", cli.FormatDuration(time.Since(start)))

	if !CLI.Info.Chunks {
		return nil
	}
	if !audio.ProbeFile(input) {
		cli.PrintWarning("--chunks only applies to RIFF/WAVE files")
		return nil
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", input, err)
	}
	chunks, err := audio.Chunks(data)
	if err != nil {
		return err
	}

	cli.PrintSection("Chunks")
	for _, c := range chunks {
		cli.PrintInfo(fmt.Sprintf("%q", c.ID), fmt.Sprintf("offset %d, %s", c.Offset, cli.FormatBytes(int64(c.Size))))
	}
	return nil
}

func runWaveform() error {
	opts := CLI.Waveform

	var rc config.RuntimeConfig
	if opts.BarColor != "" {
		if err := rc.SetBarColor(opts.BarColor); err != nil {
			return err
		}
	}
	if opts.TextColor != "" {
		if err := rc.SetTextColor(opts.TextColor); err != nil {
			return err
		}
	}
	rc.BackgroundImagePath = opts.Background
	rc.FontPath = opts.Font

	if opts.Zoom < waveform.MinZoom {
		cli.PrintWarning(fmt.Sprintf("--zoom %g raised to %g", opts.Zoom, waveform.MinZoom))
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("invalid image size: %dx%d", opts.Width, opts.Height)
	}
	style := renderer.DefaultStyle(&rc)
	style.Width = opts.Width
	style.Height = opts.Height

	buf, err := audio.Load(opts.Input)
	if err != nil {
		return err
	}

	bgImage, err := loadBackground(rc.GetBackgroundImagePath(), style)
	if err != nil {
		return err
	}

	face, err := loadFont(rc.GetFontPath())
	if err != nil {
		return err
	}

	frame := renderer.NewFrame(style, bgImage, face)
	frame.DrawView(buf, opts.Zoom, opts.Offset, opts.Title)

	if err := renderer.SavePNG(frame.Image(), opts.Output); err != nil {
		return err
	}

	if opts.Preview {
		fmt.Print(ui.RenderImage(frame.Image(), config.PreviewWidth, "Waveform Preview"))
	}
	cli.PrintSuccess(fmt.Sprintf("Wrote %s (%d columns, %s of audio)",
		opts.Output, frame.Columns(), cli.FormatDuration(buf.Duration())))
	return nil
}

// loadBackground returns nil when no background is configured
func loadBackground(path string, style renderer.Style) (*image.RGBA, error) {
	if path == "" {
		return nil, nil
	}
	return renderer.LoadBackgroundImage(path, style.Width, style.Height)
}

func loadFont(path string) (font.Face, error) {
	if path == "" {
		return renderer.DefaultFont(config.TitleSize)
	}
	return renderer.LoadFont(path, config.TitleSize)
}

func runApply() error {
	opts := CLI.Apply
	start := time.Now()

	buf, err := audio.Load(opts.Input)
	if err != nil {
		return err
	}
	before := audio.Analyze(buf)

	chain, err := effect.DefaultRegistry().ParseChain(opts.Effect, buf.SampleRate())
	if err != nil {
		return err
	}
	chain.Process(buf)
	after := audio.Analyze(buf)

	if err := encoder.Export(opts.Output, buf, opts.BitDepth); err != nil {
		return err
	}

	elapsed := time.Since(start)
	speed := 0.0
	if elapsed > 0 {
		speed = float64(buf.Duration()) / float64(elapsed)
	}

	info, err := os.Stat(opts.Output)
	if err != nil {
		return err
	}

	cli.PrintSummary("Export Complete!", [][2]string{
		{"Output", opts.Output},
		{"Effects", chain.Name()},
		{"Peak", fmt.Sprintf("%.1f dBFS → %.1f dBFS", before.PeakDB, after.PeakDB)},
		{"RMS", fmt.Sprintf("%.1f dBFS → %.1f dBFS", before.RMSDB, after.RMSDB)},
		{"Duration", cli.FormatDuration(buf.Duration())},
		{"Speed", cli.FormatSpeed(speed)},
		{"File size", cli.FormatBytes(info.Size())},
	})
	return nil
}

func runGenerate() error {
	opts := CLI.Generate

	tone := audio.DefaultToneOptions()
	tone.SampleRate = opts.Rate
	tone.Channels = opts.Channels
	tone.Duration = opts.Duration
	tone.Frequency = opts.Frequency
	tone.Amplitude = opts.Amplitude
	if opts.Pure {
		tone.Partials = nil
	}

	buf, err := audio.GenerateTone(tone)
	if err != nil {
		return err
	}
	if err := encoder.Export(opts.Output, buf, opts.BitDepth); err != nil {
		return err
	}

	cli.PrintSuccess(fmt.Sprintf("Wrote %s (%.0f Hz, %s, %d ch, %d-bit)",
		opts.Output, opts.Frequency, cli.FormatDuration(buf.Duration()), buf.Channels(), opts.BitDepth))
	return nil
}

func runSpectrum() error {
	opts := CLI.Spectrum

	buf, err := audio.Load(opts.Input)
	if err != nil {
		return err
	}

	startFrame := int(opts.At.Seconds() * float64(buf.SampleRate()))
	heights, err := audio.Spectrum(buf, startFrame, config.FFTSize, opts.Bands)
	if err != nil {
		return err
	}

	peak := 0.0
	for _, h := range heights {
		peak = max(peak, h)
	}

	edges := audio.BandEdges(buf.SampleRate(), config.FFTSize, opts.Bands)

	cli.PrintSection(fmt.Sprintf("Spectrum at %s", cli.FormatDuration(opts.At)))
	for i, h := range heights {
		width := 0
		if peak > 0 {
			width = int(h / peak * 40)
		}
		cli.PrintInfo(fmt.Sprintf("%7.0f Hz", edges[i]), strings.Repeat("█", width))
	}
	return nil
}

func runView() error {
	opts := CLI.View

	var buf *audio.Buffer
	var err error
	title := "Test tone"
	if opts.Input != "" {
		buf, err = audio.Load(opts.Input)
		title = filepath.Base(opts.Input)
	} else {
		buf, err = audio.GenerateTone(audio.DefaultToneOptions())
	}
	if err != nil {
		return err
	}

	shared := audio.NewSharedBuffer(buf)
	model := ui.NewModel(shared, title)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}

	if opts.Save == "" {
		return nil
	}
	if err := encoder.Export(opts.Save, shared.Load(), config.ExportBitDepth); err != nil {
		return err
	}
	cli.PrintSuccess(fmt.Sprintf("Saved %s (gain %+.1f dB)", opts.Save, model.GainDB()))
	return nil
}
