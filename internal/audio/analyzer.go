package audio

import (
	"math"
	"time"
)

// SilenceFloorDB is reported instead of -Inf for silent signals
const SilenceFloorDB = -120.0

// ChannelStats holds level statistics for one channel
type ChannelStats struct {
	Peak float64
	RMS  float64
}

// Profile holds whole-buffer level statistics
type Profile struct {
	SampleRate int
	Channels   int
	Frames     int
	Duration   time.Duration

	// Global statistics, all channels pooled
	Peak   float64
	RMS    float64
	PeakDB float64 // dBFS
	RMSDB  float64 // dBFS

	// Peak to RMS ratio in dB (crest factor)
	DynamicRange float64

	PerChannel []ChannelStats
}

// Analyze measures peak and RMS levels of a view in one pass
func Analyze(v View) *Profile {
	frames, channels := v.Frames(), v.Channels()

	profile := &Profile{
		SampleRate: v.SampleRate(),
		Channels:   channels,
		Frames:     frames,
		PerChannel: make([]ChannelStats, channels),
	}
	if v.SampleRate() > 0 {
		profile.Duration = time.Duration(float64(frames) / float64(v.SampleRate()) * float64(time.Second))
	}

	sumSquares := make([]float64, channels)
	var totalSquares float64

	for f := 0; f < frames; f++ {
		for ch := 0; ch < channels; ch++ {
			s := float64(v.Sample(f, ch))
			sq := s * s
			sumSquares[ch] += sq
			totalSquares += sq

			if a := math.Abs(s); a > profile.PerChannel[ch].Peak {
				profile.PerChannel[ch].Peak = a
			}
		}
	}

	if frames > 0 {
		for ch := range profile.PerChannel {
			profile.PerChannel[ch].RMS = math.Sqrt(sumSquares[ch] / float64(frames))
			profile.Peak = math.Max(profile.Peak, profile.PerChannel[ch].Peak)
		}
		profile.RMS = math.Sqrt(totalSquares / float64(frames*channels))
	}

	profile.PeakDB = ToDB(profile.Peak)
	profile.RMSDB = ToDB(profile.RMS)

	// Avoid division by zero
	if profile.RMS > 0 {
		profile.DynamicRange = profile.PeakDB - profile.RMSDB
	}

	return profile
}

// ToDB converts a linear amplitude to dBFS, floored at SilenceFloorDB
func ToDB(amplitude float64) float64 {
	if amplitude <= 0 {
		return SilenceFloorDB
	}
	return math.Max(20*math.Log10(amplitude), SilenceFloorDB)
}
