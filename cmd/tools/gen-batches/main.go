// Package main generates synthetic acceleration batches for exercising the
// submission API. It emits one JSON submission per line, or POSTs each batch
// directly to a running server with -post.
//
// The burst is synthesised in the device frame at a configurable tilt and
// projected back onto true vertical, the same correction clients apply, so a
// generated batch is indistinguishable from a phone mounted at an angle.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/banshee-data/road.report/internal/rci"
)

type genConfig struct {
	Waveform string
	FreqHz   float64
	Amp      float64
	RateHz   float64
	Duration float64
	SpeedKMH float64
	DeviceID string
	Lat      float64
	Lon      float64
	StepDeg  float64
	Count    int
	BetaDeg  float64
	GammaDeg float64
	Seed     int64
	PostURL  string
}

type submission struct {
	DeviceID    string    `json:"device_id"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	SpeedKMH    float64   `json:"speed_kmh"`
	ZValues     []float64 `json:"z_values"`
	IntervalSec float64   `json:"interval_sec"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// synthesize builds one burst of vertical acceleration in m/s².
func synthesize(cfg genConfig, rng *rand.Rand) []float64 {
	n := int(cfg.Duration * cfg.RateHz)
	z := make([]float64, n)
	for i := range z {
		t := float64(i) / cfg.RateHz
		switch cfg.Waveform {
		case "square":
			if math.Mod(t*cfg.FreqHz, 1) < 0.5 {
				z[i] = cfg.Amp
			} else {
				z[i] = -cfg.Amp
			}
		case "noise":
			z[i] = rng.NormFloat64() * cfg.Amp
		default: // sine
			z[i] = cfg.Amp * math.Sin(2*math.Pi*cfg.FreqHz*t)
		}
	}
	return z
}

// tiltAndProject rotates the vertical signal into the device frame at the
// configured tilt and recovers it through the same projection clients use.
func tiltAndProject(z []float64, betaDeg, gammaDeg float64) []float64 {
	beta := betaDeg * math.Pi / 180
	gamma := gammaDeg * math.Pi / 180
	upX := math.Sin(beta)
	upY := -math.Cos(beta) * math.Sin(gamma)
	upZ := -math.Cos(beta) * math.Cos(gamma)

	out := make([]float64, len(z))
	for i, v := range z {
		ax, ay, az := upX*v, upY*v, upZ*v
		out[i] = rci.ProjectVertical(ax, ay, az, betaDeg, gammaDeg)
	}
	return out
}

func main() {
	cfg := genConfig{}
	flag.StringVar(&cfg.Waveform, "waveform", "sine", "Waveform: sine, square, or noise")
	flag.Float64Var(&cfg.FreqHz, "freq", 5, "Waveform frequency in Hz (ignored for noise)")
	flag.Float64Var(&cfg.Amp, "amp", 1.5, "Amplitude in m/s²")
	flag.Float64Var(&cfg.RateHz, "rate", 50, "Sample rate in Hz")
	flag.Float64Var(&cfg.Duration, "duration", 2, "Burst duration in seconds")
	flag.Float64Var(&cfg.SpeedKMH, "speed", 25, "Reported speed in km/h")
	flag.StringVar(&cfg.DeviceID, "device", "gen-batches", "Device identifier")
	flag.Float64Var(&cfg.Lat, "lat", 52.52, "Starting latitude")
	flag.Float64Var(&cfg.Lon, "lon", 13.405, "Starting longitude")
	flag.Float64Var(&cfg.StepDeg, "step", 0.0002, "Latitude step per batch in degrees")
	flag.IntVar(&cfg.Count, "count", 10, "Number of batches to generate")
	flag.Float64Var(&cfg.BetaDeg, "beta", 0, "Device pitch in degrees")
	flag.Float64Var(&cfg.GammaDeg, "gamma", 0, "Device roll in degrees")
	flag.Int64Var(&cfg.Seed, "seed", 1, "Random seed for the noise waveform")
	flag.StringVar(&cfg.PostURL, "post", "", "Server base URL; when set, POST each batch to <url>/api/submissions")
	flag.Parse()

	if cfg.RateHz <= 0 || cfg.Duration <= 0 || cfg.Count < 1 {
		log.Fatal("rate, duration, and count must be positive")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	enc := json.NewEncoder(os.Stdout)
	recordedAt := time.Now().UTC()

	for i := 0; i < cfg.Count; i++ {
		z := tiltAndProject(synthesize(cfg, rng), cfg.BetaDeg, cfg.GammaDeg)

		sub := submission{
			DeviceID:    cfg.DeviceID,
			Latitude:    cfg.Lat + float64(i)*cfg.StepDeg,
			Longitude:   cfg.Lon,
			SpeedKMH:    cfg.SpeedKMH,
			ZValues:     z,
			IntervalSec: 1 / cfg.RateHz,
			RecordedAt:  recordedAt.Add(time.Duration(float64(i)*cfg.Duration) * time.Second),
		}

		if cfg.PostURL == "" {
			if err := enc.Encode(sub); err != nil {
				log.Fatalf("failed to encode batch: %v", err)
			}
			continue
		}

		body, err := json.Marshal(sub)
		if err != nil {
			log.Fatalf("failed to marshal batch: %v", err)
		}
		resp, err := http.Post(cfg.PostURL+"/api/submissions", "application/json", bytes.NewReader(body))
		if err != nil {
			log.Fatalf("failed to post batch %d: %v", i, err)
		}
		var out map[string]interface{}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			log.Fatalf("failed to decode response for batch %d: %v", i, err)
		}
		resp.Body.Close()
		fmt.Printf("batch %d: status=%d state=%v roughness=%v\n", i, resp.StatusCode, out["state"], out["roughness"])
	}
}
