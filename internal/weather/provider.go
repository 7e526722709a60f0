package weather

import (
	"math/rand"
	"sync"
	"time"
)

// Conditions is a point-in-time weather snapshot.
type Conditions struct {
	Temperature int        `json:"temperature"`
	Humidity    int        `json:"humidity"`
	Rainfall    float64    `json:"rainfall"`
	WindSpeed   int        `json:"windSpeed"`
	Visibility  int        `json:"visibility"`
	Condition   string     `json:"condition"`
	AirQuality  AirQuality `json:"airQuality"`
	UVIndex     int        `json:"uvIndex"`
	Timestamp   time.Time  `json:"timestamp"`
}

type AirQuality struct {
	AQI      int    `json:"aqi"`
	Category string `json:"category"`
	PM25     int    `json:"pm25"`
}

// ForecastEntry is one hour of the synthetic forecast, including the
// expected impact on each transport mode.
type ForecastEntry struct {
	Time            time.Time       `json:"time"`
	Temperature     int             `json:"temperature"`
	Rainfall        float64         `json:"rainfall"`
	WindSpeed       int             `json:"windSpeed"`
	Condition       string          `json:"condition"`
	TransportImpact TransportImpact `json:"transportImpact"`
}

type TransportImpact struct {
	Metro string `json:"metro"`
	Bus   string `json:"bus"`
	Road  string `json:"road"`
}

// Provider supplies weather data. The random provider is the stand-in for
// a real meteorological feed; swap in a live implementation per deployment.
type Provider interface {
	Current(lat, lng float64) Conditions
	Forecast(hours int) []ForecastEntry
}

type RandomProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

func NewRandomProvider() *RandomProvider {
	return &RandomProvider{rng: rand.New(rand.NewSource(time.Now().UnixNano())), now: time.Now}
}

var conditionNames = []string{"sunny", "cloudy", "rainy", "foggy"}

func (p *RandomProvider) Current(lat, lng float64) Conditions {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Conditions{
		Temperature: p.rng.Intn(15) + 20, // 20-35 C
		Humidity:    p.rng.Intn(30) + 60, // 60-90%
		Rainfall:    p.rng.Float64() * 10,
		WindSpeed:   p.rng.Intn(20) + 5,
		Visibility:  p.rng.Intn(5) + 5,
		Condition:   conditionNames[p.rng.Intn(len(conditionNames))],
		AirQuality: AirQuality{
			AQI:      p.rng.Intn(200) + 50,
			Category: "moderate",
			PM25:     p.rng.Intn(50) + 25,
		},
		UVIndex:   p.rng.Intn(8) + 1,
		Timestamp: p.now(),
	}
}

func (p *RandomProvider) Forecast(hours int) []ForecastEntry {
	if hours <= 0 {
		hours = 24
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ForecastEntry, hours)
	base := p.now()
	for i := range out {
		out[i] = ForecastEntry{
			Time:        base.Add(time.Duration(i) * time.Hour),
			Temperature: p.rng.Intn(10) + 22,
			Rainfall:    p.rng.Float64() * 5,
			WindSpeed:   p.rng.Intn(15) + 5,
			Condition:   conditionNames[p.rng.Intn(3)],
			TransportImpact: TransportImpact{
				Metro: pick(p.rng, 0.8, "delayed", "normal"),
				Bus:   pick(p.rng, 0.7, "delayed", "normal"),
				Road:  pick(p.rng, 0.6, "slow", "normal"),
			},
		}
	}
	return out
}

func pick(rng *rand.Rand, threshold float64, above, below string) string {
	if rng.Float64() > threshold {
		return above
	}
	return below
}
