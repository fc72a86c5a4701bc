// Package tides serves the daily tide, sun and moon data for João Pessoa
// collected by the external scraper into dados_hoje.json.
package tides

import (
	"encoding/json"
	"errors"
	"fmt"
	"guardaazul/backend/internal/config"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	// FileName is the scraper output read from the data directory.
	FileName = "dados_hoje.json"

	SourceFile     = "arquivo_local"
	SourceDefaults = "dados_padrão"

	cacheKey = "dados_hoje"
)

// Daily is the scraper's view of today. Missing values decode as empty strings.
type Daily struct {
	Date         string   `json:"date"`
	Location     string   `json:"location"`
	Sunrise      string   `json:"nascer_sol"`
	Sunset       string   `json:"por_sol"`
	Moonrise     string   `json:"nascer_lua"`
	Moonset      string   `json:"por_lua"`
	MoonPhase    string   `json:"fase_lua"`
	Tides        []string `json:"mares"`
	WavesMin     string   `json:"ondas_min"`
	WavesMax     string   `json:"ondas_max"`
	FishActivity string   `json:"atividade_peixes"`
}

// Report is the payload served at /mares.
type Report struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	LastUpdate time.Time       `json:"last_update"`
	Source     string          `json:"source"`
}

var defaultData = json.RawMessage(`{
	"location": "João Pessoa, PB",
	"sunrise": "05:30",
	"sunset": "17:45",
	"tides": [
		{"time": "06:15", "type": "baixa", "height": "0.2m"},
		{"time": "12:30", "type": "alta", "height": "2.1m"},
		{"time": "18:45", "type": "baixa", "height": "0.3m"}
	],
	"temperature": "28°C",
	"conditions": "Ensolarado"
}`)

// Service reads the data file, keeping the parsed result in memory for a while.
type Service struct {
	Path  string
	cache *gocache.Cache
}

func NewService(dataDir string) *Service {
	return &Service{
		Path:  filepath.Join(dataDir, FileName),
		cache: gocache.New(config.TidesCacheTTL, config.TidesCacheCleanup),
	}
}

type entry struct {
	raw    json.RawMessage
	source string
}

func (s *Service) load() (*entry, error) {
	if v, found := s.cache.Get(cacheKey); found {
		return v.(*entry), nil
	}

	e := &entry{source: SourceFile}
	data, err := os.ReadFile(s.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Printf("WARNING: %s not found, serving default tide data", s.Path)
		e.raw, e.source = defaultData, SourceDefaults
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	default:
		if !json.Valid(data) {
			return nil, fmt.Errorf("parse %s: invalid JSON", s.Path)
		}
		e.raw = data
	}

	s.cache.Set(cacheKey, e, gocache.DefaultExpiration)
	return e, nil
}

// Today returns the report for the /mares endpoint.
func (s *Service) Today() (*Report, error) {
	e, err := s.load()
	if err != nil {
		return nil, err
	}
	return &Report{
		Success:    true,
		Data:       e.raw,
		LastUpdate: time.Now(),
		Source:     e.source,
	}, nil
}

// Refresh drops the cached data so the next read hits the file.
func (s *Service) Refresh() {
	s.cache.Delete(cacheKey)
}

// ChatContext formats today's scraped data as a text block for the chatbot
// prompt. It is empty when there is no scraped data.
func (s *Service) ChatContext() string {
	e, err := s.load()
	if err != nil {
		log.Printf("ERROR: Failed to load ocean data: %v", err)
		return ""
	}
	if e.source != SourceFile {
		return ""
	}

	var d Daily
	if err := json.Unmarshal(e.raw, &d); err != nil {
		log.Printf("ERROR: Failed to parse ocean data: %v", err)
		return ""
	}
	return Format(d)
}

// Format renders the daily data one fact per line.
func Format(d Daily) string {
	var lines []string
	lines = append(lines, "📅 Data: "+orDefault(d.Date, "N/A"))
	lines = append(lines, "📍 Local: "+orDefault(d.Location, "João Pessoa, PB"))

	if d.Sunrise != "" {
		lines = append(lines, "🌅 Nascer do sol: "+d.Sunrise)
	}
	if d.Sunset != "" {
		lines = append(lines, "🌇 Pôr do sol: "+d.Sunset)
	}
	if d.Moonrise != "" {
		lines = append(lines, "🌙 Nascer da lua: "+d.Moonrise)
	}
	if d.Moonset != "" {
		lines = append(lines, "🌙 Pôr da lua: "+d.Moonset)
	}
	if d.MoonPhase != "" {
		lines = append(lines, "🌙 Fase da lua: "+d.MoonPhase)
	}

	if len(d.Tides) > 0 {
		lines = append(lines, "\n🌊 MARÉS DE HOJE:")
		for i, t := range d.Tides {
			lines = append(lines, fmt.Sprintf("   %d. %s", i+1, t))
		}
	}

	if d.WavesMin != "" || d.WavesMax != "" {
		lines = append(lines, fmt.Sprintf("\n🌊 Ondas: %s - %s", orDefault(d.WavesMin, "N/A"), orDefault(d.WavesMax, "N/A")))
	}
	if d.FishActivity != "" {
		lines = append(lines, "🐟 Atividade de peixes: "+d.FishActivity)
	}

	return strings.Join(lines, "\n")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
