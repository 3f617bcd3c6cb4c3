package corpus

import (
	"math"
	"sort"
	"strings"
	"time"
)

// ByType returns all entries of one record kind.
func (s *Store) ByType(recordType string) []Record {
	return s.filter(func(r *Record) bool { return r.Type == recordType })
}

// ByLanguage matches either the declared language or the contributor's UI
// language, the way older entries stored it.
func (s *Store) ByLanguage(language string) []Record {
	return s.filter(func(r *Record) bool {
		return r.Language == language || r.UserLanguage == language
	})
}

func (s *Store) ByRegion(region string) []Record {
	return s.filter(func(r *Record) bool { return r.Region == region })
}

func (s *Store) ByFestival(festival string) []Record {
	return s.filter(func(r *Record) bool { return r.FestivalEvent == festival })
}

func (s *Store) filter(keep func(*Record) bool) []Record {
	var out []Record
	for _, rec := range s.Load() {
		if keep(&rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Recent returns the newest entries first, ordered by timestamp.
func (s *Store) Recent(limit int) []Record {
	records := s.Load()
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp > records[j].Timestamp
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records
}

// Search returns entries whose text fields contain the query,
// case-insensitively.
func (s *Store) Search(query string) []Record {
	q := strings.ToLower(query)
	if q == "" {
		return nil
	}
	return s.filter(func(r *Record) bool {
		for _, field := range r.searchableText() {
			if field != "" && strings.Contains(strings.ToLower(field), q) {
				return true
			}
		}
		return false
	})
}

// ExportFilters selects the corpus subset handed to the export surface.
type ExportFilters struct {
	Types      []string
	Languages  []string
	Regions    []string
	Festivals  []string
	MinQuality int
	DateFrom   string
	DateTo     string
}

// ExportSubset applies the filters against a full load. Timestamp bounds
// compare lexically, which is correct for ISO-8601 strings.
func (s *Store) ExportSubset(filters ExportFilters) []Record {
	var out []Record

	for _, rec := range s.Load() {
		if len(filters.Types) > 0 && !contains(filters.Types, rec.Type) {
			continue
		}
		if len(filters.Languages) > 0 && !contains(filters.Languages, rec.effectiveLanguage()) {
			continue
		}
		if len(filters.Regions) > 0 && !contains(filters.Regions, rec.Region) {
			continue
		}
		if len(filters.Festivals) > 0 && !contains(filters.Festivals, rec.FestivalEvent) {
			continue
		}
		if filters.MinQuality > 0 && rec.QualityScore < filters.MinQuality {
			continue
		}
		if filters.DateFrom != "" && rec.Timestamp < filters.DateFrom {
			continue
		}
		if filters.DateTo != "" && rec.Timestamp > filters.DateTo {
			continue
		}
		out = append(out, rec)
	}

	return out
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// FestivalList is the fixed set of festivals contributions can link to.
func FestivalList() []string {
	return []string{
		"Diwali", "Holi", "Dussehra", "Navratri", "Karva Chauth", "Raksha Bandhan",
		"Krishna Janmashtami", "Ganesh Chaturthi", "Durga Puja", "Kali Puja",
		"Onam", "Pongal", "Makar Sankranti", "Baisakhi", "Gudi Padwa",
		"Eid al-Fitr", "Eid al-Adha", "Christmas", "Good Friday", "Easter",
		"Guru Nanak Jayanti", "Buddha Purnima", "Mahavir Jayanti",
		"Poila Boishakh", "Bihu", "Vishu", "Ugadi", "Chaitra Navratri",
		"Ram Navami", "Hanuman Jayanti", "Shivratri", "Teej", "Chhath Puja",
		"Regional Festival", "Other",
	}
}

// FestivalSummary counts content kinds per linked festival.
type FestivalSummary struct {
	VoiceStories    int `json:"voice_stories"`
	VideoTraditions int `json:"video_traditions"`
	CulturalStories int `json:"cultural_stories"`
	FestivalEvents  int `json:"festival_events"`
	Total           int `json:"total"`
}

func (s *Store) FestivalContentSummary() map[string]FestivalSummary {
	summary := make(map[string]FestivalSummary)

	for _, rec := range s.Load() {
		festival := rec.FestivalEvent
		if festival == "" || festival == "Not Specified" {
			continue
		}

		entry := summary[festival]
		switch rec.Type {
		case TypeVoiceStory:
			entry.VoiceStories++
		case TypeVideoTradition:
			entry.VideoTraditions++
		case TypeCulturalStory:
			entry.CulturalStories++
		case TypeFestivalEvent:
			entry.FestivalEvents++
		}
		entry.Total++
		summary[festival] = entry
	}

	return summary
}

type QualityStats struct {
	Average          float64 `json:"average_quality"`
	Highest          int     `json:"highest_quality"`
	Lowest           int     `json:"lowest_quality"`
	HighQualityCount int     `json:"high_quality_count"`
	LowQualityCount  int     `json:"low_quality_count"`
}

type TemporalStats struct {
	FirstEntry   string `json:"first_entry"`
	LatestEntry  string `json:"latest_entry"`
	EntriesToday int    `json:"entries_today"`
}

// CollectionProgress tracks the corpus against its collection targets:
// 80 hours of audio/video narration and 800 text/image records.
type CollectionProgress struct {
	AudioVideoHours    float64 `json:"audio_video_hours"`
	ImageTextRecords   int     `json:"image_text_records"`
	TargetAudioVideo   int     `json:"target_audio_video"`
	TargetImageText    int     `json:"target_image_text"`
	AudioVideoPercent  float64 `json:"audio_video_progress"`
	ImageTextPercent   float64 `json:"image_text_progress"`
}

type Statistics struct {
	TotalEntries int                `json:"total_entries"`
	DataTypes    map[string]int     `json:"data_types"`
	Languages    map[string]int     `json:"languages"`
	Regions      map[string]int     `json:"regions"`
	Festivals    map[string]int     `json:"festivals"`
	Quality      *QualityStats      `json:"quality_stats,omitempty"`
	Temporal     *TemporalStats     `json:"temporal_stats,omitempty"`
	Progress     CollectionProgress `json:"collection_progress"`
}

// Statistics aggregates corpus-wide counts, quality and temporal stats, and
// collection-target progress.
func (s *Store) Statistics() Statistics {
	records := s.Load()

	stats := Statistics{
		TotalEntries: len(records),
		DataTypes:    map[string]int{},
		Languages:    map[string]int{},
		Regions:      map[string]int{},
		Festivals:    map[string]int{},
		Progress: CollectionProgress{
			TargetAudioVideo: 80,
			TargetImageText:  800,
		},
	}

	var qualityScores []int
	var timestamps []string
	var audioVideoHours float64

	for _, rec := range records {
		dataType := rec.Type
		if dataType == "" {
			dataType = "Unknown"
		}
		stats.DataTypes[dataType]++

		language := rec.effectiveLanguage()
		if language == "" {
			language = "Unknown"
		}
		stats.Languages[language]++

		if rec.Region != "" {
			stats.Regions[rec.Region]++
		}
		if rec.FestivalEvent != "" && rec.FestivalEvent != "Not Specified" {
			stats.Festivals[rec.FestivalEvent]++
		}

		switch rec.Type {
		case TypeVoiceStory, TypeVideoTradition:
			// Narration length is approximated from transcript length,
			// about a minute per 100 characters.
			minutes := len(rec.Content) / 100
			if minutes < 1 {
				minutes = 1
			}
			audioVideoHours += float64(minutes) / 60
		case TypeCulturalStory, TypeCulturalFact, TypeFestivalEvent, TypeFestivalImage:
			stats.Progress.ImageTextRecords++
		}

		if rec.QualityScore > 0 {
			qualityScores = append(qualityScores, rec.QualityScore)
		}
		if rec.Timestamp != "" {
			timestamps = append(timestamps, rec.Timestamp)
		}
	}

	if len(qualityScores) > 0 {
		q := &QualityStats{Highest: qualityScores[0], Lowest: qualityScores[0]}
		sum := 0
		for _, score := range qualityScores {
			sum += score
			if score > q.Highest {
				q.Highest = score
			}
			if score < q.Lowest {
				q.Lowest = score
			}
			if score >= 4 {
				q.HighQualityCount++
			}
			if score < 3 {
				q.LowQualityCount++
			}
		}
		q.Average = float64(sum) / float64(len(qualityScores))
		stats.Quality = q
	}

	if len(timestamps) > 0 {
		sort.Strings(timestamps)
		today := time.Now().Format("2006-01-02")
		entriesToday := 0
		for _, ts := range timestamps {
			if strings.HasPrefix(ts, today) {
				entriesToday++
			}
		}
		stats.Temporal = &TemporalStats{
			FirstEntry:   timestamps[0],
			LatestEntry:  timestamps[len(timestamps)-1],
			EntriesToday: entriesToday,
		}
	}

	stats.Progress.AudioVideoHours = math.Round(audioVideoHours*100) / 100
	stats.Progress.AudioVideoPercent = clampPercent(audioVideoHours / 80 * 100)
	stats.Progress.ImageTextPercent = clampPercent(float64(stats.Progress.ImageTextRecords) / 800 * 100)

	return stats
}

func clampPercent(v float64) float64 {
	if v > 100 {
		return 100
	}
	return v
}
