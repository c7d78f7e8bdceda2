package domain

// ScoringWeights holds the tunable heuristic constants. Only their relative
// order matters; scores are compared within a single provider call.
type ScoringWeights struct {
	LikesDivisor         float64 `yaml:"likes_divisor"`
	LikesCap             float64 `yaml:"likes_cap"`
	DownloadsDivisor     float64 `yaml:"downloads_divisor"`
	DownloadsCap         float64 `yaml:"downloads_cap"`
	FoodKeyword          float64 `yaml:"food_keyword"`
	NameWord             float64 `yaml:"name_word"`
	NameWordMinLength    int     `yaml:"name_word_min_length"`
	ProfessionalKeyword  float64 `yaml:"professional_keyword"`
	HighResolution       float64 `yaml:"high_resolution"`
	HighResolutionWidth  int     `yaml:"high_resolution_width"`
	HighResolutionHeight int     `yaml:"high_resolution_height"`
	Landscape            float64 `yaml:"landscape"`
	LandscapeMinRatio    float64 `yaml:"landscape_min_ratio"`
	LandscapeMaxRatio    float64 `yaml:"landscape_max_ratio"`
}

func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		LikesDivisor:         100,
		LikesCap:             10,
		DownloadsDivisor:     1000,
		DownloadsCap:         5,
		FoodKeyword:          2,
		NameWord:             5,
		NameWordMinLength:    4,
		ProfessionalKeyword:  3,
		HighResolution:       5,
		HighResolutionWidth:  1000,
		HighResolutionHeight: 700,
		Landscape:            3,
		LandscapeMinRatio:    1.2,
		LandscapeMaxRatio:    1.8,
	}
}

// Normalize replaces unusable values with defaults.
func (w ScoringWeights) Normalize() ScoringWeights {
	out := w
	def := DefaultScoringWeights()
	if out.LikesDivisor <= 0 {
		out.LikesDivisor = def.LikesDivisor
	}
	if out.DownloadsDivisor <= 0 {
		out.DownloadsDivisor = def.DownloadsDivisor
	}
	if out.LikesCap < 0 {
		out.LikesCap = def.LikesCap
	}
	if out.DownloadsCap < 0 {
		out.DownloadsCap = def.DownloadsCap
	}
	if out.NameWordMinLength <= 0 {
		out.NameWordMinLength = def.NameWordMinLength
	}
	if out.HighResolutionWidth <= 0 {
		out.HighResolutionWidth = def.HighResolutionWidth
	}
	if out.HighResolutionHeight <= 0 {
		out.HighResolutionHeight = def.HighResolutionHeight
	}
	if out.LandscapeMinRatio <= 0 || out.LandscapeMaxRatio < out.LandscapeMinRatio {
		out.LandscapeMinRatio = def.LandscapeMinRatio
		out.LandscapeMaxRatio = def.LandscapeMaxRatio
	}
	return out
}
