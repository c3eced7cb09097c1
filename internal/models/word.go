package models

// LearningWord is one vocabulary item offered in a session. It is never
// mutated locally once a session has been loaded.
type LearningWord struct {
	ID           string  `json:"id"`
	Word         string  `json:"word"`
	Level        string  `json:"level"`
	LearningType string  `json:"learningType"`
	Score        float64 `json:"score"`
}

// WordDetail is the full dictionary entry for a word, as served by GET /words/{word}.
type WordDetail struct {
	Word      string     `json:"word"`
	Phonetic  string     `json:"phonetic"`
	Phonetics []Phonetic `json:"phonetics"`
	Meanings  []Meaning  `json:"meanings"`
	Examples  []string   `json:"examples"`
	Thumbnail string     `json:"thumbnail"`
}

type Phonetic struct {
	Text  string `json:"text"`
	Audio string `json:"audio"`
}

type Meaning struct {
	PartOfSpeech string       `json:"partOfSpeech"`
	Definitions  []Definition `json:"definitions"`
}

type Definition struct {
	Definition string `json:"definition"`
	Example    string `json:"example"`
}

// PrimaryPhonetic returns the first non-empty phonetic transcription.
func (d WordDetail) PrimaryPhonetic() string {
	if d.Phonetic != "" {
		return d.Phonetic
	}
	for _, p := range d.Phonetics {
		if p.Text != "" {
			return p.Text
		}
	}
	return ""
}

// Definitions flattens all definitions across meanings, in order.
func (d WordDetail) Definitions() []string {
	var out []string
	for _, m := range d.Meanings {
		for _, def := range m.Definitions {
			if def.Definition != "" {
				out = append(out, def.Definition)
			}
		}
	}
	return out
}

// AllExamples returns the top-level examples followed by per-definition ones.
func (d WordDetail) AllExamples() []string {
	out := append([]string(nil), d.Examples...)
	for _, m := range d.Meanings {
		for _, def := range m.Definitions {
			if def.Example != "" {
				out = append(out, def.Example)
			}
		}
	}
	return out
}
