package quiz

// The storage representation of a quiz packs its metadata and questions into
// a single ordered JSON sequence: the metadata rides as a marked entry at the
// front of the question list. New writes always set the marker; legacy rows
// without one are read under the old convention that index 0 is the metadata.

// Entry is one element of the stored sequence. It is the union of the
// metadata fields and the question fields; the marker tells them apart.
type Entry struct {
	QuizMetadata bool `json:"is_quiz_metadata,omitempty"`

	// metadata fields
	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`
	Category     string `json:"category,omitempty"`
	Difficulty   string `json:"difficulty,omitempty"`
	TimeLimitSec int    `json:"time_limit_sec,omitempty"`

	// question fields
	ID            string   `json:"id,omitempty"`
	Kind          string   `json:"kind,omitempty"`
	Prompt        string   `json:"prompt,omitempty"`
	Points        int      `json:"points,omitempty"`
	Options       []Option `json:"options,omitempty"`
	CorrectOption string   `json:"correct_option,omitempty"`
	CorrectBool   *bool    `json:"correct_bool,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
}

// Decode fallbacks for metadata fields missing from the stored entry.
const (
	DefaultCategory   = "general"
	DefaultDifficulty = "medium"
)

// DefaultTitle is the fallback quiz title derived from the quiz id.
func DefaultTitle(quizID string) string {
	short := quizID
	if len(short) > 8 {
		short = short[:8]
	}
	return "Quiz " + short
}

// EncodeEntries prepends the marked metadata entry to the question sequence.
// It is the exact inverse of DecodeEntries for any sequence it produces.
func EncodeEntries(meta Metadata, questions []Question) []Entry {
	out := make([]Entry, 0, len(questions)+1)
	out = append(out, Entry{
		QuizMetadata: true,
		Title:        meta.Title,
		Description:  meta.Description,
		Category:     meta.Category,
		Difficulty:   meta.Difficulty,
		TimeLimitSec: meta.TimeLimitSec,
	})
	for _, q := range questions {
		out = append(out, Entry{
			ID:            q.ID,
			Kind:          q.Kind,
			Prompt:        q.Prompt,
			Points:        q.Points,
			Options:       q.Options,
			CorrectOption: q.CorrectOption,
			CorrectBool:   q.CorrectBool,
			Keywords:      q.Keywords,
			Explanation:   q.Explanation,
		})
	}
	return out
}

// DecodeEntries splits a stored sequence back into metadata and questions.
// The first marked entry carries the metadata; if no entry is marked, index 0
// is treated as metadata unconditionally. Missing metadata fields fall back
// to the documented defaults. The input sequence is never mutated.
func DecodeEntries(quizID string, entries []Entry) (Metadata, []Question) {
	if len(entries) == 0 {
		return metaDefaults(quizID, Metadata{}), nil
	}

	metaIdx := -1
	for i, e := range entries {
		if e.QuizMetadata {
			metaIdx = i
			break
		}
	}
	if metaIdx == -1 {
		metaIdx = 0 // legacy rows: index 0 is metadata by convention
	}

	meta := metaDefaults(quizID, Metadata{
		Title:        entries[metaIdx].Title,
		Description:  entries[metaIdx].Description,
		Category:     entries[metaIdx].Category,
		Difficulty:   entries[metaIdx].Difficulty,
		TimeLimitSec: entries[metaIdx].TimeLimitSec,
	})

	questions := make([]Question, 0, len(entries)-1)
	for i, e := range entries {
		if i == metaIdx {
			continue
		}
		questions = append(questions, Question{
			ID:            e.ID,
			Kind:          e.Kind,
			Prompt:        e.Prompt,
			Points:        e.Points,
			Options:       e.Options,
			CorrectOption: e.CorrectOption,
			CorrectBool:   e.CorrectBool,
			Keywords:      e.Keywords,
			Explanation:   e.Explanation,
		})
	}
	return meta, questions
}

func metaDefaults(quizID string, m Metadata) Metadata {
	if m.Title == "" {
		m.Title = DefaultTitle(quizID)
	}
	if m.Category == "" {
		m.Category = DefaultCategory
	}
	if m.Difficulty == "" {
		m.Difficulty = DefaultDifficulty
	}
	return m
}

// NormalizedMeta applies the decode fallbacks at write time so persisted
// metadata is always complete and encode/decode round-trips exactly.
func NormalizedMeta(quizID string, m Metadata) Metadata {
	return metaDefaults(quizID, m)
}
