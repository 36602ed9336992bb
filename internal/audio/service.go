package audio

import (
	"context"
	"fmt"
	"hash/crc32"
	"net/url"
	"path"
	"strings"

	"dictee/internal/i18n"
	"dictee/internal/logger"
	"dictee/internal/models"
)

// Kind selects which recording of a word is wanted
type Kind string

const (
	KindWord     Kind = "word"
	KindSentence Kind = "sentence"
)

// ParseKind defaults to KindWord for anything but "sentence"
func ParseKind(s string) Kind {
	if strings.EqualFold(s, string(KindSentence)) {
		return KindSentence
	}
	return KindWord
}

// Source tells the client how to play a word. Without a URL the client
// speaks Text with its own synthesizer using Voice.
type Source struct {
	URL         string `json:"url,omitempty"`
	Text        string `json:"text"`
	Voice       string `json:"voice"`
	Synthesized bool   `json:"synthesized"`
}

// Service resolves the audio for words
type Service struct {
	tts           *TTSService
	referenceBase string
	audioURL      string
	log           *logger.Logger
}

// NewService creates an audio service. Relative references from catalogs
// are resolved against referenceBase; synthesized files are served under
// audioURL.
func NewService(tts *TTSService, referenceBase, audioURL string, log *logger.Logger) *Service {
	return &Service{tts: tts, referenceBase: referenceBase, audioURL: audioURL, log: log}
}

// ForCatalog returns a copy of s whose relative references resolve inside
// the catalog directory dir
func (s *Service) ForCatalog(dir string) *Service {
	if dir == "" || dir == "." {
		return s
	}
	out := *s
	out.referenceBase = joinReference(s.referenceBase, dir)
	return &out
}

// Resolve returns the pre-supplied recording when the catalog has one,
// otherwise a synthesized file. Failures degrade to a text-only source.
func (s *Service) Resolve(ctx context.Context, word models.Word, kind Kind, locale i18n.Locale) Source {
	text, ref := word.Text, word.AudioWord
	if kind == KindSentence {
		text, ref = word.Sentence, word.AudioSentence
	}

	src := Source{Text: text, Voice: locale.Voice()}
	if ref != "" {
		src.URL = s.referenceURL(ref)
		return src
	}
	if s.tts == nil || text == "" {
		return src
	}

	prefix := string(locale) + "_" + FilePrefix(string(kind), word.ID)
	filename, err := s.tts.GenerateAudioFile(ctx, text, prefix, locale)
	if err != nil {
		s.log.Warn("speech synthesis failed, client will speak the text", "word", word.ID, "kind", kind, "error", err)
		return src
	}
	src.URL = path.Join(s.audioURL, filename)
	src.Synthesized = true
	return src
}

func (s *Service) referenceURL(ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "/") {
		return ref
	}
	return joinReference(s.referenceBase, ref)
}

func joinReference(base, ref string) string {
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		if u, err := url.JoinPath(base, ref); err == nil {
			return u
		}
	}
	return path.Join("/", base, ref)
}

// FilePrefix names the cached recording of a word. Sanitizing folds
// punctuation to underscores, so a checksum of the raw id keeps ids such as
// "c'est" and "c est" apart.
func FilePrefix(kind, wordID string) string {
	return fmt.Sprintf("%s_%s_%08x", kind, wordID, crc32.ChecksumIEEE([]byte(wordID)))
}
