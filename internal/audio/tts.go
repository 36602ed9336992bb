package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"dictee/internal/i18n"
)

const ttsRequestTimeout = 10 * time.Second

// TTSService synthesizes MP3 files through the Google Translate speech
// endpoint and caches them in a directory
type TTSService struct {
	audioDir string
	endpoint string
	client   *http.Client
}

// NewTTSService creates a TTS service writing into audioDir
func NewTTSService(audioDir, endpoint string) *TTSService {
	return &TTSService{
		audioDir: audioDir,
		endpoint: endpoint,
		client:   &http.Client{Timeout: ttsRequestTimeout},
	}
}

// GenerateAudioFile converts text to speech and saves it as <prefix>.mp3.
// Returns the filename (not full path). Existing files are reused.
func (s *TTSService) GenerateAudioFile(ctx context.Context, text, prefix string, locale i18n.Locale) (string, error) {
	filename := SanitizeFilename(prefix) + ".mp3"
	path := filepath.Join(s.audioDir, filename)

	if _, err := os.Stat(path); err == nil {
		return filename, nil
	}

	if err := os.MkdirAll(s.audioDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create audio directory: %w", err)
	}
	if err := s.generateUsingGoogleTTS(ctx, text, string(locale), path); err != nil {
		return "", fmt.Errorf("failed to generate audio: %w", err)
	}
	return filename, nil
}

// generateUsingGoogleTTS downloads the spoken text to outputPath. The file
// only appears once the download has completed.
func (s *TTSService) generateUsingGoogleTTS(ctx context.Context, text, lang, outputPath string) error {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", text)
	params.Set("tl", lang)
	params.Set("client", "tw-ob")
	params.Set("textlen", fmt.Sprintf("%d", len([]rune(text))))

	ctx, cancel := context.WithTimeout(ctx, ttsRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	// Google rejects requests without a browser user agent
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(filepath.Dir(outputPath), ".tts-*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	return os.Rename(tmp.Name(), outputPath)
}

// DeleteAudioFile removes a cached file
func (s *TTSService) DeleteAudioFile(filename string) error {
	err := os.Remove(filepath.Join(s.audioDir, filepath.Base(filename)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// GetAllAudioFiles lists the cached MP3 files
func (s *TTSService) GetAllAudioFiles() ([]string, error) {
	files, err := os.ReadDir(s.audioDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read audio directory: %w", err)
	}

	var audioFiles []string
	for _, file := range files {
		if !file.IsDir() && filepath.Ext(file.Name()) == ".mp3" {
			audioFiles = append(audioFiles, file.Name())
		}
	}
	return audioFiles, nil
}

// SanitizeFilename lower-cases name and replaces anything that is not a
// letter or digit with an underscore
func SanitizeFilename(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}
