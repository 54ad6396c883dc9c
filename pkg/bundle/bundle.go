// Package bundle loads the trained vectorizer/classifier artifact and
// exposes it as an immutable, process-wide model.
package bundle

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/FaresAlnamla/Email-Spam-Detection-System/pkg/domain"
	"github.com/rs/zerolog/log"
)

// FileInfo records where the model came from, for /health and debugging.
type FileInfo struct {
	Path        string  `json:"path"`
	SizeBytes   int64   `json:"size_bytes"`
	SHA256      string  `json:"sha256"`
	LoadSeconds float64 `json:"load_seconds"`
}

// Bundle is the loaded model artifact: a feature transformer, a
// classifier and training metadata. It is shared read-only across all
// requests after startup.
type Bundle struct {
	Vectorizer *Vectorizer
	Classifier Classifier
	Meta       map[string]any
	FileInfo   FileInfo
}

type bundleFile struct {
	Vectorizer *Vectorizer     `json:"vectorizer"`
	Classifier *classifierFile `json:"classifier"`
	Meta       map[string]any  `json:"meta"`
}

type classifierFile struct {
	Type ClassifierType `json:"type"`
	linearModel
}

// Load reads and validates a model bundle. A bundle is valid only when
// both the vectorizer and the classifier are present.
func Load(path string) (*Bundle, error) {
	started := time.Now()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model bundle %s: %w", path, err)
	}

	var bf bundleFile
	if err := json.Unmarshal(raw, &bf); err != nil {
		return nil, fmt.Errorf("parsing model bundle %s: %w", path, err)
	}

	if bf.Vectorizer == nil || len(bf.Vectorizer.Vocabulary) == 0 || bf.Classifier == nil {
		return nil, domain.ErrInvalidBundle
	}

	clf, err := buildClassifier(bf.Classifier)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidBundle, err)
	}

	info, err := fileInfo(path)
	if err != nil {
		return nil, err
	}
	info.LoadSeconds = time.Since(started).Seconds()

	b := &Bundle{
		Vectorizer: bf.Vectorizer,
		Classifier: clf,
		Meta:       bf.Meta,
		FileInfo:   info,
	}

	log.Info().
		Str("path", path).
		Str("classifier", clf.Name()).
		Int("vocab_size", len(bf.Vectorizer.Vocabulary)).
		Float64("load_seconds", info.LoadSeconds).
		Msg("Model bundle loaded")

	return b, nil
}

func buildClassifier(cf *classifierFile) (Classifier, error) {
	if err := cf.validate(); err != nil {
		return nil, err
	}

	switch cf.Type {
	case ClassifierType_LogisticRegression:
		return &LogisticRegression{linearModel: cf.linearModel}, nil
	case ClassifierType_LinearSVM:
		return &LinearSVM{linearModel: cf.linearModel}, nil
	default:
		return nil, fmt.Errorf("unknown classifier type %q", cf.Type)
	}
}

func fileInfo(path string) (FileInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("stat model bundle: %w", err)
	}

	hash, err := fileSHA256(path)
	if err != nil {
		return FileInfo{}, err
	}

	return FileInfo{
		Path:      path,
		SizeBytes: stat.Size(),
		SHA256:    hash,
	}, nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("hashing model bundle: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing model bundle: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
