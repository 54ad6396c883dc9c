package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/FaresAlnamla/Email-Spam-Detection-System/pkg/domain"
	"github.com/FaresAlnamla/Email-Spam-Detection-System/pkg/scoring"
	"github.com/rs/zerolog/log"
)

const DefaultChunkSize = 5000

// Ingestor streams file rows through the scoring engine in bounded
// chunks and assembles a CSV result incrementally: one header write,
// then one append per scored chunk. Cancelling the context stops after
// the last fully written chunk.
type Ingestor struct {
	engine *scoring.Engine
}

type IngestorDependencies struct {
	Engine *scoring.Engine
}

func NewIngestor(deps IngestorDependencies) *Ingestor {
	return &Ingestor{
		engine: deps.Engine,
	}
}

// IngestParams describes one file-upload scoring job.
type IngestParams struct {
	Filename  string
	Content   []byte
	Threshold float64
	ChunkSize int
}

// Job is a prepared file-scoring run: format detected, content decoded
// and the text column resolved. Run streams the chunks exactly once.
type Job struct {
	ingestor  *Ingestor
	source    rowSource
	textIdx   int
	threshold float64
	chunkSize int
}

// Prepare validates an uploaded file up to column resolution so callers
// can report input errors before any output is produced. The upload
// contract requires a case-sensitive "text" column; line formats
// synthesize it.
func (ing *Ingestor) Prepare(p IngestParams) (*Job, error) {
	src, err := ing.openSource(p.Filename, p.Content)
	if err != nil {
		return nil, err
	}

	textIdx := -1
	for i, col := range src.Columns() {
		if col == "text" {
			textIdx = i
			break
		}
	}
	if textIdx == -1 {
		src.Close()
		return nil, fmt.Errorf("%w (or lines for .txt)", domain.ErrMissingTextColumn)
	}

	return &Job{
		ingestor:  ing,
		source:    src,
		textIdx:   textIdx,
		threshold: p.Threshold,
		chunkSize: p.ChunkSize,
	}, nil
}

// Run scores the prepared job, streaming the result CSV to w.
func (j *Job) Run(ctx context.Context, w io.Writer) error {
	defer j.source.Close()

	return j.ingestor.scoreChunks(ctx, scoreChunksParams{
		source:    j.source,
		textIdx:   j.textIdx,
		threshold: j.threshold,
		chunkSize: j.chunkSize,
		writer:    w,
	})
}

// Ingest scores an uploaded file and writes the result CSV to w in one
// call. Streaming callers use Prepare/Run to separate input validation
// from output.
func (ing *Ingestor) Ingest(ctx context.Context, p IngestParams, w io.Writer) error {
	job, err := ing.Prepare(p)
	if err != nil {
		return err
	}
	return job.Run(ctx, w)
}

func (ing *Ingestor) openSource(filename string, content []byte) (rowSource, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}

	switch format {
	case domain.FileFormat_Delimited:
		return newDelimitedSource(content)
	case domain.FileFormat_Spreadsheet:
		return newSpreadsheetSource(content)
	default:
		return newLineSource(content)
	}
}

type scoreChunksParams struct {
	source rowSource
	// textIdx is the column holding the message.
	textIdx   int
	threshold float64
	chunkSize int
	writer    io.Writer
	// extraThreshold adds a pred_thresholded column (offline scorer).
	extraThreshold *float64
}

func (ing *Ingestor) scoreChunks(ctx context.Context, p scoreChunksParams) error {
	chunkSize := p.chunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	probabilistic := ing.engine.Probabilistic()
	withExtra := p.extraThreshold != nil && probabilistic

	header := append([]string{}, p.source.Columns()...)
	header = append(header, "pred")
	if probabilistic {
		header = append(header, "proba_spam")
	}
	if withExtra {
		header = append(header, "pred_thresholded")
	}

	out := csv.NewWriter(p.writer)
	if err := out.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	var total int
	for {
		select {
		case <-ctx.Done():
			out.Flush()
			return ctx.Err()
		default:
		}

		rows, err := p.source.Next(chunkSize)
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading rows: %w", err)
		}

		texts := make([]string, len(rows))
		for i, row := range rows {
			texts[i] = row[p.textIdx]
		}

		items := ing.engine.Score(texts, p.threshold)

		for i, row := range rows {
			record := append([]string{}, row...)
			record = append(record, items[i].Pred)
			if probabilistic {
				record = append(record, formatProba(items[i].ProbaSpam))
			}
			if withExtra {
				record = append(record, thresholdedLabel(items[i].ProbaSpam, *p.extraThreshold))
			}
			if err := out.Write(record); err != nil {
				return fmt.Errorf("writing row: %w", err)
			}
		}

		// Flush per chunk so partial output survives cancellation at a
		// chunk boundary.
		out.Flush()
		if err := out.Error(); err != nil {
			return fmt.Errorf("flushing chunk: %w", err)
		}
		total += len(rows)
	}

	out.Flush()
	if err := out.Error(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}

	log.Debug().Int("rows", total).Msg("File scoring complete")
	return nil
}

// ScoreFileParams describes one offline (CLI) scoring job.
type ScoreFileParams struct {
	InputPath  string
	OutputPath string
	// TextColumn names the message column explicitly; when empty it is
	// auto-detected.
	TextColumn string
	ChunkSize  int
	// Threshold labels the pred column.
	Threshold float64
	// ExtraThreshold, when set, adds a secondary pred_thresholded column.
	ExtraThreshold *float64
}

// ScoreFile scores a file on disk, writing the output CSV incrementally.
// Unlike the upload path, the text column is auto-detected: an explicit
// name wins, then a priority list of common names, then the first
// column.
func (ing *Ingestor) ScoreFile(ctx context.Context, p ScoreFileParams) error {
	content, err := os.ReadFile(p.InputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	src, err := ing.openSource(p.InputPath, content)
	if err != nil {
		return err
	}
	defer src.Close()

	textIdx, err := detectTextColumn(src.Columns(), p.TextColumn)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(p.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(p.OutputPath)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer f.Close()

	if err := ing.scoreChunks(ctx, scoreChunksParams{
		source:         src,
		textIdx:        textIdx,
		threshold:      p.Threshold,
		chunkSize:      p.ChunkSize,
		writer:         f,
		extraThreshold: p.ExtraThreshold,
	}); err != nil {
		return err
	}

	return f.Sync()
}

// preferredTextColumns is the auto-detect priority list for the offline
// scorer.
var preferredTextColumns = []string{"text", "message", "sms", "content", "body"}

func detectTextColumn(columns []string, explicit string) (int, error) {
	if len(columns) == 0 {
		return 0, domain.ErrMissingTextColumn
	}

	if explicit != "" {
		for i, col := range columns {
			if col == explicit {
				return i, nil
			}
		}
	}

	lower := make(map[string]int, len(columns))
	for i, col := range columns {
		key := strings.ToLower(col)
		if _, seen := lower[key]; !seen {
			lower[key] = i
		}
	}
	for _, want := range preferredTextColumns {
		if i, ok := lower[want]; ok {
			return i, nil
		}
	}

	return 0, nil
}

func formatProba(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'g', -1, 64)
}

func thresholdedLabel(p *float64, threshold float64) string {
	if p != nil && *p >= threshold {
		return string(domain.Label_Spam)
	}
	return string(domain.Label_Ham)
}
