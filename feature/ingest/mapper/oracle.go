package mapper

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"google.golang.org/api/option"
)

// Oracle infers column mappings with a generative model. Concurrent
// requests for the same header row are collapsed into one call.
type Oracle struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	group   singleflight.Group
	log     *zap.Logger
}

// NewOracle creates an inference backend for the configured model.
func NewOracle(ctx context.Context, cfg Config, log *zap.Logger) (*Oracle, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create inference client: %w", err)
	}
	return &Oracle{
		client:  client,
		model:   cfg.Model,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		log:     log,
	}, nil
}

// Close releases the underlying client.
func (o *Oracle) Close() error {
	return o.client.Close()
}

// Map asks the model to assign canonical fields to the given columns.
func (o *Oracle) Map(ctx context.Context, columns []string) (Mapping, error) {
	v, err, _ := o.group.Do(cacheKey(columns), func() (any, error) {
		return o.infer(ctx, columns)
	})
	if err != nil {
		return nil, err
	}
	return v.(Mapping), nil
}

func (o *Oracle) infer(ctx context.Context, columns []string) (Mapping, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	model := o.client.GenerativeModel(o.model)
	model.SetTemperature(0)

	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(columns)))
	if err != nil {
		return nil, fmt.Errorf("inference call: %w", err)
	}

	text := extractText(resp)
	if text == "" {
		return nil, fmt.Errorf("inference returned no text")
	}

	mapping, err := parseMapping(text, columns)
	if err != nil {
		return nil, err
	}

	o.log.Debug("inferred column mapping",
		zap.Strings("columns", columns),
		zap.Int("mapped", len(mapping)))
	return mapping, nil
}

func buildPrompt(columns []string) string {
	fields := make([]string, len(Fields))
	for i, f := range Fields {
		fields[i] = string(f)
	}

	var b strings.Builder
	b.WriteString("Map spreadsheet column headers to inventory fields.\n")
	b.WriteString("Fields: " + strings.Join(fields, ", ") + "\n")
	b.WriteString("Columns: " + strings.Join(columns, ", ") + "\n")
	b.WriteString("Respond with only a JSON object mapping each column name ")
	b.WriteString("to one of the field names, or null when no field applies.")
	return b.String()
}

func extractText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			b.WriteString(fmt.Sprintf("%v", part))
		}
	}
	return b.String()
}

// parseMapping decodes the model's JSON reply, tolerating markdown
// code fences, and keeps only known columns mapped to known fields.
func parseMapping(text string, columns []string) (Mapping, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var raw map[string]*string
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("decode inference reply: %w", err)
	}

	known := make(map[string]bool, len(columns))
	for _, col := range columns {
		known[col] = true
	}

	valid := make(map[Field]bool, len(Fields))
	for _, f := range Fields {
		valid[f] = true
	}

	m := Mapping{}
	for col, field := range raw {
		if field == nil || !known[col] {
			continue
		}
		f := Field(*field)
		if valid[f] {
			m[col] = f
		}
	}
	return m, nil
}
