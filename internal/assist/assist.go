// Package assist drafts offer letter fields from a free-text request with
// a Gemini model. The model answers in JSON shaped like an offerletter
// patch, so assisted edits go through the same merge as manual ones.
package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	offerletter "github.com/alnah/go-offerletter"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Sentinel errors.
var (
	ErrGenerate      = errors.New("letter generation failed")
	ErrMissingAPIKey = errors.New("assist API key not set")
	ErrEmptyPrompt   = errors.New("assist prompt is empty")
)

// generator produces the raw model answer for a prompt.
type generator interface {
	generate(ctx context.Context, prompt string) (string, error)
	Close() error
}

// Client turns requests into patches.
type Client struct {
	gen     generator
	logger  *slog.Logger
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTimeout bounds one generation call. Zero means no bound beyond ctx.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// New connects to Gemini with apiKey. An empty model selects DefaultModel.
func New(ctx context.Context, apiKey, model string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = DefaultModel
	}
	gc, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("%w: creating Gemini client: %v", ErrGenerate, err)
	}
	return newClient(&geminiGenerator{client: gc, model: model}, opts...), nil
}

func newClient(gen generator, opts ...Option) *Client {
	c := &Client{gen: gen, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.gen.Close()
}

// Generate asks the model for letter details matching request. Fields the
// model leaves out stay absent from the patch.
func (c *Client) Generate(ctx context.Context, request string) (offerletter.Patch, error) {
	request = strings.TrimSpace(request)
	if request == "" {
		return offerletter.Patch{}, ErrEmptyPrompt
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := c.gen.generate(ctx, buildPrompt(request))
	if err != nil {
		return offerletter.Patch{}, fmt.Errorf("%w: %v", ErrGenerate, err)
	}

	var p offerletter.Patch
	if err := json.Unmarshal([]byte(cleanJSONBlock(raw)), &p); err != nil {
		c.logger.Debug("unparseable model answer", "answer", raw)
		return offerletter.Patch{}, fmt.Errorf("%w: decoding model answer: %v", ErrGenerate, err)
	}
	c.logger.Info("letter details generated", "elapsed", time.Since(start))
	return p, nil
}

func buildPrompt(request string) string {
	return fmt.Sprintf("Based on the following request, generate the details for a professional offer letter. Request: %q", request)
}

// cleanJSONBlock removes markdown code fences around a JSON answer.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

type geminiGenerator struct {
	client *genai.Client
	model  string
}

func (g *geminiGenerator) generate(ctx context.Context, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = letterSchema()

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return responseText(resp)
}

func (g *geminiGenerator) Close() error {
	return g.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("no candidates in response")
	}
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return "", errors.New("no content in response")
	}
	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", errors.New("no text parts in response")
	}
	return b.String(), nil
}

// letterSchema describes the fields the model may fill.
func letterSchema() *genai.Schema {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"companyName":   str(""),
			"candidateName": str(""),
			"jobTitle":      str(""),
			"startDate":     str("Date in YYYY-MM-DD format"),
			"salary": {
				Type:        genai.TypeNumber,
				Nullable:    true,
				Description: "The salary, or null if unpaid.",
			},
			"salaryFrequency": {
				Type: genai.TypeString,
				Enum: []string{offerletter.FrequencyAnnually, offerletter.FrequencyMonthly, offerletter.FrequencyHourly},
			},
			"perksAndBenefits": str("List of perks if the position is unpaid or has extra benefits."),
			"managerName":      str(""),
			"offerType": {
				Type: genai.TypeString,
				Enum: []string{offerletter.OfferInternship, offerletter.OfferFullTime},
			},
			"signerName":  str("The name of the person signing the letter."),
			"signerTitle": str("The job title of the person signing the letter."),
			"body":        str("The full body of the offer letter, using placeholders like {jobTitle}, {compensationDetails}, {managerName} where appropriate."),
		},
	}
}
