package question

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkandie/examhall/internal/model"
)

// DefaultProviderURL is the Open Trivia DB endpoint.
const DefaultProviderURL = "https://opentdb.com/api.php"

// categoryIDs maps exam subjects to Open Trivia DB category codes.
var categoryIDs = map[string]int{
	"General Knowledge": 9,
	"Books":             10,
	"Film":              11,
	"Music":             12,
	"Science":           17,
	"Computers":         18,
	"Mathematics":       19,
	"Mythology":         20,
	"Sports":            21,
	"Geography":         22,
	"History":           23,
	"Politics":          24,
	"Art":               25,
	"Celebrities":       26,
	"Animals":           27,
	"Vehicles":          28,
	"Comics":            29,
	"Gadgets":           30,
	"Anime & Manga":     31,
	"Cartoons":          32,
}

const defaultCategoryID = 9 // General Knowledge

// OpenTDB fetches questions from the Open Trivia DB. A single attempt per
// call, bounded by the client timeout; the provider is flaky enough that
// synchronous retries would block the whole preview request.
type OpenTDB struct {
	baseURL string
	client  *http.Client
}

// NewOpenTDB creates a provider client. baseURL defaults to
// DefaultProviderURL when empty.
func NewOpenTDB(baseURL string, timeout time.Duration) *OpenTDB {
	if baseURL == "" {
		baseURL = DefaultProviderURL
	}
	return &OpenTDB{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// CategoryID returns the provider category for a subject; unknown subjects
// fall back to General Knowledge.
func CategoryID(subject string) int {
	if id, ok := categoryIDs[subject]; ok {
		return id
	}
	return defaultCategoryID
}

type providerResponse struct {
	ResponseCode int `json:"response_code"`
	Results      []struct {
		Question         string   `json:"question"`
		CorrectAnswer    string   `json:"correct_answer"`
		IncorrectAnswers []string `json:"incorrect_answers"`
	} `json:"results"`
}

// Fetch queries the provider for count multiple-choice questions. Provider
// payloads are HTML-escaped; all text is decoded before use.
func (o *OpenTDB) Fetch(ctx context.Context, subject string, count int, _ string) ([]model.Question, error) {
	u, err := url.Parse(o.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse provider URL: %w", err)
	}
	params := u.Query()
	params.Set("amount", strconv.Itoa(count))
	params.Set("category", strconv.Itoa(CategoryID(subject)))
	params.Set("type", "multiple")
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build provider request: %w", err)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var payload providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}
	if payload.ResponseCode != 0 {
		return nil, fmt.Errorf("provider response code %d", payload.ResponseCode)
	}
	if len(payload.Results) == 0 {
		return nil, fmt.Errorf("provider returned no results")
	}

	questions := make([]model.Question, 0, len(payload.Results))
	for _, r := range payload.Results {
		correct := html.UnescapeString(r.CorrectAnswer)
		options := make([]string, 0, len(r.IncorrectAnswers)+1)
		for _, a := range r.IncorrectAnswers {
			options = append(options, html.UnescapeString(a))
		}
		options = append(options, correct)
		q := model.Question{
			Text:    html.UnescapeString(r.Question),
			Answer:  correct,
			Options: options,
		}
		questions = append(questions, ShuffleOptions(Normalize(q)))
	}
	return questions, nil
}
