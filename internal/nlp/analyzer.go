package nlp

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

// Mood labels produced by the analyzer
const (
	MoodHappy   = "happy"
	MoodGood    = "good"
	MoodNeutral = "neutral"
	MoodSad     = "sad"
	MoodAnxious = "anxious"
	MoodAngry   = "angry"
)

const keywordModelName = "keyword-fallback"

// maxTextLength bounds the text sent to the model
const maxTextLength = 512

const systemPrompt = "You are a mood classifier for a mental wellness app. " +
	"Classify the emotional tone of the user's message into exactly one of: " +
	"happy, good, neutral, sad, anxious, angry. Reply with the single label only."

// Analysis is the outcome of mood detection on a piece of text
type Analysis struct {
	Mood       string
	Confidence float64
	ModelUsed  string
	Language   string
}

// Analyzer detects the mood of free text. It calls a chat completion model
// when one is configured and falls back to keyword matching when the model
// is unavailable or fails.
type Analyzer struct {
	client     *openai.Client
	model      string
	logger     *zap.Logger
	maxRetries int
	baseDelay  time.Duration
}

// NewAnalyzer creates a mood analyzer. An empty apiKey disables the remote
// model entirely and every analysis uses the keyword classifier.
func NewAnalyzer(apiKey, baseURL, model string, logger *zap.Logger) *Analyzer {
	a := &Analyzer{
		model:      model,
		logger:     logger,
		maxRetries: 3,
		baseDelay:  time.Second,
	}

	if apiKey != "" {
		opts := []option.RequestOption{option.WithAPIKey(apiKey)}
		if baseURL != "" {
			opts = append(opts, option.WithBaseURL(baseURL))
		}
		client := openai.NewClient(opts...)
		a.client = &client
	}

	return a
}

// AnalyzeMood classifies the mood of the given text. It never returns an
// error: any failure degrades to the keyword classifier.
func (a *Analyzer) AnalyzeMood(ctx context.Context, text, language string) Analysis {
	trimmed := truncateRunes(strings.TrimSpace(text), maxTextLength)

	if a.client != nil {
		mood, err := a.classifyRemote(ctx, trimmed)
		if err == nil {
			return Analysis{
				Mood:       mood,
				Confidence: 0.9,
				ModelUsed:  a.model,
				Language:   language,
			}
		}
		a.logger.Warn("remote mood classification failed, using keyword fallback",
			zap.Error(err),
		)
	}

	mood, confidence := classifyKeywords(trimmed)
	return Analysis{
		Mood:       mood,
		Confidence: confidence,
		ModelUsed:  keywordModelName,
		Language:   language,
	}
}

// classifyRemote sends the text to the chat completion model with retry logic
func (a *Analyzer) classifyRemote(ctx context.Context, text string) (string, error) {
	startTime := time.Now()
	var lastErr error

	for attempt := 0; attempt < a.maxRetries; attempt++ {
		if attempt > 0 {
			delay := a.baseDelay * time.Duration(1<<uint(attempt-1))
			a.logger.Info("retrying mood classification request",
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
			)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		mood, err := a.classifyOnce(ctx, text)
		if err == nil {
			a.logger.Info("mood classification completed",
				zap.Duration("processing_time", time.Since(startTime)),
				zap.Int("attempts", attempt+1),
			)
			return mood, nil
		}

		lastErr = err
		if !isRetryable(err) {
			a.logger.Error("non-retryable mood classification error",
				zap.Error(err),
				zap.Int("attempt", attempt+1),
			)
			break
		}

		a.logger.Warn("mood classification request failed, will retry",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
		)
	}

	return "", fmt.Errorf("mood classification failed after %d attempts: %w", a.maxRetries, lastErr)
}

// classifyOnce performs a single chat completion request
func (a *Analyzer) classifyOnce(ctx context.Context, text string) (string, error) {
	requestStart := time.Now()

	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(text),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from model")
	}

	content := strings.ToLower(strings.TrimSpace(resp.Choices[0].Message.Content))
	if content == "" {
		return "", fmt.Errorf("empty content in response")
	}

	a.logger.Info("mood model token usage",
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens),
		zap.Int64("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("request_time", time.Since(requestStart)),
	)

	switch content {
	case MoodHappy, MoodGood, MoodNeutral, MoodSad, MoodAnxious, MoodAngry:
		return content, nil
	}
	return "", fmt.Errorf("unexpected mood label %q", content)
}

// isRetryable determines if an error should trigger a retry
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()

	// Don't retry authentication errors
	if strings.Contains(errStr, "authentication") || strings.Contains(errStr, "unauthorized") || strings.Contains(errStr, "401") {
		return false
	}

	// Don't retry invalid request errors
	if strings.Contains(errStr, "invalid") || strings.Contains(errStr, "bad request") || strings.Contains(errStr, "400") {
		return false
	}

	// Retry everything else (rate limits, timeouts, network errors)
	return true
}

// moodKeywords maps each mood to indicative words, French and English mixed.
// The first mood with a match wins, checked in a fixed order so negative
// moods take precedence over positive ones.
var moodKeywordOrder = []string{MoodAnxious, MoodAngry, MoodSad, MoodHappy, MoodGood}

var moodKeywords = map[string][]string{
	MoodSad: {
		"triste", "déprimé", "deprime", "malheureux", "pleure", "seul",
		"sad", "depressed", "unhappy", "lonely", "crying", "down",
	},
	MoodAnxious: {
		"anxieux", "anxiété", "anxiete", "stressé", "stresse", "inquiet", "peur", "angoisse",
		"anxious", "anxiety", "stressed", "worried", "scared", "nervous", "overwhelmed",
	},
	MoodAngry: {
		"colère", "colere", "énervé", "enerve", "furieux", "frustré", "frustre", "agacé",
		"angry", "mad", "furious", "frustrated", "annoyed", "irritated",
	},
	MoodHappy: {
		"heureux", "joyeux", "content", "ravi", "super", "génial", "genial", "merveilleux",
		"happy", "joyful", "great", "wonderful", "excited", "amazing", "fantastic",
	},
	MoodGood: {
		"bien", "calme", "serein", "reconnaissant", "fier", "motivé", "motive",
		"good", "fine", "okay", "grateful", "proud", "hopeful", "relaxed",
	},
}

// truncateRunes cuts s to at most max bytes without splitting a rune.
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// classifyKeywords scans the text for mood keywords. Unknown text is neutral
// with zero confidence.
func classifyKeywords(text string) (string, float64) {
	lower := strings.ToLower(text)

	for _, mood := range moodKeywordOrder {
		for _, kw := range moodKeywords[mood] {
			if strings.Contains(lower, kw) {
				return mood, 0.6
			}
		}
	}

	return MoodNeutral, 0.0
}
