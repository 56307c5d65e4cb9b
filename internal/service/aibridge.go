package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"curtaincall/internal/models"
	"curtaincall/internal/repository"
)

// AI response formats supported by different deployments of the bridge.
// The categorical format asks the model for an action directly; the
// positional format asks for a target position and derives the action.
const (
	FormatAction   = "action"
	FormatPosition = "position"
)

const (
	defaultAITimeout = 20 * time.Second

	aiDefaultSpeed  = 255
	aiDefaultReason = "AI decision"

	// upstreamDetailLimit caps how much upstream body is kept in errors.
	upstreamDetailLimit = 512
)

// AIConfig configures the bridge's upstream call.
type AIConfig struct {
	APIKey         string
	APIURL         string
	Timeout        time.Duration
	ResponseFormat string // FormatAction | FormatPosition
}

// SensorContext is the snapshot embedded in the prompt and echoed back to the
// dashboard. Values are formatted strings; "N/A" when no reading exists yet.
type SensorContext struct {
	Light       string `json:"light"`
	Temperature string `json:"temperature"`
	Humidity    string `json:"humidity"`
}

// AIOutcome is the accepted decision after a successful bridge round-trip.
type AIOutcome struct {
	CommandID     int64
	Format        string
	Action        string
	Speed         int
	Reason        string // reason attached to the queued command
	ModelReason   string // the model's own explanation, pre-composition
	Position      int    // meaningful for FormatPosition only
	SensorContext SensorContext
}

type AIBridgeService struct {
	cfg        AIConfig
	httpClient *http.Client

	sensorRepo   repository.SensorRepo
	settingsRepo repository.SettingsRepo
	logRepo      repository.DeviceLogRepo
	commands     Commands
}

func NewAIBridgeService(cfg AIConfig, sensorRepo repository.SensorRepo, settingsRepo repository.SettingsRepo, logRepo repository.DeviceLogRepo, commands Commands) *AIBridgeService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultAITimeout
	}
	if cfg.ResponseFormat == "" {
		cfg.ResponseFormat = FormatAction
	}
	return &AIBridgeService{
		cfg:          cfg,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		sensorRepo:   sensorRepo,
		settingsRepo: settingsRepo,
		logRepo:      logRepo,
		commands:     commands,
	}
}

var _ AIBridge = (*AIBridgeService)(nil)

// ---- upstream wire types (Gemini generateContent) ----

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Decide builds the prompt from the latest sensor context and the user's
// text, calls the model, validates the decision and queues the command.
func (s *AIBridgeService) Decide(ctx context.Context, userInput string) (*AIOutcome, error) {
	userInput = strings.TrimSpace(userInput)
	if userInput == "" {
		return nil, ErrEmptyUserInput
	}
	if s.cfg.APIKey == "" {
		return nil, ErrAINotConfigured
	}

	sctx, reading := s.sensorContext(ctx)
	status := loadCurtainStatus(ctx, s.settingsRepo)

	text, err := s.generate(ctx, buildPrompt(sctx, status, userInput, s.cfg.ResponseFormat))
	if err != nil {
		return nil, err
	}
	text = stripCodeFences(text)

	outcome, targetPosition, err := parseDecision(text, s.cfg.ResponseFormat)
	if err != nil {
		return nil, err
	}
	outcome.SensorContext = sctx

	cmd, err := s.commands.Submit(ctx, SubmitParams{
		Action:         outcome.Action,
		Speed:          outcome.Speed,
		TargetPosition: targetPosition,
		Source:         models.SourceAI,
		Reason:         outcome.Reason,
	})
	if err != nil {
		return nil, err
	}
	outcome.CommandID = cmd.ID

	entry := models.DeviceLogEntry{
		Action:    cmd.Action,
		Speed:     cmd.Speed,
		Source:    models.SourceAI,
		Reason:    cmd.Reason,
		UserInput: &userInput,
	}
	if reading != nil {
		entry.SensorTemperature = &reading.Temperature
		entry.SensorHumidity = &reading.Humidity
		entry.SensorLight = &reading.LightLevel
	}
	if err := s.logRepo.Append(ctx, entry); err != nil {
		return nil, err
	}

	return outcome, nil
}

// sensorContext formats the latest reading for the prompt; N/A when none.
func (s *AIBridgeService) sensorContext(ctx context.Context) (SensorContext, *models.SensorReading) {
	sctx := SensorContext{Light: "N/A", Temperature: "N/A", Humidity: "N/A"}

	readings, err := s.sensorRepo.Latest(ctx, 1)
	if err != nil || len(readings) == 0 {
		return sctx, nil
	}

	r := readings[0]
	sctx.Light = strconv.Itoa(r.LightLevel)
	sctx.Temperature = strconv.FormatFloat(r.Temperature, 'f', -1, 64)
	sctx.Humidity = strconv.FormatFloat(r.Humidity, 'f', -1, 64)
	return sctx, &r
}

func buildPrompt(sctx SensorContext, curtainStatus, userInput, format string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are the brain of an automated curtain system called "Curtain Call".

Current sensor data:
- Light Level: %s (0-1023 scale, higher = brighter)
- Temperature: %s°C
- Humidity: %s%%
- Current Curtain Status: %s

User command: %q

Based on the sensor data and user command, decide what the curtain should do.
`, sctx.Light, sctx.Temperature, sctx.Humidity, curtainStatus, userInput)

	if format == FormatPosition {
		b.WriteString(`Respond ONLY with a valid JSON object (no markdown, no code blocks):
{"position": 0-100 (0 = fully closed, 100 = fully open), "reason": "brief explanation"}`)
	} else {
		b.WriteString(`Respond ONLY with a valid JSON object (no markdown, no code blocks):
{"action": "OPEN" or "CLOSE" or "STOP", "speed": 0-255, "reason": "brief explanation"}`)
	}
	return b.String()
}

// generate performs one bounded call to the model and returns the raw
// generated text.
func (s *AIBridgeService) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     0.3,
			MaxOutputTokens: 256,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal AI request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	url := s.cfg.APIURL + "?key=" + s.cfg.APIKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build AI request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", &UpstreamError{Detail: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Detail: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Detail: truncate(string(respBody), upstreamDetailLimit)}
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &MalformedAIResponseError{Raw: truncate(string(respBody), upstreamDetailLimit)}
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", &MalformedAIResponseError{Raw: truncate(string(respBody), upstreamDetailLimit)}
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// stripCodeFences removes markdown code-fence wrapping the model sometimes
// adds despite the prompt's instruction.
func stripCodeFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// parseDecision interprets the stripped model text per the configured format.
// The returned int is the target position column value for the command.
func parseDecision(text, format string) (*AIOutcome, int, error) {
	if format == FormatPosition {
		return parsePositionDecision(text)
	}
	return parseActionDecision(text)
}

func parseActionDecision(text string) (*AIOutcome, int, error) {
	var d struct {
		Action string `json:"action"`
		Speed  *int   `json:"speed"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(text), &d); err != nil || d.Action == "" {
		return nil, 0, &MalformedAIResponseError{Raw: text}
	}

	action := strings.ToUpper(strings.TrimSpace(d.Action))
	if !validAction(action) {
		return nil, 0, &MalformedAIResponseError{Raw: text}
	}

	speed := aiDefaultSpeed
	if d.Speed != nil {
		speed = clamp(*d.Speed, 0, 255)
	}
	reason := d.Reason
	if reason == "" {
		reason = aiDefaultReason
	}

	return &AIOutcome{
		Format:      FormatAction,
		Action:      action,
		Speed:       speed,
		Reason:      reason,
		ModelReason: reason,
	}, models.PositionUnspecified, nil
}

func parsePositionDecision(text string) (*AIOutcome, int, error) {
	var d struct {
		Position *int   `json:"position"`
		Reason   string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(text), &d); err != nil || d.Position == nil {
		return nil, 0, &MalformedAIResponseError{Raw: text}
	}

	pos := clamp(*d.Position, 0, 100)
	action := models.ActionClose
	if pos >= 50 {
		action = models.ActionOpen
	}
	reason := d.Reason
	if reason == "" {
		reason = aiDefaultReason
	}

	return &AIOutcome{
		Format:      FormatPosition,
		Action:      action,
		Speed:       ManualSpeed,
		Reason:      fmt.Sprintf("AI: %s (Move to %d%%)", reason, pos),
		ModelReason: reason,
		Position:    pos,
	}, pos, nil
}
