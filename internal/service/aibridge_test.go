package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"curtaincall/internal/models"
)

type bridgeFixture struct {
	svc      *AIBridgeService
	sensors  *fakeSensorRepo
	commands *fakeCommandRepo
	logs     *fakeLogRepo
}

// newBridgeForTest points the bridge at a stubbed model endpoint.
func newBridgeForTest(t *testing.T, format string, upstream http.HandlerFunc) *bridgeFixture {
	t.Helper()

	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	sensors := &fakeSensorRepo{}
	commands := &fakeCommandRepo{}
	logs := &fakeLogRepo{}
	settings := newFakeSettings(map[string]string{
		models.KeyCurtainStatus: models.CurtainOpen,
	})
	commandSvc := NewCommandService(commands, settings, logs)

	svc := NewAIBridgeService(AIConfig{
		APIKey:         "test-key",
		APIURL:         srv.URL,
		Timeout:        5 * time.Second,
		ResponseFormat: format,
	}, sensors, settings, logs, commandSvc)

	return &bridgeFixture{svc: svc, sensors: sensors, commands: commands, logs: logs}
}

// geminiBody wraps text the way the generateContent API does.
func geminiBody(t *testing.T, text string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	})
	if err != nil {
		t.Fatalf("marshal upstream body: %v", err)
	}
	return body
}

func upstreamReturning(t *testing.T, text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("upstream method = %s, want POST", r.Method)
		}
		if !strings.Contains(r.URL.RawQuery, "key=test-key") {
			t.Errorf("API key missing from query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(geminiBody(t, text))
	}
}

func TestAIBridge_Decide_ActionFormat(t *testing.T) {
	t.Parallel()
	// Model wraps its JSON in a code fence despite the prompt.
	fx := newBridgeForTest(t, FormatAction, upstreamReturning(t,
		"```json\n{\"action\": \"close\", \"speed\": 200, \"reason\": \"too bright\"}\n```"))

	// Give the bridge a reading to embed in the prompt and the audit entry.
	if _, err := fx.sensors.Insert(context.Background(), models.SensorReading{Temperature: 31.5, Humidity: 40, LightLevel: 950}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	out, err := fx.svc.Decide(context.Background(), "it is glaring in here")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if out.Action != models.ActionClose || out.Speed != 200 || out.Reason != "too bright" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if out.SensorContext.Light != "950" || out.SensorContext.Temperature != "31.5" {
		t.Fatalf("unexpected sensor context: %+v", out.SensorContext)
	}

	if fx.commands.pendingCount() != 1 {
		t.Fatalf("pending commands = %d, want 1", fx.commands.pendingCount())
	}
	queued := fx.commands.commands[0]
	if queued.Source != models.SourceAI || queued.Action != models.ActionClose {
		t.Fatalf("unexpected queued command: %+v", queued)
	}

	// The AI path writes its own audit entry with user input and context.
	if len(fx.logs.entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(fx.logs.entries))
	}
	entry := fx.logs.entries[0]
	if entry.UserInput == nil || *entry.UserInput != "it is glaring in here" {
		t.Fatalf("audit entry missing user input: %+v", entry)
	}
	if entry.SensorLight == nil || *entry.SensorLight != 950 {
		t.Fatalf("audit entry missing sensor context: %+v", entry)
	}
}

func TestAIBridge_Decide_PositionFormat(t *testing.T) {
	t.Parallel()

	t.Run("high position opens", func(t *testing.T) {
		t.Parallel()
		fx := newBridgeForTest(t, FormatPosition, upstreamReturning(t,
			`{"position": 80, "reason": "let some light in"}`))

		out, err := fx.svc.Decide(context.Background(), "brighten the room a bit")
		if err != nil {
			t.Fatalf("Decide: %v", err)
		}
		if out.Action != models.ActionOpen || out.Speed != ManualSpeed || out.Position != 80 {
			t.Fatalf("unexpected outcome: %+v", out)
		}
		if out.Reason != "AI: let some light in (Move to 80%)" {
			t.Fatalf("composed reason = %q", out.Reason)
		}
		if queued := fx.commands.commands[0]; queued.TargetPosition != 80 {
			t.Fatalf("target position column = %d, want 80", queued.TargetPosition)
		}
	})

	t.Run("low position closes", func(t *testing.T) {
		t.Parallel()
		fx := newBridgeForTest(t, FormatPosition, upstreamReturning(t,
			`{"position": 10, "reason": "movie time"}`))

		out, err := fx.svc.Decide(context.Background(), "movie time")
		if err != nil {
			t.Fatalf("Decide: %v", err)
		}
		if out.Action != models.ActionClose || out.Position != 10 {
			t.Fatalf("unexpected outcome: %+v", out)
		}
	})
}

func TestAIBridge_Decide_MalformedResponses(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
	}{
		{"not JSON at all", "Sure! I'd be happy to help with your curtain."},
		{"missing decision field", `{"speed": 100, "reason": "no action"}`},
		{"invalid action value", `{"action": "LAUNCH", "reason": "nope"}`},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			fx := newBridgeForTest(t, FormatAction, upstreamReturning(t, tc.text))

			_, err := fx.svc.Decide(context.Background(), "do something")
			var malformed *MalformedAIResponseError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedAIResponseError, got %v", err)
			}
			// The raw text must survive for diagnosis.
			if malformed.Raw != tc.text {
				t.Fatalf("raw = %q, want %q", malformed.Raw, tc.text)
			}
			if len(fx.commands.commands) != 0 {
				t.Fatalf("malformed response queued a command: %+v", fx.commands.commands)
			}
		})
	}
}

func TestAIBridge_Decide_UpstreamFailures(t *testing.T) {
	t.Parallel()

	t.Run("rate limited", func(t *testing.T) {
		t.Parallel()
		fx := newBridgeForTest(t, FormatAction, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		})
		_, err := fx.svc.Decide(context.Background(), "open up")
		var upstream *UpstreamError
		if !errors.As(err, &upstream) {
			t.Fatalf("expected UpstreamError, got %v", err)
		}
		if !upstream.RateLimited() {
			t.Fatalf("expected rate-limited error, got %+v", upstream)
		}
	})

	t.Run("server error", func(t *testing.T) {
		t.Parallel()
		fx := newBridgeForTest(t, FormatAction, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})
		_, err := fx.svc.Decide(context.Background(), "open up")
		var upstream *UpstreamError
		if !errors.As(err, &upstream) {
			t.Fatalf("expected UpstreamError, got %v", err)
		}
		if upstream.RateLimited() {
			t.Fatalf("500 must not read as rate limit: %+v", upstream)
		}
	})
}

func TestAIBridge_Decide_InputValidation(t *testing.T) {
	t.Parallel()
	fx := newBridgeForTest(t, FormatAction, upstreamReturning(t, `{"action":"OPEN"}`))

	if _, err := fx.svc.Decide(context.Background(), "   "); !errors.Is(err, ErrEmptyUserInput) {
		t.Fatalf("expected ErrEmptyUserInput, got %v", err)
	}

	fx.svc.cfg.APIKey = ""
	if _, err := fx.svc.Decide(context.Background(), "open"); !errors.Is(err, ErrAINotConfigured) {
		t.Fatalf("expected ErrAINotConfigured, got %v", err)
	}
}

func TestAIBridge_PromptEmbedsContext(t *testing.T) {
	t.Parallel()
	prompt := buildPrompt(SensorContext{Light: "900", Temperature: "36", Humidity: "50"},
		models.CurtainOpen, "close the curtain", FormatAction)

	for _, frag := range []string{"900", "36", "50", "OPEN", "close the curtain", "valid JSON object"} {
		if !strings.Contains(prompt, frag) {
			t.Fatalf("prompt missing %q:\n%s", frag, prompt)
		}
	}
}
