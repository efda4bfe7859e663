// ABOUTME: Tests for Turn model creation and validation
// ABOUTME: Verifies text/image constructors, caller defaulting, and id generation
package models

import (
	"strings"
	"testing"
)

func TestNewTextTurn(t *testing.T) {
	tests := []struct {
		name           string
		conversationID string
		callerID       string
		role           Role
		text           string
		wantErr        bool
		errMsg         string
		wantCaller     string
	}{
		{
			name:           "valid user turn",
			conversationID: "conv-1",
			callerID:       "alice",
			role:           RoleUser,
			text:           "hello",
			wantCaller:     "alice",
		},
		{
			name:           "empty caller defaults to anonymous",
			conversationID: "conv-1",
			callerID:       "",
			role:           RoleUser,
			text:           "hello",
			wantCaller:     AnonymousCaller,
		},
		{
			name:           "assistant turn may be empty",
			conversationID: "conv-1",
			callerID:       "alice",
			role:           RoleAssistant,
			text:           "",
			wantCaller:     "alice",
		},
		{
			name:           "system turn",
			conversationID: "conv-1",
			callerID:       "alice",
			role:           RoleSystem,
			text:           "you are terse",
			wantCaller:     "alice",
		},
		{
			name:           "empty conversation id",
			conversationID: "",
			callerID:       "alice",
			role:           RoleUser,
			text:           "hello",
			wantErr:        true,
			errMsg:         "conversation id cannot be empty",
		},
		{
			name:           "whitespace-only user text",
			conversationID: "conv-1",
			callerID:       "alice",
			role:           RoleUser,
			text:           "  \t\n ",
			wantErr:        true,
			errMsg:         "text cannot be empty",
		},
		{
			name:           "invalid role",
			conversationID: "conv-1",
			callerID:       "alice",
			role:           Role("narrator"),
			text:           "hello",
			wantErr:        true,
			errMsg:         "invalid role",
		},
		{
			name:           "unicode text",
			conversationID: "conv-1",
			callerID:       "alice",
			role:           RoleUser,
			text:           "hola 世界",
			wantCaller:     "alice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			turn, err := NewTextTurn(tt.conversationID, tt.callerID, tt.role, tt.text)

			if (err != nil) != tt.wantErr {
				t.Errorf("NewTextTurn() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil {
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("NewTextTurn() error = %q, want to contain %q", err.Error(), tt.errMsg)
				}
				return
			}

			if turn == nil {
				t.Fatal("NewTextTurn() returned nil turn without error")
			}
			if turn.Kind != KindText {
				t.Errorf("Kind = %q, want %q", turn.Kind, KindText)
			}
			if turn.Text != tt.text {
				t.Errorf("Text = %q, want %q", turn.Text, tt.text)
			}
			if turn.CallerID != tt.wantCaller {
				t.Errorf("CallerID = %q, want %q", turn.CallerID, tt.wantCaller)
			}
			if turn.Image != "" {
				t.Errorf("Image = %q, want empty on a text turn", turn.Image)
			}
			if turn.TurnID == "" {
				t.Error("TurnID should be generated")
			}
			if !strings.HasPrefix(turn.TurnID, "turn_") {
				t.Errorf("TurnID = %q, should start with 'turn_'", turn.TurnID)
			}
		})
	}
}

func TestNewImageTurn(t *testing.T) {
	tests := []struct {
		name     string
		imageB64 string
		caption  string
		wantErr  bool
	}{
		{name: "image with caption", imageB64: "aGVsbG8=", caption: "what is this"},
		{name: "image without caption", imageB64: "aGVsbG8="},
		{name: "empty image payload", imageB64: "", caption: "what is this", wantErr: true},
		{name: "whitespace image payload", imageB64: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			turn, err := NewImageTurn("conv-1", "alice", tt.imageB64, tt.caption)

			if (err != nil) != tt.wantErr {
				t.Errorf("NewImageTurn() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil {
				return
			}

			if turn.Kind != KindImage {
				t.Errorf("Kind = %q, want %q", turn.Kind, KindImage)
			}
			if !turn.IsImage() {
				t.Error("IsImage() = false, want true")
			}
			if turn.Role != RoleUser {
				t.Errorf("Role = %q, want %q", turn.Role, RoleUser)
			}
			if turn.Image != tt.imageB64 {
				t.Errorf("Image = %q, want %q", turn.Image, tt.imageB64)
			}
			if turn.Text != tt.caption {
				t.Errorf("Text = %q, want caption %q", turn.Text, tt.caption)
			}
		})
	}
}

func TestNewTurn_UniqueIDs(t *testing.T) {
	ids := make(map[string]bool)

	for i := 0; i < 10; i++ {
		turn, err := NewTextTurn("conv-1", "alice", RoleUser, "message")
		if err != nil {
			t.Fatalf("NewTextTurn() error = %v", err)
		}

		if ids[turn.TurnID] {
			t.Errorf("Duplicate TurnID generated: %s", turn.TurnID)
		}
		ids[turn.TurnID] = true
	}
}

func TestDefaultConversationID(t *testing.T) {
	tests := []struct {
		callerID string
		want     string
	}{
		{"alice", "default-alice"},
		{"", "default-anonymous"},
		{"  ", "default-anonymous"},
	}

	for _, tt := range tests {
		if got := DefaultConversationID(tt.callerID); got != tt.want {
			t.Errorf("DefaultConversationID(%q) = %q, want %q", tt.callerID, got, tt.want)
		}
	}
}
