package bot

import (
	"testing"

	"hedgebot/internal/models"
)

// TestCanTransition_ValidTransitions проверяет все валидные переходы между состояниями
func TestCanTransition_ValidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		// IDLE → ALERTED (risk threshold breached)
		{
			name: "IDLE → ALERTED (threshold breached)",
			from: models.StateIdle,
			to:   models.StateAlerted,
			want: true,
		},
		// ALERTED → HEDGED (hedge executed after alert)
		{
			name: "ALERTED → HEDGED (hedge executed)",
			from: models.StateAlerted,
			to:   models.StateHedged,
			want: true,
		},
		// ALERTED → IDLE (monitoring restarted)
		{
			name: "ALERTED → IDLE (monitoring restart)",
			from: models.StateAlerted,
			to:   models.StateIdle,
			want: true,
		},
		// HEDGED → IDLE (monitoring restarted)
		{
			name: "HEDGED → IDLE (monitoring restart)",
			from: models.StateHedged,
			to:   models.StateIdle,
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanTransition(tt.from, tt.to)
			if got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

// TestCanTransition_InvalidTransitions проверяет, что невалидные переходы отклоняются
func TestCanTransition_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
	}{
		// Из IDLE нельзя сразу в HEDGED - хедж следует за алертом
		{name: "IDLE → HEDGED (invalid, skip ALERTED)", from: models.StateIdle, to: models.StateHedged},
		{name: "IDLE → IDLE (invalid)", from: models.StateIdle, to: models.StateIdle},

		// Из HEDGED нельзя обратно в ALERTED
		{name: "HEDGED → ALERTED (invalid)", from: models.StateHedged, to: models.StateAlerted},
		{name: "HEDGED → HEDGED (invalid)", from: models.StateHedged, to: models.StateHedged},

		// Самопереход ALERTED не нужен - повторный алерт не меняет состояние
		{name: "ALERTED → ALERTED (invalid)", from: models.StateAlerted, to: models.StateAlerted},

		// Неизвестные состояния
		{name: "unknown → IDLE (invalid)", from: "UNKNOWN", to: models.StateIdle},
		{name: "IDLE → unknown (invalid)", from: models.StateIdle, to: "UNKNOWN"},
		{name: "empty → empty (invalid)", from: "", to: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if CanTransition(tt.from, tt.to) {
				t.Errorf("CanTransition(%s, %s) = true, want false", tt.from, tt.to)
			}
		})
	}
}

// TestStateInfo проверяет описания всех состояний
func TestStateInfo(t *testing.T) {
	states := []string{models.StateIdle, models.StateAlerted, models.StateHedged}
	seen := make(map[string]bool)

	for _, s := range states {
		info := StateInfo(s)
		if info == "" || info == "Неизвестное состояние" {
			t.Errorf("StateInfo(%s) вернул пустое или неизвестное описание", s)
		}
		if seen[info] {
			t.Errorf("описание %q повторяется для разных состояний", info)
		}
		seen[info] = true
	}

	if StateInfo("BOGUS") != "Неизвестное состояние" {
		t.Error("для неизвестного состояния ожидали заглушку")
	}
}

// TestIsActive проверяет что все состояния монитора считаются рабочими
func TestIsActive(t *testing.T) {
	for _, s := range []string{models.StateIdle, models.StateAlerted, models.StateHedged} {
		if !IsActive(s) {
			t.Errorf("IsActive(%s) = false, want true", s)
		}
	}
	if IsActive("UNKNOWN") {
		t.Error("IsActive(UNKNOWN) = true, want false")
	}
}

// TestHasAlerted проверяет определение состояний после алерта
func TestHasAlerted(t *testing.T) {
	tests := []struct {
		state string
		want  bool
	}{
		{models.StateIdle, false},
		{models.StateAlerted, true},
		{models.StateHedged, true},
	}

	for _, tt := range tests {
		if got := HasAlerted(tt.state); got != tt.want {
			t.Errorf("HasAlerted(%s) = %v, want %v", tt.state, got, tt.want)
		}
	}
}

// BenchmarkCanTransition измеряет скорость проверки перехода
func BenchmarkCanTransition(b *testing.B) {
	for i := 0; i < b.N; i++ {
		CanTransition(models.StateIdle, models.StateAlerted)
	}
}
