package content

import "time"

// BreathingInstruction is shown when the guided breathing exercise starts.
const BreathingInstruction = "Inhale deeply through your nose for 4 seconds, hold for 4 seconds, and exhale slowly through your mouth. Repeat this process a few times to feel the calming effect."

// BreathingPhase is a single step of one breathing cycle.
type BreathingPhase struct {
	Name        string        `json:"phase"`
	Duration    time.Duration `json:"-"`
	Instruction string        `json:"instruction"`
}

// BreathingPattern returns the 4-4-4 cycle.
func BreathingPattern() []BreathingPhase {
	return []BreathingPhase{
		{Name: "inhale", Duration: 4 * time.Second, Instruction: "Inhale deeply through your nose"},
		{Name: "hold", Duration: 4 * time.Second, Instruction: "Hold your breath"},
		{Name: "exhale", Duration: 4 * time.Second, Instruction: "Exhale slowly through your mouth"},
	}
}
