package guidance

import "fmt"

// systemTemplate is the system-role instruction. Placeholders, in order:
// mood, feeling description, stress level, recent events.
const systemTemplate = `You are a helpful mental health assistant that helps users manage their anxiety based on their mood, feelings, stress level, and recent events. Provide recommendations for exercises and techniques to reduce anxiety based on the user's mood, %s, their feelings described as: %s, their current stress level of %s, and recent events: %s.`

// userTemplate is the user-role task. Each placeholder appears once.
const userTemplate = `Task: Help me manage my anxiety. I'm feeling %s. Here's what I'm experiencing: %s. My current stress level is %s, and these are some recent events that might have contributed: %s

Considerations:
Provide tailored anxiety-reduction exercises.
Consider the user's mood, stress level, feelings, and recent events.
Offer practical and effective techniques.
Ensure the suggestions are easy to follow.`

// Prompt is the system instruction plus the content sent as the user turn.
type Prompt struct {
	System string
	User   string
}

// BuildPrompt formats the four request fields into both prompt roles.
// Values are embedded verbatim, empty ones included.
func BuildPrompt(req Request) Prompt {
	return Prompt{
		System: fmt.Sprintf(systemTemplate, req.Mood, req.FeelingDescription, req.StressLevel, req.RecentEvents),
		User:   fmt.Sprintf(userTemplate, req.Mood, req.FeelingDescription, req.StressLevel, req.RecentEvents),
	}
}
