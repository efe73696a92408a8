package scenario

import (
	"fmt"
	"strings"
)

// Scenario captures a role-play mentor persona exposed to the frontend.
type Scenario struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	SystemPrompt string `json:"-"`
}

// Greeting builds the assistant message that seeds a fresh session.
func (s Scenario) Greeting() string {
	return fmt.Sprintf("Hello! I'm your %s. %s What would you like to explore today?",
		strings.ToLower(s.Title), s.Description)
}

// DefaultSystemPrompt steers turns when no scenario is active.
const DefaultSystemPrompt = "You are a helpful AI assistant focused on differentiation and self-reflection."

// Seed provides the default mentor scenarios required by the product.
func Seed() []Scenario {
	return []Scenario{
		{
			ID:           "career-coach",
			Title:        "Career Coach",
			Description:  "Get guidance on career development and differentiation strategies",
			SystemPrompt: "You are an experienced career coach specializing in helping professionals identify and leverage their unique value propositions. Help me explore my differentiation opportunities and career growth strategies.",
		},
		{
			ID:           "business-mentor",
			Title:        "Business Mentor",
			Description:  "Discuss business ideas and entrepreneurial differentiation",
			SystemPrompt: "You are a successful business mentor with experience across multiple industries. Help me think through business opportunities and how to differentiate in competitive markets.",
		},
		{
			ID:           "innovation-consultant",
			Title:        "Innovation Consultant",
			Description:  "Explore creative approaches and cross-industry insights",
			SystemPrompt: "You are an innovation consultant who specializes in cross-industry pattern recognition and creative problem-solving. Help me discover unconventional approaches and innovative differentiation strategies.",
		},
		{
			ID:           "personal-brand-expert",
			Title:        "Personal Brand Expert",
			Description:  "Develop your personal brand and unique positioning",
			SystemPrompt: "You are a personal branding expert who helps professionals articulate their unique value and build compelling personal brands. Help me clarify and strengthen my personal brand positioning.",
		},
	}
}
