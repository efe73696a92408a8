package reflection

// QuestionPool returns the full set of differentiation questions the daily
// scheduler samples from.
func QuestionPool() []string {
	return []string{
		"What unique combination of skills or experiences do you possess that others in your field typically don't have?",
		"How could you apply a successful strategy from a completely different industry to your current work or goals?",
		"What problem are you uniquely positioned to solve because of your specific background or perspective?",
		"If you had to explain your value proposition in one sentence, what would make someone choose you over alternatives?",
		"What unconventional approach could you take to a common challenge in your field?",
		"How do your personal values or life experiences create a different lens through which you approach problems?",
		"What would you do differently if you were starting fresh in your field today, knowing what you know now?",
		"How could you combine two seemingly unrelated interests or skills to create something new?",
		"What assumptions in your industry do you disagree with, and how could that disagreement become an advantage?",
		"If you could only be known for one thing professionally, what would create the most meaningful impact?",
	}
}
