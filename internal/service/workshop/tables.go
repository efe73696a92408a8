package workshop

// ExperienceCategories are the predefined tags offered alongside free-text
// custom experiences.
func ExperienceCategories() []string {
	return []string{
		"Technology", "Healthcare", "Education", "Finance", "Retail", "Manufacturing",
		"Hospitality", "Transportation", "Entertainment", "Sports", "Art", "Music",
		"Consulting", "Marketing", "Sales", "Operations", "Leadership", "Startup",
		"Non-profit", "Government", "Research", "Design", "Writing", "Photography",
	}
}

// crossIndustryIdeas is the fixed analogy table one entry is drawn from per
// generation.
var crossIndustryIdeas = []string{
	"Subscription model from Netflix → Apply to fitness coaching",
	"Gamification from video games → Apply to learning platforms",
	"Just-in-time delivery from Toyota → Apply to content creation",
	"Freemium model from software → Apply to consulting services",
	"Community building from Discord → Apply to professional networking",
	"Personalization from Spotify → Apply to meal planning",
	"Marketplace model from Airbnb → Apply to skill sharing",
	"Automation from manufacturing → Apply to customer service",
	"Storytelling from Disney → Apply to brand marketing",
	"Minimalism from Apple → Apply to productivity tools",
}
