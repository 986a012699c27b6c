package assistant

// Profile 描述聊天屏的问候身份及其语言。
type Profile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Tagline     string `json:"tagline"`
	Language    string `json:"language"`
	Greeting    string `json:"greeting"`
	Placeholder string `json:"placeholder"`
}

// DefaultProfileID 未配置时使用的默认问候配置。
const DefaultProfileID = "en"

// Seed 提供内置的问候配置。
func Seed() []Profile {
	return []Profile{
		{
			ID:          "en",
			Name:        "FarmBot Assistant",
			Tagline:     "Your intelligent farming companion",
			Language:    "en",
			Greeting:    "Hello! I'm your farming assistant. I'm here to help you with questions about crops, livestock, weather, and farming techniques. What would you like to know?",
			Placeholder: "Ask me anything about farming...",
		},
		{
			ID:          "ta",
			Name:        "FarmBot Assistant",
			Tagline:     "உங்கள் அறிவார்ந்த விவசாயத் துணை",
			Language:    "ta",
			Greeting:    "வணக்கம்! நான் உங்கள் விவசாய உதவியாளர். பயிர்கள், கால்நடைகள், வானிலை மற்றும் விவசாய நுட்பங்கள் பற்றிய கேள்விகளுக்கு உதவ நான் இங்கே இருக்கிறேன். நீங்கள் என்ன தெரிந்து கொள்ள விரும்புகிறீர்கள்?",
			Placeholder: "விவசாயம் பற்றி எதையும் கேளுங்கள்...",
		},
	}
}
