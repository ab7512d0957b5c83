package services

// InvitationTemplate is one entry in the template gallery.
type InvitationTemplate struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Colors      []string `json:"colors"`
}

// Templates is the static invitation template catalog.
var Templates = []InvitationTemplate{
	{
		ID:          "classic",
		Name:        "Classic Elegance",
		Description: "Timeless design for formal events",
		Category:    "formal",
		Colors:      []string{"#2c3e50", "#ecf0f1", "#95a5a6"},
	},
	{
		ID:          "modern",
		Name:        "Modern Minimal",
		Description: "Clean lines for contemporary celebrations",
		Category:    "modern",
		Colors:      []string{"#1a1a2e", "#16213e", "#e94560"},
	},
	{
		ID:          "floral",
		Name:        "Floral Garden",
		Description: "Soft botanical style for weddings and showers",
		Category:    "nature",
		Colors:      []string{"#ffb6c1", "#98fb98", "#fffacd"},
	},
	{
		ID:          "festive",
		Name:        "Festive Party",
		Description: "Bright colors for birthdays and parties",
		Category:    "party",
		Colors:      []string{"#ff6b6b", "#feca57", "#48dbfb"},
	},
	{
		ID:          "autumn",
		Name:        "Autumn Leaves",
		Description: "Warm autumn colors perfect for fall events",
		Category:    "nature",
		Colors:      []string{"#ff8c00", "#dc143c", "#ffd700"},
	},
}

// TemplateByID looks up a template, falling back to the classic one.
func TemplateByID(id string) InvitationTemplate {
	for _, t := range Templates {
		if t.ID == id {
			return t
		}
	}
	return Templates[0]
}
