// Package catalog holds the static tool directory and conference deadlines,
// plus the small calculators behind the built-in tools.
package catalog

import "strings"

// Tool is a catalog entry. Internal tools open a helper in the detail view
// instead of linking out.
type Tool struct {
	ID          string
	Title       string
	Description string
	Category    string
	Label       string
	Link        string
	HowTo       string
	SeedLikes   int
	Internal    bool
	ActionText  string
}

// Category is a tab in the catalog view.
type Category struct {
	ID    string
	Label string
}

const (
	CategoryAll       = "all"
	CategoryFavorites = "fav"
)

// Internal tool ids.
const (
	AuthorConverterID = "20"
	ImprovementCalcID = "17"
)

var categories = []Category{
	{CategoryAll, "All"},
	{CategoryFavorites, "Favorites"},
	{"screening", "Paper Screening"},
	{"search", "Databases"},
	{"writing", "LaTeX"},
	{"submit", "Submission"},
	{"citation", "Citations"},
	{"figure", "Figures"},
	{"llm", "LLM Tools"},
	{"calc", "Calculators"},
}

var tools = []Tool{
	{ID: "20", Title: "Final Author Name Converter", Description: "Turns commas into 'and' and spaces inside names into '~'. Handy for BibTeX and author lists.", Category: "writing", Label: "LaTeX", Link: "#", HowTo: "1. Enter the author list.\n2. Commas become 'and', spaces inside names become '~'.", SeedLikes: 120, Internal: true, ActionText: "Open converter"},
	{ID: "17", Title: "Improvement Calculator", Description: "Computes the improvement rate of an experiment over its baseline.", Category: "calc", Label: "Calculators", Link: "#", HowTo: "Enter the baseline and new values to see the improvement.", SeedLikes: 85, Internal: true, ActionText: "Open calculator"},
	{ID: "18", Title: "OpenReview", Description: "Peer review and submission platform. Follow the open review process of major venues.", Category: "submit", Label: "Submission", Link: "https://openreview.net/", HowTo: "Track review status for the major AI conferences.", SeedLikes: 142},
	{ID: "19", Title: "Paper Copilot", Description: "Conference schedules and paper management. Keep deadlines and checklists in one place.", Category: "submit", Label: "Submission", Link: "https://papercopilot.com/", HowTo: "Search conference schedules and add them to your dashboard.", SeedLikes: 98},
	{ID: "13", Title: "Hugging Face Papers", Description: "Trending AI and machine learning papers, updated in real time.", Category: "screening", Label: "Paper Screening", Link: "https://huggingface.co/papers/trending", HowTo: "Catch up on the latest research at a glance.", SeedLikes: 215},
	{ID: "14", Title: "AlphaXiv", Description: "Open community for discussing arXiv papers.", Category: "screening", Label: "Paper Screening", Link: "https://alphaxiv.org/", HowTo: "Enter an arXiv id to join the discussion.", SeedLikes: 156},
	{ID: "15", Title: "Scholar Inbox", Description: "Learns your interests and recommends new arXiv papers every day.", Category: "screening", Label: "Paper Screening", Link: "https://scholarinbox.com/", HowTo: "Get a personalized paper feed.", SeedLikes: 182},
	{ID: "3", Title: "Zotero", Description: "Open source reference manager that automates citations.", Category: "citation", Label: "Citations", Link: "https://www.zotero.org", HowTo: "Save and organize bibliographic data quickly.", SeedLikes: 189},
	{ID: "4", Title: "Google Scholar", Description: "Search engine for scholarly literature worldwide.", Category: "search", Label: "Databases", Link: "https://scholar.google.com", HowTo: "Search academic sources broadly.", SeedLikes: 433},
	{ID: "7", Title: "Squoosh", Description: "Image resizing and compression.", Category: "figure", Label: "Figures", Link: "https://squoosh.app/", HowTo: "Shrink image files drastically.", SeedLikes: 120},
	{ID: "16", Title: "Gradients", Description: "Polished gradient palettes for paper figures and slides.", Category: "figure", Label: "Figures", Link: "https://gradients.app/en", HowTo: "Copy the color codes you need.", SeedLikes: 95},
	{ID: "8", Title: "ChatGPT", Description: "Conversational AI from OpenAI.", Category: "llm", Label: "LLM Tools", Link: "https://chatgpt.com/", HowTo: "Draft papers and brainstorm ideas.", SeedLikes: 890},
	{ID: "9", Title: "Gemini", Description: "Google's latest AI model.", Category: "llm", Label: "LLM Tools", Link: "https://gemini.google.com/", HowTo: "Great for summarizing live information and analyzing data.", SeedLikes: 654},
	{ID: "10", Title: "Claude", Description: "AI model from Anthropic.", Category: "llm", Label: "LLM Tools", Link: "https://claude.ai/", HowTo: "Suited to long paper analysis and careful proofreading.", SeedLikes: 721},
	{ID: "11", Title: "Overleaf", Description: "Collaborative web-based LaTeX editor.", Category: "writing", Label: "LaTeX", Link: "https://www.overleaf.com/", HowTo: "Collaborate with co-authors in real time.", SeedLikes: 452},
	{ID: "12", Title: "Word Counter", Description: "Live word count.", Category: "writing", Label: "LaTeX", Link: "https://wordcounter.net/", HowTo: "Check the length of your text as you type.", SeedLikes: 310},
}

// Tools returns the catalog in display order.
func Tools() []Tool {
	return append([]Tool(nil), tools...)
}

// Categories returns the catalog tabs, starting with All and Favorites.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// Get looks up a tool by id.
func Get(id string) (Tool, bool) {
	for _, t := range tools {
		if t.ID == id {
			return t, true
		}
	}
	return Tool{}, false
}

// NextCategory returns the category after id, wrapping around. Unknown ids
// return All.
func NextCategory(id string) string {
	for i, c := range categories {
		if c.ID == id {
			return categories[(i+1)%len(categories)].ID
		}
	}
	return CategoryAll
}

// CategoryLabel returns the display label for a category id.
func CategoryLabel(id string) string {
	for _, c := range categories {
		if c.ID == id {
			return c.Label
		}
	}
	return strings.ToUpper(id)
}
