package topic

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Label identifies one of the farming topics the offline assistant knows about.
type Label string

const (
	None      Label = "none"
	Weather   Label = "weather"
	Crop      Label = "crop"
	Pest      Label = "pest"
	Soil      Label = "soil"
	Livestock Label = "livestock"
)

// Priority is the order in which topics are tested; the first match wins.
var Priority = []Label{Weather, Crop, Pest, Soil, Livestock}

var keywordBuckets = map[Label][]string{
	Weather: {
		"weather", "rain", "forecast", "temperature", "drought",
		"frost", "storm", "climate", "humidity", "monsoon", "sunny",
	},
	Crop: {
		"crop", "plant", "seed", "harvest", "wheat", "rice", "corn", "maize",
		"grow", "yield", "paddy", "vegetable", "sowing",
	},
	Pest: {
		"pest", "insect", "bug", "aphid", "locust", "caterpillar", "beetle",
		"mite", "weevil", "infestation", "worm",
	},
	Soil: {
		"soil", "fertilizer", "fertiliser", "compost", "manure", "nitrogen",
		"nutrient", "erosion", "mulch", "ph level",
	},
	Livestock: {
		"livestock", "cattle", "cow", "chicken", "poultry", "goat", "sheep",
		"pig", "animal", "sick", "dairy", "buffalo", "vet",
	},
}

var replies = map[Label]string{
	Weather: "Weather plays a crucial role in farming. I recommend checking your local forecast every day and planning field work around it. " +
		"Watch for frost warnings during cold months, protect seedlings from heavy rain, and schedule irrigation during dry spells. " +
		"A simple rain gauge and thermometer on the farm will help you keep your own records.",
	Crop: "For healthy crops, start with quality seed suited to your region and season. " +
		"Rotate crops between seasons to break disease cycles, keep proper spacing between plants, and water consistently at the roots. " +
		"Harvest at the right maturity for the best yield. Tell me which crop you are growing and I can share more specific advice.",
	Pest: "Integrated pest management works best: scout your fields regularly, identify the pest before treating, and encourage natural predators such as ladybugs and birds. " +
		"Remove infested plant material, use traps where possible, and apply pesticides only as a last resort, following the label carefully.",
	Soil: "Healthy soil is the foundation of a productive farm. Test your soil every couple of years to know its pH and nutrient levels. " +
		"Add compost or well-rotted manure to build organic matter, use mulch to hold moisture and reduce erosion, and apply fertilizer based on the test results rather than by guesswork.",
	Livestock: "Good livestock care starts with clean water, balanced feed, and dry, well-ventilated shelter. " +
		"Isolate any animal that looks sick, watch for changes in appetite, droppings, or behaviour, and contact a veterinarian early. " +
		"Keep vaccinations and deworming on schedule and keep housing clean to prevent disease spreading through the herd or flock.",
	None: "That's a great question! I can help with crops, livestock, weather, pests, and soil. " +
		"Could you tell me a bit more about what you'd like to know so I can give you the most useful advice?",
}

// Classifier matches user text against the topic keyword sets with a single Aho-Corasick pass.
type Classifier struct {
	matcher *goahocorasick.Machine
	owners  map[string]Label
	rank    map[Label]int
}

// NewClassifier builds the automaton over every keyword of every topic.
func NewClassifier() (*Classifier, error) {
	owners := make(map[string]Label)
	words := make([]string, 0, 64)
	for _, label := range Priority {
		for _, word := range keywordBuckets[label] {
			word = strings.ToLower(word)
			if prev, ok := owners[word]; ok {
				return nil, fmt.Errorf("keyword %q listed under both %s and %s", word, prev, label)
			}
			owners[word] = label
			words = append(words, word)
		}
	}
	slices.Sort(words)

	patterns := make([][]rune, len(words))
	for i, word := range words {
		patterns[i] = []rune(word)
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, fmt.Errorf("build keyword matcher: %w", err)
	}

	rank := make(map[Label]int, len(Priority))
	for i, label := range Priority {
		rank[label] = i
	}

	return &Classifier{matcher: m, owners: owners, rank: rank}, nil
}

// Classify returns the highest-priority topic whose keywords appear in text, or None.
// A keyword only counts when it starts a word, so "rain" matches "rainy" but not "grain".
func (c *Classifier) Classify(text string) Label {
	normalized := []rune(strings.ToLower(text))
	if len(normalized) == 0 {
		return None
	}

	best := None
	bestRank := len(Priority)
	for _, term := range c.matcher.MultiPatternSearch(normalized, false) {
		if !startsWord(normalized, term.Pos) {
			continue
		}
		label, ok := c.owners[string(term.Word)]
		if !ok {
			continue
		}
		if r := c.rank[label]; r < bestRank {
			best, bestRank = label, r
		}
	}
	return best
}

func startsWord(text []rune, pos int) bool {
	if pos <= 0 {
		return pos == 0
	}
	prev := text[pos-1]
	return !unicode.IsLetter(prev) && !unicode.IsDigit(prev)
}

// Reply returns the canned paragraph for a topic.
func Reply(label Label) string {
	if text, ok := replies[label]; ok {
		return text
	}
	return replies[None]
}

// Keywords returns a copy of the keyword set for a topic.
func Keywords(label Label) []string {
	return append([]string(nil), keywordBuckets[label]...)
}
