package flashcard

import "math/rand"

// contextualIDWindow is how many ids on each side of a card count as
// "studied around the same time".
const contextualIDWindow = 10

// fallbackTerms pads multiple-choice options when the store itself is
// too small to supply enough plausible distractors.
var fallbackTerms = []string{
	"apple", "book", "cat", "dog", "elephant",
	"flower", "guitar", "house", "computer", "phone",
	"chair", "table", "water", "coffee", "music",
	"movie", "garden", "window", "door", "street",
}

// fallbackDefinitions is the definition-side counterpart of
// fallbackTerms.
var fallbackDefinitions = []string{
	"a red fruit that grows on trees",
	"an object with pages for reading",
	"a small animal that says meow",
	"a loyal pet animal",
	"a large gray animal with a trunk",
	"a colorful plant that blooms",
	"a musical instrument with strings",
	"a building where people live",
	"a yellow fruit that monkeys like",
	"a vehicle with four wheels",
	"a device for communication",
	"a piece of furniture for sitting",
	"a liquid that falls from the sky",
	"a bright object in the sky",
	"a green plant that grows in lawns",
	"a tool for writing",
	"a container for drinking",
	"a place where people work",
	"a time when the sun sets",
	"a feeling of happiness",
}

// padAndShuffle tops candidates up from the fallback pool until count
// values are available, shuffles, and truncates to count. Values
// already present are never added twice.
func padAndShuffle(candidates []string, fallback []string, count int) []string {
	options := make([]string, 0, count)
	seen := make(map[string]struct{}, len(candidates)+count)
	for _, candidate := range candidates {
		if _, ok := seen[candidate]; ok {
			continue
		}
		seen[candidate] = struct{}{}
		options = append(options, candidate)
	}

	for _, value := range fallback {
		if len(options) >= count {
			break
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		options = append(options, value)
	}

	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	if len(options) > count {
		options = options[:count]
	}
	return options
}
