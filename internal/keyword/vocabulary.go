package keyword

import "github.com/bainum-project/talkscore/internal/model"

// Curated vocabulary per category. Single words match on word
// boundaries; multi-word phrases match as a whole phrase with flexible
// whitespace. The lists come from the coding scheme the program's
// assessors used when scoring transcripts by hand.
var vocabulary = map[model.Category][]string{
	model.CategoryScience: {
		"experiment", "observe", "observation", "hypothesis", "measure",
		"plant", "animal", "insect", "seed", "soil", "water", "sunlight",
		"grow", "grew", "growing", "weather", "rain", "cloud", "magnet",
		"float", "sink", "melt", "freeze", "mix", "nature", "rock",
		"life cycle", "living thing", "what happens if",
	},
	model.CategorySocial: {
		"friend", "share", "sharing", "take turns", "together", "help",
		"helping", "kind", "feelings", "happy", "sad", "angry", "sorry",
		"please", "thank you", "listen", "cooperate", "team", "group",
		"play together", "how do you feel", "use your words",
	},
	model.CategoryLiterature: {
		"story", "book", "read", "reading", "character", "author",
		"illustrator", "title", "page", "chapter", "beginning", "middle",
		"end", "pretend", "imagine", "fairy tale", "rhyme", "poem",
		"once upon a time", "what happened next", "the end",
	},
	model.CategoryLanguage: {
		"word", "letter", "sound", "say", "tell", "name", "describe",
		"sentence", "question", "answer", "repeat", "vocabulary",
		"alphabet", "spell", "write", "talk about", "use your voice",
		"what does that mean", "can you say",
	},
}
