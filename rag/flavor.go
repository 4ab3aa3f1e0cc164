package rag

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

var noAnswerLines = []string{
	"🤔 I searched far and wide, but found nothing. Maybe it's time to check under the couch cushions.",
	"😕 I couldn't find anything in the docs. Did you feed me the right files? 🗂️",
	"📜 My scroll of wisdom is blank for this one. Ask me something else, oh wise one.",
	"🤷 Even my crystal ball can't see it. Try asking in a different way?",
	"🚀 Blast! I couldn't find anything in the data. Maybe try another question?",
	"🤓 I tried so hard, but even the nerdy part of me couldn't figure it out. Ask again, I dare you!",
	"📡 No signal. Are we on the same planet? I couldn't find anything relevant to that.",
	"🕵️ My detective goggles found no clues. Are you sure that's in the files I was given?",
}

var answerFramings = []string{
	"🤔 Here's a thoughtful nugget from the docs: %s",
	"📜 Behold! A scroll of knowledge: %s",
	"🤓 Did you know? I found this in the docs: %s",
	"🕵️ Detective GPT says: %s",
	"🎉 Big reveal incoming! Here's what I discovered: %s",
	"👀 Peep this wisdom straight from the docs: %s",
	"💡 Here's a lightbulb moment for ya: %s",
	"🍕 Just like a pizza, this response is fresh: %s",
	"🧠 Brainy bot says: %s",
	"✨ Drum roll, please... Here it is: %s",
}

// Flavor wraps an answer in a playful framing. Blank answers get a
// "nothing found" line instead.
func Flavor(response string) string {
	if strings.TrimSpace(response) == "" {
		return noAnswerLines[rand.IntN(len(noAnswerLines))]
	}
	return fmt.Sprintf(answerFramings[rand.IntN(len(answerFramings))], response)
}
