package content

import (
	"math"
	"strconv"
	"strings"
)

// WordsPerMinute is the reading speed behind read-time labels.
const WordsPerMinute = 200

// EstimateReadTime counts whitespace-delimited tokens in raw (markup included)
// and returns the count with its "N min read" label.
func EstimateReadTime(raw string) (int, string) {
	words := len(strings.Fields(raw))
	return words, ReadTimeLabel(words)
}

// ReadMinutes rounds half to even and never reports less than one minute.
func ReadMinutes(wordCount int) int {
	minutes := int(math.RoundToEven(float64(wordCount) / WordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// ReadTimeLabel formats the reading time for wordCount words.
func ReadTimeLabel(wordCount int) string {
	return strconv.Itoa(ReadMinutes(wordCount)) + " min read"
}
