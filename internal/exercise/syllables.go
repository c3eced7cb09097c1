package exercise

import "strings"

// CountSyllables estimates English syllables by counting vowel groups, with
// the usual adjustments for a silent trailing "e" and "-le" endings. Each
// space-separated part counts at least one.
func CountSyllables(word string) int {
	total := 0
	for _, part := range strings.Fields(strings.ToLower(word)) {
		total += countPart(part)
	}
	return total
}

func countPart(w string) int {
	runes := []rune(w)
	count := 0
	prevVowel := false
	for i, r := range runes {
		v := isVowel(r) || (r == 'y' && i > 0)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}

	n := len(runes)
	if n > 2 && runes[n-1] == 'e' && !isVowel(runes[n-2]) && count > 1 {
		// "table", "little": the "-le" keeps its syllable.
		if !(runes[n-2] == 'l' && !isVowel(runes[n-3])) {
			count--
		}
	}
	if n > 3 && strings.HasSuffix(w, "ed") && !strings.HasSuffix(w, "ted") && !strings.HasSuffix(w, "ded") && count > 1 && !isVowel(runes[n-3]) {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}
