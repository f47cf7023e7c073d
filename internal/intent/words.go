package intent

import (
	"strconv"
	"strings"
	"unicode"
)

var digitWords = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
}

var compoundWords = map[string]int{
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
	"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

var scaleWords = map[string]int{
	"thousand": 1_000,
	"million":  1_000_000,
}

// WordsToNumber reads spelled-out numbers from text, ignoring other words.
// A run of single digit words is read digit by digit ("nine eight seven"
// is "987", leading zeros kept). Anything with tens, hundreds or scales
// is summed the usual way ("four thousand two hundred" is "4200").
func WordsToNumber(text string) (string, bool) {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	var numeric []string
	digitsOnly := true
	for _, tok := range tokens {
		_, isDigit := digitWords[tok]
		_, isCompound := compoundWords[tok]
		_, isScale := scaleWords[tok]
		if tok == "hundred" {
			isScale = true
		}
		if !isDigit && !isCompound && !isScale {
			continue
		}
		if !isDigit {
			digitsOnly = false
		}
		numeric = append(numeric, tok)
	}
	if len(numeric) == 0 {
		return "", false
	}

	if digitsOnly {
		var sb strings.Builder
		for _, tok := range numeric {
			sb.WriteString(strconv.Itoa(digitWords[tok]))
		}
		return sb.String(), true
	}

	total, current := 0, 0
	for _, tok := range numeric {
		switch {
		case tok == "hundred":
			if current == 0 {
				current = 1
			}
			current *= 100
		case scaleWords[tok] > 0:
			if current == 0 {
				current = 1
			}
			total += current * scaleWords[tok]
			current = 0
		default:
			if v, ok := digitWords[tok]; ok {
				current += v
			} else {
				current += compoundWords[tok]
			}
		}
	}
	return strconv.Itoa(total + current), true
}
