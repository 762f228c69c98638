package challenges

import (
	"fmt"

	"github.com/abhisek/syncrate/internal/calibration"
	"github.com/abhisek/syncrate/internal/diagnostics"
)

// Difficulty is a coarse label shown next to each challenge.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Challenge is one coding exercise.
type Challenge struct {
	ID             string
	Title          string
	Category       calibration.Category
	Difficulty     Difficulty
	Prompt         string
	Starter        string
	Expected       diagnostics.Pattern
	RequiredTokens []string
	XP             int
}

// StarterProgram is the empty C# program every challenge starts from.
const StarterProgram = `using System;

class Program
{
    static void Main()
    {
        // Write your code here
    }
}`

var catalog = []Challenge{
	{
		ID:             "hello-world",
		Title:          "Hello, World",
		Category:       calibration.CategorySyntax,
		Difficulty:     Easy,
		Prompt:         `Print the text "Hello, World!" to the console.`,
		RequiredTokens: []string{"Console.WriteLine", "Hello, World!"},
		XP:             10,
	},
	{
		ID:             "countdown",
		Title:          "Countdown",
		Category:       calibration.CategoryLogic,
		Difficulty:     Easy,
		Prompt:         "Print the numbers 10 down to 1, one per line.",
		Expected:       diagnostics.PatternLoop,
		RequiredTokens: []string{"Console.WriteLine"},
		XP:             20,
	},
	{
		ID:             "sum-to-ten",
		Title:          "Sum to Ten",
		Category:       calibration.CategoryLogic,
		Difficulty:     Easy,
		Prompt:         "Add up the numbers 1 through 10 and print the total.",
		Expected:       diagnostics.PatternLoop,
		RequiredTokens: []string{"+="},
		XP:             25,
	},
	{
		ID:             "even-or-odd",
		Title:          "Even or Odd",
		Category:       calibration.CategoryLogic,
		Difficulty:     Easy,
		Prompt:         `Given int n = 7, print "even" or "odd".`,
		Expected:       diagnostics.PatternCondition,
		RequiredTokens: []string{"%"},
		XP:             25,
	},
	{
		ID:             "grade-letter",
		Title:          "Letter Grade",
		Category:       calibration.CategorySyntax,
		Difficulty:     Medium,
		Prompt:         "Given int score = 83, print A for 90+, B for 80+, C for 70+ and F otherwise.",
		Expected:       diagnostics.PatternCondition,
		RequiredTokens: []string{"else"},
		XP:             30,
	},
	{
		ID:             "max-of-array",
		Title:          "Largest Number",
		Category:       calibration.CategoryOptimization,
		Difficulty:     Medium,
		Prompt:         "Find the largest value in int[] nums = { 4, 19, 7, 12 } in a single pass and print it.",
		Expected:       diagnostics.PatternLoop,
		RequiredTokens: []string{"nums"},
		XP:             40,
	},
	{
		ID:             "reverse-string",
		Title:          "Reverse a String",
		Category:       calibration.CategorySyntax,
		Difficulty:     Medium,
		Prompt:         `Print the string "syncrate" reversed, walking it from the last character.`,
		Expected:       diagnostics.PatternLoop,
		RequiredTokens: []string{"Length"},
		XP:             40,
	},
	{
		ID:             "fizzbuzz",
		Title:          "FizzBuzz",
		Category:       calibration.CategoryLogic,
		Difficulty:     Hard,
		Prompt:         "For 1 to 15 print Fizz for multiples of 3, Buzz for multiples of 5, FizzBuzz for both, else the number.",
		Expected:       diagnostics.PatternLoop,
		RequiredTokens: []string{"%", "FizzBuzz"},
		XP:             50,
	},
	{
		ID:             "join-words",
		Title:          "Join Words",
		Category:       calibration.CategoryOptimization,
		Difficulty:     Hard,
		Prompt:         `Join the words "sync", "rate", "go" with dashes using a StringBuilder instead of repeated string concatenation.`,
		Expected:       diagnostics.PatternLoop,
		RequiredTokens: []string{"StringBuilder"},
		XP:             50,
	},
}

// Catalog returns every challenge in display order. The returned slice is
// a copy.
func Catalog() []Challenge {
	out := make([]Challenge, len(catalog))
	for i, ch := range catalog {
		out[i] = ch.clone()
	}
	return out
}

// Get looks a challenge up by ID.
func Get(id string) (Challenge, error) {
	for _, ch := range catalog {
		if ch.ID == id {
			return ch.clone(), nil
		}
	}
	return Challenge{}, fmt.Errorf("challenge %q not found", id)
}

// IDs returns every challenge ID in display order.
func IDs() []string {
	ids := make([]string, len(catalog))
	for i, ch := range catalog {
		ids[i] = ch.ID
	}
	return ids
}

// StarterCode returns the code the editor opens with.
func (c Challenge) StarterCode() string {
	if c.Starter != "" {
		return c.Starter
	}
	return StarterProgram
}

func (c Challenge) clone() Challenge {
	c.RequiredTokens = append([]string(nil), c.RequiredTokens...)
	return c
}
