package calibration

import "time"

// DefaultTimeLimit applies to questions that do not set their own limit.
const DefaultTimeLimit = 20 * time.Second

var defaultBank = []Question{
	{
		ID:           "loop-output",
		Category:     CategoryLogic,
		Prompt:       "What does this loop print?",
		Code:         "for (int i = 0; i < 3; i++)\n    Console.Write(i);",
		Options:      []string{"123", "012", "0123", "321"},
		CorrectIndex: 1,
		TimeLimit:    30 * time.Second,
	},
	{
		ID:           "branch-value",
		Category:     CategoryLogic,
		Prompt:       "Which value does x hold after this runs?",
		Code:         "int x = 5;\nif (x > 3) x = x * 2;\nelse x = 0;",
		Options:      []string{"5", "10", "0", "8"},
		CorrectIndex: 1,
		TimeLimit:    30 * time.Second,
	},
	{
		ID:       "string-declaration",
		Category: CategorySyntax,
		Prompt:   "Which line declares a string correctly in C#?",
		Options: []string{
			"string name = 'Ada';",
			"String name := \"Ada\";",
			"string name = \"Ada\";",
			"name string = \"Ada\";",
		},
		CorrectIndex: 2,
	},
	{
		ID:       "console-output",
		Category: CategorySyntax,
		Prompt:   "Which call writes a line to the console in C#?",
		Options: []string{
			"Console.WriteLine(\"Hi\");",
			"console.log(\"Hi\");",
			"print(\"Hi\")",
			"System.out.println(\"Hi\");",
		},
		CorrectIndex: 0,
	},
	{
		ID:           "modulo",
		Category:     CategoryLogic,
		Prompt:       "What is the result of 7 % 3?",
		Options:      []string{"2", "1", "3", "0"},
		CorrectIndex: 1,
	},
	{
		ID:       "keyed-lookup",
		Category: CategoryOptimization,
		Prompt:   "Which collection gives the fastest lookup by key?",
		Options: []string{
			"Dictionary<TKey, TValue>",
			"List<T>",
			"An array scanned in a loop",
			"LinkedList<T>",
		},
		CorrectIndex: 0,
	},
	{
		ID:           "binary-search",
		Category:     CategoryOptimization,
		Prompt:       "What is the time complexity of binary search on a sorted array?",
		Options:      []string{"O(n)", "O(log n)", "O(n log n)", "O(1)"},
		CorrectIndex: 1,
	},
	{
		ID:           "boolean-logic",
		Category:     CategoryLogic,
		Prompt:       "What does this expression evaluate to?",
		Code:         "!(true && false)",
		Options:      []string{"true", "false", "null", "It does not compile"},
		CorrectIndex: 0,
	},
	{
		ID:           "return-keyword",
		Category:     CategorySyntax,
		Prompt:       "Which keyword ends a method early and hands back a value?",
		Options:      []string{"break", "return", "exit", "yield"},
		CorrectIndex: 1,
	},
	{
		ID:       "string-building",
		Category: CategoryOptimization,
		Prompt:   "Building a long string inside a loop is most efficient with:",
		Options: []string{
			"+= on a string",
			"StringBuilder",
			"string.Format on every pass",
			"Concatenating char arrays",
		},
		CorrectIndex: 1,
		TimeLimit:    25 * time.Second,
	},
}

// DefaultBank returns the built-in calibration questions. The returned
// slice is a copy; callers may reorder it freely.
func DefaultBank() []Question {
	out := make([]Question, len(defaultBank))
	for i, q := range defaultBank {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}
