package model

import "github.com/gosimple/slug"

// DefaultChallenges is the compiled-in challenge set. The catalog merge
// guarantees each of these ids is always available, even when the
// persisted list was seeded by an older build with fewer entries.
func DefaultChallenges() []Challenge {
	challenges := []Challenge{
		{
			ID:           1,
			Title:        "Sum of Two Numbers",
			Difficulty:   DifficultyEasy,
			Category:     "Math",
			Score:        10,
			SuccessRate:  "92%",
			Description:  "Read two integers and print their sum.",
			InputFormat:  "A single line containing two space-separated integers a and b.",
			OutputFormat: "A single integer, the sum a + b.",
			Constraints:  "-10^9 <= a, b <= 10^9",
			Boilerplate:  "#include <iostream>\n\nint main() {\n    // your code here\n    return 0;\n}\n",
			TestCases:    []TestCase{
				{Input: "2 3", ExpectedOutput: "5", Locked: true},
				{Input: "-7 7", ExpectedOutput: "0", Locked: true},
				{Input: "1000000000 1000000000", ExpectedOutput: "2000000000"},
			},
		},
		{
			ID:           2,
			Title:        "Reverse a String",
			Difficulty:   DifficultyEasy,
			Category:     "Strings",
			Score:        10,
			SuccessRate:  "88%",
			Description:  "Read a single word and print it reversed.",
			InputFormat:  "One line containing a word without spaces.",
			OutputFormat: "The word with its characters in reverse order.",
			Constraints:  "1 <= length <= 10^5",
			TestCases:    []TestCase{
				{Input: "hello", ExpectedOutput: "olleh", Locked: true},
				{Input: "a", ExpectedOutput: "a"},
				{Input: "racecar", ExpectedOutput: "racecar"},
			},
		},
		{
			ID:           3,
			Title:        "Fibonacci Number",
			Difficulty:   DifficultyMedium,
			Category:     "Dynamic Programming",
			Score:        20,
			SuccessRate:  "71%",
			Description:  "Read n and print the n-th Fibonacci number, with F(0) = 0 and F(1) = 1.",
			InputFormat:  "A single integer n.",
			OutputFormat: "The n-th Fibonacci number.",
			Constraints:  "0 <= n <= 90",
			TestCases:    []TestCase{
				{Input: "0", ExpectedOutput: "0", Locked: true},
				{Input: "10", ExpectedOutput: "55", Locked: true},
				{Input: "50", ExpectedOutput: "12586269025"},
			},
		},
		{
			ID:           4,
			Title:        "C++ Vectors: Running Sum",
			Difficulty:   DifficultyEasy,
			Category:     "C++ Basics",
			Score:        15,
			SuccessRate:  "83%",
			Description:  "Read n integers into a vector and print the running sum after each element.",
			InputFormat:  "The first line contains n. The second line contains n space-separated integers.",
			OutputFormat: "n space-separated integers, the prefix sums.",
			Constraints:  "1 <= n <= 10^4",
			Boilerplate:  "#include <iostream>\n#include <vector>\n\nint main() {\n    // your code here\n    return 0;\n}\n",
			TestCases:    []TestCase{
				{Input: "4\n1 2 3 4", ExpectedOutput: "1 3 6 10", Locked: true},
				{Input: "1\n5", ExpectedOutput: "5"},
			},
		},
		{
			ID:           5,
			Title:        "C++ Pointers: Swap Two Values",
			Difficulty:   DifficultyMedium,
			Category:     "C++ Basics",
			Score:        20,
			SuccessRate:  "64%",
			Description:  "Implement swap using pointers. Read two integers, swap them through a function taking int pointers, and print the result.",
			InputFormat:  "A single line with two integers.",
			OutputFormat: "The two integers in swapped order, space-separated.",
			Constraints:  "-10^9 <= a, b <= 10^9",
			Boilerplate:  "#include <iostream>\n\nvoid swapValues(int* a, int* b) {\n    // your code here\n}\n\nint main() {\n    return 0;\n}\n",
			TestCases:    []TestCase{
				{Input: "1 2", ExpectedOutput: "2 1", Locked: true},
				{Input: "-5 9", ExpectedOutput: "9 -5"},
			},
		},
		{
			ID:           6,
			Title:        "Balanced Brackets",
			Difficulty:   DifficultyHard,
			Category:     "Stacks",
			Score:        30,
			SuccessRate:  "47%",
			Description:  "Given a string of brackets ()[]{}, print YES if it is balanced and NO otherwise.",
			InputFormat:  "One line containing only bracket characters.",
			OutputFormat: "YES or NO.",
			Constraints:  "1 <= length <= 10^5",
			TestCases:    []TestCase{
				{Input: "([]{})", ExpectedOutput: "YES", Locked: true},
				{Input: "([)]", ExpectedOutput: "NO", Locked: true},
				{Input: "{", ExpectedOutput: "NO"},
			},
		},
	}
	for i := range challenges {
		challenges[i].Slug = slug.Make(challenges[i].Title)
	}
	return challenges
}
