package diagnostics

import (
	"strings"
	"testing"
)

const validProgram = `using System;

class Program
{
    static void Main()
    {
        int x = 5;
        // a comment without a semicolon
        if (x > 3)
        {
            Console.WriteLine("big (really)");
        }
    }
}`

func TestCheckSyntax(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		valid     bool
		wantLine  int
		msgSubstr string
	}{
		{"valid program", validProgram, true, 0, ""},
		{"single statement", `Console.WriteLine("Hi");`, true, 0, ""},
		{"brackets in strings ignored", `Console.WriteLine("(");`, true, 0, ""},
		{"empty", "   ", false, 0, "No code"},
		{"single statement without semicolon", `Console.WriteLine("Hi")`, false, 1, "semicolon"},
		{"multi-line without class", "int x = 1;\nint y = 2;", false, 0, "class"},
		{"unclosed brace", "class A { static void Main() { }", false, 1, "Unclosed"},
		{"stray closer", "int x = 1;)", false, 1, "Unexpected"},
		{"javascript", "console.log('hi');", false, 0, "JavaScript"},
		{"python", "def greet():\n    return 1", false, 0, "Python"},
		{"java", `System.out.println("x");`, false, 0, "Java"},
		{"go", `fmt.Println("x");`, false, 0, "Go"},
		{"no vocabulary", "hello world;", false, 0, "No recognizable"},
		{
			"missing semicolon",
			strings.Replace(validProgram, "int x = 5;", "int x = 5", 1),
			false, 7, "Line 7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckSyntax(tt.code)
			if got.Valid != tt.valid {
				t.Fatalf("Valid = %v, want %v (message %q)", got.Valid, tt.valid, got.Message)
			}
			if tt.wantLine != 0 && got.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", got.Line, tt.wantLine)
			}
			if tt.msgSubstr != "" && !strings.Contains(got.Message, tt.msgSubstr) {
				t.Errorf("Message %q does not contain %q", got.Message, tt.msgSubstr)
			}
		})
	}
}

func TestCheckSyntax_AllmanAndFluent(t *testing.T) {
	code := `class P
{
    static void Main()
    {
        var names = new List<string>()
            .Where(n => n.Length > 2);
        switch (names.Count)
        {
            case 0:
                break;
            default:
                break;
        }
    }
}`
	if c := CheckSyntax(code); !c.Valid {
		t.Errorf("expected valid, got %q (line %d)", c.Message, c.Line)
	}
}

func TestDiagnoseSyntax(t *testing.T) {
	if r := DiagnoseSyntax(validProgram); r != nil {
		t.Errorf("valid program diagnosed: %+v", r)
	}
	r := DiagnoseSyntax("console.log(1);")
	if r == nil {
		t.Fatal("expected a result for JavaScript")
	}
	if r.Title != "C# Syntax Error" || r.Severity != SeverityCritical || r.Rule != RuleCSharpSyntax {
		t.Errorf("DiagnoseSyntax = %+v", r)
	}
}

func TestStripCommentsAndStrings(t *testing.T) {
	in := "a // b\n\"c\" /* d */ e"
	got := stripCommentsAndStrings(in)
	if strings.ContainsAny(got, "bcd") {
		t.Errorf("comment or literal survived: %q", got)
	}
	if strings.Count(got, "\n") != 1 || !strings.Contains(got, "e") {
		t.Errorf("structure lost: %q", got)
	}
}
