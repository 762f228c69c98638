package diagnostics

// typos maps common lowercased misspellings to the intended keyword.
var typos = map[string]string{
	"fucntion":  "function",
	"functoin":  "function",
	"funtion":   "function",
	"retrun":    "return",
	"reutrn":    "return",
	"retun":     "return",
	"lenght":    "length",
	"legnth":    "length",
	"consle":    "console",
	"cosole":    "console",
	"conosle":   "console",
	"sytem":     "system",
	"wirteline": "writeline",
	"writline":  "writeline",
	"pritn":     "print",
	"whiel":     "while",
	"wihle":     "while",
	"esle":      "else",
	"eles":      "else",
	"swtich":    "switch",
	"cosnt":     "const",
	"pubilc":    "public",
	"publc":     "public",
	"statci":    "static",
	"viod":      "void",
	"stirng":    "string",
	"strign":    "string",
	"treu":      "true",
	"flase":     "false",
	"foreahc":   "foreach",
	"calss":     "class",
	"clas":      "class",
}

// Typos returns a copy of the misspelling table.
func Typos() map[string]string {
	out := make(map[string]string, len(typos))
	for k, v := range typos {
		out[k] = v
	}
	return out
}
