package discovery

import "strings"

// ParseRequirements extracts name/version pairs from a requirements
// file. Pinned (==) and minimum (>=) constraints keep their versions;
// anything else is recorded as unpinned.
func ParseRequirements(content string) map[string]string {
	deps := make(map[string]string)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case strings.Contains(line, "=="):
			parts := strings.SplitN(line, "==", 2)
			deps[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		case strings.Contains(line, ">="):
			parts := strings.SplitN(line, ">=", 2)
			deps[strings.TrimSpace(parts[0])] = ">=" + strings.TrimSpace(parts[1])
		default:
			deps[line] = "unpinned"
		}
	}
	return deps
}

var frameworkIndicators = map[string][]string{
	"openai":       {"openai"},
	"langchain":    {"langchain", "langchain-community", "langchain-openai"},
	"nebius":       {"nebius"},
	"crewai":       {"crewai"},
	"agno":         {"agno"},
	"llamaindex":   {"llama-index", "llamaindex"},
	"transformers": {"transformers"},
	"tensorflow":   {"tensorflow"},
	"pytorch":      {"torch", "pytorch"},
}

// frameworkOrder keeps detection output stable for display and tests.
var frameworkOrder = []string{
	"openai", "langchain", "nebius", "crewai", "agno",
	"llamaindex", "transformers", "tensorflow", "pytorch",
}

// DetectFrameworks reports which AI frameworks a requirements file
// pulls in, by indicator substring.
func DetectFrameworks(content string) []string {
	lower := strings.ToLower(content)
	var found []string
	for _, fw := range frameworkOrder {
		for _, indicator := range frameworkIndicators[fw] {
			if strings.Contains(lower, indicator) {
				found = append(found, fw)
				break
			}
		}
	}
	return found
}
