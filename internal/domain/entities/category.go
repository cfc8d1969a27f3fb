package entities

// categories is the fixed registry of allowed agent categories. It is
// process-wide constant data; Categories returns a copy so callers
// cannot mutate the registry.
var categories = []string{
	"Code Generation",
	"Debugging",
	"Refactoring",
	"Testing",
	"Documentation",
	"DevOps",
	"Database",
	"Security",
	"Performance",
	"UI/UX",
	"API Development",
	"Data Analysis",
	"Machine Learning",
	"Other",
}

func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

func IsCategory(name string) bool {
	for _, c := range categories {
		if c == name {
			return true
		}
	}
	return false
}
