package matching

import "strings"

// skillAliases maps common skill spellings to a canonical lowercase form
// so overlap comparison is not defeated by naming variants.
var skillAliases = map[string]string{
	"golang":                "go",
	"go lang":               "go",
	"js":                    "javascript",
	"ts":                    "typescript",
	"node":                  "node.js",
	"nodejs":                "node.js",
	"node js":               "node.js",
	"react.js":              "react",
	"reactjs":               "react",
	"vue.js":                "vue",
	"vuejs":                 "vue",
	"postgres":              "postgresql",
	"postgre":               "postgresql",
	"k8s":                   "kubernetes",
	"aws":                   "amazon web services",
	"gcp":                   "google cloud",
	"google cloud platform": "google cloud",
	"ci/cd":                 "cicd",
	"ci cd":                 "cicd",
	"ml":                    "machine learning",
	"ai":                    "artificial intelligence",
	"restful":               "rest",
	"rest api":              "rest",
	"rest apis":             "rest",
	"c sharp":               "c#",
	"csharp":                "c#",
	"dotnet":                ".net",
	".net core":             ".net",
}

// NormalizeSkill lowercases a skill name and resolves known aliases.
func NormalizeSkill(skill string) string {
	normalized := strings.ToLower(strings.TrimSpace(skill))
	normalized = strings.Trim(normalized, ".,;")
	if canonical, ok := skillAliases[normalized]; ok {
		return canonical
	}
	return normalized
}

// normalizeSkillSet builds a set of normalized skills from multiple lists.
func normalizeSkillSet(lists ...[]string) map[string]bool {
	set := make(map[string]bool)
	for _, list := range lists {
		for _, skill := range list {
			if n := NormalizeSkill(skill); n != "" {
				set[n] = true
			}
		}
	}
	return set
}
