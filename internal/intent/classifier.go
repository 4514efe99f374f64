// Package intent implements the rule-based intent classifier.
//
// Classification is data-driven: a prioritized table of regular-expression
// patterns maps free text onto a closed set of intent categories. Entity,
// keyword, and complexity extraction run independently of the category
// match. The classifier is pure and never fails — unmatched input degrades
// to a low-confidence code_generation intent.
package intent

import (
	"regexp"
	"strings"

	"github.com/dnalang/aura-orchestrator/pkg/models"
)

// patternEntry is one row of the classification table.
type patternEntry struct {
	category models.IntentCategory
	patterns []*regexp.Regexp
	priority int
}

// catalog is checked in full for every input; the highest-priority matching
// entry wins, with ties broken by registration order (strict > comparison).
var catalog = []patternEntry{
	{
		category: models.IntentQuantumExperiment,
		patterns: compile(
			`quantum\s+(experiment|test|measurement)`,
			`run\s+(?:a\s+)?quantum\s+(?:circuit|algorithm)`,
			`execute\s+on\s+(?:ibm|qpu|quantum\s+hardware)`,
			`(?:ghz|bell|vqe|qaoa|grover)\s+(?:state|algorithm)`,
			`measure\s+(?:entanglement|coherence|decoherence)`,
		),
		priority: 10,
	},
	{
		category: models.IntentQuantumCircuit,
		patterns: compile(
			`create\s+(?:a\s+)?quantum\s+circuit`,
			`build\s+(?:a\s+)?(?:qasm|quantum)\s+circuit`,
			`design\s+(?:a\s+)?quantum\s+algorithm`,
		),
		priority: 9,
	},
	{
		category: models.IntentCodeGeneration,
		patterns: compile(
			`(?:write|create|generate|build|implement)\s+(?:code|function|class|component)`,
			`create\s+(?:a\s+)?(?:api|endpoint|route|service)`,
			`implement\s+(?:a\s+)?(?:feature|functionality)`,
		),
		priority: 8,
	},
	{
		category: models.IntentCodeReview,
		patterns: compile(
			`(?:review|analyze|audit|check)\s+(?:code|implementation)`,
			`security\s+(?:review|audit|analysis)`,
			`performance\s+(?:review|analysis)`,
		),
		priority: 7,
	},
	{
		category: models.IntentDebugging,
		patterns: compile(
			`(?:debug|fix|solve|resolve)\s+(?:\w+\s+)*(?:bug|error|issue|problem)`,
			`why\s+(?:is|does|doesn't)`,
			`(?:not\s+working|failing|broken)`,
		),
		priority: 8,
	},
	{
		category: models.IntentArchitectureDesign,
		patterns: compile(
			`(?:design|architect|structure)\s+(?:a\s+)?(?:system|application|service)`,
			`microservices\s+architecture`,
			`(?:scalable|distributed)\s+system`,
		),
		priority: 7,
	},
	{
		category: models.IntentDataAnalysis,
		patterns: compile(
			`analyze\s+(?:data|metrics|results)`,
			`data\s+(?:analysis|visualization|processing)`,
			`statistical\s+(?:analysis|test)`,
		),
		priority: 6,
	},
	{
		category: models.IntentTesting,
		patterns: compile(
			`(?:write|create|generate)\s+tests`,
			`unit\s+test`,
			`integration\s+test`,
			`test\s+coverage`,
		),
		priority: 6,
	},
	{
		category: models.IntentDocumentation,
		patterns: compile(
			`(?:write|create|generate)\s+(?:documentation|docs)`,
			`document\s+(?:the\s+)?(?:code|api|system)`,
			`api\s+documentation`,
		),
		priority: 5,
	},
	{
		category: models.IntentDeployment,
		patterns: compile(
			`deploy\s+(?:to|on)`,
			`(?:kubernetes|k8s|docker)\s+deployment`,
			`ci/cd\s+pipeline`,
		),
		priority: 6,
	},
	{
		category: models.IntentResearch,
		patterns: compile(
			`research\s+(?:about|on)`,
			`investigate\s+(?:how|why|what)`,
			`explore\s+(?:options|alternatives)`,
		),
		priority: 4,
	},
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// Fixed extraction vocabularies. First match wins per field.
var (
	languageVocab  = []string{"python", "typescript", "javascript", "go", "rust", "java", "c++"}
	frameworkVocab = []string{"fastapi", "nextjs", "react", "vue", "django", "flask", "express"}
	backendVocab   = []string{"ibm_osaka", "ibm_kyoto", "ibm_torino", "ibm_brisbane"}

	stopwords = map[string]bool{
		"the": true, "a": true, "an": true, "in": true, "on": true, "at": true,
		"to": true, "for": true, "of": true, "with": true, "by": true,
	}

	complexTriggers = []string{
		"microservices", "distributed", "scalable", "high-performance",
		"real-time", "concurrent", "parallel", "optimization",
	}

	wordRe = regexp.MustCompile(`[a-z0-9_]+`)
)

const maxKeywords = 10

// Classifier maps raw text to a typed Intent. It holds no mutable state;
// construct one and share it freely.
type Classifier struct{}

// NewClassifier creates an intent classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify parses natural language input into an Intent. It always returns
// a best-effort result: if no pattern matches, the category defaults to
// code_generation at confidence 0.5.
func (c *Classifier) Classify(text string) models.Intent {
	normalized := strings.ToLower(text)

	category := models.IntentCodeGeneration
	confidence := 0.5
	best := 0

	for _, entry := range catalog {
		for _, re := range entry.patterns {
			if re.MatchString(normalized) {
				if entry.priority > best {
					best = entry.priority
					category = entry.category
					confidence = 0.85 + float64(entry.priority)/100
				}
				break
			}
		}
	}

	return models.Intent{
		Category:   category,
		Confidence: confidence,
		Entities:   extractEntities(normalized),
		Keywords:   extractKeywords(normalized),
		Complexity: assessComplexity(normalized),
	}
}

// extractEntities fills each entity field from its vocabulary by substring
// match. Fields are independent of one another.
func extractEntities(normalized string) models.Entities {
	var e models.Entities
	for _, lang := range languageVocab {
		if strings.Contains(normalized, lang) {
			e.Language = lang
			break
		}
	}
	for _, fw := range frameworkVocab {
		if strings.Contains(normalized, fw) {
			e.Framework = fw
			break
		}
	}
	for _, b := range backendVocab {
		if strings.Contains(normalized, b) {
			e.Backend = b
			break
		}
	}
	return e
}

// extractKeywords returns up to maxKeywords content words in first-occurrence
// order. Duplicates are kept; short words and stopwords are dropped.
func extractKeywords(normalized string) []string {
	words := wordRe.FindAllString(normalized, -1)
	keywords := make([]string, 0, maxKeywords)
	for _, w := range words {
		if stopwords[w] || len(w) <= 3 {
			continue
		}
		keywords = append(keywords, w)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}

// assessComplexity buckets the request: any complex trigger word or more
// than 50 words → complex; more than 20 words → moderate; else simple.
func assessComplexity(normalized string) models.Complexity {
	for _, trigger := range complexTriggers {
		if strings.Contains(normalized, trigger) {
			return models.ComplexityComplex
		}
	}
	words := len(strings.Fields(normalized))
	switch {
	case words > 50:
		return models.ComplexityComplex
	case words > 20:
		return models.ComplexityModerate
	default:
		return models.ComplexitySimple
	}
}
