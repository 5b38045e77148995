package feed

import (
	"sort"
	"strings"
	"unicode"
)

// maxSuggestedTags caps the tags guessed for an item without categories.
const maxSuggestedTags = 2

// topicKeywords maps a tag to English and Spanish keywords. Multi-word
// keywords match as substrings of the lowered text.
var topicKeywords = []struct {
	tag      string
	keywords []string
}{
	{"ai", []string{
		"machine learning", "aprendizaje automático", "deep learning", "neural", "neuronal",
		"llm", "gpt", "transformer", "inference", "inferencia", "embedding", "modelo", "model",
	}},
	{"infra", []string{
		"kubernetes", "docker", "container", "contenedor", "cloud", "nube", "aws", "gcp", "azure",
		"terraform", "deploy", "despliegue", "cdn", "nginx", "dns", "proxy", "observability", "observabilidad",
	}},
	{"databases", []string{
		"database", "base de datos", "sql", "postgres", "postgresql", "mysql", "redis",
		"mongodb", "sqlite", "index", "índice", "query", "consulta", "schema", "esquema", "sharding",
	}},
	{"distributed", []string{
		"distributed", "distribuido", "consensus", "consenso", "raft", "microservice", "microservicio",
		"grpc", "kafka", "event driven", "idempotent", "idempotente", "replication", "replicación",
	}},
	{"security", []string{
		"security", "seguridad", "vulnerability", "vulnerabilidad", "authentication", "autenticación",
		"encryption", "cifrado", "tls", "oauth", "jwt", "xss", "csrf", "zero trust",
	}},
	{"tools", []string{
		"tooling", "herramienta", "editor", "debugger", "depurador", "profiler", "compiler", "compilador",
		"linter", "cli", "terminal", "git", "ci/cd", "pipeline",
	}},
	{"go", []string{"golang", "goroutine", "gopher"}},
}

// SuggestTags guesses topic tags from an item's title and excerpt. Title hits
// weigh double. Ties keep the table order; no hit yields no tags.
func SuggestTags(title, excerpt string) []string {
	titleTokens := tokenize(title)
	bodyTokens := tokenize(excerpt)
	titleLower := strings.ToLower(title)
	bodyLower := strings.ToLower(excerpt)

	type scored struct {
		tag   string
		score int
		order int
	}
	var hits []scored
	for i, topic := range topicKeywords {
		score := 0
		for _, kw := range topic.keywords {
			if strings.Contains(kw, " ") {
				if strings.Contains(titleLower, kw) {
					score += 2
				}
				if strings.Contains(bodyLower, kw) {
					score++
				}
				continue
			}
			score += 2 * countToken(titleTokens, kw)
			score += countToken(bodyTokens, kw)
		}
		if score > 0 {
			hits = append(hits, scored{topic.tag, score, i})
		}
	}

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].score != hits[b].score {
			return hits[a].score > hits[b].score
		}
		return hits[a].order < hits[b].order
	})

	tags := []string{}
	for _, h := range hits {
		if len(tags) == maxSuggestedTags {
			break
		}
		tags = append(tags, h.tag)
	}
	return tags
}

// countToken counts tokens equal to kw or starting with it, so plurals and
// inflections match.
func countToken(tokens []string, kw string) int {
	n := 0
	for _, t := range tokens {
		if strings.HasPrefix(t, kw) {
			n++
		}
	}
	return n
}

func tokenize(s string) []string {
	var tokens []string
	for _, word := range strings.Fields(strings.ToLower(s)) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if word != "" {
			tokens = append(tokens, word)
		}
	}
	return tokens
}
