package query

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEARCH STUDENTS QUERY
// Поиск по подстроке имени (без учёта регистра) или номера студента.
// ══════════════════════════════════════════════════════════════════════════════

// MinQueryLength is the shortest query that is searched at all.
const MinQueryLength = 2

// SearchStudentsQuery contains the search parameters.
type SearchStudentsQuery struct {
	Query string

	// Limit - максимальное количество результатов (0 = по умолчанию).
	Limit int
}

// SearchStudentsResult contains matching students in artifact order.
type SearchStudentsResult struct {
	Query    string        `json:"query"`
	Students []StudentView `json:"students"`
	// Total counts all matches, not only the returned ones.
	Total   int    `json:"total"`
	Limit   int    `json:"limit"`
	Version string `json:"version"`
	Cached  bool   `json:"-"`
}

// SearchStudentsHandler handles SearchStudentsQuery.
type SearchStudentsHandler struct {
	data         *Dataset
	cache        ResponseCache
	defaultLimit int
	maxLimit     int
}

// NewSearchStudentsHandler creates a handler. cache may be nil.
func NewSearchStudentsHandler(data *Dataset, cache ResponseCache, defaultLimit, maxLimit int) *SearchStudentsHandler {
	if defaultLimit <= 0 {
		defaultLimit = 5
	}
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}
	return &SearchStudentsHandler{
		data:         data,
		cache:        cache,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// Handle executes the search. Cache failures fall back to a direct scan.
func (h *SearchStudentsHandler) Handle(ctx context.Context, q SearchStudentsQuery) (*SearchStudentsResult, error) {
	term := strings.TrimSpace(q.Query)
	limit := h.clampLimit(q.Limit)

	result := &SearchStudentsResult{
		Query:    term,
		Students: []StudentView{},
		Limit:    limit,
		Version:  h.data.Version(),
	}
	if utf8.RuneCountInString(term) < MinQueryLength {
		return result, nil
	}

	key := fmt.Sprintf("search:%s:%d:%s", h.data.Version(), limit, strings.ToLower(term))
	if h.cache != nil {
		var cached SearchStudentsResult
		if hit, err := h.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			// Ключ регистронезависим; запрос возвращаем в виде вызывающего.
			cached.Query = term
			cached.Cached = true
			return &cached, nil
		}
	}

	for _, rec := range h.data.Records() {
		if !rec.MatchesQuery(term) {
			continue
		}
		result.Total++
		if len(result.Students) < limit {
			result.Students = append(result.Students, NewStudentView(rec))
		}
	}

	if h.cache != nil {
		_ = h.cache.SetJSON(ctx, key, result)
	}
	return result, nil
}

func (h *SearchStudentsHandler) clampLimit(n int) int {
	switch {
	case n <= 0:
		return h.defaultLimit
	case n > h.maxLimit:
		return h.maxLimit
	default:
		return n
	}
}
