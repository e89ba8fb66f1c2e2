package schedule

// Registry - реестр студентов: номер -> ровно одна запись.
// Порядок обхода совпадает с порядком первой вставки; повторная вставка того
// же номера заменяет запись, но сохраняет её место.
type Registry struct {
	order  []string
	byRoll map[string]*StudentRecord
}

// NewRegistry создаёт пустой реестр.
func NewRegistry() *Registry {
	return &Registry{
		byRoll: make(map[string]*StudentRecord),
	}
}

// Put вставляет запись и возвращает true, если номер уже был в реестре.
func (r *Registry) Put(rec *StudentRecord) bool {
	if rec.Theory == nil {
		rec.Theory = []TheoryEntry{}
	}
	if rec.Practical == nil {
		rec.Practical = []PracticalEntry{}
	}

	key := rec.RollNo.String()
	_, exists := r.byRoll[key]
	if !exists {
		r.order = append(r.order, key)
	}
	r.byRoll[key] = rec
	return exists
}

// Get возвращает запись по номеру.
func (r *Registry) Get(rollNo string) (*StudentRecord, bool) {
	rec, ok := r.byRoll[rollNo]
	return rec, ok
}

// Len возвращает число студентов.
func (r *Registry) Len() int {
	return len(r.order)
}

// Each обходит записи в порядке реестра.
func (r *Registry) Each(fn func(*StudentRecord)) {
	for _, key := range r.order {
		fn(r.byRoll[key])
	}
}

// Records возвращает записи в порядке реестра (номера-ключи отбрасываются).
func (r *Registry) Records() []*StudentRecord {
	out := make([]*StudentRecord, 0, len(r.order))
	r.Each(func(rec *StudentRecord) {
		out = append(out, rec)
	})
	return out
}

// Totals возвращает общее число экзаменов по теории и практике.
func (r *Registry) Totals() (theory, practical int) {
	r.Each(func(rec *StudentRecord) {
		theory += len(rec.Theory)
		practical += len(rec.Practical)
	})
	return theory, practical
}

// NameIndex находит студента по нормализованному имени. При совпадении имён
// выигрывает первая запись в порядке реестра.
type NameIndex struct {
	byName map[string]*StudentRecord
}

// NewNameIndex строит индекс по текущему состоянию реестра.
func NewNameIndex(reg *Registry) *NameIndex {
	return IndexNames(reg.Records())
}

// IndexNames строит индекс по срезу записей, в том числе с повторяющимися
// номерами (артефакт, отредактированный вручную).
func IndexNames(records []*StudentRecord) *NameIndex {
	idx := &NameIndex{byName: make(map[string]*StudentRecord, len(records))}
	for _, rec := range records {
		key := NormalizeName(rec.Name)
		if _, taken := idx.byName[key]; !taken {
			idx.byName[key] = rec
		}
	}
	return idx
}

// Lookup ищет студента по имени из ячейки сетки.
func (idx *NameIndex) Lookup(name string) (*StudentRecord, bool) {
	rec, ok := idx.byName[NormalizeName(name)]
	return rec, ok
}

// ReportDuplicateRolls отмечает в диагностике каждую запись, номер которой уже
// встречался выше в records, и возвращает их число. Записи не удаляются.
func ReportDuplicateRolls(records []*StudentRecord, diags *Diagnostics) int {
	seen := make(map[string]int, len(records))
	dups := 0
	for i, rec := range records {
		key := rec.RollNo.String()
		if first, ok := seen[key]; ok {
			dups++
			diags.Add(DiagDuplicateRoll, SourceArtifact, i+1, key,
				"repeats record %d; both are kept", first)
			continue
		}
		seen[key] = i + 1
	}
	return dups
}
