package schedule

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/alem-hub/exam-schedule-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// RollNumber - номер студента. Значения не помещаются в int64, поэтому
// сравнение идёт только через big.Int.
type RollNumber struct {
	raw string
	n   *big.Int
}

// NewRollNumber создаёт номер из строки реестра. Нечисловой номер допустим:
// запись сохраняется, но не участвует в сравнении диапазонов.
func NewRollNumber(s string) RollNumber {
	s = strings.TrimSpace(s)
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return RollNumber{raw: s}
	}
	return RollNumber{raw: s, n: n}
}

// ParseRollNumber разбирает номер и возвращает ошибку для нечисловых значений.
func ParseRollNumber(s string) (RollNumber, error) {
	r := NewRollNumber(s)
	if !r.IsNumeric() {
		return RollNumber{}, shared.ErrInvalidRollNumber.Wrap(fmt.Errorf("value %q", s))
	}
	return r, nil
}

// String возвращает номер в исходном виде.
func (r RollNumber) String() string {
	return r.raw
}

// IsNumeric сообщает, удалось ли разобрать номер как целое число.
func (r RollNumber) IsNumeric() bool {
	return r.n != nil
}

// Cmp сравнивает два числовых номера. Нечисловые номера считаются меньше любых числовых.
func (r RollNumber) Cmp(other RollNumber) int {
	switch {
	case r.n == nil && other.n == nil:
		return strings.Compare(r.raw, other.raw)
	case r.n == nil:
		return -1
	case other.n == nil:
		return 1
	}
	return r.n.Cmp(other.n)
}

// RollPart - одна часть поля "Roll Number" в расписании теории:
// либо одиночный номер (Start == End), либо диапазон "<start> to <end>".
type RollPart struct {
	Raw   string
	Start RollNumber
	End   RollNumber
}

// IsRange возвращает true для частей вида "<start> to <end>".
func (p RollPart) IsRange() bool {
	return p.Start.Cmp(p.End) != 0 || strings.Contains(p.Raw, rangeSeparator)
}

// Contains проверяет, попадает ли номер в часть включительно.
func (p RollPart) Contains(r RollNumber) bool {
	if !r.IsNumeric() {
		return false
	}
	return r.Cmp(p.Start) >= 0 && r.Cmp(p.End) <= 0
}

// ExamKind - тип экзамена, значение поля "type" в артефакте.
type ExamKind string

const (
	KindTheory    ExamKind = "Theory"
	KindPractical ExamKind = "Practical"
)

// Default values used when a grid column has no parsed header or venue.
const (
	UnknownPanel   = "Unknown"
	UnknownSubject = "Unknown"
	UnknownVenue   = "TBD"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// TheoryEntry - один экзамен по теории, назначенный студенту.
type TheoryEntry struct {
	Date     string
	Subject  string
	Time     string
	Location string
}

// Kind возвращает KindTheory.
func (TheoryEntry) Kind() ExamKind { return KindTheory }

// PracticalEntry - один практический экзамен, назначенный студенту.
type PracticalEntry struct {
	Date      string
	Subject   string
	Panel     string
	Professor string
	Time      string
	Location  string
}

// Kind возвращает KindPractical.
func (PracticalEntry) Kind() ExamKind { return KindPractical }

// StudentRecord - центральная сущность: студент и его экзамены.
// Списки экзаменов никогда не nil после создания.
type StudentRecord struct {
	// RollNo - уникальный ключ реестра.
	RollNo RollNumber

	// Name - имя из списка студентов, по нему ищутся строки практики.
	Name string

	// Theory - экзамены по теории в порядке появления в файле.
	Theory []TheoryEntry

	// Practical - практические экзамены в порядке появления в файле.
	Practical []PracticalEntry
}

// NewStudentRecord создаёт запись с пустыми списками экзаменов.
func NewStudentRecord(rollNo, name string) *StudentRecord {
	return &StudentRecord{
		RollNo:    NewRollNumber(rollNo),
		Name:      name,
		Theory:    []TheoryEntry{},
		Practical: []PracticalEntry{},
	}
}

// AddTheory добавляет экзамен по теории.
func (s *StudentRecord) AddTheory(e TheoryEntry) {
	s.Theory = append(s.Theory, e)
}

// AddPractical добавляет практический экзамен.
func (s *StudentRecord) AddPractical(e PracticalEntry) {
	s.Practical = append(s.Practical, e)
}

// ExamCount возвращает общее число экзаменов студента.
func (s *StudentRecord) ExamCount() int {
	return len(s.Theory) + len(s.Practical)
}

// MatchesQuery реализует поиск из интерфейса: подстрока имени без учёта
// регистра или подстрока номера.
func (s *StudentRecord) MatchesQuery(q string) bool {
	if q == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s.Name), strings.ToLower(q)) ||
		strings.Contains(s.RollNo.String(), q)
}
