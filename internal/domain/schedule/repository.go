package schedule

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Контракты хранилищ. Реализации находятся в infrastructure.
// ══════════════════════════════════════════════════════════════════════════════

// Snapshot - загруженный артефакт вместе с его версией.
type Snapshot struct {
	Records []*StudentRecord
	// Digest - hex BLAKE2b-256 содержимого файла, версия набора данных.
	Digest string
	Size   int
}

// SaveResult описывает завершённую запись артефакта.
type SaveResult struct {
	Path   string
	Digest string
	Bytes  int
	// Unchanged - файл уже содержал идентичные байты и не перезаписывался.
	Unchanged bool
}

// ArtifactRepository хранит итоговый JSON-массив студентов.
type ArtifactRepository interface {
	// Load читает артефакт.
	// Возвращает ошибку с видом ErrIO, если файл не читается.
	Load(ctx context.Context) (*Snapshot, error)

	// Save атомарно заменяет артефакт. При ошибке прежний файл не меняется.
	Save(ctx context.Context, records []*StudentRecord) (SaveResult, error)
}

// SourceRepository отдаёт строки одной выгрузки таблицы.
type SourceRepository interface {
	Rows(ctx context.Context, src Source) ([]Row, error)
}

// ReportWriter сохраняет отчёт диагностики.
type ReportWriter interface {
	WriteReport(ctx context.Context, report *Report) error
}

// Report - содержимое файла диагностики.
type Report struct {
	RunID       string                 `json:"runId"`
	Mode        string                 `json:"mode"`
	Counts      map[string]int         `json:"counts"`
	Summary     map[DiagnosticKind]int `json:"summary"`
	Diagnostics []Diagnostic           `json:"diagnostics"`
}
