// Package schedule содержит доменную модель экзаменационного расписания студентов.
//
// Это ядро системы "Exam Schedule Hub". Пакет превращает три выгрузки из
// таблиц (список студентов, расписание теории, сетку практики) в единый
// реестр записей по студентам:
//
//   - Сущности: StudentRecord, TheoryEntry, PracticalEntry
//   - Value Objects: RollNumber, RollPart, PanelHeader
//   - Реестр: Registry (roll number -> одна запись, порядок вставки сохраняется)
//   - Проходы: LoadRoster, AssignTheory, AssignPractical, EnrichPractical
//   - Диагностика: Diagnostics (пропущенные строки, ненайденные имена и диапазоны)
//
// # Архитектурные принципы
//
//  1. Нулевые внешние зависимости - только стандартная библиотека Go
//  2. На вход подаются уже разобранные строки (Row); чтение файлов и
//     токенизация живут в infrastructure/csvsource
//  3. Ошибки разбора не прерывают проход: строка пропускается, а причина
//     попадает в Diagnostics
//
// # Порядок проходов
//
//	diags := &schedule.Diagnostics{}
//	reg := schedule.LoadRoster(rosterRows, diags)
//	schedule.AssignTheory(reg, theoryRows, diags)
//	schedule.AssignPractical(reg, practicalRows, schedule.DefaultMarkers(), diags)
//	records := reg.Records()
//
// Проход обогащения (EnrichPractical) работает поверх уже сохранённого
// артефакта: он только обновляет location/professor существующих
// практических экзаменов и никогда не создаёт новые.
package schedule
