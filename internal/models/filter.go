package models

// AllProjects — значение фильтра проекта, означающее «без ограничения по проекту».
const AllProjects = "All Projects"

// Filter описывает необязательные условия выборки финансовых записей.
// Даты передаются строками YYYY-MM-DD; пустое поле означает отсутствие условия.
type Filter struct {
	Project  string `json:"project"`
	FromDate string `json:"fromDate" validate:"omitempty,isodate"`
	ToDate   string `json:"toDate" validate:"omitempty,isodate"`
}

// HasProject сообщает, ограничивает ли фильтр выборку конкретным проектом.
func (f Filter) HasProject() bool {
	return f.Project != "" && f.Project != AllProjects
}
