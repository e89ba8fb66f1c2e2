// Package jsonfile persists the schedule artifact: one JSON array of student
// records, the flat file the search front end reads.
package jsonfile

// StudentDTO is the wire shape of one student record.
type StudentDTO struct {
	RollNo    string         `json:"rollNo"`
	Name      string         `json:"name"`
	Theory    []TheoryDTO    `json:"theory"`
	Practical []PracticalDTO `json:"practical"`
}

// TheoryDTO is the wire shape of one theory exam.
type TheoryDTO struct {
	Date     string `json:"date"`
	Subject  string `json:"subject"`
	Time     string `json:"time"`
	Location string `json:"location"`
	Type     string `json:"type"`
}

// PracticalDTO is the wire shape of one practical exam.
type PracticalDTO struct {
	Date      string `json:"date"`
	Subject   string `json:"subject"`
	Panel     string `json:"panel"`
	Time      string `json:"time"`
	Location  string `json:"location"`
	Type      string `json:"type"`
	Professor string `json:"professor,omitempty"`
}
