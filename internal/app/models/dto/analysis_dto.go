package dto

import "github.com/yigit/eduadmin/internal/app/models"

// RuntimeStats describes the serving process
type RuntimeStats struct {
	Goroutines    int     `json:"goroutines"`
	HeapAllocMB   float64 `json:"heapAllocMb"`
	SysMB         float64 `json:"sysMb"`
	NumGC         uint32  `json:"numGc"`
	NumCPU        int     `json:"numCpu"`
	UptimeSeconds int64   `json:"uptimeSeconds"`
	GoVersion     string  `json:"goVersion"`
}

// AnalysisTotals counts rows per entity
type AnalysisTotals struct {
	Departments int64 `json:"departments"`
	Courses     int64 `json:"courses"`
	Instructors int64 `json:"instructors"`
	Students    int64 `json:"students"`
	Enrollments int64 `json:"enrollments"`
}

// AnalysisResponse is the read-only overview served at /analysis
type AnalysisResponse struct {
	Runtime RuntimeStats         `json:"runtime"`
	Totals  AnalysisTotals       `json:"totals"`
	Courses []models.CourseStats `json:"courses"`
}
