/*
 *    Copyright 2025 Jeff Galyan
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

package syllabus

// Health is the backend's liveness report.
type Health struct {
	Status    string `json:"status"`
	Version   string `json:"version,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Curriculum is the full course of study, ordered by phase.
type Curriculum struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Phases      []CurriculumPhase `json:"phases"`
}

// CurriculumPhase groups lessons and the projects that close them out.
type CurriculumPhase struct {
	ID          int                `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Order       int                `json:"order"`
	Lessons     []CurriculumLesson `json:"lessons"`
	Projects    []Project          `json:"projects,omitempty"`
}

// CurriculumLesson is the summary of a lesson as listed in the curriculum.
type CurriculumLesson struct {
	ID              int    `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Order           int    `json:"order"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	Difficulty      string `json:"difficulty,omitempty"`
}

// Project is a hands-on assignment attached to a phase.
type Project struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Difficulty  string   `json:"difficulty,omitempty"`
	Skills      []string `json:"skills,omitempty"`
}

// LessonDetail is the full content of one lesson.
type LessonDetail struct {
	ID              int              `json:"id"`
	PhaseID         int              `json:"phase_id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Content         string           `json:"content"`
	Objectives      []string         `json:"objectives,omitempty"`
	DurationMinutes int              `json:"duration_minutes,omitempty"`
	Exercises       []LessonExercise `json:"exercises,omitempty"`
	PrevLessonID    *int             `json:"prev_lesson_id,omitempty"`
	NextLessonID    *int             `json:"next_lesson_id,omitempty"`
}

// LessonExercise is a practice challenge within a lesson.
type LessonExercise struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Prompt      string   `json:"prompt"`
	Difficulty  string   `json:"difficulty,omitempty"`
	StarterCode string   `json:"starter_code,omitempty"`
	Hints       []string `json:"hints,omitempty"`
}

// Course is one entry of the course catalogue.
type Course struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Level       string `json:"level,omitempty"`
	LessonCount int    `json:"lesson_count"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// LessonProgress is a user's recorded state for one lesson.
type LessonProgress struct {
	UserID    string  `json:"user_id"`
	LessonID  string  `json:"lesson_id"`
	Completed bool    `json:"completed"`
	Score     float64 `json:"score"`
	UpdatedAt string  `json:"updated_at,omitempty"`
}

// ProgressUpdate is the body of a lesson progress report.
type ProgressUpdate struct {
	Completed bool    `json:"completed"`
	Score     float64 `json:"score"`
}

// Pagination describes where a Page sits in the full result set.
type Pagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	TotalItems int  `json:"total_items"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// Page is one slice of a paginated list.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// PageRequest selects a page of a list endpoint. Zero fields are omitted and
// the backend's defaults apply.
type PageRequest struct {
	Page     int `query:"page"`
	PageSize int `query:"page_size"`
}
