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

package syllabustest

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/jrgalyan/syllabus"
)

// Fixtures is the read-only content the fake backend serves.
type Fixtures struct {
	Curriculum syllabus.Curriculum
	Lessons    map[int]syllabus.LessonDetail
	Courses    []syllabus.Course
	Version    string
}

func intPtr(n int) *int { return &n }

// DefaultFixtures returns a small two-phase curriculum with three lessons and
// two courses.
func DefaultFixtures() Fixtures {
	lessons := map[int]syllabus.LessonDetail{
		1: {
			ID: 1, PhaseID: 1, Title: "Variables and Types",
			Description: "Declaring values and reading type signatures.",
			Content:     "# Variables and Types\n\nEvery value has a type.",
			Objectives:  []string{"declare variables", "use zero values"},
			Exercises: []syllabus.LessonExercise{
				{ID: "1-1", Title: "Swap", Prompt: "Swap two integers without a temporary.", Difficulty: "easy"},
			},
			NextLessonID: intPtr(2),
		},
		2: {
			ID: 2, PhaseID: 1, Title: "Control Flow",
			Description:  "if, for and switch.",
			Content:      "# Control Flow",
			Objectives:   []string{"write loops", "branch on conditions"},
			PrevLessonID: intPtr(1),
			NextLessonID: intPtr(3),
		},
		3: {
			ID: 3, PhaseID: 2, Title: "Concurrency Basics",
			Description: "Goroutines and channels.",
			Content:     "# Concurrency Basics",
			Exercises: []syllabus.LessonExercise{
				{ID: "3-1", Title: "Fan-in", Prompt: "Merge two channels.", Difficulty: "medium", Hints: []string{"use select"}},
			},
			PrevLessonID: intPtr(2),
		},
	}
	return Fixtures{
		Curriculum: syllabus.Curriculum{
			ID: "core", Title: "Core Track", Description: "From first program to concurrent services.",
			Phases: []syllabus.CurriculumPhase{
				{
					ID: 1, Title: "Foundations", Order: 1,
					Lessons: []syllabus.CurriculumLesson{
						{ID: 1, Title: "Variables and Types", Order: 1, DurationMinutes: 20, Difficulty: "easy"},
						{ID: 2, Title: "Control Flow", Order: 2, DurationMinutes: 25, Difficulty: "easy"},
					},
					Projects: []syllabus.Project{{ID: 1, Title: "FizzBuzz CLI", Skills: []string{"loops"}}},
				},
				{
					ID: 2, Title: "Concurrency", Order: 2,
					Lessons: []syllabus.CurriculumLesson{
						{ID: 3, Title: "Concurrency Basics", Order: 1, DurationMinutes: 40, Difficulty: "medium"},
					},
				},
			},
		},
		Lessons: lessons,
		Courses: []syllabus.Course{
			{ID: "go-101", Title: "Go 101", Level: "beginner", LessonCount: 2},
			{ID: "go-201", Title: "Go 201", Level: "intermediate", LessonCount: 1},
		},
		Version: "test",
	}
}

type store struct {
	fx Fixtures

	mu       sync.RWMutex
	progress map[string]map[string]syllabus.LessonProgress // user -> lesson -> progress
}

func newStore(fx Fixtures) *store {
	return &store{fx: fx, progress: map[string]map[string]syllabus.LessonProgress{}}
}

func (s *store) lesson(id int) (syllabus.LessonDetail, bool) {
	l, ok := s.fx.Lessons[id]
	return l, ok
}

func (s *store) course(id string) (syllabus.Course, bool) {
	for _, c := range s.fx.Courses {
		if c.ID == id {
			return c, true
		}
	}
	return syllabus.Course{}, false
}

// userProgress returns a user's records ordered by lesson id.
func (s *store) userProgress(userID string) []syllabus.LessonProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]syllabus.LessonProgress, 0, len(s.progress[userID]))
	for _, p := range s.progress[userID] {
		res = append(res, p)
	}
	sort.Slice(res, func(i, j int) bool {
		a, errA := strconv.Atoi(res[i].LessonID)
		b, errB := strconv.Atoi(res[j].LessonID)
		if errA == nil && errB == nil {
			return a < b
		}
		return res[i].LessonID < res[j].LessonID
	})
	return res
}

func (s *store) record(userID, lessonID string, u syllabus.ProgressUpdate) syllabus.LessonProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := syllabus.LessonProgress{
		UserID:    userID,
		LessonID:  lessonID,
		Completed: u.Completed,
		Score:     u.Score,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if s.progress[userID] == nil {
		s.progress[userID] = map[string]syllabus.LessonProgress{}
	}
	s.progress[userID][lessonID] = p
	return p
}
