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

package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/jrgalyan/syllabus"
)

func printHuman(w io.Writer, v any) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer func() { _ = tw.Flush() }()

	switch x := v.(type) {
	case syllabus.Health:
		_, _ = fmt.Fprintf(tw, "status:\t%s\n", x.Status)
		if x.Version != "" {
			_, _ = fmt.Fprintf(tw, "version:\t%s\n", x.Version)
		}
	case syllabus.Curriculum:
		_, _ = fmt.Fprintf(tw, "%s\n", x.Title)
		for _, ph := range x.Phases {
			_, _ = fmt.Fprintf(tw, "phase %d\t%s\n", ph.Order, ph.Title)
			for _, l := range ph.Lessons {
				_, _ = fmt.Fprintf(tw, "  lesson %d\t%s\t%dm\n", l.ID, l.Title, l.DurationMinutes)
			}
			for _, p := range ph.Projects {
				_, _ = fmt.Fprintf(tw, "  project %d\t%s\t\n", p.ID, p.Title)
			}
		}
	case syllabus.LessonDetail:
		_, _ = fmt.Fprintf(tw, "lesson %d: %s\n", x.ID, x.Title)
		if x.Description != "" {
			_, _ = fmt.Fprintf(tw, "%s\n", x.Description)
		}
		for _, o := range x.Objectives {
			_, _ = fmt.Fprintf(tw, "  - %s\n", o)
		}
		for _, e := range x.Exercises {
			_, _ = fmt.Fprintf(tw, "exercise %s\t%s\t%s\n", e.ID, e.Title, e.Difficulty)
		}
	case syllabus.Course:
		printCourse(tw, x)
	case syllabus.Page[syllabus.Course]:
		for _, c := range x.Items {
			printCourse(tw, c)
		}
		printPagination(tw, x.Pagination)
	case syllabus.LessonProgress:
		printProgress(tw, x)
	case syllabus.Page[syllabus.LessonProgress]:
		for _, p := range x.Items {
			printProgress(tw, p)
		}
		printPagination(tw, x.Pagination)
	default:
		_, _ = fmt.Fprintf(tw, "%+v\n", v)
	}
}

func printCourse(w io.Writer, c syllabus.Course) {
	_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d lessons\n", c.ID, c.Title, c.Level, c.LessonCount)
}

func printProgress(w io.Writer, p syllabus.LessonProgress) {
	state := "in progress"
	if p.Completed {
		state = "completed"
	}
	_, _ = fmt.Fprintf(w, "lesson %s\t%s\tscore %g\n", p.LessonID, state, p.Score)
}

func printPagination(w io.Writer, p syllabus.Pagination) {
	var more []string
	if p.HasPrev {
		more = append(more, "prev")
	}
	if p.HasNext {
		more = append(more, "next")
	}
	line := fmt.Sprintf("page %d/%d (%d items)", p.Page, p.TotalPages, p.TotalItems)
	if len(more) > 0 {
		line += " " + strings.Join(more, ", ") + " available"
	}
	_, _ = fmt.Fprintln(w, line)
}
