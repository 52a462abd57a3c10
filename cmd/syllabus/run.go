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
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/agnivade/levenshtein"

	"github.com/jrgalyan/syllabus"
)

var commands = []string{"health", "curriculum", "lesson", "courses", "course", "progress", "complete", "version"}

// usageError marks bad invocations, which exit 2 instead of 1.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "usage: syllabus [--json] <command> [flags] [args]")
	_, _ = fmt.Fprintln(w, "  health")
	_, _ = fmt.Fprintln(w, "  curriculum")
	_, _ = fmt.Fprintln(w, "  lesson <lesson-id>")
	_, _ = fmt.Fprintln(w, "  courses [--page N] [--page-size N]")
	_, _ = fmt.Fprintln(w, "  course <course-id>")
	_, _ = fmt.Fprintln(w, "  progress [--page N] [--page-size N] <user-id>")
	_, _ = fmt.Fprintln(w, "  complete [--score N] [--completed=false] <user-id> <lesson-id>")
	_, _ = fmt.Fprintln(w, "  version")
}

// run executes one command and returns the process exit code: 0 on success,
// 1 when the request failed, 2 on a usage error.
func run(ctx context.Context, args []string, c *syllabus.Client, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("syllabus", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { usage(stderr) }
	asJSON := global.Bool("json", false, "print the response data as JSON")
	if err := global.Parse(args); err != nil {
		return 2
	}
	rest := global.Args()
	if len(rest) == 0 {
		usage(stderr)
		return 2
	}

	name, cmdArgs := rest[0], rest[1:]
	if name == "version" {
		_, _ = fmt.Fprintf(stdout, "syllabus %s\n", version)
		return 0
	}
	v, err := dispatch(ctx, c, name, cmdArgs, stderr)
	if err != nil {
		var ue usageError
		if errors.As(err, &ue) {
			_, _ = fmt.Fprintln(stderr, ue.msg)
			return 2
		}
		printError(stderr, err)
		return 1
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			_, _ = fmt.Fprintln(stderr, err.Error())
			return 1
		}
		return 0
	}
	printHuman(stdout, v)
	return 0
}

func dispatch(ctx context.Context, c *syllabus.Client, name string, args []string, stderr io.Writer) (any, error) {
	switch name {
	case "health":
		return c.Health(ctx)
	case "curriculum":
		return c.Curriculum(ctx)
	case "lesson":
		if len(args) != 1 {
			return nil, usageError{"lesson: expected <lesson-id>"}
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, usageError{"lesson: lesson id must be an integer"}
		}
		return c.Lesson(ctx, id)
	case "courses":
		p, rest, err := pageFlags("courses", args, stderr)
		if err != nil {
			return nil, err
		}
		if len(rest) != 0 {
			return nil, usageError{"courses: unexpected arguments"}
		}
		return c.Courses(ctx, p)
	case "course":
		if len(args) != 1 {
			return nil, usageError{"course: expected <course-id>"}
		}
		return c.Course(ctx, args[0])
	case "progress":
		p, rest, err := pageFlags("progress", args, stderr)
		if err != nil {
			return nil, err
		}
		if len(rest) != 1 {
			return nil, usageError{"progress: expected <user-id>"}
		}
		return c.Progress(ctx, rest[0], p)
	case "complete":
		fs := flag.NewFlagSet("complete", flag.ContinueOnError)
		fs.SetOutput(stderr)
		score := fs.Float64("score", 100, "score for the lesson")
		completed := fs.Bool("completed", true, "mark the lesson completed")
		if err := fs.Parse(args); err != nil {
			return nil, usageError{"complete: " + err.Error()}
		}
		if fs.NArg() != 2 {
			return nil, usageError{"complete: expected <user-id> <lesson-id>"}
		}
		return c.UpdateLessonProgress(ctx, fs.Arg(0), fs.Arg(1), syllabus.ProgressUpdate{Completed: *completed, Score: *score})
	}

	msg := fmt.Sprintf("unknown command %q", name)
	if s := suggest(name); s != "" {
		msg += fmt.Sprintf(", did you mean %q?", s)
	}
	return nil, usageError{msg}
}

func pageFlags(name string, args []string, stderr io.Writer) (syllabus.PageRequest, []string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	var p syllabus.PageRequest
	fs.IntVar(&p.Page, "page", 0, "page number (1-based)")
	fs.IntVar(&p.PageSize, "page-size", 0, "items per page")
	if err := fs.Parse(args); err != nil {
		return p, nil, usageError{name + ": " + err.Error()}
	}
	return p, fs.Args(), nil
}

// suggest returns the known command closest to name, if any is close enough
// to be a typo.
func suggest(name string) string {
	best, bestDist := "", 3
	for _, c := range commands {
		if d := levenshtein.ComputeDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func printError(w io.Writer, err error) {
	ce, ok := syllabus.AsClientError(err)
	if !ok {
		_, _ = fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	switch {
	case ce.Transport():
		_, _ = fmt.Fprintf(w, "error: could not reach backend: %s\n", ce.Message)
	case ce.Kind != "":
		_, _ = fmt.Fprintf(w, "error: %s (status %d, %s)\n", ce.Message, ce.Status, ce.Kind)
	default:
		_, _ = fmt.Fprintf(w, "error: %s (status %d)\n", ce.Message, ce.Status)
	}
	fields := make([]string, 0, len(ce.Details))
	for f := range ce.Details {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		_, _ = fmt.Fprintf(w, "  %s: %s\n", f, ce.Details[f])
	}
	if ce.RequestID != "" {
		_, _ = fmt.Fprintf(w, "  request id: %s\n", ce.RequestID)
	}
}
