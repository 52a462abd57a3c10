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
	"log/slog"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"

	"github.com/jrgalyan/syllabus"
	"github.com/jrgalyan/syllabus/syllabustest"
)

var _ = Describe("run", func() {
	var (
		srv            *httptest.Server
		backend        *syllabustest.Backend
		c              *syllabus.Client
		stdout, stderr *gbytes.Buffer
	)

	BeforeEach(func() {
		srv, backend = syllabustest.NewServer(syllabustest.DefaultFixtures())
		DeferCleanup(srv.Close)
		logger := slog.New(slog.NewTextHandler(gbytes.NewBuffer(), nil))
		c = newClient(syllabus.Config{BaseURL: srv.URL}, logger)
		stdout, stderr = gbytes.NewBuffer(), gbytes.NewBuffer()
	})

	exec := func(args ...string) int {
		return run(context.Background(), args, c, stdout, stderr)
	}

	It("prints health", func() {
		Expect(exec("health")).To(Equal(0))
		Expect(stdout).To(gbytes.Say(`status:\s+ok`))
		Expect(stdout).To(gbytes.Say(`version:\s+test`))
	})

	It("prints the curriculum", func() {
		Expect(exec("curriculum")).To(Equal(0))
		Expect(stdout).To(gbytes.Say("Core Track"))
		Expect(stdout).To(gbytes.Say(`phase 1\s+Foundations`))
		Expect(stdout).To(gbytes.Say(`project 1\s+FizzBuzz CLI`))
	})

	It("prints a lesson", func() {
		Expect(exec("lesson", "3")).To(Equal(0))
		Expect(stdout).To(gbytes.Say("lesson 3: Concurrency Basics"))
		Expect(stdout).To(gbytes.Say(`exercise 3-1\s+Fan-in`))
	})

	It("pages through courses", func() {
		Expect(exec("courses", "--page", "1", "--page-size", "1")).To(Equal(0))
		Expect(stdout).To(gbytes.Say(`go-101\s+Go 101`))
		Expect(stdout).To(gbytes.Say(`page 1/2 \(2 items\) next available`))
	})

	It("records and lists progress", func() {
		Expect(exec("complete", "--score", "95", "u1", "3")).To(Equal(0))
		Expect(stdout).To(gbytes.Say(`lesson 3\s+completed\s+score 95`))

		Expect(exec("progress", "u1")).To(Equal(0))
		Expect(stdout).To(gbytes.Say(`lesson 3\s+completed`))
		Expect(stdout).To(gbytes.Say(`page 1/1 \(1 items\)`))
	})

	It("prints data as JSON", func() {
		Expect(exec("--json", "course", "go-201")).To(Equal(0))
		var course syllabus.Course
		Expect(json.Unmarshal(stdout.Contents(), &course)).To(Succeed())
		Expect(course.Level).To(Equal("intermediate"))
	})

	It("prints the version", func() {
		Expect(exec("version")).To(Equal(0))
		Expect(stdout).To(gbytes.Say("syllabus dev"))
	})

	Describe("failures", func() {
		It("exits 1 with the backend's message and details", func() {
			Expect(exec("complete", "--score", "150", "u1", "3")).To(Equal(1))
			Expect(stderr).To(gbytes.Say(`error: invalid request \(status 400, validation_error\)`))
			Expect(stderr).To(gbytes.Say("  score: must be between 0 and 100"))
			Expect(stderr).To(gbytes.Say("  request id: "))
		})

		It("exits 1 for a missing resource", func() {
			Expect(exec("lesson", "99")).To(Equal(1))
			Expect(stderr).To(gbytes.Say(`lesson not found \(status 404, not_found\)`))
		})

		It("reports an unreachable backend", func() {
			srv.Close()
			Expect(exec("health")).To(Equal(1))
			Expect(stderr).To(gbytes.Say("error: could not reach backend: "))
		})

		It("reports a malformed response as unreachable", func() {
			backend.InjectFault(http.MethodGet, "/api/v1/health", syllabustest.Fault{RawBody: "oops"})
			Expect(exec("health")).To(Equal(1))
			Expect(stderr).To(gbytes.Say("could not reach backend"))
		})
	})

	Describe("usage errors", func() {
		It("exits 2 without a command", func() {
			Expect(exec()).To(Equal(2))
			Expect(stderr).To(gbytes.Say("usage: syllabus"))
		})

		It("suggests a close command", func() {
			Expect(exec("lesons")).To(Equal(2))
			Expect(stderr).To(gbytes.Say(`unknown command "lesons", did you mean "lesson"\?`))
		})

		It("does not suggest for unrelated words", func() {
			Expect(exec("frobnicate")).To(Equal(2))
			Expect(stderr).To(gbytes.Say(`unknown command "frobnicate"`))
			Expect(string(stderr.Contents())).NotTo(ContainSubstring("did you mean"))
		})

		It("rejects bad arguments", func() {
			Expect(exec("lesson", "three")).To(Equal(2))
			Expect(exec("course")).To(Equal(2))
			Expect(exec("complete", "u1")).To(Equal(2))
			Expect(exec("courses", "--page", "x")).To(Equal(2))
			Expect(exec("--bogus")).To(Equal(2))
		})
	})
})

var _ = Describe("suggest", func() {
	DescribeTable("picks the nearest command within two edits",
		func(in, want string) { Expect(suggest(in)).To(Equal(want)) },
		Entry("transposition", "helath", "health"),
		Entry("exact match", "course", "course"),
		Entry("plural slip", "coursess", "courses"),
		Entry("nothing close", "xyz", ""),
	)
})
