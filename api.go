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

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

const apiPrefix = "/api/v1"

// Health checks that the backend is up.
func (c *Client) Health(ctx context.Context) (Health, error) {
	return Execute[Health](ctx, c, apiPrefix+"/health", RequestOptions{})
}

// Curriculum fetches the whole curriculum.
func (c *Client) Curriculum(ctx context.Context) (Curriculum, error) {
	return Execute[Curriculum](ctx, c, apiPrefix+"/curriculum", RequestOptions{})
}

// Lesson fetches one lesson's full content.
func (c *Client) Lesson(ctx context.Context, lessonID int) (LessonDetail, error) {
	return Execute[LessonDetail](ctx, c, apiPrefix+"/curriculum/lesson/"+strconv.Itoa(lessonID), RequestOptions{})
}

// Courses lists the course catalogue.
func (c *Client) Courses(ctx context.Context, p PageRequest) (Page[Course], error) {
	q, err := EncodeQuery(p)
	if err != nil {
		return Page[Course]{}, transportError(err)
	}
	return Execute[Page[Course]](ctx, c, apiPrefix+"/courses", RequestOptions{Query: q})
}

// Course fetches one course.
func (c *Client) Course(ctx context.Context, courseID string) (Course, error) {
	return Execute[Course](ctx, c, apiPrefix+"/courses/"+url.PathEscape(courseID), RequestOptions{})
}

// Progress lists a user's lesson progress.
func (c *Client) Progress(ctx context.Context, userID string, p PageRequest) (Page[LessonProgress], error) {
	q, err := EncodeQuery(p)
	if err != nil {
		return Page[LessonProgress]{}, transportError(err)
	}
	return Execute[Page[LessonProgress]](ctx, c, apiPrefix+"/progress/"+url.PathEscape(userID), RequestOptions{Query: q})
}

// UpdateLessonProgress records a user's result for one lesson and returns the
// stored progress.
func (c *Client) UpdateLessonProgress(ctx context.Context, userID, lessonID string, u ProgressUpdate) (LessonProgress, error) {
	path := apiPrefix + "/progress/" + url.PathEscape(userID) + "/lesson/" + url.PathEscape(lessonID)
	return Execute[LessonProgress](ctx, c, path, RequestOptions{Method: http.MethodPost, Body: u})
}
