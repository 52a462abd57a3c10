// Package syllabus is the typed client for the curriculum and progress service.
//
// Every call goes through one generic executor, Execute, which builds the
// request, decodes the backend's JSON envelope and turns every failure into a
// *ClientError:
//
//   - Status 0: no response could be interpreted (network failure,
//     cancellation, undecodable body, success without data).
//   - Status = HTTP status: the backend reported a failure; Kind and Details
//     carry its error type and per-field messages.
//
// Getting started:
//
//	c := syllabus.New(syllabus.Config{BaseURL: "http://localhost:8080"},
//		syllabus.WithMiddleware(syllabus.RequestID(), syllabus.Logger(syllabus.LoggerConfig{})),
//	)
//	lesson, err := c.Lesson(ctx, 3)
//	if ce, ok := syllabus.AsClientError(err); ok && ce.Kind == syllabus.KindNotFound {
//		// ...
//	}
//
// A Client has no mutable state and performs no retries or caching; each call
// is one independent attempt that can be cancelled through its context.
package syllabus
