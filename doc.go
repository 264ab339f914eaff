// Package studykit is the composition root for the study toolkit.
//
// It connects the artifact model and session state machines (pkg/core,
// pkg/session) with the storage adapters (pkg/adapters/*) and the text
// generator (pkg/generate), using the same hexagonal layout throughout.
//
// A Workspace turns source notes into three kinds of artifacts:
//
//   - Quizzes: multiple-choice questions parsed from generated text.
//   - Flashcards: two-sided cards, authored one at a time and approved into a deck.
//   - Mind maps: a concept graph navigated by progressive reveal.
//
// Artifacts persist as pretty-printed JSON through any core.Repository. The
// default adapter writes files under a directory; "redis" and "sql" adapters
// keep the same keys in Redis or in a SQLite/Postgres table.
//
// Usage:
//
//	ws, err := studykit.Open("./notes", generate.NewClient(generate.ClientConfig{APIKey: key}),
//		studykit.WithLogger(logger),
//	)
//
//	key := core.ArtifactKey("biology", core.KindQuiz, "cells")
//	questions, report, err := ws.GenerateQuiz(ctx, key, text, generate.QuizOptions{Count: 5})
package studykit
