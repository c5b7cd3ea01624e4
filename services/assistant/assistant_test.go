package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	courseModels "learnhub/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeOpenAI(t *testing.T, reply string, seen *[]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		for _, m := range req.Messages {
			*seen = append(*seen, m.Content)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  req.Model,
			"choices": []map[string]interface{}{
				{"index": 0, "finish_reason": "stop", "message": map[string]string{"role": "assistant", "content": reply}},
			},
		})
	}))
}

func TestSummarizeCourseSendsOutline(t *testing.T) {
	var seen []string
	srv := fakeOpenAI(t, "A short summary.", &seen)
	defer srv.Close()

	a := New("sk-test", srv.URL+"/v1", "gpt-4o-mini", 10)
	course := courseModels.Course{Title: "Concurrency in Go", Description: "Goroutines and channels"}
	course.ID = 1
	module := courseModels.Module{CourseID: 1, Title: "Channels"}
	module.ID = 2
	contents := []courseModels.CourseContent{{ModuleID: 2, Day: 1, Title: "Buffered channels", ContentType: courseModels.ContentTypeText}}

	out, err := a.SummarizeCourse(context.Background(), course, []courseModels.Module{module}, contents)
	require.NoError(t, err)
	assert.Equal(t, "A short summary.", out)
	require.Len(t, seen, 2)
	assert.Contains(t, seen[1], "Concurrency in Go")
	assert.Contains(t, seen[1], "Buffered channels")
}

func TestExplainContentIncludesQuestion(t *testing.T) {
	var seen []string
	srv := fakeOpenAI(t, "Think of it as a queue.", &seen)
	defer srv.Close()

	a := New("sk-test", srv.URL+"/v1", "", 10)
	out, err := a.ExplainContent(context.Background(), courseModels.CourseContent{Title: "Select"}, "why does it block?")
	require.NoError(t, err)
	assert.Equal(t, "Think of it as a queue.", out)
	assert.Contains(t, seen[1], "why does it block?")
}

func TestDisabledWithoutKey(t *testing.T) {
	a := New("", "", "gpt-4o-mini", 10)
	assert.False(t, a.Enabled())
	_, err := a.ExplainContent(context.Background(), courseModels.CourseContent{}, "")
	assert.ErrorIs(t, err, ErrDisabled)

	var nilAssistant *Assistant
	assert.False(t, nilAssistant.Enabled())
}

func TestRateLimited(t *testing.T) {
	var seen []string
	srv := fakeOpenAI(t, "ok", &seen)
	defer srv.Close()

	a := New("sk-test", srv.URL+"/v1", "gpt-4o-mini", 1)
	_, err := a.ExplainContent(context.Background(), courseModels.CourseContent{Title: "One"}, "")
	require.NoError(t, err)
	_, err = a.ExplainContent(context.Background(), courseModels.CourseContent{Title: "Two"}, "")
	assert.ErrorIs(t, err, ErrRateLimited)
}
