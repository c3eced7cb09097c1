package learnapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lexiflash/internal/learnapi"
	"github.com/vytor/lexiflash/internal/models"
)

type fakeAuth struct {
	token   string
	logouts int
}

func (f *fakeAuth) Token() string { return f.token }

func (f *fakeAuth) Logout(context.Context) error {
	f.logouts++
	f.token = ""
	return nil
}

func TestClient_FetchWordsEndpoints(t *testing.T) {
	var gotPaths []string
	var gotAuth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPaths = append(gotPaths, r.URL.Path+"?"+r.URL.RawQuery)
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"words": []models.LearningWord{{ID: "w1", Word: "apple", Level: "new", LearningType: "fill-in-blank", Score: 0.2}},
		})
	}))
	defer srv.Close()

	c := learnapi.New(srv.URL+"/", &fakeAuth{token: "tok"})
	ctx := context.Background()

	words, err := c.CollectionLearnWords(ctx, "basics", 10)
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "apple", words[0].Word)
	assert.Equal(t, "fill-in-blank", words[0].LearningType)

	_, err = c.CollectionReviewWords(ctx, "basics", 5)
	require.NoError(t, err)
	_, err = c.TopicReviewWords(ctx, "animals", 7)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/learning/collections/basics/learn?numOfWords=10",
		"/learning/collections/basics/review?numOfWords=5",
		"/learning/topics/animals/review?numOfWords=7",
	}, gotPaths)
	for _, h := range gotAuth {
		assert.Equal(t, "Bearer tok", h)
	}
}

func TestClient_EmptyWordsIsEmptySlice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"words":null}`))
	}))
	defer srv.Close()

	words, err := learnapi.New(srv.URL, nil).TopicReviewWords(context.Background(), "animals", 10)
	require.NoError(t, err)
	assert.NotNil(t, words)
	assert.Empty(t, words)
}

func TestClient_SubmitUpdatesSendsOrderedBatch(t *testing.T) {
	var got []models.WordUpdate
	var method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		assert.Equal(t, "/learning", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	batch := []models.WordUpdate{{WordID: "a", IsCorrect: true}, {WordID: "b"}, {WordID: "c", IsCorrect: true}}
	require.NoError(t, learnapi.New(srv.URL, nil).SubmitUpdates(context.Background(), batch))

	assert.Equal(t, http.MethodPatch, method)
	assert.Equal(t, batch, got)
}

func TestClient_UnauthorizedLogsOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	auth := &fakeAuth{token: "stale"}
	_, err := learnapi.New(srv.URL, auth).WordDetail(context.Background(), "apple")

	require.Error(t, err)
	assert.True(t, errors.Is(err, learnapi.ErrUnauthorized))
	assert.Equal(t, 1, auth.logouts)
	assert.Empty(t, auth.token)
}

func TestClient_StatusErrorCarriesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "collection gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := learnapi.New(srv.URL, nil).CollectionLearnWords(context.Background(), "x", 1)

	var statusErr *learnapi.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.Status)
	assert.Equal(t, "collection gone", statusErr.Body)
}

func TestClient_WordDetailEscapesPath(t *testing.T) {
	var rawPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"phonetic":"/ˈaɪs kriːm/","meanings":[{"partOfSpeech":"noun","definitions":[{"definition":"a frozen dessert"}]}]}`))
	}))
	defer srv.Close()

	detail, err := learnapi.New(srv.URL, nil).WordDetail(context.Background(), "ice cream")
	require.NoError(t, err)
	assert.Equal(t, "/words/ice%20cream", rawPath)
	assert.Equal(t, "ice cream", detail.Word)
	assert.Equal(t, []string{"a frozen dessert"}, detail.Definitions())
}

func TestClient_SignInRequiresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var creds models.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Password == "right" {
			_ = json.NewEncoder(w).Encode(models.AuthResult{AccessToken: "tok", User: models.User{ID: "u1", Email: creds.Email}})
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := learnapi.New(srv.URL, nil)
	res, err := c.SignIn(context.Background(), models.Credentials{Email: "ana@example.com", Password: "right"})
	require.NoError(t, err)
	assert.Equal(t, "tok", res.AccessToken)

	_, err = c.SignIn(context.Background(), models.Credentials{Email: "ana@example.com", Password: "wrong"})
	assert.Error(t, err)
}
